package wordfmt

import (
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

// Property kinds encoded in bits 10-12 of a sprm (sgc).
const (
	KindPAP = 1
	KindCHP = 2
	KindPIC = 3
	KindSEP = 4
	KindTAP = 5
)

// sprmTDefTable carries a two-byte length prefix.
const sprmTDefTable = 0xD608

// Sprm is one decoded property operation from a grpprl.
type Sprm struct {
	Opcode  uint16
	Operand uint16 // opcode & 0x1FF
	Kind    uint8  // sgc
	Spra    uint8  // operand encoding
	Param   int32  // fixed-width operand, sign-extended where the encoding is signed
	Var     []byte // variable-length operand, spra 6 only

	grpprl []byte
	end    int // offset just past the operand
}

// wordsBefore reads the two 16-bit words that end at the operand's end.
func (s Sprm) wordsBefore() (BRC, error) {
	lo, err := lebin.Int16(s.grpprl, s.end-4)
	if err != nil {
		return BRC{}, err
	}
	hi, err := lebin.Int16(s.grpprl, s.end-2)
	if err != nil {
		return BRC{}, err
	}
	return BRC{lo, hi}, nil
}

// readSprm decodes the operation at off.
func readSprm(grpprl []byte, off int) (Sprm, error) {
	opcode, err := lebin.Uint16(grpprl, off)
	if err != nil {
		return Sprm{}, err
	}
	off += 2
	s := Sprm{
		Opcode:  opcode,
		Operand: opcode & 0x1FF,
		Kind:    uint8((opcode & 0x1C00) >> 10),
		Spra:    uint8(opcode >> 13),
		grpprl:  grpprl,
	}

	switch s.Spra {
	case 0, 1:
		v, err := lebin.Int8(grpprl, off)
		if err != nil {
			return Sprm{}, err
		}
		s.Param = int32(v)
		off++
	case 2, 4, 5:
		v, err := lebin.Int16(grpprl, off)
		if err != nil {
			return Sprm{}, err
		}
		s.Param = int32(v)
		off += 2
	case 3:
		v, err := lebin.Int32(grpprl, off)
		if err != nil {
			return Sprm{}, err
		}
		s.Param = v
		off += 4
	case 6:
		var size int
		if opcode == sprmTDefTable {
			n, err := lebin.Uint16(grpprl, off)
			if err != nil {
				return Sprm{}, err
			}
			size = int(n) - 1
			off += 2
		} else {
			n, err := lebin.Uint8(grpprl, off)
			if err != nil {
				return Sprm{}, err
			}
			size = int(n)
			off++
		}
		if size < 0 {
			return Sprm{}, fmt.Errorf("%w: sprm %#04x declares negative length", ErrUnrecognizedOperandEncoding, opcode)
		}
		v, err := lebin.Bytes(grpprl, off, size)
		if err != nil {
			return Sprm{}, err
		}
		s.Var = v
		off += size
	case 7:
		v, err := lebin.Uint24(grpprl, off)
		if err != nil {
			return Sprm{}, err
		}
		s.Param = int32(v)
		off += 3
	default:
		return Sprm{}, fmt.Errorf("%w: spra %d in sprm %#04x", ErrUnrecognizedOperandEncoding, s.Spra, opcode)
	}
	s.end = off
	return s, nil
}

// Sprms decodes every operation in grpprl starting at off.
func Sprms(grpprl []byte, off int) ([]Sprm, error) {
	var out []Sprm
	err := eachSprm(grpprl, off, func(s Sprm) error {
		out = append(out, s)
		return nil
	})
	return out, err
}

func eachSprm(grpprl []byte, off int, fn func(Sprm) error) error {
	for off < len(grpprl) {
		s, err := readSprm(grpprl, off)
		if err != nil {
			return fmt.Errorf("sprm at offset %d: %w", off, err)
		}
		if err := fn(s); err != nil {
			return fmt.Errorf("sprm %#04x at offset %d: %w", s.Opcode, off, err)
		}
		off = s.end
	}
	return nil
}

// update carries the property being built and the base it started from.
type update[P any] struct {
	cur    P
	base   P
	styles StyleSource
}

// op applies one sprm to an update.
type op[P any] func(u *update[P], s Sprm) error

type integer interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32
}

func set[P any, T integer](field func(*P) *T) op[P] {
	return func(u *update[P], s Sprm) error {
		*field(&u.cur) = T(s.Param)
		return nil
	}
}

func flag[P any](field func(*P) *bool) op[P] {
	return func(u *update[P], s Sprm) error {
		*field(&u.cur) = s.Param != 0
		return nil
	}
}

// brcFromOperand copies the four operand bytes preceding the cursor.
func brcFromOperand[P any](field func(*P) *BRC) op[P] {
	return func(u *update[P], s Sprm) error {
		b, err := s.wordsBefore()
		if err != nil {
			return err
		}
		*field(&u.cur) = b
		return nil
	}
}

func apply[P any](table map[uint16]op[P], u *update[P], s Sprm) error {
	if fn, ok := table[s.Operand]; ok {
		return fn(u, s)
	}
	return nil
}

// UncompressPAP replays a papx over base. With withIstd the first two bytes
// are the paragraph's style index. Only paragraph sprms are applied; table
// sprms stored alongside them are left for UncompressTAP. On error the
// returned value holds the operations applied before the failure.
func UncompressPAP(grpprl []byte, base ParagraphProperties, withIstd bool) (ParagraphProperties, error) {
	u := &update[ParagraphProperties]{cur: base.Clone(), base: base}
	off := 0
	if withIstd && len(grpprl) > 0 {
		istd, err := lebin.Uint16(grpprl, 0)
		if err != nil {
			return u.cur, fmt.Errorf("papx istd: %w", err)
		}
		u.cur.Istd = istd
		off = 2
	}
	err := eachSprm(grpprl, off, func(s Sprm) error {
		if s.Kind != KindPAP {
			return nil
		}
		return apply(papOps, u, s)
	})
	return u.cur, err
}

// UncompressTAP replays the table sprms of a papx over base. The first two
// bytes of the papx are its style index and are skipped.
func UncompressTAP(papx []byte, base TableProperties) (TableProperties, error) {
	u := &update[TableProperties]{cur: base.Clone(), base: base}
	err := eachSprm(papx, 2, func(s Sprm) error {
		if s.Kind != KindTAP {
			return nil
		}
		return apply(tapOps, u, s)
	})
	return u.cur, err
}

// UncompressCHP replays a chpx over base. styles resolves the style-relative
// operations and may be nil, in which case those operations are skipped.
func UncompressCHP(grpprl []byte, base CharacterProperties, styles StyleSource) (CharacterProperties, error) {
	u := &update[CharacterProperties]{cur: base, base: base, styles: styles}
	u.cur.BaseIstd = base.Istd
	err := eachSprm(grpprl, 0, func(s Sprm) error {
		if s.Kind != KindCHP {
			return nil
		}
		return apply(chpOps, u, s)
	})
	return u.cur, err
}

// UncompressSEP replays a sepx over base.
func UncompressSEP(grpprl []byte, base SectionProperties) (SectionProperties, error) {
	u := &update[SectionProperties]{cur: base.Clone(), base: base}
	err := eachSprm(grpprl, 0, func(s Sprm) error {
		if s.Kind != KindSEP {
			return nil
		}
		return apply(sepOps, u, s)
	})
	return u.cur, err
}
