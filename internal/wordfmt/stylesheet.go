package wordfmt

import (
	"errors"
	"fmt"
	"sync"

	"github.com/dgallion1/docfmt/internal/lebin"
)

// NilStyle is the base index of a style that inherits from nothing.
const NilStyle = 4095

// Style types (sgc) of a style description.
const (
	StyleParagraph = 1
	StyleCharacter = 2
)

// StyleSource resolves the character properties of a style. The sprm
// interpreter uses it for operations that are relative to the run's style.
type StyleSource interface {
	CharacterStyle(istd int) (CharacterProperties, error)
}

// StyleDescription is one decoded STD. Papx includes its leading style
// index; Chpx is a plain grpprl.
type StyleDescription struct {
	Name      string `json:"name"`
	Sti       uint16 `json:"sti"`
	Type      uint8  `json:"type"`
	BaseStyle uint16 `json:"base_style"`
	Next      uint16 `json:"next"`
	Papx      []byte `json:"-"`
	Chpx      []byte `json:"-"`
}

// Style is a style description together with its resolved properties.
type Style struct {
	StyleDescription
	Index int                 `json:"index"`
	PAP   ParagraphProperties `json:"pap"`
	CHP   CharacterProperties `json:"chp"`
}

type resolveState uint8

const (
	unresolved resolveState = iota
	resolving
	resolved
)

type slot[P any] struct {
	state resolveState
	value P
	err   error
}

// StyleSheet holds the decoded STSH. Styles are resolved against their base
// chain on first use and memoized. It is safe for concurrent use.
type StyleSheet struct {
	descs        []*StyleDescription
	defaultFonts [3]int16

	mu   sync.Mutex
	paps []slot[ParagraphProperties]
	chps []slot[CharacterProperties]
}

// NewStyleSheet decodes a stylesheet blob as stored in the table stream.
func NewStyleSheet(stsh []byte) (*StyleSheet, error) {
	cbStshi, err := lebin.Uint16(stsh, 0)
	if err != nil {
		return nil, fmt.Errorf("stshi size: %w", err)
	}
	cstd, err := lebin.Uint16(stsh, 2)
	if err != nil {
		return nil, fmt.Errorf("style count: %w", err)
	}
	baseLength, err := lebin.Uint16(stsh, 4)
	if err != nil {
		return nil, fmt.Errorf("std base length: %w", err)
	}

	ss := &StyleSheet{
		descs: make([]*StyleDescription, cstd),
		paps:  make([]slot[ParagraphProperties], cstd),
		chps:  make([]slot[CharacterProperties], cstd),
	}
	if cbStshi >= 18 {
		for i := range ss.defaultFonts {
			if ss.defaultFonts[i], err = lebin.Int16(stsh, 14+2*i); err != nil {
				return nil, fmt.Errorf("default fonts: %w", err)
			}
		}
	}

	off := 2 + int(cbStshi)
	for i := range ss.descs {
		size, err := lebin.Uint16(stsh, off)
		if err != nil {
			return nil, fmt.Errorf("std %d size: %w", i, err)
		}
		if size > 0 {
			std, err := lebin.Bytes(stsh, off+2, int(size))
			if err != nil {
				return nil, fmt.Errorf("std %d: %w", i, err)
			}
			if ss.descs[i], err = parseSTD(std, int(baseLength)); err != nil {
				return nil, fmt.Errorf("std %d: %w", i, err)
			}
		}
		off += 2 + int(size)
	}
	return ss, nil
}

func parseSTD(std []byte, baseLength int) (*StyleDescription, error) {
	c := lebin.NewCursor(std)
	sti, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	typeBase, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	upxNext, err := c.Uint16()
	if err != nil {
		return nil, err
	}
	sd := &StyleDescription{
		Sti:       sti & 0x0FFF,
		Type:      uint8(typeBase & 0x0F),
		BaseStyle: typeBase >> 4,
		Next:      upxNext >> 4,
	}
	cupx := int(upxNext & 0x0F)

	if err := c.Seek(baseLength); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	cch, err := c.Uint16()
	if err != nil {
		return nil, fmt.Errorf("name length: %w", err)
	}
	if sd.Name, err = c.UTF16(int(cch)); err != nil {
		return nil, fmt.Errorf("name: %w", err)
	}
	// Skip the terminating null.
	if err := c.Skip(2); err != nil {
		return nil, fmt.Errorf("name terminator: %w", err)
	}

	upxs := make([][]byte, 0, cupx)
	for range cupx {
		cb, err := c.Uint16()
		if err != nil {
			return nil, fmt.Errorf("upx size: %w", err)
		}
		upx, err := c.Bytes(int(cb))
		if err != nil {
			return nil, fmt.Errorf("upx: %w", err)
		}
		upxs = append(upxs, upx)
		// UPXs are padded to even length; the last one may not be.
		if pad := min(int(cb%2), c.Remaining()); pad > 0 {
			if err := c.Skip(pad); err != nil {
				return nil, fmt.Errorf("upx padding: %w", err)
			}
		}
	}

	switch sd.Type {
	case StyleParagraph:
		if len(upxs) > 0 {
			sd.Papx = upxs[0]
		}
		if len(upxs) > 1 {
			sd.Chpx = upxs[1]
		}
	case StyleCharacter:
		if len(upxs) > 0 {
			sd.Chpx = upxs[0]
		}
	}
	return sd, nil
}

// Len returns the number of style slots, empty ones included.
func (ss *StyleSheet) Len() int { return len(ss.descs) }

// DefaultFonts returns the ascii, far east and other font indexes used
// when a style names none.
func (ss *StyleSheet) DefaultFonts() [3]int16 { return ss.defaultFonts }

// Description returns the raw description at istd, or nil for an empty slot.
func (ss *StyleSheet) Description(istd int) (*StyleDescription, error) {
	if istd < 0 || istd >= len(ss.descs) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchStyle, istd)
	}
	return ss.descs[istd], nil
}

// StyleDescription returns the description at istd with both property sets
// resolved.
func (ss *StyleSheet) StyleDescription(istd int) (Style, error) {
	sd, err := ss.Description(istd)
	if err != nil {
		return Style{}, err
	}
	st := Style{Index: istd}
	if sd != nil {
		st.StyleDescription = *sd
	}
	pap, perr := ss.ParagraphStyle(istd)
	chp, cerr := ss.CharacterStyle(istd)
	st.PAP, st.CHP = pap, chp
	return st, errors.Join(perr, cerr)
}

// ParagraphStyle returns the resolved paragraph properties of istd. A slot
// whose resolution fails yields the nil-style defaults and the error.
func (ss *StyleSheet) ParagraphStyle(istd int) (ParagraphProperties, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	p, err := (*resolver)(ss).paragraph(istd)
	return p.Clone(), err
}

// CharacterStyle returns the resolved character properties of istd.
func (ss *StyleSheet) CharacterStyle(istd int) (CharacterProperties, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return (*resolver)(ss).character(istd)
}

// ResolveAll resolves every slot and returns the joined errors.
func (ss *StyleSheet) ResolveAll() error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	r := (*resolver)(ss)
	var errs []error
	for i := range ss.descs {
		if _, err := r.paragraph(i); err != nil {
			errs = append(errs, fmt.Errorf("style %d paragraph: %w", i, err))
		}
		if _, err := r.character(i); err != nil {
			errs = append(errs, fmt.Errorf("style %d character: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// resolver is the stylesheet seen from inside a resolution, with the lock
// already held.
type resolver StyleSheet

func (r *resolver) CharacterStyle(istd int) (CharacterProperties, error) {
	return r.character(istd)
}

// base returns the slot sd inherits from. A base outside the sheet falls
// back to the nil style.
func (r *resolver) base(sd *StyleDescription) int {
	if int(sd.BaseStyle) >= len(r.descs) {
		return NilStyle
	}
	return int(sd.BaseStyle)
}

func (r *resolver) nilCharacter() CharacterProperties {
	c := DefaultCharacterProperties()
	c.Istd = NilStyle
	c.FtcAscii, c.FtcFE, c.FtcOther = r.defaultFonts[0], r.defaultFonts[1], r.defaultFonts[2]
	return c
}

func (r *resolver) paragraph(istd int) (ParagraphProperties, error) {
	if istd == NilStyle {
		return DefaultParagraphProperties(), nil
	}
	if istd < 0 || istd >= len(r.descs) {
		return DefaultParagraphProperties(), fmt.Errorf("%w: %d", ErrNoSuchStyle, istd)
	}
	s := &r.paps[istd]
	switch s.state {
	case resolved:
		return s.value, s.err
	case resolving:
		return DefaultParagraphProperties(), fmt.Errorf("%w: style %d", ErrCyclicStyleDefinition, istd)
	}
	s.state = resolving

	value, err := r.resolveParagraph(istd)
	if err != nil {
		value = DefaultParagraphProperties()
	}
	value.Istd = uint16(istd)
	s.value, s.err, s.state = value, err, resolved
	return value, err
}

func (r *resolver) resolveParagraph(istd int) (ParagraphProperties, error) {
	sd := r.descs[istd]
	if sd == nil {
		return DefaultParagraphProperties(), nil
	}
	parent, err := r.paragraph(r.base(sd))
	if err != nil {
		return parent, fmt.Errorf("base of %d: %w", istd, err)
	}
	if len(sd.Papx) == 0 {
		return parent.Clone(), nil
	}
	return UncompressPAP(sd.Papx, parent, true)
}

func (r *resolver) character(istd int) (CharacterProperties, error) {
	if istd == NilStyle {
		return r.nilCharacter(), nil
	}
	if istd < 0 || istd >= len(r.descs) {
		return r.nilCharacter(), fmt.Errorf("%w: %d", ErrNoSuchStyle, istd)
	}
	s := &r.chps[istd]
	switch s.state {
	case resolved:
		return s.value, s.err
	case resolving:
		return r.nilCharacter(), fmt.Errorf("%w: style %d", ErrCyclicStyleDefinition, istd)
	}
	s.state = resolving

	value, err := r.resolveCharacter(istd)
	if err != nil {
		value = r.nilCharacter()
	}
	value.Istd = uint16(istd)
	s.value, s.err, s.state = value, err, resolved
	return value, err
}

func (r *resolver) resolveCharacter(istd int) (CharacterProperties, error) {
	sd := r.descs[istd]
	if sd == nil {
		return r.nilCharacter(), nil
	}
	parent, err := r.character(r.base(sd))
	if err != nil {
		return parent, fmt.Errorf("base of %d: %w", istd, err)
	}
	if len(sd.Chpx) == 0 {
		parent.BaseIstd = parent.Istd
		return parent, nil
	}
	return UncompressCHP(sd.Chpx, parent, r)
}
