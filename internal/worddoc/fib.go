package worddoc

import (
	"errors"
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

var (
	// ErrNotWordDocument is returned when the container has no WordDocument
	// stream or the stream does not start with the Word magic number.
	ErrNotWordDocument = errors.New("not a Word document")

	// ErrEncrypted is returned for password-protected documents.
	ErrEncrypted = errors.New("document is encrypted")

	// ErrUnsupportedVersion is returned for files older than Word 97.
	ErrUnsupportedVersion = errors.New("unsupported Word version")

	// ErrDegraded is returned in strict mode when any part of the document
	// had to be skipped or replaced with defaults.
	ErrDegraded = errors.New("document decoded with warnings")
)

// FormatError reports a structural problem in one part of the file.
type FormatError struct {
	Part string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Part, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

const (
	wordMagic  = 0xA5EC
	minNFib    = 0x00C0
	fibMinSize = 0x2F2

	fibComplex   = 0x0004
	fibEncrypted = 0x0100
	fibTable1    = 0x0200
)

// Span locates a structure in the table stream.
type Span struct {
	Offset uint32 `json:"offset"`
	Length uint32 `json:"length"`
}

// IsEmpty reports whether the structure is absent.
func (s Span) IsEmpty() bool { return s.Length == 0 }

// Slice returns the bytes of s within stream.
func (s Span) Slice(stream []byte) ([]byte, error) {
	if err := lebin.Check(stream, int(s.Offset), int(s.Length)); err != nil {
		return nil, err
	}
	return stream[s.Offset : s.Offset+s.Length], nil
}

// FIB holds the parts of the file information block the decoder uses.
type FIB struct {
	NFib     uint16 `json:"nfib"`
	Flags    uint16 `json:"flags"`
	FcMin    uint32 `json:"fc_min"`
	FcMac    uint32 `json:"fc_mac"`
	CcpText  int32  `json:"ccp_text"`
	CcpFtn   int32  `json:"ccp_ftn"`
	Stsh     Span   `json:"stsh"`
	Plcfsed  Span   `json:"plcfsed"`
	BteChpx  Span   `json:"bte_chpx"`
	BtePapx  Span   `json:"bte_papx"`
	Sttbfffn Span   `json:"sttbfffn"`
	Clx      Span   `json:"clx"`
	PlcfLst  Span   `json:"plcf_lst"`
	PlfLfo   Span   `json:"plf_lfo"`
}

// Complex reports whether the file was fast-saved.
func (f FIB) Complex() bool { return f.Flags&fibComplex != 0 }

// Encrypted reports whether the document is password protected.
func (f FIB) Encrypted() bool { return f.Flags&fibEncrypted != 0 }

// TableStream names the table stream the offsets refer to.
func (f FIB) TableStream() string {
	if f.Flags&fibTable1 != 0 {
		return "1Table"
	}
	return "0Table"
}

// fcLcb offsets in the Word 97 FIB.
var fibSpans = []struct {
	off   int
	field func(*FIB) *Span
}{
	{0xA2, func(f *FIB) *Span { return &f.Stsh }},
	{0xCA, func(f *FIB) *Span { return &f.Plcfsed }},
	{0xFA, func(f *FIB) *Span { return &f.BteChpx }},
	{0x102, func(f *FIB) *Span { return &f.BtePapx }},
	{0x112, func(f *FIB) *Span { return &f.Sttbfffn }},
	{0x1A2, func(f *FIB) *Span { return &f.Clx }},
	{0x2E2, func(f *FIB) *Span { return &f.PlcfLst }},
	{0x2EA, func(f *FIB) *Span { return &f.PlfLfo }},
}

// ParseFIB reads the FIB at the start of the WordDocument stream.
func ParseFIB(stream []byte) (FIB, error) {
	var f FIB
	ident, err := lebin.Uint16(stream, 0)
	if err != nil || ident != wordMagic {
		return f, ErrNotWordDocument
	}
	if len(stream) < fibMinSize {
		return f, &FormatError{Part: "fib", Err: &lebin.OutOfRangeError{Offset: 0, Width: fibMinSize, Len: len(stream)}}
	}
	r := lebin.NewRecord(stream)
	f.NFib = r.Uint16(2)
	f.Flags = r.Uint16(0xA)
	f.FcMin = r.Uint32(0x18)
	f.FcMac = r.Uint32(0x1C)
	f.CcpText = r.Int32(0x4C)
	f.CcpFtn = r.Int32(0x50)
	for _, s := range fibSpans {
		sp := s.field(&f)
		sp.Offset = r.Uint32(s.off)
		sp.Length = r.Uint32(s.off + 4)
	}
	if err := r.Err(); err != nil {
		return f, &FormatError{Part: "fib", Err: err}
	}
	if f.NFib < minNFib {
		return f, fmt.Errorf("%w: nFib 0x%04X", ErrUnsupportedVersion, f.NFib)
	}
	if f.Encrypted() {
		return f, ErrEncrypted
	}
	if f.CcpText < 0 {
		return f, &FormatError{Part: "fib", Err: fmt.Errorf("negative text length %d", f.CcpText)}
	}
	return f, nil
}

// listSpan returns the extent of the list definitions. The LVLs follow the
// LSTF array without being counted in its length, so the run extends to the
// override table when that comes later.
func (f FIB) listSpan() Span {
	s := f.PlcfLst
	if s.IsEmpty() {
		return s
	}
	if f.PlfLfo.Offset > s.Offset {
		s.Length = f.PlfLfo.Offset - s.Offset
	}
	return s
}
