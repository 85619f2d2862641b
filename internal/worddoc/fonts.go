package worddoc

import (
	"fmt"
	"strings"

	"github.com/dgallion1/docfmt/internal/lebin"
)

const ffnNameOffset = 40

// Font is one entry of the font table. CHP font indexes point here.
type Font struct {
	Name     string `json:"name"`
	AltName  string `json:"alt_name,omitempty"`
	Family   uint8  `json:"family"`
	Pitch    uint8  `json:"pitch"`
	TrueType bool   `json:"true_type,omitempty"`
	Weight   int16  `json:"weight"`
	Charset  uint8  `json:"charset"`
}

// Font families, for CSS generic family fallbacks.
const (
	FamilyDontCare uint8 = iota
	FamilyRoman
	FamilySwiss
	FamilyModern
	FamilyScript
	FamilyDecorative
)

// parseFonts decodes the STTBF of FFNs.
func parseFonts(sttbf []byte) ([]Font, error) {
	c := lebin.NewCursor(sttbf)
	count, err := c.Uint16()
	if err != nil {
		return nil, fmt.Errorf("font table: %w", err)
	}
	if _, err := c.Uint16(); err != nil {
		return nil, fmt.Errorf("font table: %w", err)
	}
	fonts := make([]Font, 0, count)
	for i := range int(count) {
		size, err := c.Uint8()
		if err != nil {
			return fonts, fmt.Errorf("font %d: %w", i, err)
		}
		ffn, err := c.Bytes(int(size))
		if err != nil {
			return fonts, fmt.Errorf("font %d: %w", i, err)
		}
		font, err := decodeFFN(ffn)
		if err != nil {
			return fonts, fmt.Errorf("font %d: %w", i, err)
		}
		fonts = append(fonts, font)
	}
	return fonts, nil
}

// decodeFFN reads an FFN whose leading size byte has been consumed, so
// offsets here are one less than in the on-disk layout.
func decodeFFN(ffn []byte) (Font, error) {
	var f Font
	r := lebin.NewRecord(ffn)
	info := r.Uint8(0)
	f.Pitch = info & 0x03
	f.TrueType = info&0x04 != 0
	f.Family = (info >> 4) & 0x07
	f.Weight = r.Int16(1)
	f.Charset = r.Uint8(3)
	alt := r.Uint8(4)
	if err := r.Err(); err != nil {
		return f, err
	}
	if len(ffn) <= ffnNameOffset-1 {
		return f, nil
	}
	names := lebin.DecodeUTF16(ffn[ffnNameOffset-1:])
	name, rest, _ := strings.Cut(names, "\x00")
	f.Name = name
	if alt > 0 {
		f.AltName, _, _ = strings.Cut(rest, "\x00")
	}
	return f, nil
}

// FontName returns the name of font ftc or "" when it is out of range.
func (d *Document) FontName(ftc int16) string {
	if ftc < 0 || int(ftc) >= len(d.Fonts) {
		return ""
	}
	return d.Fonts[ftc].Name
}
