package worddoc

import "unicode/utf16"

// Special characters of the main text.
const (
	chFootnoteRef   = 0x02
	chAnnotationRef = 0x05
	chPicture       = 0x01
	chDrawnObject   = 0x08
	chTab           = 0x09
	chLineBreak     = 0x0B
	chFieldBegin    = 0x13
	chFieldSep      = 0x14
	chFieldEnd      = 0x15
	chNonBreakHyph  = 0x1E
	chOptionalHyph  = 0x1F
)

// fieldCodes marks the positions that belong to field instructions and the
// field delimiters themselves. Only field results stay visible.
func fieldCodes(text []uint16) []bool {
	hidden := make([]bool, len(text))
	// One entry per open field: true while still in its instructions.
	var open []bool
	for i, ch := range text {
		switch ch {
		case chFieldBegin:
			open = append(open, true)
			hidden[i] = true
			continue
		case chFieldSep:
			if n := len(open); n > 0 {
				open[n-1] = false
			}
			hidden[i] = true
			continue
		case chFieldEnd:
			if n := len(open); n > 0 {
				open = open[:n-1]
			}
			hidden[i] = true
			continue
		}
		for _, inCode := range open {
			if inCode {
				hidden[i] = true
				break
			}
		}
	}
	return hidden
}

// visible returns the displayable text of [start, end).
func (d *decoder) visible(start, end int) string {
	units := make([]uint16, 0, end-start)
	for cp := start; cp < end; cp++ {
		if d.hidden[cp] {
			continue
		}
		ch := d.text.At(cp)
		switch ch {
		case chLineBreak:
			ch = '\n'
		case chNonBreakHyph:
			ch = '-'
		case chTab:
		case chOptionalHyph, chPicture, chDrawnObject, chFootnoteRef, chAnnotationRef,
			markParagraph, markCell, markSection:
			continue
		default:
			if ch < 0x20 {
				continue
			}
		}
		units = append(units, ch)
	}
	return string(utf16.Decode(units))
}
