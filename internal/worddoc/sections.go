package worddoc

import (
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

const (
	sedSize   = 12
	noSepx    = 0xFFFFFFFF
	sedFcSepx = 2
)

// Section is a run of paragraphs sharing page setup.
type Section struct {
	Index int                       `json:"index"`
	Start int                       `json:"start"`
	End   int                       `json:"end"`
	SEP   wordfmt.SectionProperties `json:"sep"`
}

// readSections decodes the SED plex. Each SED points at a sepx in the
// WordDocument stream: a two-byte size followed by the grpprl.
func (d *decoder) readSections(plcfsed []byte, textLen int) []Section {
	whole := []Section{{End: textLen, SEP: wordfmt.DefaultSectionProperties()}}
	if len(plcfsed) == 0 {
		return whole
	}
	plex, err := wordfmt.NewPlex(plcfsed, sedSize)
	if err != nil {
		d.warn("sections", err)
		return whole
	}
	sections := make([]Section, 0, plex.Len())
	for i := range plex.Len() {
		node, err := plex.Property(i)
		if err != nil {
			d.warn("sections", fmt.Errorf("sed %d: %w", i, err))
			continue
		}
		sec := Section{Index: len(sections), Start: int(node.Start), End: int(node.End), SEP: wordfmt.DefaultSectionProperties()}
		fc, err := lebin.Uint32(node.Bytes, sedFcSepx)
		if err != nil {
			d.warn("sections", fmt.Errorf("sed %d: %w", i, err))
			continue
		}
		if fc != noSepx {
			if sep, err := d.sepx(fc, sec.SEP); err != nil {
				d.warn("section properties", fmt.Errorf("section %d: %w", i, err))
			} else {
				sec.SEP = sep
			}
		}
		sections = append(sections, sec)
	}
	if len(sections) == 0 {
		return whole
	}
	return sections
}

func (d *decoder) sepx(fc uint32, base wordfmt.SectionProperties) (wordfmt.SectionProperties, error) {
	size, err := lebin.Uint16(d.main, int(fc))
	if err != nil {
		return base, err
	}
	grpprl, err := lebin.Bytes(d.main, int(fc)+2, int(size))
	if err != nil {
		return base, err
	}
	return wordfmt.UncompressSEP(grpprl, base)
}

// sectionAt returns the index of the section holding cp.
func sectionAt(sections []Section, cp int) int {
	for i, s := range sections {
		if cp >= s.Start && cp < s.End {
			return i
		}
	}
	return max(len(sections)-1, 0)
}
