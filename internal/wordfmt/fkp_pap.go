package wordfmt

import (
	"bytes"
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

// PAPX is a paragraph property node plus the paragraph height cache that
// sits beside it in the page's BX table.
type PAPX struct {
	PropertyNode
	PHE [pheSize]byte
}

// Istd returns the style index stored in the first two bytes of the papx.
func (p PAPX) Istd() (uint16, error) {
	return lebin.Uint16(p.Grpprl, 0)
}

// PAPPage is a decoded paragraph formatted disk page.
type PAPPage struct {
	papxs []PAPX
}

// DecodePAPPage decodes a 512-byte PAPX page. Positions are rebased by
// subtracting fcMin.
func DecodePAPPage(page []byte, fcMin uint32) (*PAPPage, error) {
	fcs, err := readBoundaries(page)
	if err != nil {
		return nil, err
	}
	count := len(fcs) - 1
	papxs := make([]PAPX, count)
	for i := range count {
		start, end, err := nodeBounds(fcs, i, fcMin)
		if err != nil {
			return nil, err
		}
		bx := (count+1)*fcSize + i*bxSize
		grpprl, err := papxAt(page, bx)
		if err != nil {
			return nil, fmt.Errorf("papx %d: %w", i, err)
		}
		phe, err := lebin.Bytes(page, bx+1, pheSize)
		if err != nil {
			return nil, fmt.Errorf("papx %d height: %w", i, err)
		}
		p := PAPX{PropertyNode: PropertyNode{Start: start, End: end, Grpprl: grpprl}}
		copy(p.PHE[:], phe)
		papxs[i] = p
	}
	return &PAPPage{papxs: papxs}, nil
}

// papxAt reads the grpprl referenced by the BX entry at bx. The byte at the
// word offset holds (size+1)/2 for odd sizes. For even sizes it is zero and
// the following byte holds size/2, so the grpprl itself stays word aligned.
func papxAt(page []byte, bx int) ([]byte, error) {
	idx, err := lebin.Uint8(page, bx)
	if err != nil {
		return nil, err
	}
	off := 2 * int(idx)
	if off == 0 {
		return []byte{}, nil
	}
	b, err := lebin.Uint8(page, off)
	if err != nil {
		return nil, err
	}
	if b != 0 {
		return lebin.Bytes(page, off+1, 2*int(b)-1)
	}
	b2, err := lebin.Uint8(page, off+1)
	if err != nil {
		return nil, err
	}
	return lebin.Bytes(page, off+2, 2*int(b2))
}

// Len returns the number of paragraphs on the page.
func (p *PAPPage) Len() int { return len(p.papxs) }

// PAPX returns paragraph i.
func (p *PAPPage) PAPX(i int) (PAPX, error) {
	if err := checkIndex(i, len(p.papxs)); err != nil {
		return PAPX{}, err
	}
	return p.papxs[i], nil
}

// Node returns the property node of paragraph i.
func (p *PAPPage) Node(i int) (PropertyNode, error) {
	x, err := p.PAPX(i)
	return x.PropertyNode, err
}

// PAPXs returns a copy of all paragraphs.
func (p *PAPPage) PAPXs() []PAPX {
	return append([]PAPX(nil), p.papxs...)
}

// papxFootprint is the space a grpprl takes below the previous one,
// including its length prefix.
func papxFootprint(n int) int {
	if n%2 == 1 {
		return 1 + n
	}
	return 2 + n
}

// EncodePAPPage packs as many papxs as fit into one 512-byte page. The
// papxs that do not fit are returned as overflow, in their original order,
// for the caller to place in the next page. Consecutive identical grpprls
// share storage.
func EncodePAPPage(papxs []PAPX, fcMin uint32) ([]byte, []PAPX, error) {
	page := make([]byte, PageSize)
	if len(papxs) == 0 {
		return page, nil, nil
	}

	var offs []int
	grpprlOffset := countByte
	lastOff := -1
	var last []byte
	for i, p := range papxs {
		if len(p.Grpprl) > 2*255 {
			return nil, nil, fmt.Errorf("%w: papx %d is %d bytes", ErrGrpprlTooLarge, i, len(p.Grpprl))
		}
		next := grpprlOffset
		off := lastOff
		if lastOff < 0 || !bytes.Equal(p.Grpprl, last) {
			next -= papxFootprint(len(p.Grpprl))
			next -= next % 2
			off = next
		}
		header := (i+2)*fcSize + (i+1)*bxSize
		if header > next {
			if i == 0 {
				return nil, nil, fmt.Errorf("%w: papx 0 is %d bytes", ErrGrpprlTooLarge, len(p.Grpprl))
			}
			break
		}
		grpprlOffset = next
		lastOff = off
		last = p.Grpprl
		offs = append(offs, off)
	}

	k := len(offs)
	page[countByte] = byte(k)
	written := -1
	for i, off := range offs {
		p := papxs[i]
		if err := lebin.PutUint32(page, i*fcSize, p.Start+fcMin); err != nil {
			return nil, nil, err
		}
		bx := (k+1)*fcSize + i*bxSize
		page[bx] = byte(off / 2)
		copy(page[bx+1:bx+bxSize], p.PHE[:])
		if off == written {
			continue
		}
		n := len(p.Grpprl)
		if n%2 == 1 {
			page[off] = byte((n + 1) / 2)
			copy(page[off+1:], p.Grpprl)
		} else {
			page[off] = 0
			page[off+1] = byte(n / 2)
			copy(page[off+2:], p.Grpprl)
		}
		written = off
	}
	if err := lebin.PutUint32(page, k*fcSize, papxs[k-1].End+fcMin); err != nil {
		return nil, nil, err
	}

	var overflow []PAPX
	if k < len(papxs) {
		overflow = append(overflow, papxs[k:]...)
	}
	return page, overflow, nil
}
