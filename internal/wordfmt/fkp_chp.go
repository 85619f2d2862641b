package wordfmt

import (
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

// CHPPage is a decoded character-run formatted disk page.
type CHPPage struct {
	nodes []PropertyNode
}

// DecodeCHPPage decodes a 512-byte CHPX page. Positions are rebased by
// subtracting fcMin.
func DecodeCHPPage(page []byte, fcMin uint32) (*CHPPage, error) {
	fcs, err := readBoundaries(page)
	if err != nil {
		return nil, err
	}
	count := len(fcs) - 1
	nodes := make([]PropertyNode, count)
	for i := range count {
		start, end, err := nodeBounds(fcs, i, fcMin)
		if err != nil {
			return nil, err
		}
		grpprl, err := chpxAt(page, count, i)
		if err != nil {
			return nil, fmt.Errorf("chpx %d: %w", i, err)
		}
		nodes[i] = PropertyNode{Start: start, End: end, Grpprl: grpprl}
	}
	return &CHPPage{nodes: nodes}, nil
}

// chpxAt follows the one-byte word offset for entry i. An offset of zero or
// a zero length byte means the run carries no overrides.
func chpxAt(page []byte, count, i int) ([]byte, error) {
	idx, err := lebin.Uint8(page, (count+1)*fcSize+i)
	if err != nil {
		return nil, err
	}
	off := 2 * int(idx)
	if off == 0 {
		return []byte{}, nil
	}
	size, err := lebin.Uint8(page, off)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return []byte{}, nil
	}
	return lebin.Bytes(page, off+1, int(size))
}

// Len returns the number of runs on the page.
func (p *CHPPage) Len() int { return len(p.nodes) }

// Node returns run i.
func (p *CHPPage) Node(i int) (PropertyNode, error) {
	if err := checkIndex(i, len(p.nodes)); err != nil {
		return PropertyNode{}, err
	}
	return p.nodes[i], nil
}

// Grpprl returns the compressed character properties of run i.
func (p *CHPPage) Grpprl(i int) ([]byte, error) {
	n, err := p.Node(i)
	if err != nil {
		return nil, err
	}
	return n.Grpprl, nil
}

// Nodes returns a copy of all runs.
func (p *CHPPage) Nodes() []PropertyNode {
	return append([]PropertyNode(nil), p.nodes...)
}

// EncodeCHPPage packs as many nodes as fit into one page and returns the
// rest, in order, as overflow. Empty grpprls are written as a zero offset.
func EncodeCHPPage(nodes []PropertyNode, fcMin uint32) ([]byte, []PropertyNode, error) {
	page := make([]byte, PageSize)
	if len(nodes) == 0 {
		return page, nil, nil
	}

	var offs []int
	grpprlOffset := countByte
	for i, n := range nodes {
		if len(n.Grpprl) > 255 {
			return nil, nil, fmt.Errorf("%w: chpx %d is %d bytes", ErrGrpprlTooLarge, i, len(n.Grpprl))
		}
		next := grpprlOffset
		off := 0
		if len(n.Grpprl) > 0 {
			next -= 1 + len(n.Grpprl)
			next -= next % 2
			off = next
		}
		header := (i+2)*fcSize + (i+1)*chpOffSize
		if header > next {
			if i == 0 {
				return nil, nil, fmt.Errorf("%w: chpx 0 is %d bytes", ErrGrpprlTooLarge, len(n.Grpprl))
			}
			break
		}
		grpprlOffset = next
		offs = append(offs, off)
	}

	k := len(offs)
	page[countByte] = byte(k)
	for i, off := range offs {
		n := nodes[i]
		if err := lebin.PutUint32(page, i*fcSize, n.Start+fcMin); err != nil {
			return nil, nil, err
		}
		page[(k+1)*fcSize+i] = byte(off / 2)
		if off != 0 {
			page[off] = byte(len(n.Grpprl))
			copy(page[off+1:], n.Grpprl)
		}
	}
	if err := lebin.PutUint32(page, k*fcSize, nodes[k-1].End+fcMin); err != nil {
		return nil, nil, err
	}

	var overflow []PropertyNode
	if k < len(nodes) {
		overflow = append(overflow, nodes[k:]...)
	}
	return page, overflow, nil
}
