package worddoc

import (
	"fmt"
	"slices"
	"sort"

	"github.com/dgallion1/docfmt/internal/lebin"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

const (
	bteSize = 4
	pnMask  = 0x3FFFFF
)

// binPages returns the page numbers listed in a bin table.
func binPages(bte []byte) ([]uint32, error) {
	plex, err := wordfmt.NewPlex(bte, bteSize)
	if err != nil {
		return nil, err
	}
	pns := make([]uint32, plex.Len())
	for i := range pns {
		node, err := plex.Property(i)
		if err != nil {
			return nil, err
		}
		pn, err := lebin.Uint32(node.Bytes, 0)
		if err != nil {
			return nil, fmt.Errorf("bin table entry %d: %w", i, err)
		}
		pns[i] = pn & pnMask
	}
	return pns, nil
}

func page(main []byte, pn uint32) ([]byte, error) {
	return lebin.Bytes(main, int(pn)*wordfmt.PageSize, wordfmt.PageSize)
}

// readPAPXs decodes every paragraph page the bin table points at, keeping
// stream offsets as positions. A page that fails to decode is reported and
// skipped.
func (d *decoder) readPAPXs(bte []byte) []wordfmt.PAPX {
	pns, err := binPages(bte)
	if err != nil {
		d.warn("papx bin table", err)
		return nil
	}
	var out []wordfmt.PAPX
	for _, pn := range pns {
		raw, err := page(d.main, pn)
		if err == nil {
			var p *wordfmt.PAPPage
			if p, err = wordfmt.DecodePAPPage(raw, 0); err == nil {
				out = append(out, p.PAPXs()...)
				continue
			}
		}
		d.warn("papx page", fmt.Errorf("page %d: %w", pn, err))
	}
	slices.SortStableFunc(out, func(a, b wordfmt.PAPX) int { return cmpStart(a.Start, b.Start) })
	return out
}

// readCHPXs is readPAPXs for character runs.
func (d *decoder) readCHPXs(bte []byte) []wordfmt.PropertyNode {
	pns, err := binPages(bte)
	if err != nil {
		d.warn("chpx bin table", err)
		return nil
	}
	var out []wordfmt.PropertyNode
	for _, pn := range pns {
		raw, err := page(d.main, pn)
		if err == nil {
			var p *wordfmt.CHPPage
			if p, err = wordfmt.DecodeCHPPage(raw, 0); err == nil {
				out = append(out, p.Nodes()...)
				continue
			}
		}
		d.warn("chpx page", fmt.Errorf("page %d: %w", pn, err))
	}
	slices.SortStableFunc(out, func(a, b wordfmt.PropertyNode) int { return cmpStart(a.Start, b.Start) })
	return out
}

func cmpStart(a, b uint32) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// papxAt returns the paragraph properties covering stream offset fc.
func papxAt(papxs []wordfmt.PAPX, fc uint32) (wordfmt.PAPX, bool) {
	i := sort.Search(len(papxs), func(i int) bool { return papxs[i].End > fc })
	if i == len(papxs) || papxs[i].Start > fc {
		return wordfmt.PAPX{}, false
	}
	return papxs[i], true
}
