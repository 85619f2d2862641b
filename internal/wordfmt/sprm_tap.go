package wordfmt

import (
	"slices"

	"github.com/dgallion1/docfmt/internal/lebin"
)

type tap = TableProperties

var tapOps = map[uint16]op[tap]{
	0x00: set(func(t *tap) *int16 { return &t.Jc }),
	0x01: func(u *update[tap], s Sprm) error {
		if len(u.cur.RgdxaCenter) == 0 {
			return nil
		}
		adjust := s.Param - (int32(u.cur.RgdxaCenter[0]) + u.cur.DxaGapHalf)
		for i := range u.cur.RgdxaCenter {
			u.cur.RgdxaCenter[i] += int16(adjust)
		}
		return nil
	},
	0x02: func(u *update[tap], s Sprm) error {
		if len(u.cur.RgdxaCenter) > 0 {
			u.cur.RgdxaCenter[0] += int16(u.cur.DxaGapHalf - s.Param)
		}
		u.cur.DxaGapHalf = s.Param
		return nil
	},
	0x03: flag(func(t *tap) *bool { return &t.CantSplit }),
	0x04: flag(func(t *tap) *bool { return &t.TableHeader }),
	0x05: func(u *update[tap], s Sprm) error {
		targets := []*BRC{
			&u.cur.BrcTop, &u.cur.BrcLeft, &u.cur.BrcBottom,
			&u.cur.BrcRight, &u.cur.BrcHorizontal, &u.cur.BrcVertical,
		}
		var brcs [6]BRC
		for i := range brcs {
			b, err := readBRC(s.Var, 4*i)
			if err != nil {
				return err
			}
			brcs[i] = b
		}
		for i, t := range targets {
			*t = brcs[i]
		}
		return nil
	},
	0x07: set(func(t *tap) *int32 { return &t.DyaRowHeight }),
	0x08: defineTable,
	0x20: func(u *update[tap], s Sprm) error {
		c := lebin.NewCursor(s.Var)
		first, err := c.Uint8()
		if err != nil {
			return err
		}
		lim, err := c.Uint8()
		if err != nil {
			return err
		}
		which, err := c.Uint8()
		if err != nil {
			return err
		}
		brc, err := readBRC(s.Var, 3)
		if err != nil {
			return err
		}
		for i := int(first); i < int(lim) && i < len(u.cur.Rgtc); i++ {
			tc := &u.cur.Rgtc[i]
			if which&0x01 != 0 {
				tc.BrcTop = brc
			}
			if which&0x02 != 0 {
				tc.BrcLeft = brc
			}
			if which&0x04 != 0 {
				tc.BrcBottom = brc
			}
			if which&0x08 != 0 {
				tc.BrcRight = brc
			}
		}
		return nil
	},
	0x21: insertCells,
	0x22: deleteCells,
	0x23: setColumnWidth,
}

func readBRC(buf []byte, off int) (BRC, error) {
	lo, err := lebin.Int16(buf, off)
	if err != nil {
		return BRC{}, err
	}
	hi, err := lebin.Int16(buf, off+2)
	if err != nil {
		return BRC{}, err
	}
	return BRC{lo, hi}, nil
}

// ReadTC decodes a 20-byte table cell descriptor at off.
func ReadTC(buf []byte, off int) (TableCellDescriptor, error) {
	flags, err := lebin.Uint16(buf, off)
	if err != nil {
		return TableCellDescriptor{}, err
	}
	tc := TableCellDescriptor{Flags: flags}
	for i, dst := range []*BRC{&tc.BrcTop, &tc.BrcLeft, &tc.BrcBottom, &tc.BrcRight} {
		b, err := readBRC(buf, off+4+4*i)
		if err != nil {
			return TableCellDescriptor{}, err
		}
		*dst = b
	}
	return tc, nil
}

// defineTable applies sprmTDefTable: the cell count, itcMac+1 boundaries
// and up to itcMac cell descriptors. Writers may omit trailing descriptors;
// those cells get an empty descriptor.
func defineTable(u *update[tap], s Sprm) error {
	n, err := lebin.Uint8(s.Var, 0)
	if err != nil {
		return err
	}
	itcMac := int(n)
	centers := make([]int16, itcMac+1)
	for i := range centers {
		if centers[i], err = lebin.Int16(s.Var, 1+2*i); err != nil {
			return err
		}
	}
	tcs := make([]TableCellDescriptor, itcMac)
	tcStart := 1 + 2*(itcMac+1)
	for i := range tcs {
		off := tcStart + tcSize*i
		if off+tcSize > len(s.Var) {
			break
		}
		if tcs[i], err = ReadTC(s.Var, off); err != nil {
			return err
		}
	}
	u.cur.ItcMac = int16(itcMac)
	u.cur.RgdxaCenter = centers
	u.cur.Rgtc = tcs
	return nil
}

// insertCells applies sprmTInsert: count cells of the given width inserted
// before cell index. Cells to the right move over.
func insertCells(u *update[tap], s Sprm) error {
	index := int(uint32(s.Param)>>24) & 0xFF
	count := int(s.Param>>16) & 0xFF
	width := int16(s.Param & 0xFFFF)
	itcMac := int(u.cur.ItcMac)
	old := u.cur.RgdxaCenter
	if len(old) != itcMac+1 {
		old = make([]int16, itcMac+1)
	}
	if index > itcMac {
		index = itcMac
	}

	centers := make([]int16, 0, itcMac+count+1)
	centers = append(centers, old[:index+1]...)
	for j := 1; j <= count; j++ {
		centers = append(centers, old[index]+int16(j)*width)
	}
	shift := int16(count) * width
	for _, c := range old[index+1:] {
		centers = append(centers, c+shift)
	}

	tcs := make([]TableCellDescriptor, 0, itcMac+count)
	tcs = append(tcs, u.cur.Rgtc[:min(index, len(u.cur.Rgtc))]...)
	tcs = append(tcs, make([]TableCellDescriptor, count)...)
	if index < len(u.cur.Rgtc) {
		tcs = append(tcs, u.cur.Rgtc[index:]...)
	}

	u.cur.ItcMac = int16(itcMac + count)
	u.cur.RgdxaCenter = centers
	u.cur.Rgtc = tcs
	return nil
}

// deleteCells applies sprmTDelete for cells [first, lim).
func deleteCells(u *update[tap], s Sprm) error {
	itcMac := int(u.cur.ItcMac)
	first := min(int(s.Param)&0xFF, itcMac)
	lim := min(int(s.Param>>8)&0xFF, itcMac)
	if lim <= first || len(u.cur.RgdxaCenter) != itcMac+1 {
		return nil
	}
	old := u.cur.RgdxaCenter
	removed := old[lim] - old[first]
	centers := slices.Clone(old[:first+1])
	for _, c := range old[lim+1:] {
		centers = append(centers, c-removed)
	}
	tcs := u.cur.Rgtc
	if lim <= len(tcs) {
		tcs = slices.Delete(slices.Clone(tcs), first, lim)
	}
	u.cur.ItcMac = int16(itcMac - (lim - first))
	u.cur.RgdxaCenter = centers
	u.cur.Rgtc = tcs
	return nil
}

// setColumnWidth applies sprmTDxaCol: cells [first, lim) get width dxaCol.
func setColumnWidth(u *update[tap], s Sprm) error {
	itcMac := int(u.cur.ItcMac)
	if len(u.cur.RgdxaCenter) != itcMac+1 {
		return nil
	}
	first := min(int(s.Param)&0xFF, itcMac)
	lim := min(int(s.Param>>8)&0xFF, itcMac)
	width := int16(s.Param >> 16)
	c := u.cur.RgdxaCenter
	for i := first; i < lim; i++ {
		delta := width - (c[i+1] - c[i])
		for j := i + 1; j <= itcMac; j++ {
			c[j] += delta
		}
	}
	return nil
}
