package wordfmt

import (
	"slices"

	"github.com/dgallion1/docfmt/internal/lebin"
)

type pap = ParagraphProperties

var papOps = map[uint16]op[pap]{
	0x00: set(func(p *pap) *uint16 { return &p.Istd }),
	0x02: incLevel,
	0x03: set(func(p *pap) *uint8 { return &p.Jc }),
	0x04: flag(func(p *pap) *bool { return &p.SideBySide }),
	0x05: flag(func(p *pap) *bool { return &p.Keep }),
	0x06: flag(func(p *pap) *bool { return &p.KeepFollow }),
	0x07: flag(func(p *pap) *bool { return &p.PageBreakBefore }),
	0x08: set(func(p *pap) *uint8 { return &p.Brcl }),
	0x09: set(func(p *pap) *uint8 { return &p.Brcp }),
	0x0A: set(func(p *pap) *uint8 { return &p.Ilvl }),
	0x0B: set(func(p *pap) *int16 { return &p.Ilfo }),
	0x0C: flag(func(p *pap) *bool { return &p.NoLnn }),
	0x0D: changeTabs(false),
	0x0E: set(func(p *pap) *int32 { return &p.DxaRight }),
	0x0F: set(func(p *pap) *int32 { return &p.DxaLeft }),
	0x10: func(u *update[pap], s Sprm) error {
		u.cur.DxaLeft = max(0, u.cur.DxaLeft+s.Param)
		return nil
	},
	0x11: set(func(p *pap) *int32 { return &p.DxaLeft1 }),
	0x12: func(u *update[pap], s Sprm) error {
		b, err := s.wordsBefore()
		if err != nil {
			return err
		}
		u.cur.Lspd = LineSpacing{Dya: b[0], MultLinespace: b[1]}
		return nil
	},
	0x13: set(func(p *pap) *int32 { return &p.DyaBefore }),
	0x14: set(func(p *pap) *int32 { return &p.DyaAfter }),
	0x15: changeTabs(true),
	0x16: flag(func(p *pap) *bool { return &p.InTable }),
	0x17: flag(func(p *pap) *bool { return &p.Ttp }),
	0x18: set(func(p *pap) *int32 { return &p.DxaAbs }),
	0x19: set(func(p *pap) *int32 { return &p.DyaAbs }),
	0x1A: set(func(p *pap) *int32 { return &p.DxaWidth }),
	0x1B: func(u *update[pap], s Sprm) error {
		if v := uint8(s.Param>>4) & 0x03; v != 3 {
			u.cur.PcVert = v
		}
		if h := uint8(s.Param>>6) & 0x03; h != 3 {
			u.cur.PcHorz = h
		}
		return nil
	},
	0x22: set(func(p *pap) *int32 { return &p.DxaFromText }),
	0x23: set(func(p *pap) *uint8 { return &p.Wr }),
	0x24: brcFromOperand(func(p *pap) *BRC { return &p.BrcTop }),
	0x25: brcFromOperand(func(p *pap) *BRC { return &p.BrcLeft }),
	0x26: brcFromOperand(func(p *pap) *BRC { return &p.BrcBottom }),
	0x27: brcFromOperand(func(p *pap) *BRC { return &p.BrcRight }),
	0x28: brcFromOperand(func(p *pap) *BRC { return &p.BrcBetween }),
	0x29: brcFromOperand(func(p *pap) *BRC { return &p.BrcBar }),
	0x2A: flag(func(p *pap) *bool { return &p.NoAutoHyph }),
	0x2B: set(func(p *pap) *int32 { return &p.DyaHeight }),
	0x2C: set(func(p *pap) *int16 { return &p.Dcs }),
	0x2D: set(func(p *pap) *int16 { return &p.Shd }),
	0x2E: set(func(p *pap) *int32 { return &p.DyaFromText }),
	0x2F: set(func(p *pap) *int32 { return &p.DxaFromText }),
	0x30: flag(func(p *pap) *bool { return &p.Locked }),
	0x31: flag(func(p *pap) *bool { return &p.WidowControl }),
	0x33: flag(func(p *pap) *bool { return &p.Kinsoku }),
	0x34: flag(func(p *pap) *bool { return &p.WordWrap }),
	0x35: flag(func(p *pap) *bool { return &p.OverflowPunct }),
	0x36: flag(func(p *pap) *bool { return &p.TopLinePunct }),
	0x37: flag(func(p *pap) *bool { return &p.AutoSpaceDE }),
	0x38: flag(func(p *pap) *bool { return &p.AutoSpaceDN }),
	0x39: set(func(p *pap) *int16 { return &p.WAlignFont }),
	0x3A: set(func(p *pap) *int16 { return &p.FontAlign }),
	0x3E: func(u *update[pap], s Sprm) error {
		u.cur.Anld = slices.Clone(s.Var)
		return nil
	},
	0x40: set(func(p *pap) *uint8 { return &p.Lvl }),
	0x45: func(u *update[pap], s Sprm) error {
		// The fixed-width form points into the data stream, which is not read here.
		if s.Spra == 6 {
			u.cur.Numrm = slices.Clone(s.Var)
		}
		return nil
	},
	0x47: flag(func(p *pap) *bool { return &p.UsePgsuSettings }),
	0x48: flag(func(p *pap) *bool { return &p.AdjustRight }),
}

// incLevel moves a heading style (istd 1-9) up or down, staying within the
// heading range.
func incLevel(u *update[pap], s Sprm) error {
	istd := int(u.cur.Istd)
	if istd < 1 || istd > 9 {
		return nil
	}
	u.cur.Istd = uint16(min(max(istd+int(int8(s.Param)), 1), 9))
	return nil
}

// changeTabs applies sprmPChgTabsPapx, or sprmPChgTabs when withClose is
// set. The latter carries a tolerance per deleted position.
func changeTabs(withClose bool) op[pap] {
	return func(u *update[pap], s Sprm) error {
		c := lebin.NewCursor(s.Var)
		nDel, err := c.Uint8()
		if err != nil {
			return err
		}
		del := make([]int16, nDel)
		for i := range del {
			if del[i], err = c.Int16(); err != nil {
				return err
			}
		}
		closeTo := make([]int16, nDel)
		if withClose {
			for i := range closeTo {
				if closeTo[i], err = c.Int16(); err != nil {
					return err
				}
			}
		}
		nAdd, err := c.Uint8()
		if err != nil {
			return err
		}
		add := make([]TabStop, nAdd)
		for i := range add {
			if add[i].Position, err = c.Int16(); err != nil {
				return err
			}
		}
		for i := range add {
			if add[i].Descriptor, err = c.Uint8(); err != nil {
				return err
			}
		}

		tabs := u.cur.Tabs[:0:0]
		for _, t := range u.cur.Tabs {
			removed := false
			for i, d := range del {
				if abs(int(t.Position)-int(d)) <= int(closeTo[i]) {
					removed = true
					break
				}
			}
			if !removed {
				tabs = append(tabs, t)
			}
		}
		for _, a := range add {
			i := slices.IndexFunc(tabs, func(t TabStop) bool { return t.Position == a.Position })
			if i >= 0 {
				tabs[i] = a
			} else {
				tabs = append(tabs, a)
			}
		}
		slices.SortFunc(tabs, func(a, b TabStop) int { return int(a.Position) - int(b.Position) })
		u.cur.Tabs = tabs
		return nil
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
