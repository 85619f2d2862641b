package wordfmt

import (
	"fmt"

	"github.com/dgallion1/docfmt/internal/lebin"
)

type chp = CharacterProperties

// chpOps is filled in init because the majority operations recurse into
// UncompressCHP, which reads the table.
var chpOps map[uint16]op[chp]

func init() {
	chpOps = map[uint16]op[chp]{
		0x00: flag(func(c *chp) *bool { return &c.RMarkDel }),
		0x01: flag(func(c *chp) *bool { return &c.RMark }),
		0x03: func(u *update[chp], s Sprm) error {
			u.cur.FcPic = s.Param
			u.cur.Spec = true
			return nil
		},
		0x04: set(func(c *chp) *int16 { return &c.IbstRMark }),
		0x05: func(u *update[chp], s Sprm) error {
			b, err := s.wordsBefore()
			if err != nil {
				return err
			}
			u.cur.DttmRMark = b
			return nil
		},
		0x06: flag(func(c *chp) *bool { return &c.Data }),
		0x08: func(u *update[chp], s Sprm) error {
			u.cur.ChsDiff = (s.Param>>16)&0xFF != 0
			u.cur.Chse = int16(s.Param & 0xFFFF)
			return nil
		},
		0x09: func(u *update[chp], s Sprm) error {
			ftc, err := lebin.Int16(s.Var, 0)
			if err != nil {
				return err
			}
			xch, err := lebin.Int16(s.Var, 2)
			if err != nil {
				return err
			}
			u.cur.Spec = true
			u.cur.FtcSym = ftc
			u.cur.XchSym = xch
			return nil
		},
		0x0A: flag(func(c *chp) *bool { return &c.Ole2 }),
		0x0C: func(u *update[chp], s Sprm) error {
			u.cur.IcoHighlight = uint8(s.Param)
			u.cur.Highlight = s.Param != 0
			return nil
		},
		0x0E: set(func(c *chp) *int32 { return &c.FcObj }),
		0x30: set(func(c *chp) *uint16 { return &c.Istd }),
		0x32: func(u *update[chp], _ Sprm) error {
			u.cur.Bold = false
			u.cur.Italic = false
			u.cur.Outline = false
			u.cur.Strike = false
			u.cur.Shadow = false
			u.cur.SmallCaps = false
			u.cur.Caps = false
			u.cur.Vanish = false
			u.cur.Kul = 0
			u.cur.Ico = 0
			return nil
		},
		0x33: func(u *update[chp], _ Sprm) error {
			u.cur = u.base
			u.cur.BaseIstd = u.base.Istd
			return nil
		},
		0x35: toggle(func(c *chp) *bool { return &c.Bold }),
		0x36: toggle(func(c *chp) *bool { return &c.Italic }),
		0x37: toggle(func(c *chp) *bool { return &c.Strike }),
		0x38: toggle(func(c *chp) *bool { return &c.Outline }),
		0x39: toggle(func(c *chp) *bool { return &c.Shadow }),
		0x3A: toggle(func(c *chp) *bool { return &c.SmallCaps }),
		0x3B: toggle(func(c *chp) *bool { return &c.Caps }),
		0x3C: toggle(func(c *chp) *bool { return &c.Vanish }),
		0x3D: set(func(c *chp) *int16 { return &c.FtcAscii }),
		0x3E: set(func(c *chp) *uint8 { return &c.Kul }),
		0x3F: sizePos,
		0x40: set(func(c *chp) *int32 { return &c.DxaSpace }),
		0x41: set(func(c *chp) *int16 { return &c.LidDefault }),
		0x42: set(func(c *chp) *uint8 { return &c.Ico }),
		0x43: set(func(c *chp) *int32 { return &c.Hps }),
		0x44: func(u *update[chp], s Sprm) error {
			u.cur.Hps = max(u.cur.Hps+int32(int8(s.Param))*2, 2)
			return nil
		},
		0x45: set(func(c *chp) *int16 { return &c.HpsPos }),
		0x46: func(u *update[chp], s Sprm) error {
			switch {
			case s.Param != 0 && u.base.HpsPos == 0:
				u.cur.Hps = max(u.cur.Hps-2, 2)
			case s.Param == 0 && u.base.HpsPos != 0:
				u.cur.Hps = max(u.cur.Hps+2, 2)
			}
			return nil
		},
		0x47: majority,
		0x48: set(func(c *chp) *uint8 { return &c.Iss }),
		0x49: func(u *update[chp], s Sprm) error {
			v, err := lebin.Int16(s.Var, 0)
			if err != nil {
				return err
			}
			u.cur.Hps = int32(v)
			return nil
		},
		0x4A: func(u *update[chp], s Sprm) error {
			v, err := lebin.Int16(s.Var, 0)
			if err != nil {
				return err
			}
			u.cur.Hps = max(u.cur.Hps+int32(v), 8)
			return nil
		},
		0x4B: set(func(c *chp) *int32 { return &c.HpsKern }),
		0x4C: majority,
		0x4D: func(u *update[chp], s Sprm) error {
			u.cur.Hps += int32(float32(s.Param) / 100 * float32(u.cur.Hps))
			return nil
		},
		0x4E: set(func(c *chp) *uint8 { return &c.Ysr }),
		0x4F: set(func(c *chp) *int16 { return &c.FtcAscii }),
		0x50: set(func(c *chp) *int16 { return &c.FtcFE }),
		0x51: set(func(c *chp) *int16 { return &c.FtcOther }),
		0x53: flag(func(c *chp) *bool { return &c.DStrike }),
		0x54: flag(func(c *chp) *bool { return &c.Imprint }),
		0x55: flag(func(c *chp) *bool { return &c.Spec }),
		0x56: flag(func(c *chp) *bool { return &c.Obj }),
		0x57: func(u *update[chp], s Sprm) error {
			mark, err := lebin.Uint8(s.Var, 0)
			if err != nil {
				return err
			}
			ibst, err := lebin.Int16(s.Var, 1)
			if err != nil {
				return err
			}
			dttm, err := lebin.Int32(s.Var, 3)
			if err != nil {
				return err
			}
			u.cur.PropRMark, u.cur.IbstPropRMark, u.cur.DttmPropRMark = mark, ibst, dttm
			return nil
		},
		0x58: flag(func(c *chp) *bool { return &c.Emboss }),
		0x59: set(func(c *chp) *uint8 { return &c.SfxtText }),
		0x62: func(u *update[chp], s Sprm) error {
			mark, err := lebin.Uint8(s.Var, 0)
			if err != nil {
				return err
			}
			ibst, err := lebin.Int16(s.Var, 1)
			if err != nil {
				return err
			}
			dttm, err := lebin.Int32(s.Var, 3)
			if err != nil {
				return err
			}
			xst, err := lebin.Bytes(s.Var, 7, 32)
			if err != nil {
				return err
			}
			u.cur.DispFldRMark, u.cur.IbstDispFldRMark, u.cur.DttmDispFldRMark = mark, ibst, dttm
			copy(u.cur.XstDispFldRMark[:], xst)
			return nil
		},
		0x63: set(func(c *chp) *int16 { return &c.IbstRMarkDel }),
		0x64: func(u *update[chp], s Sprm) error {
			b, err := s.wordsBefore()
			if err != nil {
				return err
			}
			u.cur.DttmRMarkDel = b
			return nil
		},
		0x65: brcFromOperand(func(c *chp) *BRC { return &c.Brc }),
		0x66: set(func(c *chp) *int16 { return &c.Shd }),
		0x6D: set(func(c *chp) *int16 { return &c.LidDefault }),
		0x6E: set(func(c *chp) *int16 { return &c.LidFE }),
		0x6F: set(func(c *chp) *uint8 { return &c.IdctHint }),
	}
}

// toggleValue interprets a toggle operand: 0 and 1 set the value, 0x80
// keeps the base value and 0x81 inverts it.
func toggleValue(param uint8, base bool) bool {
	switch param {
	case 0x00:
		return false
	case 0x01:
		return true
	case 0x80:
		return base
	case 0x81:
		return !base
	}
	return false
}

func toggle(field func(*chp) *bool) op[chp] {
	return func(u *update[chp], s Sprm) error {
		*field(&u.cur) = toggleValue(uint8(s.Param), *field(&u.base))
		return nil
	}
}

// sizePos decodes sprmCSizePos: hps in byte 0, fAdjust in bit 8, a signed
// seven-bit size increment in bits 9-15 and hpsPos in byte 2.
func sizePos(u *update[chp], s Sprm) error {
	if hps := s.Param & 0xFF; hps != 0 {
		u.cur.Hps = hps
	}
	if inc := int32(int8(s.Param>>8) >> 1); inc != 0 {
		u.cur.Hps = max(u.cur.Hps+inc*2, 2)
	}
	hpsPos := int8(s.Param >> 16)
	if uint8(hpsPos) != 0x80 {
		u.cur.HpsPos = int16(hpsPos)
	}
	adjust := s.Param&0x0100 != 0
	if adjust && uint8(hpsPos) != 0x80 && hpsPos != 0 && u.base.HpsPos == 0 {
		u.cur.Hps = max(u.cur.Hps-2, 2)
	}
	if adjust && hpsPos == 0 && u.base.HpsPos != 0 {
		u.cur.Hps = max(u.cur.Hps+2, 2)
	}
	return nil
}

// majority resets every property the embedded chpx leaves at its default
// back to the value of the style the run is based on.
func majority(u *update[chp], s Sprm) error {
	if u.styles == nil {
		return nil
	}
	gen := CharacterProperties{FtcAscii: 4}
	gen, err := UncompressCHP(s.Var, gen, u.styles)
	if err != nil {
		return err
	}
	style, err := u.styles.CharacterStyle(int(u.cur.BaseIstd))
	if err != nil {
		return fmt.Errorf("majority base style %d: %w", u.cur.BaseIstd, err)
	}
	c := &u.cur
	if gen.Bold == c.Bold {
		c.Bold = style.Bold
	}
	if gen.Italic == c.Italic {
		c.Italic = style.Italic
	}
	if gen.SmallCaps == c.SmallCaps {
		c.SmallCaps = style.SmallCaps
	}
	if gen.Vanish == c.Vanish {
		c.Vanish = style.Vanish
	}
	if gen.Strike == c.Strike {
		c.Strike = style.Strike
	}
	if gen.Caps == c.Caps {
		c.Caps = style.Caps
	}
	if gen.FtcAscii == c.FtcAscii {
		c.FtcAscii = style.FtcAscii
	}
	if gen.FtcFE == c.FtcFE {
		c.FtcFE = style.FtcFE
	}
	if gen.FtcOther == c.FtcOther {
		c.FtcOther = style.FtcOther
	}
	if gen.Hps == c.Hps {
		c.Hps = style.Hps
	}
	if gen.HpsPos == c.HpsPos {
		c.HpsPos = style.HpsPos
	}
	if gen.Kul == c.Kul {
		c.Kul = style.Kul
	}
	if gen.DxaSpace == c.DxaSpace {
		c.DxaSpace = style.DxaSpace
	}
	if gen.Ico == c.Ico {
		c.Ico = style.Ico
	}
	if gen.LidDefault == c.LidDefault {
		c.LidDefault = style.LidDefault
	}
	if gen.LidFE == c.LidFE {
		c.LidFE = style.LidFE
	}
	return nil
}
