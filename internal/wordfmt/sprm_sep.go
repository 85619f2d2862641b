package wordfmt

import (
	"slices"

	"github.com/dgallion1/docfmt/internal/lebin"
)

type sep = SectionProperties

var sepOps = map[uint16]op[sep]{
	0x00: set(func(s *sep) *uint8 { return &s.CnsPgn }),
	0x01: set(func(s *sep) *uint8 { return &s.IHeadingPgn }),
	0x02: func(u *update[sep], s Sprm) error {
		u.cur.OlstAnm = slices.Clone(s.Var)
		return nil
	},
	0x05: flag(func(s *sep) *bool { return &s.EvenlySpaced }),
	0x06: flag(func(s *sep) *bool { return &s.Unlocked }),
	0x07: set(func(s *sep) *int16 { return &s.DmBinFirst }),
	0x08: set(func(s *sep) *int16 { return &s.DmBinOther }),
	0x09: set(func(s *sep) *uint8 { return &s.Bkc }),
	0x0A: flag(func(s *sep) *bool { return &s.TitlePage }),
	0x0B: set(func(s *sep) *int16 { return &s.CcolM1 }),
	0x0C: set(func(s *sep) *int32 { return &s.DxaColumns }),
	0x0D: flag(func(s *sep) *bool { return &s.AutoPgn }),
	0x0E: set(func(s *sep) *uint8 { return &s.NfcPgn }),
	0x0F: set(func(s *sep) *int16 { return &s.DyaPgn }),
	0x10: set(func(s *sep) *int16 { return &s.DxaPgn }),
	0x11: flag(func(s *sep) *bool { return &s.PgnRestart }),
	0x12: flag(func(s *sep) *bool { return &s.EndNote }),
	0x13: set(func(s *sep) *uint8 { return &s.Lnc }),
	0x14: set(func(s *sep) *uint8 { return &s.GrpfIhdt }),
	0x15: set(func(s *sep) *int16 { return &s.NLnnMod }),
	0x16: set(func(s *sep) *int32 { return &s.DxaLnn }),
	0x17: set(func(s *sep) *int32 { return &s.DyaHdrTop }),
	0x18: set(func(s *sep) *int32 { return &s.DyaHdrBottom }),
	0x19: flag(func(s *sep) *bool { return &s.LBetween }),
	0x1A: set(func(s *sep) *uint8 { return &s.Vjc }),
	0x1B: set(func(s *sep) *int16 { return &s.LnnMin }),
	0x1C: set(func(s *sep) *int16 { return &s.PgnStart }),
	0x1D: set(func(s *sep) *uint8 { return &s.DmOrientPage }),
	0x1F: set(func(s *sep) *int32 { return &s.XaPage }),
	0x20: set(func(s *sep) *int32 { return &s.YaPage }),
	0x21: set(func(s *sep) *int32 { return &s.DxaLeft }),
	0x22: set(func(s *sep) *int32 { return &s.DxaRight }),
	0x23: set(func(s *sep) *int32 { return &s.DyaTop }),
	0x24: set(func(s *sep) *int32 { return &s.DyaBottom }),
	0x25: set(func(s *sep) *int32 { return &s.DzaGutter }),
	0x26: set(func(s *sep) *int16 { return &s.DmPaperReq }),
	0x27: func(u *update[sep], s Sprm) error {
		v, err := lebin.Uint8(s.Var, 0)
		if err != nil {
			return err
		}
		u.cur.PropMark = v != 0
		return nil
	},
	0x2B: splitBRC(func(s *sep) *BRC { return &s.BrcTop }),
	0x2C: splitBRC(func(s *sep) *BRC { return &s.BrcLeft }),
	0x2D: splitBRC(func(s *sep) *BRC { return &s.BrcBottom }),
	0x2E: splitBRC(func(s *sep) *BRC { return &s.BrcRight }),
	0x2F: set(func(s *sep) *int16 { return &s.PgbProp }),
	0x30: set(func(s *sep) *int32 { return &s.DxtCharSpace }),
	0x31: set(func(s *sep) *int32 { return &s.DyaLinePitch }),
	0x33: set(func(s *sep) *int16 { return &s.WTextFlow }),
}

// splitBRC sets a border from the low and high words of a 4-byte operand.
func splitBRC(field func(*sep) *BRC) op[sep] {
	return func(u *update[sep], s Sprm) error {
		*field(&u.cur) = BRC{int16(s.Param & 0xFFFF), int16(s.Param >> 16)}
		return nil
	}
}
