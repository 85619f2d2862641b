package wordfmt

import "slices"

// BRC is a border code: line width/type word and color/space word.
type BRC [2]int16

// IsZero reports whether no border is set.
func (b BRC) IsZero() bool { return b[0] == 0 && b[1] == 0 }

// LineSpacing is an LSPD.
type LineSpacing struct {
	Dya           int16 `json:"dya"`
	MultLinespace int16 `json:"mult_linespace"`
}

// TabStop is one paragraph tab: position in twips plus the TBD byte
// (alignment in bits 0-2, leader in bits 3-5).
type TabStop struct {
	Position   int16 `json:"position"`
	Descriptor uint8 `json:"descriptor"`
}

// ParagraphProperties is the expanded PAP.
type ParagraphProperties struct {
	Istd            uint16      `json:"istd"`
	Jc              uint8       `json:"jc"`
	SideBySide      bool        `json:"side_by_side,omitempty"`
	Keep            bool        `json:"keep,omitempty"`
	KeepFollow      bool        `json:"keep_follow,omitempty"`
	PageBreakBefore bool        `json:"page_break_before,omitempty"`
	Brcl            uint8       `json:"brcl,omitempty"`
	Brcp            uint8       `json:"brcp,omitempty"`
	Ilvl            uint8       `json:"ilvl"`
	Ilfo            int16       `json:"ilfo"`
	NoLnn           bool        `json:"no_lnn,omitempty"`
	DxaRight        int32       `json:"dxa_right"`
	DxaLeft         int32       `json:"dxa_left"`
	DxaLeft1        int32       `json:"dxa_left1"`
	Lspd            LineSpacing `json:"lspd"`
	DyaBefore       int32       `json:"dya_before"`
	DyaAfter        int32       `json:"dya_after"`
	InTable         bool        `json:"in_table,omitempty"`
	Ttp             bool        `json:"ttp,omitempty"`
	DxaAbs          int32       `json:"dxa_abs,omitempty"`
	DyaAbs          int32       `json:"dya_abs,omitempty"`
	DxaWidth        int32       `json:"dxa_width,omitempty"`
	PcVert          uint8       `json:"pc_vert,omitempty"`
	PcHorz          uint8       `json:"pc_horz,omitempty"`
	DxaFromText     int32       `json:"dxa_from_text,omitempty"`
	DyaFromText     int32       `json:"dya_from_text,omitempty"`
	Wr              uint8       `json:"wr,omitempty"`
	BrcTop          BRC         `json:"brc_top"`
	BrcLeft         BRC         `json:"brc_left"`
	BrcBottom       BRC         `json:"brc_bottom"`
	BrcRight        BRC         `json:"brc_right"`
	BrcBetween      BRC         `json:"brc_between"`
	BrcBar          BRC         `json:"brc_bar"`
	NoAutoHyph      bool        `json:"no_auto_hyph,omitempty"`
	DyaHeight       int32       `json:"dya_height,omitempty"`
	Dcs             int16       `json:"dcs,omitempty"`
	Shd             int16       `json:"shd,omitempty"`
	Locked          bool        `json:"locked,omitempty"`
	WidowControl    bool        `json:"widow_control"`
	Kinsoku         bool        `json:"kinsoku,omitempty"`
	WordWrap        bool        `json:"word_wrap,omitempty"`
	OverflowPunct   bool        `json:"overflow_punct,omitempty"`
	TopLinePunct    bool        `json:"top_line_punct,omitempty"`
	AutoSpaceDE     bool        `json:"auto_space_de,omitempty"`
	AutoSpaceDN     bool        `json:"auto_space_dn,omitempty"`
	WAlignFont      int16       `json:"w_align_font,omitempty"`
	FontAlign       int16       `json:"font_align,omitempty"`
	Lvl             uint8       `json:"lvl"`
	UsePgsuSettings bool        `json:"use_pgsu_settings,omitempty"`
	AdjustRight     bool        `json:"adjust_right,omitempty"`
	Anld            []byte      `json:"anld,omitempty"`
	Numrm           []byte      `json:"numrm,omitempty"`
	Tabs            []TabStop   `json:"tabs,omitempty"`
}

// BodyLevel is the outline level of ordinary body text.
const BodyLevel = 9

// DefaultParagraphProperties returns the nil-style PAP.
func DefaultParagraphProperties() ParagraphProperties {
	return ParagraphProperties{
		Lspd:         LineSpacing{Dya: 240, MultLinespace: 1},
		WidowControl: true,
		Lvl:          BodyLevel,
	}
}

// Clone returns a copy that shares no slices with p.
func (p ParagraphProperties) Clone() ParagraphProperties {
	p.Anld = slices.Clone(p.Anld)
	p.Numrm = slices.Clone(p.Numrm)
	p.Tabs = slices.Clone(p.Tabs)
	return p
}

// CharacterProperties is the expanded CHP. It holds no slices, so plain
// assignment copies it.
type CharacterProperties struct {
	Istd     uint16 `json:"istd"`
	BaseIstd uint16 `json:"base_istd"`

	Bold      bool `json:"bold,omitempty"`
	Italic    bool `json:"italic,omitempty"`
	Strike    bool `json:"strike,omitempty"`
	DStrike   bool `json:"dstrike,omitempty"`
	Outline   bool `json:"outline,omitempty"`
	Shadow    bool `json:"shadow,omitempty"`
	Emboss    bool `json:"emboss,omitempty"`
	Imprint   bool `json:"imprint,omitempty"`
	SmallCaps bool `json:"small_caps,omitempty"`
	Caps      bool `json:"caps,omitempty"`
	Vanish    bool `json:"vanish,omitempty"`
	RMark     bool `json:"rmark,omitempty"`
	RMarkDel  bool `json:"rmark_del,omitempty"`
	Spec      bool `json:"spec,omitempty"`
	Data      bool `json:"data,omitempty"`
	Ole2      bool `json:"ole2,omitempty"`
	Obj       bool `json:"obj,omitempty"`
	Highlight bool `json:"highlight,omitempty"`
	ChsDiff   bool `json:"chs_diff,omitempty"`

	FcPic        int32    `json:"fc_pic,omitempty"`
	FcObj        int32    `json:"fc_obj,omitempty"`
	IbstRMark    int16    `json:"ibst_rmark,omitempty"`
	IbstRMarkDel int16    `json:"ibst_rmark_del,omitempty"`
	DttmRMark    [2]int16 `json:"dttm_rmark"`
	DttmRMarkDel [2]int16 `json:"dttm_rmark_del"`
	Chse         int16    `json:"chse,omitempty"`
	FtcSym       int16    `json:"ftc_sym,omitempty"`
	XchSym       int16    `json:"xch_sym,omitempty"`
	IcoHighlight uint8    `json:"ico_highlight,omitempty"`

	FtcAscii int16 `json:"ftc_ascii"`
	FtcFE    int16 `json:"ftc_fe"`
	FtcOther int16 `json:"ftc_other"`

	Kul      uint8 `json:"kul,omitempty"`
	Ico      uint8 `json:"ico,omitempty"`
	Hps      int32 `json:"hps"`
	HpsPos   int16 `json:"hps_pos,omitempty"`
	HpsKern  int32 `json:"hps_kern,omitempty"`
	DxaSpace int32 `json:"dxa_space,omitempty"`

	LidDefault int16 `json:"lid_default"`
	LidFE      int16 `json:"lid_fe"`
	Iss        uint8 `json:"iss,omitempty"`
	Ysr        uint8 `json:"ysr,omitempty"`
	SfxtText   uint8 `json:"sfxt_text,omitempty"`
	IdctHint   uint8 `json:"idct_hint,omitempty"`
	Shd        int16 `json:"shd,omitempty"`
	Brc        BRC   `json:"brc"`

	PropRMark     uint8 `json:"prop_rmark,omitempty"`
	IbstPropRMark int16 `json:"ibst_prop_rmark,omitempty"`
	DttmPropRMark int32 `json:"dttm_prop_rmark,omitempty"`

	DispFldRMark     uint8    `json:"disp_fld_rmark,omitempty"`
	IbstDispFldRMark int16    `json:"ibst_disp_fld_rmark,omitempty"`
	DttmDispFldRMark int32    `json:"dttm_disp_fld_rmark,omitempty"`
	XstDispFldRMark  [32]byte `json:"-"`
}

// DefaultCharacterStyle is the istd of "Default Paragraph Font".
const DefaultCharacterStyle = 10

// DefaultCharacterProperties returns the nil-style CHP: 10pt, language 0x400.
func DefaultCharacterProperties() CharacterProperties {
	return CharacterProperties{
		Istd:       DefaultCharacterStyle,
		Hps:        20,
		LidDefault: 0x400,
		LidFE:      0x400,
	}
}

// SectionProperties is the expanded SEP.
type SectionProperties struct {
	CnsPgn       uint8  `json:"cns_pgn,omitempty"`
	IHeadingPgn  uint8  `json:"i_heading_pgn,omitempty"`
	OlstAnm      []byte `json:"olst_anm,omitempty"`
	EvenlySpaced bool   `json:"evenly_spaced"`
	Unlocked     bool   `json:"unlocked,omitempty"`
	DmBinFirst   int16  `json:"dm_bin_first,omitempty"`
	DmBinOther   int16  `json:"dm_bin_other,omitempty"`
	Bkc          uint8  `json:"bkc"`
	TitlePage    bool   `json:"title_page,omitempty"`
	CcolM1       int16  `json:"ccol_m1"`
	DxaColumns   int32  `json:"dxa_columns"`
	AutoPgn      bool   `json:"auto_pgn,omitempty"`
	NfcPgn       uint8  `json:"nfc_pgn,omitempty"`
	DyaPgn       int16  `json:"dya_pgn"`
	DxaPgn       int16  `json:"dxa_pgn"`
	PgnRestart   bool   `json:"pgn_restart,omitempty"`
	EndNote      bool   `json:"end_note"`
	Lnc          uint8  `json:"lnc,omitempty"`
	GrpfIhdt     uint8  `json:"grpf_ihdt,omitempty"`
	NLnnMod      int16  `json:"n_lnn_mod,omitempty"`
	DxaLnn       int32  `json:"dxa_lnn,omitempty"`
	DyaHdrTop    int32  `json:"dya_hdr_top"`
	DyaHdrBottom int32  `json:"dya_hdr_bottom"`
	LBetween     bool   `json:"l_between,omitempty"`
	Vjc          uint8  `json:"vjc,omitempty"`
	LnnMin       int16  `json:"lnn_min,omitempty"`
	PgnStart     int16  `json:"pgn_start"`
	DmOrientPage uint8  `json:"dm_orient_page"`
	XaPage       int32  `json:"xa_page"`
	YaPage       int32  `json:"ya_page"`
	DxaLeft      int32  `json:"dxa_left"`
	DxaRight     int32  `json:"dxa_right"`
	DyaTop       int32  `json:"dya_top"`
	DyaBottom    int32  `json:"dya_bottom"`
	DzaGutter    int32  `json:"dza_gutter,omitempty"`
	DmPaperReq   int16  `json:"dm_paper_req,omitempty"`
	PropMark     bool   `json:"prop_mark,omitempty"`
	BrcTop       BRC    `json:"brc_top"`
	BrcLeft      BRC    `json:"brc_left"`
	BrcBottom    BRC    `json:"brc_bottom"`
	BrcRight     BRC    `json:"brc_right"`
	PgbProp      int16  `json:"pgb_prop,omitempty"`
	DxtCharSpace int32  `json:"dxt_char_space,omitempty"`
	DyaLinePitch int32  `json:"dya_line_pitch,omitempty"`
	WTextFlow    int16  `json:"w_text_flow,omitempty"`
}

// DefaultSectionProperties returns the SEP of a section without a sepx:
// US Letter portrait with one-inch and one-and-a-quarter-inch margins.
func DefaultSectionProperties() SectionProperties {
	return SectionProperties{
		Bkc:          2,
		DyaPgn:       720,
		DxaPgn:       720,
		EndNote:      true,
		EvenlySpaced: true,
		XaPage:       12240,
		YaPage:       15840,
		DyaHdrTop:    720,
		DyaHdrBottom: 720,
		DmOrientPage: 1,
		DxaColumns:   720,
		DyaTop:       1440,
		DxaLeft:      1800,
		DyaBottom:    1440,
		DxaRight:     1800,
		PgnStart:     1,
	}
}

// Clone returns a copy that shares no slices with s.
func (s SectionProperties) Clone() SectionProperties {
	s.OlstAnm = slices.Clone(s.OlstAnm)
	return s
}

// Table cell flags.
const (
	TCFirstMerged = 0x0001
	TCMerged      = 0x0002
	TCVertical    = 0x0004
	TCBackward    = 0x0008
	TCRotateFont  = 0x0010
	TCVertMerge   = 0x0020
	TCVertRestart = 0x0040
	tcVertAlign   = 0x0180
)

// tcSize is the on-disk size of a table cell descriptor.
const tcSize = 20

// TableCellDescriptor is a TC.
type TableCellDescriptor struct {
	Flags     uint16 `json:"flags"`
	BrcTop    BRC    `json:"brc_top"`
	BrcLeft   BRC    `json:"brc_left"`
	BrcBottom BRC    `json:"brc_bottom"`
	BrcRight  BRC    `json:"brc_right"`
}

// VertAlign returns the vertical alignment: 0 top, 1 center, 2 bottom.
func (tc TableCellDescriptor) VertAlign() uint8 {
	return uint8((tc.Flags & tcVertAlign) >> 7)
}

// TableProperties is the expanded TAP.
type TableProperties struct {
	Jc            int16                 `json:"jc"`
	DxaGapHalf    int32                 `json:"dxa_gap_half"`
	CantSplit     bool                  `json:"cant_split,omitempty"`
	TableHeader   bool                  `json:"table_header,omitempty"`
	BrcTop        BRC                   `json:"brc_top"`
	BrcLeft       BRC                   `json:"brc_left"`
	BrcBottom     BRC                   `json:"brc_bottom"`
	BrcRight      BRC                   `json:"brc_right"`
	BrcHorizontal BRC                   `json:"brc_horizontal"`
	BrcVertical   BRC                   `json:"brc_vertical"`
	DyaRowHeight  int32                 `json:"dya_row_height"`
	ItcMac        int16                 `json:"itc_mac"`
	RgdxaCenter   []int16               `json:"rgdxa_center,omitempty"`
	Rgtc          []TableCellDescriptor `json:"rgtc,omitempty"`
}

// Clone returns a copy that shares no slices with t.
func (t TableProperties) Clone() TableProperties {
	t.RgdxaCenter = slices.Clone(t.RgdxaCenter)
	t.Rgtc = slices.Clone(t.Rgtc)
	return t
}

// CellWidth returns the width of cell i in twips.
func (t TableProperties) CellWidth(i int) int {
	if i < 0 || i+1 >= len(t.RgdxaCenter) {
		return 0
	}
	return int(t.RgdxaCenter[i+1]) - int(t.RgdxaCenter[i])
}
