package wordfmt

import (
	"errors"
	"reflect"
	"sync"
	"testing"
)

const (
	styleNormal = iota
	styleHeading
	styleEmptyGrpprl
	styleEmptySlot
	styleCycleA
	styleCycleB
	styleStrong
	styleOrphan
)

func testSheet(t *testing.T) *StyleSheet {
	t.Helper()
	styles := []testStyle{
		styleNormal: {
			name: "Normal", typ: StyleParagraph, base: NilStyle,
			upxs: [][]byte{
				grpprl(le16(styleNormal), sprm(0x2403, 0x03)),
				sprm(0x4A43, 0x18, 0x00),
			},
		},
		styleHeading: {
			name: "heading 1", typ: StyleParagraph, base: styleNormal,
			upxs: [][]byte{
				grpprl(le16(styleHeading), sprm(0x2640, 0x00), varSprm(0xC60D, 0, 1, 0xD0, 0x02, 0x00)),
				grpprl(sprm(0x0835, 0x01), sprm(0x4A43, 0x20, 0x00)),
			},
		},
		styleEmptyGrpprl: {
			name: "Body", typ: StyleParagraph, base: styleNormal,
			upxs: [][]byte{le16(styleEmptyGrpprl), {}},
		},
		styleEmptySlot: {empty: true},
		styleCycleA: {
			name: "A", typ: StyleParagraph, base: styleCycleB,
			upxs: [][]byte{grpprl(le16(styleCycleA), sprm(0x2403, 0x01)), {}},
		},
		styleCycleB: {
			name: "B", typ: StyleParagraph, base: styleCycleA,
			upxs: [][]byte{grpprl(le16(styleCycleB), sprm(0x2403, 0x02)), {}},
		},
		styleStrong: {
			name: "Strong", typ: StyleCharacter, base: NilStyle,
			upxs: [][]byte{sprm(0x0835, 0x01)},
		},
		styleOrphan: {
			name: "Orphan", typ: StyleParagraph, base: 300,
			upxs: [][]byte{grpprl(le16(styleOrphan), sprm(0x2403, 0x02)), {}},
		},
	}
	ss, err := NewStyleSheet(buildStylesheet([3]int16{1, 2, 3}, styles))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return ss
}

func TestNewStyleSheet_Descriptions(t *testing.T) {
	ss := testSheet(t)
	if ss.Len() != 8 {
		t.Fatalf("expected 8 slots, got %d", ss.Len())
	}
	if ss.DefaultFonts() != [3]int16{1, 2, 3} {
		t.Errorf("expected default fonts [1 2 3], got %v", ss.DefaultFonts())
	}
	sd, err := ss.Description(styleHeading)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sd.Name != "heading 1" {
		t.Errorf("expected name %q, got %q", "heading 1", sd.Name)
	}
	if sd.Type != StyleParagraph || sd.BaseStyle != styleNormal {
		t.Errorf("expected paragraph style based on Normal, got type %d base %d", sd.Type, sd.BaseStyle)
	}
	if len(sd.Chpx) != 7 {
		t.Errorf("expected 7-byte chpx, got %d", len(sd.Chpx))
	}
	empty, err := ss.Description(styleEmptySlot)
	if err != nil || empty != nil {
		t.Errorf("expected nil description for empty slot, got %v (%v)", empty, err)
	}
	strong, _ := ss.Description(styleStrong)
	if strong.Type != StyleCharacter || len(strong.Chpx) != 3 || strong.Papx != nil {
		t.Errorf("expected character style with chpx only, got %+v", strong)
	}
	if _, err := ss.Description(99); !errors.Is(err, ErrNoSuchStyle) {
		t.Errorf("expected ErrNoSuchStyle, got %v", err)
	}
}

func TestStyleSheet_Inheritance(t *testing.T) {
	ss := testSheet(t)
	normal, err := ss.ParagraphStyle(styleNormal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if normal.Jc != 3 || normal.Istd != styleNormal {
		t.Errorf("expected justified Normal, got jc %d istd %d", normal.Jc, normal.Istd)
	}

	heading, err := ss.ParagraphStyle(styleHeading)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if heading.Jc != 3 {
		t.Errorf("expected jc inherited from Normal, got %d", heading.Jc)
	}
	if heading.Lvl != 0 || len(heading.Tabs) != 1 {
		t.Errorf("expected level 0 with one tab, got level %d tabs %v", heading.Lvl, heading.Tabs)
	}

	hchp, err := ss.CharacterStyle(styleHeading)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hchp.Bold || hchp.Hps != 32 {
		t.Errorf("expected bold 16pt heading, got bold %v hps %d", hchp.Bold, hchp.Hps)
	}
	if hchp.FtcAscii != 1 || hchp.FtcFE != 2 || hchp.FtcOther != 3 {
		t.Errorf("expected default fonts inherited, got %d %d %d", hchp.FtcAscii, hchp.FtcFE, hchp.FtcOther)
	}
}

func TestStyleSheet_EmptyGrpprlEqualsBase(t *testing.T) {
	ss := testSheet(t)
	base, err := ss.ParagraphStyle(styleNormal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	derived, err := ss.ParagraphStyle(styleEmptyGrpprl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	derived.Istd = base.Istd
	if !reflect.DeepEqual(base, derived) {
		t.Errorf("expected %+v, got %+v", base, derived)
	}

	bchp, _ := ss.CharacterStyle(styleNormal)
	dchp, err := ss.CharacterStyle(styleEmptyGrpprl)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dchp.Istd, dchp.BaseIstd = bchp.Istd, bchp.BaseIstd
	if dchp != bchp {
		t.Errorf("expected %+v, got %+v", bchp, dchp)
	}
}

func TestStyleSheet_Idempotent(t *testing.T) {
	ss := testSheet(t)
	first, err := ss.ParagraphStyle(styleHeading)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first.Tabs[0].Position = 1
	first.Jc = 9
	second, err := ss.ParagraphStyle(styleHeading)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Tabs[0].Position != 720 || second.Jc != 3 {
		t.Errorf("expected resolved style unaffected by caller mutation, got %+v", second)
	}
	third, _ := ss.ParagraphStyle(styleHeading)
	if !reflect.DeepEqual(second, third) {
		t.Errorf("expected repeated resolution to be equal")
	}
	normal, _ := ss.ParagraphStyle(styleNormal)
	if len(normal.Tabs) != 0 {
		t.Errorf("expected base style without tabs, got %v", normal.Tabs)
	}
}

func TestStyleSheet_Cycle(t *testing.T) {
	ss := testSheet(t)
	p, err := ss.ParagraphStyle(styleCycleA)
	if !errors.Is(err, ErrCyclicStyleDefinition) {
		t.Fatalf("expected ErrCyclicStyleDefinition, got %v", err)
	}
	def := DefaultParagraphProperties()
	if p.Jc != def.Jc || p.Lvl != def.Lvl {
		t.Errorf("expected nil-style defaults, got %+v", p)
	}
	if _, err := ss.ParagraphStyle(styleCycleB); !errors.Is(err, ErrCyclicStyleDefinition) {
		t.Errorf("expected the other half of the cycle to fail too, got %v", err)
	}
	if err := ss.ResolveAll(); !errors.Is(err, ErrCyclicStyleDefinition) {
		t.Errorf("expected ResolveAll to report the cycle, got %v", err)
	}
	if _, err := ss.ParagraphStyle(styleHeading); err != nil {
		t.Errorf("expected unrelated styles to resolve, got %v", err)
	}
}

func TestStyleSheet_FallbackBases(t *testing.T) {
	ss := testSheet(t)
	orphan, err := ss.ParagraphStyle(styleOrphan)
	if err != nil {
		t.Fatalf("expected out-of-range base to fall back to nil style, got %v", err)
	}
	if orphan.Jc != 2 || orphan.Lspd != DefaultParagraphProperties().Lspd {
		t.Errorf("expected nil-style defaults plus own sprms, got %+v", orphan)
	}
	empty, err := ss.ParagraphStyle(styleEmptySlot)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if empty.WidowControl != true || empty.Istd != styleEmptySlot {
		t.Errorf("expected defaults for empty slot, got %+v", empty)
	}
	if _, err := ss.CharacterStyle(-1); !errors.Is(err, ErrNoSuchStyle) {
		t.Errorf("expected ErrNoSuchStyle, got %v", err)
	}
}

func TestStyleSheet_StyleDescription(t *testing.T) {
	ss := testSheet(t)
	st, err := ss.StyleDescription(styleStrong)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Name != "Strong" || st.Index != styleStrong {
		t.Errorf("expected Strong at %d, got %q at %d", styleStrong, st.Name, st.Index)
	}
	if !st.CHP.Bold || st.CHP.Istd != styleStrong {
		t.Errorf("expected bold character style, got %+v", st.CHP)
	}
}

func TestStyleSheet_MajorityUsesRunStyle(t *testing.T) {
	ss := testSheet(t)
	base, err := ss.CharacterStyle(styleNormal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	size := sprm(0x4A43, 0x28, 0x00)
	chpx := grpprl(size, varSprm(0xCA47, size...))
	got, err := UncompressCHP(chpx, base, ss)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hps != base.Hps {
		t.Errorf("expected majority to restore style size %d, got %d", base.Hps, got.Hps)
	}
}

func TestStyleSheet_ConcurrentResolution(t *testing.T) {
	ss := testSheet(t)
	var wg sync.WaitGroup
	results := make([]CharacterProperties, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = ss.CharacterStyle(styleHeading)
		}()
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatalf("expected identical results, got %+v and %+v", results[0], results[i])
		}
	}
}
