// Package doctest builds small but complete Word 97 documents in memory for
// tests: the WordDocument and table streams, wrapped in a compound file.
package doctest

import (
	"encoding/binary"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"

	"github.com/dgallion1/docfmt/internal/wordfmt"
)

// Sprm encodes one property operation with its operand bytes.
func Sprm(opcode uint16, operand ...byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, opcode)
	return append(b, operand...)
}

// VarSprm encodes a variable-length operation with a one-byte length prefix.
func VarSprm(opcode uint16, operand ...byte) []byte {
	b := binary.LittleEndian.AppendUint16(nil, opcode)
	b = append(b, byte(len(operand)))
	return append(b, operand...)
}

// Grpprl concatenates operations.
func Grpprl(ops ...[]byte) []byte {
	var out []byte
	for _, op := range ops {
		out = append(out, op...)
	}
	return out
}

// Common operations.
var (
	Bold      = Sprm(0x0835, 0x01)
	Italic    = Sprm(0x0836, 0x01)
	Strike    = Sprm(0x0837, 0x01)
	SmallCaps = Sprm(0x083A, 0x01)
	Vanish    = Sprm(0x083C, 0x01)
	Underline = Sprm(0x2A3E, 0x01)
	InTable   = Sprm(0x2416, 0x01)
	RowEnd    = Sprm(0x2417, 0x01)
)

// Size sets the font size in half points.
func Size(hps int) []byte { return Sprm(0x4A43, byte(hps), byte(hps>>8)) }

// Font sets the ascii font index.
func Font(ftc int) []byte { return Sprm(0x4A4F, byte(ftc), byte(ftc>>8)) }

// Justify sets paragraph alignment: 0 left, 1 center, 2 right, 3 both.
func Justify(jc int) []byte { return Sprm(0x2403, byte(jc)) }

// Indent sets the left indent in twips.
func Indent(dxa int) []byte { return Sprm(0x840F, byte(dxa), byte(dxa>>8)) }

// ListRef places a paragraph at level ilvl of list override ilfo.
func ListRef(ilfo, ilvl int) []byte {
	return Grpprl(Sprm(0x460B, byte(ilfo), byte(ilfo>>8)), Sprm(0x260A, byte(ilvl)))
}

// DefineTable encodes a table row with cells of the given widths starting
// at left.
func DefineTable(left int, widths ...int) []byte {
	op := []byte{byte(len(widths))}
	x := left
	op = binary.LittleEndian.AppendUint16(op, uint16(x))
	for _, w := range widths {
		x += w
		op = binary.LittleEndian.AppendUint16(op, uint16(x))
	}
	op = append(op, make([]byte, 20*len(widths))...)
	// The length word counts itself plus one.
	b := binary.LittleEndian.AppendUint16(nil, 0xD608)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(op)+1))
	return append(b, op...)
}

// Style is one stylesheet slot. Papx and Chpx hold operations only.
type Style struct {
	Name  string
	Sti   uint16
	Type  uint16
	Base  uint16
	Empty bool
	Papx  []byte
	Chpx  []byte
}

// Slots of DefaultStyles.
const (
	IstdNormal = iota
	IstdHeading1
	IstdHeading2
	IstdListParagraph
	IstdStrong
)

// DefaultStyles returns Normal, two headings, a list paragraph style and a
// bold character style.
func DefaultStyles() []Style {
	return []Style{
		IstdNormal:        {Name: "Normal", Sti: 0, Type: wordfmt.StyleParagraph, Base: wordfmt.NilStyle, Chpx: Size(24)},
		IstdHeading1:      {Name: "heading 1", Sti: 1, Type: wordfmt.StyleParagraph, Base: IstdNormal, Papx: Grpprl(Sprm(0x2640, 0), Sprm(0x2406, 1)), Chpx: Grpprl(Bold, Size(32))},
		IstdHeading2:      {Name: "heading 2", Sti: 2, Type: wordfmt.StyleParagraph, Base: IstdNormal, Papx: Sprm(0x2640, 1), Chpx: Grpprl(Bold, Italic, Size(28))},
		IstdListParagraph: {Name: "List Paragraph", Sti: 0xFFE, Type: wordfmt.StyleParagraph, Base: IstdNormal, Papx: Indent(720)},
		IstdStrong:        {Name: "Strong", Sti: 87, Type: wordfmt.StyleCharacter, Base: wordfmt.NilStyle, Chpx: Bold},
	}
}

// Run is text with its own character operations.
type Run struct {
	Text string
	Chpx []byte
}

// Paragraph is a paragraph of the main text. Mark defaults to a paragraph
// mark; use 0x07 for a table cell or row end.
type Paragraph struct {
	Istd uint16
	Papx []byte
	Runs []Run
	Mark byte
}

// Para returns a Normal paragraph with one plain run.
func Para(text string) Paragraph {
	return Paragraph{Runs: []Run{{Text: text}}}
}

// Heading returns a heading paragraph of level 1 or 2.
func Heading(level int, text string) Paragraph {
	istd := uint16(IstdHeading1)
	if level == 2 {
		istd = IstdHeading2
	}
	return Paragraph{Istd: istd, Runs: []Run{{Text: text}}}
}

// Item returns a list paragraph at ilvl of override ilfo.
func Item(ilfo, ilvl int, text string) Paragraph {
	return Paragraph{Istd: IstdListParagraph, Papx: ListRef(ilfo, ilvl), Runs: []Run{{Text: text}}}
}

func (p Paragraph) text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func (p Paragraph) mark() byte {
	if p.Mark == 0 {
		return '\r'
	}
	return p.Mark
}

// Level is one list level. In Text, %1 to %9 stand for the counters of
// levels 1 to 9.
type Level struct {
	StartAt int32
	Format  uint8
	Text    string
	Papx    []byte
	Chpx    []byte
}

// List is a list definition. Each list gets one override without level
// overrides, so the n'th list is referenced as ilfo n+1.
type List struct {
	ID     int32
	Levels []Level
}

// Document describes the file to build.
type Document struct {
	Styles     []Style
	Paragraphs []Paragraph
	Lists      []List
	Fonts      []string
	Sepx       []byte
	Unicode    bool
	Table1     bool
	Encrypted  bool
	// SplitAt stores the text as two pieces split at this position when
	// it is inside the text.
	SplitAt int
}

// Text returns the main text as stored, paragraph marks included.
func (d Document) Text() string {
	var b strings.Builder
	for _, p := range d.Paragraphs {
		b.WriteString(p.text())
		b.WriteByte(p.mark())
	}
	return b.String()
}

const fcMin = 0x400

// Streams returns the WordDocument and table streams.
func (d Document) Streams() (main, table []byte) {
	text := d.Text()
	units := utf16.Encode([]rune(text))
	ccp := len(units)
	width := 1
	var stored []byte
	if d.Unicode {
		width = 2
		for _, u := range units {
			stored = binary.LittleEndian.AppendUint16(stored, u)
		}
	} else {
		enc, err := charmap.Windows1252.NewEncoder().String(text)
		if err != nil {
			panic("doctest: text is not representable in Windows-1252: " + err.Error())
		}
		stored = []byte(enc)
	}

	main = make([]byte, fcMin)
	main = append(main, stored...)
	fcMac := len(main)

	sepxAt := uint32(0xFFFFFFFF)
	if d.Sepx != nil {
		main = pad(main, 2)
		sepxAt = uint32(len(main))
		main = binary.LittleEndian.AppendUint16(main, uint16(len(d.Sepx)))
		main = append(main, d.Sepx...)
	}

	// Character and paragraph nodes in stream offsets.
	var chpxs []wordfmt.PropertyNode
	var papxs []wordfmt.PAPX
	fc := uint32(fcMin)
	for _, p := range d.Paragraphs {
		start := fc
		for _, r := range p.Runs {
			n := uint32(len(utf16.Encode([]rune(r.Text))) * width)
			if n == 0 {
				continue
			}
			chpxs = append(chpxs, wordfmt.PropertyNode{Start: fc, End: fc + n, Grpprl: r.Chpx})
			fc += n
		}
		chpxs = append(chpxs, wordfmt.PropertyNode{Start: fc, End: fc + uint32(width)})
		fc += uint32(width)
		grpprl := binary.LittleEndian.AppendUint16(nil, p.Istd)
		grpprl = append(grpprl, p.Papx...)
		papxs = append(papxs, wordfmt.PAPX{PropertyNode: wordfmt.PropertyNode{Start: start, End: fc, Grpprl: grpprl}})
	}

	var chpBte, papBte []byte
	main, chpBte = chpPages(main, chpxs)
	main, papBte = papPages(main, papxs)

	t := &tableBuilder{}
	fib := make([]byte, fcMin)
	put32 := func(off int, v uint32) { binary.LittleEndian.PutUint32(fib[off:], v) }
	span := func(off int, b []byte) {
		if len(b) == 0 {
			return
		}
		put32(off, t.add(b))
		put32(off+4, uint32(len(b)))
	}

	styles := d.Styles
	if styles == nil {
		styles = DefaultStyles()
	}
	span(0xA2, stylesheet(styles))
	span(0x1A2, d.clx(ccp, width))
	span(0xFA, chpBte)
	span(0x102, papBte)
	span(0xCA, sections(ccp, sepxAt))
	if len(d.Fonts) > 0 {
		span(0x112, fontTable(d.Fonts))
	}
	if len(d.Lists) > 0 {
		lst, lfo := listTables(d.Lists)
		span(0x2E2, lst)
		span(0x2EA, lfo)
	}

	binary.LittleEndian.PutUint16(fib[0:], 0xA5EC)
	binary.LittleEndian.PutUint16(fib[2:], 0x00C1)
	var flags uint16
	if d.Table1 {
		flags |= 0x0200
	}
	if d.Encrypted {
		flags |= 0x0100
	}
	binary.LittleEndian.PutUint16(fib[0xA:], flags)
	put32(0x18, fcMin)
	put32(0x1C, uint32(fcMac))
	put32(0x4C, uint32(ccp))
	copy(main, fib)
	return main, t.data
}

// TableStreamName returns the name the table stream is stored under.
func (d Document) TableStreamName() string {
	if d.Table1 {
		return "1Table"
	}
	return "0Table"
}

// Bytes returns the document as a .doc file.
func (d Document) Bytes() []byte {
	main, table := d.Streams()
	return CompoundFile(map[string][]byte{
		"WordDocument":      main,
		d.TableStreamName(): table,
	})
}

type tableBuilder struct {
	data []byte
}

func (t *tableBuilder) add(b []byte) uint32 {
	t.data = pad(t.data, 2)
	off := uint32(len(t.data))
	t.data = append(t.data, b...)
	return off
}

func pad(b []byte, align int) []byte {
	for len(b)%align != 0 {
		b = append(b, 0)
	}
	return b
}

func (d Document) clx(ccp, width int) []byte {
	cps := []int{0, ccp}
	if d.SplitAt > 0 && d.SplitAt < ccp {
		cps = []int{0, d.SplitAt, ccp}
	}
	var plc []byte
	for _, cp := range cps {
		plc = binary.LittleEndian.AppendUint32(plc, uint32(cp))
	}
	for _, cp := range cps[:len(cps)-1] {
		fc := uint32(fcMin + cp*width)
		if width == 1 {
			fc = fc*2 | 0x40000000
		}
		plc = binary.LittleEndian.AppendUint16(plc, 0)
		plc = binary.LittleEndian.AppendUint32(plc, fc)
		plc = binary.LittleEndian.AppendUint16(plc, 0)
	}
	out := []byte{0x02}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(plc)))
	return append(out, plc...)
}

// chpPages appends character pages to main and returns the bin table.
func chpPages(main []byte, nodes []wordfmt.PropertyNode) ([]byte, []byte) {
	var fcs, pns []uint32
	for len(nodes) > 0 {
		main = pad(main, wordfmt.PageSize)
		page, overflow, err := wordfmt.EncodeCHPPage(nodes, 0)
		if err != nil {
			panic("doctest: " + err.Error())
		}
		fcs = append(fcs, nodes[0].Start)
		pns = append(pns, uint32(len(main)/wordfmt.PageSize))
		main = append(main, page...)
		last := nodes[len(nodes)-len(overflow)-1]
		if len(overflow) == 0 {
			fcs = append(fcs, last.End)
		}
		nodes = overflow
	}
	return main, binTable(fcs, pns)
}

// papPages appends paragraph pages to main and returns the bin table.
func papPages(main []byte, papxs []wordfmt.PAPX) ([]byte, []byte) {
	var fcs, pns []uint32
	for len(papxs) > 0 {
		main = pad(main, wordfmt.PageSize)
		page, overflow, err := wordfmt.EncodePAPPage(papxs, 0)
		if err != nil {
			panic("doctest: " + err.Error())
		}
		fcs = append(fcs, papxs[0].Start)
		pns = append(pns, uint32(len(main)/wordfmt.PageSize))
		main = append(main, page...)
		last := papxs[len(papxs)-len(overflow)-1]
		if len(overflow) == 0 {
			fcs = append(fcs, last.End)
		}
		papxs = overflow
	}
	return main, binTable(fcs, pns)
}

func binTable(fcs, pns []uint32) []byte {
	if len(pns) == 0 {
		return nil
	}
	var out []byte
	for _, fc := range fcs {
		out = binary.LittleEndian.AppendUint32(out, fc)
	}
	for _, pn := range pns {
		out = binary.LittleEndian.AppendUint32(out, pn)
	}
	return out
}

func sections(ccp int, sepxAt uint32) []byte {
	out := binary.LittleEndian.AppendUint32(nil, 0)
	out = binary.LittleEndian.AppendUint32(out, uint32(ccp))
	sed := make([]byte, 12)
	binary.LittleEndian.PutUint32(sed[2:], sepxAt)
	binary.LittleEndian.PutUint32(sed[8:], 0xFFFFFFFF)
	return append(out, sed...)
}

func utf16le(s string) []byte {
	var out []byte
	for _, u := range utf16.Encode([]rune(s)) {
		out = binary.LittleEndian.AppendUint16(out, u)
	}
	return out
}

const stdBase = 10

func stylesheet(styles []Style) []byte {
	stshi := make([]byte, 18)
	binary.LittleEndian.PutUint16(stshi[0:], uint16(len(styles)))
	binary.LittleEndian.PutUint16(stshi[2:], stdBase)
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(stshi)))
	out = append(out, stshi...)
	for i, s := range styles {
		if s.Empty {
			out = binary.LittleEndian.AppendUint16(out, 0)
			continue
		}
		var upxs [][]byte
		if s.Type == wordfmt.StyleParagraph {
			papx := binary.LittleEndian.AppendUint16(nil, uint16(i))
			upxs = append(upxs, append(papx, s.Papx...))
		}
		upxs = append(upxs, s.Chpx)

		std := make([]byte, stdBase)
		binary.LittleEndian.PutUint16(std[0:], s.Sti&0xFFF)
		binary.LittleEndian.PutUint16(std[2:], s.Type|s.Base<<4)
		binary.LittleEndian.PutUint16(std[4:], uint16(len(upxs)))
		std = binary.LittleEndian.AppendUint16(std, uint16(len(utf16.Encode([]rune(s.Name)))))
		std = append(std, utf16le(s.Name)...)
		std = append(std, 0, 0)
		for _, upx := range upxs {
			std = binary.LittleEndian.AppendUint16(std, uint16(len(upx)))
			std = append(std, upx...)
			std = pad(std, 2)
		}
		out = binary.LittleEndian.AppendUint16(out, uint16(len(std)))
		out = append(out, std...)
	}
	return out
}

func fontTable(names []string) []byte {
	out := binary.LittleEndian.AppendUint16(nil, uint16(len(names)))
	out = binary.LittleEndian.AppendUint16(out, 0)
	for i, name := range names {
		ffn := make([]byte, 39)
		// Alternate families so renderers see both serif and sans fonts.
		ffn[0] = byte(1+i%2) << 4
		binary.LittleEndian.PutUint16(ffn[1:], 400)
		ffn = append(ffn, utf16le(name)...)
		ffn = append(ffn, 0, 0)
		out = append(out, byte(len(ffn)))
		out = append(out, ffn...)
	}
	return out
}

// placeholders turns %1..%9 into the level placeholder characters.
func placeholders(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+1 < len(s) && s[i+1] >= '1' && s[i+1] <= '9' {
			b.WriteByte(s[i+1] - '1')
			i++
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func level(l Level) []byte {
	text := placeholders(l.Text)
	b := make([]byte, 28)
	binary.LittleEndian.PutUint32(b[0:], uint32(l.StartAt))
	b[4] = l.Format
	n := 0
	for i, r := range text {
		if r < 9 && n < 9 {
			b[6+n] = byte(i + 1)
			n++
		}
	}
	b[24] = byte(len(l.Chpx))
	b[25] = byte(len(l.Papx))
	b = append(b, l.Papx...)
	b = append(b, l.Chpx...)
	b = binary.LittleEndian.AppendUint16(b, uint16(len(utf16.Encode([]rune(text)))))
	return append(b, utf16le(text)...)
}

func listTables(lists []List) (lst, lfo []byte) {
	lst = binary.LittleEndian.AppendUint16(nil, uint16(len(lists)))
	var levels []byte
	for _, l := range lists {
		lstf := make([]byte, 28)
		binary.LittleEndian.PutUint32(lstf[0:], uint32(l.ID))
		for i := range wordfmt.MaxLevels {
			binary.LittleEndian.PutUint16(lstf[8+2*i:], wordfmt.NilStyle)
		}
		lst = append(lst, lstf...)
		for i := range wordfmt.MaxLevels {
			lvl := Level{StartAt: 1, Format: wordfmt.NumberDecimal, Text: "%" + string(rune('1'+i)) + "."}
			if i < len(l.Levels) {
				lvl = l.Levels[i]
			}
			levels = append(levels, level(lvl)...)
		}
	}
	lst = append(lst, levels...)

	lfo = binary.LittleEndian.AppendUint32(nil, uint32(len(lists)))
	for _, l := range lists {
		rec := make([]byte, 16)
		binary.LittleEndian.PutUint32(rec[0:], uint32(l.ID))
		lfo = append(lfo, rec...)
	}
	for range lists {
		lfo = binary.LittleEndian.AppendUint32(lfo, 0xFFFFFFFF)
	}
	return lst, lfo
}
