// Package worddoc reads legacy binary Word documents: it locates the
// formatting structures through the FIB, maps them onto the text through
// the piece table and resolves every paragraph and run against the
// stylesheet and list tables.
package worddoc

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/dgallion1/docfmt/internal/wordfmt"
)

// Options configures decoding.
type Options struct {
	// Logger receives one record per degraded structure. Nil discards them.
	Logger *slog.Logger
	// Strict makes Load fail with ErrDegraded when any warning was recorded.
	Strict bool
}

// Warning records a structure that was skipped or replaced with defaults.
type Warning struct {
	Part    string `json:"part"`
	Message string `json:"message"`
	err     error
}

func (w Warning) Error() string { return w.Part + ": " + w.Message }

func (w Warning) Unwrap() error { return w.err }

// Run is a stretch of a paragraph with uniform character formatting.
type Run struct {
	Start int                         `json:"start"`
	End   int                         `json:"end"`
	Text  string                      `json:"text"`
	CHP   wordfmt.CharacterProperties `json:"chp"`
}

// ListItem is the numbering attached to a list paragraph.
type ListItem struct {
	Ilfo       int                         `json:"ilfo"`
	Ilvl       int                         `json:"ilvl"`
	ListID     int32                       `json:"list_id"`
	Format     uint8                       `json:"format"`
	NumberText string                      `json:"number_text"`
	Follow     uint8                       `json:"follow"`
	CHP        wordfmt.CharacterProperties `json:"chp"`
}

// Ordered reports whether the item carries a counter rather than a bullet.
func (li ListItem) Ordered() bool {
	return li.Format != wordfmt.NumberBullet && li.Format != wordfmt.NumberNone
}

// Paragraph is one paragraph of the main text. Start and End are character
// positions and include the paragraph mark.
type Paragraph struct {
	Index        int                         `json:"index"`
	Start        int                         `json:"start"`
	End          int                         `json:"end"`
	Text         string                      `json:"text"`
	StyleName    string                      `json:"style_name,omitempty"`
	PAP          wordfmt.ParagraphProperties `json:"pap"`
	Runs         []Run                       `json:"runs"`
	HeadingLevel int                         `json:"heading_level,omitempty"`
	List         *ListItem                   `json:"list,omitempty"`
	InTable      bool                        `json:"in_table,omitempty"`
	CellEnd      bool                        `json:"cell_end,omitempty"`
	RowEnd       bool                        `json:"row_end,omitempty"`
	Table        *wordfmt.TableProperties    `json:"table,omitempty"`
	Section      int                         `json:"section"`
}

// Document is a decoded .doc file.
type Document struct {
	FIB        FIB                 `json:"fib"`
	Pieces     []Piece             `json:"pieces"`
	Paragraphs []Paragraph         `json:"paragraphs"`
	Sections   []Section           `json:"sections"`
	Fonts      []Font              `json:"fonts"`
	Styles     *wordfmt.StyleSheet `json:"-"`
	Lists      *wordfmt.ListTables `json:"-"`
	Warnings   []Warning           `json:"warnings"`
}

// Text returns the visible text, one line per paragraph.
func (d *Document) Text() string {
	var b strings.Builder
	for i, p := range d.Paragraphs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(p.Text)
	}
	return b.String()
}

// Title returns the text of the first heading, or of the first non-empty
// paragraph when there is none.
func (d *Document) Title() string {
	first := ""
	for _, p := range d.Paragraphs {
		if p.HeadingLevel > 0 && strings.TrimSpace(p.Text) != "" {
			return strings.TrimSpace(p.Text)
		}
		if first == "" {
			first = strings.TrimSpace(p.Text)
		}
	}
	return first
}

type decoder struct {
	log      *slog.Logger
	main     []byte
	table    []byte
	fib      FIB
	text     *pieceTable
	hidden   []bool
	styles   *wordfmt.StyleSheet
	lists    *wordfmt.ListTables
	numberer *wordfmt.Numberer
	papxs    []wordfmt.PAPX
	chpxs    []wordfmt.PropertyNode
	warnings []Warning
	badStyle map[uint16]bool
}

func (d *decoder) warn(part string, err error) {
	d.warnings = append(d.warnings, Warning{Part: part, Message: err.Error(), err: err})
	d.log.Warn("degraded structure", "part", part, "error", err)
}

// tableBytes returns the table stream bytes of s, or nil when s is empty.
func (d *decoder) tableBytes(part string, s Span) []byte {
	if s.IsEmpty() {
		return nil
	}
	b, err := s.Slice(d.table)
	if err != nil {
		d.warn(part, err)
		return nil
	}
	return b
}

// Load decodes a document from its WordDocument and table streams.
func Load(main, table []byte, opts Options) (*Document, error) {
	fib, err := ParseFIB(main)
	if err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	d := &decoder{log: log, main: main, table: table, fib: fib, badStyle: make(map[uint16]bool)}

	pieces := singlePiece(fib)
	if !fib.Clx.IsEmpty() {
		clx, err := fib.Clx.Slice(table)
		if err != nil {
			return nil, &FormatError{Part: "piece table", Err: err}
		}
		if pieces, err = parsePieceTable(clx); err != nil {
			return nil, &FormatError{Part: "piece table", Err: err}
		}
	}
	if d.text, err = newPieceTable(pieces, main); err != nil {
		return nil, &FormatError{Part: "text", Err: err}
	}
	d.hidden = fieldCodes(d.text.text)

	d.styles = &wordfmt.StyleSheet{}
	if stsh := d.tableBytes("stylesheet", fib.Stsh); stsh != nil {
		if ss, err := wordfmt.NewStyleSheet(stsh); err != nil {
			d.warn("stylesheet", err)
		} else {
			d.styles = ss
		}
	}
	if err := d.styles.ResolveAll(); err != nil {
		d.warn("styles", err)
	}

	if lst := d.tableBytes("list definitions", fib.listSpan()); lst != nil {
		lfo := d.tableBytes("list overrides", fib.PlfLfo)
		if lt, err := wordfmt.NewListTables(lst, lfo); err != nil {
			d.warn("lists", err)
		} else {
			d.lists = lt
			d.numberer = wordfmt.NewNumberer(lt)
		}
	}

	var fonts []Font
	if sttbf := d.tableBytes("fonts", fib.Sttbfffn); sttbf != nil {
		if fonts, err = parseFonts(sttbf); err != nil {
			d.warn("fonts", err)
		}
	}

	textLen := min(int(fib.CcpText), d.text.Len())
	sections := d.readSections(d.tableBytes("sections", fib.Plcfsed), textLen)
	d.papxs = d.readPAPXs(d.tableBytes("papx bin table", fib.BtePapx))
	d.chpxs = d.readCHPXs(d.tableBytes("chpx bin table", fib.BteChpx))

	doc := &Document{
		FIB:      fib,
		Pieces:   d.text.pieces,
		Sections: sections,
		Fonts:    fonts,
		Styles:   d.styles,
		Lists:    d.lists,
	}
	doc.Paragraphs = d.paragraphs(textLen, sections)
	doc.Warnings = d.warnings
	log.Debug("document decoded",
		"paragraphs", len(doc.Paragraphs),
		"sections", len(sections),
		"styles", d.styles.Len(),
		"warnings", len(doc.Warnings))

	if opts.Strict && len(doc.Warnings) > 0 {
		return doc, fmt.Errorf("%w: %d warnings, first: %v", ErrDegraded, len(doc.Warnings), doc.Warnings[0])
	}
	return doc, nil
}

const (
	markParagraph = 0x0D
	markCell      = 0x07
	markSection   = 0x0C
)

// paragraphs splits the main text at paragraph marks. A section break
// ends a paragraph only where a section ends.
func (d *decoder) paragraphs(textLen int, sections []Section) []Paragraph {
	ends := make(map[int]bool, len(sections))
	for _, s := range sections {
		ends[s.End] = true
	}
	var out []Paragraph
	start := 0
	for cp := range textLen {
		switch d.text.At(cp) {
		case markParagraph, markCell:
		case markSection:
			if !ends[cp+1] {
				continue
			}
		default:
			continue
		}
		out = append(out, d.paragraph(len(out), start, cp+1, sections))
		start = cp + 1
	}
	if start < textLen {
		out = append(out, d.paragraph(len(out), start, textLen, sections))
	}
	return out
}

func (d *decoder) paragraph(index, start, end int, sections []Section) Paragraph {
	p := Paragraph{Index: index, Start: start, End: end, Section: sectionAt(sections, start)}
	mark := end - 1
	markChar := d.text.At(mark)
	textEnd := end
	if markChar == markParagraph || markChar == markCell || markChar == markSection {
		textEnd = mark
	}

	var papx wordfmt.PAPX
	fc, ok := d.text.FC(mark)
	if ok {
		papx, ok = papxAt(d.papxs, fc)
	}
	if !ok {
		d.warn("paragraph properties", fmt.Errorf("no papx for paragraph at cp %d", start))
	}
	istd, _ := papx.Istd()

	stylePAP := d.paragraphStyle(istd)
	pap, err := wordfmt.UncompressPAP(papx.Grpprl, stylePAP, len(papx.Grpprl) > 0)
	if err != nil {
		d.warn("paragraph properties", fmt.Errorf("paragraph at cp %d: %w", start, err))
	}
	if len(papx.Grpprl) == 0 {
		pap.Istd = istd
	}
	styleCHP := d.characterStyle(pap.Istd)
	if sd, err := d.styles.Description(int(pap.Istd)); err == nil && sd != nil {
		p.StyleName = sd.Name
		if sd.Sti >= 1 && sd.Sti <= 9 {
			p.HeadingLevel = int(sd.Sti)
		}
	}
	if p.HeadingLevel == 0 && pap.Lvl < wordfmt.BodyLevel {
		p.HeadingLevel = int(pap.Lvl) + 1
	}

	if pap.InTable {
		p.InTable = true
		p.HeadingLevel = 0
		if pap.Ttp {
			p.RowEnd = true
			tap, err := wordfmt.UncompressTAP(papx.Grpprl, wordfmt.TableProperties{})
			if err != nil {
				d.warn("table properties", fmt.Errorf("row at cp %d: %w", start, err))
			}
			p.Table = &tap
		} else {
			p.CellEnd = markChar == markCell
		}
	}

	p.Runs = d.runs(start, textEnd, styleCHP)
	if pap.Ilfo > 0 {
		pap = d.listItem(&p, pap, styleCHP)
	}
	p.PAP = pap

	var text strings.Builder
	for _, r := range p.Runs {
		if !r.CHP.Vanish {
			text.WriteString(r.Text)
		}
	}
	p.Text = text.String()
	return p
}

func (d *decoder) paragraphStyle(istd uint16) wordfmt.ParagraphProperties {
	pap, err := d.styles.ParagraphStyle(int(istd))
	if err != nil {
		d.styleWarning(istd, err)
		pap = wordfmt.DefaultParagraphProperties()
		pap.Istd = istd
	}
	return pap
}

func (d *decoder) characterStyle(istd uint16) wordfmt.CharacterProperties {
	chp, err := d.styles.CharacterStyle(int(istd))
	if err != nil {
		d.styleWarning(istd, err)
		chp = wordfmt.DefaultCharacterProperties()
	}
	return chp
}

// styleWarning reports each failing style once.
func (d *decoder) styleWarning(istd uint16, err error) {
	if d.badStyle[istd] {
		return
	}
	d.badStyle[istd] = true
	d.warn("style", fmt.Errorf("style %d: %w", istd, err))
}

// listItem numbers a list paragraph and layers the level's paragraph
// properties over pap. The number takes the formatting of the paragraph's
// last run plus the level's own character sprms.
func (d *decoder) listItem(p *Paragraph, pap wordfmt.ParagraphProperties, styleCHP wordfmt.CharacterProperties) wordfmt.ParagraphProperties {
	if d.numberer == nil {
		d.warn("lists", fmt.Errorf("paragraph at cp %d refers to list %d but the document has no list tables", p.Start, pap.Ilfo))
		return pap
	}
	lvl, text, err := d.numberer.Next(int(pap.Ilfo), int(pap.Ilvl))
	if err != nil {
		d.warn("lists", fmt.Errorf("paragraph at cp %d: %w", p.Start, err))
		return pap
	}
	listed, err := wordfmt.UncompressPAP(lvl.Papx, pap, false)
	if err != nil {
		d.warn("lists", fmt.Errorf("level papx for paragraph at cp %d: %w", p.Start, err))
	}
	numCHP := styleCHP
	if n := len(p.Runs); n > 0 {
		numCHP = p.Runs[n-1].CHP
	}
	if numCHP, err = wordfmt.UncompressCHP(lvl.Chpx, numCHP, d.styles); err != nil {
		d.warn("lists", fmt.Errorf("level chpx for paragraph at cp %d: %w", p.Start, err))
	}
	item := &ListItem{
		Ilfo:       int(pap.Ilfo),
		Ilvl:       int(pap.Ilvl),
		Format:     lvl.NumberFormat,
		NumberText: text,
		Follow:     lvl.Follow,
		CHP:        numCHP,
	}
	if o, err := d.lists.Override(int(pap.Ilfo)); err == nil {
		item.ListID = o.ListID
	}
	p.List = item
	return listed
}

// runs cuts [start, end) at piece and character property boundaries.
// Stretches no chpx covers take the style formatting. Adjacent runs with
// equal formatting are merged and runs left empty are dropped.
func (d *decoder) runs(start, end int, styleCHP wordfmt.CharacterProperties) []Run {
	var out []Run
	add := func(cpStart, cpEnd int, grpprl []byte) {
		if cpStart >= cpEnd {
			return
		}
		chp := styleCHP
		if len(grpprl) > 0 {
			var err error
			if chp, err = wordfmt.UncompressCHP(grpprl, styleCHP, d.styles); err != nil {
				d.warn("character properties", fmt.Errorf("run at cp %d: %w", cpStart, err))
			}
		}
		text := d.visible(cpStart, cpEnd)
		if n := len(out); n > 0 && out[n-1].CHP == chp && out[n-1].End == cpStart {
			out[n-1].End = cpEnd
			out[n-1].Text += text
			return
		}
		if text == "" {
			return
		}
		out = append(out, Run{Start: cpStart, End: cpEnd, Text: text, CHP: chp})
	}

	for _, sp := range d.text.spans(start, end) {
		fc := sp.fcStart
		i := sort.Search(len(d.chpxs), func(i int) bool { return d.chpxs[i].End > fc })
		for ; i < len(d.chpxs) && d.chpxs[i].Start < sp.fcEnd; i++ {
			n := d.chpxs[i]
			if n.Start > fc {
				add(sp.piece.cpAt(fc), sp.piece.cpAt(n.Start), nil)
				fc = n.Start
			}
			e := min(n.End, sp.fcEnd)
			add(sp.piece.cpAt(fc), sp.piece.cpAt(e), n.Grpprl)
			fc = e
		}
		if fc < sp.fcEnd {
			add(sp.piece.cpAt(fc), sp.cpEnd, nil)
		}
	}
	return out
}
