package render

import (
	"strings"
	"testing"

	"github.com/dgallion1/docfmt/internal/worddoc"
	"github.com/dgallion1/docfmt/internal/worddoc/doctest"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

func load(t *testing.T, d doctest.Document) *worddoc.Document {
	t.Helper()
	main, table := d.Streams()
	doc, err := worddoc.Load(main, table, worddoc.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func cell(text string) doctest.Paragraph {
	return doctest.Paragraph{Papx: doctest.InTable, Runs: []doctest.Run{{Text: text}}, Mark: 0x07}
}

func rowEnd(widths ...int) doctest.Paragraph {
	return doctest.Paragraph{Papx: doctest.Grpprl(doctest.InTable, doctest.RowEnd, doctest.DefineTable(0, widths...)), Mark: 0x07}
}

func fixture() doctest.Document {
	return doctest.Document{
		Fonts: []string{"Times New Roman", "Arial"},
		Lists: []doctest.List{{
			ID: 5,
			Levels: []doctest.Level{
				{StartAt: 1, Format: wordfmt.NumberDecimal, Text: "%1."},
				{StartAt: 1, Format: wordfmt.NumberLowerLetter, Text: "%1.%2"},
			},
		}},
		Paragraphs: []doctest.Paragraph{
			doctest.Heading(1, "Report"),
			{Runs: []doctest.Run{{Text: "Revenue grew "}, {Text: "sharply", Chpx: doctest.Bold}, {Text: " this year."}}},
			{Papx: doctest.Justify(1), Runs: []doctest.Run{{Text: "Centered", Chpx: doctest.Grpprl(doctest.Italic, doctest.Font(1))}}},
			doctest.Item(1, 0, "first"),
			doctest.Item(1, 1, "nested"),
			doctest.Item(1, 0, "second"),
			cell("Name"),
			cell("Value"),
			rowEnd(2000, 3000),
			cell("a"),
			cell("b"),
			rowEnd(2000, 3000),
			{Runs: []doctest.Run{{Text: "hidden", Chpx: doctest.Vanish}, {Text: "shown"}}},
			doctest.Heading(2, "Notes"),
			{Runs: []doctest.Run{{Text: "old", Chpx: doctest.Strike}, {Text: " and "}, {Text: "a*b", Chpx: doctest.Grpprl(doctest.Bold, doctest.Italic)}}},
		},
	}
}

func TestBlocks(t *testing.T) {
	doc := load(t, fixture())
	bs := blocks(doc)
	kinds := []blockKind{blockHeading, blockParagraph, blockParagraph, blockList, blockTable, blockParagraph, blockHeading, blockParagraph}
	if len(bs) != len(kinds) {
		t.Fatalf("expected %d blocks, got %d", len(kinds), len(bs))
	}
	for i, k := range kinds {
		if bs[i].kind != k {
			t.Errorf("block %d: expected kind %d, got %d", i, k, bs[i].kind)
		}
	}
	if len(bs[3].paras) != 3 {
		t.Errorf("expected 3 list items, got %d", len(bs[3].paras))
	}
	table := bs[4]
	if len(table.rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.rows))
	}
	if len(table.rows[0].cells) != 2 || table.rows[0].tap == nil {
		t.Errorf("expected 2 cells with table properties, got %+v", table.rows[0])
	}
}

func TestHTML(t *testing.T) {
	doc := load(t, fixture())
	out, err := HTMLString(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		`<article class="docfmt">`,
		`<h1>Report</h1>`,
		`<p>Revenue grew <span style="font-weight: bold">sharply</span> this year.</p>`,
		`<p style="text-align: center"><span style="font-style: italic; font-family: &#34;Arial&#34;">Centered</span></p>`,
		`<ol style="list-style: none">`,
		`<span class="number">1.</span> first</li>`,
		`data-level="1"><span class="number">1.a</span> nested</li>`,
		`<span class="number">2.</span> second</li>`,
		`<td style="width: 100pt"><p>Name</p></td><td style="width: 150pt"><p>Value</p></td>`,
		`<p>shown</p>`,
		`<h2>Notes</h2>`,
		`<span style="text-decoration: line-through">old</span>`,
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("expected output to contain %q\ngot: %s", w, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("expected hidden text to be skipped")
	}
	if strings.Count(out, "<tr>") != 2 {
		t.Errorf("expected 2 rows, got %d", strings.Count(out, "<tr>"))
	}
}

func TestMarkdown(t *testing.T) {
	doc := load(t, fixture())
	got := Markdown(doc)
	want := strings.Join([]string{
		"# Report",
		"Revenue grew **sharply** this year.",
		"*Centered*",
		"1. first\n   - 1.a nested\n2. second",
		"| Name | Value |\n| --- | --- |\n| a | b |",
		"shown",
		"## Notes",
		"~~old~~ and ***a\\*b***",
	}, "\n\n") + "\n"
	if got != want {
		t.Fatalf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestMarkdown_EmphasisRelativeToStyle(t *testing.T) {
	doc := load(t, doctest.Document{Paragraphs: []doctest.Paragraph{
		{Istd: doctest.IstdHeading1, Runs: []doctest.Run{{Text: "Plain "}, {Text: "slanted", Chpx: doctest.Italic}}},
		{Istd: doctest.IstdHeading2, Runs: []doctest.Run{{Text: "Styled", Chpx: doctest.Grpprl(doctest.Bold, doctest.Italic)}}},
		{Runs: []doctest.Run{{Text: "strong", Chpx: doctest.Bold}, {Text: " tail"}}},
	}})
	want := "# Plain *slanted*\n\n## Styled\n\n**strong** tail\n"
	if got := Markdown(doc); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMarkdown_LineBreak(t *testing.T) {
	doc := load(t, doctest.Document{Paragraphs: []doctest.Paragraph{doctest.Para("one\vtwo")}})
	if got := Markdown(doc); got != "one\\\ntwo\n" {
		t.Fatalf("expected hard break, got %q", got)
	}
}

func TestMarkdown_Empty(t *testing.T) {
	doc := load(t, doctest.Document{Paragraphs: []doctest.Paragraph{doctest.Para("")}})
	if got := Markdown(doc); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestPreview(t *testing.T) {
	doc := load(t, fixture())
	out, err := Preview(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"<h1>Report</h1>",
		"<strong>sharply</strong>",
		"<ol>",
		"<li>first",
		"<table>",
		"<th>Name</th>",
		"<td>a</td>",
		"<del>old</del>",
		"<em><strong>a*b</strong></em>",
	}
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("expected preview to contain %q\ngot: %s", w, out)
		}
	}
}
