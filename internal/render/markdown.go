package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/dgallion1/docfmt/internal/worddoc"
)

var (
	markdownEscaper = strings.NewReplacer(
		`\`, `\\`, "*", `\*`, "_", `\_`, "~", `\~`, "`", "\\`",
		"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "|", `\|`, "#", `\#`,
	)
	// Number texts CommonMark accepts as ordered list markers.
	listMarker = regexp.MustCompile(`^[0-9]{1,9}[.)]$`)

	previewer = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))
)

// Markdown returns the document as CommonMark with pipe tables.
func Markdown(doc *worddoc.Document) string {
	var parts []string
	for _, b := range blocks(doc) {
		var s string
		switch b.kind {
		case blockHeading:
			p := b.paras[0]
			s = strings.Repeat("#", headingTag(p.HeadingLevel)) + " " + inline(doc, p)
		case blockList:
			s = markdownList(doc, b.paras)
		case blockTable:
			s = markdownTable(doc, b.rows)
		default:
			s = inline(doc, b.paras[0])
		}
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "\n\n") + "\n"
}

// Preview renders the Markdown export to HTML.
func Preview(doc *worddoc.Document) (string, error) {
	var buf bytes.Buffer
	if err := previewer.Convert([]byte(Markdown(doc)), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

type emphasis struct {
	bold, italic, strike bool
}

func (e emphasis) open() string {
	var s string
	if e.strike {
		s += "~~"
	}
	if e.bold {
		s += "**"
	}
	if e.italic {
		s += "*"
	}
	return s
}

func (e emphasis) close() string {
	var s string
	if e.italic {
		s += "*"
	}
	if e.bold {
		s += "**"
	}
	if e.strike {
		s += "~~"
	}
	return s
}

// inline renders the visible runs of p. Only emphasis a run adds to its
// paragraph style is marked. Adjacent runs with the same emphasis share one
// set of markers, and surrounding spaces stay outside them.
func inline(doc *worddoc.Document, p worddoc.Paragraph) string {
	base := baseCHP(doc, p)
	baseStrike := base.Strike || base.DStrike
	var b strings.Builder
	var cur emphasis
	var pending strings.Builder

	flush := func() {
		text := pending.String()
		pending.Reset()
		if text == "" {
			return
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || cur == (emphasis{}) {
			b.WriteString(text)
			return
		}
		lead := text[:strings.Index(text, trimmed)]
		trail := text[len(lead)+len(trimmed):]
		b.WriteString(lead)
		b.WriteString(cur.open())
		b.WriteString(trimmed)
		b.WriteString(cur.close())
		b.WriteString(trail)
	}

	for _, r := range p.Runs {
		if r.CHP.Vanish || r.Text == "" {
			continue
		}
		e := emphasis{
			bold:   r.CHP.Bold && !base.Bold,
			italic: r.CHP.Italic && !base.Italic,
			strike: (r.CHP.Strike || r.CHP.DStrike) && !baseStrike,
		}
		if e != cur {
			flush()
			cur = e
		}
		pending.WriteString(markdownEscaper.Replace(r.Text))
	}
	flush()
	// Word line breaks become hard breaks.
	return strings.ReplaceAll(strings.TrimSpace(b.String()), "\n", "\\\n")
}

func markdownList(doc *worddoc.Document, items []worddoc.Paragraph) string {
	lines := make([]string, 0, len(items))
	for _, p := range items {
		indent := strings.Repeat("   ", p.List.Ilvl)
		marker := "-"
		text := inline(doc, p)
		switch {
		case listMarker.MatchString(p.List.NumberText):
			marker = p.List.NumberText
		case p.List.Ordered() && p.List.NumberText != "":
			text = markdownEscaper.Replace(p.List.NumberText) + " " + text
		}
		lines = append(lines, indent+marker+" "+text)
	}
	return strings.Join(lines, "\n")
}

func markdownTable(doc *worddoc.Document, rows []row) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.cells))
	}
	if width == 0 {
		return ""
	}
	line := func(cells []string) string {
		for len(cells) < width {
			cells = append(cells, "")
		}
		return "| " + strings.Join(cells, " | ") + " |"
	}
	out := make([]string, 0, len(rows)+1)
	for i, r := range rows {
		cells := make([]string, len(r.cells))
		for j, cell := range r.cells {
			var texts []string
			for _, p := range cell {
				if t := inline(doc, p); t != "" {
					texts = append(texts, strings.ReplaceAll(t, "\\\n", " "))
				}
			}
			cells[j] = strings.Join(texts, " ")
		}
		out = append(out, line(cells))
		if i == 0 {
			sep := make([]string, width)
			for k := range sep {
				sep[k] = "---"
			}
			out = append(out, line(sep))
		}
	}
	return strings.Join(out, "\n")
}
