package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/docfmt/internal/worddoc"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

var headings = [...]atom.Atom{atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6}

var justify = map[uint8]string{
	1: "center",
	2: "right",
	3: "justify",
	4: "justify",
	5: "justify",
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func styleAttr(decls []string) []html.Attribute {
	if len(decls) == 0 {
		return nil
	}
	return []html.Attribute{{Key: "style", Val: strings.Join(decls, "; ")}}
}

// HTML writes the document as an <article> element.
func HTML(w io.Writer, doc *worddoc.Document) error {
	root := element(atom.Article, html.Attribute{Key: "class", Val: "docfmt"})
	for _, b := range blocks(doc) {
		switch b.kind {
		case blockHeading:
			p := b.paras[0]
			root.AppendChild(paragraphNode(doc, headings[headingTag(p.HeadingLevel)-1], p))
		case blockList:
			root.AppendChild(listNode(doc, b.paras))
		case blockTable:
			root.AppendChild(tableNode(doc, b.rows))
		default:
			root.AppendChild(paragraphNode(doc, atom.P, b.paras[0]))
		}
	}
	if err := html.Render(w, root); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// HTMLString is HTML into a string.
func HTMLString(doc *worddoc.Document) (string, error) {
	var b strings.Builder
	if err := HTML(&b, doc); err != nil {
		return "", err
	}
	return b.String(), nil
}

func paragraphCSS(pap wordfmt.ParagraphProperties) []string {
	var css []string
	if v, ok := justify[pap.Jc]; ok {
		css = append(css, "text-align: "+v)
	}
	if pap.DxaLeft != 0 {
		css = append(css, "margin-left: "+points(pap.DxaLeft, 20))
	}
	if pap.DxaRight != 0 {
		css = append(css, "margin-right: "+points(pap.DxaRight, 20))
	}
	if pap.DxaLeft1 != 0 {
		css = append(css, "text-indent: "+points(pap.DxaLeft1, 20))
	}
	return css
}

// characterCSS lists the declarations of chp that differ from base.
func characterCSS(doc *worddoc.Document, chp, base wordfmt.CharacterProperties) []string {
	var css []string
	if chp.Bold != base.Bold {
		css = append(css, "font-weight: "+pick(chp.Bold, "bold", "normal"))
	}
	if chp.Italic != base.Italic {
		css = append(css, "font-style: "+pick(chp.Italic, "italic", "normal"))
	}
	var deco []string
	if chp.Kul != 0 {
		deco = append(deco, "underline")
	}
	if chp.Strike || chp.DStrike {
		deco = append(deco, "line-through")
	}
	if len(deco) > 0 {
		css = append(css, "text-decoration: "+strings.Join(deco, " "))
	}
	if chp.Hps != base.Hps && chp.Hps > 0 {
		css = append(css, "font-size: "+points(chp.Hps, 2))
	}
	if chp.FtcAscii != base.FtcAscii {
		if name := doc.FontName(chp.FtcAscii); name != "" {
			css = append(css, "font-family: "+strconv.Quote(name))
		}
	}
	if chp.SmallCaps && !base.SmallCaps {
		css = append(css, "font-variant: small-caps")
	}
	if chp.Caps && !base.Caps {
		css = append(css, "text-transform: uppercase")
	}
	return css
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

// appendText adds s to n, turning line breaks into <br>.
func appendText(n *html.Node, s string) {
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			n.AppendChild(element(atom.Br))
		}
		if line != "" {
			n.AppendChild(textNode(line))
		}
	}
}

func appendRuns(doc *worddoc.Document, n *html.Node, p worddoc.Paragraph) {
	base := baseCHP(doc, p)
	for _, r := range p.Runs {
		if r.CHP.Vanish || r.Text == "" {
			continue
		}
		css := characterCSS(doc, r.CHP, base)
		if len(css) == 0 {
			appendText(n, r.Text)
			continue
		}
		span := element(atom.Span, styleAttr(css)...)
		appendText(span, r.Text)
		n.AppendChild(span)
	}
}

func paragraphNode(doc *worddoc.Document, tag atom.Atom, p worddoc.Paragraph) *html.Node {
	n := element(tag, styleAttr(paragraphCSS(p.PAP))...)
	appendRuns(doc, n, p)
	return n
}

func listNode(doc *worddoc.Document, items []worddoc.Paragraph) *html.Node {
	tag := atom.Ul
	if items[0].List.Ordered() {
		tag = atom.Ol
	}
	list := element(tag, html.Attribute{Key: "style", Val: "list-style: none"})
	for _, p := range items {
		css := paragraphCSS(p.PAP)
		li := element(atom.Li, styleAttr(css)...)
		li.Attr = append(li.Attr, html.Attribute{Key: "data-level", Val: strconv.Itoa(p.List.Ilvl)})
		if p.List.NumberText != "" {
			num := element(atom.Span, html.Attribute{Key: "class", Val: "number"})
			num.Attr = append(num.Attr, styleAttr(characterCSS(doc, p.List.CHP, baseCHP(doc, p)))...)
			num.AppendChild(textNode(p.List.NumberText))
			li.AppendChild(num)
			li.AppendChild(textNode(" "))
		}
		appendRuns(doc, li, p)
		list.AppendChild(li)
	}
	return list
}

func tableNode(doc *worddoc.Document, rows []row) *html.Node {
	table := element(atom.Table)
	body := element(atom.Tbody)
	table.AppendChild(body)
	for _, r := range rows {
		tr := element(atom.Tr)
		for i, cell := range r.cells {
			var css []string
			if r.tap != nil {
				if w := r.tap.CellWidth(i); w > 0 {
					css = append(css, "width: "+points(int32(w), 20))
				}
			}
			td := element(atom.Td, styleAttr(css)...)
			for _, p := range cell {
				td.AppendChild(paragraphNode(doc, atom.P, p))
			}
			tr.AppendChild(td)
		}
		body.AppendChild(tr)
	}
	return table
}
