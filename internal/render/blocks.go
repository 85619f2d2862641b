// Package render turns decoded Word documents into HTML and Markdown.
package render

import (
	"strconv"

	"github.com/dgallion1/docfmt/internal/worddoc"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

type blockKind int

const (
	blockParagraph blockKind = iota
	blockHeading
	blockList
	blockTable
)

type row struct {
	cells [][]worddoc.Paragraph
	tap   *wordfmt.TableProperties
}

// block is a paragraph, a heading, a run of items of one list or a table.
type block struct {
	kind  blockKind
	paras []worddoc.Paragraph
	rows  []row
}

func blocks(doc *worddoc.Document) []block {
	var out []block
	var cell []worddoc.Paragraph
	var cells [][]worddoc.Paragraph

	last := func() *block {
		if len(out) == 0 {
			return nil
		}
		return &out[len(out)-1]
	}
	flushRow := func(tap *wordfmt.TableProperties) {
		if len(cell) > 0 {
			cells = append(cells, cell)
			cell = nil
		}
		if len(cells) == 0 {
			return
		}
		if b := last(); b == nil || b.kind != blockTable {
			out = append(out, block{kind: blockTable})
		}
		b := last()
		b.rows = append(b.rows, row{cells: cells, tap: tap})
		cells = nil
	}

	for _, p := range doc.Paragraphs {
		switch {
		case p.InTable:
			if p.RowEnd {
				flushRow(p.Table)
				continue
			}
			cell = append(cell, p)
			if p.CellEnd {
				cells = append(cells, cell)
				cell = nil
			}
			continue
		case p.List != nil:
			flushRow(nil)
			if b := last(); b != nil && b.kind == blockList && b.paras[0].List.ListID == p.List.ListID {
				b.paras = append(b.paras, p)
				continue
			}
			out = append(out, block{kind: blockList, paras: []worddoc.Paragraph{p}})
		case p.HeadingLevel > 0:
			flushRow(nil)
			out = append(out, block{kind: blockHeading, paras: []worddoc.Paragraph{p}})
		default:
			flushRow(nil)
			out = append(out, block{kind: blockParagraph, paras: []worddoc.Paragraph{p}})
		}
	}
	flushRow(nil)
	return out
}

// baseCHP is the character formatting of the paragraph's style, which
// runs are compared against.
func baseCHP(doc *worddoc.Document, p worddoc.Paragraph) wordfmt.CharacterProperties {
	if doc.Styles != nil {
		if chp, err := doc.Styles.CharacterStyle(int(p.PAP.Istd)); err == nil {
			return chp
		}
	}
	return wordfmt.DefaultCharacterProperties()
}

func headingTag(level int) int {
	return min(max(level, 1), 6)
}

func points(v int32, unit float64) string {
	return strconv.FormatFloat(float64(v)/unit, 'f', -1, 64) + "pt"
}
