package parser

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docfmt/internal/doctree"
	"github.com/dgallion1/docfmt/internal/worddoc"
)

// DOCParser handles legacy binary .doc and .dot files.
type DOCParser struct {
	Options worddoc.Options
}

func (p *DOCParser) Parse(r io.Reader, filename string) (*Result, error) {
	// The compound file format needs random access.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := worddoc.Open(bytes.NewReader(data), p.Options)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	title := doc.Title()
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	return &Result{Document: doc, Tree: Outline(doc, title)}, nil
}

// Outline nests paragraphs under their headings.
func Outline(doc *worddoc.Document, title string) *doctree.DocTree {
	tree := &doctree.DocTree{Title: title}

	type stackEntry struct {
		node  *doctree.DocNode
		level int
	}
	root := &doctree.DocNode{Title: tree.Title, Paragraph: -1}
	stack := []stackEntry{{node: root, level: 0}}
	var currentText strings.Builder
	first := -1

	flushText := func() {
		t := strings.TrimSpace(currentText.String())
		if t != "" {
			top := stack[len(stack)-1].node
			if top.Text != "" {
				top.Text += "\n\n" + t
			} else {
				top.Text = t
			}
			if top.Paragraph < 0 {
				top.Paragraph = first
			}
		}
		currentText.Reset()
		first = -1
	}

	for _, para := range doc.Paragraphs {
		text := strings.TrimSpace(para.Text)
		if para.List != nil && text != "" {
			text = para.List.NumberText + " " + text
		}
		level := para.HeadingLevel

		if level > 0 && text != "" {
			flushText()
			newNode := &doctree.DocNode{Title: text, Level: level, Paragraph: para.Index}
			for len(stack) > 1 && stack[len(stack)-1].level >= level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, newNode)
			stack = append(stack, stackEntry{node: newNode, level: level})
		} else if text != "" {
			if currentText.Len() > 0 {
				currentText.WriteString("\n\n")
			}
			currentText.WriteString(text)
			if first < 0 {
				first = para.Index
			}
		}
	}
	flushText()

	tree.Children = root.Children
	// Without headings, all text goes into a single child.
	if len(tree.Children) == 0 && root.Text != "" {
		tree.Children = []*doctree.DocNode{{Text: root.Text, Paragraph: max(root.Paragraph, 0)}}
	}
	return tree
}
