package parser

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/docfmt/internal/worddoc"
	"github.com/dgallion1/docfmt/internal/worddoc/doctest"
)

func TestDOCParser_HeadingHierarchy(t *testing.T) {
	d := doctest.Document{
		Paragraphs: []doctest.Paragraph{
			doctest.Heading(1, "Title"),
			doctest.Para("Intro text."),
			doctest.Heading(2, "Section A"),
			doctest.Para("Section A content."),
			doctest.Para("More A."),
			doctest.Heading(2, "Section B"),
			doctest.Para("Section B content."),
			doctest.Heading(1, "Appendix"),
		},
	}
	p := &DOCParser{}
	res, err := p.Parse(bytes.NewReader(d.Bytes()), "report.doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree := res.Tree

	if tree.Title != "Title" {
		t.Errorf("expected title %q, got %q", "Title", tree.Title)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("expected 2 top-level children, got %d", len(tree.Children))
	}

	h1 := tree.Children[0]
	if h1.Title != "Title" || h1.Level != 1 || h1.Paragraph != 0 {
		t.Errorf("unexpected h1: %+v", h1)
	}
	if h1.Text != "Intro text." {
		t.Errorf("expected h1 text %q, got %q", "Intro text.", h1.Text)
	}
	if len(h1.Children) != 2 {
		t.Fatalf("expected 2 h2 children, got %d", len(h1.Children))
	}
	secA := h1.Children[0]
	if secA.Title != "Section A" || secA.Level != 2 {
		t.Errorf("unexpected section A: %+v", secA)
	}
	if secA.Text != "Section A content.\n\nMore A." {
		t.Errorf("expected joined section text, got %q", secA.Text)
	}
	if secA.Paragraph != 2 {
		t.Errorf("expected section A at paragraph 2, got %d", secA.Paragraph)
	}
	if h1.Children[1].Title != "Section B" {
		t.Errorf("expected %q, got %q", "Section B", h1.Children[1].Title)
	}
	if tree.Children[1].Title != "Appendix" {
		t.Errorf("expected %q, got %q", "Appendix", tree.Children[1].Title)
	}

	if tree.Count() != 4 {
		t.Errorf("expected 4 nodes, got %d", tree.Count())
	}
	entries := tree.Entries()
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
	crumbs := strings.Join(entries[2].Breadcrumb, " > ")
	if crumbs != "Title > Section B" {
		t.Errorf("expected breadcrumb %q, got %q", "Title > Section B", crumbs)
	}
	if res.Document == nil || len(res.Document.Paragraphs) != 8 {
		t.Fatalf("expected decoded document with 8 paragraphs")
	}
}

func TestDOCParser_NoHeadings(t *testing.T) {
	d := doctest.Document{
		Paragraphs: []doctest.Paragraph{
			doctest.Para("First."),
			doctest.Para(""),
			doctest.Para("Second."),
		},
	}
	res, err := (&DOCParser{}).Parse(bytes.NewReader(d.Bytes()), "memo.doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tree := res.Tree
	if tree.Title != "First." {
		t.Errorf("expected title from first paragraph, got %q", tree.Title)
	}
	if len(tree.Children) != 1 {
		t.Fatalf("expected 1 child, got %d", len(tree.Children))
	}
	if tree.Children[0].Text != "First.\n\nSecond." {
		t.Errorf("expected %q, got %q", "First.\n\nSecond.", tree.Children[0].Text)
	}
	if len(tree.Entries()) != 0 {
		t.Errorf("expected no entries, got %d", len(tree.Entries()))
	}
}

func TestDOCParser_ListNumbers(t *testing.T) {
	d := doctest.Document{
		Lists: []doctest.List{{ID: 7, Levels: []doctest.Level{{StartAt: 1, Text: "%1."}}}},
		Paragraphs: []doctest.Paragraph{
			doctest.Item(1, 0, "Alpha"),
			doctest.Item(1, 0, "Beta"),
		},
	}
	res, err := (&DOCParser{}).Parse(bytes.NewReader(d.Bytes()), "list.doc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Tree.Children[0].Text; got != "1. Alpha\n\n2. Beta" {
		t.Errorf("expected numbered text, got %q", got)
	}
}

func TestDOCParser_EmptyDocumentUsesFilename(t *testing.T) {
	d := doctest.Document{Paragraphs: []doctest.Paragraph{doctest.Para("")}}
	res, err := (&DOCParser{}).Parse(bytes.NewReader(d.Bytes()), "blank.dot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Tree.Title != "blank" {
		t.Errorf("expected title %q, got %q", "blank", res.Tree.Title)
	}
	if len(res.Tree.Children) != 0 {
		t.Errorf("expected no children, got %d", len(res.Tree.Children))
	}
}

func TestDOCParser_Errors(t *testing.T) {
	p := &DOCParser{}
	_, err := p.Parse(strings.NewReader("plain text, not a compound file"), "fake.doc")
	if !errors.Is(err, worddoc.ErrNotWordDocument) {
		t.Errorf("expected ErrNotWordDocument, got %v", err)
	}

	enc := doctest.Document{Encrypted: true, Paragraphs: []doctest.Paragraph{doctest.Para("secret")}}
	_, err = p.Parse(bytes.NewReader(enc.Bytes()), "locked.doc")
	if !errors.Is(err, worddoc.ErrEncrypted) {
		t.Errorf("expected ErrEncrypted, got %v", err)
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"a.doc", false},
		{"B.DOC", false},
		{"template.dot", false},
		{"a.docx", true},
		{"a.pdf", true},
		{"noext", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name, worddoc.Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected error=%v, got %v", tt.name, tt.wantErr, err)
		}
		if !tt.wantErr && p == nil {
			t.Errorf("%s: expected parser", tt.name)
		}
		if IsSupportedExtension(tt.name) == tt.wantErr {
			t.Errorf("%s: IsSupportedExtension mismatch", tt.name)
		}
	}
}
