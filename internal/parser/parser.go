package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docfmt/internal/doctree"
	"github.com/dgallion1/docfmt/internal/worddoc"
)

// Result is a decoded document together with its heading outline.
type Result struct {
	Document *worddoc.Document
	Tree     *doctree.DocTree
}

// Parser converts raw document bytes into a decoded document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Result, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".doc": true,
	".dot": true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, opts worddoc.Options) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".doc", ".dot":
		return &DOCParser{Options: opts}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
