// Package store keeps decoded documents in memory for the HTTP API.
package store

import (
	"log/slog"
	"sort"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/dgallion1/docfmt/internal/doctree"
	"github.com/dgallion1/docfmt/internal/worddoc"
)

// Entry is one decoded upload.
type Entry struct {
	DocID       string
	Filename    string
	ContentHash string
	Size        int
	Document    *worddoc.Document
	Tree        *doctree.DocTree
	HTML        string
	Markdown    string
	DecodeMs    int64
	CreatedAt   time.Time
}

// Summary is the JSON-safe header of an Entry.
type Summary struct {
	DocID      string    `json:"doc_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Size       int       `json:"size"`
	Paragraphs int       `json:"paragraphs"`
	Sections   int       `json:"sections"`
	Warnings   int       `json:"warnings"`
	DecodeMs   int64     `json:"decode_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary returns the header of e.
func (e *Entry) Summary() Summary {
	s := Summary{
		DocID:     e.DocID,
		Filename:  e.Filename,
		Size:      e.Size,
		DecodeMs:  e.DecodeMs,
		CreatedAt: e.CreatedAt,
	}
	if e.Tree != nil {
		s.Title = e.Tree.Title
	}
	if e.Document != nil {
		s.Paragraphs = len(e.Document.Paragraphs)
		s.Sections = len(e.Document.Sections)
		s.Warnings = len(e.Document.Warnings)
	}
	return s
}

// Cache is a size-bounded, expiring map from doc ID to Entry. It is safe
// for concurrent use.
type Cache struct {
	lru *expirable.LRU[string, *Entry]
}

func New(size int, ttl time.Duration, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	onEvict := func(id string, e *Entry) {
		log.Debug("document evicted", "doc_id", id, "filename", e.Filename)
	}
	return &Cache{lru: expirable.NewLRU[string, *Entry](size, onEvict, ttl)}
}

// Put stores e, replacing any entry with the same doc ID.
func (c *Cache) Put(e *Entry) {
	c.lru.Add(e.DocID, e)
}

func (c *Cache) Get(docID string) (*Entry, bool) {
	return c.lru.Get(docID)
}

// Delete removes a document and reports whether it was present.
func (c *Cache) Delete(docID string) bool {
	return c.lru.Remove(docID)
}

func (c *Cache) Len() int {
	return c.lru.Len()
}

// List returns the summaries of all live entries, newest first.
func (c *Cache) List() []Summary {
	entries := c.lru.Values()
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Summary())
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
