package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/dgallion1/docfmt/internal/render"
	"github.com/dgallion1/docfmt/internal/worddoc"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// handleListDocuments lists the cached documents.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"documents": s.orchestrator.Cache().List()})
}

// handleGetDocument returns the summary, outline and warnings.
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	warnings := e.Document.Warnings
	if warnings == nil {
		warnings = []worddoc.Warning{}
	}
	writeJSON(w, map[string]any{
		"document": e.Summary(),
		"fib": map[string]any{
			"n_fib":        e.Document.FIB.NFib,
			"complex":      e.Document.FIB.Complex(),
			"table_stream": e.Document.FIB.TableStream(),
			"ccp_text":     e.Document.FIB.CcpText,
		},
		"outline":  e.Tree.Entries(),
		"fonts":    e.Document.Fonts,
		"warnings": warnings,
	})
}

// handleDeleteDocument drops a document from the cache.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	e := entryFrom(r)
	deleted := s.orchestrator.Cache().Delete(e.DocID)
	writeJSON(w, map[string]any{"doc_id": e.DocID, "deleted": deleted})
}

// styleView is one stylesheet slot. Empty slots carry only their index.
type styleView struct {
	Index int                          `json:"index"`
	Empty bool                         `json:"empty,omitempty"`
	Name  string                       `json:"name,omitempty"`
	Sti   uint16                       `json:"sti"`
	Type  string                       `json:"type,omitempty"`
	Base  *int                         `json:"base,omitempty"`
	PAP   *wordfmt.ParagraphProperties `json:"pap,omitempty"`
	CHP   *wordfmt.CharacterProperties `json:"chp,omitempty"`
	Error string                       `json:"error,omitempty"`
}

var styleTypes = map[uint8]string{
	wordfmt.StyleParagraph: "paragraph",
	wordfmt.StyleCharacter: "character",
}

func (s *Server) handleStyles(w http.ResponseWriter, r *http.Request) {
	ss := entryFrom(r).Document.Styles
	styles := []styleView{}
	if ss != nil {
		for i := range ss.Len() {
			st, err := ss.StyleDescription(i)
			desc, _ := ss.Description(i)
			v := styleView{Index: i}
			if desc == nil {
				v.Empty = true
				styles = append(styles, v)
				continue
			}
			v.Name = st.Name
			v.Sti = st.Sti
			v.Type = styleTypes[st.Type]
			if st.BaseStyle != wordfmt.NilStyle {
				base := int(st.BaseStyle)
				v.Base = &base
			}
			if st.Type == wordfmt.StyleParagraph {
				v.PAP = &st.PAP
			}
			v.CHP = &st.CHP
			if err != nil {
				v.Error = err.Error()
			}
			styles = append(styles, v)
		}
	}
	writeJSON(w, map[string]any{"styles": styles})
}

func (s *Server) handleParagraphs(w http.ResponseWriter, r *http.Request) {
	paras := entryFrom(r).Document.Paragraphs
	offset, limit := 0, defaultPageSize
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageSize)
	}
	start := min(offset, len(paras))
	end := min(start+limit, len(paras))
	writeJSON(w, map[string]any{
		"total":      len(paras),
		"offset":     start,
		"limit":      limit,
		"paragraphs": paras[start:end],
	})
}

func (s *Server) handleLists(w http.ResponseWriter, r *http.Request) {
	lt := entryFrom(r).Document.Lists
	lists := []wordfmt.List{}
	overrides := []wordfmt.ListOverride{}
	if lt != nil {
		lists = append(lists, lt.Lists()...)
		overrides = append(overrides, lt.Overrides()...)
	}
	writeJSON(w, map[string]any{"lists": lists, "overrides": overrides})
}

func (s *Server) handleSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"sections": entryFrom(r).Document.Sections})
}

func (s *Server) handleHTML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(entryFrom(r).HTML))
}

func (s *Server) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(entryFrom(r).Markdown))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	out, err := render.Preview(entryFrom(r).Document)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(out))
}
