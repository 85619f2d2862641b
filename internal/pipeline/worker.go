package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgallion1/docfmt/internal/parser"
	"github.com/dgallion1/docfmt/internal/render"
	"github.com/dgallion1/docfmt/internal/store"
	"github.com/dgallion1/docfmt/internal/worddoc"
)

// Worker processes a single document job.
type Worker struct {
	cache  *store.Cache
	stats  *DecodeStats
	log    *slog.Logger
	strict bool
}

func NewWorker(cache *store.Cache, stats *DecodeStats, log *slog.Logger, strict bool) *Worker {
	return &Worker{
		cache:  cache,
		stats:  stats,
		log:    log,
		strict: strict,
	}
}

// Process decodes the job's upload, renders it and stores the result.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID)

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	p, err := parser.ForFile(job.Filename, worddoc.Options{Logger: log, Strict: w.strict})
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "decoding")
		return
	}

	data := job.FileData()
	start := time.Now()
	res, err := p.Parse(bytes.NewReader(data), job.Filename)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		if errors.Is(err, worddoc.ErrDegraded) {
			w.stats.Record(elapsed, len(data), true)
		}
		log.Error("decode failed", "error", err)
		job.AddError(fmt.Sprintf("decode: %s", err))
		job.SetStatus(StatusFailed, "decoding")
		return
	}
	doc, tree := res.Document, res.Tree
	degraded := len(doc.Warnings) > 0
	w.stats.Record(elapsed, len(data), degraded)

	for _, warn := range doc.Warnings {
		job.AddError(warn.Error())
	}
	if job.Title != "" {
		tree.Title = job.Title
	} else {
		job.SetTitle(tree.Title)
	}
	job.SetDecoded(len(doc.Paragraphs), len(doc.Sections), len(tree.Entries()), len(doc.Warnings))
	log.Info("decoded document",
		"paragraphs", len(doc.Paragraphs),
		"warnings", len(doc.Warnings),
		"duration_ms", elapsed,
	)

	if err := ctx.Err(); err != nil {
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "cancelled")
		return
	}

	// Phase 2: Render
	job.SetStatus(StatusRendering, "rendering")
	html, err := render.HTMLString(doc)
	if err != nil {
		log.Error("render failed", "error", err)
		job.AddError(fmt.Sprintf("render: %s", err))
		job.SetStatus(StatusFailed, "rendering")
		return
	}

	w.cache.Put(&store.Entry{
		DocID:       job.DocID,
		Filename:    job.Filename,
		ContentHash: job.ContentHash,
		Size:        len(data),
		Document:    doc,
		Tree:        tree,
		HTML:        html,
		Markdown:    render.Markdown(doc),
		DecodeMs:    elapsed,
		CreatedAt:   job.CreatedAt,
	})
	job.releaseFileData()

	if degraded {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}
