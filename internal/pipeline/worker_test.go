package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docfmt/internal/config"
	"github.com/dgallion1/docfmt/internal/store"
	"github.com/dgallion1/docfmt/internal/worddoc/doctest"
)

func quietLog() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newJob(id, filename string, data []byte) *Job {
	now := time.Now()
	job := &Job{
		ID:        id,
		DocID:     "doc-" + id,
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: now,
		UpdatedAt: now,
	}
	job.SetFileData(data)
	return job
}

func report() doctest.Document {
	return doctest.Document{
		Paragraphs: []doctest.Paragraph{
			doctest.Heading(1, "Annual report"),
			{Runs: []doctest.Run{{Text: "Sales were "}, {Text: "strong", Chpx: doctest.Bold}, {Text: "."}}},
			doctest.Heading(2, "Outlook"),
			doctest.Para("Steady."),
		},
	}
}

func TestWorker_Completed(t *testing.T) {
	cache := store.New(8, time.Hour, nil)
	stats := NewDecodeStats(time.Hour)
	w := NewWorker(cache, stats, quietLog(), false)

	job := newJob("1", "report.doc", report().Bytes())
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Title != "Annual report" {
		t.Errorf("expected title from first heading, got %q", snap.Title)
	}
	if snap.Progress.Paragraphs != 4 || snap.Progress.Headings != 2 || snap.Progress.Sections != 1 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	if job.FileData() != nil {
		t.Errorf("expected upload to be released")
	}

	e, ok := cache.Get("doc-1")
	if !ok {
		t.Fatalf("expected decoded document in cache")
	}
	if !strings.Contains(e.HTML, "<h1>Annual report</h1>") {
		t.Errorf("expected rendered html, got %s", e.HTML)
	}
	if !strings.Contains(e.Markdown, "Sales were **strong**.") {
		t.Errorf("expected rendered markdown, got %s", e.Markdown)
	}
	if stats.Snapshot().Count != 1 {
		t.Errorf("expected one decode sample")
	}
}

func TestWorker_TitleOverride(t *testing.T) {
	cache := store.New(8, time.Hour, nil)
	w := NewWorker(cache, NewDecodeStats(time.Hour), quietLog(), false)
	job := newJob("2", "report.doc", report().Bytes())
	job.Title = "Given title"
	w.Process(context.Background(), job)

	e, ok := cache.Get("doc-2")
	if !ok {
		t.Fatalf("expected cached document")
	}
	if e.Tree.Title != "Given title" {
		t.Errorf("expected given title on outline, got %q", e.Tree.Title)
	}
}

func degraded() doctest.Document {
	return doctest.Document{
		Paragraphs: []doctest.Paragraph{
			doctest.Para("Intro"),
			doctest.Item(3, 0, "orphan item"),
		},
	}
}

func TestWorker_PartialOnWarnings(t *testing.T) {
	cache := store.New(8, time.Hour, nil)
	stats := NewDecodeStats(time.Hour)
	w := NewWorker(cache, stats, quietLog(), false)
	job := newJob("3", "broken.doc", degraded().Bytes())
	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusPartial {
		t.Fatalf("expected partial, got %q", snap.Status)
	}
	if snap.Progress.Warnings == 0 || len(snap.Progress.Errors) != snap.Progress.Warnings {
		t.Errorf("expected each warning recorded, got %+v", snap.Progress)
	}
	if _, ok := cache.Get("doc-3"); !ok {
		t.Errorf("expected partial document to be cached")
	}
	if stats.Snapshot().Degraded != 1 {
		t.Errorf("expected a degraded sample")
	}
}

func TestWorker_StrictFails(t *testing.T) {
	cache := store.New(8, time.Hour, nil)
	w := NewWorker(cache, NewDecodeStats(time.Hour), quietLog(), true)
	job := newJob("4", "broken.doc", degraded().Bytes())
	w.Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Fatalf("expected failed, got %q", job.Snapshot().Status)
	}
	if cache.Len() != 0 {
		t.Errorf("expected nothing cached")
	}
}

func TestWorker_Failures(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     []byte
		phase    string
	}{
		{"unsupported", "notes.txt", []byte("hello"), "decoding"},
		{"garbage", "fake.doc", []byte("not a compound file at all"), "decoding"},
		{"encrypted", "locked.doc", doctest.Document{Encrypted: true, Paragraphs: []doctest.Paragraph{doctest.Para("x")}}.Bytes(), "decoding"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorker(store.New(8, time.Hour, nil), NewDecodeStats(time.Hour), quietLog(), false)
			job := newJob(tt.name, tt.filename, tt.data)
			w.Process(context.Background(), job)
			snap := job.Snapshot()
			if snap.Status != StatusFailed || snap.Phase != tt.phase {
				t.Fatalf("expected failed in %s, got %q in %s", tt.phase, snap.Status, snap.Phase)
			}
			if len(snap.Progress.Errors) != 1 {
				t.Fatalf("expected one error, got %v", snap.Progress.Errors)
			}
		})
	}
}

func TestWorker_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := NewWorker(store.New(8, time.Hour, nil), NewDecodeStats(time.Hour), quietLog(), false)
	job := newJob("5", "report.doc", report().Bytes())
	w.Process(ctx, job)
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "cancelled" {
		t.Fatalf("expected cancelled failure, got %q in %s", snap.Status, snap.Phase)
	}
}

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 4,
		JobTTL:       time.Hour,
		StatsWindow:  time.Hour,
	}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	cache := store.New(8, time.Hour, nil)
	o := NewOrchestrator(testConfig(), cache, quietLog())
	o.Start(context.Background())
	defer o.Stop()

	job := newJob("o1", "report.doc", report().Bytes())
	if err := o.Submit(job); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !job.Snapshot().Status.Done() {
		if time.Now().After(deadline) {
			t.Fatalf("job did not finish, status %q", job.Snapshot().Status)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if job.Snapshot().Status != StatusCompleted {
		t.Fatalf("expected completed, got %q", job.Snapshot().Status)
	}
	if o.GetJob("o1") != job {
		t.Errorf("expected job to be tracked")
	}
	if _, ok := o.Cache().Get("doc-o1"); !ok {
		t.Errorf("expected cached document")
	}
	if o.Stats().Snapshot().Count != 1 {
		t.Errorf("expected one decode sample")
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, store.New(8, time.Hour, nil), quietLog())
	// Workers are never started.
	defer o.Stop()

	if err := o.Submit(newJob("q1", "a.doc", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second := newJob("q2", "b.doc", nil)
	err := o.Submit(second)
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if second.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", second.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}
