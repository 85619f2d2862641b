package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/docfmt/internal/config"
	"github.com/dgallion1/docfmt/internal/pipeline"
	"github.com/dgallion1/docfmt/internal/store"
	"github.com/dgallion1/docfmt/internal/worddoc/doctest"
	"github.com/dgallion1/docfmt/internal/wordfmt"
)

const testKey = "test-key"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Config{
		APIKey:         testKey,
		WorkerCount:    1,
		MaxQueueSize:   8,
		MaxUploadBytes: 1 << 20,
		JobTTL:         time.Hour,
		StatsWindow:    time.Hour,
	}
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, store.New(16, time.Hour, log), log)
	orch.Start(context.Background())
	ts := httptest.NewServer(NewServer(orch, log, cfg))
	t.Cleanup(func() {
		ts.Close()
		orch.Stop()
	})
	return ts
}

func fixture() doctest.Document {
	return doctest.Document{
		Fonts: []string{"Times New Roman", "Arial"},
		Lists: []doctest.List{{ID: 9, Levels: []doctest.Level{{StartAt: 1, Format: wordfmt.NumberDecimal, Text: "%1."}}}},
		Paragraphs: []doctest.Paragraph{
			doctest.Heading(1, "Handbook"),
			{Runs: []doctest.Run{{Text: "Read "}, {Text: "carefully", Chpx: doctest.Italic}, {Text: "."}}},
			doctest.Item(1, 0, "one"),
			doctest.Item(1, 0, "two"),
			doctest.Heading(2, "Rules"),
			doctest.Para("Be kind."),
		},
	}
}

func do(t *testing.T, method, url string, body io.Reader, contentType string, auth bool) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+testKey)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func upload(t *testing.T, field string, files map[string][]byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, data := range files {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		fw.Write(data)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

// waitDone polls the status endpoint until the job leaves the queue.
func waitDone(t *testing.T, ts *httptest.Server, jobID string) map[string]any {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		resp := do(t, http.MethodGet, ts.URL+"/api/decode/"+jobID+"/status", nil, "", true)
		var status map[string]any
		decodeJSON(t, resp, &status)
		if pipeline.JobStatus(status["status"].(string)).Done() {
			return status
		}
		if time.Now().After(deadline) {
			t.Fatalf("job %s did not finish: %v", jobID, status)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func decodeFixture(t *testing.T, ts *httptest.Server) string {
	t.Helper()
	body, ct := upload(t, "file", map[string][]byte{"handbook.doc": fixture().Bytes()})
	resp := do(t, http.MethodPost, ts.URL+"/api/decode", body, ct, true)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var acc map[string]any
	decodeJSON(t, resp, &acc)
	status := waitDone(t, ts, acc["job_id"].(string))
	if status["status"] != string(pipeline.StatusCompleted) {
		t.Fatalf("expected completed, got %v", status)
	}
	return acc["doc_id"].(string)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", nil, "", false)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuth(t *testing.T) {
	ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/stats/decode", nil, "", false)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/stats/decode", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	bad, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad.Body.Close()
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with wrong token, got %d", bad.StatusCode)
	}
}

func TestDecode_DocumentEndpoints(t *testing.T) {
	ts := newTestServer(t)
	docID := decodeFixture(t, ts)
	base := ts.URL + "/api/documents/" + docID

	var doc struct {
		Document struct {
			Title      string `json:"title"`
			Paragraphs int    `json:"paragraphs"`
		} `json:"document"`
		Outline []struct {
			Title      string   `json:"title"`
			Breadcrumb []string `json:"breadcrumb"`
		} `json:"outline"`
		Warnings []any `json:"warnings"`
	}
	decodeJSON(t, do(t, http.MethodGet, base, nil, "", true), &doc)
	if doc.Document.Title != "Handbook" || doc.Document.Paragraphs != 6 {
		t.Errorf("unexpected summary %+v", doc.Document)
	}
	if len(doc.Outline) != 2 || strings.Join(doc.Outline[1].Breadcrumb, "/") != "Handbook/Rules" {
		t.Errorf("unexpected outline %+v", doc.Outline)
	}
	if doc.Warnings == nil || len(doc.Warnings) != 0 {
		t.Errorf("expected empty warnings array, got %v", doc.Warnings)
	}

	var paras struct {
		Total      int `json:"total"`
		Paragraphs []struct {
			Text string `json:"text"`
			List *struct {
				NumberText string `json:"number_text"`
			} `json:"list"`
		} `json:"paragraphs"`
	}
	decodeJSON(t, do(t, http.MethodGet, base+"/paragraphs?offset=2&limit=2", nil, "", true), &paras)
	if paras.Total != 6 || len(paras.Paragraphs) != 2 {
		t.Fatalf("expected page of 2 of 6, got %d of %d", len(paras.Paragraphs), paras.Total)
	}
	if paras.Paragraphs[1].Text != "two" || paras.Paragraphs[1].List == nil || paras.Paragraphs[1].List.NumberText != "2." {
		t.Errorf("unexpected list paragraph %+v", paras.Paragraphs[1])
	}

	var styles struct {
		Styles []struct {
			Name string `json:"name"`
			Type string `json:"type"`
			Base *int   `json:"base"`
		} `json:"styles"`
	}
	decodeJSON(t, do(t, http.MethodGet, base+"/styles", nil, "", true), &styles)
	if len(styles.Styles) < doctest.IstdStrong+1 {
		t.Fatalf("expected default styles, got %d", len(styles.Styles))
	}
	h1 := styles.Styles[doctest.IstdHeading1]
	if h1.Name != "heading 1" || h1.Type != "paragraph" || h1.Base == nil || *h1.Base != doctest.IstdNormal {
		t.Errorf("unexpected heading style %+v", h1)
	}
	if styles.Styles[doctest.IstdStrong].Type != "character" {
		t.Errorf("expected character style, got %+v", styles.Styles[doctest.IstdStrong])
	}

	var lists struct {
		Lists []struct {
			ID int32 `json:"id"`
		} `json:"lists"`
	}
	decodeJSON(t, do(t, http.MethodGet, base+"/lists", nil, "", true), &lists)
	if len(lists.Lists) != 1 || lists.Lists[0].ID != 9 {
		t.Errorf("unexpected lists %+v", lists)
	}

	var sections struct {
		Sections []any `json:"sections"`
	}
	decodeJSON(t, do(t, http.MethodGet, base+"/sections", nil, "", true), &sections)
	if len(sections.Sections) != 1 {
		t.Errorf("expected one section, got %d", len(sections.Sections))
	}

	checkBody := func(path, contentType, want string) {
		t.Helper()
		resp := do(t, http.MethodGet, base+path, nil, "", true)
		if !strings.HasPrefix(resp.Header.Get("Content-Type"), contentType) {
			t.Errorf("%s: expected %s, got %s", path, contentType, resp.Header.Get("Content-Type"))
		}
		b, _ := io.ReadAll(resp.Body)
		if !strings.Contains(string(b), want) {
			t.Errorf("%s: expected body to contain %q, got %s", path, want, b)
		}
	}
	checkBody("/html", "text/html", `<span style="font-style: italic">carefully</span>`)
	checkBody("/markdown", "text/markdown", "1. one\n2. two")
	checkBody("/preview", "text/html", "<em>carefully</em>")

	resp := do(t, http.MethodDelete, base, nil, "", true)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on delete, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, base, nil, "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.StatusCode)
	}
}

func TestDecode_Rejections(t *testing.T) {
	ts := newTestServer(t)

	body, ct := upload(t, "file", map[string][]byte{"notes.txt": []byte("hello")})
	resp := do(t, http.MethodPost, ts.URL+"/api/decode", body, ct, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported type, got %d", resp.StatusCode)
	}

	body, ct = upload(t, "other", map[string][]byte{"a.doc": []byte("x")})
	resp = do(t, http.MethodPost, ts.URL+"/api/decode", body, ct, true)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without file field, got %d", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/decode/nope/status", nil, "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown job, got %d", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/api/documents/nope/html", nil, "", true)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown document, got %d", resp.StatusCode)
	}
}

func TestDecode_FailedJob(t *testing.T) {
	ts := newTestServer(t)
	body, ct := upload(t, "file", map[string][]byte{"fake.doc": []byte("definitely not a word file")})
	resp := do(t, http.MethodPost, ts.URL+"/api/decode", body, ct, true)
	var acc map[string]any
	decodeJSON(t, resp, &acc)
	status := waitDone(t, ts, acc["job_id"].(string))
	if status["status"] != string(pipeline.StatusFailed) {
		t.Fatalf("expected failed, got %v", status)
	}
	progress := status["progress"].(map[string]any)
	if errs := progress["errors"].([]any); len(errs) != 1 || !strings.Contains(errs[0].(string), "not a Word document") {
		t.Errorf("expected not-a-document error, got %v", errs)
	}
}

func TestBatchDecode(t *testing.T) {
	ts := newTestServer(t)
	body, ct := upload(t, "files", map[string][]byte{
		"a.doc":     fixture().Bytes(),
		"b.pdf":     []byte("%PDF"),
		"templ.dot": doctest.Document{Paragraphs: []doctest.Paragraph{doctest.Para("Dear ...")}}.Bytes(),
	})
	resp := do(t, http.MethodPost, ts.URL+"/api/decode/batch", body, ct, true)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var out struct {
		Jobs []map[string]any `json:"jobs"`
	}
	decodeJSON(t, resp, &out)
	if len(out.Jobs) != 3 {
		t.Fatalf("expected 3 results, got %d", len(out.Jobs))
	}
	queued := 0
	for _, j := range out.Jobs {
		if id, ok := j["job_id"].(string); ok {
			queued++
			waitDone(t, ts, id)
		} else if j["filename"] != "b.pdf" {
			t.Errorf("unexpected rejection %v", j)
		}
	}
	if queued != 2 {
		t.Errorf("expected 2 queued jobs, got %d", queued)
	}

	var list struct {
		Documents []map[string]any `json:"documents"`
	}
	decodeJSON(t, do(t, http.MethodGet, ts.URL+"/api/documents", nil, "", true), &list)
	if len(list.Documents) != 2 {
		t.Errorf("expected 2 cached documents, got %d", len(list.Documents))
	}

	var stats struct {
		Stats pipeline.StatsSnapshot `json:"stats"`
	}
	decodeJSON(t, do(t, http.MethodGet, ts.URL+"/api/stats/decode", nil, "", true), &stats)
	if stats.Stats.Count != 2 {
		t.Errorf("expected 2 decode samples, got %d", stats.Stats.Count)
	}
}
