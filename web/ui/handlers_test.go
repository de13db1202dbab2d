package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tc2044/ma-classifier-demo/internal/announcements"
	"github.com/tc2044/ma-classifier-demo/internal/backend"
	"github.com/tc2044/ma-classifier-demo/internal/samples"
	"github.com/tc2044/ma-classifier-demo/pkg/pagination"
	"github.com/tc2044/ma-classifier-demo/pkg/web"
)

type mockClassifier struct {
	textFn func(ctx context.Context, title, text string) (*backend.Result, error)
	pdfFn  func(ctx context.Context, title string, pdf io.ReadSeeker) (*backend.Result, error)
}

func (m *mockClassifier) ClassifyText(ctx context.Context, title, text string) (*backend.Result, error) {
	return m.textFn(ctx, title, text)
}

func (m *mockClassifier) ClassifyPDF(ctx context.Context, title string, pdf io.ReadSeeker) (*backend.Result, error) {
	return m.pdfFn(ctx, title, pdf)
}

type mockHistory struct {
	recordFn func(ctx context.Context, cmd announcements.RecordCommand) (*announcements.Announcement, error)
	listFn   func(ctx context.Context, page pagination.PageRequest, filters announcements.Filters) (*pagination.PageResult[announcements.Announcement], error)
	statsFn  func(ctx context.Context) (*announcements.Stats, error)
}

func (m *mockHistory) Handler() *announcements.Handler { return nil }

func (m *mockHistory) Record(ctx context.Context, cmd announcements.RecordCommand) (*announcements.Announcement, error) {
	if m.recordFn == nil {
		return &announcements.Announcement{ID: uuid.New(), Title: cmd.Title}, nil
	}
	return m.recordFn(ctx, cmd)
}

func (m *mockHistory) List(ctx context.Context, page pagination.PageRequest, filters announcements.Filters) (*pagination.PageResult[announcements.Announcement], error) {
	if m.listFn == nil {
		result := pagination.NewPageResult([]announcements.Announcement{}, 0, 1, 10)
		return &result, nil
	}
	return m.listFn(ctx, page, filters)
}

func (m *mockHistory) Find(context.Context, uuid.UUID) (*announcements.Announcement, error) {
	return nil, announcements.ErrNotFound
}

func (m *mockHistory) Delete(context.Context, uuid.UUID) error {
	return announcements.ErrNotFound
}

func (m *mockHistory) Document(context.Context, uuid.UUID) (*announcements.DocumentStream, error) {
	return nil, announcements.ErrNoDocument
}

func (m *mockHistory) Stats(ctx context.Context) (*announcements.Stats, error) {
	if m.statsFn == nil {
		return &announcements.Stats{}, nil
	}
	return m.statsFn(ctx)
}

func (m *mockHistory) Export(context.Context, announcements.Filters) ([]announcements.Announcement, error) {
	return nil, nil
}

func newTestMux(t *testing.T, client *mockClassifier, history *mockHistory) *http.ServeMux {
	t.Helper()

	defs := make([]web.ViewDef, 0, len(views))
	for _, v := range views {
		defs = append(defs, v)
	}

	templates, err := web.NewTemplateSet(
		layoutFS, viewFS,
		"templates/layouts/*.html", "templates/views",
		"", defs,
	)
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	h := &handler{
		templates:     templates,
		backend:       client,
		history:       history,
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxUploadSize: 1 << 20,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Intro)
	mux.HandleFunc("GET /demo", h.Demo)
	mux.HandleFunc("POST /demo/text", h.ClassifyText)
	mux.HandleFunc("POST /demo/pdf", h.ClassifyPDF)
	mux.HandleFunc("POST /demo/sample", h.ClassifySample)
	mux.HandleFunc("GET /dashboard", h.Dashboard)
	return mux
}

func get(mux *http.ServeMux, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	return rec
}

func postForm(mux *http.ServeMux, path string, form url.Values) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	mux.ServeHTTP(rec, req)
	return rec
}

func TestIntro(t *testing.T) {
	mux := newTestMux(t, &mockClassifier{}, &mockHistory{})

	rec := get(mux, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "M&amp;A Transaction Classifier") {
		t.Error("intro page missing title")
	}
}

func TestDemo(t *testing.T) {
	mux := newTestMux(t, &mockClassifier{}, &mockHistory{})

	t.Run("defaults to text tab", func(t *testing.T) {
		rec := get(mux, "/demo")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Enter Announcement Text") {
			t.Error("text tab content missing")
		}
	})

	t.Run("pdf tab shows upload form", func(t *testing.T) {
		body := get(mux, "/demo?tab=pdf").Body.String()
		if !strings.Contains(body, "Upload PDF Announcement") {
			t.Error("pdf tab content missing")
		}
		if !strings.Contains(body, "max 1 MB") {
			t.Error("upload ceiling not shown")
		}
	})

	t.Run("sample selection shows stored literals", func(t *testing.T) {
		sample, _ := samples.Get(3)
		body := get(mux, "/demo?tab=samples&sample=3").Body.String()
		if !strings.Contains(body, sample.Title) {
			t.Errorf("selected sample title %q not shown", sample.Title)
		}
		if !strings.Contains(body, "SGD 85 million") {
			t.Error("selected sample text not shown")
		}
	})

	t.Run("out of range sample falls back to first", func(t *testing.T) {
		first, _ := samples.Get(0)
		body := get(mux, "/demo?tab=samples&sample=99").Body.String()
		if !strings.Contains(body, first.Title) {
			t.Error("fallback sample not shown")
		}
	})
}

func TestClassifyTextPage(t *testing.T) {
	t.Run("renders verdict and records outcome", func(t *testing.T) {
		var recorded announcements.RecordCommand
		client := &mockClassifier{
			textFn: func(_ context.Context, title, text string) (*backend.Result, error) {
				return &backend.Result{
					Qualified:     true,
					Confidence:    0.87,
					Theme:         "Acquisition",
					Stage:         "bedrock",
					BedrockCalled: true,
				}, nil
			},
		}
		history := &mockHistory{
			recordFn: func(_ context.Context, cmd announcements.RecordCommand) (*announcements.Announcement, error) {
				recorded = cmd
				return &announcements.Announcement{ID: uuid.New(), Title: cmd.Title}, nil
			},
		}
		mux := newTestMux(t, client, history)

		rec := postForm(mux, "/demo/text", url.Values{
			"title": {"Deal"},
			"text":  {"Company A acquires Company B"},
		})

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "✅ M&amp;A Transaction Detected") {
			t.Error("qualified banner missing")
		}
		if !strings.Contains(body, "87%") {
			t.Error("confidence missing")
		}
		if !strings.Contains(body, "🤖 AWS Bedrock Claude used (Stage: bedrock)") {
			t.Error("engine caption missing")
		}
		if recorded.Source != announcements.SourceText {
			t.Errorf("recorded source = %q, want text", recorded.Source)
		}
	})

	t.Run("missing fields show validation message without backend call", func(t *testing.T) {
		client := &mockClassifier{
			textFn: func(_ context.Context, _, _ string) (*backend.Result, error) {
				t.Error("backend should not be called")
				return nil, nil
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		body := postForm(mux, "/demo/text", url.Values{"title": {"t"}}).Body.String()
		if !strings.Contains(body, msgMissingText) {
			t.Errorf("validation message %q missing", msgMissingText)
		}
	})

	t.Run("timeout shows timeout copy", func(t *testing.T) {
		client := &mockClassifier{
			textFn: func(_ context.Context, _, _ string) (*backend.Result, error) {
				return nil, backend.ErrTimeout
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		body := postForm(mux, "/demo/text", url.Values{"title": {"t"}, "text": {"x"}}).Body.String()
		if !strings.Contains(body, "Request timed out. The document may be too complex.") {
			t.Error("timeout message missing")
		}
	})

	t.Run("record failure still shows the verdict", func(t *testing.T) {
		client := &mockClassifier{
			textFn: func(_ context.Context, _, _ string) (*backend.Result, error) {
				return &backend.Result{Qualified: true, Confidence: 0.9, Theme: "Merger", Stage: "bedrock"}, nil
			},
		}
		history := &mockHistory{
			recordFn: func(_ context.Context, _ announcements.RecordCommand) (*announcements.Announcement, error) {
				return nil, errors.New("database unavailable")
			},
		}
		mux := newTestMux(t, client, history)

		body := postForm(mux, "/demo/text", url.Values{"title": {"t"}, "text": {"x"}}).Body.String()
		if !strings.Contains(body, "✅ M&amp;A Transaction Detected") {
			t.Error("verdict hidden by record failure")
		}
	})
}

func TestClassifySamplePage(t *testing.T) {
	t.Run("submits stored sample unmodified", func(t *testing.T) {
		sample, _ := samples.Get(1)
		var gotTitle, gotText string
		client := &mockClassifier{
			textFn: func(_ context.Context, title, text string) (*backend.Result, error) {
				gotTitle, gotText = title, text
				return &backend.Result{
					Qualified: false,
					Reason:    "Quarterly earnings report",
					Stage:     "prefilter",
					Filter:    "earnings_keywords",
				}, nil
			},
		}
		var recorded announcements.RecordCommand
		history := &mockHistory{
			recordFn: func(_ context.Context, cmd announcements.RecordCommand) (*announcements.Announcement, error) {
				recorded = cmd
				return &announcements.Announcement{ID: uuid.New()}, nil
			},
		}
		mux := newTestMux(t, client, history)

		rec := postForm(mux, "/demo/sample", url.Values{"sample": {"1"}})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}

		if gotTitle != sample.Title || gotText != sample.Text {
			t.Error("sample not submitted verbatim")
		}
		if recorded.Source != announcements.SourceSample {
			t.Errorf("recorded source = %q, want sample", recorded.Source)
		}

		body := rec.Body.String()
		if !strings.Contains(body, "❌ Not an M&amp;A Transaction") {
			t.Error("rejected banner missing")
		}
		if !strings.Contains(body, "🔍 Filtered by: earnings_keywords") {
			t.Error("filter caption missing")
		}
		if !strings.Contains(body, "Processing stage: prefilter") {
			t.Error("stage caption missing")
		}
	})

	t.Run("invalid index renders page without backend call", func(t *testing.T) {
		client := &mockClassifier{
			textFn: func(_ context.Context, _, _ string) (*backend.Result, error) {
				t.Error("backend should not be called")
				return nil, nil
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		if rec := postForm(mux, "/demo/sample", url.Values{"sample": {"99"}}); rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func pdfUpload(t *testing.T, title, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if title != "" {
		mw.WriteField("title", title)
	}
	if filename != "" {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
		header["Content-Type"] = []string{contentType}
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestClassifyPDFPage(t *testing.T) {
	pdfBytes := []byte("%PDF-1.4\nfake announcement body")

	t.Run("shows file info and verdict", func(t *testing.T) {
		client := &mockClassifier{
			pdfFn: func(_ context.Context, title string, pdf io.ReadSeeker) (*backend.Result, error) {
				return &backend.Result{Qualified: true, Confidence: 0.9, Theme: "Merger", Stage: "bedrock"}, nil
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		body, ct := pdfUpload(t, "Merger Filing", "filing.pdf", "application/pdf", pdfBytes)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/demo/pdf", body)
		req.Header.Set("Content-Type", ct)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		page := rec.Body.String()
		if !strings.Contains(page, "📄 File uploaded: filing.pdf") {
			t.Error("file info missing")
		}
		if !strings.Contains(page, "✅ M&amp;A Transaction Detected") {
			t.Error("verdict missing")
		}
	})

	t.Run("missing title shows validation message", func(t *testing.T) {
		mux := newTestMux(t, &mockClassifier{}, &mockHistory{})

		body, ct := pdfUpload(t, "", "filing.pdf", "application/pdf", pdfBytes)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/demo/pdf", body)
		req.Header.Set("Content-Type", ct)
		mux.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), msgMissingTitle) {
			t.Errorf("validation message %q missing", msgMissingTitle)
		}
	})

	t.Run("oversized upload rejected before backend call", func(t *testing.T) {
		client := &mockClassifier{
			pdfFn: func(_ context.Context, _ string, _ io.ReadSeeker) (*backend.Result, error) {
				t.Error("backend should not be called")
				return nil, nil
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		oversized := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), 2<<20)...)
		body, ct := pdfUpload(t, "Huge Filing", "huge.pdf", "application/pdf", oversized)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/demo/pdf", body)
		req.Header.Set("Content-Type", ct)
		mux.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), "Upload failed: file exceeds 1 MB") {
			t.Error("size limit message missing")
		}
	})

	t.Run("non-pdf upload rejected before backend call", func(t *testing.T) {
		client := &mockClassifier{
			pdfFn: func(_ context.Context, _ string, _ io.ReadSeeker) (*backend.Result, error) {
				t.Error("backend should not be called")
				return nil, nil
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		body, ct := pdfUpload(t, "Notes", "notes.txt", "text/plain", []byte("plain text"))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/demo/pdf", body)
		req.Header.Set("Content-Type", ct)
		mux.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), msgNotPDF) {
			t.Errorf("validation message %q missing", msgNotPDF)
		}
	})

	t.Run("timeout shows pdf timeout copy", func(t *testing.T) {
		client := &mockClassifier{
			pdfFn: func(_ context.Context, _ string, _ io.ReadSeeker) (*backend.Result, error) {
				return nil, backend.ErrTimeout
			},
		}
		mux := newTestMux(t, client, &mockHistory{})

		body, ct := pdfUpload(t, "Filing", "filing.pdf", "application/pdf", pdfBytes)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/demo/pdf", body)
		req.Header.Set("Content-Type", ct)
		mux.ServeHTTP(rec, req)

		if !strings.Contains(rec.Body.String(), "Request timed out. The PDF may be too large or complex.") {
			t.Error("pdf timeout message missing")
		}
	})
}

func TestDashboard(t *testing.T) {
	t.Run("renders stats and recent records", func(t *testing.T) {
		history := &mockHistory{
			statsFn: func(_ context.Context) (*announcements.Stats, error) {
				return &announcements.Stats{
					Total:         12,
					Qualified:     5,
					Rejected:      7,
					ModelAssisted: 4,
					AvgConfidence: 0.81,
					Themes:        []announcements.ThemeCount{{Theme: "Merger", Count: 3}},
					Stages:        []announcements.StageCount{{Stage: "prefilter", Count: 7}},
				}, nil
			},
			listFn: func(_ context.Context, page pagination.PageRequest, _ announcements.Filters) (*pagination.PageResult[announcements.Announcement], error) {
				if page.PageSize != 10 {
					t.Errorf("recent page size = %d, want 10", page.PageSize)
				}
				a := announcements.Announcement{Title: "Deal", Source: "text", Qualified: true, Theme: "Merger", Stage: "bedrock"}
				result := pagination.NewPageResult([]announcements.Announcement{a}, 1, 1, 10)
				return &result, nil
			},
		}
		mux := newTestMux(t, &mockClassifier{}, history)

		rec := get(mux, "/dashboard")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "81%") {
			t.Error("average confidence missing")
		}
		if !strings.Contains(body, "Merger") {
			t.Error("theme table missing")
		}
		if !strings.Contains(body, "Recent Classifications") {
			t.Error("recent section missing")
		}
	})

	t.Run("stats failure shows unavailable message", func(t *testing.T) {
		history := &mockHistory{
			statsFn: func(_ context.Context) (*announcements.Stats, error) {
				return nil, errors.New("database unavailable")
			},
		}
		mux := newTestMux(t, &mockClassifier{}, history)

		body := get(mux, "/dashboard").Body.String()
		if !strings.Contains(body, "History is unavailable right now") {
			t.Error("unavailable message missing")
		}
	})
}
