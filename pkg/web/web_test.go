package web_test

import (
	"embed"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tc2044/ma-classifier-demo/pkg/web"
)

//go:embed testdata/layouts/*.html
var layoutFS embed.FS

//go:embed testdata/views
var viewFS embed.FS

//go:embed testdata/static
var staticFS embed.FS

var homeView = web.ViewDef{
	Route:    "/",
	Template: "home.html",
	Title:    "Home",
}

func newTemplateSet(t *testing.T, basePath string) *web.TemplateSet {
	t.Helper()

	ts, err := web.NewTemplateSet(
		layoutFS,
		viewFS,
		"testdata/layouts/*.html",
		"testdata/views",
		basePath,
		[]web.ViewDef{homeView},
	)
	if err != nil {
		t.Fatalf("NewTemplateSet() error = %v", err)
	}
	return ts
}

func TestNewTemplateSet(t *testing.T) {
	t.Run("unknown view template", func(t *testing.T) {
		_, err := web.NewTemplateSet(
			layoutFS,
			viewFS,
			"testdata/layouts/*.html",
			"testdata/views",
			"",
			[]web.ViewDef{{Route: "/missing", Template: "missing.html", Title: "Missing"}},
		)
		if err == nil {
			t.Fatal("NewTemplateSet() error = nil, want parse error")
		}
		if !strings.Contains(err.Error(), "missing.html") {
			t.Errorf("error = %q, want template name included", err)
		}
	})
}

func TestRenderView(t *testing.T) {
	ts := newTemplateSet(t, "/demo")

	type pageData struct {
		Message string
	}

	rec := httptest.NewRecorder()
	if err := ts.RenderView(rec, "base", homeView, pageData{Message: "classification complete"}); err != nil {
		t.Fatalf("RenderView() error = %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/html; charset=utf-8", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "<title>Home</title>") {
		t.Error("body missing view title")
	}
	if !strings.Contains(body, `href="/demo/"`) {
		t.Error("body missing base path in nav link")
	}
	if !strings.Contains(body, "<p>classification complete</p>") {
		t.Error("body missing page data")
	}
}

func TestRender(t *testing.T) {
	ts := newTemplateSet(t, "")

	t.Run("unknown template", func(t *testing.T) {
		rec := httptest.NewRecorder()
		err := ts.Render(rec, "base", "missing.html", web.ViewData{})
		if err == nil {
			t.Fatal("Render() error = nil, want template not found")
		}
		if !strings.Contains(err.Error(), "missing.html") {
			t.Errorf("error = %q, want template name included", err)
		}
	})

	t.Run("nil data omits optional sections", func(t *testing.T) {
		rec := httptest.NewRecorder()
		if err := ts.Render(rec, "base", "home.html", web.ViewData{Title: "Home"}); err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		if strings.Contains(rec.Body.String(), "<p>") {
			t.Error("body rendered data section for nil data")
		}
	})
}

func TestPageHandler(t *testing.T) {
	ts := newTemplateSet(t, "")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	ts.PageHandler("base", homeView)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<h1>Welcome</h1>") {
		t.Error("body missing view content")
	}
}

func TestStaticServer(t *testing.T) {
	handler := web.StaticServer(staticFS, "testdata/static", "/static")

	t.Run("serves embedded file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/style.css", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "margin") {
			t.Error("body missing stylesheet content")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/static/missing.css", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestPublicFile(t *testing.T) {
	t.Run("serves from subdir", func(t *testing.T) {
		handler := web.PublicFile(staticFS, "testdata/static", "openapi.json")
		req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		if !strings.Contains(rec.Body.String(), `"openapi"`) {
			t.Error("body missing document content")
		}
	})

	t.Run("empty subdir serves from root", func(t *testing.T) {
		handler := web.PublicFile(staticFS, "", "testdata/static/openapi.json")
		req := httptest.NewRequest(http.MethodGet, "/openapi.json", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		handler := web.PublicFile(staticFS, "testdata/static", "absent.json")
		req := httptest.NewRequest(http.MethodGet, "/absent.json", nil)
		rec := httptest.NewRecorder()
		handler(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}
