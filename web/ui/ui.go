// Package ui serves the server-rendered pages: intro, interactive demo, and
// dashboard. It is mounted as the router fallback so pages live at the site
// root while the API and docs modules own their prefixes.
package ui

import (
	"embed"
	"net/http"

	"github.com/tc2044/ma-classifier-demo/internal/announcements"
	"github.com/tc2044/ma-classifier-demo/internal/config"
	"github.com/tc2044/ma-classifier-demo/internal/infrastructure"
	"github.com/tc2044/ma-classifier-demo/pkg/web"
)

//go:embed templates/layouts/*.html
var layoutFS embed.FS

//go:embed templates/views/*.html
var viewFS embed.FS

//go:embed static
var staticFS embed.FS

const layout = "base"

var views = map[string]web.ViewDef{
	"intro":     {Route: "/", Template: "intro.html", Title: "M&A Transaction Classifier"},
	"demo":      {Route: "/demo", Template: "demo.html", Title: "Demo - M&A Transaction Classifier"},
	"dashboard": {Route: "/dashboard", Template: "dashboard.html", Title: "Dashboard - M&A Transaction Classifier"},
}

// NewHandler assembles the page shell: parsed templates, the classification
// client, and the history system.
func NewHandler(cfg *config.Config, infra *infrastructure.Infrastructure) (http.Handler, error) {
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
		return nil, err
	}

	h := &handler{
		templates:     templates,
		backend:       infra.Backend,
		history:       newHistory(cfg, infra),
		logger:        infra.Logger.With("module", "ui"),
		maxUploadSize: cfg.API.MaxUploadSizeBytes(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Intro)
	mux.HandleFunc("GET /demo", h.Demo)
	mux.HandleFunc("POST /demo/text", h.ClassifyText)
	mux.HandleFunc("POST /demo/pdf", h.ClassifyPDF)
	mux.HandleFunc("POST /demo/sample", h.ClassifySample)
	mux.HandleFunc("GET /dashboard", h.Dashboard)
	mux.HandleFunc("GET /static/", web.StaticServer(staticFS, "static", "/static"))

	return mux, nil
}

func newHistory(cfg *config.Config, infra *infrastructure.Infrastructure) announcements.System {
	return announcements.New(
		infra.Database.Connection(),
		infra.Storage,
		infra.Logger.With("module", "ui"),
		cfg.API.Pagination,
	)
}
