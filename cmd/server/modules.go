package main

import (
	"encoding/json"
	"net/http"

	"github.com/tc2044/ma-classifier-demo/internal/api"
	"github.com/tc2044/ma-classifier-demo/internal/config"
	"github.com/tc2044/ma-classifier-demo/internal/infrastructure"
	"github.com/tc2044/ma-classifier-demo/pkg/middleware"
	"github.com/tc2044/ma-classifier-demo/pkg/module"
	"github.com/tc2044/ma-classifier-demo/web/docs"
	"github.com/tc2044/ma-classifier-demo/web/ui"
)

type Modules struct {
	API   *module.Module
	Docs  *module.Module
	Pages http.Handler
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	docsModule := docs.NewModule("/docs")
	docsModule.Use(middleware.RequestID())
	docsModule.Use(middleware.Logger(infra.Logger))
	docsModule.Use(middleware.Recovery(infra.Logger))

	pages, err := ui.NewHandler(cfg, infra)
	if err != nil {
		return nil, err
	}

	pageStack := middleware.New()
	pageStack.Use(middleware.RequestID())
	pageStack.Use(middleware.Logger(infra.Logger))
	pageStack.Use(middleware.Recovery(infra.Logger))

	return &Modules{
		API:   apiModule,
		Docs:  docsModule,
		Pages: pageStack.Apply(pages),
	}, nil
}

// Mount attaches the API and docs modules at their prefixes and installs the
// page shell as the fallback so pages serve from the site root.
func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Docs)
	router.SetFallback(m.Pages)
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
