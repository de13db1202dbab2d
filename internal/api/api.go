// Package api assembles the JSON API module: classify endpoints backed by the
// classification client plus announcement history endpoints.
package api

import (
	"net/http"

	"github.com/tc2044/ma-classifier-demo/internal/config"
	"github.com/tc2044/ma-classifier-demo/internal/infrastructure"
	"github.com/tc2044/ma-classifier-demo/pkg/middleware"
	"github.com/tc2044/ma-classifier-demo/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	mux := http.NewServeMux()
	registerRoutes(mux, domain, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.RequestID())
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))
	m.Use(middleware.Recovery(runtime.Logger))

	return m, nil
}
