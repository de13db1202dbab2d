// Package docs serves the API reference: the OpenAPI document plus a Scalar
// reference page rendering it.
package docs

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/tc2044/ma-classifier-demo/pkg/module"
	"github.com/tc2044/ma-classifier-demo/pkg/web"
)

//go:embed index.html openapi.json
var staticFS embed.FS

// NewModule creates a module that serves the API reference UI at basePath.
func NewModule(basePath string) *module.Module {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"BasePath": basePath})
	})

	mux.HandleFunc("GET /openapi.json", web.PublicFile(staticFS, "", "openapi.json"))

	return module.New(basePath, mux)
}
