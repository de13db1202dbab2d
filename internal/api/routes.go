package api

import (
	"net/http"

	"github.com/tc2044/ma-classifier-demo/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	runtime *Runtime,
) {
	classify := NewClassifyHandler(
		runtime.Backend,
		domain.Announcements,
		runtime.Logger,
		runtime.MaxUploadSize,
	)

	routes.Register(
		mux,
		classify.Routes(),
		domain.Announcements.Handler().Routes(),
	)
}
