package docs

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes publica la documentación de la API: Swagger UI en /docs/
// y el spec OpenAPI en /docs/openapi.yaml (swagger.html lo consume por URL).
func RegisterRoutes(r chi.Router) {
	// /docs sin slash redirige a /docs/
	r.Get("/docs", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/docs/", http.StatusMovedPermanently)
	})

	r.Route("/docs", func(r chi.Router) {
		r.Get("/", serveAsset("swagger.html", "text/html; charset=utf-8"))
		r.Get("/openapi.yaml", serveAsset("openapi.yaml", "application/yaml; charset=utf-8"))
	})
}
