package products

import "github.com/go-chi/chi/v5"

// RegisterRoutes registra rutas de productos en el router.
// Mantener esto separado hace que main.go no crezca sin control.
func RegisterRoutes(route chi.Router, handler *Handler) {
	route.Route("/productos", func(route chi.Router) {
		route.Post("/", handler.Create)
		route.Get("/", handler.GetAll)
		route.Get("/top-products", handler.TopTen)
		route.Get("/{id}", handler.GetByID)
		route.Put("/{id}", handler.Update)
		route.Delete("/{id}", handler.Delete)
	})
}
