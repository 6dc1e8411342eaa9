package health

import (
	"context"
	"net/http"
	"time"

	"github.com/cgdev/tienda-api/internal/httpx"
)

// Pinger es lo mínimo que el handler necesita del pool para chequear readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler encapsula endpoints de health.
type Handler struct {
	database Pinger
}

// New crea un handler de health. Tolera database nil (reportado en /ready).
func New(database Pinger) *Handler {
	return &Handler{database: database}
}

// Health indica si el proceso está vivo.
// NO chequea base de datos; eso es responsabilidad de /ready.
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httpx.OK(w, http.StatusOK, "ok", map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready indica si la app puede atender tráfico (DB alcanzable).
func (handler *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if handler.database == nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "database pool not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := handler.database.Ping(ctx); err != nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "database is not reachable")
		return
	}

	httpx.OK(w, http.StatusOK, "ready", map[string]any{
		"status": "ready",
	})
}
