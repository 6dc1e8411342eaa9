package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID es el header donde viaja el id de correlación.
const HeaderRequestID = "X-Request-Id"

type requestIDKey struct{}

// RequestID es un middleware que asegura un id de correlación por request.
// Respeta el header entrante si viene; si no, genera un UUID nuevo.
// El id queda en el contexto y se copia al header de la respuesta.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(HeaderRequestID))
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		w.Header().Set(HeaderRequestID, id)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFrom lee el id de correlación del request.
// Prioriza el contexto (seteado por el middleware) y cae al header.
func RequestIDFrom(request *http.Request) string {
	if request == nil {
		return ""
	}
	if id, ok := request.Context().Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return request.Header.Get(HeaderRequestID)
}
