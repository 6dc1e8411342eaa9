package httpx

import (
	"encoding/json"
	"net/http"
)

// Response es el sobre estándar que devuelve la API en todas las rutas.
// Data se serializa siempre (null en errores) para que el sobre sea uniforme.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// JSON escribe una respuesta JSON con headers correctos.
// Nota: en caso de error de encodeo, responde 500 de forma segura.
func JSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)

	if err := enc.Encode(resp); err != nil {
		// Último recurso: no se pudo serializar JSON.
		http.Error(w, `{"code":500,"message":"internal server error","data":null}`, http.StatusInternalServerError)
	}
}

// OK devuelve una respuesta exitosa con mensaje y data.
// El campo code del sobre repite el status HTTP.
func OK(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Response{
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// Fail devuelve un error con el sobre estándar y data en null.
// No exponer detalles internos (SQL, stacktrace, etc.) en el mensaje.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Response{
		Code:    status,
		Message: message,
		Data:    nil,
	})
}
