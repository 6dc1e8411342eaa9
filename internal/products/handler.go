package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/cgdev/tienda-api/internal/httpx"
	"github.com/cgdev/tienda-api/internal/sales"
)

// ServiceAPI define lo que el handler necesita.
// Permite testear handlers con stubs sin tocar DB ni archivos.
type ServiceAPI interface {
	Create(ctx context.Context, input ProductInput) (Product, error)
	Get(ctx context.Context, id int) (Product, error)
	GetAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int, input ProductInput) (Product, error)
	Delete(ctx context.Context, id int) (bool, error)
	TopTen(ctx context.Context) ([]sales.Product, error)
}

// Handler HTTP para productos.
// Solo traduce HTTP <-> dominio (service).
type Handler struct {
	service ServiceAPI
	log     zerolog.Logger
}

// NewHandler crea un handler de productos.
func NewHandler(service ServiceAPI, log zerolog.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// parseID lee el id numérico del path.
func parseID(request *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(request, "id"))
}

// Create maneja POST /productos.
func (handler *Handler) Create(writer http.ResponseWriter, request *http.Request) {
	var input ProductInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}

	product, err := handler.service.Create(request.Context(), input)
	if err != nil {
		var validationError *ValidationError
		switch {
		case errors.As(err, &validationError):
			handler.log.Error().Str("detalle", validationError.Message).Msg("errores de validacion")
			httpx.Fail(writer, http.StatusBadRequest, validationError.Message)
		case errors.Is(err, ErrorDuplicateID):
			handler.log.Error().Err(err).Msg("error al crear el producto")
			httpx.Fail(writer, http.StatusConflict, "id duplicado.")
		case errors.Is(err, ErrorPersistence):
			handler.log.Error().Err(err).Msg("error al crear el producto")
			httpx.Fail(writer, http.StatusUnprocessableEntity, "error de negocio.")
		default:
			httpx.Fail(writer, http.StatusInternalServerError, "error inesperado.")
		}
		return
	}

	httpx.OK(writer, http.StatusOK, "producto creado.", product)
}

// GetByID maneja GET /productos/{id}.
func (handler *Handler) GetByID(writer http.ResponseWriter, request *http.Request) {
	id, err := parseID(request)
	if err != nil {
		handler.log.Error().Msg("el id proporcionado es nulo o invalido")
		httpx.Fail(writer, http.StatusBadRequest, "El id es obligatorio")
		return
	}

	product, err := handler.service.Get(request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrorNotFound):
			handler.log.Warn().Int("id", id).Msg("producto no encontrado")
			httpx.Fail(writer, http.StatusNotFound, "no encontrado.")
		default:
			httpx.Fail(writer, http.StatusInternalServerError, "error inesperado.")
		}
		return
	}

	httpx.OK(writer, http.StatusOK, "informacion encontrada.", product)
}

// GetAll maneja GET /productos.
func (handler *Handler) GetAll(writer http.ResponseWriter, request *http.Request) {
	products, err := handler.service.GetAll(request.Context())
	if err != nil {
		httpx.Fail(writer, http.StatusInternalServerError, "error inesperado.")
		return
	}

	// Lista vacía se devuelve como [], nunca null.
	if products == nil {
		products = []Product{}
	}

	message := "informacion encontrada."
	if len(products) == 0 {
		message = "No hay productos."
	}
	httpx.OK(writer, http.StatusOK, message, products)
}

// Update maneja PUT /productos/{id}.
// Sobreescritura completa: no hay semántica de patch parcial.
func (handler *Handler) Update(writer http.ResponseWriter, request *http.Request) {
	id, err := parseID(request)
	if err != nil {
		handler.log.Error().Msg("el id proporcionado es nulo o invalido")
		httpx.Fail(writer, http.StatusBadRequest, "El id es obligatorio")
		return
	}

	var input ProductInput
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		httpx.Fail(writer, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}

	product, err := handler.service.Update(request.Context(), id, input)
	if err != nil {
		var validationError *ValidationError
		switch {
		case errors.As(err, &validationError):
			handler.log.Error().Str("detalle", validationError.Message).Msg("errores de validacion")
			httpx.Fail(writer, http.StatusBadRequest, validationError.Message)
		case errors.Is(err, ErrorNotFound):
			handler.log.Warn().Int("id", id).Msg("producto no encontrado para actualizar")
			httpx.Fail(writer, http.StatusNotFound, "no encontrado.")
		default:
			httpx.Fail(writer, http.StatusInternalServerError, "error inesperado.")
		}
		return
	}

	httpx.OK(writer, http.StatusOK, "informacion actualizada.", product)
}

// Delete maneja DELETE /productos/{id}.
// El booleano del service no viaja en el body: existió → 200, no existió → 404.
func (handler *Handler) Delete(writer http.ResponseWriter, request *http.Request) {
	id, err := parseID(request)
	if err != nil {
		handler.log.Error().Msg("el id proporcionado es nulo o invalido")
		httpx.Fail(writer, http.StatusBadRequest, "El id es obligatorio")
		return
	}

	deleted, err := handler.service.Delete(request.Context(), id)
	if err != nil {
		httpx.Fail(writer, http.StatusInternalServerError, "error inesperado.")
		return
	}
	if !deleted {
		handler.log.Warn().Int("id", id).Msg("producto no encontrado para eliminar")
		httpx.Fail(writer, http.StatusNotFound, "no encontrado.")
		return
	}

	httpx.OK(writer, http.StatusOK, "informacion borrada.", nil)
}

// TopTen maneja GET /productos/top-products.
func (handler *Handler) TopTen(writer http.ResponseWriter, request *http.Request) {
	top, err := handler.service.TopTen(request.Context())
	if err != nil {
		httpx.Fail(writer, http.StatusInternalServerError, "error inesperado.")
		return
	}

	if top == nil {
		top = []sales.Product{}
	}

	message := "informacion encontrada."
	if len(top) == 0 {
		message = "No hay productos."
	}
	httpx.OK(writer, http.StatusOK, message, top)
}
