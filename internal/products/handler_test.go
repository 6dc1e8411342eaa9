package products_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cgdev/tienda-api/internal/httpx"
	"github.com/cgdev/tienda-api/internal/products"
	"github.com/cgdev/tienda-api/internal/sales"
)

type stubService struct {
	createFn func(ctx context.Context, in products.ProductInput) (products.Product, error)
	getFn    func(ctx context.Context, id int) (products.Product, error)
	getAllFn func(ctx context.Context) ([]products.Product, error)
	updateFn func(ctx context.Context, id int, in products.ProductInput) (products.Product, error)
	deleteFn func(ctx context.Context, id int) (bool, error)
	topTenFn func(ctx context.Context) ([]sales.Product, error)

	createCalled bool
	createInput  products.ProductInput

	getCalled bool
	getID     int

	getAllCalled bool

	updateCalled bool
	updateID     int
	updateInput  products.ProductInput

	deleteCalled bool
	deleteID     int

	topTenCalled bool
}

func (service *stubService) Create(ctx context.Context, in products.ProductInput) (products.Product, error) {
	service.createCalled = true
	service.createInput = in
	if service.createFn != nil {
		return service.createFn(ctx, in)
	}
	return products.Product{}, nil
}

func (service *stubService) Get(ctx context.Context, id int) (products.Product, error) {
	service.getCalled = true
	service.getID = id
	if service.getFn != nil {
		return service.getFn(ctx, id)
	}
	return products.Product{}, nil
}

func (service *stubService) GetAll(ctx context.Context) ([]products.Product, error) {
	service.getAllCalled = true
	if service.getAllFn != nil {
		return service.getAllFn(ctx)
	}
	return nil, nil
}

func (service *stubService) Update(ctx context.Context, id int, in products.ProductInput) (products.Product, error) {
	service.updateCalled = true
	service.updateID = id
	service.updateInput = in
	if service.updateFn != nil {
		return service.updateFn(ctx, id, in)
	}
	return products.Product{}, nil
}

func (service *stubService) Delete(ctx context.Context, id int) (bool, error) {
	service.deleteCalled = true
	service.deleteID = id
	if service.deleteFn != nil {
		return service.deleteFn(ctx, id)
	}
	return true, nil
}

func (service *stubService) TopTen(ctx context.Context) ([]sales.Product, error) {
	service.topTenCalled = true
	if service.topTenFn != nil {
		return service.topTenFn(ctx)
	}
	return nil, nil
}

func newRouter(service products.ServiceAPI) chi.Router {
	router := chi.NewRouter()
	products.RegisterRoutes(router, products.NewHandler(service, zerolog.Nop()))
	return router
}

func doRequest(t *testing.T, router chi.Router, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Create(t *testing.T) {
	t.Run("invalid json", func(t *testing.T) {
		service := &stubService{}
		rec := doRequest(t, newRouter(service), http.MethodPost, "/productos", "{")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 400, resp.Code)
		require.Equal(t, "cuerpo JSON inválido", resp.Message)
		require.False(t, service.createCalled)
	})

	t.Run("validation error carries field message", func(t *testing.T) {
		service := &stubService{
			createFn: func(ctx context.Context, in products.ProductInput) (products.Product, error) {
				return products.Product{}, &products.ValidationError{Message: "El id es obligatorio"}
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodPost, "/productos",
			`{"name":"Widget","price":9.99,"stock":5,"status":true}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 400, resp.Code)
		require.Equal(t, "El id es obligatorio", resp.Message)
		require.Nil(t, resp.Data)
	})

	t.Run("duplicate id", func(t *testing.T) {
		service := &stubService{
			createFn: func(ctx context.Context, in products.ProductInput) (products.Product, error) {
				return products.Product{}, products.ErrorDuplicateID
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodPost, "/productos",
			`{"id":1,"name":"Widget","price":9.99,"stock":5,"status":true}`)

		require.Equal(t, http.StatusConflict, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 409, resp.Code)
		require.Equal(t, "id duplicado.", resp.Message)
	})

	t.Run("persistence failure maps to business error", func(t *testing.T) {
		service := &stubService{
			createFn: func(ctx context.Context, in products.ProductInput) (products.Product, error) {
				return products.Product{}, products.ErrorPersistence
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodPost, "/productos",
			`{"id":1,"name":"Widget","price":9.99,"stock":5,"status":true}`)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 422, resp.Code)
		require.Equal(t, "error de negocio.", resp.Message)
	})

	t.Run("success echoes the stored record", func(t *testing.T) {
		service := &stubService{
			createFn: func(ctx context.Context, in products.ProductInput) (products.Product, error) {
				return products.Product{ID: *in.ID, Name: in.Name, Price: *in.Price, Stock: *in.Stock, Status: *in.Status}, nil
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodPost, "/productos",
			`{"id":1,"name":"Widget","price":9.99,"stock":5,"status":true}`)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 200, resp.Code)
		require.Equal(t, "producto creado.", resp.Message)

		data := asMap(t, resp.Data)
		require.Equal(t, json.Number("1"), data["id"])
		require.Equal(t, "Widget", data["name"])
		// El precio viaja como string decimal, tal cual, sin redondeo.
		require.Equal(t, "9.99", data["price"])
		require.Equal(t, true, data["status"])

		require.True(t, service.createCalled)
		require.NotNil(t, service.createInput.Price)
		require.True(t, decimal.RequireFromString("9.99").Equal(*service.createInput.Price))
	})
}

func TestHandler_GetByID(t *testing.T) {
	t.Run("non numeric id", func(t *testing.T) {
		service := &stubService{}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/abc", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "El id es obligatorio", resp.Message)
		require.False(t, service.getCalled)
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (products.Product, error) {
				return products.Product{}, products.ErrorNotFound
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/99", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 404, resp.Code)
		require.Equal(t, "no encontrado.", resp.Message)
		require.Nil(t, resp.Data)
	})

	t.Run("found", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (products.Product, error) {
				return products.Product{ID: id, Name: "Widget", Price: decimal.RequireFromString("9.99"), Stock: 5, Status: true}, nil
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "informacion encontrada.", resp.Message)
		data := asMap(t, resp.Data)
		require.Equal(t, json.Number("1"), data["id"])
		require.Equal(t, 1, service.getID)
	})

	t.Run("unexpected error", func(t *testing.T) {
		service := &stubService{
			getFn: func(ctx context.Context, id int) (products.Product, error) {
				return products.Product{}, errors.New("db down")
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/1", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "error inesperado.", resp.Message)
	})
}

func TestHandler_GetAll(t *testing.T) {
	t.Run("empty list is [] with its own message", func(t *testing.T) {
		service := &stubService{}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "No hay productos.", resp.Message)
		require.NotNil(t, resp.Data)
		require.Empty(t, resp.Data)
		require.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("with records", func(t *testing.T) {
		service := &stubService{
			getAllFn: func(ctx context.Context) ([]products.Product, error) {
				return []products.Product{{ID: 1}, {ID: 2}}, nil
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "informacion encontrada.", resp.Message)
		list, ok := resp.Data.([]any)
		require.True(t, ok)
		require.Len(t, list, 2)
	})
}

func TestHandler_Update(t *testing.T) {
	t.Run("non numeric id", func(t *testing.T) {
		service := &stubService{}
		rec := doRequest(t, newRouter(service), http.MethodPut, "/productos/abc", `{}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.False(t, service.updateCalled)
	})

	t.Run("missing status fails validation", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int, in products.ProductInput) (products.Product, error) {
				return products.Product{}, &products.ValidationError{Message: "El campo status es obligatorio y debe ser booleano (true/false)"}
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodPut, "/productos/1",
			`{"name":"Widget","price":9.99,"stock":5}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "El campo status es obligatorio y debe ser booleano (true/false)", resp.Message)
	})

	t.Run("not found", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int, in products.ProductInput) (products.Product, error) {
				return products.Product{}, products.ErrorNotFound
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodPut, "/productos/99",
			`{"name":"Widget","price":9.99,"stock":5,"status":true}`)

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "no encontrado.", resp.Message)
	})

	t.Run("success uses the path id", func(t *testing.T) {
		service := &stubService{
			updateFn: func(ctx context.Context, id int, in products.ProductInput) (products.Product, error) {
				return products.Product{ID: id, Name: in.Name}, nil
			},
		}
		// El payload trae otro id: debe ganar el del path.
		rec := doRequest(t, newRouter(service), http.MethodPut, "/productos/3",
			`{"id":999,"name":"Widget v2","price":19.99,"stock":8,"status":false}`)

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "informacion actualizada.", resp.Message)
		data := asMap(t, resp.Data)
		require.Equal(t, json.Number("3"), data["id"])
		require.Equal(t, 3, service.updateID)
	})
}

func TestHandler_Delete(t *testing.T) {
	t.Run("non numeric id", func(t *testing.T) {
		service := &stubService{}
		rec := doRequest(t, newRouter(service), http.MethodDelete, "/productos/abc", "")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.False(t, service.deleteCalled)
	})

	t.Run("deleted responds 200 with null data", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int) (bool, error) { return true, nil },
		}
		rec := doRequest(t, newRouter(service), http.MethodDelete, "/productos/1", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, 200, resp.Code)
		require.Equal(t, "informacion borrada.", resp.Message)
		// El booleano del service no aparece en el body.
		require.Nil(t, resp.Data)
		require.Contains(t, rec.Body.String(), `"data":null`)
		require.Equal(t, 1, service.deleteID)
	})

	t.Run("absent responds 404", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int) (bool, error) { return false, nil },
		}
		rec := doRequest(t, newRouter(service), http.MethodDelete, "/productos/1", "")

		require.Equal(t, http.StatusNotFound, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "no encontrado.", resp.Message)
	})

	t.Run("store error", func(t *testing.T) {
		service := &stubService{
			deleteFn: func(ctx context.Context, id int) (bool, error) { return false, errors.New("db down") },
		}
		rec := doRequest(t, newRouter(service), http.MethodDelete, "/productos/1", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHandler_TopTen(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &stubService{
			topTenFn: func(ctx context.Context) ([]sales.Product, error) {
				return []sales.Product{
					{ID: 1, Name: "A", Price: decimal.RequireFromString("100.00"), Stock: 1},
					{ID: 2, Name: "B", Price: decimal.RequireFromString("50.00"), Stock: 2},
				}, nil
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/top-products", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "informacion encontrada.", resp.Message)
		list, ok := resp.Data.([]any)
		require.True(t, ok)
		require.Len(t, list, 2)
		require.True(t, service.topTenCalled)
	})

	t.Run("empty", func(t *testing.T) {
		service := &stubService{}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/top-products", "")

		require.Equal(t, http.StatusOK, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "No hay productos.", resp.Message)
		require.Contains(t, rec.Body.String(), `"data":[]`)
	})

	t.Run("aggregation failure", func(t *testing.T) {
		service := &stubService{
			topTenFn: func(ctx context.Context) ([]sales.Product, error) {
				return nil, products.ErrorAggregation
			},
		}
		rec := doRequest(t, newRouter(service), http.MethodGet, "/productos/top-products", "")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		resp := decodeResponse(t, rec)
		require.Equal(t, "error inesperado.", resp.Message)
	})
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) httpx.Response {
	t.Helper()

	var response httpx.Response
	decoder := json.NewDecoder(bytes.NewReader(recorder.Body.Bytes()))
	decoder.UseNumber()
	require.NoError(t, decoder.Decode(&response))
	return response
}

func asMap(t *testing.T, value any) map[string]any {
	t.Helper()

	out, ok := value.(map[string]any)
	require.True(t, ok, "expected map, got %T", value)
	return out
}
