package products

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cgdev/tienda-api/internal/sales"
)

// Errores de dominio (no HTTP). El handler los traduce a status codes.
var (
	ErrorInvalidInput = errors.New("invalid input")
	ErrorNotFound     = errors.New("product not found")
	ErrorDuplicateID  = errors.New("duplicate product id")
	ErrorPersistence  = errors.New("persistence failure")
	ErrorAggregation  = errors.New("sales aggregation failed")
)

// ValidationError acumula los mensajes de los campos que no pasaron
// validación. Matchea ErrorInvalidInput vía errors.Is.
type ValidationError struct {
	Message string
}

func (validationError *ValidationError) Error() string {
	return validationError.Message
}

func (validationError *ValidationError) Is(target error) bool {
	return target == ErrorInvalidInput
}

// RepositoryAPI define lo que el service necesita de la persistencia.
type RepositoryAPI interface {
	Insert(ctx context.Context, input ProductInput) (Product, error)
	GetByID(ctx context.Context, id int) (Product, error)
	GetAll(ctx context.Context) ([]Product, error)
	Update(ctx context.Context, id int, input ProductInput) (Product, error)
	Delete(ctx context.Context, id int) (bool, error)
}

// SalesAPI define lo que el service necesita del archivo histórico de ventas.
type SalesAPI interface {
	Read(ctx context.Context, name string) ([]sales.Product, error)
}

// Service contiene reglas de negocio de productos.
// Todas las dependencias entran por constructor; no hay estado global.
type Service struct {
	repository RepositoryAPI
	sales      SalesAPI
	log        zerolog.Logger
}

// NewService crea un service de productos.
func NewService(repository RepositoryAPI, salesSource SalesAPI, log zerolog.Logger) *Service {
	return &Service{repository: repository, sales: salesSource, log: log}
}

// validate aplica las reglas de campos de escritura.
// Devuelve un ValidationError con los mensajes unidos por coma; nunca toca la DB.
func validate(input ProductInput, requireID bool) error {
	var messages []string

	if requireID && input.ID == nil {
		messages = append(messages, "El id es obligatorio")
	}
	if input.Status == nil {
		messages = append(messages, "El campo status es obligatorio y debe ser booleano (true/false)")
	}
	if strings.TrimSpace(input.Name) == "" {
		messages = append(messages, "El nombre no puede estar vacío")
	}
	if input.Price == nil {
		messages = append(messages, "El precio es obligatorio")
	} else if !input.Price.IsPositive() {
		messages = append(messages, "El precio debe ser mayor a 0")
	}
	if input.Stock == nil {
		messages = append(messages, "El stock es obligatorio")
	} else if *input.Stock <= 0 {
		messages = append(messages, "El stock debe ser mayor a 0")
	}

	if len(messages) > 0 {
		return &ValidationError{Message: strings.Join(messages, ", ")}
	}
	return nil
}

// Create valida reglas y crea el producto en DB.
// No hay pre-chequeo de existencia: la constraint de unicidad de la DB es el
// árbitro final, así una carrera entre chequeo e insert no puede colarse.
func (service *Service) Create(ctx context.Context, input ProductInput) (Product, error) {
	if err := validate(input, true); err != nil {
		return Product{}, err
	}

	service.log.Info().Int("id", *input.ID).Msg("iniciando la creacion del producto")

	product, err := service.repository.Insert(ctx, input)
	if err != nil {
		if errors.Is(err, ErrorDuplicateID) {
			return Product{}, ErrorDuplicateID
		}
		// Cualquier otra falla del store se expone como error de persistencia opaco.
		return Product{}, fmt.Errorf("%w: %v", ErrorPersistence, err)
	}

	service.log.Info().Int("id", product.ID).Msg("producto creado")
	return product, nil
}

// Get obtiene un producto por id.
func (service *Service) Get(ctx context.Context, id int) (Product, error) {
	service.log.Info().Int("id", id).Msg("iniciando la obtencion del producto")

	product, err := service.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrorNotFound
		}
		return Product{}, err
	}
	return product, nil
}

// GetAll devuelve todos los productos.
func (service *Service) GetAll(ctx context.Context) ([]Product, error) {
	service.log.Info().Msg("obteniendo todos los productos")
	return service.repository.GetAll(ctx)
}

// Update valida reglas y sobreescribe el producto identificado por id.
// El id del payload se ignora: manda el del path.
func (service *Service) Update(ctx context.Context, id int, input ProductInput) (Product, error) {
	if err := validate(input, false); err != nil {
		return Product{}, err
	}

	service.log.Info().Int("id", id).Msg("iniciando la actualizacion del producto")

	product, err := service.repository.Update(ctx, id, input)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrorNotFound
		}
		return Product{}, err
	}

	return product, nil
}

// Delete elimina un producto por id.
// Devuelve si existía: dos llamadas seguidas dan true y luego false.
func (service *Service) Delete(ctx context.Context, id int) (bool, error) {
	service.log.Info().Int("id", id).Msg("iniciando la eliminacion del producto")
	return service.repository.Delete(ctx, id)
}

// TopTen lee los tres archivos de ventas en paralelo, espera a los tres y
// devuelve los (hasta) diez registros de mayor precio.
// Sin tolerancia parcial: si una lectura falla, falla toda la operación.
func (service *Service) TopTen(ctx context.Context) ([]sales.Product, error) {
	service.log.Info().Msg("iniciando la obtencion de los diez productos mas vendidos")

	results := make([][]sales.Product, len(sales.SourceNames))

	group, ctx := errgroup.WithContext(ctx)
	for i, name := range sales.SourceNames {
		i, name := i, name
		group.Go(func() error {
			list, err := service.sales.Read(ctx, name)
			if err != nil {
				return err
			}
			results[i] = list
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		service.log.Error().Err(err).Msg("error al obtener los productos de ventas")
		return nil, fmt.Errorf("%w: %v", ErrorAggregation, err)
	}

	// Concatenar respetando el orden de las fuentes: con sort estable, los
	// empates de precio conservan el orden relativo original.
	var all []sales.Product
	for _, list := range results {
		all = append(all, list...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Price.GreaterThan(all[j].Price)
	})

	if len(all) > 10 {
		all = all[:10]
	}
	return all, nil
}
