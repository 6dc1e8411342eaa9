package sales

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"

	"github.com/shopspring/decimal"
)

//go:embed data/*.json
var dataFS embed.FS

// SourceNames son los nombres lógicos de los archivos históricos de ventas.
var SourceNames = []string{"products-1", "products-2", "products-3"}

// Product es un registro de ventas de solo lectura.
// Se usa únicamente para el top ten; nunca se persiste ni se muta.
type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
}

// Source resuelve nombres lógicos contra un filesystem de archivos JSON.
type Source struct {
	fsys fs.FS
}

// NewSource crea un Source sobre un filesystem arbitrario (útil en tests).
func NewSource(fsys fs.FS) *Source {
	return &Source{fsys: fsys}
}

// NewEmbeddedSource crea un Source sobre los archivos embebidos en el binario.
func NewEmbeddedSource() *Source {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		// Solo posible si el embed está roto; mejor fallar al construir.
		panic(err)
	}
	return &Source{fsys: sub}
}

// Read lee y parsea un archivo de ventas por su nombre lógico.
// No valida el contenido más allá del parseo: se confía en la forma de los
// documentos estáticos.
func (source *Source) Read(ctx context.Context, name string) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := fs.ReadFile(source.fsys, name+".json")
	if err != nil {
		return nil, fmt.Errorf("archivo no encontrado: %s: %w", name, err)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("parseando %s: %w", name, err)
	}

	return products, nil
}
