package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un registro persistido en la tabla producto.
// El id lo provee el cliente al crear (decisión de diseño, no un default).
// Price se modela como decimal para evitar errores de precisión con float.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
	Status    bool            `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ProductInput es el payload de escritura (create y update).
// Los campos son punteros para distinguir "ausente" de "cero": id y status
// son obligatorios y no tienen valor por defecto razonable.
// En update el id del payload se ignora; manda el id del path.
type ProductInput struct {
	ID     *int             `json:"id,omitempty"`
	Name   string           `json:"name"`
	Price  *decimal.Decimal `json:"price"`
	Stock  *int             `json:"stock"`
	Status *bool            `json:"status"`
}
