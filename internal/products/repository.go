package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbAPI es lo que el repositorio necesita del pool.
// Permite testear con fakes sin levantar PostgreSQL.
type dbAPI interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository accede a la tabla producto.
// Contiene SQL y mapeo DB → modelo.
type Repository struct {
	database dbAPI
}

// NewRepository crea un repositorio de productos.
func NewRepository(database dbAPI) *Repository {
	return &Repository{database: database}
}

// Insert crea un producto y devuelve el registro tal como quedó persistido.
// RETURNING garantiza que los timestamps generados por DB vuelven al caller.
func (repository *Repository) Insert(ctx context.Context, input ProductInput) (Product, error) {
	const query = `
		INSERT INTO producto (id, name, price, stock, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, price, stock, status, created_at, updated_at;
	`

	var product Product
	err := repository.database.QueryRow(ctx, query, input.ID, input.Name, input.Price, input.Stock, input.Status).
		Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Status, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		// Detectar conflicto por primary key duplicada.
		// Postgres: unique_violation = 23505
		var postgressError *pgconn.PgError
		if errors.As(err, &postgressError) && postgressError.Code == "23505" {
			return Product{}, ErrorDuplicateID
		}
		return Product{}, err
	}

	return product, nil
}

// GetByID obtiene un producto por id. Devuelve pgx.ErrNoRows si no existe.
func (repository *Repository) GetByID(ctx context.Context, id int) (Product, error) {
	const query = `
		SELECT id, name, price, stock, status, created_at, updated_at
		FROM producto
		WHERE id = $1;
	`

	var product Product
	err := repository.database.QueryRow(ctx, query, id).
		Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Status, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	return product, nil
}

// GetAll devuelve todos los productos ordenados por id.
// Sin paginación: el contrato de la API es la lista completa.
func (repository *Repository) GetAll(ctx context.Context) ([]Product, error) {
	const query = `
		SELECT id, name, price, stock, status, created_at, updated_at
		FROM producto
		ORDER BY id;
	`

	rows, err := repository.database.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var product Product
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Status, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

// Update sobreescribe name, price, stock y status del producto identificado
// por id. Devuelve pgx.ErrNoRows si no existe fila para ese id.
func (repository *Repository) Update(ctx context.Context, id int, input ProductInput) (Product, error) {
	const query = `
		UPDATE producto
		SET name = $2, price = $3, stock = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, name, price, stock, status, created_at, updated_at;
	`

	var product Product
	err := repository.database.QueryRow(ctx, query, id, input.Name, input.Price, input.Stock, input.Status).
		Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &product.Status, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return Product{}, err
	}

	return product, nil
}

// Delete elimina un producto por id.
// Devuelve si existía una fila y fue borrada.
func (repository *Repository) Delete(ctx context.Context, id int) (bool, error) {
	const query = `DELETE FROM producto WHERE id = $1;`

	tag, err := repository.database.Exec(ctx, query, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}
