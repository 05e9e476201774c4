package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the product does not exist.
var ErrNotFound = errors.New("product not found")

// Repository abstracts product persistence for the service.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, query string) ([]Product, error)
	Get(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, input CreateProductInput) (*Product, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// selectProducts left-joins categories so reads carry the reduced category
// projection even when the reference dangles.
const selectProducts = `
SELECT p.id, p.name, p.price, p.stock, p.description, p.category_id,
       p.brand, p.image, p.sku, p.created_at, p.updated_at,
       c.id, c.name
FROM products p
LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p       Product
		catID   *uuid.UUID
		catName *string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Description, &p.CategoryID,
		&p.Brand, &p.Image, &p.SKU, &p.CreatedAt, &p.UpdatedAt, &catID, &catName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if catID != nil && catName != nil {
		p.Category = &CategoryRef{ID: *catID, Name: *catName}
	}
	return &p, nil
}

func (r *repository) queryProducts(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Product, 0)
	for rows.Next() {
		var (
			p       Product
			catID   *uuid.UUID
			catName *string
		)
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Description, &p.CategoryID,
			&p.Brand, &p.Image, &p.SKU, &p.CreatedAt, &p.UpdatedAt, &catID, &catName)
		if err != nil {
			return nil, err
		}
		if catID != nil && catName != nil {
			p.Category = &CategoryRef{ID: *catID, Name: *catName}
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	return r.queryProducts(ctx, selectProducts+" ORDER BY p.created_at")
}

func (r *repository) Search(ctx context.Context, query string) ([]Product, error) {
	pattern := "%" + strings.TrimSpace(query) + "%"
	return r.queryProducts(ctx, selectProducts+`
WHERE p.name ILIKE $1 OR p.sku ILIKE $1 OR c.name ILIKE $1
ORDER BY p.created_at`, pattern)
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	row := r.pool.QueryRow(ctx, selectProducts+" WHERE p.id = $1", id)
	return scanProduct(row)
}

func (r *repository) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	id := uuid.New()
	_, err := r.pool.Exec(ctx, `
INSERT INTO products (id, name, price, stock, description, category_id, brand, image, sku)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, input.Name, input.Price, input.Stock, input.Description,
		input.CategoryID, input.Brand, input.Image, input.SKU)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Update applies a sparse column map built by the service.
func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*Product, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := []any{id}
	argPos := 2
	for _, col := range []string{"name", "price", "stock", "description", "category_id", "brand", "image", "sku"} {
		val, ok := updates[col]
		if !ok {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, val)
		argPos++
	}
	setClauses = append(setClauses, "updated_at = now()")

	tag, err := r.pool.Exec(ctx,
		"UPDATE products SET "+strings.Join(setClauses, ", ")+" WHERE id = $1", args...)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
