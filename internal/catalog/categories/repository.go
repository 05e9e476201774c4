package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the category does not exist.
	ErrNotFound = errors.New("category not found")
	// ErrAlreadyExists indicates a duplicate category name.
	ErrAlreadyExists = errors.New("category already exists")
)

// Repository abstracts category persistence for the service.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	GetByName(ctx context.Context, name string) (*Category, error)
	Create(ctx context.Context, name string) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const categoryColumns = "id, name, created_at, updated_at"

func scanCategory(row pgx.Row) (*Category, error) {
	var c Category
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+categoryColumns+" FROM categories ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id)
	return scanCategory(row)
}

func (r *repository) GetByName(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+categoryColumns+" FROM categories WHERE name = $1", name)
	return scanCategory(row)
}

func (r *repository) Create(ctx context.Context, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx,
		"INSERT INTO categories (id, name) VALUES ($1, $2) RETURNING "+categoryColumns,
		uuid.New(), name)
	c, err := scanCategory(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, name string) (*Category, error) {
	row := r.pool.QueryRow(ctx,
		"UPDATE categories SET name = $2, updated_at = now() WHERE id = $1 RETURNING "+categoryColumns,
		id, name)
	c, err := scanCategory(row)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return c, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	return err
}

// mapUniqueViolation translates the storage-layer uniqueness constraint into
// the package sentinel.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrAlreadyExists
	}
	return err
}
