package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound indicates the customer does not exist.
	ErrNotFound = errors.New("customer not found")
	// ErrAlreadyExists indicates a duplicate email.
	ErrAlreadyExists = errors.New("customer already exists")
)

// Repository abstracts customer persistence for the service.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	Get(ctx context.Context, id uuid.UUID) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Create(ctx context.Context, customer Customer) (*Customer, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*Customer, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the PostgreSQL backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const customerColumns = "id, name, email, phone, address, city, country, created_at, updated_at"

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Country,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+customerColumns+" FROM customers ORDER BY created_at")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Customer, 0)
	for rows.Next() {
		var c Customer
		err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.City, &c.Country,
			&c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
	return scanCustomer(row)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Customer, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+customerColumns+" FROM customers WHERE email = $1", email)
	return scanCustomer(row)
}

func (r *repository) Create(ctx context.Context, customer Customer) (*Customer, error) {
	row := r.pool.QueryRow(ctx, `
INSERT INTO customers (id, name, email, phone, address, city, country)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+customerColumns,
		uuid.New(), customer.Name, customer.Email, customer.Phone,
		customer.Address, customer.City, customer.Country)
	c, err := scanCustomer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*Customer, error) {
	if len(updates) == 0 {
		return r.Get(ctx, id)
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := []any{id}
	argPos := 2
	for _, col := range []string{"name", "email", "phone", "address", "city", "country"} {
		val, ok := updates[col]
		if !ok {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, argPos))
		args = append(args, val)
		argPos++
	}
	setClauses = append(setClauses, "updated_at = now()")

	row := r.pool.QueryRow(ctx,
		"UPDATE customers SET "+strings.Join(setClauses, ", ")+" WHERE id = $1 RETURNING "+customerColumns,
		args...)
	c, err := scanCustomer(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM customers WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
