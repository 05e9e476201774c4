package dashboard

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository reads aggregates with plain count/sum queries.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository builds PostgresRepository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM products").Scan(&n)
	return n, err
}

func (r *PostgresRepository) CountCustomers(ctx context.Context) (int64, error) {
	var n int64
	err := r.pool.QueryRow(ctx, "SELECT count(*) FROM customers").Scan(&n)
	return n, err
}

// SaleTotalsSince returns (sale_date, total_amount) pairs from the window
// start onward. Month bucketing happens in the service because the series
// calendar is not the storage calendar.
func (r *PostgresRepository) SaleTotalsSince(ctx context.Context, from time.Time) ([]SaleTotal, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT sale_date, total_amount FROM sales WHERE sale_date >= $1", from)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]SaleTotal, 0)
	for rows.Next() {
		var t SaleTotal
		if err := rows.Scan(&t.SaleDate, &t.Amount); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
