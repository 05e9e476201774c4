package sales

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JawadErfani01/computer-management-system/internal/platform/db"
)

// Repository persists sales in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// WithTx executes fn inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *Repository) ListSales(ctx context.Context) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, customer_id, total_amount, sale_date, created_at, updated_at
FROM sales ORDER BY sale_date DESC, created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := make([]Sale, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var (
			sale Sale
			date time.Time
		)
		if err := rows.Scan(&sale.ID, &sale.CustomerID, &sale.TotalAmount, &date, &sale.CreatedAt, &sale.UpdatedAt); err != nil {
			return nil, err
		}
		sale.SaleDate = Date{date}
		sales = append(sales, sale)
		ids = append(ids, sale.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(sales) == 0 {
		return sales, nil
	}

	itemsBySale, err := loadItems(ctx, r.pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range sales {
		sales[i].Items = itemsBySale[sales[i].ID]
		if sales[i].Items == nil {
			sales[i].Items = make([]LineItem, 0)
		}
	}
	return sales, nil
}

func (r *Repository) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return getSale(ctx, r.pool, id, false)
}

func (r *Repository) GetCustomerRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]CustomerRef, error) {
	refs := make(map[uuid.UUID]CustomerRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	rows, err := r.pool.Query(ctx, "SELECT id, name, email FROM customers WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref CustomerRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Email); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}

func (r *Repository) GetProductRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductRef, error) {
	refs := make(map[uuid.UUID]ProductRef, len(ids))
	if len(ids) == 0 {
		return refs, nil
	}
	rows, err := r.pool.Query(ctx, "SELECT id, name, price FROM products WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ref ProductRef
		if err := rows.Scan(&ref.ID, &ref.Name, &ref.Price); err != nil {
			return nil, err
		}
		refs[ref.ID] = ref
	}
	return refs, rows.Err()
}

type txRepo struct {
	tx pgx.Tx
}

func (r *txRepo) GetSale(ctx context.Context, id uuid.UUID) (*Sale, error) {
	return getSale(ctx, r.tx, id, true)
}

func (r *txRepo) CustomerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM customers WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (r *txRepo) GetProductForUpdate(ctx context.Context, id uuid.UUID) (*StockProduct, error) {
	var p StockProduct
	err := r.tx.QueryRow(ctx,
		"SELECT id, name, price, stock FROM products WHERE id = $1 FOR UPDATE", id).
		Scan(&p.ID, &p.Name, &p.Price, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *txRepo) SetProductStock(ctx context.Context, id uuid.UUID, stock int) error {
	_, err := r.tx.Exec(ctx, "UPDATE products SET stock = $2, updated_at = now() WHERE id = $1", id, stock)
	return err
}

func (r *txRepo) RestoreProductStock(ctx context.Context, id uuid.UUID, delta int) (bool, error) {
	tag, err := r.tx.Exec(ctx,
		"UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1", id, delta)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *txRepo) InsertSale(ctx context.Context, sale Sale) error {
	_, err := r.tx.Exec(ctx, `
INSERT INTO sales (id, customer_id, total_amount, sale_date)
VALUES ($1, $2, $3, $4)`,
		sale.ID, sale.CustomerID, sale.TotalAmount, sale.SaleDate.Time)
	if err != nil {
		return err
	}
	return insertItems(ctx, r.tx, sale.ID, sale.Items)
}

func (r *txRepo) ReplaceSale(ctx context.Context, sale Sale) error {
	_, err := r.tx.Exec(ctx, `
UPDATE sales SET customer_id = $2, total_amount = $3, sale_date = $4, updated_at = now()
WHERE id = $1`,
		sale.ID, sale.CustomerID, sale.TotalAmount, sale.SaleDate.Time)
	if err != nil {
		return err
	}
	if _, err := r.tx.Exec(ctx, "DELETE FROM sale_items WHERE sale_id = $1", sale.ID); err != nil {
		return err
	}
	return insertItems(ctx, r.tx, sale.ID, sale.Items)
}

func (r *txRepo) DeleteSale(ctx context.Context, id uuid.UUID) error {
	tag, err := r.tx.Exec(ctx, "DELETE FROM sales WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSaleNotFound
	}
	return nil
}

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func getSale(ctx context.Context, q queryer, id uuid.UUID, forUpdate bool) (*Sale, error) {
	sql := "SELECT id, customer_id, total_amount, sale_date, created_at, updated_at FROM sales WHERE id = $1"
	if forUpdate {
		sql += " FOR UPDATE"
	}

	var (
		sale Sale
		date time.Time
	)
	err := q.QueryRow(ctx, sql, id).
		Scan(&sale.ID, &sale.CustomerID, &sale.TotalAmount, &date, &sale.CreatedAt, &sale.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	sale.SaleDate = Date{date}

	itemsBySale, err := loadItems(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	sale.Items = itemsBySale[id]
	if sale.Items == nil {
		sale.Items = make([]LineItem, 0)
	}
	return &sale, nil
}

func loadItems(ctx context.Context, q queryer, saleIDs []uuid.UUID) (map[uuid.UUID][]LineItem, error) {
	rows, err := q.Query(ctx, `
SELECT sale_id, product_id, quantity, price_at_sale
FROM sale_items WHERE sale_id = ANY($1) ORDER BY line_no`, saleIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID][]LineItem)
	for rows.Next() {
		var (
			saleID uuid.UUID
			item   LineItem
		)
		if err := rows.Scan(&saleID, &item.ProductID, &item.Quantity, &item.PriceAtSale); err != nil {
			return nil, err
		}
		items[saleID] = append(items[saleID], item)
	}
	return items, rows.Err()
}

func insertItems(ctx context.Context, tx pgx.Tx, saleID uuid.UUID, items []LineItem) error {
	for i, item := range items {
		_, err := tx.Exec(ctx, `
INSERT INTO sale_items (id, sale_id, product_id, quantity, price_at_sale, line_no)
VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.New(), saleID, item.ProductID, item.Quantity, item.PriceAtSale, i)
		if err != nil {
			return err
		}
	}
	return nil
}
