package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JawadErfani01/computer-management-system/internal/jalali"
)

// StockProduct is the product view the ledger operates on inside a
// transaction.
type StockProduct struct {
	ID    uuid.UUID
	Name  string
	Price float64
	Stock int
}

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	ListSales(ctx context.Context) ([]Sale, error)
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	GetCustomerRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]CustomerRef, error)
	GetProductRefs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductRef, error)
}

// TxRepository exposes the transactional operations of the stock ledger.
// Implementations lock product rows for the duration of the transaction so
// concurrent sales cannot race past the stock check.
type TxRepository interface {
	GetSale(ctx context.Context, id uuid.UUID) (*Sale, error)
	CustomerExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetProductForUpdate(ctx context.Context, id uuid.UUID) (*StockProduct, error)
	SetProductStock(ctx context.Context, id uuid.UUID, stock int) error
	// RestoreProductStock adds delta back to the product, reporting whether
	// the product still exists.
	RestoreProductStock(ctx context.Context, id uuid.UUID, delta int) (bool, error)
	InsertSale(ctx context.Context, sale Sale) error
	ReplaceSale(ctx context.Context, sale Sale) error
	DeleteSale(ctx context.Context, id uuid.UUID) error
}

// StatsInvalidator drops cached dashboard aggregates after a mutation.
type StatsInvalidator interface {
	Bump(ctx context.Context) error
}

// Service coordinates the stock ledger: it keeps product stock levels and
// sale line items consistent. Every mutation runs in a single transaction,
// so a failing line item leaves no partial stock writes behind.
type Service struct {
	repo  RepositoryPort
	stats StatsInvalidator
	now   func() time.Time
}

// NewService builds Service. stats may be nil.
func NewService(repo RepositoryPort, stats StatsInvalidator) *Service {
	return &Service{repo: repo, stats: stats, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Create applies the requested line items against product stock and records
// the sale with price snapshots and the computed total.
func (s *Service) Create(ctx context.Context, req CreateSaleRequest) (*Sale, error) {
	sale := &Sale{
		ID:         uuid.New(),
		CustomerID: req.CustomerID,
		SaleDate:   Date{s.now().UTC()},
	}

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		ok, err := tx.CustomerExists(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}
		if !ok {
			return ErrCustomerNotFound
		}

		items, total, err := s.applyLines(ctx, tx, req.Products)
		if err != nil {
			return err
		}
		sale.Items = items
		sale.TotalAmount = total

		return tx.InsertSale(ctx, *sale)
	})
	if err != nil {
		return nil, err
	}

	s.bumpStats(ctx)
	return s.populate(ctx, sale)
}

// Update restores the stock held by the original line items, re-applies the
// new ones, and overwrites the sale. Products referenced by the original
// items that no longer exist are skipped silently. Products drained to zero
// stock are kept at zero, matching the create path.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateSaleRequest) (*Sale, error) {
	var sale *Sale

	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		existing, err := tx.GetSale(ctx, id)
		if err != nil {
			return err
		}

		for _, item := range existing.Items {
			if _, err := tx.RestoreProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}

		ok, err := tx.CustomerExists(ctx, req.Customer)
		if err != nil {
			return fmt.Errorf("resolve customer: %w", err)
		}
		if !ok {
			return ErrCustomerNotFound
		}

		items, total, err := s.applyLines(ctx, tx, req.Products)
		if err != nil {
			return err
		}

		existing.CustomerID = req.Customer
		existing.Customer = nil
		existing.Items = items
		existing.TotalAmount = total
		existing.SaleDate = Date{s.parseSaleDate(req.SaleDate)}

		sale = existing
		return tx.ReplaceSale(ctx, *existing)
	})
	if err != nil {
		return nil, err
	}

	s.bumpStats(ctx)
	return s.populate(ctx, sale)
}

// Delete removes the sale and returns its line quantities to product stock,
// keeping the ledger balanced when a sale is voided.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		sale, err := tx.GetSale(ctx, id)
		if err != nil {
			return err
		}
		for _, item := range sale.Items {
			if _, err := tx.RestoreProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("restore stock: %w", err)
			}
		}
		return tx.DeleteSale(ctx, id)
	})
	if err != nil {
		return err
	}

	s.bumpStats(ctx)
	return nil
}

// List returns all sales with customer and product projections joined in.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	sales, err := s.repo.ListSales(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.populateAll(ctx, sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// Get returns one sale with projections joined in.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Sale, error) {
	sale, err := s.repo.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, sale)
}

// applyLines runs the per-item resolve/validate/decrement loop shared by
// create and update, returning the recorded items and the order total.
func (s *Service) applyLines(ctx context.Context, tx TxRepository, lines []SaleLineInput) ([]LineItem, float64, error) {
	items := make([]LineItem, 0, len(lines))
	var total float64

	for _, line := range lines {
		product, err := tx.GetProductForUpdate(ctx, line.ProductID)
		if err != nil {
			return nil, 0, err
		}
		if product.Stock < line.Quantity {
			return nil, 0, &InsufficientStockError{ProductName: product.Name}
		}

		if err := tx.SetProductStock(ctx, product.ID, product.Stock-line.Quantity); err != nil {
			return nil, 0, fmt.Errorf("decrement stock: %w", err)
		}

		total += product.Price * float64(line.Quantity)
		items = append(items, LineItem{
			ProductID:   product.ID,
			Quantity:    line.Quantity,
			PriceAtSale: product.Price,
		})
	}
	return items, total, nil
}

// populateAll joins reduced customer and product projections onto the sales
// with two batched lookups running concurrently.
func (s *Service) populateAll(ctx context.Context, sales []Sale) error {
	if len(sales) == 0 {
		return nil
	}

	customerIDs := make([]uuid.UUID, 0, len(sales))
	seenCustomers := make(map[uuid.UUID]struct{})
	productIDs := make([]uuid.UUID, 0)
	seenProducts := make(map[uuid.UUID]struct{})
	for _, sale := range sales {
		if _, ok := seenCustomers[sale.CustomerID]; !ok {
			seenCustomers[sale.CustomerID] = struct{}{}
			customerIDs = append(customerIDs, sale.CustomerID)
		}
		for _, item := range sale.Items {
			if _, ok := seenProducts[item.ProductID]; !ok {
				seenProducts[item.ProductID] = struct{}{}
				productIDs = append(productIDs, item.ProductID)
			}
		}
	}

	var (
		customerRefs map[uuid.UUID]CustomerRef
		productRefs  map[uuid.UUID]ProductRef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		customerRefs, err = s.repo.GetCustomerRefs(gctx, customerIDs)
		return err
	})
	g.Go(func() error {
		var err error
		productRefs, err = s.repo.GetProductRefs(gctx, productIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("join sale references: %w", err)
	}

	for i := range sales {
		if ref, ok := customerRefs[sales[i].CustomerID]; ok {
			refCopy := ref
			sales[i].Customer = &refCopy
		}
		for j := range sales[i].Items {
			if ref, ok := productRefs[sales[i].Items[j].ProductID]; ok {
				refCopy := ref
				sales[i].Items[j].Product = &refCopy
			}
		}
	}
	return nil
}

func (s *Service) populate(ctx context.Context, sale *Sale) (*Sale, error) {
	batch := []Sale{*sale}
	if err := s.populateAll(ctx, batch); err != nil {
		return nil, err
	}
	return &batch[0], nil
}

// parseSaleDate accepts a Jalali YYYY/MM/DD string or RFC3339 and falls back
// to the current time, matching the lenient date handling of the API.
func (s *Service) parseSaleDate(raw string) time.Time {
	if d, err := jalali.Parse(raw); err == nil {
		return d.Time(time.UTC)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	return s.now().UTC()
}

func (s *Service) bumpStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	_ = s.stats.Bump(ctx)
}
