package sales

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	customers map[uuid.UUID]CustomerRef
	products  map[uuid.UUID]*StockProduct
	sales     map[uuid.UUID]Sale
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		customers: make(map[uuid.UUID]CustomerRef),
		products:  make(map[uuid.UUID]*StockProduct),
		sales:     make(map[uuid.UUID]Sale),
	}
}

func (r *fakeRepo) addCustomer(name, email string) uuid.UUID {
	id := uuid.New()
	r.customers[id] = CustomerRef{ID: id, Name: name, Email: email}
	return id
}

func (r *fakeRepo) addProduct(name string, price float64, stock int) uuid.UUID {
	id := uuid.New()
	r.products[id] = &StockProduct{ID: id, Name: name, Price: price, Stock: stock}
	return id
}

// WithTx snapshots state and restores it when fn fails, mirroring a rolled
// back transaction.
func (r *fakeRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	products := make(map[uuid.UUID]*StockProduct, len(r.products))
	for id, p := range r.products {
		cp := *p
		products[id] = &cp
	}
	sales := make(map[uuid.UUID]Sale, len(r.sales))
	for id, s := range r.sales {
		sales[id] = s
	}

	if err := fn(ctx, r); err != nil {
		r.products = products
		r.sales = sales
		return err
	}
	return nil
}

func (r *fakeRepo) ListSales(_ context.Context) ([]Sale, error) {
	out := make([]Sale, 0, len(r.sales))
	for _, s := range r.sales {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) GetSale(_ context.Context, id uuid.UUID) (*Sale, error) {
	s, ok := r.sales[id]
	if !ok {
		return nil, ErrSaleNotFound
	}
	cp := s
	cp.Items = append([]LineItem(nil), s.Items...)
	return &cp, nil
}

func (r *fakeRepo) GetCustomerRefs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]CustomerRef, error) {
	refs := make(map[uuid.UUID]CustomerRef)
	for _, id := range ids {
		if ref, ok := r.customers[id]; ok {
			refs[id] = ref
		}
	}
	return refs, nil
}

func (r *fakeRepo) GetProductRefs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]ProductRef, error) {
	refs := make(map[uuid.UUID]ProductRef)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			refs[id] = ProductRef{ID: p.ID, Name: p.Name, Price: p.Price}
		}
	}
	return refs, nil
}

func (r *fakeRepo) CustomerExists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := r.customers[id]
	return ok, nil
}

func (r *fakeRepo) GetProductForUpdate(_ context.Context, id uuid.UUID) (*StockProduct, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) SetProductStock(_ context.Context, id uuid.UUID, stock int) error {
	if p, ok := r.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *fakeRepo) RestoreProductStock(_ context.Context, id uuid.UUID, delta int) (bool, error) {
	p, ok := r.products[id]
	if !ok {
		return false, nil
	}
	p.Stock += delta
	return true, nil
}

func (r *fakeRepo) InsertSale(_ context.Context, sale Sale) error {
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeRepo) ReplaceSale(_ context.Context, sale Sale) error {
	if _, ok := r.sales[sale.ID]; !ok {
		return ErrSaleNotFound
	}
	r.sales[sale.ID] = sale
	return nil
}

func (r *fakeRepo) DeleteSale(_ context.Context, id uuid.UUID) error {
	if _, ok := r.sales[id]; !ok {
		return ErrSaleNotFound
	}
	delete(r.sales, id)
	return nil
}

type fakeStats struct {
	bumps int
}

func (f *fakeStats) Bump(_ context.Context) error {
	f.bumps++
	return nil
}

func TestCreateSaleDecrementsStockAndComputesTotal(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	laptopID := repo.addProduct("Laptop", 1200, 10)
	mouseID := repo.addProduct("Mouse", 25.5, 40)

	stats := &fakeStats{}
	svc := NewService(repo, stats)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products: []SaleLineInput{
			{ProductID: laptopID, Quantity: 2},
			{ProductID: mouseID, Quantity: 4},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2*1200+4*25.5, sale.TotalAmount)
	assert.Equal(t, 8, repo.products[laptopID].Stock)
	assert.Equal(t, 36, repo.products[mouseID].Stock)
	assert.Equal(t, 1, stats.bumps)

	require.Len(t, sale.Items, 2)
	assert.Equal(t, 1200.0, sale.Items[0].PriceAtSale)
	require.NotNil(t, sale.Customer)
	assert.Equal(t, "Ahmad", sale.Customer.Name)
	require.NotNil(t, sale.Items[0].Product)
	assert.Equal(t, "Laptop", sale.Items[0].Product.Name)
}

func TestCreateSaleRejectsInsufficientStock(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	productID := repo.addProduct("Keyboard", 80, 10)

	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, repo.products[productID].Stock)

	_, err = svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 8}},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "not enough stock for Keyboard", stockErr.Error())

	// The rejected sale leaves no trace: stock stays at 7 and only the
	// first sale was recorded.
	assert.Equal(t, 7, repo.products[productID].Stock)
	assert.Len(t, repo.sales, 1)
}

func TestCreateSaleRollsBackEarlierLinesOnFailure(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	okID := repo.addProduct("Monitor", 300, 5)

	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products: []SaleLineInput{
			{ProductID: okID, Quantity: 2},
			{ProductID: uuid.New(), Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrProductNotFound)

	assert.Equal(t, 5, repo.products[okID].Stock)
	assert.Empty(t, repo.sales)
}

func TestCreateSaleUnknownCustomer(t *testing.T) {
	repo := newFakeRepo()
	productID := repo.addProduct("Monitor", 300, 5)

	svc := NewService(repo, nil)

	_, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: uuid.New(),
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrCustomerNotFound)
	assert.Equal(t, 5, repo.products[productID].Stock)
}

func TestUpdateSaleRestoresThenReappliesStock(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	productID := repo.addProduct("Laptop", 1200, 10)

	svc := NewService(repo, nil)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, repo.products[productID].Stock)

	updated, err := svc.Update(context.Background(), sale.ID, UpdateSaleRequest{
		Customer: customerID,
		Products: []SaleLineInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 9, repo.products[productID].Stock)
	assert.Equal(t, 1200.0, updated.TotalAmount)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 1, updated.Items[0].Quantity)
}

func TestUpdateSaleCanUseFreedStock(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	productID := repo.addProduct("Laptop", 1200, 0)

	svc := NewService(repo, nil)

	// Seed a sale that holds all remaining stock.
	repo.products[productID].Stock = 3
	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 0, repo.products[productID].Stock)

	// Quantity 3 is only satisfiable because the original line is
	// restored before the new one is applied.
	updated, err := svc.Update(context.Background(), sale.ID, UpdateSaleRequest{
		Customer: customerID,
		Products: []SaleLineInput{{ProductID: productID, Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, repo.products[productID].Stock)
	assert.Equal(t, 3600.0, updated.TotalAmount)
}

func TestUpdateSaleFailureKeepsOriginalState(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	productID := repo.addProduct("Laptop", 1200, 10)

	svc := NewService(repo, nil)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 4}},
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), sale.ID, UpdateSaleRequest{
		Customer: customerID,
		Products: []SaleLineInput{{ProductID: productID, Quantity: 11}},
	})
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	// Restore and re-apply happen in one transaction, so the failed
	// update leaves both the sale and the stock untouched.
	assert.Equal(t, 6, repo.products[productID].Stock)
	current, err := svc.Get(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, current.Items[0].Quantity)
}

func TestUpdateSaleSkipsDeletedOriginalProducts(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	goneID := repo.addProduct("Discontinued", 50, 10)
	keptID := repo.addProduct("Laptop", 1200, 10)

	svc := NewService(repo, nil)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products: []SaleLineInput{
			{ProductID: goneID, Quantity: 2},
			{ProductID: keptID, Quantity: 1},
		},
	})
	require.NoError(t, err)

	delete(repo.products, goneID)

	updated, err := svc.Update(context.Background(), sale.ID, UpdateSaleRequest{
		Customer: customerID,
		Products: []SaleLineInput{{ProductID: keptID, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 8, repo.products[keptID].Stock)
	assert.Equal(t, 2400.0, updated.TotalAmount)
}

func TestUpdateSaleParsesSaleDate(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	productID := repo.addProduct("Laptop", 1200, 10)

	svc := NewService(repo, nil)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 1}},
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), sale.ID, UpdateSaleRequest{
		Customer: customerID,
		Products: []SaleLineInput{{ProductID: productID, Quantity: 1}},
		SaleDate: "1400/01/01",
	})
	require.NoError(t, err)
	// 1400/01/01 is the Nowruz of 2021.
	assert.Equal(t, time.Date(2021, 3, 21, 0, 0, 0, 0, time.UTC), updated.SaleDate.Time)

	raw, err := updated.SaleDate.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"1400/01/01"`, string(raw))
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	repo := newFakeRepo()
	customerID := repo.addCustomer("Ahmad", "ahmad@example.com")
	productID := repo.addProduct("Laptop", 1200, 10)

	stats := &fakeStats{}
	svc := NewService(repo, stats)

	sale, err := svc.Create(context.Background(), CreateSaleRequest{
		CustomerID: customerID,
		Products:   []SaleLineInput{{ProductID: productID, Quantity: 4}},
	})
	require.NoError(t, err)
	require.Equal(t, 6, repo.products[productID].Stock)

	require.NoError(t, svc.Delete(context.Background(), sale.ID))

	assert.Equal(t, 10, repo.products[productID].Stock)
	assert.Empty(t, repo.sales)
	assert.Equal(t, 2, stats.bumps)

	err = svc.Delete(context.Background(), sale.ID)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestGetSaleNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), nil)
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrSaleNotFound)
}
