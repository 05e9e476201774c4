package sales

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JawadErfani01/computer-management-system/internal/jalali"
)

// CustomerRef is the reduced customer projection joined onto sale reads.
type CustomerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ProductRef is the reduced product projection joined onto line items.
type ProductRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Price float64   `json:"price"`
}

// LineItem is one product+quantity entry within a sale. PriceAtSale is the
// product's price captured at transaction time and never changes afterwards,
// regardless of later product edits.
type LineItem struct {
	ProductID   uuid.UUID   `json:"productId"`
	Quantity    int         `json:"quantity"`
	PriceAtSale float64     `json:"priceAtSale"`
	Product     *ProductRef `json:"product,omitempty"`
}

// Date wraps the stored Gregorian instant and renders it as a Jalali
// YYYY/MM/DD string on the wire.
type Date struct {
	time.Time
}

// MarshalJSON renders the date in the Jalali calendar.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(jalali.Format(d.Time))
}

// Sale is a completed transaction against a customer.
type Sale struct {
	ID          uuid.UUID    `json:"id"`
	CustomerID  uuid.UUID    `json:"customerId"`
	Customer    *CustomerRef `json:"customer,omitempty"`
	Items       []LineItem   `json:"products"`
	TotalAmount float64      `json:"totalAmount"`
	SaleDate    Date         `json:"saleDate"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SaleLineInput is one requested line item.
type SaleLineInput struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CreateSaleRequest creates a sale for a customer.
type CreateSaleRequest struct {
	CustomerID uuid.UUID       `json:"customerId" validate:"required"`
	Products   []SaleLineInput `json:"products" validate:"required,min=1,dive"`
}

// UpdateSaleRequest replaces the line items, customer, and date of an
// existing sale. SaleDate accepts a Jalali YYYY/MM/DD string or RFC3339;
// anything else falls back to the current time.
type UpdateSaleRequest struct {
	Customer uuid.UUID       `json:"customer" validate:"required"`
	Products []SaleLineInput `json:"products" validate:"required,min=1,dive"`
	SaleDate string          `json:"saleDate"`
}

var (
	// ErrSaleNotFound indicates the sale does not exist.
	ErrSaleNotFound = errors.New("sales: sale not found")
	// ErrCustomerNotFound indicates the referenced customer does not exist.
	ErrCustomerNotFound = errors.New("sales: customer not found")
	// ErrProductNotFound indicates a referenced product does not exist.
	ErrProductNotFound = errors.New("sales: product not found")
)

// InsufficientStockError rejects a line item whose quantity exceeds the
// product's stock. The whole batch is rolled back, leaving stock unchanged.
type InsufficientStockError struct {
	ProductName string
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for %s", e.ProductName)
}
