package products

import (
	"time"

	"github.com/google/uuid"
)

// CategoryRef is the reduced category projection attached to product reads.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Product is a sellable item. Stock is mutated by the sales workflow or by a
// direct edit, never anywhere else.
type Product struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Price       float64      `json:"price"`
	Stock       int          `json:"stock"`
	Description string       `json:"description"`
	CategoryID  uuid.UUID    `json:"categoryId"`
	Category    *CategoryRef `json:"category,omitempty"`
	Brand       string       `json:"brand"`
	Image       string       `json:"image"`
	SKU         string       `json:"SKU"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// CreateProductInput carries the multipart form fields for product creation.
// The image arrives as a file part and is stored before the record is written.
type CreateProductInput struct {
	Name        string  `validate:"required"`
	Price       float64 `validate:"required,gt=0"`
	Stock       int     `validate:"gte=0"`
	Description string  `validate:"required"`
	CategoryID  uuid.UUID
	Brand       string `validate:"required"`
	Image       string `validate:"required"`
	SKU         string `validate:"required"`
}

// UpdateProductRequest is a partial JSON update. Nil fields keep their value.
type UpdateProductRequest struct {
	Name        *string    `json:"name,omitempty"`
	Price       *float64   `json:"price,omitempty" validate:"omitempty,gt=0"`
	Stock       *int       `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Description *string    `json:"description,omitempty"`
	Category    *uuid.UUID `json:"category,omitempty"`
	Brand       *string    `json:"brand,omitempty"`
	Image       *string    `json:"image,omitempty"`
	SKU         *string    `json:"SKU,omitempty"`
}
