package categories

import (
	"time"

	"github.com/google/uuid"
)

// Category groups products under a unique name.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpsertCategoryRequest carries the payload for create and update calls.
type UpsertCategoryRequest struct {
	CategoryName string `json:"categoryName" validate:"required"`
}
