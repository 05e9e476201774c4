package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/JawadErfani01/computer-management-system/internal/catalog/categories"
)

// ErrCategoryNotFound indicates the referenced category does not exist.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryDirectory resolves category references at write time.
type CategoryDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (*categories.Category, error)
}

// ImageRemover deletes stored product images, best effort.
type ImageRemover interface {
	Remove(publicPath string)
}

// Service implements product use cases.
type Service struct {
	repo       Repository
	categories CategoryDirectory
	images     ImageRemover
	validate   *validator.Validate
}

// NewService builds Service.
func NewService(repo Repository, categories CategoryDirectory, images ImageRemover) *Service {
	return &Service{
		repo:       repo,
		categories: categories,
		images:     images,
		validate:   validator.New(),
	}
}

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Search matches name, SKU, or category name by case-insensitive substring.
// A blank query returns every product.
func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	if strings.TrimSpace(query) == "" {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, input CreateProductInput) (*Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, fmt.Errorf("%w: all fields are required", errInvalidInput)
	}
	if _, err := s.categories.Get(ctx, input.CategoryID); err != nil {
		if errors.Is(err, categories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("resolve category: %w", err)
	}
	return s.repo.Create(ctx, input)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*Product, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: invalid update payload", errInvalidInput)
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		if _, err := s.categories.Get(ctx, *req.Category); err != nil {
			if errors.Is(err, categories.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("resolve category: %w", err)
		}
		updates["category_id"] = *req.Category
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}

	return s.repo.Update(ctx, id, updates)
}

// Delete removes the record and then its stored image. Image deletion
// failures are logged by the store, never surfaced.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.images != nil && product.Image != "" {
		s.images.Remove(product.Image)
	}
	return nil
}

// errInvalidInput marks validation failures the handler maps to 400.
var errInvalidInput = errors.New("invalid product input")

// IsInvalidInput reports whether err stems from payload validation.
func IsInvalidInput(err error) bool {
	return errors.Is(err, errInvalidInput)
}
