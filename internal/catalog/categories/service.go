package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service implements category use cases on top of the repository.
type Service struct {
	repo Repository
}

// NewService builds Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return s.repo.Get(ctx, id)
}

// Create rejects duplicate names before hitting the unique index so callers
// get the sentinel rather than a driver error.
func (s *Service) Create(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("check existing category: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyExists
	}
	return s.repo.Create(ctx, name)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}
	return s.repo.Update(ctx, id, name)
}

// Delete removes the category. Products referencing it keep their dangling
// reference; reads tolerate the missing join.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
