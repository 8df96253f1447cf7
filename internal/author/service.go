package author

import (
	"context"
	"fmt"
	"strings"
)

// Service provides author-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new author service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns every author in insertion order.
func (s *Service) List(ctx context.Context) ([]Author, error) {
	authors, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list authors: %w", err)
	}
	if authors == nil {
		authors = []Author{}
	}
	return authors, nil
}

func (s *Service) Create(ctx context.Context, name string) (Author, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}, ErrInvalidName
	}

	a := &Author{Name: name}
	if err := s.repo.Create(ctx, a); err != nil {
		return Author{}, fmt.Errorf("create author: %w", err)
	}
	return *a, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Author, error) {
	return s.repo.GetByID(ctx, id)
}

// Update resolves id first, so a missing author wins over an invalid name.
func (s *Service) Update(ctx context.Context, id int64, name string) (Author, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Author{}, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return Author{}, ErrInvalidName
	}

	a.Name = name
	if err := s.repo.Update(ctx, &a); err != nil {
		return Author{}, fmt.Errorf("update author %d: %w", id, err)
	}
	return a, nil
}

// Delete removes the author even when books still reference it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Exists reports whether an author with id is stored.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
