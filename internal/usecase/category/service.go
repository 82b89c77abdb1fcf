package category

import (
	"context"
	"strings"

	dom "example.com/storefront/internal/domain/category"
	"example.com/storefront/internal/slug"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Department  string
	Name        string
	Slug        string
	Description string
	IsActive    *bool
}

type UpdateInput struct {
	ID          int64
	Department  *string
	Name        *string
	Slug        *string
	Description *string
	IsActive    *bool
}

// Create derives the slug from the name unless one is given. Categories
// start active.
func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, dom.ErrCategoryInvalidName
	}
	sl, err := resolveSlug(in.Slug, name)
	if err != nil {
		return nil, err
	}

	c := &dom.Category{
		Department:  strings.TrimSpace(in.Department),
		Name:        name,
		Slug:        sl,
		Description: strings.TrimSpace(in.Description),
		IsActive:    true,
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Category, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dom.ErrCategoryInvalidName
		}
		existed.Name = name
	}
	if in.Slug != nil {
		sl, err := resolveSlug(*in.Slug, existed.Name)
		if err != nil {
			return nil, err
		}
		existed.Slug = sl
	}
	if in.Department != nil {
		existed.Department = strings.TrimSpace(*in.Department)
	}
	if in.Description != nil {
		existed.Description = strings.TrimSpace(*in.Description)
	}
	if in.IsActive != nil {
		existed.IsActive = *in.IsActive
	}

	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Category, error) {
	return s.repo.List(ctx, filter)
}

// resolveSlug validates an explicit slug, or derives one from name when
// explicit is blank.
func resolveSlug(explicit, name string) (string, error) {
	sl := strings.TrimSpace(explicit)
	if sl == "" {
		sl = slug.Make(name)
	}
	if !slug.Valid(sl) {
		return "", dom.ErrCategoryInvalidSlug
	}
	return sl, nil
}
