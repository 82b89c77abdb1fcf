package department

import (
	"context"
	"strings"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/department"
	"example.com/storefront/internal/slug"
)

type CategoryLister interface {
	List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error)
}

type Service struct {
	repo       dom.Repository
	categories CategoryLister
}

func NewService(repo dom.Repository, categories CategoryLister) *Service {
	return &Service{repo: repo, categories: categories}
}

type CreateInput struct {
	Name        string
	Slug        string
	Description string
	BannerURL   string
}

type UpdateInput struct {
	ID          int64
	Name        *string
	Slug        *string
	Description *string
	BannerURL   *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Department, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, dom.ErrDepartmentInvalidName
	}
	sl, err := resolveSlug(in.Slug, name)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, &dom.Department{
		Name:        name,
		Slug:        sl,
		Description: strings.TrimSpace(in.Description),
		BannerURL:   strings.TrimSpace(in.BannerURL),
	})
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Department, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, dom.ErrDepartmentInvalidName
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
	if in.Description != nil {
		existed.Description = strings.TrimSpace(*in.Description)
	}
	if in.BannerURL != nil {
		existed.BannerURL = strings.TrimSpace(*in.BannerURL)
	}
	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, sl string) (*dom.Department, error) {
	return s.repo.GetBySlug(ctx, sl)
}

func (s *Service) List(ctx context.Context) ([]*dom.Department, error) {
	return s.repo.List(ctx)
}

// Categories lists the active categories filed under the department.
func (s *Service) Categories(ctx context.Context, sl string) ([]*domcategory.Category, error) {
	d, err := s.repo.GetBySlug(ctx, sl)
	if err != nil {
		return nil, err
	}
	return s.categories.List(ctx, domcategory.ListFilter{Department: d.Slug, OnlyActive: true})
}

func resolveSlug(explicit, name string) (string, error) {
	sl := strings.TrimSpace(explicit)
	if sl == "" {
		sl = slug.Make(name)
	}
	if !slug.Valid(sl) {
		return "", dom.ErrDepartmentInvalidSlug
	}
	return sl, nil
}
