package brand

import (
	"context"
	"strings"
	"unicode/utf8"

	dom "example.com/storefront/internal/domain/brand"
	"example.com/storefront/internal/slug"
)

type Service struct {
	repo dom.Repository
}

func NewService(repo dom.Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name    string
	Slug    string
	LogoURL string
}

type UpdateInput struct {
	ID      int64
	Name    *string
	Slug    *string
	LogoURL *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.Brand, error) {
	b := &dom.Brand{
		Name:    strings.TrimSpace(in.Name),
		LogoURL: strings.TrimSpace(in.LogoURL),
	}
	if err := normalize(b, in.Slug); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, b)
}

// Update keeps the stored slug unless a new one is given; renaming a brand
// does not break links to it.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.Brand, error) {
	existed, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		return nil, err
	}
	explicit := existed.Slug
	if in.Name != nil {
		existed.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		explicit = *in.Slug
	}
	if in.LogoURL != nil {
		existed.LogoURL = strings.TrimSpace(*in.LogoURL)
	}
	if err := normalize(existed, explicit); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.Brand, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, sl string) (*dom.Brand, error) {
	return s.repo.GetBySlug(ctx, sl)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.Brand, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func normalize(b *dom.Brand, explicitSlug string) error {
	if n := utf8.RuneCountInString(b.Name); n < dom.MinNameLength || n > dom.MaxNameLength {
		return dom.ErrBrandInvalidName
	}
	sl := strings.TrimSpace(explicitSlug)
	if sl == "" {
		sl = slug.Make(b.Name)
	}
	if !slug.Valid(sl) {
		return dom.ErrBrandInvalidSlug
	}
	b.Slug = sl
	return nil
}
