package subcategory

import (
	"context"
	"strings"
	"unicode/utf8"

	domcategory "example.com/storefront/internal/domain/category"
	dom "example.com/storefront/internal/domain/subcategory"
	"example.com/storefront/internal/slug"
)

const (
	minNameLength = 3
	maxNameLength = 70
)

type CategoryReader interface {
	GetByID(ctx context.Context, id int64) (*domcategory.Category, error)
}

type Service struct {
	repo       dom.Repository
	categories CategoryReader
}

func NewService(repo dom.Repository, categories CategoryReader) *Service {
	return &Service{repo: repo, categories: categories}
}

type CreateInput struct {
	CategoryID int64
	Name       string
	Slug       string
}

type UpdateInput struct {
	ID         int64
	CategoryID *int64
	Name       *string
	Slug       *string
}

// Create files a sub-category under an existing category.
func (s *Service) Create(ctx context.Context, in CreateInput) (*dom.SubCategory, error) {
	sc := &dom.SubCategory{
		CategoryID: in.CategoryID,
		Name:       strings.TrimSpace(in.Name),
	}
	if err := s.validate(ctx, sc, in.Slug); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, sc)
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*dom.SubCategory, error) {
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
	if in.CategoryID != nil {
		existed.CategoryID = *in.CategoryID
	}
	if err := s.validate(ctx, existed, explicit); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, existed)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*dom.SubCategory, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, sl string) (*dom.SubCategory, error) {
	return s.repo.GetBySlug(ctx, sl)
}

func (s *Service) List(ctx context.Context, filter dom.ListFilter) ([]*dom.SubCategory, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.repo.List(ctx, filter)
}

func (s *Service) validate(ctx context.Context, sc *dom.SubCategory, explicitSlug string) error {
	if n := utf8.RuneCountInString(sc.Name); n < minNameLength || n > maxNameLength {
		return dom.ErrSubCategoryInvalidName
	}
	sl := strings.TrimSpace(explicitSlug)
	if sl == "" {
		sl = slug.Make(sc.Name)
	}
	if !slug.Valid(sl) {
		return dom.ErrSubCategoryInvalidSlug
	}
	sc.Slug = sl
	_, err := s.categories.GetByID(ctx, sc.CategoryID)
	return err
}
