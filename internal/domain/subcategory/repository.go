package subcategory

import "context"

type Repository interface {
	Create(ctx context.Context, s *SubCategory) (*SubCategory, error)
	Update(ctx context.Context, s *SubCategory) (*SubCategory, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*SubCategory, error)
	GetBySlug(ctx context.Context, slug string) (*SubCategory, error)
	List(ctx context.Context, filter ListFilter) ([]*SubCategory, error)
}
