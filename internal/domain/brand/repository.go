package brand

import "context"

type Repository interface {
	Create(ctx context.Context, b *Brand) (*Brand, error)
	Update(ctx context.Context, b *Brand) (*Brand, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Brand, error)
	GetBySlug(ctx context.Context, slug string) (*Brand, error)
	List(ctx context.Context, filter ListFilter) ([]*Brand, error)
}
