package department

import "context"

type Repository interface {
	Create(ctx context.Context, d *Department) (*Department, error)
	Update(ctx context.Context, d *Department) (*Department, error)
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*Department, error)
	GetBySlug(ctx context.Context, slug string) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}
