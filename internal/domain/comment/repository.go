package comment

import "context"

type Repository interface {
	Create(ctx context.Context, c *Comment) (*Comment, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	List(ctx context.Context, filter ListFilter) ([]*Comment, error)
	// ToggleLike flips userID's like in a single write and returns the
	// comment as stored afterwards.
	ToggleLike(ctx context.Context, id, userID string) (*Comment, error)
	Ratings(ctx context.Context, productID int64) (RatingSummary, error)
}
