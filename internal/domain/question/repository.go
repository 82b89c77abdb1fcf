package question

import "context"

type Repository interface {
	Create(ctx context.Context, q *Question) (*Question, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Question, error)
	List(ctx context.Context, filter ListFilter) ([]*Question, error)
	AddAnswer(ctx context.Context, id string, a Answer) (*Question, error)
	// Vote applies CastVote in a single write and returns the question as
	// stored afterwards.
	Vote(ctx context.Context, id, userID string, value int) (*Question, error)
}
