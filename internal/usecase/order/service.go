package order

import (
	"context"

	domorder "example.com/storefront/internal/domain/order"
)

type Service struct {
	repo domorder.Repository
}

func NewService(repo domorder.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]*domorder.Order, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*domorder.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	return s.repo.GetByID(ctx, id)
}

// GetForUser returns the order only when userID placed it.
func (s *Service) GetForUser(ctx context.Context, userID string, id int64) (*domorder.Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, domorder.ErrOrderNotFound
	}
	return o, nil
}

// UpdateStatus rejects moves out of a final state.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	if !status.IsValid() {
		return nil, domorder.ErrInvalidStatus
	}
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status == status {
		return current, nil
	}
	if !current.Status.CanMoveTo(status) {
		return nil, domorder.ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
