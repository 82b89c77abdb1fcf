package order

import (
	"context"

	domcart "example.com/storefront/internal/domain/cart"
)

type Repository interface {
	CreateFromCart(ctx context.Context, userID string, items []domcart.LineItem, payment PaymentMethod) (*Order, error)
	AttachPaymentSession(ctx context.Context, id int64, sessionID string) error
	List(ctx context.Context) ([]*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	GetByID(ctx context.Context, id int64) (*Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Order, error)
}
