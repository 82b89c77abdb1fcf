package cart

import (
	"context"

	"github.com/shopspring/decimal"
)

// Store applies each mutation as one atomic update of the owner's record.
// Implementations return ErrCartNotFound when the owner does not exist,
// ErrLineItemNotFound from Remove/Adjust when the line is absent and a
// *StorageError for anything they cannot confirm.
type Store interface {
	Get(ctx context.Context, ownerID string) (*Cart, error)
	AddLineItem(ctx context.Context, ownerID string, productID, quantity int64, unitPrice decimal.Decimal) (AddResult, error)
	RemoveLineItem(ctx context.Context, ownerID string, productID int64, unitPrice decimal.Decimal) (RemoveResult, error)
	AdjustQuantity(ctx context.Context, ownerID string, productID, newQuantity int64, unitPrice decimal.Decimal) (AdjustResult, error)
	// Consume applies Cart.Consume line by line and returns the cart left
	// behind. Each line is updated only while it still holds the count that
	// was read, so a concurrent mutation is never overwritten.
	Consume(ctx context.Context, ownerID string, lines []ConsumedLine) (*Cart, error)
}
