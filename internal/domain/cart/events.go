package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventType string

const (
	EventItemAdded        EventType = "cart.item_added"
	EventItemRemoved      EventType = "cart.item_removed"
	EventQuantityAdjusted EventType = "cart.quantity_adjusted"
	EventCheckedOut       EventType = "cart.checked_out"
)

// Event is published after a cart mutation has been committed.
type Event struct {
	Type        EventType       `json:"type"`
	OwnerID     string          `json:"owner_id"`
	ProductID   int64           `json:"product_id,omitempty"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
