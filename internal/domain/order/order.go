package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusShipped  Status = "SHIPPED"
	StatusCanceled Status = "CANCELED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusShipped, StatusCanceled:
		return true
	default:
		return false
	}
}

// CanMoveTo reports whether an order in s may change to next. Canceled and
// shipped orders are final.
func (s Status) CanMoveTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusPaid || next == StatusCanceled
	case StatusPaid:
		return next == StatusShipped || next == StatusCanceled
	default:
		return false
	}
}

type PaymentMethod string

const (
	PaymentCard PaymentMethod = "CARD"
	PaymentCOD  PaymentMethod = "COD"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCard, PaymentCOD:
		return true
	default:
		return false
	}
}

// RequiresSession reports whether the method is settled through the payment
// processor's hosted checkout.
func (p PaymentMethod) RequiresSession() bool {
	return p == PaymentCard
}

type Order struct {
	ID               int64
	UserID           string
	Status           Status
	PaymentMethod    PaymentMethod
	PaymentSessionID string
	Currency         string
	TotalAmount      decimal.Decimal
	Items            []OrderItem
	CreatedAt        time.Time
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int64
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}
