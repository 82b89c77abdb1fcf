package product

import "github.com/shopspring/decimal"

type State string

const (
	StateActive  State = "active"
	StatePaused  State = "paused"
	StateRemoved State = "removed"
)

func (s State) IsValid() bool {
	switch s {
	case StateActive, StatePaused, StateRemoved:
		return true
	default:
		return false
	}
}

type Product struct {
	ID          int64
	Title       string
	Slug        string
	SKU         string
	Description string
	Brand       string
	BasePrice   decimal.Decimal
	Currency    string
	Stock       int64
	CategoryID  int64
	// VendorID is zero for goods the store sells itself.
	VendorID int64
	State    State
}

// IsPurchasable reports whether new units of the product may enter a cart.
func (p *Product) IsPurchasable() bool {
	return p.State == StateActive && p.Stock > 0
}

type ListFilter struct {
	CategoryID *int64
	VendorID   *int64
	Search     string
	OnlyActive bool
}
