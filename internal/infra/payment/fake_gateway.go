package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
	checkoutuc "example.com/storefront/internal/usecase/checkout"
)

var (
	ErrNoLines       = errors.New("payment session needs at least one line")
	ErrInvalidLine   = errors.New("payment line needs a positive quantity and a non-negative amount")
	ErrInvalidReturn = errors.New("payment session needs absolute success and cancel URLs")
)

// FakeGateway opens hosted-checkout sessions without talking to a
// processor. Session URLs point at baseURL, or at the success URL when
// baseURL is empty, so the flow can be exercised end to end.
type FakeGateway struct {
	baseURL string
	newID   func() string
}

func NewFakeGateway(baseURL string) *FakeGateway {
	return &FakeGateway{
		baseURL: baseURL,
		newID:   func() string { return "cs_" + uuid.NewString() },
	}
}

func (g *FakeGateway) CreateSession(ctx context.Context, req checkoutuc.SessionRequest) (*checkoutuc.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, ErrNoLines
	}
	if !absolute(req.SuccessURL) || !absolute(req.CancelURL) {
		return nil, ErrInvalidReturn
	}

	amount := decimal.Zero
	for _, l := range req.Lines {
		if l.Quantity <= 0 || l.UnitAmount.IsNegative() {
			return nil, fmt.Errorf("%w: product %d", ErrInvalidLine, l.ProductID)
		}
		amount = amount.Add(domcart.LineAmount(l.Quantity, l.UnitAmount))
	}

	id := g.newID()
	base := g.baseURL
	if base == "" {
		base = req.SuccessURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("session_id", id)
	q.Set("order_id", fmt.Sprint(req.OrderID))
	u.RawQuery = q.Encode()

	return &checkoutuc.Session{
		ID:       id,
		URL:      u.String(),
		Amount:   amount,
		Currency: req.Currency,
	}, nil
}

func absolute(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}
