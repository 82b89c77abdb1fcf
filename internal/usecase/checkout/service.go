package checkout

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
)

type CartLedger interface {
	Get(ctx context.Context, ownerID string) (*domcart.Cart, error)
	Consume(ctx context.Context, ownerID string, lines []domcart.ConsumedLine) (*domcart.Cart, error)
}

type OrderRepository interface {
	CreateFromCart(ctx context.Context, userID string, items []domcart.LineItem, payment domorder.PaymentMethod) (*domorder.Order, error)
	AttachPaymentSession(ctx context.Context, id int64, sessionID string) error
	UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error)
}

type SessionLine struct {
	ProductID  int64
	Name       string
	UnitAmount decimal.Decimal
	Quantity   int64
}

type SessionRequest struct {
	OrderID    int64
	CustomerID string
	Currency   string
	Lines      []SessionLine
	SuccessURL string
	CancelURL  string
}

type Session struct {
	ID       string
	URL      string
	Amount   decimal.Decimal
	Currency string
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

type Service struct {
	cart       CartLedger
	orders     OrderRepository
	gateway    PaymentGateway
	successURL string
	cancelURL  string
	log        zerolog.Logger
}

func NewService(cart CartLedger, orders OrderRepository, gateway PaymentGateway, successURL, cancelURL string, log zerolog.Logger) *Service {
	return &Service{
		cart:       cart,
		orders:     orders,
		gateway:    gateway,
		successURL: successURL,
		cancelURL:  cancelURL,
		log:        log.With().Str("component", "checkout").Logger(),
	}
}

type Result struct {
	Order   *domorder.Order
	Session *Session
}

// CreateSession turns the owner's cart into a pending order priced from the
// catalog, opens a payment session when the method needs one, and takes the
// ordered lines out of the cart. Anything added to the cart while the order
// was being placed stays there.
func (s *Service) CreateSession(ctx context.Context, ownerID string, method domorder.PaymentMethod) (*Result, error) {
	if !method.IsValid() {
		return nil, domorder.ErrInvalidPayment
	}

	c, err := s.cart.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	items := make([]domcart.LineItem, 0, len(c.LineItems))
	for _, item := range c.LineItems {
		if item.Quantity > 0 {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	order, err := s.orders.CreateFromCart(ctx, ownerID, items, method)
	if err != nil {
		return nil, err
	}
	result := &Result{Order: order}

	if method.RequiresSession() {
		session, err := s.gateway.CreateSession(ctx, s.sessionRequest(ownerID, order))
		if err != nil {
			s.cancel(ctx, order.ID, err)
			return nil, fmt.Errorf("create payment session: %w", err)
		}
		if err := s.orders.AttachPaymentSession(ctx, order.ID, session.ID); err != nil {
			s.cancel(ctx, order.ID, err)
			return nil, err
		}
		order.PaymentSessionID = session.ID
		result.Session = session
	}

	// The order is committed; a cart left full is recoverable, a second
	// order is not.
	if _, err := s.cart.Consume(ctx, ownerID, consumedLines(c, order)); err != nil {
		s.log.Error().Err(err).Str("owner_id", ownerID).Int64("order_id", order.ID).Msg("ordered lines left in cart after checkout")
	}

	s.log.Info().
		Str("owner_id", ownerID).
		Int64("order_id", order.ID).
		Str("payment_method", string(method)).
		Str("total_amount", order.TotalAmount.StringFixed(2)).
		Msg("order placed")
	return result, nil
}

// consumedLines covers every line of the cart as it was read, zero quantity
// lines included, charged at the price the order recorded.
func consumedLines(c *domcart.Cart, order *domorder.Order) []domcart.ConsumedLine {
	prices := make(map[int64]decimal.Decimal, len(order.Items))
	for _, item := range order.Items {
		prices[item.ProductID] = item.Price
	}
	lines := make([]domcart.ConsumedLine, 0, len(c.LineItems))
	for _, item := range c.LineItems {
		lines = append(lines, domcart.ConsumedLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: prices[item.ProductID],
		})
	}
	return lines
}

func (s *Service) sessionRequest(ownerID string, order *domorder.Order) SessionRequest {
	req := SessionRequest{
		OrderID:    order.ID,
		CustomerID: ownerID,
		Currency:   order.Currency,
		Lines:      make([]SessionLine, 0, len(order.Items)),
		SuccessURL: s.successURL,
		CancelURL:  s.cancelURL,
	}
	for _, item := range order.Items {
		req.Lines = append(req.Lines, SessionLine{
			ProductID:  item.ProductID,
			Name:       item.Name,
			UnitAmount: item.Price,
			Quantity:   item.Quantity,
		})
	}
	return req
}

func (s *Service) cancel(ctx context.Context, orderID int64, cause error) {
	s.log.Warn().Err(cause).Int64("order_id", orderID).Msg("payment session failed, canceling order")
	if _, err := s.orders.UpdateStatus(ctx, orderID, domorder.StatusCanceled); err != nil {
		s.log.Error().Err(err).Int64("order_id", orderID).Msg("order not canceled")
	}
}
