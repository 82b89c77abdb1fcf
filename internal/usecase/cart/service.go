package cart

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
	domproduct "example.com/storefront/internal/domain/product"
)

type ProductReader interface {
	GetByID(ctx context.Context, id int64) (*domproduct.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, e domcart.Event) error
}

// Service is the cart ledger. The unit price of every mutation comes from
// the catalog; a price sent by the client is only compared and logged.
type Service struct {
	store    domcart.Store
	products ProductReader
	events   EventPublisher
	log      zerolog.Logger
	now      func() time.Time
}

func NewService(store domcart.Store, products ProductReader, events EventPublisher, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		products: products,
		events:   events,
		log:      log.With().Str("component", "cart").Logger(),
		now:      time.Now,
	}
}

type AddInput struct {
	OwnerID   string
	ProductID int64
	Quantity  int64
	PriceHint *decimal.Decimal
}

type RemoveInput struct {
	OwnerID   string
	ProductID int64
	PriceHint *decimal.Decimal
}

type AdjustInput struct {
	OwnerID   string
	ProductID int64
	Quantity  int64
	PriceHint *decimal.Decimal
}

func (s *Service) AddLineItem(ctx context.Context, in AddInput) (domcart.AddResult, error) {
	if err := domcart.ValidateAdd(in.ProductID, in.Quantity, decimal.Zero); err != nil {
		return domcart.AddResult{}, err
	}

	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return domcart.AddResult{}, err
	}
	if err := checkPurchasable(p); err != nil {
		return domcart.AddResult{}, err
	}
	s.checkHint(in.OwnerID, p, in.PriceHint)

	res, err := s.store.AddLineItem(ctx, in.OwnerID, p.ID, in.Quantity, p.BasePrice)
	if err != nil {
		return domcart.AddResult{}, err
	}

	s.publish(ctx, domcart.Event{
		Type:        domcart.EventItemAdded,
		OwnerID:     in.OwnerID,
		ProductID:   p.ID,
		Quantity:    res.Quantity,
		UnitPrice:   p.BasePrice,
		TotalAmount: res.TotalAmount,
	})
	return res, nil
}

// RemoveLineItem accepts products in any state so a paused or removed
// product can still leave the cart.
func (s *Service) RemoveLineItem(ctx context.Context, in RemoveInput) (domcart.RemoveResult, error) {
	if err := domcart.ValidateRemove(in.ProductID, decimal.Zero); err != nil {
		return domcart.RemoveResult{}, err
	}

	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return domcart.RemoveResult{}, err
	}
	s.checkHint(in.OwnerID, p, in.PriceHint)

	res, err := s.store.RemoveLineItem(ctx, in.OwnerID, p.ID, p.BasePrice)
	if err != nil {
		return domcart.RemoveResult{}, err
	}

	s.publish(ctx, domcart.Event{
		Type:        domcart.EventItemRemoved,
		OwnerID:     in.OwnerID,
		ProductID:   p.ID,
		Quantity:    res.RemovedQuantity,
		UnitPrice:   p.BasePrice,
		TotalAmount: res.TotalAmount,
	})
	return res, nil
}

// AdjustQuantity sets the line to in.Quantity. Raising it requires the
// product to be on sale; lowering it does not.
func (s *Service) AdjustQuantity(ctx context.Context, in AdjustInput) (domcart.AdjustResult, error) {
	if err := domcart.ValidateAdjust(in.ProductID, in.Quantity, decimal.Zero); err != nil {
		return domcart.AdjustResult{}, err
	}

	p, err := s.product(ctx, in.ProductID)
	if err != nil {
		return domcart.AdjustResult{}, err
	}
	s.checkHint(in.OwnerID, p, in.PriceHint)

	if p.State != domproduct.StateActive {
		current, err := s.store.Get(ctx, in.OwnerID)
		if err != nil {
			return domcart.AdjustResult{}, err
		}
		if i := current.Find(p.ID); i >= 0 && in.Quantity > current.LineItems[i].Quantity {
			return domcart.AdjustResult{}, domproduct.ErrProductUnavailable
		}
	}

	res, err := s.store.AdjustQuantity(ctx, in.OwnerID, p.ID, in.Quantity, p.BasePrice)
	if err != nil {
		return domcart.AdjustResult{}, err
	}

	s.publish(ctx, domcart.Event{
		Type:        domcart.EventQuantityAdjusted,
		OwnerID:     in.OwnerID,
		ProductID:   p.ID,
		Quantity:    res.Quantity,
		UnitPrice:   p.BasePrice,
		TotalAmount: res.TotalAmount,
	})
	return res, nil
}

func (s *Service) Get(ctx context.Context, ownerID string) (*domcart.Cart, error) {
	return s.store.Get(ctx, ownerID)
}

// GetCart returns the cart with catalog details for every line. The total is
// the ledger's running total, not a recomputation.
func (s *Service) GetCart(ctx context.Context, ownerID string) (*domcart.DetailedCart, error) {
	c, err := s.store.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	detailed := &domcart.DetailedCart{
		OwnerID:     c.OwnerID,
		Items:       make([]domcart.DetailedItem, 0, len(c.LineItems)),
		TotalAmount: c.TotalAmount,
	}
	if c.IsEmpty() {
		return detailed, nil
	}

	ids := make([]int64, 0, len(c.LineItems))
	for _, item := range c.LineItems {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	productMap := make(map[int64]*domproduct.Product, len(products))
	for _, p := range products {
		productMap[p.ID] = p
	}

	for _, item := range c.LineItems {
		d := domcart.DetailedItem{LineItem: item}
		if p, ok := productMap[item.ProductID]; ok {
			d.Title = p.Title
			d.Slug = p.Slug
			d.UnitPrice = p.BasePrice
			d.LineTotal = domcart.LineAmount(item.Quantity, p.BasePrice)
			d.Available = p.IsPurchasable()
		}
		detailed.Items = append(detailed.Items, d)
	}
	return detailed, nil
}

// Consume takes what checkout ordered out of the cart and returns what is
// left. Units added after the order was read survive.
func (s *Service) Consume(ctx context.Context, ownerID string, lines []domcart.ConsumedLine) (*domcart.Cart, error) {
	left, err := s.store.Consume(ctx, ownerID, lines)
	if err != nil {
		return nil, err
	}
	var units int64
	for _, line := range lines {
		units += line.Quantity
	}
	s.publish(ctx, domcart.Event{
		Type:        domcart.EventCheckedOut,
		OwnerID:     ownerID,
		Quantity:    units,
		TotalAmount: left.TotalAmount,
	})
	return left, nil
}

func (s *Service) product(ctx context.Context, id int64) (*domproduct.Product, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.BasePrice.IsNegative() {
		return nil, domcart.ErrInvalidPrice
	}
	return p, nil
}

func checkPurchasable(p *domproduct.Product) error {
	switch {
	case p.State == domproduct.StateRemoved:
		return domproduct.ErrProductNotFound
	case p.State != domproduct.StateActive:
		return domproduct.ErrProductUnavailable
	case p.Stock <= 0:
		return domproduct.ErrOutOfStock
	}
	return nil
}

func (s *Service) checkHint(ownerID string, p *domproduct.Product, hint *decimal.Decimal) {
	if hint == nil || hint.Equal(p.BasePrice) {
		return
	}
	s.log.Debug().
		Str("owner_id", ownerID).
		Int64("product_id", p.ID).
		Str("client_price", hint.String()).
		Str("catalog_price", p.BasePrice.String()).
		Msg("client price differs from catalog")
}

func (s *Service) publish(ctx context.Context, e domcart.Event) {
	e.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, e); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn().Err(err).Str("event", string(e.Type)).Str("owner_id", e.OwnerID).Msg("cart event not published")
	}
}
