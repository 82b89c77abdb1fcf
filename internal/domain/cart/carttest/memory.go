// Package carttest provides an in-memory cart store and a property table that
// every cart store implementation must satisfy.
package carttest

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
)

// MemoryStore applies the domain ledger under a mutex, the way the document
// store applies each mutation as one atomic update. Setting WriteErr makes
// every mutation fail with a storage error.
type MemoryStore struct {
	mu       sync.Mutex
	carts    map[string]*domcart.Cart
	WriteErr error
}

var _ domcart.Store = (*MemoryStore)(nil)

func NewMemoryStore(owners ...string) *MemoryStore {
	s := &MemoryStore{carts: make(map[string]*domcart.Cart)}
	for _, o := range owners {
		s.carts[o] = domcart.New(o)
	}
	return s
}

func (s *MemoryStore) cart(ownerID string) (*domcart.Cart, error) {
	c, ok := s.carts[ownerID]
	if !ok {
		return nil, domcart.ErrCartNotFound
	}
	return c, nil
}

func (s *MemoryStore) writable(op, ownerID string) (*domcart.Cart, error) {
	if s.WriteErr != nil {
		return nil, domcart.NewStorageError(op, s.WriteErr)
	}
	return s.cart(ownerID)
}

func (s *MemoryStore) Get(ctx context.Context, ownerID string) (*domcart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.cart(ownerID)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

func (s *MemoryStore) AddLineItem(ctx context.Context, ownerID string, productID, quantity int64, unitPrice decimal.Decimal) (domcart.AddResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.writable("add line item", ownerID)
	if err != nil {
		return domcart.AddResult{}, err
	}
	return c.Add(productID, quantity, unitPrice)
}

func (s *MemoryStore) RemoveLineItem(ctx context.Context, ownerID string, productID int64, unitPrice decimal.Decimal) (domcart.RemoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.writable("remove line item", ownerID)
	if err != nil {
		return domcart.RemoveResult{}, err
	}
	return c.Remove(productID, unitPrice)
}

func (s *MemoryStore) AdjustQuantity(ctx context.Context, ownerID string, productID, newQuantity int64, unitPrice decimal.Decimal) (domcart.AdjustResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.writable("adjust quantity", ownerID)
	if err != nil {
		return domcart.AdjustResult{}, err
	}
	return c.Adjust(productID, newQuantity, unitPrice)
}

func (s *MemoryStore) Consume(ctx context.Context, ownerID string, lines []domcart.ConsumedLine) (*domcart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.writable("consume", ownerID)
	if err != nil {
		return nil, err
	}
	c.Consume(lines)
	return c.Clone(), nil
}
