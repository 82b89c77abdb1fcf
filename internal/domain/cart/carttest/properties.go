package carttest

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcart "example.com/storefront/internal/domain/cart"
)

// NewStoreFunc returns a store holding an empty cart for the returned owner.
type NewStoreFunc func(t *testing.T) (domcart.Store, string)

var (
	five       = decimal.RequireFromString("5.00")
	ten        = decimal.RequireFromString("10.00")
	twentyFive = decimal.RequireFromString("25.00")
)

// RunLedgerProperties checks the ledger rules every cart store shares.
func RunLedgerProperties(t *testing.T, newStore NewStoreFunc) {
	t.Run("add merges into one line", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()

		first, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)
		require.Equal(t, domcart.StatusNew, first.Status)

		second, err := store.AddLineItem(ctx, owner, 1, 3, ten)
		require.NoError(t, err)
		require.Equal(t, domcart.StatusDuplicated, second.Status)
		require.Equal(t, int64(5), second.Quantity)
		require.Equal(t, "50.00", second.TotalAmount.StringFixed(2))

		requireCart(t, store, owner, []domcart.LineItem{{ProductID: 1, Quantity: 5}}, "50.00")
	})

	t.Run("remove after a price rise empties the total", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)

		res, err := store.RemoveLineItem(ctx, owner, 1, twentyFive)
		require.NoError(t, err)
		require.Equal(t, int64(2), res.RemovedQuantity)
		require.True(t, res.TotalAmount.IsZero(), res.TotalAmount.String())

		requireCart(t, store, owner, nil, "0.00")
	})

	t.Run("remove never drives the total below zero", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)
		_, err = store.AddLineItem(ctx, owner, 2, 1, five)
		require.NoError(t, err)

		res, err := store.RemoveLineItem(ctx, owner, 1, twentyFive)
		require.NoError(t, err)
		require.Equal(t, 0, res.Index)
		require.Equal(t, "0.00", res.TotalAmount.StringFixed(2))

		requireCart(t, store, owner, []domcart.LineItem{{ProductID: 2, Quantity: 1}}, "0.00")
	})

	t.Run("adjust to zero units leaves a zero total", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)

		res, err := store.AdjustQuantity(ctx, owner, 1, 0, twentyFive)
		require.NoError(t, err)
		require.Equal(t, int64(0), res.Quantity)
		require.True(t, res.TotalAmount.IsZero())

		requireCart(t, store, owner, []domcart.LineItem{{ProductID: 1, Quantity: 0}}, "0.00")
	})

	t.Run("line quantity is capped", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, domcart.MaxLineQuantity, decimal.RequireFromString("0.01"))
		require.NoError(t, err)

		_, err = store.AddLineItem(ctx, owner, 1, 1, decimal.RequireFromString("0.01"))
		require.ErrorIs(t, err, domcart.ErrQuantityLimit)
		require.ErrorIs(t, err, domcart.ErrValidation)

		_, err = store.AdjustQuantity(ctx, owner, 1, domcart.MaxLineQuantity+1, decimal.RequireFromString("0.01"))
		require.ErrorIs(t, err, domcart.ErrQuantityLimit)

		requireCart(t, store, owner, []domcart.LineItem{{ProductID: 1, Quantity: domcart.MaxLineQuantity}}, "100.00")
	})

	t.Run("missing line is not found and changes nothing", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)

		_, err = store.RemoveLineItem(ctx, owner, 2, ten)
		require.ErrorIs(t, err, domcart.ErrLineItemNotFound)
		_, err = store.AdjustQuantity(ctx, owner, 2, 4, ten)
		require.ErrorIs(t, err, domcart.ErrLineItemNotFound)

		requireCart(t, store, owner, []domcart.LineItem{{ProductID: 1, Quantity: 2}}, "20.00")
	})

	t.Run("consume keeps units added after the order was read", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)
		ordered, err := store.Get(ctx, owner)
		require.NoError(t, err)

		// Another request lands between checkout's read and its cleanup.
		_, err = store.AddLineItem(ctx, owner, 1, 1, ten)
		require.NoError(t, err)
		_, err = store.AddLineItem(ctx, owner, 2, 1, five)
		require.NoError(t, err)

		lines := make([]domcart.ConsumedLine, 0, len(ordered.LineItems))
		for _, item := range ordered.LineItems {
			lines = append(lines, domcart.ConsumedLine{ProductID: item.ProductID, Quantity: item.Quantity, UnitPrice: ten})
		}
		left, err := store.Consume(ctx, owner, lines)
		require.NoError(t, err)
		require.Equal(t, []domcart.LineItem{{ProductID: 1, Quantity: 1}, {ProductID: 2, Quantity: 1}}, left.LineItems)
		require.Equal(t, "15.00", left.TotalAmount.StringFixed(2))

		left, err = store.Consume(ctx, owner, []domcart.ConsumedLine{
			{ProductID: 1, Quantity: 1, UnitPrice: ten},
			{ProductID: 2, Quantity: 1, UnitPrice: five},
			{ProductID: 9, Quantity: 1, UnitPrice: ten},
		})
		require.NoError(t, err)
		require.True(t, left.IsEmpty())
		require.True(t, left.TotalAmount.IsZero())
	})

	t.Run("consume drops zero quantity lines", func(t *testing.T) {
		store, owner := newStore(t)
		ctx := context.Background()
		_, err := store.AddLineItem(ctx, owner, 1, 2, ten)
		require.NoError(t, err)
		_, err = store.AddLineItem(ctx, owner, 2, 1, five)
		require.NoError(t, err)
		_, err = store.AdjustQuantity(ctx, owner, 2, 0, five)
		require.NoError(t, err)

		left, err := store.Consume(ctx, owner, []domcart.ConsumedLine{
			{ProductID: 1, Quantity: 2, UnitPrice: ten},
			{ProductID: 2, Quantity: 0, UnitPrice: five},
		})
		require.NoError(t, err)
		require.True(t, left.IsEmpty())
		require.True(t, left.TotalAmount.IsZero())
	})
}

func requireCart(t *testing.T, store domcart.Store, owner string, want []domcart.LineItem, total string) {
	t.Helper()
	c, err := store.Get(context.Background(), owner)
	require.NoError(t, err)
	if len(want) == 0 {
		require.Empty(t, c.LineItems)
	} else {
		require.Equal(t, want, c.LineItems)
	}
	require.Equal(t, total, c.TotalAmount.StringFixed(2))
	require.False(t, c.TotalAmount.IsNegative())
}
