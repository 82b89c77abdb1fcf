package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
	domorder "example.com/storefront/internal/domain/order"
	domproduct "example.com/storefront/internal/domain/product"
)

const orderColumns = `id, user_id, status, payment_method, payment_session_id, currency, total_amount, created_at`

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateFromCart locks every product row, snapshots its current price,
// decrements stock and writes the order in one transaction. Lines with a
// zero quantity are skipped.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID string, items []domcart.LineItem, payment domorder.PaymentMethod) (_ *domorder.Order, retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	total := decimal.Zero
	currency := ""
	orderItems := make([]domorder.OrderItem, 0, len(items))

	for _, item := range items {
		if item.Quantity == 0 {
			continue
		}

		var (
			title    string
			price    decimal.Decimal
			itemCurr string
			stock    int64
			state    string
		)
		row := tx.QueryRowContext(ctx, `
            SELECT title, base_price, currency, stock, state
            FROM products
            WHERE id = ?
            FOR UPDATE
        `, item.ProductID)
		if err = row.Scan(&title, &price, &itemCurr, &stock, &state); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%w: product %d no longer exists", domorder.ErrCheckoutValidation, item.ProductID)
			}
			return nil, err
		}

		if domproduct.State(state) != domproduct.StateActive {
			return nil, fmt.Errorf("%w: product %d is %s", domorder.ErrCheckoutValidation, item.ProductID, state)
		}
		if stock < item.Quantity {
			return nil, fmt.Errorf("%w: product %d has %d in stock", domorder.ErrCheckoutValidation, item.ProductID, stock)
		}
		if currency == "" {
			currency = itemCurr
		} else if currency != itemCurr {
			return nil, domorder.ErrMixedCurrency
		}

		total = total.Add(domcart.LineAmount(item.Quantity, price))
		orderItems = append(orderItems, domorder.OrderItem{
			ProductID: item.ProductID,
			Name:      title,
			Price:     price,
			Quantity:  item.Quantity,
		})
	}

	if len(orderItems) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	res, err := tx.ExecContext(ctx, `
        INSERT INTO orders (user_id, status, payment_method, currency, total_amount)
        VALUES (?, ?, ?, ?, ?)
    `, userID, domorder.StatusPending, payment, currency, total)
	if err != nil {
		return nil, err
	}
	orderID, _ := res.LastInsertId()

	for _, item := range orderItems {
		_, err = tx.ExecContext(ctx, `
            INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
            VALUES (?, ?, ?, ?, ?)
        `, orderID, item.ProductID, item.Name, item.Price, item.Quantity)
		if err != nil {
			return nil, err
		}
		_, err = tx.ExecContext(ctx, `
            UPDATE products SET stock = stock - ?
            WHERE id = ?
        `, item.Quantity, item.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, orderID)
}

func (r *OrderRepository) AttachPaymentSession(ctx context.Context, id int64, sessionID string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders SET payment_session_id = ? WHERE id = ?
    `, sessionID, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domorder.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domorder.Order, error) {
	return r.listOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY id DESC`, userID)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domorder.Order, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)

	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domorder.ErrOrderNotFound
		}
		return nil, err
	}
	items, err := r.listOrderItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status domorder.Status) (*domorder.Order, error) {
	if _, err := r.db.ExecContext(ctx, `
        UPDATE orders SET status = ? WHERE id = ?
    `, status, id); err != nil {
		return nil, err
	}
	// GetByID reports a missing order; an unchanged status affects zero rows.
	return r.GetByID(ctx, id)
}

// HasPurchased reports whether userID has a paid or shipped order that
// contains productID.
func (r *OrderRepository) HasPurchased(ctx context.Context, userID string, productID int64) (bool, error) {
	var found bool
	err := r.db.QueryRowContext(ctx, `
        SELECT EXISTS (
            SELECT 1 FROM orders o
            JOIN order_items i ON i.order_id = o.id
            WHERE o.user_id = ? AND i.product_id = ? AND o.status IN (?, ?)
        )
    `, userID, productID, domorder.StatusPaid, domorder.StatusShipped).Scan(&found)
	return found, err
}

func (r *OrderRepository) listOrders(ctx context.Context, query string, args ...any) ([]*domorder.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domorder.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		items, err := r.listOrderItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return orders, nil
}

func (r *OrderRepository) listOrderItems(ctx context.Context, orderID int64) ([]domorder.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, order_id, product_id, product_name, unit_price, quantity
        FROM order_items WHERE order_id = ?
    `, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domorder.OrderItem
	for rows.Next() {
		var item domorder.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrder(s scanner) (*domorder.Order, error) {
	var o domorder.Order
	var status, payment string
	if err := s.Scan(&o.ID, &o.UserID, &status, &payment, &o.PaymentSessionID, &o.Currency, &o.TotalAmount, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Status = domorder.Status(status)
	o.PaymentMethod = domorder.PaymentMethod(payment)
	return &o, nil
}
