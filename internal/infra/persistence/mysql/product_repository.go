package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domproduct "example.com/storefront/internal/domain/product"
)

const productColumns = `id, title, slug, sku, description, brand, base_price, currency, stock, category_id, vendor_id, state`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO products (title, slug, sku, description, brand, base_price, currency, stock, category_id, vendor_id, state)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, p.Title, p.Slug, p.SKU, p.Description, p.Brand, p.BasePrice, p.Currency, p.Stock, p.CategoryID, p.VendorID, p.State)
	if err != nil {
		if isDuplicate(err) {
			return nil, domproduct.ErrSlugExists
		}
		return nil, err
	}
	p.ID, _ = res.LastInsertId()
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE products
        SET title = ?, slug = ?, sku = ?, description = ?, brand = ?, base_price = ?,
            currency = ?, stock = ?, category_id = ?, vendor_id = ?, state = ?
        WHERE id = ?
    `, p.Title, p.Slug, p.SKU, p.Description, p.Brand, p.BasePrice, p.Currency, p.Stock, p.CategoryID, p.VendorID, p.State, p.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, domproduct.ErrSlugExists
		}
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		// MySQL reports zero affected rows when nothing changed.
		if _, err := r.GetByID(ctx, p.ID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Delete marks the product removed. The row stays so carts holding it can
// still resolve its price when the line is taken out.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE products SET state = ? WHERE id = ? AND state <> ?
    `, domproduct.StateRemoved, id, domproduct.StateRemoved)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domproduct.ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	clauses := []string{"state <> ?"}
	args := []any{domproduct.StateRemoved}

	if filter.CategoryID != nil {
		clauses = append(clauses, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.VendorID != nil {
		clauses = append(clauses, "vendor_id = ?")
		args = append(args, *filter.VendorID)
	}
	if filter.Search != "" {
		clauses = append(clauses, "title LIKE ?")
		args = append(args, likePattern(filter.Search))
	}
	if filter.OnlyActive {
		clauses = append(clauses, "state = ?")
		args = append(args, domproduct.StateActive)
	}

	query += " WHERE " + strings.Join(clauses, " AND ") + " ORDER BY id DESC"
	return r.query(ctx, query, args...)
}

// GetByIDs includes removed products; carts may still reference them.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	if len(ids) == 0 {
		return []*domproduct.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products
        WHERE id IN (?` + strings.Repeat(",?", len(ids)-1) + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return r.query(ctx, query, args...)
}

func (r *ProductRepository) query(ctx context.Context, query string, args ...any) ([]*domproduct.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*domproduct.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(s scanner) (*domproduct.Product, error) {
	var p domproduct.Product
	var description sql.NullString
	var state string
	if err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.SKU, &description, &p.Brand, &p.BasePrice,
		&p.Currency, &p.Stock, &p.CategoryID, &p.VendorID, &state); err != nil {
		return nil, err
	}
	p.Description = description.String
	p.State = domproduct.State(state)
	return &p, nil
}
