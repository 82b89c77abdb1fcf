package mysql

import (
	"context"
	"database/sql"
	"errors"

	dombrand "example.com/storefront/internal/domain/brand"
)

const brandColumns = `id, name, slug, logo_url`

type BrandRepository struct {
	db *sql.DB
}

func NewBrandRepository(db *sql.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Create(ctx context.Context, b *dombrand.Brand) (*dombrand.Brand, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO brands (name, slug, logo_url) VALUES (?, ?, ?)
    `, b.Name, b.Slug, b.LogoURL)
	if err != nil {
		if isDuplicate(err) {
			return nil, dombrand.ErrBrandExists
		}
		return nil, err
	}
	b.ID, _ = res.LastInsertId()
	return b, nil
}

func (r *BrandRepository) Update(ctx context.Context, b *dombrand.Brand) (*dombrand.Brand, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE brands SET name = ?, slug = ?, logo_url = ? WHERE id = ?
    `, b.Name, b.Slug, b.LogoURL, b.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, dombrand.ErrBrandExists
		}
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (r *BrandRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM brands WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return dombrand.ErrBrandNotFound
	}
	return nil
}

func (r *BrandRepository) GetByID(ctx context.Context, id int64) (*dombrand.Brand, error) {
	return r.getOne(ctx, `SELECT `+brandColumns+` FROM brands WHERE id = ?`, id)
}

func (r *BrandRepository) GetBySlug(ctx context.Context, slug string) (*dombrand.Brand, error) {
	return r.getOne(ctx, `SELECT `+brandColumns+` FROM brands WHERE slug = ?`, slug)
}

func (r *BrandRepository) List(ctx context.Context, filter dombrand.ListFilter) ([]*dombrand.Brand, error) {
	query := `SELECT ` + brandColumns + ` FROM brands`
	var args []any
	if filter.Search != "" {
		query += ` WHERE name LIKE ?`
		args = append(args, likePattern(filter.Search))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var brands []*dombrand.Brand
	for rows.Next() {
		var b dombrand.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL); err != nil {
			return nil, err
		}
		brands = append(brands, &b)
	}
	return brands, rows.Err()
}

func (r *BrandRepository) getOne(ctx context.Context, query string, arg any) (*dombrand.Brand, error) {
	var b dombrand.Brand
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&b.ID, &b.Name, &b.Slug, &b.LogoURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, dombrand.ErrBrandNotFound
		}
		return nil, err
	}
	return &b, nil
}
