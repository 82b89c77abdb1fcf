package mysql

import (
	"context"
	"database/sql"
	"errors"

	domvendor "example.com/storefront/internal/domain/vendor"
)

const vendorColumns = `id, name, slug, description, website,
    contact_person, contact_email, contact_phone,
    country, state, address, postal_code`

type VendorRepository struct {
	db *sql.DB
}

func NewVendorRepository(db *sql.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) Create(ctx context.Context, v *domvendor.Vendor) (*domvendor.Vendor, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO vendors (name, slug, description, website,
            contact_person, contact_email, contact_phone,
            country, state, address, postal_code)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, vendorArgs(v)...)
	if err != nil {
		if isDuplicate(err) {
			return nil, domvendor.ErrVendorSlugExists
		}
		return nil, err
	}
	v.ID, _ = res.LastInsertId()
	return v, nil
}

func (r *VendorRepository) Update(ctx context.Context, v *domvendor.Vendor) (*domvendor.Vendor, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE vendors
        SET name = ?, slug = ?, description = ?, website = ?,
            contact_person = ?, contact_email = ?, contact_phone = ?,
            country = ?, state = ?, address = ?, postal_code = ?
        WHERE id = ?
    `, append(vendorArgs(v), v.ID)...)
	if err != nil {
		if isDuplicate(err) {
			return nil, domvendor.ErrVendorSlugExists
		}
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err := r.GetByID(ctx, v.ID); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// Delete leaves the vendor's products in place; they read as sold by the
// store until reassigned.
func (r *VendorRepository) Delete(ctx context.Context, id int64) (retErr error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM vendors WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domvendor.ErrVendorNotFound
	}
	if _, err := tx.ExecContext(ctx, `UPDATE products SET vendor_id = 0 WHERE vendor_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *VendorRepository) GetByID(ctx context.Context, id int64) (*domvendor.Vendor, error) {
	return r.getOne(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE id = ?`, id)
}

func (r *VendorRepository) GetBySlug(ctx context.Context, slug string) (*domvendor.Vendor, error) {
	return r.getOne(ctx, `SELECT `+vendorColumns+` FROM vendors WHERE slug = ?`, slug)
}

func (r *VendorRepository) List(ctx context.Context, filter domvendor.ListFilter) ([]*domvendor.Vendor, error) {
	query := `SELECT ` + vendorColumns + ` FROM vendors`
	var args []any
	if filter.Search != "" {
		query += ` WHERE name LIKE ? OR description LIKE ?`
		args = append(args, likePattern(filter.Search), likePattern(filter.Search))
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vendors []*domvendor.Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, err
		}
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

func (r *VendorRepository) getOne(ctx context.Context, query string, arg any) (*domvendor.Vendor, error) {
	v, err := scanVendor(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domvendor.ErrVendorNotFound
		}
		return nil, err
	}
	return v, nil
}

func vendorArgs(v *domvendor.Vendor) []any {
	return []any{
		v.Name, v.Slug, v.Description, v.Website,
		v.Contact.Person, v.Contact.Email, v.Contact.Phone,
		v.Location.Country, v.Location.State, v.Location.Address, v.Location.PostalCode,
	}
}

func scanVendor(s scanner) (*domvendor.Vendor, error) {
	var v domvendor.Vendor
	var description sql.NullString
	if err := s.Scan(&v.ID, &v.Name, &v.Slug, &description, &v.Website,
		&v.Contact.Person, &v.Contact.Email, &v.Contact.Phone,
		&v.Location.Country, &v.Location.State, &v.Location.Address, &v.Location.PostalCode); err != nil {
		return nil, err
	}
	v.Description = description.String
	return &v, nil
}
