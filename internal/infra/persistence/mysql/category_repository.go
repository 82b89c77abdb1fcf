package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domcategory "example.com/storefront/internal/domain/category"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO categories (department, name, slug, description, is_active)
        VALUES (?, ?, ?, ?, ?)
    `, c.Department, c.Name, c.Slug, c.Description, c.IsActive)
	if err != nil {
		if isDuplicate(err) {
			return nil, domcategory.ErrCategorySlugExists
		}
		return nil, err
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *domcategory.Category) (*domcategory.Category, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE categories SET department = ?, name = ?, slug = ?, description = ?, is_active = ?
        WHERE id = ?
    `, c.Department, c.Name, c.Slug, c.Description, c.IsActive, c.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, domcategory.ErrCategorySlugExists
		}
		return nil, err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		if _, err := r.GetByID(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return domcategory.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*domcategory.Category, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, department, name, slug, description, is_active
        FROM categories
        WHERE id = ?
    `, id)

	c, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domcategory.ErrCategoryNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepository) List(ctx context.Context, filter domcategory.ListFilter) ([]*domcategory.Category, error) {
	query := `SELECT id, department, name, slug, description, is_active FROM categories`
	var clauses []string
	var args []any
	if filter.Department != "" {
		clauses = append(clauses, "department = ?")
		args = append(args, filter.Department)
	}
	if filter.OnlyActive {
		clauses = append(clauses, "is_active = 1")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domcategory.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func scanCategory(s scanner) (*domcategory.Category, error) {
	var c domcategory.Category
	var description sql.NullString
	if err := s.Scan(&c.ID, &c.Department, &c.Name, &c.Slug, &description, &c.IsActive); err != nil {
		return nil, err
	}
	c.Description = description.String
	return &c, nil
}
