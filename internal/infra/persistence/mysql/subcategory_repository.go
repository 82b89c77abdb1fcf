package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domsubcategory "example.com/storefront/internal/domain/subcategory"
)

const subCategoryColumns = `id, category_id, name, slug`

type SubCategoryRepository struct {
	db *sql.DB
}

func NewSubCategoryRepository(db *sql.DB) *SubCategoryRepository {
	return &SubCategoryRepository{db: db}
}

func (r *SubCategoryRepository) Create(ctx context.Context, s *domsubcategory.SubCategory) (*domsubcategory.SubCategory, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO subcategories (category_id, name, slug) VALUES (?, ?, ?)
    `, s.CategoryID, s.Name, s.Slug)
	if err != nil {
		if isDuplicate(err) {
			return nil, domsubcategory.ErrSubCategoryExists
		}
		return nil, err
	}
	s.ID, _ = res.LastInsertId()
	return s, nil
}

func (r *SubCategoryRepository) Update(ctx context.Context, s *domsubcategory.SubCategory) (*domsubcategory.SubCategory, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE subcategories SET category_id = ?, name = ?, slug = ? WHERE id = ?
    `, s.CategoryID, s.Name, s.Slug, s.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, domsubcategory.ErrSubCategoryExists
		}
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err := r.GetByID(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *SubCategoryRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domsubcategory.ErrSubCategoryNotFound
	}
	return nil
}

func (r *SubCategoryRepository) GetByID(ctx context.Context, id int64) (*domsubcategory.SubCategory, error) {
	return r.getOne(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE id = ?`, id)
}

func (r *SubCategoryRepository) GetBySlug(ctx context.Context, slug string) (*domsubcategory.SubCategory, error) {
	return r.getOne(ctx, `SELECT `+subCategoryColumns+` FROM subcategories WHERE slug = ?`, slug)
}

func (r *SubCategoryRepository) List(ctx context.Context, filter domsubcategory.ListFilter) ([]*domsubcategory.SubCategory, error) {
	query := `SELECT ` + subCategoryColumns + ` FROM subcategories`
	var clauses []string
	var args []any
	if filter.CategoryID != nil {
		clauses = append(clauses, "category_id = ?")
		args = append(args, *filter.CategoryID)
	}
	if filter.Search != "" {
		clauses = append(clauses, "name LIKE ?")
		args = append(args, likePattern(filter.Search))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domsubcategory.SubCategory
	for rows.Next() {
		s, err := scanSubCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SubCategoryRepository) getOne(ctx context.Context, query string, arg any) (*domsubcategory.SubCategory, error) {
	s, err := scanSubCategory(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domsubcategory.ErrSubCategoryNotFound
		}
		return nil, err
	}
	return s, nil
}

func scanSubCategory(s scanner) (*domsubcategory.SubCategory, error) {
	var sc domsubcategory.SubCategory
	if err := s.Scan(&sc.ID, &sc.CategoryID, &sc.Name, &sc.Slug); err != nil {
		return nil, err
	}
	return &sc, nil
}
