package mysql

import (
	"context"
	"database/sql"
	"errors"

	domdepartment "example.com/storefront/internal/domain/department"
)

const departmentColumns = `id, name, slug, description, banner_url`

type DepartmentRepository struct {
	db *sql.DB
}

func NewDepartmentRepository(db *sql.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, d *domdepartment.Department) (*domdepartment.Department, error) {
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO departments (name, slug, description, banner_url)
        VALUES (?, ?, ?, ?)
    `, d.Name, d.Slug, d.Description, d.BannerURL)
	if err != nil {
		if isDuplicate(err) {
			return nil, domdepartment.ErrDepartmentSlugExists
		}
		return nil, err
	}
	d.ID, _ = res.LastInsertId()
	return d, nil
}

func (r *DepartmentRepository) Update(ctx context.Context, d *domdepartment.Department) (*domdepartment.Department, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE departments SET name = ?, slug = ?, description = ?, banner_url = ?
        WHERE id = ?
    `, d.Name, d.Slug, d.Description, d.BannerURL, d.ID)
	if err != nil {
		if isDuplicate(err) {
			return nil, domdepartment.ErrDepartmentSlugExists
		}
		return nil, err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		if _, err := r.GetByID(ctx, d.ID); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return domdepartment.ErrDepartmentNotFound
	}
	return nil
}

func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*domdepartment.Department, error) {
	return r.getOne(ctx, `SELECT `+departmentColumns+` FROM departments WHERE id = ?`, id)
}

func (r *DepartmentRepository) GetBySlug(ctx context.Context, slug string) (*domdepartment.Department, error) {
	return r.getOne(ctx, `SELECT `+departmentColumns+` FROM departments WHERE slug = ?`, slug)
}

func (r *DepartmentRepository) List(ctx context.Context) ([]*domdepartment.Department, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+departmentColumns+` FROM departments ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*domdepartment.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) getOne(ctx context.Context, query string, arg any) (*domdepartment.Department, error) {
	d, err := scanDepartment(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domdepartment.ErrDepartmentNotFound
		}
		return nil, err
	}
	return d, nil
}

func scanDepartment(s scanner) (*domdepartment.Department, error) {
	var d domdepartment.Department
	var description sql.NullString
	if err := s.Scan(&d.ID, &d.Name, &d.Slug, &description, &d.BannerURL); err != nil {
		return nil, err
	}
	d.Description = description.String
	return &d, nil
}
