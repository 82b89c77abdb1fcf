package department

import "errors"

var (
	ErrDepartmentNotFound    = errors.New("department not found")
	ErrDepartmentInvalidName = errors.New("department name is required")
	ErrDepartmentInvalidSlug = errors.New("invalid department slug")
	ErrDepartmentSlugExists  = errors.New("department slug already exists")
)
