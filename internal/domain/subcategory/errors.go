package subcategory

import "errors"

var (
	ErrSubCategoryNotFound    = errors.New("sub-category not found")
	ErrSubCategoryInvalidName = errors.New("sub-category name must be 3 to 70 characters")
	ErrSubCategoryInvalidSlug = errors.New("invalid sub-category slug")
	ErrSubCategoryExists      = errors.New("sub-category name or slug already exists")
)
