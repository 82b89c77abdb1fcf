package brand

import (
	"errors"
	"fmt"
)

var (
	ErrBrandNotFound    = errors.New("brand not found")
	ErrBrandInvalidName = fmt.Errorf("brand name must be %d to %d characters", MinNameLength, MaxNameLength)
	ErrBrandInvalidSlug = errors.New("invalid brand slug")
	ErrBrandExists      = errors.New("brand name or slug already exists")
)
