package product

import "errors"

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrOutOfStock         = errors.New("product out of stock")
	ErrProductUnavailable = errors.New("product is not available for sale")
	ErrInvalidState       = errors.New("invalid product state")
	ErrSlugExists         = errors.New("product slug or sku already exists")
	ErrInvalidTitle       = errors.New("product title is required")
	ErrInvalidPrice       = errors.New("product price must be greater than 0")
	ErrInvalidStock       = errors.New("product stock must be >= 0")
	ErrInvalidCurrency    = errors.New("currency must be a 3-letter ISO code")
)
