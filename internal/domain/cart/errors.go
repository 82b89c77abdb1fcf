package cart

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every input error of the cart.
var ErrValidation = errors.New("invalid cart input")

var (
	ErrInvalidProduct   = fmt.Errorf("%w: product reference is required", ErrValidation)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be positive", ErrValidation)
	ErrNegativeQuantity = fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	ErrInvalidPrice     = fmt.Errorf("%w: unit price cannot be negative", ErrValidation)
	ErrQuantityLimit    = fmt.Errorf("%w: line quantity cannot exceed %d", ErrValidation, MaxLineQuantity)

	ErrLineItemNotFound = errors.New("cart line item not found")
	ErrCartNotFound     = errors.New("cart not found")
)

// StorageError reports a cart write or read that failed or could not be
// confirmed. The cart is unchanged when it is returned from a mutation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cart storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
