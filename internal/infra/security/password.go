package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	domuser "example.com/storefront/internal/domain/user"
)

// DefaultPasswordCost is the work factor for new account passwords.
const DefaultPasswordCost = 12

type BcryptService struct {
	cost int
}

func NewBcryptService(cost int) *BcryptService {
	if cost < bcrypt.MinCost {
		cost = DefaultPasswordCost
	}
	return &BcryptService{cost: cost}
}

func (s *BcryptService) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare returns domuser.ErrUnauthorized when password does not match hash.
func (s *BcryptService) Compare(hash string, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domuser.ErrUnauthorized
	}
	return err
}
