package user

import (
	"time"

	domcart "example.com/storefront/internal/domain/cart"
)

type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

type Address struct {
	ID          string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Country     string
	City        string
	Zip         string
	Line1       string
	Line2       string
	Description string
}

type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	EmailVerified     bool
	AuthProvider      AuthProvider
	RoleCode          RoleCode
	ShippingAddresses []Address
	Cart              domcart.Cart
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type ListUsersFilter struct {
	RoleCode *RoleCode
}
