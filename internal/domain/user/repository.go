package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, filter ListUsersFilter) ([]*User, error)
	UpdateRole(ctx context.Context, id string, role RoleCode) (*User, error)
	MarkEmailVerified(ctx context.Context, email string) error
	AddShippingAddress(ctx context.Context, id string, addr Address) (*User, error)
	Delete(ctx context.Context, id string) error
}
