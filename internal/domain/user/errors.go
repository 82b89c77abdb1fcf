package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrCannotAssignRole       = errors.New("cannot assign role")
	ErrEmailAlreadyUsed       = errors.New("email already used")
	ErrUnauthorized           = errors.New("unauthorized")
	ErrInvalidCredential      = errors.New("invalid credential")
	ErrEmailNotVerified       = errors.New("email address has not been verified")
	ErrWrongAuthProvider      = errors.New("email is registered with another sign-in provider")
	ErrInvalidVerification    = errors.New("invalid or expired verification token")
	ErrAdminCannotChangeAdmin = errors.New("admin cannot change another admin")
	ErrInvalidAddress         = errors.New("shipping address is incomplete")
)
