package identity

import "errors"

var (
	// ErrUserNotFound is returned when a user lookup matches no record.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned when registration collides with an existing
	// email. The uniqueness check is enforced by the storage layer, so two
	// concurrent registrations with the same normalized email produce exactly
	// one success and one ErrEmailExists.
	ErrEmailExists = errors.New("email already registered")

	// ErrInvalidCredentials is returned on login failure. It is deliberately
	// identical for an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers malformed tokens and bad signatures.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for a well-signed token past its expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrInvalidPromotion is returned when a role transition would demote
	// a user or target an unknown role. Role transitions are one-way.
	ErrInvalidPromotion = errors.New("invalid role transition")
)
