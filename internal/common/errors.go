package common

import "errors"

var (
	// ErrInvalidToken is returned when a stored token cannot be interpreted.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned when a stored token is past its expiry.
	ErrTokenExpired = errors.New("token expired")
)
