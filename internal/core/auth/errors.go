package auth

import "errors"

// Authentication error types.
// 401 for missing/invalid token and bad credentials (doesn't confirm
// account existence).
var (
	ErrMissingToken       = errors.New("authorization token required")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
