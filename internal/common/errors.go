// Package common defines shared constants and sentinel errors used across
// gophauth components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound               = errors.New("not found")
	ErrorAlreadyExists          = errors.New("already exists")
	ErrVerificationCodeConflict = errors.New("verification code conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrEmailNotVerified = errors.New("email is not verified")

	// Credential errors.
	ErrEmptyPassword = errors.New("password cannot be empty")
	ErrInvalidHash   = errors.New("invalid password hash")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
