package service

import "errors"

// Auth state machine failures. At the HTTP boundary they all collapse into a
// single unauthorized response; the distinction is kept for logs and metrics.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")
)

// User management failures
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidInput       = errors.New("invalid input")
	ErrFilterCompileFault = errors.New("filter could not be compiled")
)

// ErrRateLimitExceeded is matched by RateLimitError
var ErrRateLimitExceeded = errors.New("rate limit exceeded")
