package repository

import "errors"

// Common repository errors
var (
	// ErrNotFound is returned when a record is not found
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when trying to create a user with an existing username
	ErrDuplicateUsername = errors.New("user with this username already exists")
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations
const uniqueViolation = "23505"
