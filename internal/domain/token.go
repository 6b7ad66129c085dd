package domain

import "time"

// TokenType distinguishes access tokens from refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPayload is the identity carried by a signed token
type TokenPayload struct {
	SubjectID int64
	Username  string
	TokenType TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenPair is the result of a successful login or refresh
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	Identity     Identity
}
