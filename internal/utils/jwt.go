package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prperemyshlev/user-service/internal/domain"
)

// ErrWrongTokenType is returned when a token is presented where the other type is required
var ErrWrongTokenType = errors.New("wrong token type")

// TokenClaims is the JWT body issued by JWTManager
type TokenClaims struct {
	Username string           `json:"username"`
	Type     domain.TokenType `json:"type"`
	jwt.RegisteredClaims
}

// JWTManager manages JWT token operations
type JWTManager struct {
	secret             []byte
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
	now                func() time.Time
}

// NewJWTManager creates a new JWT manager
func NewJWTManager(secret string, accessTokenExpiry, refreshTokenExpiry time.Duration) *JWTManager {
	return &JWTManager{
		secret:             []byte(secret),
		accessTokenExpiry:  accessTokenExpiry,
		refreshTokenExpiry: refreshTokenExpiry,
		now:                time.Now,
	}
}

// WithClock replaces the time source, used by tests
func (j *JWTManager) WithClock(now func() time.Time) *JWTManager {
	j.now = now
	return j
}

// Expiry returns the configured lifetime for a token type
func (j *JWTManager) Expiry(tokenType domain.TokenType) time.Duration {
	if tokenType == domain.TokenTypeRefresh {
		return j.refreshTokenExpiry
	}
	return j.accessTokenExpiry
}

// Generate signs a token of the given type for the identity
func (j *JWTManager) Generate(identity domain.Identity, tokenType domain.TokenType) (string, error) {
	return j.Sign(domain.TokenPayload{
		SubjectID: identity.ID,
		Username:  identity.Username,
		TokenType: tokenType,
	}, j.Expiry(tokenType))
}

// Sign signs the payload with the given lifetime. IssuedAt and ExpiresAt of
// the payload are overwritten from the manager's clock.
func (j *JWTManager) Sign(payload domain.TokenPayload, expiry time.Duration) (string, error) {
	now := j.now()

	claims := TokenClaims{
		Username: payload.Username,
		Type:     payload.TokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(payload.SubjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", payload.TokenType, err)
	}

	return tokenString, nil
}

// Parse verifies signature and expiry and returns the payload.
// Type checking is left to ParseAs.
func (j *JWTManager) Parse(tokenString string) (*domain.TokenPayload, error) {
	claims := &TokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	subjectID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid subject in token: %w", err)
	}

	if claims.Type != domain.TokenTypeAccess && claims.Type != domain.TokenTypeRefresh {
		return nil, fmt.Errorf("invalid type in token: %q", claims.Type)
	}

	payload := &domain.TokenPayload{
		SubjectID: subjectID,
		Username:  claims.Username,
		TokenType: claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}

	return payload, nil
}

// ParseAs is Parse plus a check that the token has the expected type
func (j *JWTManager) ParseAs(tokenString string, expected domain.TokenType) (*domain.TokenPayload, error) {
	payload, err := j.Parse(tokenString)
	if err != nil {
		return nil, err
	}

	if payload.TokenType != expected {
		return nil, fmt.Errorf("%w: want %s, got %s", ErrWrongTokenType, expected, payload.TokenType)
	}

	return payload, nil
}
