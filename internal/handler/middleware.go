package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/service"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
	ctxClaims   = "claims"
)

// AuthMiddleware validates the bearer access token and adds the claims to
// the context. Every failure gets the same 401 body.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortUnauthorized(c)
			return
		}

		claims, err := authService.Validate(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(ctxUserID, claims.SubjectID)
		c.Set(ctxUsername, claims.Username)
		c.Set(ctxClaims, claims)

		c.Next()
	}
}

// ClaimsFromContext returns the claims stored by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*domain.TokenPayload, bool) {
	v, exists := c.Get(ctxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*domain.TokenPayload)
	return claims, ok
}

// bearerToken extracts the token from "Bearer <token>"
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
