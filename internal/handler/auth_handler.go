package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
	expiresIn   int
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler. accessTokenExpiry is reported
// to clients as expires_in.
func NewAuthHandler(authService service.AuthService, accessTokenExpiry time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		expiresIn:   int(accessTokenExpiry.Seconds()),
		logger:      logger,
	}
}

func (h *AuthHandler) authResponse(pair *domain.TokenPair) dto.AuthResponse {
	return dto.AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    h.expiresIn,
		User:         dto.NewUserInfo(pair.Identity),
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create an active user and return a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration request"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	pair, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, h.authResponse(pair))
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with username and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.authResponse(pair))
}

// Refresh handles token refresh
// @Summary Refresh tokens
// @Description Exchange a refresh token for a new token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh request"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, err)
		return
	}

	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, h.authResponse(pair))
}

// Validate reports that the bearer token passed AuthMiddleware
// @Summary Validate access token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ValidateResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/validate [get]
func (h *AuthHandler) Validate(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ValidateResponse{Valid: true})
}

// GetMe returns the identity claims of the bearer
// @Summary Get current identity
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.ClaimsResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		abortUnauthorized(c)
		return
	}

	c.JSON(http.StatusOK, dto.ClaimsResponse{
		ID:        claims.SubjectID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
