package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/service"
	"go.uber.org/zap"
)

// unauthorizedMessage is the only message an auth failure ever returns
const unauthorizedMessage = "invalid credentials or token"

func isAuthFailure(err error) bool {
	return errors.Is(err, service.ErrInvalidCredentials) ||
		errors.Is(err, service.ErrAccountInactive) ||
		errors.Is(err, service.ErrInvalidToken)
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error:   "Unauthorized",
		Message: unauthorizedMessage,
	})
}

func abortValidation(c *gin.Context, err error) {
	resp := dto.ErrorResponse{
		Error:   "Validation failed",
		Message: "request is invalid",
	}
	if details := validationDetails(err); details != nil {
		resp.Details = details
	} else {
		resp.Message = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// respondError maps service errors to HTTP responses
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch {
	case isAuthFailure(err):
		abortUnauthorized(c)
	case errors.Is(err, service.ErrInvalidInput):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "Validation failed",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrUserNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not found",
			Message: "user not found",
		})
	case errors.Is(err, service.ErrUsernameTaken):
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{
			Error:   "Conflict",
			Message: "username already taken",
		})
	case errors.Is(err, service.ErrFilterCompileFault):
		logger.Error("Filter compile fault", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "filter could not be compiled",
		})
	default:
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "Internal server error",
			Message: "an unexpected error occurred",
		})
	}
}
