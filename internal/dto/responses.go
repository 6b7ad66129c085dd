package dto

import "github.com/prperemyshlev/user-service/internal/domain"

// AuthResponse represents an authentication response
type AuthResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int      `json:"expires_in"`
	User         UserInfo `json:"user"`
}

// UserInfo represents the authenticated principal in responses
type UserInfo struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// NewUserInfo converts an identity for output
func NewUserInfo(identity domain.Identity) UserInfo {
	return UserInfo{
		ID:       identity.ID,
		Username: identity.Username,
		Name:     identity.Name,
		IsActive: identity.IsActive,
	}
}

// ValidateResponse is returned by GET /auth/validate
type ValidateResponse struct {
	Valid bool `json:"valid"`
}

// ClaimsResponse is returned by GET /auth/me
type ClaimsResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	ExpiresAt string `json:"expiresAt"`
}

// PaginatedUsersResponse is returned by GET /users/list
type PaginatedUsersResponse struct {
	Data       []domain.User `json:"data"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"totalPages"`
}

// StatusEventResponse describes the outcome of publishing a status change
type StatusEventResponse struct {
	Message domain.StatusChangedEvent `json:"message"`
	Status  string                    `json:"status"`
	Details string                    `json:"details,omitempty"`
}

// UpdateStatusResponse is returned by PATCH /users/:id/status
type UpdateStatusResponse struct {
	User  domain.User         `json:"user"`
	Event StatusEventResponse `json:"event"`
}

// FilterFieldOption lists the operators the UI may offer for a field
type FilterFieldOption struct {
	Field     string   `json:"field"`
	Kind      string   `json:"kind"`
	Operators []string `json:"operators"`
}

// FilterOptionsResponse is returned by GET /users/filter/options
type FilterOptionsResponse struct {
	Fields []FilterFieldOption `json:"fields"`
	Join   string              `json:"joinOperator"`
}

// SuccessResponse represents a success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string      `json:"error"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}
