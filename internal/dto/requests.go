package dto

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"required,phone"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries the refresh token in the body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,username"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"required,phone"`
	IsActive *bool  `json:"isActive"`
}

// UpdateStatusRequest is the body of PATCH /users/:id/status
type UpdateStatusRequest struct {
	Status *bool `json:"status" binding:"required"`
}

// FilterClause is a single filter entry as sent by the dashboard
type FilterClause struct {
	Field        string  `json:"field" binding:"required,filterfield"`
	Operator     string  `json:"operator" binding:"required,filteroperator"`
	Value        *string `json:"value,omitempty"`
	DateValue    *string `json:"dateValue,omitempty"`
	BooleanValue *bool   `json:"booleanValue,omitempty"`
}

// FilterRequest is the body of POST /users/filter
type FilterRequest struct {
	Filters []FilterClause `json:"filters" binding:"dive"`
}

// ListQuery binds the sort parameters of GET /users and GET /users/export
type ListQuery struct {
	OrderBy string `form:"orderBy" binding:"omitempty,sortfield"`
	Order   string `form:"order" binding:"omitempty,oneof=ASC DESC asc desc"`
}

// PageQuery binds GET /users/list
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1,max=1000000"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SearchQuery binds GET /users/search
type SearchQuery struct {
	SearchTerm string `form:"searchTerm"`
}
