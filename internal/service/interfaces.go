package service

import (
	"context"
	"time"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/filter"
)

// AuthService defines methods for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*domain.TokenPair, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Validate(ctx context.Context, accessToken string) (*domain.TokenPayload, error)
}

// UserService defines methods for user management
type UserService interface {
	List(ctx context.Context, sort domain.Sort) ([]domain.User, error)
	ListPage(ctx context.Context, page domain.Page) (*dto.PaginatedUsersResponse, error)
	Search(ctx context.Context, term string) ([]domain.User, error)
	Get(ctx context.Context, id int64) (*domain.User, error)
	Create(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error)
	UpdateStatus(ctx context.Context, id int64, active bool) (*dto.UpdateStatusResponse, error)
	Filter(ctx context.Context, clauses []filter.Clause) ([]domain.User, error)
	FilterOptions() dto.FilterOptionsResponse
	Export(ctx context.Context, sort domain.Sort) ([]byte, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenManager signs and verifies tokens
type TokenManager interface {
	Generate(identity domain.Identity, tokenType domain.TokenType) (string, error)
	ParseAs(token string, expected domain.TokenType) (*domain.TokenPayload, error)
	Expiry(tokenType domain.TokenType) time.Duration
}

// StatusPublisher delivers user status change events
type StatusPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.StatusChangedEvent) error
}
