package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/repository"
	"github.com/prperemyshlev/user-service/internal/utils"
	"github.com/prperemyshlev/user-service/pkg/observability"
	"go.uber.org/zap"
)

// authService implements AuthService interface
type authService struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenManager
	logger   *zap.Logger
	metrics  *observability.Instruments
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenManager,
	logger *zap.Logger,
	metrics *observability.Instruments,
) AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		logger:   logger,
		metrics:  metrics,
	}
}

// Register creates an active user and logs it in
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*domain.TokenPair, error) {
	pair, err := s.register(ctx, req)
	s.record(ctx, "register", err)
	return pair, err
}

func (s *authService) register(ctx context.Context, req *dto.RegisterRequest) (*domain.TokenPair, error) {
	username := utils.SanitizeUsername(req.Username)
	if !utils.ValidateUsername(username) {
		return nil, fmt.Errorf("%w: invalid username", ErrInvalidInput)
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, fmt.Errorf("%w: password must be at least %d characters long", ErrInvalidInput, utils.MinPasswordLength)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Phone:        req.Phone,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	return s.issuePair(user.Identity())
}

// Login verifies credentials and issues a token pair
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*domain.TokenPair, error) {
	pair, err := s.login(ctx, utils.SanitizeUsername(req.Username), req.Password)
	s.record(ctx, "login", err)
	if err != nil {
		s.logger.Info("Login rejected", zap.String("username", req.Username), zap.Error(err))
	}
	return pair, err
}

func (s *authService) login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issuePair(user.Identity())
}

// Refresh exchanges a refresh token for a brand-new pair. The subject is
// looked up again so that deactivated accounts cannot keep refreshing.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	pair, err := s.refresh(ctx, refreshToken)
	s.record(ctx, "refresh", err)
	if err != nil {
		s.logger.Info("Refresh rejected", zap.Error(err))
	}
	return pair, err
}

func (s *authService) refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	payload, err := s.tokens.ParseAs(refreshToken, domain.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	user, err := s.userRepo.GetByID(ctx, payload.SubjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %d no longer exists", ErrInvalidToken, payload.SubjectID)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: subject %d is inactive", ErrInvalidToken, payload.SubjectID)
	}

	return s.issuePair(user.Identity())
}

// Validate checks an access token without touching the user store
func (s *authService) Validate(ctx context.Context, accessToken string) (*domain.TokenPayload, error) {
	payload, err := s.tokens.ParseAs(accessToken, domain.TokenTypeAccess)
	if err != nil {
		s.record(ctx, "validate", ErrInvalidToken)
		s.logger.Debug("Access token rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	s.record(ctx, "validate", nil)
	return payload, nil
}

func (s *authService) issuePair(identity domain.Identity) (*domain.TokenPair, error) {
	accessToken, err := s.tokens.Generate(identity, domain.TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.Generate(identity, domain.TokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Identity:     identity,
	}, nil
}

func (s *authService) record(ctx context.Context, operation string, err error) {
	s.metrics.RecordAuth(ctx, operation, outcome(err))
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, ErrAccountInactive):
		return "account_inactive"
	case errors.Is(err, ErrInvalidToken):
		return "invalid_token"
	default:
		return "error"
	}
}
