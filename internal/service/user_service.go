package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/dto"
	"github.com/prperemyshlev/user-service/internal/filter"
	"github.com/prperemyshlev/user-service/internal/report"
	"github.com/prperemyshlev/user-service/internal/repository"
	"github.com/prperemyshlev/user-service/internal/utils"
	"github.com/prperemyshlev/user-service/pkg/observability"
	"go.uber.org/zap"
)

const (
	eventStatusSuccess = "success"
	eventStatusError   = "error"
)

// userService implements UserService interface
type userService struct {
	userRepo  repository.UserRepository
	hasher    PasswordHasher
	publisher StatusPublisher
	logger    *zap.Logger
	metrics   *observability.Instruments
	now       func() time.Time
}

// NewUserService creates a new user service
func NewUserService(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	publisher StatusPublisher,
	logger *zap.Logger,
	metrics *observability.Instruments,
) UserService {
	return &userService{
		userRepo:  userRepo,
		hasher:    hasher,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// List returns all users in the requested order
func (s *userService) List(ctx context.Context, sort domain.Sort) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ListPage returns one page of users ordered by id
func (s *userService) ListPage(ctx context.Context, page domain.Page) (*dto.PaginatedUsersResponse, error) {
	page = domain.NewPage(page.Number, page.Limit)

	users, total, err := s.userRepo.ListPage(ctx, page, domain.DefaultSort)
	if err != nil {
		return nil, fmt.Errorf("failed to list users page: %w", err)
	}

	return &dto.PaginatedUsersResponse{
		Data:       users,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(int(total)),
	}, nil
}

// Search matches a term against name, username and phone
func (s *userService) Search(ctx context.Context, term string) ([]domain.User, error) {
	users, err := s.userRepo.Search(ctx, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

// Get returns a single user
func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Create stores a new user with a hashed password
func (s *userService) Create(ctx context.Context, req *dto.CreateUserRequest) (*domain.User, error) {
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
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))

	return user, nil
}

// UpdateStatus flips the active flag and publishes a status change event.
// A failed publish is reported in the response, the update itself stands.
func (s *userService) UpdateStatus(ctx context.Context, id int64, active bool) (*dto.UpdateStatusResponse, error) {
	user, err := s.userRepo.UpdateStatus(ctx, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
		}
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	event := domain.StatusChangedEvent{
		UserID:    user.ID,
		NewStatus: user.IsActive,
		Timestamp: s.now().UTC(),
		Action:    domain.ActionUpdateStatus,
	}

	result := dto.StatusEventResponse{
		Message: event,
		Status:  eventStatusSuccess,
		Details: "status change event published",
	}

	if err := s.publisher.PublishStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish status change event",
			zap.Int64("user_id", user.ID),
			zap.Error(err),
		)
		result.Status = eventStatusError
		result.Details = err.Error()
	}
	s.metrics.RecordStatusEvent(ctx, result.Status)

	return &dto.UpdateStatusResponse{User: *user, Event: result}, nil
}

// Filter compiles the clauses and runs them against the user store. Clauses
// without a usable value are dropped; a chain that cannot be lowered yields an
// empty result and ErrFilterCompileFault.
func (s *userService) Filter(ctx context.Context, clauses []filter.Clause) ([]domain.User, error) {
	chain, dropped := filter.CompileWithStats(clauses)
	if dropped > 0 {
		s.logger.Debug("Dropped filter clauses",
			zap.Int("dropped", dropped),
			zap.Int("received", len(clauses)),
		)
		s.metrics.RecordDroppedClauses(ctx, dropped)
	}

	users, err := s.userRepo.FindByPredicate(ctx, chain, domain.DefaultSort)
	if err != nil {
		if errors.Is(err, filter.ErrCompileFault) {
			s.logger.Error("Filter compile fault", zap.Int("clauses", chain.Len()), zap.Error(err))
			return []domain.User{}, fmt.Errorf("%w: %w", ErrFilterCompileFault, err)
		}
		return nil, fmt.Errorf("failed to filter users: %w", err)
	}

	return users, nil
}

// FilterOptions describes the fields and operators the filter accepts
func (s *userService) FilterOptions() dto.FilterOptionsResponse {
	fields := make([]dto.FilterFieldOption, 0, len(filter.Fields))
	for _, f := range filter.Fields {
		ops := filter.LegalOperators(f)
		names := make([]string, 0, len(ops))
		for _, op := range ops {
			names = append(names, string(op))
		}
		fields = append(fields, dto.FilterFieldOption{
			Field:     string(f),
			Kind:      string(filter.KindOf(f)),
			Operators: names,
		})
	}

	return dto.FilterOptionsResponse{
		Fields: fields,
		Join:   string(filter.OpOr),
	}
}

// Export renders the ordered user list as a PDF document
func (s *userService) Export(ctx context.Context, sort domain.Sort) ([]byte, error) {
	users, err := s.userRepo.List(ctx, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	doc, err := report.UsersPDF(users, s.now())
	if err != nil {
		return nil, err
	}

	return doc, nil
}
