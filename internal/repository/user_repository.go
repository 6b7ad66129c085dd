package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/filter"
	"github.com/prperemyshlev/user-service/pkg/database"
)

const (
	userColumns = `id, username, password_hash, name, phone, is_active, created_at, updated_at`

	selectUsers = `SELECT ` + userColumns + ` FROM users`

	insertUser = `
		INSERT INTO users (username, password_hash, name, phone, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	updateUserStatus = `
		UPDATE users
		SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	countUsers = `SELECT COUNT(*) FROM users`

	searchUsers = selectUsers + `
		WHERE LOWER(name) LIKE LOWER($1)
		   OR LOWER(username) LIKE LOWER($1)
		   OR phone LIKE $1
		ORDER BY id ASC`
)

// userRepository implements UserRepository interface
type userRepository struct {
	db *database.Postgres
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Postgres) UserRepository {
	return &userRepository{db: db}
}

// Create inserts a new user and fills in the generated id and creation time
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.DB.QueryRowxContext(ctx, insertUser,
		user.Username,
		user.PasswordHash,
		user.Name,
		user.Phone,
		user.IsActive,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("user with username %s already exists: %w", user.Username, ErrDuplicateUsername)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByUsername retrieves a user by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.DB.GetContext(ctx, user, selectUsers+` WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with username %s: %w", username, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.DB.GetContext(ctx, user, selectUsers+` WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// List returns every user in the requested order
func (r *userRepository) List(ctx context.Context, sort domain.Sort) ([]domain.User, error) {
	users := make([]domain.User, 0)

	if err := r.db.DB.SelectContext(ctx, &users, selectUsers+` ORDER BY `+sort.OrderBy()); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ListPage returns one page of users and the total row count
func (r *userRepository) ListPage(ctx context.Context, page domain.Page, sort domain.Sort) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.DB.GetContext(ctx, &total, countUsers); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := make([]domain.User, 0, page.Limit)
	query := selectUsers + ` ORDER BY ` + sort.OrderBy() + ` LIMIT $1 OFFSET $2`
	if err := r.db.DB.SelectContext(ctx, &users, query, page.Limit, page.Offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list users page: %w", err)
	}

	return users, total, nil
}

// Search matches the term as a case-insensitive substring of name, username
// or phone. An empty term matches everyone.
func (r *userRepository) Search(ctx context.Context, term string) ([]domain.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.List(ctx, domain.DefaultSort)
	}

	users := make([]domain.User, 0)
	if err := r.db.DB.SelectContext(ctx, &users, searchUsers, "%"+term+"%"); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}

// FindByPredicate executes a compiled filter. The NoPredicate sentinel
// returns every user.
func (r *userRepository) FindByPredicate(ctx context.Context, chain filter.PredicateChain, sort domain.Sort) ([]domain.User, error) {
	if chain.IsEmpty() {
		return r.List(ctx, sort)
	}

	where, params, err := chain.Where()
	if err != nil {
		return nil, err
	}

	query, args, err := sqlx.Named(selectUsers+` WHERE `+where+` ORDER BY `+sort.OrderBy(), params)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to bind parameters: %v", filter.ErrCompileFault, err)
	}

	users := make([]domain.User, 0)
	if err := r.db.DB.SelectContext(ctx, &users, r.db.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to filter users: %w", err)
	}

	return users, nil
}

// UpdateStatus sets the active flag and returns the updated row
func (r *userRepository) UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.DB.GetContext(ctx, user, updateUserStatus, active, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user with id %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update user status: %w", err)
	}

	return user, nil
}
