package repository

import (
	"context"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/filter"
)

// UserRepository defines methods for user operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context, sort domain.Sort) ([]domain.User, error)
	ListPage(ctx context.Context, page domain.Page, sort domain.Sort) ([]domain.User, int64, error)
	Search(ctx context.Context, term string) ([]domain.User, error)
	FindByPredicate(ctx context.Context, chain filter.PredicateChain, sort domain.Sort) ([]domain.User, error)
	UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error)
}
