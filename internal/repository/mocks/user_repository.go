// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/filter"
	"github.com/stretchr/testify/mock"
)

// UserRepository is a mock of repository.UserRepository
type UserRepository struct {
	mock.Mock
}

// NewUserRepository creates a mock and asserts its expectations on cleanup
func NewUserRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *UserRepository {
	m := &UserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *UserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) List(ctx context.Context, sort domain.Sort) ([]domain.User, error) {
	args := m.Called(ctx, sort)
	return usersOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) ListPage(ctx context.Context, page domain.Page, sort domain.Sort) ([]domain.User, int64, error) {
	args := m.Called(ctx, page, sort)
	return usersOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) Search(ctx context.Context, term string) ([]domain.User, error) {
	args := m.Called(ctx, term)
	return usersOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) FindByPredicate(ctx context.Context, chain filter.PredicateChain, sort domain.Sort) ([]domain.User, error) {
	args := m.Called(ctx, chain, sort)
	return usersOrNil(args.Get(0)), args.Error(1)
}

func (m *UserRepository) UpdateStatus(ctx context.Context, id int64, active bool) (*domain.User, error) {
	args := m.Called(ctx, id, active)
	return userOrNil(args.Get(0)), args.Error(1)
}

func userOrNil(v any) *domain.User {
	if v == nil {
		return nil
	}
	return v.(*domain.User)
}

func usersOrNil(v any) []domain.User {
	if v == nil {
		return nil
	}
	return v.([]domain.User)
}
