// Package seed inserts the admin account and a set of demo users.
// Running it twice is safe: existing usernames are skipped.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/prperemyshlev/user-service/internal/domain"
	"github.com/prperemyshlev/user-service/internal/repository"
	"go.uber.org/zap"
)

// AdminUsername is the username of the seeded administrator
const AdminUsername = "admin"

// Hasher hashes seeded passwords
type Hasher interface {
	Hash(password string) (string, error)
}

// Options carries the passwords given to seeded accounts
type Options struct {
	AdminPassword   string
	DefaultPassword string
}

type account struct {
	Name     string
	Username string
	Phone    string
}

var admin = account{Name: "Administrador", Username: AdminUsername, Phone: "(11) 99999-9999"}

var demoUsers = []account{
	{Name: "João Silva", Username: "joao", Phone: "(11) 98888-8888"},
	{Name: "Maria Santos", Username: "maria", Phone: "(11) 97777-7777"},
	{Name: "Pedro Oliveira", Username: "pedro", Phone: "(11) 96666-6666"},
	{Name: "Ana Costa", Username: "ana", Phone: "(11) 95555-5555"},
	{Name: "Carlos Souza", Username: "carlos", Phone: "(11) 94444-4444"},
	{Name: "Julia Lima", Username: "julia", Phone: "(11) 93333-3333"},
	{Name: "Lucas Ferreira", Username: "lucas", Phone: "(11) 92222-2222"},
	{Name: "Beatriz Almeida", Username: "beatriz", Phone: "(11) 91111-1111"},
	{Name: "Rafael Pereira", Username: "rafael", Phone: "(11) 90000-0000"},
	{Name: "Mariana Rodrigues", Username: "mariana", Phone: "(11) 89999-9999"},
}

// Seeder creates the seed accounts through the user repository
type Seeder struct {
	users  repository.UserRepository
	hasher Hasher
	opts   Options
	logger *zap.Logger
}

// NewSeeder creates a seeder
func NewSeeder(users repository.UserRepository, hasher Hasher, opts Options, logger *zap.Logger) *Seeder {
	return &Seeder{
		users:  users,
		hasher: hasher,
		opts:   opts,
		logger: logger,
	}
}

// Run seeds the admin first, then the demo users. It returns the number of
// accounts created.
func (s *Seeder) Run(ctx context.Context) (int, error) {
	created := 0

	ok, err := s.ensure(ctx, admin, s.opts.AdminPassword)
	if err != nil {
		return created, err
	}
	if ok {
		created++
	}

	for _, a := range demoUsers {
		ok, err := s.ensure(ctx, a, s.opts.DefaultPassword)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	s.logger.Info("Seed finished", zap.Int("created", created), zap.Int("total", len(demoUsers)+1))
	return created, nil
}

func (s *Seeder) ensure(ctx context.Context, a account, password string) (bool, error) {
	_, err := s.users.GetByUsername(ctx, a.Username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("failed to look up %s: %w", a.Username, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("failed to hash password for %s: %w", a.Username, err)
	}

	user := &domain.User{
		Username:     a.Username,
		PasswordHash: hash,
		Name:         a.Name,
		Phone:        a.Phone,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// Lost a race with another seeder
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create %s: %w", a.Username, err)
	}

	s.logger.Info("Seeded user", zap.String("username", a.Username), zap.Int64("user_id", user.ID))
	return true, nil
}
