package repository

import (
	"github.com/prperemyshlev/user-service/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	User UserRepository
}

// NewRepositories creates all repositories
func NewRepositories(db *database.Postgres) *Repositories {
	return &Repositories{
		User: NewUserRepository(db),
	}
}
