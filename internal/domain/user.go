package domain

import "time"

// User represents a row of the users table
type User struct {
	ID           int64      `json:"id" db:"id"`
	Username     string     `json:"username" db:"username"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Name         string     `json:"name" db:"name"`
	Phone        string     `json:"phone" db:"phone"`
	IsActive     bool       `json:"isActive" db:"is_active"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// Identity is the authenticated principal, without credentials
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// Identity strips the password hash and bookkeeping columns
func (u *User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		IsActive: u.IsActive,
	}
}

// StatusChangedEvent is published whenever a user's active flag changes
type StatusChangedEvent struct {
	UserID    int64     `json:"userId"`
	NewStatus bool      `json:"newStatus"`
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
}

// ActionUpdateStatus is the action carried by StatusChangedEvent
const ActionUpdateStatus = "UPDATE_STATUS"
