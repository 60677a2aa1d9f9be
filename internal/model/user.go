package model

import (
	"errors"
	"time"
)

// User represents a user in the system.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	PasswordHashed string    `db:"password_hashed" json:"-"` // "-" hides from JSON output
	Nickname       *string   `db:"nickname" json:"nickname"`
	AvatarURL      *string   `db:"avatar_url" json:"avatar_url"`
	Bio            *string   `db:"bio" json:"bio"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// UserSummary is the lightweight profile projection joined into feeds,
// comments, follow lists and conversations.
type UserSummary struct {
	ID        int64   `db:"id" json:"id"`
	Username  string  `db:"username" json:"username"`
	Nickname  *string `db:"nickname" json:"nickname"`
	AvatarURL *string `db:"avatar_url" json:"avatar_url"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")
)
