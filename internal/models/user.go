package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered person. Expenses and groups only ever hold the ID.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Name is the display name.
	Name string

	// Email is unique and used for login.
	Email string

	// AvatarURL is an optional profile picture.
	AvatarURL string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user with a fresh ID and timestamps.
func NewUser(email, name, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
