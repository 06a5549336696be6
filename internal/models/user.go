package models

import "time"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user, assigned by the database.
	ID int64 `json:"id"`

	// Email is the user's email address (unique). Used for login and
	// for member search when inviting users to a group.
	Email string `json:"email"`

	// Username is the display name shown next to expenses and members.
	// Mutable by the owning user.
	Username string `json:"username"`

	// PasswordHash is the bcrypt hash of the user's password.
	// Never serialized to clients.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser creates a user with timestamps set. The ID is assigned on insert.
func NewUser(email, username, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
