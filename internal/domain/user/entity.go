// Package user contains the account domain model. FridgeChef only needs an
// identity to scope persistence rows; profile features live elsewhere.
package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents an account that owns saved recipes and shopping lists.
type User struct {
	id           uuid.UUID
	email        string
	name         string
	passwordHash string
	createdAt    time.Time
}

// NewUser creates a new user with a pre-hashed password.
func NewUser(email, name, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if passwordHash == "" {
		return nil, ErrMissingPasswordHash
	}

	return &User{
		id:           uuid.New(),
		email:        email,
		name:         strings.TrimSpace(name),
		passwordHash: passwordHash,
		createdAt:    time.Now(),
	}, nil
}

// Reconstruct rebuilds a User from its persisted representation.
func Reconstruct(id uuid.UUID, email, name, passwordHash string, createdAt time.Time) *User {
	return &User{
		id:           id,
		email:        email,
		name:         name,
		passwordHash: passwordHash,
		createdAt:    createdAt,
	}
}

// ID returns the user's unique identifier
func (u *User) ID() uuid.UUID {
	return u.id
}

// Email returns the user's email address
func (u *User) Email() string {
	return u.email
}

// Name returns the user's display name
func (u *User) Name() string {
	return u.name
}

// PasswordHash returns the stored password hash
func (u *User) PasswordHash() string {
	return u.passwordHash
}

// CreatedAt returns when the account was created
func (u *User) CreatedAt() time.Time {
	return u.createdAt
}
