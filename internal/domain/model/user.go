package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account that can request predictions.
type User struct {
	id           uuid.UUID
	username     string
	email        string
	passwordHash string
	roles        []string
	createdAt    time.Time
}

// NewUser validates registration input and constructs a User. The password
// hash is produced by the application layer; the aggregate never sees the
// plaintext password.
func NewUser(username, email, passwordHash string, roles []string) (*User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if l := len(username); l < 3 || l > 50 {
		return nil, NewValidationError("username", "must be between 3 and 50 characters")
	}
	if !strings.Contains(email, "@") {
		return nil, NewValidationError("email", "invalid email format")
	}
	if passwordHash == "" {
		return nil, NewValidationError("password", "password hash is required")
	}
	if len(roles) == 0 {
		roles = []string{"analyst"}
	}

	return &User{
		id:           uuid.New(),
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		roles:        roles,
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructUser rebuilds a User from persisted data.
func ReconstructUser(id uuid.UUID, username, email, passwordHash string, roles []string, createdAt time.Time) *User {
	return &User{
		id:           id,
		username:     username,
		email:        email,
		passwordHash: passwordHash,
		roles:        roles,
		createdAt:    createdAt,
	}
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	for _, r := range u.roles {
		if r == "admin" {
			return true
		}
	}
	return false
}

// --- Accessors ---

func (u *User) ID() uuid.UUID        { return u.id }
func (u *User) Username() string     { return u.username }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Roles() []string      { return u.roles }
func (u *User) CreatedAt() time.Time { return u.createdAt }
