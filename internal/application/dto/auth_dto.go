package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/retainly/churn/internal/domain/model"
)

// RegisterRequest is the input DTO for account registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is returned after a successful registration.
type RegisterResponse struct {
	Success bool      `json:"success"`
	UserID  uuid.UUID `json:"user_id"`
}

// LoginRequest is the input DTO for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}

// UserInfo is the admin-facing view of an account.
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// FromUser maps a User aggregate to its admin view.
func FromUser(u *model.User) UserInfo {
	return UserInfo{
		ID:        u.ID(),
		Username:  u.Username(),
		Email:     u.Email(),
		Roles:     u.Roles(),
		CreatedAt: u.CreatedAt(),
	}
}
