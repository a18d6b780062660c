package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/internal/domain/port"
)

// ErrUsernameTaken and ErrEmailTaken report registration conflicts.
var (
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already registered")
)

// minPasswordLength is the minimum accepted password length.
const minPasswordLength = 8

// RegisterUser is the use case for creating an account.
type RegisterUser struct {
	repo port.UserRepository
}

// NewRegisterUser creates a new RegisterUser use case.
func NewRegisterUser(repo port.UserRepository) *RegisterUser {
	return &RegisterUser{repo: repo}
}

// Execute validates the registration, hashes the password and persists the
// user. Duplicate usernames and emails are rejected.
func (uc *RegisterUser) Execute(ctx context.Context, req dto.RegisterRequest) (dto.RegisterResponse, error) {
	if len(req.Password) < minPasswordLength {
		return dto.RegisterResponse{}, model.NewValidationError("password", "must be at least %d characters", minPasswordLength)
	}

	if existing, err := uc.repo.FindByUsername(ctx, req.Username); err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("failed to check username: %w", err)
	} else if existing != nil {
		return dto.RegisterResponse{}, ErrUsernameTaken
	}

	if existing, err := uc.repo.FindByEmail(ctx, req.Email); err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("failed to check email: %w", err)
	} else if existing != nil {
		return dto.RegisterResponse{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := model.NewUser(req.Username, req.Email, string(hash), nil)
	if err != nil {
		return dto.RegisterResponse{}, err
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		return dto.RegisterResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	return dto.RegisterResponse{Success: true, UserID: user.ID()}, nil
}
