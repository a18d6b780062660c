package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/domain/port"
	"github.com/retainly/churn/pkg/auth"
)

// ErrInvalidCredentials is returned for unknown users and wrong passwords
// alike, so login failures do not leak which accounts exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// LoginUser is the use case for authenticating and issuing a token.
type LoginUser struct {
	repo   port.UserRepository
	tokens *auth.TokenService
}

// NewLoginUser creates a new LoginUser use case.
func NewLoginUser(repo port.UserRepository, tokens *auth.TokenService) *LoginUser {
	return &LoginUser{repo: repo, tokens: tokens}
}

// Execute verifies credentials and issues a bearer token.
func (uc *LoginUser) Execute(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error) {
	user, err := uc.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash()), []byte(req.Password)); err != nil {
		return dto.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID(), user.Username(), user.Roles())
	if err != nil {
		return dto.LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return dto.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int64(uc.tokens.Expiration().Seconds()),
	}, nil
}
