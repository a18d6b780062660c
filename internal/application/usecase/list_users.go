package usecase

import (
	"context"
	"fmt"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/domain/port"
)

// ListUsers is the admin use case for listing accounts.
type ListUsers struct {
	repo port.UserRepository
}

// NewListUsers creates a new ListUsers use case.
func NewListUsers(repo port.UserRepository) *ListUsers {
	return &ListUsers{repo: repo}
}

// Execute returns all accounts.
func (uc *ListUsers) Execute(ctx context.Context) ([]dto.UserInfo, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	out := make([]dto.UserInfo, 0, len(users))
	for _, u := range users {
		out = append(out, dto.FromUser(u))
	}
	return out, nil
}
