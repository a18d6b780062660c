package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/retainly/churn/internal/application/dto"
	"github.com/retainly/churn/internal/application/usecase"
	"github.com/retainly/churn/internal/domain/model"
	"github.com/retainly/churn/pkg/auth"
)

type mockUserRepository struct {
	created    []*model.User
	byUsername map[string]*model.User
	byEmail    map[string]*model.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		byUsername: make(map[string]*model.User),
		byEmail:    make(map[string]*model.User),
	}
}

func (m *mockUserRepository) Create(_ context.Context, user *model.User) error {
	m.created = append(m.created, user)
	m.byUsername[user.Username()] = user
	m.byEmail[user.Email()] = user
	return nil
}

func (m *mockUserRepository) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return m.byUsername[username], nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.byEmail[email], nil
}

func (m *mockUserRepository) List(_ context.Context) ([]*model.User, error) {
	return m.created, nil
}

func seedUser(t *testing.T, repo *mockUserRepository, username, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.ReconstructUser(uuid.New(), username, username+"@example.com", string(hash), []string{auth.RoleAnalyst}, time.Now().UTC())
	repo.byUsername[username] = user
	repo.byEmail[user.Email()] = user
	return user
}

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{Secret: "test-secret", Issuer: "churn-service"})
	require.NoError(t, err)
	return tokens
}

func TestRegisterUser(t *testing.T) {
	repo := newMockUserRepository()

	resp, err := usecase.NewRegisterUser(repo).Execute(context.Background(), dto.RegisterRequest{
		Username: "analyst1",
		Email:    "analyst1@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotEqual(t, uuid.Nil, resp.UserID)

	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, []string{"analyst"}, created.Roles())
	assert.NotEqual(t, "correct horse battery", created.PasswordHash(), "password must be hashed")
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	_, err := usecase.NewRegisterUser(newMockUserRepository()).Execute(context.Background(), dto.RegisterRequest{
		Username: "analyst1",
		Email:    "analyst1@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.True(t, model.IsValidationError(err))
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	repo := newMockUserRepository()
	seedUser(t, repo, "analyst1", "some-password")

	_, err := usecase.NewRegisterUser(repo).Execute(context.Background(), dto.RegisterRequest{
		Username: "analyst1",
		Email:    "other@example.com",
		Password: "long enough password",
	})
	assert.ErrorIs(t, err, usecase.ErrUsernameTaken)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepository()
	seedUser(t, repo, "analyst1", "some-password")

	_, err := usecase.NewRegisterUser(repo).Execute(context.Background(), dto.RegisterRequest{
		Username: "analyst2",
		Email:    "analyst1@example.com",
		Password: "long enough password",
	})
	assert.ErrorIs(t, err, usecase.ErrEmailTaken)
}

func TestLoginUser(t *testing.T) {
	repo := newMockUserRepository()
	user := seedUser(t, repo, "analyst1", "open sesame 123")
	tokens := testTokenService(t)

	resp, err := usecase.NewLoginUser(repo, tokens).Execute(context.Background(), dto.LoginRequest{
		Username: "analyst1",
		Password: "open sesame 123",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Positive(t, resp.ExpiresIn)

	claims, err := tokens.Validate(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID(), claims.UserID)
	assert.Equal(t, "analyst1", claims.Username)
	assert.True(t, claims.HasRole(auth.RoleAnalyst))
}

func TestLoginUser_WrongPassword(t *testing.T) {
	repo := newMockUserRepository()
	seedUser(t, repo, "analyst1", "open sesame 123")

	_, err := usecase.NewLoginUser(repo, testTokenService(t)).Execute(context.Background(), dto.LoginRequest{
		Username: "analyst1",
		Password: "guess",
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func TestLoginUser_UnknownUser(t *testing.T) {
	_, err := usecase.NewLoginUser(newMockUserRepository(), testTokenService(t)).Execute(context.Background(), dto.LoginRequest{
		Username: "nobody",
		Password: "whatever123",
	})
	assert.ErrorIs(t, err, usecase.ErrInvalidCredentials)
}

func TestListUsers(t *testing.T) {
	repo := newMockUserRepository()
	require.NoError(t, repo.Create(context.Background(), mustUser(t, "analyst1")))
	require.NoError(t, repo.Create(context.Background(), mustUser(t, "analyst2")))

	users, err := usecase.NewListUsers(repo).Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "analyst1", users[0].Username)
	assert.Equal(t, []string{"analyst"}, users[0].Roles)
}

func mustUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := model.NewUser(username, username+"@example.com", "hash", nil)
	require.NoError(t, err)
	return user
}
