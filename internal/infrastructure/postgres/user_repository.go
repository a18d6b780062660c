package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retainly/churn/internal/domain/model"
)

// UserRepository implements port.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists a new user account.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID(),
		user.Username(),
		user.Email(),
		user.PasswordHash(),
		user.Roles(),
		user.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername retrieves a user by username. Returns (nil, nil) when no
// user exists.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "username", username)
}

// FindByEmail retrieves a user by email. Returns (nil, nil) when no user
// exists.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findBy(ctx, "email", email)
}

func (r *UserRepository) findBy(ctx context.Context, column, value string) (*model.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, roles, created_at
		FROM users
		WHERE %s = $1
	`, column)

	var (
		id           uuid.UUID
		username     string
		email        string
		passwordHash string
		roles        []string
		createdAt    time.Time
	)

	err := r.pool.QueryRow(ctx, query, value).Scan(
		&id, &username, &email, &passwordHash, &roles, &createdAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	return model.ReconstructUser(id, username, email, passwordHash, roles, createdAt), nil
}

// List returns all accounts, newest first.
func (r *UserRepository) List(ctx context.Context) ([]*model.User, error) {
	query := `
		SELECT id, username, email, password_hash, roles, created_at
		FROM users
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*model.User, 0)
	for rows.Next() {
		var (
			id           uuid.UUID
			username     string
			email        string
			passwordHash string
			roles        []string
			createdAt    time.Time
		)
		if err := rows.Scan(&id, &username, &email, &passwordHash, &roles, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, model.ReconstructUser(id, username, email, passwordHash, roles, createdAt))
	}
	return users, rows.Err()
}
