package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contentplanner/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

// NewRepository builds the PostgreSQL-backed repositories.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User: NewUserRepository(db),
		Post: NewPostRepository(db),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, username, password_hash, created_at)
		VALUES (:id, :email, :username, :password_hash, :created_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, username, password_hash, created_at FROM users WHERE id = $1`, userID)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, username, password_hash, created_at FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getUser(ctx, `SELECT id, email, username, password_hash, created_at FROM users WHERE username = $1`, username)
}

func (r *userRepository) getUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User

	err := r.db.GetContext(ctx, &user, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
