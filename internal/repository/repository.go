package repository

import (
	"context"
	"time"

	"contentplanner/internal/models"
)

type UserRepository interface {
	// CreateUser returns ErrDuplicate when the email or username is taken.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// PostRepository methods are all scoped to an owner. A post owned by someone
// else behaves exactly like a post that does not exist (ErrNotFound).
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, userID, postID string) (*models.Post, error)
	List(ctx context.Context, userID string, filter models.PostFilter) ([]*models.Post, error)
	Count(ctx context.Context, userID string, filter models.PostFilter) (int64, error)
	Update(ctx context.Context, userID, postID string, req *models.UpdatePostRequest, updatedAt time.Time) error
	SetStatus(ctx context.Context, userID, postID string, status models.Status, updatedAt time.Time) error
	SetThumbnail(ctx context.Context, userID, postID, url, key string, updatedAt time.Time) error
	Delete(ctx context.Context, userID, postID string) error

	CountByStatus(ctx context.Context, userID string) (map[string]int64, error)
	CountByPlatform(ctx context.Context, userID string) (map[string]int64, error)
	DistinctTags(ctx context.Context, userID string, limit int) ([]string, error)
}

type Repository struct {
	User UserRepository
	Post PostRepository
}
