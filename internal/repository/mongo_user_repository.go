package repository

import (
	"context"

	"contentplanner/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type mongoUserRepository struct {
	col *mongo.Collection
}

func (r *mongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	_, err := r.col.InsertOne(ctx, user)
	return wrapMongoError(err)
}

func (r *mongoUserRepository) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.D{{Key: "id", Value: userID}})
}

func (r *mongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.D{{Key: "email", Value: email}})
}

func (r *mongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return findOne[models.User](ctx, r.col, bson.D{{Key: "username", Value: username}})
}
