package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers = "users"
	ColPosts = "posts"
)

// NewMongoRepository builds the repositories over a MongoDB database.
// Documents are addressed by their string "id" field; the server-assigned
// _id is never decoded.
func NewMongoRepository(db *mongo.Database) *Repository {
	return &Repository{
		User: &mongoUserRepository{col: db.Collection(ColUsers)},
		Post: &mongoPostRepository{col: db.Collection(ColPosts)},
	}
}

// EnsureMongoIndexes creates the lookup and uniqueness indexes used by the
// repositories. It is idempotent.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		// users
		{ColUsers, bson.D{{Key: "id", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},
		{ColUsers, bson.D{{Key: "username", Value: 1}}, true},

		// posts
		{ColPosts, bson.D{{Key: "id", Value: 1}}, true},
		{ColPosts, bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}, false},
		{ColPosts, bson.D{{Key: "user_id", Value: 1}, {Key: "tags", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := db.Collection(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}

func wrapMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

// findOne decodes a single document, returning ErrNotFound when none matches.
func findOne[T any](ctx context.Context, col *mongo.Collection, filter bson.D) (*T, error) {
	var result T
	if err := col.FindOne(ctx, filter).Decode(&result); err != nil {
		return nil, wrapMongoError(err)
	}
	return &result, nil
}

func findMany[T any](ctx context.Context, col *mongo.Collection, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]*T, error) {
	cursor, err := col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, wrapMongoError(err)
	}
	defer cursor.Close(ctx)

	results := []*T{}
	for cursor.Next(ctx) {
		var item T
		if err := cursor.Decode(&item); err != nil {
			return nil, err
		}
		results = append(results, &item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// updateOwned applies $set to the document matching filter and reports
// ErrNotFound when nothing matched.
func updateOwned(ctx context.Context, col *mongo.Collection, filter, set bson.D) error {
	res, err := col.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return wrapMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
