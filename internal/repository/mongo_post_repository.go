package repository

import (
	"context"
	"regexp"
	"time"

	"contentplanner/internal/models"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type mongoPostRepository struct {
	col *mongo.Collection
}

func ownedBy(userID, postID string) bson.D {
	return bson.D{{Key: "id", Value: postID}, {Key: "user_id", Value: userID}}
}

// postQuery builds the conjunctive filter for a listing. Search matches a
// literal, case-insensitive substring of title or description, or an exact
// tag.
func postQuery(userID string, f models.PostFilter) bson.D {
	q := bson.D{{Key: "user_id", Value: userID}}
	if f.Platform != "" {
		q = append(q, bson.E{Key: "platform", Value: string(f.Platform)})
	}
	if f.Status != "" {
		q = append(q, bson.E{Key: "status", Value: string(f.Status)})
	}
	if f.ContentType != "" {
		q = append(q, bson.E{Key: "content_type", Value: string(f.ContentType)})
	}
	if f.Priority != "" {
		q = append(q, bson.E{Key: "priority", Value: string(f.Priority)})
	}
	if f.Tag != "" {
		q = append(q, bson.E{Key: "tags", Value: f.Tag})
	}
	if f.Search != "" {
		pattern := bson.D{{Key: "$regex", Value: regexp.QuoteMeta(f.Search)}, {Key: "$options", Value: "i"}}
		q = append(q, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
			bson.D{{Key: "tags", Value: f.Search}},
		}})
	}
	return q
}

func (r *mongoPostRepository) Create(ctx context.Context, post *models.Post) error {
	_, err := r.col.InsertOne(ctx, post)
	return wrapMongoError(err)
}

func (r *mongoPostRepository) GetByID(ctx context.Context, userID, postID string) (*models.Post, error) {
	return findOne[models.Post](ctx, r.col, ownedBy(userID, postID))
}

func (r *mongoPostRepository) List(ctx context.Context, userID string, filter models.PostFilter) ([]*models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}}).
		SetSkip(int64(filter.Offset))
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	return findMany[models.Post](ctx, r.col, postQuery(userID, filter), opts)
}

func (r *mongoPostRepository) Count(ctx context.Context, userID string, filter models.PostFilter) (int64, error) {
	n, err := r.col.CountDocuments(ctx, postQuery(userID, filter))
	return n, wrapMongoError(err)
}

func (r *mongoPostRepository) Update(ctx context.Context, userID, postID string, req *models.UpdatePostRequest, updatedAt time.Time) error {
	set := bson.D{}
	for _, c := range req.Changes() {
		set = append(set, bson.E{Key: c.Name, Value: c.Value})
	}
	set = append(set, bson.E{Key: "updated_at", Value: updatedAt})
	return updateOwned(ctx, r.col, ownedBy(userID, postID), set)
}

func (r *mongoPostRepository) SetStatus(ctx context.Context, userID, postID string, status models.Status, updatedAt time.Time) error {
	return updateOwned(ctx, r.col, ownedBy(userID, postID), bson.D{
		{Key: "status", Value: string(status)},
		{Key: "updated_at", Value: updatedAt},
	})
}

func (r *mongoPostRepository) SetThumbnail(ctx context.Context, userID, postID, url, key string, updatedAt time.Time) error {
	return updateOwned(ctx, r.col, ownedBy(userID, postID), bson.D{
		{Key: "thumbnail_url", Value: url},
		{Key: "thumbnail_key", Value: key},
		{Key: "thumbnail_done", Value: true},
		{Key: "updated_at", Value: updatedAt},
	})
}

func (r *mongoPostRepository) Delete(ctx context.Context, userID, postID string) error {
	res, err := r.col.DeleteOne(ctx, ownedBy(userID, postID))
	if err != nil {
		return wrapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type groupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *mongoPostRepository) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	return r.countBy(ctx, userID, "$status")
}

func (r *mongoPostRepository) CountByPlatform(ctx context.Context, userID string) (map[string]int64, error) {
	return r.countBy(ctx, userID, "$platform")
}

func (r *mongoPostRepository) countBy(ctx context.Context, userID, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapMongoError(err)
	}
	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] += row.Count
	}
	return counts, nil
}

func (r *mongoPostRepository) DistinctTags(ctx context.Context, userID string, limit int) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "user_id", Value: userID}}}},
		{{Key: "$unwind", Value: "$tags"}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$tags"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, wrapMongoError(err)
	}
	var rows []struct {
		Tag string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(rows))
	for _, row := range rows {
		tags = append(tags, row.Tag)
	}
	return tags, nil
}
