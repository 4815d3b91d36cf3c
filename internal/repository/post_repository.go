package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"contentplanner/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const postColumns = `id, user_id, title, description, platform, content_type, status, priority, tags,
	hook, script, cta, caption, hashtags, scheduled_at, published_at,
	thumbnail_done, captions_finalized, hashtags_added, exported, uploaded, script_final,
	thumbnail_url, thumbnail_key, created_at, updated_at`

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

// postRow is the posts table layout; list columns use text[].
type postRow struct {
	ID          string         `db:"id"`
	UserID      string         `db:"user_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Platform    string         `db:"platform"`
	ContentType string         `db:"content_type"`
	Status      string         `db:"status"`
	Priority    string         `db:"priority"`
	Tags        pq.StringArray `db:"tags"`

	Hook     string         `db:"hook"`
	Script   string         `db:"script"`
	CTA      string         `db:"cta"`
	Caption  string         `db:"caption"`
	Hashtags pq.StringArray `db:"hashtags"`

	ScheduledAt *time.Time `db:"scheduled_at"`
	PublishedAt *time.Time `db:"published_at"`

	ThumbnailDone     bool `db:"thumbnail_done"`
	CaptionsFinalized bool `db:"captions_finalized"`
	HashtagsAdded     bool `db:"hashtags_added"`
	Exported          bool `db:"exported"`
	Uploaded          bool `db:"uploaded"`
	ScriptFinal       bool `db:"script_final"`

	ThumbnailURL string `db:"thumbnail_url"`
	ThumbnailKey string `db:"thumbnail_key"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func rowFromPost(p *models.Post) postRow {
	return postRow{
		ID:                p.PostID,
		UserID:            p.UserID,
		Title:             p.Title,
		Description:       p.Description,
		Platform:          string(p.Platform),
		ContentType:       string(p.ContentType),
		Status:            string(p.Status),
		Priority:          string(p.Priority),
		Tags:              pq.StringArray(nonNilStrings(p.Tags)),
		Hook:              p.Hook,
		Script:            p.Script,
		CTA:               p.CTA,
		Caption:           p.Caption,
		Hashtags:          pq.StringArray(nonNilStrings(p.Hashtags)),
		ScheduledAt:       p.ScheduledAt,
		PublishedAt:       p.PublishedAt,
		ThumbnailDone:     p.ThumbnailDone,
		CaptionsFinalized: p.CaptionsFinalized,
		HashtagsAdded:     p.HashtagsAdded,
		Exported:          p.Exported,
		Uploaded:          p.Uploaded,
		ScriptFinal:       p.ScriptFinal,
		ThumbnailURL:      p.ThumbnailURL,
		ThumbnailKey:      p.ThumbnailKey,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func (row postRow) toPost() *models.Post {
	p := &models.Post{
		PostID:            row.ID,
		UserID:            row.UserID,
		Title:             row.Title,
		Description:       row.Description,
		Platform:          models.Platform(row.Platform),
		ContentType:       models.ContentType(row.ContentType),
		Status:            models.Status(row.Status),
		Priority:          models.Priority(row.Priority),
		Tags:              []string(row.Tags),
		Hook:              row.Hook,
		Script:            row.Script,
		CTA:               row.CTA,
		Caption:           row.Caption,
		Hashtags:          []string(row.Hashtags),
		ScheduledAt:       utcPtr(row.ScheduledAt),
		PublishedAt:       utcPtr(row.PublishedAt),
		ThumbnailDone:     row.ThumbnailDone,
		CaptionsFinalized: row.CaptionsFinalized,
		HashtagsAdded:     row.HashtagsAdded,
		Exported:          row.Exported,
		Uploaded:          row.Uploaded,
		ScriptFinal:       row.ScriptFinal,
		ThumbnailURL:      row.ThumbnailURL,
		ThumbnailKey:      row.ThumbnailKey,
		CreatedAt:         row.CreatedAt.UTC(),
		UpdatedAt:         row.UpdatedAt.UTC(),
	}
	p.Normalize()
	return p
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (` + postColumns + `)
		VALUES (:id, :user_id, :title, :description, :platform, :content_type, :status, :priority, :tags,
			:hook, :script, :cta, :caption, :hashtags, :scheduled_at, :published_at,
			:thumbnail_done, :captions_finalized, :hashtags_added, :exported, :uploaded, :script_final,
			:thumbnail_url, :thumbnail_key, :created_at, :updated_at)
	`

	_, err := r.db.NamedExecContext(ctx, query, rowFromPost(post))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create post: %w", err)
	}

	return nil
}

func (r *postRepository) GetByID(ctx context.Context, userID, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND user_id = $2`

	var row postRow
	err := r.db.GetContext(ctx, &row, query, postID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}

	return row.toPost(), nil
}

// whereClause renders the owner scope and filters with positional
// parameters. Search is a literal substring match; no LIKE wildcards are
// interpreted.
func whereClause(userID string, f models.PostFilter) (string, []interface{}) {
	args := []interface{}{userID}
	conds := []string{"user_id = $1"}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Platform != "" {
		add("platform = $%d", string(f.Platform))
	}
	if f.Status != "" {
		add("status = $%d", string(f.Status))
	}
	if f.ContentType != "" {
		add("content_type = $%d", string(f.ContentType))
	}
	if f.Priority != "" {
		add("priority = $%d", string(f.Priority))
	}
	if f.Tag != "" {
		add("$%d = ANY(tags)", f.Tag)
	}
	if f.Search != "" {
		args = append(args, f.Search)
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(strpos(lower(title), lower($%[1]d)) > 0 OR strpos(lower(description), lower($%[1]d)) > 0 OR $%[1]d = ANY(tags))", n))
	}

	return strings.Join(conds, " AND "), args
}

func (r *postRepository) List(ctx context.Context, userID string, filter models.PostFilter) ([]*models.Post, error) {
	where, args := whereClause(userID, filter)
	query := `SELECT ` + postColumns + ` FROM posts WHERE ` + where + ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	posts := make([]*models.Post, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.toPost())
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context, userID string, filter models.PostFilter) (int64, error) {
	where, args := whereClause(userID, filter)

	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM posts WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

func (r *postRepository) Update(ctx context.Context, userID, postID string, req *models.UpdatePostRequest, updatedAt time.Time) error {
	var sets []string
	var args []interface{}
	for _, c := range req.Changes() {
		value := c.Value
		if list, ok := value.([]string); ok {
			value = pq.StringArray(list)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", c.Name, len(args)))
	}
	args = append(args, updatedAt)
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	args = append(args, postID, userID)
	query := fmt.Sprintf(`UPDATE posts SET %s WHERE id = $%d AND user_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))

	return r.execOwned(ctx, "update post", query, args...)
}

func (r *postRepository) SetStatus(ctx context.Context, userID, postID string, status models.Status, updatedAt time.Time) error {
	query := `UPDATE posts SET status = $1, updated_at = $2 WHERE id = $3 AND user_id = $4`
	return r.execOwned(ctx, "set post status", query, string(status), updatedAt, postID, userID)
}

func (r *postRepository) SetThumbnail(ctx context.Context, userID, postID, url, key string, updatedAt time.Time) error {
	query := `
		UPDATE posts SET thumbnail_url = $1, thumbnail_key = $2, thumbnail_done = TRUE, updated_at = $3
		WHERE id = $4 AND user_id = $5
	`
	return r.execOwned(ctx, "set post thumbnail", query, url, key, updatedAt, postID, userID)
}

func (r *postRepository) Delete(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`
	return r.execOwned(ctx, "delete post", query, postID, userID)
}

// execOwned runs a single-row statement and maps zero affected rows to
// ErrNotFound.
func (r *postRepository) execOwned(ctx context.Context, op, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postRepository) CountByStatus(ctx context.Context, userID string) (map[string]int64, error) {
	return r.countBy(ctx, userID, "status")
}

func (r *postRepository) CountByPlatform(ctx context.Context, userID string) (map[string]int64, error) {
	return r.countBy(ctx, userID, "platform")
}

// countBy groups the owner's posts by a fixed column name.
func (r *postRepository) countBy(ctx context.Context, userID, column string) (map[string]int64, error) {
	query := fmt.Sprintf(`SELECT %[1]s AS key, COUNT(*) AS count FROM posts WHERE user_id = $1 GROUP BY %[1]s`, column)

	var rows []struct {
		Key   string `db:"key"`
		Count int64  `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("count posts by %s: %w", column, err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] += row.Count
	}
	return counts, nil
}

func (r *postRepository) DistinctTags(ctx context.Context, userID string, limit int) ([]string, error) {
	query := `SELECT DISTINCT tag FROM posts, unnest(tags) AS tag WHERE user_id = $1 ORDER BY tag`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	tags := []string{}
	if err := r.db.SelectContext(ctx, &tags, query, args...); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return tags, nil
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
