package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"contentplanner/internal/config"
	"contentplanner/internal/metrics"
	"contentplanner/internal/models"
	"contentplanner/internal/repository"
	"contentplanner/internal/storage"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const postNotFound = "Post not found"

type PostService interface {
	CreatePost(ctx context.Context, owner string, req models.CreatePostRequest) (*models.Post, error)
	ListPosts(ctx context.Context, owner string, filter models.PostFilter) (*models.PostPage, error)
	GetPost(ctx context.Context, owner, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, owner, postID string, req *models.UpdatePostRequest) (*models.Post, error)
	DeletePost(ctx context.Context, owner, postID string) error
	SetStatus(ctx context.Context, owner, postID string, status models.Status) (*models.Post, error)
	UploadThumbnail(ctx context.Context, owner, postID string, file io.Reader, size int64, contentType, ext string) (*models.Post, error)
}

type postService struct {
	postRepo repository.PostRepository
	storage  storage.Storage
	metrics  *metrics.Metrics
	cfg      *config.Config
	log      logrus.FieldLogger
	now      func() time.Time

	mu          sync.Mutex
	lastCreated time.Time
}

// NewPostService wires the post workflow. store may be nil, in which case
// thumbnail uploads report ErrServiceUnavailable; m may be nil.
func NewPostService(postRepo repository.PostRepository, store storage.Storage, m *metrics.Metrics, cfg *config.Config, log logrus.FieldLogger) PostService {
	return &postService{
		postRepo: postRepo,
		storage:  store,
		metrics:  m,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// nextTimestamp returns the current time, nudged forward so it is strictly
// after prev.
func (p *postService) nextTimestamp(prev time.Time) time.Time {
	t := p.now()
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}

// createdTimestamp issues creation times that strictly increase within the
// process, so newest-first ordering follows creation order even when several
// posts land in the same millisecond.
func (p *postService) createdTimestamp() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	t := p.now()
	if !t.After(p.lastCreated) {
		t = p.lastCreated.Add(time.Millisecond)
	}
	p.lastCreated = t
	return t
}

func notFoundOr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return NotFoundError(postNotFound)
	}
	return err
}

func validateEnums(platform models.Platform, contentType models.ContentType, status models.Status, priority models.Priority) error {
	if platform != "" && !platform.Valid() {
		return ValidationError("invalid platform %q", platform)
	}
	if contentType != "" && !contentType.Valid() {
		return ValidationError("invalid content_type %q", contentType)
	}
	if status != "" && !status.Valid() {
		return ValidationError("invalid status %q", status)
	}
	if priority != "" && !priority.Valid() {
		return ValidationError("invalid priority %q", priority)
	}
	return nil
}

func utcMillis(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC().Truncate(time.Millisecond)
	return &u
}

func (p *postService) CreatePost(ctx context.Context, owner string, req models.CreatePostRequest) (*models.Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ValidationError("title is required")
	}
	if req.Platform == "" {
		return nil, ValidationError("platform is required")
	}
	if req.ContentType == "" {
		return nil, ValidationError("content_type is required")
	}
	if err := validateEnums(req.Platform, req.ContentType, req.Status, req.Priority); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.StatusIdea
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := p.createdTimestamp()
	post := &models.Post{
		PostID:            uuid.New().String(),
		UserID:            owner,
		Title:             req.Title,
		Description:       req.Description,
		Platform:          req.Platform,
		ContentType:       req.ContentType,
		Status:            status,
		Priority:          priority,
		Tags:              req.Tags,
		Hook:              req.Hook,
		Script:            req.Script,
		CTA:               req.CTA,
		Caption:           req.Caption,
		Hashtags:          req.Hashtags,
		ScheduledAt:       utcMillis(req.ScheduledAt),
		PublishedAt:       utcMillis(req.PublishedAt),
		ThumbnailDone:     req.ThumbnailDone,
		CaptionsFinalized: req.CaptionsFinalized,
		HashtagsAdded:     req.HashtagsAdded,
		Exported:          req.Exported,
		Uploaded:          req.Uploaded,
		ScriptFinal:       req.ScriptFinal,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	post.Normalize()

	if err := p.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	p.metrics.RecordPostMutation("create")
	return post, nil
}

func (p *postService) ListPosts(ctx context.Context, owner string, filter models.PostFilter) (*models.PostPage, error) {
	if err := validateEnums(filter.Platform, filter.ContentType, filter.Status, filter.Priority); err != nil {
		return nil, err
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, ValidationError("limit and offset must not be negative")
	}
	if filter.Limit == 0 || filter.Limit > p.cfg.ListLimit {
		filter.Limit = p.cfg.ListLimit
	}

	total, err := p.postRepo.Count(ctx, owner, filter)
	if err != nil {
		return nil, err
	}

	posts, err := p.postRepo.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		post.Normalize()
	}

	return &models.PostPage{
		Posts:  posts,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}, nil
}

func (p *postService) GetPost(ctx context.Context, owner, postID string) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, owner, postID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	post.Normalize()
	return post, nil
}

func (p *postService) UpdatePost(ctx context.Context, owner, postID string, req *models.UpdatePostRequest) (*models.Post, error) {
	existing, err := p.GetPost(ctx, owner, postID)
	if err != nil {
		return nil, err
	}

	if title, ok := req.Title.Get(); ok && strings.TrimSpace(title) == "" {
		return nil, ValidationError("title must not be blank")
	}
	platform, _ := req.Platform.Get()
	contentType, _ := req.ContentType.Get()
	status, _ := req.Status.Get()
	priority, _ := req.Priority.Get()
	if err := validateEnums(platform, contentType, status, priority); err != nil {
		return nil, err
	}
	if req.Platform.Present() && platform == "" {
		return nil, ValidationError("invalid platform %q", platform)
	}
	if req.ContentType.Present() && contentType == "" {
		return nil, ValidationError("invalid content_type %q", contentType)
	}
	if req.Status.Present() && status == "" {
		return nil, ValidationError("invalid status %q", status)
	}
	if req.Priority.Present() && priority == "" {
		return nil, ValidationError("invalid priority %q", priority)
	}

	if err := p.postRepo.Update(ctx, owner, postID, req, p.nextTimestamp(existing.UpdatedAt)); err != nil {
		return nil, notFoundOr(err)
	}

	p.metrics.RecordPostMutation("update")
	return p.GetPost(ctx, owner, postID)
}

func (p *postService) SetStatus(ctx context.Context, owner, postID string, status models.Status) (*models.Post, error) {
	if !status.Valid() {
		return nil, ValidationError("invalid status %q", status)
	}

	existing, err := p.GetPost(ctx, owner, postID)
	if err != nil {
		return nil, err
	}

	if err := p.postRepo.SetStatus(ctx, owner, postID, status, p.nextTimestamp(existing.UpdatedAt)); err != nil {
		return nil, notFoundOr(err)
	}

	p.metrics.RecordPostMutation("status")
	return p.GetPost(ctx, owner, postID)
}

func (p *postService) DeletePost(ctx context.Context, owner, postID string) error {
	var thumbnailKey string
	if p.storage != nil {
		if existing, err := p.postRepo.GetByID(ctx, owner, postID); err == nil {
			thumbnailKey = existing.ThumbnailKey
		}
	}

	if err := p.postRepo.Delete(ctx, owner, postID); err != nil {
		return notFoundOr(err)
	}

	if thumbnailKey != "" {
		p.removeObject(ctx, thumbnailKey)
	}

	p.metrics.RecordPostMutation("delete")
	return nil
}

func (p *postService) UploadThumbnail(ctx context.Context, owner, postID string, file io.Reader, size int64, contentType, ext string) (*models.Post, error) {
	if p.storage == nil {
		return nil, UnavailableError("thumbnail storage is not configured")
	}

	existing, err := p.GetPost(ctx, owner, postID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("posts/%s/%s/%s%s", owner, postID, uuid.New().String(), ext)
	url, err := p.storage.UploadImage(ctx, objectName, file, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload thumbnail: %w", err)
	}

	if err := p.postRepo.SetThumbnail(ctx, owner, postID, url, objectName, p.nextTimestamp(existing.UpdatedAt)); err != nil {
		p.removeObject(ctx, objectName)
		return nil, notFoundOr(err)
	}

	if existing.ThumbnailKey != "" && existing.ThumbnailKey != objectName {
		p.removeObject(ctx, existing.ThumbnailKey)
	}

	p.metrics.RecordPostMutation("thumbnail")
	return p.GetPost(ctx, owner, postID)
}

// removeObject deletes a stored thumbnail; failures leave an orphaned object
// and are only logged.
func (p *postService) removeObject(ctx context.Context, objectName string) {
	if err := p.storage.DeleteImage(ctx, objectName); err != nil {
		p.log.WithError(err).WithField("object", objectName).Warn("thumbnail cleanup failed")
	}
}
