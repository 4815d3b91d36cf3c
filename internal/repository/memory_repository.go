package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"contentplanner/internal/models"
)

// MemoryStore keeps users and posts in process memory. It is safe for
// concurrent use and backs STORE_DRIVER=memory as well as the service and
// handler tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]models.User
	posts map[string]models.Post
}

var _ UserRepository = (*memoryUserRepository)(nil)
var _ PostRepository = (*memoryPostRepository)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]models.User),
		posts: make(map[string]models.Post),
	}
}

// Repository exposes the store through the repository interfaces.
func (s *MemoryStore) Repository() *Repository {
	return &Repository{
		User: &memoryUserRepository{s: s},
		Post: &memoryPostRepository{s: s},
	}
}

func (s *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

func (s *MemoryStore) CloseDB() error {
	return nil
}

// Users ----------------------------------------------------------------------

type memoryUserRepository struct {
	s *MemoryStore
}

func (r *memoryUserRepository) CreateUser(_ context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.users[user.UserID]; exists {
		return ErrDuplicate
	}
	for _, u := range r.s.users {
		if u.Email == user.Email || u.Username == user.Username {
			return ErrDuplicate
		}
	}

	r.s.users[user.UserID] = *user
	return nil
}

func (r *memoryUserRepository) GetUserByID(_ context.Context, userID string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memoryUserRepository) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.findUser(func(u models.User) bool { return u.Email == email })
}

func (r *memoryUserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return r.findUser(func(u models.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) findUser(match func(models.User) bool) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Posts ----------------------------------------------------------------------

type memoryPostRepository struct {
	s *MemoryStore
}

func (r *memoryPostRepository) Create(_ context.Context, post *models.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.posts[post.PostID]; exists {
		return ErrDuplicate
	}
	r.s.posts[post.PostID] = clonePost(*post)
	return nil
}

func (r *memoryPostRepository) GetByID(_ context.Context, userID, postID string) (*models.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.posts[postID]
	if !ok || p.UserID != userID {
		return nil, ErrNotFound
	}
	out := clonePost(p)
	return &out, nil
}

func (r *memoryPostRepository) List(_ context.Context, userID string, filter models.PostFilter) ([]*models.Post, error) {
	matched := r.matching(userID, filter)

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].PostID > matched[j].PostID
	})

	if filter.Offset >= len(matched) {
		return []*models.Post{}, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]*models.Post, 0, len(matched))
	for i := range matched {
		p := matched[i]
		out = append(out, &p)
	}
	return out, nil
}

func (r *memoryPostRepository) Count(_ context.Context, userID string, filter models.PostFilter) (int64, error) {
	return int64(len(r.matching(userID, filter))), nil
}

func (r *memoryPostRepository) matching(userID string, filter models.PostFilter) []models.Post {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []models.Post
	for _, p := range r.s.posts {
		if p.UserID == userID && matchesFilter(p, filter) {
			matched = append(matched, clonePost(p))
		}
	}
	return matched
}

func matchesFilter(p models.Post, f models.PostFilter) bool {
	if f.Platform != "" && p.Platform != f.Platform {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.ContentType != "" && p.ContentType != f.ContentType {
		return false
	}
	if f.Priority != "" && p.Priority != f.Priority {
		return false
	}
	if f.Tag != "" && !containsString(p.Tags, f.Tag) {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Title), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!containsString(p.Tags, f.Search) {
			return false
		}
	}
	return true
}

func (r *memoryPostRepository) Update(_ context.Context, userID, postID string, req *models.UpdatePostRequest, updatedAt time.Time) error {
	return r.mutate(userID, postID, func(p *models.Post) {
		req.ApplyTo(p)
		p.UpdatedAt = updatedAt
	})
}

func (r *memoryPostRepository) SetStatus(_ context.Context, userID, postID string, status models.Status, updatedAt time.Time) error {
	return r.mutate(userID, postID, func(p *models.Post) {
		p.Status = status
		p.UpdatedAt = updatedAt
	})
}

func (r *memoryPostRepository) SetThumbnail(_ context.Context, userID, postID, url, key string, updatedAt time.Time) error {
	return r.mutate(userID, postID, func(p *models.Post) {
		p.ThumbnailURL = url
		p.ThumbnailKey = key
		p.ThumbnailDone = true
		p.UpdatedAt = updatedAt
	})
}

func (r *memoryPostRepository) mutate(userID, postID string, apply func(*models.Post)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	apply(&p)
	r.s.posts[postID] = clonePost(p)
	return nil
}

func (r *memoryPostRepository) Delete(_ context.Context, userID, postID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.posts[postID]
	if !ok || p.UserID != userID {
		return ErrNotFound
	}
	delete(r.s.posts, postID)
	return nil
}

func (r *memoryPostRepository) CountByStatus(_ context.Context, userID string) (map[string]int64, error) {
	return r.countBy(userID, func(p models.Post) string { return string(p.Status) }), nil
}

func (r *memoryPostRepository) CountByPlatform(_ context.Context, userID string) (map[string]int64, error) {
	return r.countBy(userID, func(p models.Post) string { return string(p.Platform) }), nil
}

func (r *memoryPostRepository) countBy(userID string, key func(models.Post) string) map[string]int64 {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	counts := make(map[string]int64)
	for _, p := range r.s.posts {
		if p.UserID == userID {
			counts[key(p)]++
		}
	}
	return counts
}

func (r *memoryPostRepository) DistinctTags(_ context.Context, userID string, limit int) ([]string, error) {
	r.s.mu.RLock()
	seen := make(map[string]struct{})
	for _, p := range r.s.posts {
		if p.UserID != userID {
			continue
		}
		for _, tag := range p.Tags {
			seen[tag] = struct{}{}
		}
	}
	r.s.mu.RUnlock()

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	if limit > 0 && len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func clonePost(p models.Post) models.Post {
	p.Tags = append([]string{}, p.Tags...)
	p.Hashtags = append([]string{}, p.Hashtags...)
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		p.ScheduledAt = &t
	}
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		p.PublishedAt = &t
	}
	return p
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
