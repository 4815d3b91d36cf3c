package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"contentplanner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func newTestPost(id, owner string, offset time.Duration) *models.Post {
	created := baseTime.Add(offset)
	return &models.Post{
		PostID:      id,
		UserID:      owner,
		Title:       "Post " + id,
		Platform:    models.PlatformInstagram,
		ContentType: models.ContentTypeReel,
		Status:      models.StatusIdea,
		Priority:    models.PriorityMedium,
		Tags:        []string{},
		Hashtags:    []string{},
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}

// runRepositoryContract exercises behaviour every backend must share.
func runRepositoryContract(t *testing.T, repo *Repository) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		user := &models.User{
			UserID:       "user-1",
			Email:        "alice@example.com",
			Username:     "alice",
			PasswordHash: "hash",
			CreatedAt:    baseTime,
		}
		require.NoError(t, repo.User.CreateUser(ctx, user))

		got, err := repo.User.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.Equal(t, "hash", got.PasswordHash)

		got, err = repo.User.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", got.Email)

		got, err = repo.User.GetUserByID(ctx, "user-1")
		require.NoError(t, err)
		assert.True(t, baseTime.Equal(got.CreatedAt))

		_, err = repo.User.GetUserByID(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		dupEmail := &models.User{UserID: "user-2", Email: "alice@example.com", Username: "other", CreatedAt: baseTime}
		assert.ErrorIs(t, repo.User.CreateUser(ctx, dupEmail), ErrDuplicate)

		dupName := &models.User{UserID: "user-3", Email: "other@example.com", Username: "alice", CreatedAt: baseTime}
		assert.ErrorIs(t, repo.User.CreateUser(ctx, dupName), ErrDuplicate)
	})

	t.Run("posts are scoped to their owner", func(t *testing.T) {
		post := newTestPost("p-owned", "owner-a", 0)
		require.NoError(t, repo.Post.Create(ctx, post))

		_, err := repo.Post.GetByID(ctx, "owner-b", "p-owned")
		assert.ErrorIs(t, err, ErrNotFound)

		err = repo.Post.SetStatus(ctx, "owner-b", "p-owned", models.StatusReady, baseTime)
		assert.ErrorIs(t, err, ErrNotFound)

		err = repo.Post.Delete(ctx, "owner-b", "p-owned")
		assert.ErrorIs(t, err, ErrNotFound)

		got, err := repo.Post.GetByID(ctx, "owner-a", "p-owned")
		require.NoError(t, err)
		assert.Equal(t, models.StatusIdea, got.Status)
	})

	t.Run("list filters, order and paging", func(t *testing.T) {
		owner := "owner-list"
		specs := []struct {
			id       string
			title    string
			desc     string
			platform models.Platform
			status   models.Status
			tags     []string
		}{
			{"l1", "Morning routine", "", models.PlatformYouTube, models.StatusIdea, []string{"lifestyle"}},
			{"l2", "Coffee review", "a ROUTINE look", models.PlatformInstagram, models.StatusReady, []string{"coffee"}},
			{"l3", "Desk tour", "", models.PlatformYouTube, models.StatusPublished, []string{"routine", "setup"}},
			{"l4", "100% honest", "", models.PlatformTwitter, models.StatusIdea, nil},
		}
		for i, s := range specs {
			p := newTestPost(s.id, owner, time.Duration(i)*time.Minute)
			p.Title = s.title
			p.Description = s.desc
			p.Platform = s.platform
			p.Status = s.status
			if s.tags != nil {
				p.Tags = s.tags
			}
			require.NoError(t, repo.Post.Create(ctx, p))
		}

		all, err := repo.Post.List(ctx, owner, models.PostFilter{})
		require.NoError(t, err)
		require.Len(t, all, 4)
		assert.Equal(t, "l4", all[0].PostID)
		assert.Equal(t, "l1", all[3].PostID)

		yt, err := repo.Post.List(ctx, owner, models.PostFilter{Platform: models.PlatformYouTube})
		require.NoError(t, err)
		assert.Len(t, yt, 2)

		both, err := repo.Post.List(ctx, owner, models.PostFilter{Platform: models.PlatformYouTube, Status: models.StatusIdea})
		require.NoError(t, err)
		require.Len(t, both, 1)
		assert.Equal(t, "l1", both[0].PostID)

		found, err := repo.Post.List(ctx, owner, models.PostFilter{Search: "routine"})
		require.NoError(t, err)
		ids := make([]string, 0, len(found))
		for _, p := range found {
			ids = append(ids, p.PostID)
		}
		assert.ElementsMatch(t, []string{"l1", "l2", "l3"}, ids)

		literal, err := repo.Post.List(ctx, owner, models.PostFilter{Search: "0% h"})
		require.NoError(t, err)
		require.Len(t, literal, 1)
		assert.Equal(t, "l4", literal[0].PostID)

		none, err := repo.Post.List(ctx, owner, models.PostFilter{Search: ".*"})
		require.NoError(t, err)
		assert.Empty(t, none)

		tagged, err := repo.Post.List(ctx, owner, models.PostFilter{Tag: "coffee"})
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		assert.Equal(t, "l2", tagged[0].PostID)

		page, err := repo.Post.List(ctx, owner, models.PostFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "l3", page[0].PostID)
		assert.Equal(t, "l2", page[1].PostID)

		total, err := repo.Post.Count(ctx, owner, models.PostFilter{Platform: models.PlatformYouTube})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)

		other, err := repo.Post.List(ctx, "someone-else", models.PostFilter{})
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("partial update", func(t *testing.T) {
		owner := "owner-update"
		p := newTestPost("u1", owner, 0)
		p.Description = "keep"
		p.Tags = []string{"a"}
		require.NoError(t, repo.Post.Create(ctx, p))

		updated := baseTime.Add(time.Hour)
		req := &models.UpdatePostRequest{
			Title:       models.Some("Renamed"),
			Description: models.Null[string](),
			Tags:        models.Some([]string{"b", "c"}),
			Exported:    models.Some(true),
		}
		require.NoError(t, repo.Post.Update(ctx, owner, "u1", req, updated))

		got, err := repo.Post.GetByID(ctx, owner, "u1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		assert.Equal(t, "keep", got.Description)
		assert.Equal(t, []string{"b", "c"}, got.Tags)
		assert.True(t, got.Exported)
		assert.True(t, updated.Equal(got.UpdatedAt))
		assert.True(t, baseTime.Equal(got.CreatedAt))

		err = repo.Post.Update(ctx, "intruder", "u1", req, updated)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("thumbnail and delete", func(t *testing.T) {
		owner := "owner-thumb"
		require.NoError(t, repo.Post.Create(ctx, newTestPost("t1", owner, 0)))

		require.NoError(t, repo.Post.SetThumbnail(ctx, owner, "t1", "http://cdn/x.png", "posts/x.png", baseTime.Add(time.Minute)))
		got, err := repo.Post.GetByID(ctx, owner, "t1")
		require.NoError(t, err)
		assert.Equal(t, "http://cdn/x.png", got.ThumbnailURL)
		assert.Equal(t, "posts/x.png", got.ThumbnailKey)
		assert.True(t, got.ThumbnailDone)

		require.NoError(t, repo.Post.Delete(ctx, owner, "t1"))
		_, err = repo.Post.GetByID(ctx, owner, "t1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, repo.Post.Delete(ctx, owner, "t1"), ErrNotFound)
	})

	t.Run("aggregates", func(t *testing.T) {
		owner := "owner-stats"
		for i := 0; i < 5; i++ {
			p := newTestPost(fmt.Sprintf("s%d", i), owner, time.Duration(i)*time.Second)
			if i%2 == 0 {
				p.Status = models.StatusPublished
				p.Platform = models.PlatformLinkedIn
			}
			p.Tags = []string{"zeta", fmt.Sprintf("t%d", i%2)}
			require.NoError(t, repo.Post.Create(ctx, p))
		}

		byStatus, err := repo.Post.CountByStatus(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(3), byStatus["published"])
		assert.Equal(t, int64(2), byStatus["idea"])

		byPlatform, err := repo.Post.CountByPlatform(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, int64(3), byPlatform["linkedin"])
		assert.Equal(t, int64(2), byPlatform["instagram"])

		tags, err := repo.Post.DistinctTags(ctx, owner, 100)
		require.NoError(t, err)
		assert.Equal(t, []string{"t0", "t1", "zeta"}, tags)

		limited, err := repo.Post.DistinctTags(ctx, owner, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"t0", "t1"}, limited)

		empty, err := repo.Post.CountByStatus(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
