package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contentplanner/internal/models"
)

func requireConsistent(t *testing.T, stats *models.Stats) {
	t.Helper()

	assert.Equal(t, stats.Total, stats.Ideas+stats.InProgress+stats.Ready+stats.Published)

	var byStatus int64
	for _, n := range stats.ByStatus {
		byStatus += n
	}
	assert.Equal(t, stats.Total, byStatus)

	var byPlatform int64
	for _, n := range stats.ByPlatform {
		byPlatform += n
	}
	assert.Equal(t, stats.Total, byPlatform)

	assert.Len(t, stats.ByStatus, len(models.Statuses))
	assert.Len(t, stats.ByPlatform, len(models.Platforms))
}

func TestStatsService_EmptyIsZeroFilled(t *testing.T) {
	f := newFixture(t, false)

	stats, err := f.stats.ComputeStats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	for _, status := range models.Statuses {
		n, ok := stats.ByStatus[status]
		assert.True(t, ok, string(status))
		assert.Equal(t, int64(0), n)
	}
	for _, platform := range models.Platforms {
		n, ok := stats.ByPlatform[platform]
		assert.True(t, ok, string(platform))
		assert.Equal(t, int64(0), n)
	}
	requireConsistent(t, stats)
}

func TestStatsService_Buckets(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	statuses := []models.Status{
		models.StatusIdea, models.StatusIdea, models.StatusScripted, models.StatusShooting,
		models.StatusEditing, models.StatusReview, models.StatusReady, models.StatusPublished,
	}
	for _, status := range statuses {
		_, err := f.posts.CreatePost(ctx, "owner", models.CreatePostRequest{
			Title: "p", Platform: models.PlatformLinkedIn, ContentType: models.ContentTypeStatic, Status: status,
		})
		require.NoError(t, err)
	}
	f.createPost(t, "someone-else", "not counted")

	stats, err := f.stats.ComputeStats(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.Total)
	assert.Equal(t, int64(2), stats.Ideas)
	assert.Equal(t, int64(4), stats.InProgress)
	assert.Equal(t, int64(1), stats.Ready)
	assert.Equal(t, int64(1), stats.Published)
	assert.Equal(t, int64(8), stats.ByPlatform[models.PlatformLinkedIn])
	assert.Equal(t, int64(0), stats.ByPlatform[models.PlatformYouTube])
	requireConsistent(t, stats)
}

func TestStatsService_StatusChangeMovesBuckets(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()

	post := f.createPost(t, "owner", "Scenario")
	got, err := f.posts.GetPost(ctx, "owner", post.PostID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusIdea, got.Status)
	assert.Equal(t, models.PriorityMedium, got.Priority)

	before, err := f.stats.ComputeStats(ctx, "owner")
	require.NoError(t, err)

	_, err = f.posts.SetStatus(ctx, "owner", post.PostID, models.StatusPublished)
	require.NoError(t, err)

	after, err := f.stats.ComputeStats(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, before.Published+1, after.Published)
	assert.Equal(t, before.Ideas-1, after.Ideas)
	requireConsistent(t, after)
}

func TestStatsService_ListDistinctTags(t *testing.T) {
	f := newFixture(t, false)
	f.cfg.TagsLimit = 2
	ctx := context.Background()

	for _, tags := range [][]string{{"gamma", "alpha"}, {"beta", "alpha"}} {
		_, err := f.posts.CreatePost(ctx, "owner", models.CreatePostRequest{
			Title: "t", Platform: models.PlatformTwitter, ContentType: models.ContentTypeThread, Tags: tags,
		})
		require.NoError(t, err)
	}

	tags, err := f.stats.ListDistinctTags(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, tags)

	none, err := f.stats.ListDistinctTags(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, []string{}, none)
}
