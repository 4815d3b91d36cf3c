package service

import (
	"context"

	"contentplanner/internal/config"
	"contentplanner/internal/models"
	"contentplanner/internal/repository"
)

type StatsService interface {
	ComputeStats(ctx context.Context, owner string) (*models.Stats, error)
	ListDistinctTags(ctx context.Context, owner string) ([]string, error)
}

type statsService struct {
	postRepo repository.PostRepository
	cfg      *config.Config
}

func NewStatsService(postRepo repository.PostRepository, cfg *config.Config) StatsService {
	return &statsService{postRepo: postRepo, cfg: cfg}
}

// ComputeStats recomputes the dashboard counters on every call. Every
// platform and status is present in the maps, zero when unused.
func (s *statsService) ComputeStats(ctx context.Context, owner string) (*models.Stats, error) {
	byStatus, err := s.postRepo.CountByStatus(ctx, owner)
	if err != nil {
		return nil, err
	}
	byPlatform, err := s.postRepo.CountByPlatform(ctx, owner)
	if err != nil {
		return nil, err
	}

	stats := &models.Stats{
		ByPlatform: make(map[models.Platform]int64, len(models.Platforms)),
		ByStatus:   make(map[models.Status]int64, len(models.Statuses)),
	}
	for _, platform := range models.Platforms {
		stats.ByPlatform[platform] = byPlatform[string(platform)]
	}
	for _, status := range models.Statuses {
		stats.ByStatus[status] = byStatus[string(status)]
	}

	for key, n := range byStatus {
		stats.Total += n

		status := models.Status(key)
		switch {
		case status == models.StatusIdea:
			stats.Ideas += n
		case status.InProgress():
			stats.InProgress += n
		case status == models.StatusReady:
			stats.Ready += n
		case status == models.StatusPublished:
			stats.Published += n
		}
	}

	return stats, nil
}

func (s *statsService) ListDistinctTags(ctx context.Context, owner string) ([]string, error) {
	tags, err := s.postRepo.DistinctTags(ctx, owner, s.cfg.TagsLimit)
	if err != nil {
		return nil, err
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}
