package service

import (
	"contentplanner/internal/config"
	"contentplanner/internal/metrics"
	"contentplanner/internal/repository"
	"contentplanner/internal/storage"

	"github.com/sirupsen/logrus"
)

type Service struct {
	Auth  AuthService
	Post  PostService
	Stats StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, m *metrics.Metrics, log logrus.FieldLogger) *Service {
	return &Service{
		Auth:  NewAuthService(rep.User, cfg),
		Post:  NewPostService(rep.Post, store, m, cfg, log),
		Stats: NewStatsService(rep.Post, cfg),
	}
}
