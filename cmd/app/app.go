package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"contentplanner/internal/config"
	"contentplanner/internal/database"
	handlers "contentplanner/internal/handler"
	"contentplanner/internal/metrics"
	"contentplanner/internal/middleware"
	"contentplanner/internal/repository"
	"contentplanner/internal/service"
	"contentplanner/internal/storage"
)

const metricsNamespace = "contentplanner"

type Application struct {
	DB       database.MethodsDB
	Repo     *repository.Repository
	Services *service.Service
	Redis    *redis.Client
	Metrics  *metrics.Metrics
	Handler  http.Handler
}

// App connects the configured store backend and optional MinIO and redis
// clients, then builds the HTTP handler.
func App(cfg *config.Config, log *logrus.Logger) (*Application, error) {
	db, repo, err := connectStore(cfg, log)
	if err != nil {
		return nil, err
	}

	app := &Application{DB: db, Repo: repo}

	// thumbnails are disabled without MinIO; keep the interface nil
	var store storage.Storage
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := storage.NewMinIOClient(cfg)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("init minio: %w", err)
		}
		if err := minioClient.EnsureBucket(context.Background()); err != nil {
			log.WithError(err).Warn("minio bucket check failed, thumbnail uploads may fail")
		}
		store = minioClient
	} else {
		log.Info("MINIO_ENDPOINT not set, thumbnail uploads disabled")
	}

	if cfg.RateLimit.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		app.Redis = redis.NewClient(opts)
	}

	app.Metrics = metrics.NewMetrics(prometheus.NewRegistry(), metricsNamespace)
	app.Services = service.NewService(repo, cfg, store, app.Metrics, log)
	app.Handler = NewHTTPHandler(cfg, db, app.Services, app.Metrics, app.Redis, log)

	return app, nil
}

func connectStore(cfg *config.Config, log *logrus.Logger) (database.MethodsDB, *repository.Repository, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		db, err := database.ConnectMongo(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return db, repository.NewMongoRepository(db.Database), nil
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return db, repository.NewRepository(db.DB), nil
	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		store := repository.NewMemoryStore()
		return store, store.Repository(), nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// NewHTTPHandler builds the router and the middleware chain around it.
// redisClient may be nil, which disables rate limiting.
func NewHTTPHandler(cfg *config.Config, db database.MethodsDB, services *service.Service, m *metrics.Metrics, redisClient *redis.Client, log logrus.FieldLogger) http.Handler {
	h := handlers.NewHandlers(db, services, cfg, log)

	var protected []mux.MiddlewareFunc
	if redisClient != nil {
		protected = append(protected, mux.MiddlewareFunc(middleware.RateLimitMiddleware(redisClient, cfg.RateLimit.PerMinute, log)))
	}

	router := mux.NewRouter()
	handlers.RegisterRoutes(router, h, m, protected...)

	return middleware.Chain(
		router,
		middleware.LoggingMiddleware(log),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg.CORSOrigins),
	)
}

// Close releases the store and redis connections.
func (a *Application) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.CloseDB())
	}
	return errors.Join(errs...)
}
