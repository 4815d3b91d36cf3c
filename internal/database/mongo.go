package database

import (
	"context"
	"fmt"
	"time"

	"contentplanner/internal/config"
	"contentplanner/internal/repository"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// ConnectMongo dials, pings and ensures indexes. Index failures are logged
// rather than fatal so a read-only replica can still serve.
func ConnectMongo(cfg *config.Config, log logrus.FieldLogger) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.WithField("db", cfg.Mongo.DbNAME).Info("connecting to MongoDB")

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.Mongo.URL))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Mongo.DbNAME)
	if err := repository.EnsureMongoIndexes(ctx, db); err != nil {
		log.WithError(err).Warn("ensure mongo indexes failed")
	}

	log.Info("connected to MongoDB")
	return &MongoDB{Client: client, Database: db}, nil
}

func (m *MongoDB) HealthCheck(ctx context.Context) error {
	if m == nil || m.Client == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	return m.Client.Ping(ctx, nil)
}

func (m *MongoDB) CloseDB() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.Client.Disconnect(ctx)
}
