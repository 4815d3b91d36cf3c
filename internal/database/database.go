package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"contentplanner/internal/config"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// MethodsDB is what the server needs from any store backend beyond the
// repositories: a readiness probe and shutdown.
type MethodsDB interface {
	HealthCheck(ctx context.Context) error
	CloseDB() error
}

type DB struct {
	*sqlx.DB
}

var requiredTables = []string{"users", "posts"}

func ConnectPostgres(cfg *config.Config, log logrus.FieldLogger) (*DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.DbHOST,
		cfg.DB.DbPORT,
		cfg.DB.DbUSER,
		cfg.DB.DbPASSWORD,
		cfg.DB.DbNAME,
		cfg.DB.DbSSLMODE,
	)

	log.WithFields(logrus.Fields{"host": cfg.DB.DbHOST, "db": cfg.DB.DbNAME}).Info("connecting to PostgreSQL")

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	dbStruct := &DB{db}

	if err := dbStruct.RunMigrations(cfg.DB.Migrations); err != nil {
		log.WithError(err).WithField("path", cfg.DB.Migrations).Warn("migrations not applied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbStruct.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres health check: %w", err)
	}

	if count, err := dbStruct.CountTables(ctx); err != nil {
		log.WithError(err).Warn("schema check failed")
	} else if count < len(requiredTables) {
		log.WithField("found", count).Warn("schema incomplete, users and posts tables expected")
	}

	log.Info("connected to PostgreSQL")
	return dbStruct, nil
}

func (db *DB) CloseDB() error {
	return db.DB.Close()
}

func (db *DB) RunMigrations(migrationFilePath string) error {
	migrationSQL, err := os.ReadFile(migrationFilePath)
	if err != nil {
		return fmt.Errorf("read migrations %s: %w", migrationFilePath, err)
	}

	if _, err := db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (db *DB) HealthCheck(ctx context.Context) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}
	return db.PingContext(ctx)
}

// CountTables reports how many of the tables the repositories need exist in
// the public schema.
func (db *DB) CountTables(ctx context.Context) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM information_schema.tables
		WHERE table_schema = 'public' AND table_name = ANY($1)
	`, pq.Array(requiredTables))
	if err != nil {
		return 0, fmt.Errorf("count tables: %w", err)
	}
	return count, nil
}
