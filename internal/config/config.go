package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DefaultMigrationsPath is resolved against the working directory.
const DefaultMigrationsPath = "migrations/001_create_tables.sql"

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
	// Migrations - path of the schema file applied on connect.
	Migrations string
}

type Mongo struct {
	URL    string
	DbNAME string
}

// MinIO is optional; an empty Endpoint disables thumbnail uploads.
type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	PublicURL  string
}

type RateLimit struct {
	RedisURL  string
	PerMinute int
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	ServerPort      int
	StoreDriver     string
	DB              DB
	Mongo           Mongo
	MinIO           MinIO
	RateLimit       RateLimit
	Log             Log
	JWTSecretKey    string
	TokenTTL        time.Duration
	ListLimit       int
	TagsLimit       int
	CORSOrigins     []string
	MaxUploadSize   int64
	ShutdownTimeout time.Duration

	// EnvFileLoaded reports whether a .env file was read.
	EnvFileLoaded bool
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func parseList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "content_planner"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
		Migrations: getEnv("MIGRATIONS_PATH", DefaultMigrationsPath),
	}
}

func LoadMongo() Mongo {
	return Mongo{
		URL:    getEnv("MONGO_URL", "mongodb://localhost:27017"),
		DbNAME: getEnv("DB_NAME", "content_planner"),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", ""),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "thumbnails"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", ""),
	}
}

func LoadConfig() *Config {
	loaded := godotenv.Load() == nil

	secret := getEnv("JWT_SECRET_KEY", "")
	if secret == "" {
		secret = getEnv("JWT_SECRET", "")
	}

	return &Config{
		ServerPort:  getEnvAsInt("SERVER_PORT", 8080),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMongo)),
		DB:          LoadDB(),
		Mongo:       LoadMongo(),
		MinIO:       LoadMinIO(),
		RateLimit: RateLimit{
			RedisURL:  getEnv("REDIS_URL", ""),
			PerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		},
		Log: Log{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
		JWTSecretKey:    secret,
		TokenTTL:        parseDuration(getEnv("TOKEN_TTL", "168h"), 7*24*time.Hour),
		ListLimit:       getEnvAsInt("LIST_LIMIT", 1000),
		TagsLimit:       getEnvAsInt("TAGS_LIMIT", 100),
		CORSOrigins:     parseList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		MaxUploadSize:   parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
		EnvFileLoaded:   loaded,
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}

// Validate reports configuration the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is not set"))
	}
	switch c.StoreDriver {
	case DriverMongo, DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}
	if c.ListLimit <= 0 {
		errs = append(errs, errors.New("LIST_LIMIT must be positive"))
	}
	if c.TagsLimit <= 0 {
		errs = append(errs, errors.New("TAGS_LIMIT must be positive"))
	}
	return errors.Join(errs...)
}
