// Package config loads application configuration from environment variables.
// A .env file in the working directory is honoured in development; in
// production the variables are expected to come from the environment itself.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. The types reflect how the values are used:
// strings for identifiers and secrets, ints for durations and costs.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port string `env:"APP_PORT" envDefault:"8080"`

	DBUser string `env:"DB_USER,required"`
	DBPass string `env:"DB_PASS"`
	DBHost string `env:"DB_HOST,required"`
	DBPort string `env:"DB_PORT,required"`
	DBName string `env:"DB_NAME,required"`

	JWTSecret      string `env:"JWT_SECRET,required"`
	AccessTTLMin   int    `env:"ACCESS_TOKEN_TTL_MIN" envDefault:"15"`
	RefreshTTLDays int    `env:"REFRESH_TOKEN_TTL_DAYS" envDefault:"7"`
	BcryptCost     int    `env:"BCRYPT_COST" envDefault:"12"`

	// StorageDriver selects where uploaded picture blobs live: "disk"
	// writes under MediaRoot, "s3" targets an S3-compatible bucket.
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"disk"`
	MediaRoot     string `env:"MEDIA_ROOT" envDefault:"media"`
	MediaBaseURL  string `env:"MEDIA_BASE_URL" envDefault:"/media"`

	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3UseSSL    bool   `env:"S3_USE_SSL"`
}

// Load reads configuration from the environment, first merging in a .env
// file when one exists. Missing required variables produce an error rather
// than a partially initialised Config.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("loading .env file: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if cfg.StorageDriver != "disk" && cfg.StorageDriver != "s3" {
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q (want disk or s3)", cfg.StorageDriver)
	}
	if cfg.StorageDriver == "s3" {
		if cfg.S3Endpoint == "" || cfg.S3AccessKey == "" || cfg.S3SecretKey == "" || cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 storage requires S3_ENDPOINT, S3_ACCESS_KEY_ID, S3_SECRET_ACCESS_KEY and S3_BUCKET")
		}
	}
	return &cfg, nil
}
