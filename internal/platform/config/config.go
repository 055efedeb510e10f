// Copyright (c) 2026 Medscope. All rights reserved.
// Author: Medscope backend team

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Storage Backends

const (
	// StorageLocal serves documents from a directory on the local filesystem.
	StorageLocal = "local"

	// StorageS3 serves documents from an S3-compatible bucket.
	StorageS3 = "s3"
)

// # Configuration Schema

// Config holds all runtime configuration for the Medscope API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis), used for the reaper lease.
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Document storage
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`
	UploadsDir     string `env:"UPLOADS_DIR"     envDefault:"./resources/Uploads"`

	// Object Storage (S3-compatible), used when StorageBackend is "s3".
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"     envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	// ReaperInterval is the period between expired download token sweeps.
	ReaperInterval time.Duration `env:"REAPER_INTERVAL" envDefault:"24h"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks cross-field constraints that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StorageBackend {
	case StorageLocal:
		if c.UploadsDir == "" {
			return fmt.Errorf("config: UPLOADS_DIR is required for the local storage backend")
		}
	case StorageS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("config: S3_BUCKET is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("config: unknown STORAGE_BACKEND %q", c.StorageBackend)
	}

	if c.ReaperInterval <= 0 {
		return fmt.Errorf("config: REAPER_INTERVAL must be positive")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// # Seeding

// SeedConfig holds the bootstrap values consumed by cmd/seed.
type SeedConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	AdminEmail     string `env:"SEED_ADMIN_EMAIL,required"`
	AdminPassword  string `env:"SEED_ADMIN_PASSWORD,required"`
	AdminName      string `env:"SEED_ADMIN_NAME"      envDefault:"Admin"`
	AdminFirstName string `env:"SEED_ADMIN_FIRSTNAME" envDefault:"Medscope"`
	APIKeyName     string `env:"SEED_API_KEY_NAME"    envDefault:"bootstrap"`
}

// LoadSeed parses the seeding environment.
func LoadSeed() (*SeedConfig, error) {
	cfg := &SeedConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse seed environment: %w", err)
	}
	return cfg, nil
}
