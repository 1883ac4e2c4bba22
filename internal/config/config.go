package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application settings.
type Config struct {
	// Database
	DBPath string

	// Bootstrap admin account
	AdminEmail    string
	AdminPassword string

	// Security
	JWTSecret     string
	JWTExpiration time.Duration
}

// Load reads configuration from environment variables, with a .env file as
// an optional source.
func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		DBPath:        getEnv("DB_PATH", "/tmp/classhub.db"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@classhub.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "changeme"),
		JWTSecret:     getEnv("JWT_SECRET", "classhub_secret_key"),
		JWTExpiration: 24 * time.Hour,
	}

	if raw := os.Getenv("JWT_EXPIRATION"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			config.JWTExpiration = d
		}
	}

	return config, nil
}

// getEnv reads a variable or falls back to the default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
