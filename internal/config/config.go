package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort    int
	DBHost        string
	DBPort        int
	DBName        string
	DBUser        string
	DBPassword    string
	PoolSize      int
	QueryTimeout  time.Duration
	JWTSecret     string
	TokenValidity time.Duration
	UploadDir     string
	StatsSchedule string
	LogLevel      string
	CORSOrigin    string
}

// Load loads configuration from environment variables or sets defaults.
// The JWT secret has no default: startup fails when it is unset.
func Load() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "4000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	poolSize, err := strconv.Atoi(getEnv("DB_POOL_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_POOL_SIZE: %w", err)
	}

	queryTimeout, err := strconv.Atoi(getEnv("DB_QUERY_TIMEOUT_SECONDS", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_QUERY_TIMEOUT_SECONDS: %w", err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:    port,
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        dbPort,
		DBName:        getEnv("DB_NAME", "mensajeria"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		PoolSize:      poolSize,
		QueryTimeout:  time.Duration(queryTimeout) * time.Second,
		JWTSecret:     secret,
		TokenValidity: time.Hour,
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		StatsSchedule: getEnv("STATS_SCHEDULE", "@every 1m"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
	}, nil
}

// DSN assembles the connection string for the pgx driver.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
