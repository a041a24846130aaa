// Package config provides configuration management for the wealth analytics
// service. It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Cache     CacheConfig
	Query     QueryConfig
	RateLimit RateLimitConfig
	Refresh   RefreshConfig
	Logging   LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Warehouse WarehouseConfig
	Policy    PolicyStoreConfig
	Redis     RedisConfig
}

// WarehouseConfig holds ClickHouse warehouse configuration
type WarehouseConfig struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// PolicyStoreConfig holds the optional Postgres policy-store configuration.
// When Host is empty the service runs on compiled-in policy defaults.
type PolicyStoreConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// Enabled reports whether a policy store is configured
func (c *PolicyStoreConfig) Enabled() bool {
	return c.Host != ""
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// CacheConfig holds result-cache TTLs. KPIs change slowly and are cached for
// minutes; everything else is cached just long enough to absorb repeated
// renders of the same dashboard.
type CacheConfig struct {
	KPITTL    time.Duration
	ResultTTL time.Duration
}

// QueryConfig holds warehouse query execution settings
type QueryConfig struct {
	Timeout    time.Duration
	MaxRetries int
}

// RateLimitConfig holds API rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// RefreshConfig holds the KPI cache warmer schedule
type RefreshConfig struct {
	Enabled  bool
	Interval time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// Load .env file (optional in production)
	if err := godotenv.Load(); err != nil {
		// .env file is optional - environment variables can be set directly
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Warehouse: WarehouseConfig{
				Host:     getEnv("CLICKHOUSE_HOST", "localhost"),
				Port:     getEnv("CLICKHOUSE_PORT", "9000"),
				Database: getEnv("CLICKHOUSE_DB", "wealth360"),
				User:     getEnv("CLICKHOUSE_USER", "default"),
				Password: getEnv("CLICKHOUSE_PASSWORD", ""),
			},
			Policy: PolicyStoreConfig{
				Host:           getEnv("POLICY_DB_HOST", ""),
				Port:           getEnv("POLICY_DB_PORT", "5432"),
				Database:       getEnv("POLICY_DB_NAME", "wealth360_policy"),
				User:           getEnv("POLICY_DB_USER", "analytics"),
				Password:       getEnv("POLICY_DB_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POLICY_DB_MAX_CONNECTIONS", 10),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", "localhost"),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 50),
			},
		},
		Cache: CacheConfig{
			KPITTL:    getEnvAsDuration("CACHE_KPI_TTL", 10*time.Minute),
			ResultTTL: getEnvAsDuration("CACHE_RESULT_TTL", 30*time.Second),
		},
		Query: QueryConfig{
			Timeout:    getEnvAsDuration("QUERY_TIMEOUT", 30*time.Second),
			MaxRetries: getEnvAsInt("QUERY_MAX_RETRIES", 2),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Refresh: RefreshConfig{
			Enabled:  getEnvAsBool("KPI_REFRESH_ENABLED", true),
			Interval: getEnvAsDuration("KPI_REFRESH_INTERVAL", 10*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsBool gets an environment variable as a boolean with a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
