package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds management API service token configuration
type JWTConfig struct {
	Secret string
	Expiry time.Duration
}

// RateLimitConfig holds quota configuration.
//
// The anti-abuse limit applies per fingerprint before any credential lookup
// and is global, not per credential. The hourly/daily defaults apply to
// credentials created without explicit quotas. Exact numbers are tuning,
// not behavior.
type RateLimitConfig struct {
	AntiAbuseLimit     int
	AntiAbuseWindow    time.Duration
	DefaultHourlyLimit int
	DefaultDailyLimit  int
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "notifygate"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret: getEnv("ADMIN_JWT_SECRET", "change-this-in-production"),
			Expiry: getEnvAsDuration("ADMIN_JWT_EXPIRY", 1*time.Hour),
		},
		RateLimit: RateLimitConfig{
			AntiAbuseLimit:     getEnvAsInt("ANTI_ABUSE_LIMIT", 1000),
			AntiAbuseWindow:    getEnvAsDuration("ANTI_ABUSE_WINDOW", time.Minute),
			DefaultHourlyLimit: getEnvAsInt("DEFAULT_HOURLY_LIMIT", 1000),
			DefaultDailyLimit:  getEnvAsInt("DEFAULT_DAILY_LIMIT", 10000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
