package config

import (
	"os"
	"strconv"
	"time"
)

// --- Shared Configs ---

type ServerConfig struct {
	HTTPPort string
	Name     string
	LogLevel string // debug, info, warn, error
	LogFile  string // empty disables file logging
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host string
	Port string
}

type JWTConfig struct {
	Secret   string
	Duration time.Duration
}

// BingoConfig holds all configuration for the bingo service
type BingoConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	RepoType string // memory or db
	Settings BingoSettings
}

type BingoSettings struct {
	SnowflakeNode int
}

// LoadBingoConfig loads configuration for the bingo service from the
// environment
func LoadBingoConfig() *BingoConfig {
	return &BingoConfig{
		Server: ServerConfig{
			HTTPPort: getEnv("BINGO_HTTP_PORT", "8080"),
			Name:     "bingo-service",
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogFile:  getEnv("LOG_FILE", ""),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "bingo_user"),
			Password: getEnv("DB_PASSWORD", "bingo_pass"),
			Name:     getEnv("DB_NAME", "bingo_db"),
		},
		Redis: RedisConfig{
			Host: getEnv("REDIS_HOST", "localhost"),
			Port: getEnv("REDIS_PORT", "6379"),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "dev-secret-change-me"),
			Duration: time.Duration(getEnvInt("JWT_DURATION_HOURS", 24)) * time.Hour,
		},
		RepoType: getEnv("BINGO_REPO_TYPE", "db"),
		Settings: BingoSettings{
			SnowflakeNode: getEnvInt("SNOWFLAKE_NODE", 1),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
