package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Source   SourceConfig
	Server   ServerConfig
	Render   RenderConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Logging  LoggingConfig
}

type SourceConfig struct {
	// Location is a file path, an http(s) URL, "redis" or "postgres".
	Location     string
	FetchTimeout time.Duration
}

type ServerConfig struct {
	Addr            string
	ShutdownTimeout time.Duration
}

type RenderConfig struct {
	WordBudget        int
	ParallelThreshold int
}

type RedisConfig struct {
	Host        string
	Port        int
	Password    string
	DB          int
	DocumentKey string
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Source: SourceConfig{
			Location:     getEnv("PROFILES_SOURCE", "web/data/isv_profiles.json"),
			FetchTimeout: time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Server: ServerConfig{
			Addr:            getEnv("HTTP_ADDR", ":8080"),
			ShutdownTimeout: time.Duration(getEnvInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
		},
		Render: RenderConfig{
			WordBudget:        getEnvInt("WORD_BUDGET", 200),
			ParallelThreshold: getEnvInt("RENDER_PARALLEL_THRESHOLD", 64),
		},
		Redis: RedisConfig{
			Host:        getEnv("REDIS_HOST", "localhost"),
			Port:        getEnvInt("REDIS_PORT", 6379),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          getEnvInt("REDIS_DB", 0),
			DocumentKey: getEnv("REDIS_DOCUMENT_KEY", "isv:profiles:document"),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "isv"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "isv_directory"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Location) == "" {
		return fmt.Errorf("PROFILES_SOURCE is required")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	if c.Render.WordBudget <= 0 {
		return fmt.Errorf("WORD_BUDGET must be positive, got %d", c.Render.WordBudget)
	}
	if c.Render.ParallelThreshold < 0 {
		return fmt.Errorf("RENDER_PARALLEL_THRESHOLD must not be negative, got %d", c.Render.ParallelThreshold)
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SECONDS must be positive")
	}
	if c.Redis.DocumentKey == "" {
		return fmt.Errorf("REDIS_DOCUMENT_KEY is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
