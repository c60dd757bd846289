package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	Auth      AuthConfig
	App       AppConfig
	RateLimit RateLimitConfig
}

type DatabaseConfig struct {
	URL      string // DATABASE_URL wins over the individual DB_* values
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
}

// AuthConfig enables bearer auth when Secret is set
type AuthConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	AutoMigrate    bool
}

type RateLimitConfig struct {
	PerMinute int
}

// ClientConfig configures the API client used by hrmsctl.
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Token   string
}

// loadDotEnv reads .env when present; a missing file is not an error.
func loadDotEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func Load(files ...string) (*Config, error) {
	if err := loadDotEnv(files...); err != nil {
		return nil, err
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		URL:      getEnv("DATABASE_URL", ""),
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "hrms_lite"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}
	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
		AutoMigrate:    autoMigrate,
	}

	perMinute, err := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %w", err)
	}
	config.RateLimit = RateLimitConfig{PerMinute: perMinute}

	accessExpiration, err := time.ParseDuration(getEnv("AUTH_ACCESS_EXPIRATION", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_ACCESS_EXPIRATION: %w", err)
	}
	config.Auth = AuthConfig{
		Secret:           getEnv("AUTH_JWT_SECRET", ""),
		AccessExpiration: accessExpiration,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" && c.Database.Password == "" {
		return fmt.Errorf("DATABASE_URL or DB_PASSWORD is required")
	}
	if c.App.Port <= 0 || c.App.Port > 65535 {
		return fmt.Errorf("APP_PORT must be between 1 and 65535")
	}
	if c.RateLimit.PerMinute < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.Auth.Secret != "" && len(c.Auth.Secret) < 16 {
		return fmt.Errorf("AUTH_JWT_SECRET must be at least 16 characters")
	}
	return nil
}

// AuthEnabled reports whether /api/v1 requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.Secret != ""
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Database.User),
		url.QueryEscape(c.Database.Password),
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadClient reads the client settings. Flags may override the result.
func LoadClient(files ...string) (*ClientConfig, error) {
	if err := loadDotEnv(files...); err != nil {
		return nil, err
	}

	timeout, err := time.ParseDuration(getEnv("HRMS_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HRMS_API_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("HRMS_API_TIMEOUT must be positive")
	}

	return &ClientConfig{
		BaseURL: strings.TrimRight(getEnv("HRMS_API_BASE_URL", ""), "/"),
		Timeout: timeout,
		Token:   getEnv("HRMS_API_TOKEN", ""),
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
