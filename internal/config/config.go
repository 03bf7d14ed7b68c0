package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all application configuration
type Config struct {
	BotToken          string
	ModeratorPassword string
	Env               string
	HTTPAddr          string
	Storage           string

	Webhook  WebhookConfig
	API      APIConfig
	Redis    RedisConfig
	Database DatabaseConfig
}

// WebhookConfig configures the Telegram webhook in production
type WebhookConfig struct {
	URL    string
	Path   string
	Secret string
}

// APIConfig configures the HTTP surface
type APIConfig struct {
	SignatureSecret string
	BaseURL         string
}

// RedisConfig holds quiz snapshot storage settings. An empty Addr
// disables snapshots.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("REDIS_DB must be a number: %w", err)
	}

	cfg := &Config{
		BotToken:          os.Getenv("BOT_TOKEN"),
		ModeratorPassword: os.Getenv("MODERATOR_PASSWORD"),
		Env:               getEnv("APP_ENV", EnvDevelopment),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		Storage:           getEnv("STORAGE", StoragePostgres),
		Webhook: WebhookConfig{
			URL:    os.Getenv("WEBHOOK_URL"),
			Path:   getEnv("WEBHOOK_PATH", "/telegram/webhook"),
			Secret: os.Getenv("WEBHOOK_SECRET"),
		},
		API: APIConfig{
			SignatureSecret: os.Getenv("API_SIGNATURE_SECRET"),
			BaseURL:         getEnv("API_BASE_URL", "http://localhost:3001"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "glossa"),
			User:     getEnv("DB_USER", "glossa"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if c.ModeratorPassword == "" {
		return fmt.Errorf("MODERATOR_PASSWORD is required")
	}
	if c.API.SignatureSecret == "" {
		return fmt.Errorf("API_SIGNATURE_SECRET is required")
	}

	switch c.Env {
	case EnvProduction:
		if c.Webhook.URL == "" {
			return fmt.Errorf("WEBHOOK_URL is required in production")
		}
	case EnvDevelopment:
	default:
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvProduction, EnvDevelopment, c.Env)
	}

	switch c.Storage {
	case StoragePostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, c.Storage)
	}
	return nil
}

// IsProduction reports whether the bot should use a webhook
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
