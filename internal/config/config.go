package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// Config is built once at process start and injected into every component.
// Either section may be incomplete: a missing database config disables the
// data endpoints, a missing OpenAI config disables the /api/openai endpoints.
// Neither prevents the server from starting.
type Config struct {
	Port     int
	Database DatabaseConfig
	OpenAI   OpenAIConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// Configured reports whether every required connection parameter is present.
func (c DatabaseConfig) Configured() bool {
	return c.Host != "" && c.Port != "" && c.Username != "" && c.Password != "" && c.Database != ""
}

// DSN builds a postgres:// connection URL with credentials properly encoded.
func (c DatabaseConfig) DSN() string {
	userInfo := url.UserPassword(c.Username, c.Password)
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=disable",
		userInfo.String(),
		c.Host,
		c.Port,
		url.PathEscape(c.Database),
	)
}

type OpenAIConfig struct {
	Endpoint   string
	APIKey     string
	APIVersion string
	Deployment string
}

func (c OpenAIConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != ""
}

func Load() Config {
	port, _ := strconv.Atoi(os.Getenv("PORT"))
	if port == 0 {
		port = 3001
	}

	return Config{
		Port: port,
		Database: DatabaseConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			Username: os.Getenv("DB_USERNAME"),
			Password: os.Getenv("DB_PASSWORD"),
			Database: os.Getenv("DB_DATABASE"),
		},
		OpenAI: OpenAIConfig{
			Endpoint:   os.Getenv("AZURE_OPENAI_ENDPOINT"),
			APIKey:     os.Getenv("AZURE_OPENAI_KEY"),
			APIVersion: envOrDefault("AZURE_OPENAI_API_VERSION", "2024-02-01"),
			Deployment: envOrDefault("AZURE_OPENAI_DEPLOYMENT_NAME", "gpt-4"),
		},
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
