package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"eventfinder/shared/go/validator"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// CORS configuration
	CORS CORSConfig

	// Logging configuration
	Logging LoggingConfig

	// Upstream event provider
	Ticketmaster TicketmasterConfig

	// Optional geographic dataset database
	Database DatabaseConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port int    `name:"PORT" validate:"min=1,max=65535"`
	Host string `name:"HOST"`
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `name:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format string `name:"LOG_FORMAT" validate:"oneof=json text"`
}

// TicketmasterConfig holds Discovery API settings. An empty APIKey is
// allowed; searches then report the key as missing.
type TicketmasterConfig struct {
	APIKey        string
	BaseURL       string  `name:"TICKETMASTER_BASE_URL" validate:"required,url"`
	RatePerSecond float64 `name:"TICKETMASTER_RATE_PER_SEC" validate:"gt=0"`
	PageSize      int     `name:"TICKETMASTER_PAGE_SIZE" validate:"min=1,max=200"`
}

// DatabaseConfig holds the optional Postgres URL for the geo dataset.
type DatabaseConfig struct {
	URL string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}

	if err := cfg.loadServer(); err != nil {
		return nil, fmt.Errorf("load server config: %w", err)
	}

	if err := cfg.loadTicketmaster(); err != nil {
		return nil, fmt.Errorf("load ticketmaster config: %w", err)
	}

	cfg.loadCORS()
	cfg.loadLogging()
	cfg.Database.URL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadServer() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8000"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	c.Server.Port = port
	c.Server.Host = getEnvOrDefault("HOST", "0.0.0.0")
	return nil
}

func (c *Config) loadTicketmaster() error {
	c.Ticketmaster.APIKey = strings.TrimSpace(os.Getenv("TICKETMASTER_API_KEY"))
	c.Ticketmaster.BaseURL = strings.TrimRight(
		getEnvOrDefault("TICKETMASTER_BASE_URL", "https://app.ticketmaster.com/discovery/v2"), "/")

	rps, err := strconv.ParseFloat(getEnvOrDefault("TICKETMASTER_RATE_PER_SEC", "5"), 64)
	if err != nil {
		return fmt.Errorf("invalid TICKETMASTER_RATE_PER_SEC: %w", err)
	}
	c.Ticketmaster.RatePerSecond = rps

	size, err := strconv.Atoi(getEnvOrDefault("TICKETMASTER_PAGE_SIZE", "50"))
	if err != nil {
		return fmt.Errorf("invalid TICKETMASTER_PAGE_SIZE: %w", err)
	}
	c.Ticketmaster.PageSize = size
	return nil
}

func (c *Config) loadCORS() {
	originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	if originsEnv != "" {
		origins := strings.Split(originsEnv, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		c.CORS.AllowedOrigins = origins
	} else {
		// Default for local development
		c.CORS.AllowedOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
}

func (c *Config) loadLogging() {
	c.Logging.Level = getEnvOrDefault("LOG_LEVEL", "info")
	c.Logging.Format = getEnvOrDefault("LOG_FORMAT", "json")
}

// Validate checks that all configuration values are in range
func (c *Config) Validate() error {
	v := validator.New()

	var errors []string
	for _, section := range []any{c.Server, c.Logging, c.Ticketmaster} {
		errors = append(errors, validator.Messages(v.Struct(section))...)
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
