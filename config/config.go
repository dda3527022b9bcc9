package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds all settings for the gymlog server.
type Config struct {
	Addr     string
	BasePath string

	// DSN is a MySQL DSN, or "sqlite:<path>" for a local database.
	DSN string

	SessionDir    string
	SessionSecret string
	TokenSecret   string
	CSRFKey       string
	SecureCookies bool

	// APIURL is where the detail pages reach the REST API. Empty means the
	// server talks to its own /api routes.
	APIURL     string
	APITimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads a .env file when present and then the environment.
func Load(log zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not found, using process environment")
	}

	timeout, err := time.ParseDuration(getEnv("GYMLOG_API_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("GYMLOG_API_TIMEOUT: %w", err)
	}
	secure, err := strconv.ParseBool(getEnv("GYMLOG_SECURE_COOKIES", "true"))
	if err != nil {
		return nil, fmt.Errorf("GYMLOG_SECURE_COOKIES: %w", err)
	}

	cfg := &Config{
		Addr:          getEnv("GYMLOG_ADDR", "127.0.0.1:8080"),
		BasePath:      strings.TrimSuffix(getEnv("GYMLOG_BASE_PATH", ""), "/"),
		DSN:           getEnv("GYMLOG_DSN", ""),
		SessionDir:    getEnv("GYMLOG_SESSION_DIR", "sess"),
		SessionSecret: getEnv("GYMLOG_SESSION_SECRET", ""),
		TokenSecret:   getEnv("GYMLOG_TOKEN_SECRET", ""),
		CSRFKey:       getEnv("GYMLOG_CSRF_KEY", ""),
		SecureCookies: secure,
		APIURL:        getEnv("GYMLOG_API_URL", ""),
		APITimeout:    timeout,
		LogLevel:      getEnv("GYMLOG_LOG_LEVEL", "info"),
		LogFormat:     getEnv("GYMLOG_LOG_FORMAT", "console"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required settings.
func (c *Config) Validate() error {
	if c.DSN == "" {
		return fmt.Errorf("GYMLOG_DSN is required")
	}
	if len(c.SessionSecret) < 16 {
		return fmt.Errorf("GYMLOG_SESSION_SECRET must be at least 16 bytes")
	}
	if len(c.TokenSecret) < 16 {
		return fmt.Errorf("GYMLOG_TOKEN_SECRET must be at least 16 bytes")
	}
	if len(c.CSRFKey) != 32 {
		return fmt.Errorf("GYMLOG_CSRF_KEY must be exactly 32 bytes")
	}
	return nil
}

// LogSummary writes the effective configuration with secrets masked.
func (c *Config) LogSummary(log zerolog.Logger) {
	log.Info().
		Str("addr", c.Addr).
		Str("base_path", c.BasePath).
		Str("dsn", MaskString(c.DSN)).
		Str("api_url", c.APIURL).
		Dur("api_timeout", c.APITimeout).
		Str("session_secret", MaskString(c.SessionSecret)).
		Msg("configuration loaded")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// MaskString hides all but the edges of a secret.
func MaskString(s string) string {
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
