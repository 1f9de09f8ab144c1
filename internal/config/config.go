// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	FrontendURL string
	DBPath      string

	GeminiAPIKey string
	GeminiModel  string

	StripeSecretKey string
	StripePriceID   string

	PassDuration time.Duration
	PassMemoTTL  time.Duration

	GenerateTimeout time.Duration
	VerifyTimeout   time.Duration

	LedgerRetention time.Duration
	SweepInterval   time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", ""),
		DBPath:      getEnv("DB_PATH", "./data/nicheproof.db"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),

		StripeSecretKey: getEnv("STRIPE_SECRET_KEY", ""),
		StripePriceID:   getEnv("STRIPE_PRICE_ID", ""),

		PassDuration: time.Duration(getEnvInt("PASS_DURATION_HOURS", 24)) * time.Hour,
		PassMemoTTL:  time.Duration(getEnvInt("PASS_MEMO_TTL_SECONDS", 30)) * time.Second,

		GenerateTimeout: time.Duration(getEnvInt("GENERATE_TIMEOUT_SECONDS", 45)) * time.Second,
		VerifyTimeout:   time.Duration(getEnvInt("VERIFY_TIMEOUT_SECONDS", 8)) * time.Second,

		LedgerRetention: time.Duration(getEnvInt("LEDGER_RETENTION_DAYS", 30)) * 24 * time.Hour,
		SweepInterval:   time.Duration(getEnvInt("LEDGER_SWEEP_MINUTES", 60)) * time.Minute,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if c.StripePriceID == "" {
		return fmt.Errorf("STRIPE_PRICE_ID is required")
	}
	if c.PassDuration <= 0 {
		return fmt.Errorf("PASS_DURATION_HOURS must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// PublicBaseURL is the origin checkout redirects return to. Falls back
// to the local server when no frontend URL is configured.
func (c *Config) PublicBaseURL() string {
	if c.FrontendURL != "" {
		return c.FrontendURL
	}
	return "http://localhost:" + c.Port
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
