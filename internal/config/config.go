// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

type Config struct {
	// Storage
	DataDir       string
	DBPath        string
	SourcesPath   string
	DBBusyTimeout time.Duration

	// HTTP
	HTTPAddr    string
	CORSOrigins []string

	// AI summarization
	AIProvider       string
	AIModel          string
	AITimeout        time.Duration
	AIReinitInterval time.Duration
	MaxAIRequests    int // per day (0 = unlimited)

	// Feeds
	FeedTimeout         time.Duration
	FeedUserAgent       string
	MaxEntriesPerSource int

	Debug bool
}

func Load() (*Config, error) {
	cfg := &Config{
		// Default values
		DataDir:             filepath.Join(xdg.DataHome, "sportabase"),
		DBBusyTimeout:       30 * time.Second,
		HTTPAddr:            ":8000",
		CORSOrigins:         []string{"*"},
		AIProvider:          ProviderGemini,
		AITimeout:           30 * time.Second,
		AIReinitInterval:    60 * time.Second,
		FeedTimeout:         12 * time.Second,
		FeedUserAgent:       "Sportabase/0.2 (+rss-first)",
		MaxEntriesPerSource: 40,
	}

	cfg.DataDir = getEnvOrDefault("DATA_DIR", cfg.DataDir)
	cfg.DBPath = getEnvOrDefault("DB_PATH", filepath.Join(cfg.DataDir, "sportabase.db"))
	cfg.SourcesPath = getEnvOrDefault("SOURCES_PATH", filepath.Join(cfg.DataDir, "sources.yaml"))
	cfg.HTTPAddr = getEnvOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.FeedUserAgent = getEnvOrDefault("FEED_USER_AGENT", cfg.FeedUserAgent)

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.CORSOrigins = splitList(origins)
	}

	if p := os.Getenv("AI_PROVIDER"); p != "" {
		cfg.AIProvider = strings.ToLower(strings.TrimSpace(p))
	}
	cfg.AIModel = os.Getenv("AI_MODEL")

	cfg.AITimeout = getEnvDurationOrDefault("AI_TIMEOUT", cfg.AITimeout)
	cfg.AIReinitInterval = getEnvDurationOrDefault("AI_REINIT_INTERVAL", cfg.AIReinitInterval)
	cfg.FeedTimeout = getEnvDurationOrDefault("FEED_TIMEOUT", cfg.FeedTimeout)
	cfg.DBBusyTimeout = getEnvDurationOrDefault("DB_BUSY_TIMEOUT", cfg.DBBusyTimeout)

	cfg.MaxAIRequests = getEnvIntOrDefault("MAX_AI_REQUESTS", 0)
	cfg.MaxEntriesPerSource = getEnvIntOrDefault("MAX_ENTRIES_PER_SOURCE", cfg.MaxEntriesPerSource)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

// AIKey returns the credential for the configured provider. It is read on
// every call so a key added to the environment is picked up without restart.
func (c *Config) AIKey() string {
	switch c.AIProvider {
	case ProviderAnthropic:
		return strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case ProviderOpenAI:
		return strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	default:
		return strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	}
}

func (c *Config) Validate() error {
	switch c.AIProvider {
	case ProviderGemini, ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("AI_PROVIDER must be one of gemini, anthropic, openai (got %q)", c.AIProvider)
	}
	if c.MaxEntriesPerSource <= 0 {
		return fmt.Errorf("MAX_ENTRIES_PER_SOURCE must be positive")
	}
	if c.MaxAIRequests < 0 {
		return fmt.Errorf("MAX_AI_REQUESTS must not be negative")
	}
	if c.FeedTimeout <= 0 || c.AITimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT and AI_TIMEOUT must be positive")
	}
	if c.DBPath == "" || c.SourcesPath == "" {
		return fmt.Errorf("DB_PATH and SOURCES_PATH are required")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
