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
	Port               string
	APIKey             string // empty = every protected request fails closed with 500
	DBPath             string // empty = report audit store disabled
	CORSAllowedOrigins []string
	Collector          CollectorConfig
	Generator          GeneratorConfig
	Session            SessionConfig
	RateLimit          RateLimitConfig
	ConversationLog    ConversationLogConfig
}

// CollectorConfig controls intelligence report dispatch.
type CollectorConfig struct {
	URL       string
	Timeout   time.Duration
	QueueSize int
	Threshold int
}

// GeneratorConfig selects and configures the reply generator.
type GeneratorConfig struct {
	Provider     string // "gemini", "ollama" or "none"
	GeminiAPIKey string
	GeminiModel  string
	OllamaURL    string
	OllamaModel  string
	Timeout      time.Duration
}

// SessionConfig bounds in-memory transcripts. Zero values keep every session.
type SessionConfig struct {
	MaxSessions int
	IdleTTL     time.Duration
}

// RateLimitConfig controls per-client throttling of the honeypot endpoint.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled   bool
	Dir       string
	QueueSize int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	collectorURL := getEnv("COLLECTOR_URL", "")
	if collectorURL == "" {
		collectorURL = getEnv("GUVI_CALLBACK_URL", "")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		APIKey:             getEnv("API_KEY", ""),
		DBPath:             getEnv("DB_PATH", "./data/honeypot.db"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		Collector: CollectorConfig{
			URL:       collectorURL,
			Timeout:   getEnvDuration("REPORT_TIMEOUT", 5*time.Second),
			QueueSize: getEnvInt("REPORT_QUEUE_SIZE", 100),
			Threshold: getEnvInt("REPORT_THRESHOLD", 2),
		},
		Generator: GeneratorConfig{
			Provider:     strings.ToLower(getEnv("GENERATOR_PROVIDER", "gemini")),
			GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
			GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:  getEnv("OLLAMA_MODEL", "llama3.2"),
			Timeout:      getEnvDuration("GENERATOR_TIMEOUT", 5*time.Second),
		},
		Session: SessionConfig{
			MaxSessions: getEnvInt("SESSION_MAX", 0),
			IdleTTL:     getEnvDuration("SESSION_IDLE_TTL", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: getEnvInt("RATE_LIMIT_REQUESTS", 60),
			WindowDuration:    getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		ConversationLog: ConversationLogConfig{
			Enabled:   getEnvBool("CONVERSATION_LOG_ENABLED", false),
			Dir:       getEnv("CONVERSATION_LOG_DIR", "./data/logs/conversations"),
			QueueSize: getEnvInt("CONVERSATION_LOG_QUEUE_SIZE", 1000),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
// A missing API_KEY is deliberately not an error here: protected routes fail closed per request.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	switch c.Generator.Provider {
	case "gemini", "ollama", "none":
	default:
		return fmt.Errorf("GENERATOR_PROVIDER must be one of gemini, ollama, none (got %q)", c.Generator.Provider)
	}
	if c.Generator.Timeout <= 0 {
		return fmt.Errorf("GENERATOR_TIMEOUT must be > 0")
	}
	if c.Collector.Timeout <= 0 {
		return fmt.Errorf("REPORT_TIMEOUT must be > 0")
	}
	if c.Collector.QueueSize <= 0 {
		return fmt.Errorf("REPORT_QUEUE_SIZE must be > 0")
	}
	if c.Collector.Threshold <= 0 {
		return fmt.Errorf("REPORT_THRESHOLD must be > 0")
	}
	if c.Session.MaxSessions < 0 {
		return fmt.Errorf("SESSION_MAX cannot be negative")
	}
	if c.Session.IdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL cannot be negative")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.ConversationLog.Enabled && c.ConversationLog.Dir == "" {
		return fmt.Errorf("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return fmt.Errorf("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	return nil
}

// ReportStoreEnabled reports whether dispatched reports are persisted.
func (c *Config) ReportStoreEnabled() bool {
	return c.DBPath != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
