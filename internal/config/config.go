package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the financebrief application.
type Config struct {
	// API keys for the external services
	TavilyAPIKey string `mapstructure:"tavily_api_key"`
	OpenAIAPIKey string `mapstructure:"openai_api_key"`

	// Base URLs for API endpoints (configurable for testing)
	TavilyBaseURL string `mapstructure:"tavily_base_url"`
	YahooBaseURL  string `mapstructure:"yahoo_base_url"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	// Summarizer model name
	OpenAIModel string `mapstructure:"openai_model"`

	// Aggregation tuning
	WebTopK        int           `mapstructure:"web_top_k"`
	ProfileTopK    int           `mapstructure:"profile_top_k"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxWorkers     int           `mapstructure:"max_workers"`

	// Quote cache
	QuoteCacheTTL  time.Duration `mapstructure:"quote_cache_ttl"`
	QuoteCacheSize int           `mapstructure:"quote_cache_size"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads configuration from environment variables and optional config file.
// Environment variables take precedence over config file values.
//
// Expected environment variables:
//   - TAVILY_API_KEY
//   - OPENAI_API_KEY (optional, summaries are empty without it)
//   - TAVILY_BASE_URL, YAHOO_BASE_URL, OPENAI_BASE_URL (optional, default to production)
//   - OPENAI_MODEL (optional, defaults to gpt-4o-mini)
//   - WEB_TOP_K, PROFILE_TOP_K, REQUEST_TIMEOUT, MAX_WORKERS (optional)
//   - QUOTE_CACHE_TTL, QUOTE_CACHE_SIZE (optional)
//   - LOG_LEVEL (optional: debug, info, warn, error)
func Load() (*Config, error) {
	v := viper.New()

	// Set up environment variable support
	v.SetEnvPrefix("") // No prefix, use full names
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("tavily_base_url", "https://api.tavily.com")
	v.SetDefault("yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_model", "gpt-4o-mini")
	v.SetDefault("web_top_k", 6)
	v.SetDefault("profile_top_k", 2)
	v.SetDefault("request_timeout", 20*time.Second)
	v.SetDefault("max_workers", 4)
	v.SetDefault("quote_cache_ttl", time.Minute)
	v.SetDefault("quote_cache_size", 256)
	v.SetDefault("log_level", "info")

	// Optionally read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.financebrief")

	// Read config file (ignore if not found)
	_ = v.ReadInConfig()

	for _, key := range []string{
		"tavily_api_key", "openai_api_key",
		"tavily_base_url", "yahoo_base_url", "openai_base_url", "openai_model",
		"web_top_k", "profile_top_k", "request_timeout", "max_workers",
		"quote_cache_ttl", "quote_cache_size", "log_level",
	} {
		v.BindEnv(key, strings.ToUpper(key))
	}

	// Unmarshal config into struct (handles both simple and complex fields)
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	var missing []string
	if c.TavilyAPIKey == "" {
		missing = append(missing, "TAVILY_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	var invalid []string
	if c.WebTopK <= 0 {
		invalid = append(invalid, "WEB_TOP_K")
	}
	if c.ProfileTopK <= 0 {
		invalid = append(invalid, "PROFILE_TOP_K")
	}
	if c.RequestTimeout <= 0 {
		invalid = append(invalid, "REQUEST_TIMEOUT")
	}
	if c.MaxWorkers <= 0 {
		invalid = append(invalid, "MAX_WORKERS")
	}
	if c.QuoteCacheTTL < 0 {
		invalid = append(invalid, "QUOTE_CACHE_TTL")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		invalid = append(invalid, "LOG_LEVEL")
	}
	if len(invalid) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
	}

	return nil
}

// ParseLogLevel maps a level name to a slog.Level.
func ParseLogLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}
