// Package config loads application configuration from an optional YAML file
// with environment-variable overrides. Only this package reads os.Getenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds all application configuration.
type Config struct {
	Env       string `yaml:"env"`
	Addr      string `yaml:"addr"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	Provider ProviderConfig `yaml:"provider"`
	Cache    CacheConfig    `yaml:"cache"`
	Prewarm  PrewarmConfig  `yaml:"prewarm"`

	FetchWorkers int `yaml:"fetch_workers"`
}

// ProviderConfig tunes the market-data client.
type ProviderConfig struct {
	BaseURL           string  `yaml:"base_url"`
	QuoteURL          string  `yaml:"quote_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// CacheConfig tunes the portfolio batch cache.
type CacheConfig struct {
	TTLMinutes int `yaml:"ttl_minutes"`
}

// PrewarmConfig drives the scheduled watchlist refresh. Schedule is a cron
// expression; an empty watchlist disables the job.
type PrewarmConfig struct {
	Schedule  string   `yaml:"schedule"`
	Watchlist []string `yaml:"watchlist"`
}

// Load reads the YAML file at path (if it exists) on top of defaults, then
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Env:       "development",
		Addr:      ":8084",
		LogLevel:  "info",
		LogFormat: "json",
		Cache:     CacheConfig{TTLMinutes: 60},
		Prewarm:   PrewarmConfig{Schedule: "@hourly"},

		FetchWorkers: 4,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.Env = getEnv("FINHEALTH_ENV", cfg.Env)
	cfg.Addr = getEnv("FINHEALTH_ADDR", cfg.Addr)
	cfg.LogLevel = getEnv("FINHEALTH_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("FINHEALTH_LOG_FORMAT", cfg.LogFormat)
	cfg.Provider.BaseURL = getEnv("FINHEALTH_PROVIDER_URL", cfg.Provider.BaseURL)
	cfg.Provider.QuoteURL = getEnv("FINHEALTH_QUOTE_URL", cfg.Provider.QuoteURL)
	cfg.Cache.TTLMinutes = getEnvInt("FINHEALTH_CACHE_TTL_MINUTES", cfg.Cache.TTLMinutes)
	cfg.FetchWorkers = getEnvInt("FINHEALTH_FETCH_WORKERS", cfg.FetchWorkers)
	cfg.Prewarm.Schedule = getEnv("FINHEALTH_PREWARM_SCHEDULE", cfg.Prewarm.Schedule)
	if wl := os.Getenv("FINHEALTH_WATCHLIST"); wl != "" {
		cfg.Prewarm.Watchlist = splitList(wl)
	}

	return cfg, nil
}

// CacheTTL returns the cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMinutes) * time.Minute
}

// ProviderTimeout returns the provider timeout as a duration, zero meaning
// the client default.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
