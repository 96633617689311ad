// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	domain "github.com/nkhattar/comparekart/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Provider ProviderConfig `yaml:"provider"`
	Engine   EngineConfig   `yaml:"engine"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ProviderConfig defines the remote search provider settings. A category
// missing from Endpoints has no remote source and always uses the
// synthetic catalog.
type ProviderConfig struct {
	APIKey    string            `yaml:"api_key"`
	Endpoints map[string]string `yaml:"endpoints"`
	Timeout   time.Duration     `yaml:"timeout"`
	RateLimit RateLimitConfig   `yaml:"rate_limit"`
}

// RateLimitConfig defines provider call throttling. The hosted search API
// bills per call, so the daily quota is a cost ceiling.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyQuota int64   `yaml:"daily_quota"`
}

// EngineConfig defines query lifecycle tunables.
type EngineConfig struct {
	Debounce        time.Duration `yaml:"debounce"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

// CatalogConfig defines the synthetic catalog generation parameters.
type CatalogConfig struct {
	Seed    int64         `yaml:"seed"`
	Latency time.Duration `yaml:"latency"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation. A missing file yields the
// defaults, so the server runs out of the box on the synthetic catalog.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML: %w", err)
		}
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyProviderDefaults(&cfg.Provider)
	applyEngineDefaults(&cfg.Engine)
	applyCatalogDefaults(&cfg.Catalog)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyProviderDefaults(p *ProviderConfig) {
	if p.Timeout == 0 {
		p.Timeout = 10 * time.Second
	}
	if p.RateLimit.PerSecond == 0 {
		p.RateLimit.PerSecond = 2
	}
	if p.RateLimit.Burst == 0 {
		p.RateLimit.Burst = 5
	}
	if p.RateLimit.DailyQuota == 0 {
		p.RateLimit.DailyQuota = 1000
	}
}

func applyEngineDefaults(e *EngineConfig) {
	if e.Debounce == 0 {
		e.Debounce = 700 * time.Millisecond
	}
	if e.RefreshInterval == 0 {
		e.RefreshInterval = 5 * time.Minute
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Seed == 0 {
		c.Seed = 1
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be 1-65535 (got %d)", cfg.Server.Port))
	}

	for cat := range cfg.Provider.Endpoints {
		if _, err := domain.ParseCategory(cat); err != nil {
			errs = append(errs, fmt.Errorf("provider.endpoints: %w", err))
		}
	}

	if cfg.Engine.Debounce < 0 {
		errs = append(errs, fmt.Errorf("engine.debounce must not be negative"))
	}
	if cfg.Engine.RefreshInterval < time.Second {
		errs = append(errs, fmt.Errorf("engine.refresh_interval must be at least 1s"))
	}

	if cfg.Catalog.Latency < 0 {
		errs = append(errs, fmt.Errorf("catalog.latency must not be negative"))
	}

	return errors.Join(errs...)
}

// CategoryEndpoints converts the raw endpoint map to category keys.
// Validation already rejected unknown categories.
func (p *ProviderConfig) CategoryEndpoints() map[domain.Category]string {
	out := make(map[domain.Category]string, len(p.Endpoints))
	for cat, url := range p.Endpoints {
		out[domain.Category(cat)] = url
	}
	return out
}
