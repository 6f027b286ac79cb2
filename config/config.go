// Package config provides configuration management for the radar command-line
// tool. It supports loading configuration from a YAML file and RADAR_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pressiona/radar-social/pkg/batch"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/sources/aisearch"
	"github.com/pressiona/radar-social/pkg/sources/chamber"
	"github.com/pressiona/radar-social/pkg/sources/senate"
	"github.com/pressiona/radar-social/pkg/sources/site"
	"github.com/pressiona/radar-social/pkg/sources/websearch"
	"github.com/pressiona/radar-social/pkg/store"
)

// Default configuration locations.
const (
	DefaultConfigDir  = ".radar"
	DefaultConfigFile = "config.yaml"
)

// LoggingConfig holds the log output settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level"`

	// Environment is included in all log entries.
	Environment string `yaml:"environment"`

	// JSON enables JSON output instead of the console format.
	JSON bool `yaml:"json"`
}

// Build returns the logging configuration for this section.
func (c LoggingConfig) Build() *logging.Config {
	cfg := logging.DefaultConfig()
	if c.Level != "" {
		cfg.Level = logging.Level(c.Level)
	}
	if c.Environment != "" {
		cfg.Environment = c.Environment
	}
	cfg.JSONFormat = c.JSON
	return cfg
}

// SourceConfig holds the settings of a single open-data source.
type SourceConfig struct {
	// BaseURL overrides the default endpoint of the source.
	BaseURL string `yaml:"base_url"`
}

// DatabaseConfig holds PostgreSQL connection settings. The password is
// never read from the config file, only from RADAR_DB_PASSWORD.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"-"`
	SSLMode  string `yaml:"sslmode"`
}

// Build returns the pool configuration for this section.
func (c DatabaseConfig) Build() *store.DBConfig {
	cfg := store.DefaultDBConfig()
	if c.Host != "" {
		cfg.Host = c.Host
	}
	if c.Port != 0 {
		cfg.Port = c.Port
	}
	if c.Name != "" {
		cfg.Database = c.Name
	}
	if c.User != "" {
		cfg.User = c.User
	}
	if c.Password != "" {
		cfg.Password = c.Password
	}
	if c.SSLMode != "" {
		cfg.SSLMode = c.SSLMode
	}
	return cfg
}

// RedisConfig holds the freshness-cache settings. The cache is optional
// and only used when Enabled is true. The password comes from
// RADAR_REDIS_PASSWORD only.
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"-"`
	DB        int           `yaml:"db"`
	Freshness time.Duration `yaml:"freshness"`
}

// Config holds the full radar configuration.
type Config struct {
	Logging   LoggingConfig    `yaml:"logging"`
	Resolver  resolver.Config  `yaml:"resolver"`
	Chamber   SourceConfig     `yaml:"chamber"`
	Senate    SourceConfig     `yaml:"senate"`
	Site      SourceConfig     `yaml:"site"`
	WebSearch websearch.Config `yaml:"websearch"`
	AISearch  aisearch.Config  `yaml:"aisearch"`
	Database  DatabaseConfig   `yaml:"database"`
	Redis     RedisConfig      `yaml:"redis"`
	Batch     batch.Config     `yaml:"batch"`
}

// DefaultConfig returns a Config with production defaults. The assistant
// API key must still come from the environment.
func DefaultConfig() *Config {
	return &Config{
		Logging:   LoggingConfig{Level: "info"},
		Resolver:  resolver.DefaultConfig(),
		Chamber:   SourceConfig{BaseURL: chamber.DefaultBaseURL},
		Senate:    SourceConfig{BaseURL: senate.DefaultBaseURL},
		WebSearch: websearch.DefaultConfig(),
		AISearch:  aisearch.DefaultConfig(),
		Redis:     RedisConfig{Freshness: store.DefaultFreshness},
		Batch:     batch.DefaultConfig(),
	}
}

// ConfigDir returns the configuration directory path.
// Uses $RADAR_CONFIG_DIR if set, otherwise ~/.radar
func ConfigDir() (string, error) {
	if dir := os.Getenv("RADAR_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// Load loads the configuration. Sources are applied in order, later ones
// override earlier ones:
//  1. Default values
//  2. Config file (path, or ~/.radar/config.yaml when path is empty)
//  3. Environment variables (RADAR_*)
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("getting config path: %w", err)
		}
		// The default file is optional.
		if _, err := os.Stat(p); err == nil {
			path = p
		}
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// fileConfig mirrors Config with durations as strings so the YAML file
// can say "1500ms" or "2s".
type fileConfig struct {
	Logging LoggingConfig `yaml:"logging"`

	Resolver struct {
		EnableWebSearch  *bool    `yaml:"enable_web_search"`
		EnableAIFallback *bool    `yaml:"enable_ai_fallback"`
		StageDelay       string   `yaml:"stage_delay"`
		Platforms        []string `yaml:"platforms"`
	} `yaml:"resolver"`

	Chamber SourceConfig `yaml:"chamber"`
	Senate  SourceConfig `yaml:"senate"`
	Site    SourceConfig `yaml:"site"`

	WebSearch struct {
		BaseURL    string `yaml:"base_url"`
		MaxResults int    `yaml:"max_results"`
		QueryDelay string `yaml:"query_delay"`
	} `yaml:"websearch"`

	AISearch struct {
		BaseURL        string `yaml:"base_url"`
		Model          string `yaml:"model"`
		MaxRetries     int    `yaml:"max_retries"`
		InitialBackoff string `yaml:"initial_backoff"`
		Timeout        string `yaml:"timeout"`
	} `yaml:"aisearch"`

	Database DatabaseConfig `yaml:"database"`

	Redis struct {
		Enabled   bool   `yaml:"enabled"`
		Addr      string `yaml:"addr"`
		DB        int    `yaml:"db"`
		Freshness string `yaml:"freshness"`
	} `yaml:"redis"`

	Batch struct {
		Delay         string   `yaml:"delay"`
		PauseEvery    int      `yaml:"pause_every"`
		PauseDuration string   `yaml:"pause_duration"`
		Limit         int      `yaml:"limit"`
		Platforms     []string `yaml:"platforms"`
	} `yaml:"batch"`
}

// loadFromFile overlays configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if f.Logging.Level != "" {
		cfg.Logging.Level = f.Logging.Level
	}
	if f.Logging.Environment != "" {
		cfg.Logging.Environment = f.Logging.Environment
	}
	cfg.Logging.JSON = f.Logging.JSON

	if f.Resolver.EnableWebSearch != nil {
		cfg.Resolver.EnableWebSearch = *f.Resolver.EnableWebSearch
	}
	if f.Resolver.EnableAIFallback != nil {
		cfg.Resolver.EnableAIFallback = *f.Resolver.EnableAIFallback
	}
	if err := overlayDuration(&cfg.Resolver.StageDelay, f.Resolver.StageDelay, "resolver.stage_delay"); err != nil {
		return err
	}
	if len(f.Resolver.Platforms) > 0 {
		cfg.Resolver.Platforms = f.Resolver.Platforms
	}

	if f.Chamber.BaseURL != "" {
		cfg.Chamber.BaseURL = f.Chamber.BaseURL
	}
	if f.Senate.BaseURL != "" {
		cfg.Senate.BaseURL = f.Senate.BaseURL
	}
	if f.Site.BaseURL != "" {
		cfg.Site.BaseURL = f.Site.BaseURL
	}

	if f.WebSearch.BaseURL != "" {
		cfg.WebSearch.BaseURL = f.WebSearch.BaseURL
	}
	if f.WebSearch.MaxResults != 0 {
		cfg.WebSearch.MaxResults = f.WebSearch.MaxResults
	}
	if err := overlayDuration(&cfg.WebSearch.QueryDelay, f.WebSearch.QueryDelay, "websearch.query_delay"); err != nil {
		return err
	}

	if f.AISearch.BaseURL != "" {
		cfg.AISearch.BaseURL = f.AISearch.BaseURL
	}
	if f.AISearch.Model != "" {
		cfg.AISearch.Model = f.AISearch.Model
	}
	if f.AISearch.MaxRetries != 0 {
		cfg.AISearch.MaxRetries = f.AISearch.MaxRetries
	}
	if err := overlayDuration(&cfg.AISearch.InitialBackoff, f.AISearch.InitialBackoff, "aisearch.initial_backoff"); err != nil {
		return err
	}
	if err := overlayDuration(&cfg.AISearch.Timeout, f.AISearch.Timeout, "aisearch.timeout"); err != nil {
		return err
	}

	if f.Database.Host != "" {
		cfg.Database.Host = f.Database.Host
	}
	if f.Database.Port != 0 {
		cfg.Database.Port = f.Database.Port
	}
	if f.Database.Name != "" {
		cfg.Database.Name = f.Database.Name
	}
	if f.Database.User != "" {
		cfg.Database.User = f.Database.User
	}
	if f.Database.SSLMode != "" {
		cfg.Database.SSLMode = f.Database.SSLMode
	}

	cfg.Redis.Enabled = f.Redis.Enabled
	if f.Redis.Addr != "" {
		cfg.Redis.Addr = f.Redis.Addr
	}
	if f.Redis.DB != 0 {
		cfg.Redis.DB = f.Redis.DB
	}
	if err := overlayDuration(&cfg.Redis.Freshness, f.Redis.Freshness, "redis.freshness"); err != nil {
		return err
	}

	if err := overlayDuration(&cfg.Batch.Delay, f.Batch.Delay, "batch.delay"); err != nil {
		return err
	}
	if f.Batch.PauseEvery != 0 {
		cfg.Batch.PauseEvery = f.Batch.PauseEvery
	}
	if err := overlayDuration(&cfg.Batch.PauseDuration, f.Batch.PauseDuration, "batch.pause_duration"); err != nil {
		return err
	}
	if f.Batch.Limit != 0 {
		cfg.Batch.Limit = f.Batch.Limit
	}
	if len(f.Batch.Platforms) > 0 {
		cfg.Batch.Platforms = toPlatforms(f.Batch.Platforms)
	}

	return nil
}

// overlayDuration parses a duration string onto dst when it is non-empty.
func overlayDuration(dst *time.Duration, raw, field string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", field, err)
	}
	*dst = d
	return nil
}

func toPlatforms(names []string) []legislator.Platform {
	out := make([]legislator.Platform, 0, len(names))
	for _, n := range names {
		out = append(out, legislator.Platform(n))
	}
	return out
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("RADAR_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("RADAR_LOG_JSON"); v == "true" || v == "1" {
		cfg.Logging.JSON = true
	}
	if v := os.Getenv("RADAR_ENVIRONMENT"); v != "" {
		cfg.Logging.Environment = v
	}

	if v := os.Getenv("RADAR_CHAMBER_BASE_URL"); v != "" {
		cfg.Chamber.BaseURL = v
	}
	if v := os.Getenv("RADAR_SENATE_BASE_URL"); v != "" {
		cfg.Senate.BaseURL = v
	}
	if v := os.Getenv("RADAR_SEARCH_BASE_URL"); v != "" {
		cfg.WebSearch.BaseURL = v
	}

	// The assistant key comes from the environment only.
	if v := os.Getenv("RADAR_XAI_API_KEY"); v != "" {
		cfg.AISearch.APIKey = v
	}
	if v := os.Getenv("RADAR_XAI_BASE_URL"); v != "" {
		cfg.AISearch.BaseURL = v
	}
	if v := os.Getenv("RADAR_XAI_MODEL"); v != "" {
		cfg.AISearch.Model = v
	}

	if v := os.Getenv("RADAR_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("RADAR_DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("RADAR_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("RADAR_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("RADAR_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("RADAR_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}

	if v := os.Getenv("RADAR_REDIS_ADDR"); v != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("RADAR_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("RADAR_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
}

// Validate checks the configuration and fills zero values with defaults.
// The assistant section is only validated when a key is present; without
// one the caller is expected to run with the assistant stage disabled.
func (c *Config) Validate() error {
	if err := c.Resolver.Validate(); err != nil {
		return err
	}
	if err := c.WebSearch.Validate(); err != nil {
		return err
	}
	if err := c.Batch.Validate(); err != nil {
		return err
	}
	if c.Chamber.BaseURL == "" {
		c.Chamber.BaseURL = chamber.DefaultBaseURL
	}
	if c.Senate.BaseURL == "" {
		c.Senate.BaseURL = senate.DefaultBaseURL
	}
	if c.Redis.Freshness <= 0 {
		c.Redis.Freshness = store.DefaultFreshness
	}
	if c.AISearch.APIKey != "" {
		if err := c.AISearch.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// AssistantReady reports whether the assistant stage can be built.
func (c *Config) AssistantReady() bool {
	return c.AISearch.APIKey != ""
}

// SiteBases returns the institutional page bases, falling back to the
// production sites. A single override replaces both, which is what the
// tests need.
func (c *Config) SiteBases() (chamberBase, senateBase string) {
	chamberBase = site.DefaultChamberBase
	senateBase = site.DefaultSenateBase
	if c.Site.BaseURL != "" {
		chamberBase = c.Site.BaseURL
		senateBase = c.Site.BaseURL
	}
	return chamberBase, senateBase
}
