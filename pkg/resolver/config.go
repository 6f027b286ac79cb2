package resolver

import (
	"time"
)

// Config controls the resolution chain.
type Config struct {
	// EnableWebSearch toggles the search-engine stage.
	EnableWebSearch bool `yaml:"enable_web_search"`

	// EnableAIFallback toggles the assistant stage.
	EnableAIFallback bool `yaml:"enable_ai_fallback"`

	// StageDelay is the politeness pause between stages that hit the
	// network. Zero disables it (tests).
	StageDelay time.Duration `yaml:"stage_delay"`

	// Platforms resolved per legislator, in order.
	Platforms []string `yaml:"platforms"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		EnableWebSearch:  true,
		EnableAIFallback: true,
		StageDelay:       1500 * time.Millisecond,
		Platforms:        []string{"twitter"},
	}
}

// Validate fills zero values with defaults.
func (c *Config) Validate() error {
	if c.StageDelay < 0 {
		c.StageDelay = 0
	}
	if len(c.Platforms) == 0 {
		c.Platforms = []string{"twitter"}
	}
	return nil
}
