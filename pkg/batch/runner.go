// Package batch runs the resolution chain over a whole house of Congress.
// Processing is strictly sequential with politeness delays so the scraped
// sites see a slow, single-visitor access pattern.
package batch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/store"
)

// Config controls a batch run.
type Config struct {
	// Delay between legislators.
	Delay time.Duration `yaml:"delay"`

	// PauseEvery inserts a longer pause after this many legislators.
	PauseEvery int `yaml:"pause_every"`

	// PauseDuration is the length of the longer pause.
	PauseDuration time.Duration `yaml:"pause_duration"`

	// Limit caps how many legislators are processed; zero means all.
	Limit int `yaml:"limit"`

	// Platforms resolved per legislator.
	Platforms []legislator.Platform `yaml:"platforms"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		Delay:         1500 * time.Millisecond,
		PauseEvery:    10,
		PauseDuration: 5 * time.Second,
		Platforms:     []legislator.Platform{legislator.PlatformTwitter},
	}
}

// Validate fills zero values with defaults.
func (c *Config) Validate() error {
	if c.Delay < 0 {
		c.Delay = 0
	}
	if c.PauseEvery <= 0 {
		c.PauseEvery = 10
	}
	if c.PauseDuration < 0 {
		c.PauseDuration = 0
	}
	if len(c.Platforms) == 0 {
		c.Platforms = []legislator.Platform{legislator.PlatformTwitter}
	}
	return nil
}

// AccountResolver is the slice of resolver.Resolver the runner needs.
type AccountResolver interface {
	Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (resolver.Result, error)
}

// Summary is the outcome of one batch run.
type Summary struct {
	RunID     string
	Processed int
	Found     int
	Flagged   int
	Failed    int
	Skipped   int
}

// Runner drives sequential resolutions over a list of legislators.
type Runner struct {
	cfg      Config
	resolver AccountResolver
	cache    *store.Cache
	log      logging.Logger
}

// New creates a Runner. The cache may be nil.
func New(cfg Config, accountResolver AccountResolver, cache *store.Cache, log logging.Logger) *Runner {
	_ = cfg.Validate()
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Runner{cfg: cfg, resolver: accountResolver, cache: cache, log: log}
}

// Run processes identities one by one and returns the run summary. It
// stops early only when the context is cancelled.
func (r *Runner) Run(ctx context.Context, identities []legislator.Identity) (Summary, error) {
	summary := Summary{RunID: uuid.NewString()}
	ctx = context.WithValue(ctx, logging.RunIDKey, summary.RunID)
	log := r.log.WithContext(ctx)

	total := len(identities)
	if r.cfg.Limit > 0 && r.cfg.Limit < total {
		total = r.cfg.Limit
	}
	log.Info("batch run starting",
		logging.F("legislators", total),
		logging.F("platforms", len(r.cfg.Platforms)),
	)

	for i, id := range identities {
		if r.cfg.Limit > 0 && i >= r.cfg.Limit {
			break
		}
		if i > 0 {
			if err := sleep(ctx, r.cfg.Delay); err != nil {
				return summary, err
			}
			if i%r.cfg.PauseEvery == 0 {
				if err := sleep(ctx, r.cfg.PauseDuration); err != nil {
					return summary, err
				}
			}
		}

		for _, platform := range r.cfg.Platforms {
			seen, err := r.cache.Seen(ctx, id.ID, platform)
			if err != nil {
				log.Warn("cache lookup failed", logging.Err(err))
			}
			if seen {
				summary.Skipped++
				continue
			}

			result, err := r.resolver.Resolve(ctx, id, platform)
			if err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				summary.Failed++
				log.Error("resolution failed",
					logging.F("legislator_id", id.ID),
					logging.F("platform", string(platform)),
					logging.Err(err),
				)
				continue
			}

			summary.Processed++
			if result.Found() {
				summary.Found++
				if result.NeedsReview {
					summary.Flagged++
				}
			}

			if err := r.cache.MarkResolved(ctx, id.ID, platform); err != nil {
				log.Warn("cache mark failed", logging.Err(err))
			}
		}
	}

	log.Info("batch run finished",
		logging.F("processed", summary.Processed),
		logging.F("found", summary.Found),
		logging.F("flagged", summary.Flagged),
		logging.F("failed", summary.Failed),
		logging.F("skipped", summary.Skipped),
	)
	return summary, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
