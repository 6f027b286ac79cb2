// Package resolver orchestrates the source chain that finds a legislator's
// personal social accounts. Sources are tried in trust order; the first
// candidate that survives scoring wins, and the outcome is persisted even
// when every source came up empty.
package resolver

import (
	"context"
	"time"

	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// Sink receives every resolution outcome, found or not.
type Sink interface {
	Upsert(ctx context.Context, result Result) error
}

// Resolver runs the source chain for one legislator at a time.
type Resolver struct {
	cfg     Config
	chain   []SourceAdapter
	sink    Sink
	log     logging.Logger
	metrics *Metrics
	pacer   *httpx.Pacer
	now     func() time.Time
}

// New creates a Resolver. The chain is tried in the order given; metrics
// may be nil.
func New(cfg Config, chain []SourceAdapter, sink Sink, log logging.Logger, metrics *Metrics) *Resolver {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Resolver{
		cfg:     cfg,
		chain:   chain,
		sink:    sink,
		log:     log,
		metrics: metrics,
		pacer:   httpx.NewPacer(cfg.StageDelay),
		now:     time.Now,
	}
}

// Resolve runs the chain for one (legislator, platform) pair. The returned
// Result has been persisted unless the error says otherwise.
func (r *Resolver) Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (Result, error) {
	log := r.log.WithContext(ctx).With(
		logging.F("legislator_id", id.ID),
		logging.F("legislator", id.DisplayName()),
		logging.F("platform", string(platform)),
	)

	result := Result{
		Legislator: id,
		Platform:   platform,
		Source:     SourceNone,
		ResolvedAt: r.now(),
	}

	for _, stage := range r.chain {
		if !r.stageEnabled(stage.Name()) {
			continue
		}
		if err := r.pacer.Wait(ctx); err != nil {
			return result, err
		}

		start := time.Now()
		finding, err := stage.Resolve(ctx, id, platform)
		elapsed := time.Since(start).Seconds()

		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			r.metrics.recordStage(stage.Name(), "error", elapsed)
			log.Warn("source failed, falling through",
				logging.F("source", string(stage.Name())),
				logging.Err(err),
			)
			continue
		}
		if finding == nil {
			r.metrics.recordStage(stage.Name(), "empty", elapsed)
			log.Debug("source had no candidate", logging.F("source", string(stage.Name())))
			continue
		}
		if finding.Assessment.Tier == scoring.TierLow {
			// Low tier is never persisted as a found account.
			r.metrics.recordStage(stage.Name(), "empty", elapsed)
			log.Debug("low-tier candidate discarded", logging.F("source", string(stage.Name())))
			continue
		}

		r.metrics.recordStage(stage.Name(), "found", elapsed)

		url := finding.CanonicalURL
		result.CanonicalURL = &url
		result.Username = finding.Username
		result.Source = stage.Name()
		result.Tier = finding.Assessment.Tier
		result.NeedsReview = finding.Assessment.NeedsReview
		result.Score = finding.Assessment.Score
		result.Reasons = finding.Assessment.Reasons

		log.Info("account resolved",
			logging.F("source", string(stage.Name())),
			logging.F("url", url),
			logging.F("tier", string(result.Tier)),
			logging.F("needs_review", result.NeedsReview),
		)
		break
	}

	if !result.Found() {
		log.Info("no account resolved")
	}

	if err := r.sink.Upsert(ctx, result); err != nil {
		log.Error("persisting resolution failed", logging.Err(err))
		return result, err
	}

	r.metrics.recordOutcome(result)
	return result, nil
}

func (r *Resolver) stageEnabled(source Source) bool {
	switch source {
	case SourceWebSearch:
		return r.cfg.EnableWebSearch
	case SourceAIAssistant:
		return r.cfg.EnableAIFallback
	default:
		return true
	}
}

// recordStage is nil-safe so tests can run without a registry.
func (m *Metrics) recordStage(source Source, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.RecordStageAttempt(source, outcome, seconds)
}

func (m *Metrics) recordOutcome(result Result) {
	if m == nil {
		return
	}
	tier := string(result.Tier)
	if !result.Found() {
		tier = "none"
	}
	m.RecordResolution(result.Source, tier, string(result.Platform))
	if result.Found() {
		m.RecordAccepted(result.Source, result.Score)
		if result.NeedsReview {
			m.RecordReviewFlag(result.Source, string(result.Platform))
		}
	}
}
