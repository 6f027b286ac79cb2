package resolver

import (
	"context"
	"time"

	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// Source identifies which stage of the chain produced a result.
type Source string

const (
	SourceStructuredAPI     Source = "structured_api"
	SourceInstitutionalSite Source = "institutional_site"
	SourceWebSearch         Source = "web_search"
	SourceAIAssistant       Source = "ai_assistant"
	SourceNone              Source = "none"
)

// Finding is one vetted candidate produced by a source adapter. The
// canonical URL has already been rebuilt and institutional accounts have
// already been filtered out by the adapter.
type Finding struct {
	Platform     legislator.Platform
	CanonicalURL string
	Username     string
	Assessment   scoring.Assessment
}

// SourceAdapter is one stage of the resolution chain. A nil Finding with a
// nil error means the source answered but had nothing; an error means the
// source failed and the chain should fall through.
type SourceAdapter interface {
	Name() Source
	Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (*Finding, error)
}

// Result is the outcome of one (legislator, platform) resolution. It is
// persisted whether or not an account was found.
type Result struct {
	Legislator legislator.Identity
	Platform   legislator.Platform

	// CanonicalURL is nil when no account was resolved. When set, Source,
	// Tier and Username are always populated.
	CanonicalURL *string
	Username     string

	Source      Source
	Tier        scoring.Tier
	NeedsReview bool
	Score       int
	Reasons     []string

	ResolvedAt time.Time
}

// Found reports whether an account was resolved.
func (r Result) Found() bool {
	return r.CanonicalURL != nil
}
