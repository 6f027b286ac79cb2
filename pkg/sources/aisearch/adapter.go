package aisearch

import (
	"context"
	"fmt"
	"sort"

	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// Assistant confidence at or above this adds a scoring signal; below it
// the result is always flagged for review.
const confidenceSignalThreshold = 0.8

const systemPrompt = `You are a research assistant that locates the authentic personal social media accounts of Brazilian federal legislators. Answer with pure JSON only, no prose and no markdown, in exactly this shape:
{"status": "found" | "not_found", "results": [{"platform": string, "url": string, "username": string, "confidence_score": number between 0 and 1, "verified": boolean, "follower_count": number, "description": string}]}
Only include accounts you believe belong to the person themselves. Never include the parliament's institutional accounts.`

// Completer is the slice of Client the adapter needs.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Adapter implements the assistant stage.
type Adapter struct {
	client Completer
	log    logging.Logger
}

// NewAdapter creates the assistant-stage adapter.
func NewAdapter(client Completer, log logging.Logger) *Adapter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Adapter{client: client, log: log}
}

func (a *Adapter) Name() resolver.Source {
	return resolver.SourceAIAssistant
}

// Resolve asks the assistant for a profile report and re-derives the
// confidence tier locally, merging the assistant's own confidence and
// verification flags as extra signals.
func (a *Adapter) Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (*resolver.Finding, error) {
	raw, err := a.client.Complete(ctx, systemPrompt, userPrompt(id, platform))
	if err != nil {
		return nil, err
	}

	report, err := ParseReport(raw)
	if err != nil {
		return nil, err
	}
	if !report.Found() {
		return nil, nil
	}

	candidates := make([]ReportResult, len(report.Results))
	copy(candidates, report.Results)
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Verified != candidates[j].Verified {
			return candidates[i].Verified
		}
		return candidates[i].Confidence > candidates[j].Confidence
	})

	tokens := legislator.NameTokens(id.CivilName, id.ParliamentaryName)

	for _, cand := range candidates {
		if cand.Platform != "" && cand.Platform != string(platform) {
			continue
		}
		rawURL := cand.URL
		if rawURL == "" && cand.Username != "" {
			rawURL = scoring.CanonicalURL(platform, cand.Username)
		}

		canonical, username, ok := scoring.Canonicalize(platform, rawURL)
		if !ok || scoring.IsInstitutional(username, rawURL) {
			continue
		}

		var signals []scoring.Signal
		if float64(cand.Confidence) >= confidenceSignalThreshold {
			signals = append(signals, scoring.Signal{Points: 2, Reason: "assistant confidence"})
		}
		if cand.Verified {
			signals = append(signals, scoring.Signal{Points: 2, Reason: "verified badge"})
		}

		assessment := scoring.Score(tokens, platform, rawURL, signals...)
		if float64(cand.Confidence) < confidenceSignalThreshold {
			assessment = assessment.FlagReview("assistant confidence below threshold")
		}
		if !assessment.Accepted() {
			a.log.Debug("assistant candidate rejected by scorer",
				logging.F("legislator_id", id.ID),
				logging.F("url", canonical),
				logging.F("score", assessment.Score),
			)
			continue
		}

		return &resolver.Finding{
			Platform:     platform,
			CanonicalURL: canonical,
			Username:     username,
			Assessment:   assessment,
		}, nil
	}
	return nil, nil
}

func userPrompt(id legislator.Identity, platform legislator.Platform) string {
	return fmt.Sprintf(
		"Find the personal %s account of %s (%s), civil name %q, party %s, state %s, Brazil.",
		platform, id.DisplayName(), id.Role.Keyword(), id.CivilName, id.Party, id.State,
	)
}
