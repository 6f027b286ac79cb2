// Package scoring implements the confidence engine shared by every
// resolution source. It vets candidate social URLs (profile extraction,
// institutional filtering, canonicalization) and scores how well a
// username matches a legislator's names.
package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pressiona/radar-social/pkg/legislator"
)

// Tier is the confidence band of an assessment.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Score thresholds for the tier bands.
const (
	highThreshold   = 8
	mediumThreshold = 4
)

// Match bonuses and penalties.
const (
	tokenMatchPoints      = 3
	civilFullMatchPoints  = 5
	parlTokenPoints       = 2
	officialKeywordPoints = 2
	suspiciousPenalty     = 3
)

// Signal is an external scoring input merged into an assessment, such as
// an assistant confidence report or a verified badge.
type Signal struct {
	Points int
	Reason string
}

// Assessment is the outcome of scoring one candidate. Values are fixed at
// construction; derive a new assessment rather than mutating one.
type Assessment struct {
	Score       int
	Tier        Tier
	NeedsReview bool
	Reasons     []string
}

// Accepted reports whether the candidate survived scoring at all.
// Low-tier candidates are always rejected by callers.
func (a Assessment) Accepted() bool {
	return a.Tier != TierLow
}

// FlagReview derives a new assessment marked for manual review.
func (a Assessment) FlagReview(reason string) Assessment {
	if a.NeedsReview {
		return a
	}
	flagged := a
	flagged.NeedsReview = true
	flagged.Reasons = append(append([]string{}, a.Reasons...), reason)
	return flagged
}

var tierRank = map[Tier]int{TierLow: 0, TierMedium: 1, TierHigh: 2}

// CapTier derives a new assessment whose tier does not exceed max. A
// capped assessment always needs review.
func (a Assessment) CapTier(max Tier) Assessment {
	if tierRank[a.Tier] <= tierRank[max] {
		return a
	}
	capped := a
	capped.Tier = max
	capped.NeedsReview = max != TierHigh
	capped.Reasons = append(append([]string{}, a.Reasons...), "tier capped by scan scope")
	return capped
}

var (
	digitRun = regexp.MustCompile(`[0-9]{4,}`)

	// Substring red flags.
	impostorSubstrings = []string{"fake", "parody", "parodia"}

	// Segment-equality red flags, checked against username chunks so that
	// "fabio" is not punished for containing "fa".
	impostorSegments = map[string]struct{}{"fan": {}, "fa": {}, "bot": {}}

	officialKeywords = []string{"deputado", "deputada", "dep", "senador", "senadora", "federal", "oficial"}

	segmentSplitter = regexp.MustCompile(`[0-9_.]+`)
)

// Score rates how plausibly rawURL is the legislator's own account on the
// given platform. Extra signals from the caller are merged into the total
// before the tier is derived.
func Score(tokens legislator.Tokens, platform legislator.Platform, rawURL string, extra ...Signal) Assessment {
	username, ok := ExtractUsername(platform, rawURL)
	if !ok {
		return Assessment{
			Score:       0,
			Tier:        TierLow,
			NeedsReview: true,
			Reasons:     []string{"not a profile URL"},
		}
	}

	normalized := legislator.NormalizeName(strings.TrimPrefix(username, "@"))
	normalized = strings.ReplaceAll(normalized, " ", "")
	lowerURL := strings.ToLower(rawURL)

	score := 0
	var reasons []string
	matched := 0

	for _, tok := range tokens.All {
		if strings.Contains(normalized, tok) {
			score += tokenMatchPoints
			matched++
			reasons = append(reasons, fmt.Sprintf("name token %q", tok))
		}
	}

	if tokens.CivilFirst != "" && tokens.CivilLast != "" && tokens.CivilFirst != tokens.CivilLast &&
		strings.Contains(normalized, tokens.CivilFirst) && strings.Contains(normalized, tokens.CivilLast) {
		score += civilFullMatchPoints
		reasons = append(reasons, "full civil name")
	}
	if tokens.ParlFirst != "" && strings.Contains(normalized, tokens.ParlFirst) {
		score += parlTokenPoints
		reasons = append(reasons, "parliamentary first token")
	}
	if tokens.ParlLast != "" && tokens.ParlLast != tokens.ParlFirst && strings.Contains(normalized, tokens.ParlLast) {
		score += parlTokenPoints
		reasons = append(reasons, "parliamentary last token")
	}

	for _, kw := range officialKeywords {
		if containsKeyword(normalized, kw) || containsKeyword(lowerURL, kw) {
			score += officialKeywordPoints
			reasons = append(reasons, fmt.Sprintf("official keyword %q", kw))
		}
	}

	if digitRun.MatchString(username) {
		score -= suspiciousPenalty
		reasons = append(reasons, "long digit run")
	}
	for _, sub := range impostorSubstrings {
		if strings.Contains(normalized, sub) {
			score -= suspiciousPenalty
			reasons = append(reasons, fmt.Sprintf("impostor marker %q", sub))
		}
	}
	for _, seg := range segmentSplitter.Split(normalized, -1) {
		if _, bad := impostorSegments[seg]; bad {
			score -= suspiciousPenalty
			reasons = append(reasons, fmt.Sprintf("impostor segment %q", seg))
		}
	}
	if matched == 0 && genericCountryHandle(normalized) {
		score -= suspiciousPenalty
		reasons = append(reasons, "generic country handle")
	}

	for _, sig := range extra {
		score += sig.Points
		reasons = append(reasons, sig.Reason)
	}

	tier, review := tierFor(score)
	return Assessment{Score: score, Tier: tier, NeedsReview: review, Reasons: reasons}
}

// containsKeyword matches a keyword at segment granularity for short
// keywords like "dep" and by substring for the longer ones.
func containsKeyword(s, kw string) bool {
	if len(kw) > 3 {
		return strings.Contains(s, kw)
	}
	for _, seg := range segmentSplitter.Split(s, -1) {
		if strings.HasPrefix(seg, kw) {
			return true
		}
	}
	return false
}

func genericCountryHandle(username string) bool {
	return strings.HasSuffix(username, "br") || strings.Contains(username, "brasil")
}

func tierFor(score int) (Tier, bool) {
	switch {
	case score >= highThreshold:
		return TierHigh, false
	case score >= mediumThreshold:
		return TierMedium, true
	default:
		return TierLow, true
	}
}
