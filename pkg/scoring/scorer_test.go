package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressiona/radar-social/pkg/legislator"
)

func tokensFor(civil, parl string) legislator.Tokens {
	return legislator.NameTokens(civil, parl)
}

func TestScore_FullCivilNameAlwaysHigh(t *testing.T) {
	tests := []struct {
		name  string
		civil string
		parl  string
		url   string
	}{
		{"plain handle", "Maria Silva Santos", "Maria do Rosário", "https://x.com/mariasantos"},
		{"with separator", "João Carlos Pereira", "João Carlos", "https://twitter.com/joao_pereira"},
		{"accented name", "José Guimarães Filho", "José Guimarães", "x.com/joseguimaraes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Score(tokensFor(tt.civil, tt.parl), legislator.PlatformTwitter, tt.url)
			assert.Equal(t, TierHigh, a.Tier, "score=%d reasons=%v", a.Score, a.Reasons)
			assert.False(t, a.NeedsReview)
			assert.GreaterOrEqual(t, a.Score, 8)
		})
	}
}

func TestScore_DigitRunWithoutNameMatchAlwaysLow(t *testing.T) {
	tokens := tokensFor("Maria Silva Santos", "Maria do Rosário")

	for _, url := range []string{
		"https://x.com/user19283745",
		"https://x.com/noticias20249",
	} {
		a := Score(tokens, legislator.PlatformTwitter, url)
		assert.Equal(t, TierLow, a.Tier, "url=%s score=%d reasons=%v", url, a.Score, a.Reasons)
		assert.False(t, a.Accepted())
	}
}

func TestScore_MediumTierNeedsReview(t *testing.T) {
	// Last token only: 3 (token) + 2 (parliamentary last) = 5.
	tokens := tokensFor("Carlos Alberto Mendes", "Beto Mendes")
	a := Score(tokens, legislator.PlatformTwitter, "https://x.com/prof_mendes")

	assert.Equal(t, TierMedium, a.Tier, "score=%d reasons=%v", a.Score, a.Reasons)
	assert.True(t, a.NeedsReview)
	assert.True(t, a.Accepted())
}

func TestScore_OfficialKeywordBonus(t *testing.T) {
	tokens := tokensFor("Ana Paula Ribeiro", "Ana Ribeiro")

	plain := Score(tokens, legislator.PlatformTwitter, "https://x.com/anaribeiro")
	official := Score(tokens, legislator.PlatformTwitter, "https://x.com/depanaribeiro")

	assert.Greater(t, official.Score, plain.Score)
	assert.Contains(t, official.Reasons, `official keyword "dep"`)
}

func TestScore_ImpostorMarkers(t *testing.T) {
	tokens := tokensFor("Maria Silva Santos", "")

	genuine := Score(tokens, legislator.PlatformTwitter, "https://x.com/mariasantos")
	fake := Score(tokens, legislator.PlatformTwitter, "https://x.com/mariasantosfake")

	assert.Less(t, fake.Score, genuine.Score)
	assert.Contains(t, fake.Reasons, `impostor marker "fake"`)
}

func TestScore_FanSegmentIsNotSubstringMatched(t *testing.T) {
	// "fabio" must not be punished for containing "fa".
	tokens := tokensFor("Fabio Souza Lima", "Fabio Lima")
	a := Score(tokens, legislator.PlatformTwitter, "https://x.com/fabiolima")

	assert.Equal(t, TierHigh, a.Tier, "score=%d reasons=%v", a.Score, a.Reasons)
	for _, r := range a.Reasons {
		assert.NotContains(t, r, "impostor")
	}
}

func TestScore_FanAccountPenalized(t *testing.T) {
	tokens := tokensFor("Maria Silva Santos", "")
	a := Score(tokens, legislator.PlatformTwitter, "https://x.com/mariasantos_fan")
	assert.Contains(t, a.Reasons, `impostor segment "fan"`)
}

func TestScore_NonProfileURLIsLow(t *testing.T) {
	tokens := tokensFor("Maria Silva Santos", "")

	for _, url := range []string{
		"https://x.com/intent/tweet?text=oi",
		"https://example.com/mariasantos",
		"not a url",
	} {
		a := Score(tokens, legislator.PlatformTwitter, url)
		assert.Equal(t, TierLow, a.Tier, "url=%s", url)
		assert.Contains(t, a.Reasons, "not a profile URL")
	}
}

func TestScore_ExternalSignalsMerged(t *testing.T) {
	// Last-token-only match lands in medium; assistant signals push it high.
	tokens := tokensFor("Carlos Alberto Mendes", "Beto Mendes")
	url := "https://x.com/prof_mendes"

	base := Score(tokens, legislator.PlatformTwitter, url)
	require.Equal(t, TierMedium, base.Tier)

	boosted := Score(tokens, legislator.PlatformTwitter, url,
		Signal{Points: 2, Reason: "assistant confidence"},
		Signal{Points: 2, Reason: "verified badge"},
	)
	assert.Equal(t, TierHigh, boosted.Tier)
	assert.Equal(t, base.Score+4, boosted.Score)
	assert.Contains(t, boosted.Reasons, "verified badge")
}

func TestTierFor_Boundaries(t *testing.T) {
	tests := []struct {
		score      int
		wantTier   Tier
		wantReview bool
	}{
		{12, TierHigh, false},
		{8, TierHigh, false},
		{7, TierMedium, true},
		{4, TierMedium, true},
		{3, TierLow, true},
		{0, TierLow, true},
		{-3, TierLow, true},
	}

	for _, tt := range tests {
		tier, review := tierFor(tt.score)
		assert.Equal(t, tt.wantTier, tier, "score=%d", tt.score)
		assert.Equal(t, tt.wantReview, review, "score=%d", tt.score)
	}
}
