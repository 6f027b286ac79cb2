package cmd

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

func sampleResult() resolver.Result {
	url := "https://x.com/mariadorosario"
	return resolver.Result{
		Legislator: legislator.Identity{
			ID:                204554,
			ParliamentaryName: "Maria do Rosário",
			Role:              legislator.RoleDeputy,
		},
		Platform:     legislator.PlatformTwitter,
		CanonicalURL: &url,
		Username:     "mariadorosario",
		Source:       resolver.SourceStructuredAPI,
		Tier:         scoring.TierHigh,
		Score:        10,
		ResolvedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderResult_TextFound(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "text", sampleResult()))

	out := buf.String()
	assert.Contains(t, out, "Maria do Rosário")
	assert.Contains(t, out, "https://x.com/mariadorosario")
	assert.Contains(t, out, "source=structured_api")
	assert.NotContains(t, out, "NEEDS REVIEW")
}

func TestRenderResult_TextNeedsReview(t *testing.T) {
	result := sampleResult()
	result.NeedsReview = true
	result.Reasons = []string{"matched parliamentary first name"}

	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "text", result))

	out := buf.String()
	assert.Contains(t, out, "NEEDS REVIEW")
	assert.Contains(t, out, "matched parliamentary first name")
}

func TestRenderResult_TextNotFound(t *testing.T) {
	result := sampleResult()
	result.CanonicalURL = nil
	result.Source = resolver.SourceNone

	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "text", result))

	assert.Contains(t, buf.String(), "no account found")
}

func TestRenderResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, "json", sampleResult()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "mariadorosario", decoded["Username"])
	assert.Equal(t, "structured_api", decoded["Source"])
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	defer versionCmd.SetOut(nil)

	require.NoError(t, versionCmd.RunE(versionCmd, nil))
	assert.Contains(t, buf.String(), "radar version dev")
}
