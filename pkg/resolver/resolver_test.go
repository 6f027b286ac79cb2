package resolver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/scoring"
)

type mockAdapter struct {
	mock.Mock
	source Source
}

func (m *mockAdapter) Name() Source { return m.source }

func (m *mockAdapter) Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (*Finding, error) {
	args := m.Called(ctx, id, platform)
	finding, _ := args.Get(0).(*Finding)
	return finding, args.Error(1)
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Upsert(ctx context.Context, result Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func testIdentity() legislator.Identity {
	return legislator.Identity{
		ID:                204554,
		CivilName:         "Maria Silva Santos",
		ParliamentaryName: "Maria do Rosário",
		Party:             "PT",
		State:             "RS",
		Role:              legislator.RoleDeputy,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StageDelay = 0
	return cfg
}

func highFinding(url, username string) *Finding {
	return &Finding{
		Platform:     legislator.PlatformTwitter,
		CanonicalURL: url,
		Username:     username,
		Assessment:   scoring.Assessment{Score: 11, Tier: scoring.TierHigh},
	}
}

func TestResolve_FirstStageShortCircuits(t *testing.T) {
	first := &mockAdapter{source: SourceStructuredAPI}
	second := &mockAdapter{source: SourceInstitutionalSite}
	sink := &mockSink{}

	first.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Return(highFinding("https://x.com/mariasantos", "mariasantos"), nil)
	sink.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	r := New(testConfig(), []SourceAdapter{first, second}, sink, logging.NewNopLogger(), nil)
	result, err := r.Resolve(context.Background(), testIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	require.True(t, result.Found())
	assert.Equal(t, "https://x.com/mariasantos", *result.CanonicalURL)
	assert.Equal(t, SourceStructuredAPI, result.Source)
	assert.Equal(t, scoring.TierHigh, result.Tier)
	assert.False(t, result.NeedsReview)

	second.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	sink.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestResolve_ErrorFallsThrough(t *testing.T) {
	first := &mockAdapter{source: SourceStructuredAPI}
	second := &mockAdapter{source: SourceInstitutionalSite}
	sink := &mockSink{}

	first.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, rserrors.Wrap(rserrors.ErrSourceUnavailable, "chamber api down"))
	second.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Return(highFinding("https://x.com/mariasantos", "mariasantos"), nil)
	sink.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	r := New(testConfig(), []SourceAdapter{first, second}, sink, logging.NewNopLogger(), nil)
	result, err := r.Resolve(context.Background(), testIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.Equal(t, SourceInstitutionalSite, result.Source)
}

func TestResolve_AllEmptyStillUpserts(t *testing.T) {
	first := &mockAdapter{source: SourceStructuredAPI}
	second := &mockAdapter{source: SourceInstitutionalSite}
	sink := &mockSink{}

	first.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	second.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(nil, nil)
	sink.On("Upsert", mock.Anything, mock.MatchedBy(func(r Result) bool {
		return !r.Found() && r.Source == SourceNone
	})).Return(nil)

	r := New(testConfig(), []SourceAdapter{first, second}, sink, logging.NewNopLogger(), nil)
	result, err := r.Resolve(context.Background(), testIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.False(t, result.Found())
	assert.Equal(t, SourceNone, result.Source)
	assert.Nil(t, result.CanonicalURL)
	sink.AssertExpectations(t)
}

func TestResolve_DisabledStagesSkipped(t *testing.T) {
	search := &mockAdapter{source: SourceWebSearch}
	ai := &mockAdapter{source: SourceAIAssistant}
	sink := &mockSink{}
	sink.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	cfg := testConfig()
	cfg.EnableWebSearch = false
	cfg.EnableAIFallback = false

	r := New(cfg, []SourceAdapter{search, ai}, sink, logging.NewNopLogger(), nil)
	result, err := r.Resolve(context.Background(), testIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.False(t, result.Found())
	search.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
	ai.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything, mock.Anything)
}

func TestResolve_LowTierFindingDiscarded(t *testing.T) {
	stage := &mockAdapter{source: SourceWebSearch}
	sink := &mockSink{}

	stage.On("Resolve", mock.Anything, mock.Anything, mock.Anything).Return(&Finding{
		Platform:     legislator.PlatformTwitter,
		CanonicalURL: "https://x.com/randomuser1234",
		Username:     "randomuser1234",
		Assessment:   scoring.Assessment{Score: -3, Tier: scoring.TierLow, NeedsReview: true},
	}, nil)
	sink.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	r := New(testConfig(), []SourceAdapter{stage}, sink, logging.NewNopLogger(), nil)
	result, err := r.Resolve(context.Background(), testIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.False(t, result.Found())
	assert.Equal(t, SourceNone, result.Source)
}

func TestResolve_SinkErrorPropagates(t *testing.T) {
	stage := &mockAdapter{source: SourceStructuredAPI}
	sink := &mockSink{}

	stage.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Return(highFinding("https://x.com/mariasantos", "mariasantos"), nil)
	sink.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("db down"))

	r := New(testConfig(), []SourceAdapter{stage}, sink, logging.NewNopLogger(), nil)
	result, err := r.Resolve(context.Background(), testIdentity(), legislator.PlatformTwitter)

	require.Error(t, err)
	// The result is still returned even when persistence failed.
	assert.True(t, result.Found())
}

func TestResolve_ContextCancelled(t *testing.T) {
	stage := &mockAdapter{source: SourceStructuredAPI}
	sink := &mockSink{}

	ctx, cancel := context.WithCancel(context.Background())
	stage.On("Resolve", mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(nil, context.Canceled)

	r := New(testConfig(), []SourceAdapter{stage}, sink, logging.NewNopLogger(), nil)
	_, err := r.Resolve(ctx, testIdentity(), legislator.PlatformTwitter)

	assert.ErrorIs(t, err, context.Canceled)
	sink.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestConfigValidate_FillsDefaults(t *testing.T) {
	cfg := Config{StageDelay: -1}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Duration(0), cfg.StageDelay)
	assert.Equal(t, []string{"twitter"}, cfg.Platforms)
}
