package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// Repository persists resolution outcomes.
type Repository interface {
	Upsert(ctx context.Context, result resolver.Result) error
	Get(ctx context.Context, legislatorID int64, platform legislator.Platform) (*resolver.Result, error)
}

const schema = `
CREATE TABLE IF NOT EXISTS social_accounts (
    legislator_id      BIGINT      NOT NULL,
    platform           TEXT        NOT NULL,
    role               TEXT        NOT NULL,
    civil_name         TEXT        NOT NULL DEFAULT '',
    parliamentary_name TEXT        NOT NULL DEFAULT '',
    party              TEXT        NOT NULL DEFAULT '',
    state              TEXT        NOT NULL DEFAULT '',
    canonical_url      TEXT,
    username           TEXT        NOT NULL DEFAULT '',
    source             TEXT        NOT NULL,
    tier               TEXT        NOT NULL DEFAULT '',
    needs_review       BOOLEAN     NOT NULL DEFAULT FALSE,
    score              INT         NOT NULL DEFAULT 0,
    reasons            TEXT[],
    resolved_at        TIMESTAMPTZ NOT NULL,
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (legislator_id, platform)
)`

const upsertSQL = `
INSERT INTO social_accounts (
    legislator_id, platform, role, civil_name, parliamentary_name, party, state,
    canonical_url, username, source, tier, needs_review, score, reasons, resolved_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, now())
ON CONFLICT (legislator_id, platform) DO UPDATE SET
    role               = EXCLUDED.role,
    civil_name         = EXCLUDED.civil_name,
    parliamentary_name = EXCLUDED.parliamentary_name,
    party              = EXCLUDED.party,
    state              = EXCLUDED.state,
    canonical_url      = EXCLUDED.canonical_url,
    username           = EXCLUDED.username,
    source             = EXCLUDED.source,
    tier               = EXCLUDED.tier,
    needs_review       = EXCLUDED.needs_review,
    score              = EXCLUDED.score,
    reasons            = EXCLUDED.reasons,
    resolved_at        = EXCLUDED.resolved_at,
    updated_at         = now()`

const getSQL = `
SELECT legislator_id, platform, role, civil_name, parliamentary_name, party, state,
       canonical_url, username, source, tier, needs_review, score, reasons, resolved_at
FROM social_accounts
WHERE legislator_id = $1 AND platform = $2`

// Postgres is the production Repository on a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres wraps an existing pool.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the schema if it does not exist.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Upsert writes one resolution outcome, replacing any previous one for
// the same (legislator, platform) pair.
func (p *Postgres) Upsert(ctx context.Context, result resolver.Result) error {
	_, err := p.pool.Exec(ctx, upsertSQL,
		result.Legislator.ID,
		string(result.Platform),
		string(result.Legislator.Role),
		result.Legislator.CivilName,
		result.Legislator.ParliamentaryName,
		result.Legislator.Party,
		result.Legislator.State,
		result.CanonicalURL,
		result.Username,
		string(result.Source),
		string(result.Tier),
		result.NeedsReview,
		result.Score,
		result.Reasons,
		result.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert social account: %w", err)
	}
	return nil
}

// Get loads the stored outcome for a (legislator, platform) pair.
func (p *Postgres) Get(ctx context.Context, legislatorID int64, platform legislator.Platform) (*resolver.Result, error) {
	var (
		result resolver.Result
		plat   string
		role   string
		source string
		tier   string
	)
	err := p.pool.QueryRow(ctx, getSQL, legislatorID, string(platform)).Scan(
		&result.Legislator.ID,
		&plat,
		&role,
		&result.Legislator.CivilName,
		&result.Legislator.ParliamentaryName,
		&result.Legislator.Party,
		&result.Legislator.State,
		&result.CanonicalURL,
		&result.Username,
		&source,
		&tier,
		&result.NeedsReview,
		&result.Score,
		&result.Reasons,
		&result.ResolvedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, rserrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load social account: %w", err)
	}

	result.Platform = legislator.Platform(plat)
	result.Legislator.Role = legislator.Role(role)
	result.Source = resolver.Source(source)
	result.Tier = scoring.Tier(tier)
	return &result, nil
}
