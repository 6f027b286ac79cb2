package chamber

import (
	"context"

	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// Adapter implements the structured stage on top of the deputies API.
// The official record is authoritative, so a surviving URL is returned at
// high confidence without going through the scorer.
type Adapter struct {
	client *Client
	log    logging.Logger
}

// NewAdapter creates the structured-stage adapter.
func NewAdapter(client *Client, log logging.Logger) *Adapter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Adapter{client: client, log: log}
}

func (a *Adapter) Name() resolver.Source {
	return resolver.SourceStructuredAPI
}

// Resolve scans the deputy's redeSocial URLs for the requested platform.
// Senators have no social field in their open-data record, so for them
// this stage is a structural no-op.
func (a *Adapter) Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (*resolver.Finding, error) {
	if id.Role != legislator.RoleDeputy {
		return nil, nil
	}

	deputy, err := a.client.Deputy(ctx, id.ID)
	if err != nil {
		return nil, err
	}

	for _, raw := range deputy.Social {
		canonical, username, ok := scoring.Canonicalize(platform, raw)
		if !ok {
			continue
		}
		if scoring.IsInstitutional(username, raw) {
			a.log.Debug("institutional account skipped",
				logging.F("legislator_id", id.ID),
				logging.F("url", raw),
			)
			continue
		}
		return &resolver.Finding{
			Platform:     platform,
			CanonicalURL: canonical,
			Username:     username,
			Assessment: scoring.Assessment{
				Tier:    scoring.TierHigh,
				Reasons: []string{"official open-data record"},
			},
		}, nil
	}
	return nil, nil
}
