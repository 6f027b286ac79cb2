// Package site scrapes a legislator's official profile page on the
// parliament website. The page is scanned in three passes of decreasing
// structural trust: the social-media widget, then anchors in the main
// content, then the whole page.
package site

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// Default public profile page hosts.
const (
	DefaultChamberBase = "https://www.camara.leg.br"
	DefaultSenateBase  = "https://www25.senado.leg.br"
)

// widgetSelector is the social-media block on chamber profile pages.
const widgetSelector = "div.l-grid-social-media"

// excludedAncestors marks page chrome whose links are never personal
// profiles (site-wide footers carry the parliament's own accounts).
const excludedAncestors = "footer, header, nav, .l-footer, .footer, .global-nav, #rodape, #cabecalho"

// Adapter implements the institutional-site stage.
type Adapter struct {
	chamberBase string
	senateBase  string
	httpClient  *http.Client
	log         logging.Logger
}

// NewAdapter creates the institutional-site adapter. Empty bases fall back
// to the public hosts.
func NewAdapter(chamberBase, senateBase string, httpClient *http.Client, log logging.Logger) *Adapter {
	if chamberBase == "" {
		chamberBase = DefaultChamberBase
	}
	if senateBase == "" {
		senateBase = DefaultSenateBase
	}
	if httpClient == nil {
		httpClient = httpx.NewClient(0)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Adapter{chamberBase: chamberBase, senateBase: senateBase, httpClient: httpClient, log: log}
}

func (a *Adapter) Name() resolver.Source {
	return resolver.SourceInstitutionalSite
}

// ProfileURL returns the official profile page for a legislator.
func (a *Adapter) ProfileURL(id legislator.Identity) string {
	if id.Role == legislator.RoleSenator {
		return fmt.Sprintf("%s/web/senadores/senador/-/perfil/%d", a.senateBase, id.ID)
	}
	return fmt.Sprintf("%s/deputados/%d", a.chamberBase, id.ID)
}

// Resolve fetches the profile page and runs the three scan passes.
func (a *Adapter) Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (*resolver.Finding, error) {
	doc, err := a.fetch(ctx, a.ProfileURL(id))
	if err != nil {
		return nil, err
	}

	if finding := a.scanWidget(doc, platform); finding != nil {
		return finding, nil
	}

	tokens := legislator.NameTokens(id.CivilName, id.ParliamentaryName)

	if finding := a.scanAnchors(doc, platform, tokens, false); finding != nil {
		return finding, nil
	}
	if finding := a.scanAnchors(doc, platform, tokens, true); finding != nil {
		return finding, nil
	}
	return nil, nil
}

func (a *Adapter) fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := httpx.NewPageRequest(ctx, url)
	if err != nil {
		return nil, rserrors.NewSourceError("site", "build request", rserrors.ErrSourceUnavailable, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, rserrors.NewSourceError("site", "fetch profile page", rserrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if kind := rserrors.ClassifyStatus(resp.StatusCode); kind != nil {
		return nil, rserrors.NewSourceError("site", "fetch profile page", kind, fmt.Errorf("status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, rserrors.NewSourceError("site", "parse profile page", rserrors.ErrContractViolation, err)
	}
	return doc, nil
}

// scanWidget looks inside the social-media widget block. A hit there is
// the site's own statement of the account, accepted at high confidence
// without scoring.
func (a *Adapter) scanWidget(doc *goquery.Document, platform legislator.Platform) *resolver.Finding {
	var finding *resolver.Finding

	doc.Find(widgetSelector + " a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		for _, raw := range anchorURLs(s) {
			canonical, username, ok := scoring.Canonicalize(platform, raw)
			if !ok || scoring.IsInstitutional(username, raw) {
				continue
			}
			finding = &resolver.Finding{
				Platform:     platform,
				CanonicalURL: canonical,
				Username:     username,
				Assessment: scoring.Assessment{
					Tier:    scoring.TierHigh,
					Reasons: []string{"profile page social widget"},
				},
			}
			return false
		}
		return true
	})
	return finding
}

// scanAnchors scores every candidate anchor and returns the best one that
// survives. With wholePage set the page chrome is included and the result
// is capped at medium.
func (a *Adapter) scanAnchors(doc *goquery.Document, platform legislator.Platform, tokens legislator.Tokens, wholePage bool) *resolver.Finding {
	var best *resolver.Finding

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if !wholePage && s.Closest(excludedAncestors).Length() > 0 {
			return
		}
		for _, raw := range anchorURLs(s) {
			canonical, username, ok := scoring.Canonicalize(platform, raw)
			if !ok || scoring.IsInstitutional(username, raw) {
				continue
			}

			assessment := scoring.Score(tokens, platform, raw)
			if wholePage {
				assessment = assessment.CapTier(scoring.TierMedium)
			}
			if !assessment.Accepted() {
				continue
			}
			if best == nil || assessment.Score > best.Assessment.Score {
				best = &resolver.Finding{
					Platform:     platform,
					CanonicalURL: canonical,
					Username:     username,
					Assessment:   assessment,
				}
			}
		}
	})
	return best
}

// anchorURLs collects the href plus any data-url* attributes, which the
// chamber widget uses instead of plain links.
func anchorURLs(s *goquery.Selection) []string {
	var out []string
	if href, ok := s.Attr("href"); ok && href != "" {
		out = append(out, href)
	}
	for _, node := range s.Nodes {
		for _, attr := range node.Attr {
			if strings.HasPrefix(attr.Key, "data-url") && attr.Val != "" {
				out = append(out, attr.Val)
			}
		}
	}
	return out
}
