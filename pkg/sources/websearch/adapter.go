// Package websearch implements the search-engine stage. It fetches plain
// HTML result pages (no browser automation) and walks a ladder of queries
// and CSS selectors until a candidate profile survives scoring.
package websearch

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

// DefaultBaseURL is the HTML (non-JS) results endpoint.
const DefaultBaseURL = "https://html.duckduckgo.com/html/"

// Result-link selectors, most precise first. Markup changes on the engine
// side degrade us to the broader ones instead of breaking the stage.
var resultSelectors = []string{
	"a.result__a",
	".result__title a",
	"#links a[href]",
	"a[href]",
}

// Markers of CAPTCHA or interstitial pages.
var blockMarkers = []string{
	"captcha",
	"unusual traffic",
	"detected anomalous",
}

// Config controls the websearch stage.
type Config struct {
	// BaseURL of the HTML results endpoint.
	BaseURL string `yaml:"base_url"`

	// MaxResults caps how many result links are considered per query.
	MaxResults int `yaml:"max_results"`

	// QueryDelay is the politeness pause between consecutive queries to
	// the search engine. Zero disables it (tests).
	QueryDelay time.Duration `yaml:"query_delay"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL, MaxResults: 10, QueryDelay: 1500 * time.Millisecond}
}

// Validate fills zero values with defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.MaxResults <= 0 {
		c.MaxResults = 10
	}
	if c.QueryDelay < 0 {
		c.QueryDelay = 0
	}
	return nil
}

// Adapter implements the web-search stage.
type Adapter struct {
	cfg        Config
	newSession func() (Session, error)
	pacer      *httpx.Pacer
	log        logging.Logger
}

// NewAdapter creates the web-search adapter. A nil session factory uses
// real HTTP sessions.
func NewAdapter(cfg Config, newSession func() (Session, error), log logging.Logger) *Adapter {
	_ = cfg.Validate()
	if newSession == nil {
		newSession = NewSession
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Adapter{
		cfg:        cfg,
		newSession: newSession,
		pacer:      httpx.NewPacer(cfg.QueryDelay),
		log:        log,
	}
}

func (a *Adapter) Name() resolver.Source {
	return resolver.SourceWebSearch
}

// Resolve walks the query ladder with a fresh session. Failed queries are
// logged and skipped; an error is returned only when every query failed.
func (a *Adapter) Resolve(ctx context.Context, id legislator.Identity, platform legislator.Platform) (*resolver.Finding, error) {
	session, err := a.newSession()
	if err != nil {
		return nil, err
	}
	defer session.Close()

	tokens := legislator.NameTokens(id.CivilName, id.ParliamentaryName)

	var lastErr error
	failures := 0
	queries := a.queries(id, platform)

	for _, query := range queries {
		if err := a.pacer.Wait(ctx); err != nil {
			return nil, err
		}
		finding, err := a.runQuery(ctx, session, query, tokens, platform)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			failures++
			lastErr = err
			a.log.Warn("search query failed",
				logging.F("query", query),
				logging.Err(err),
			)
			continue
		}
		if finding != nil {
			return finding, nil
		}
	}

	if failures == len(queries) && lastErr != nil {
		return nil, lastErr
	}
	return nil, nil
}

// queries builds the search ladder, most specific first.
func (a *Adapter) queries(id legislator.Identity, platform legislator.Platform) []string {
	name := id.DisplayName()
	out := []string{
		strings.TrimSpace(fmt.Sprintf("%q %s %s %s %s", name, id.Role.Keyword(), platform, id.Party, id.State)),
	}
	if id.CivilName != "" && id.CivilName != name {
		out = append(out, fmt.Sprintf("%q %s", id.CivilName, platform))
	}
	out = append(out, fmt.Sprintf("%s %s perfil", name, platform))
	return out
}

func (a *Adapter) runQuery(ctx context.Context, session Session, query string, tokens legislator.Tokens, platform legislator.Platform) (*resolver.Finding, error) {
	doc, err := session.Fetch(ctx, a.cfg.BaseURL+"?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	if blocked(doc) {
		return nil, rserrors.NewSourceError("websearch", "query", rserrors.ErrSourceUnavailable, fmt.Errorf("captcha interstitial"))
	}

	var best *resolver.Finding
	for _, link := range a.resultLinks(doc) {
		canonical, username, ok := scoring.Canonicalize(platform, link)
		if !ok || scoring.IsInstitutional(username, link) {
			continue
		}

		assessment := scoring.Score(tokens, platform, link)
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
	return best, nil
}

// resultLinks extracts result hrefs using the first selector that matches
// anything, decoding the engine's redirect links along the way.
func (a *Adapter) resultLinks(doc *goquery.Document) []string {
	for _, selector := range resultSelectors {
		sel := doc.Find(selector)
		if sel.Length() == 0 {
			continue
		}

		var links []string
		sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			href, ok := s.Attr("href")
			if !ok || href == "" {
				return true
			}
			links = append(links, decodeRedirect(href))
			return len(links) < a.cfg.MaxResults
		})
		if len(links) > 0 {
			return links
		}
	}
	return nil
}

// decodeRedirect unwraps DuckDuckGo /l/?uddg=<target> redirect links.
func decodeRedirect(href string) string {
	if !strings.Contains(href, "uddg=") {
		return href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func blocked(doc *goquery.Document) bool {
	text := strings.ToLower(doc.Text())
	for _, marker := range blockMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
