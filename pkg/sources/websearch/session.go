package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"github.com/PuerkitoBio/goquery"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/httpx"
)

// Session is one cookie-scoped browsing session against the search engine.
// A fresh session is opened per resolution attempt and always closed.
type Session interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
	Close()
}

type httpSession struct {
	client *http.Client
}

// NewSession opens a session with its own cookie jar.
func NewSession() (Session, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, rserrors.NewSourceError("websearch", "open session", rserrors.ErrSourceUnavailable, err)
	}
	return &httpSession{
		client: &http.Client{Timeout: httpx.DefaultTimeout, Jar: jar},
	}, nil
}

func (s *httpSession) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := httpx.NewPageRequest(ctx, url)
	if err != nil {
		return nil, rserrors.NewSourceError("websearch", "build request", rserrors.ErrSourceUnavailable, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, rserrors.NewSourceError("websearch", "fetch results", rserrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if kind := rserrors.ClassifyStatus(resp.StatusCode); kind != nil {
		return nil, rserrors.NewSourceError("websearch", "fetch results", kind, fmt.Errorf("status %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, rserrors.NewSourceError("websearch", "parse results", rserrors.ErrContractViolation, err)
	}
	return doc, nil
}

func (s *httpSession) Close() {
	s.client.CloseIdleConnections()
}
