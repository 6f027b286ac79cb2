// Package httpx holds the shared HTTP plumbing for source adapters: a
// politeness pacer that spaces out requests to external sites and the
// standard request headers used when fetching public pages.
package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// DefaultUserAgent identifies our fetches to the sites we scrape.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// DefaultTimeout bounds a single external request.
const DefaultTimeout = 20 * time.Second

// NewClient returns an http.Client for source adapters.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// NewPageRequest builds a GET request with the headers a public site
// expects from a regular visitor.
func NewPageRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.5")
	return req, nil
}

// Pacer enforces a minimum interval between consecutive external calls.
// Scraped sites get a fixed breathing space between our requests; the
// interval is part of the contract with them, not an optimization knob.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
}

// NewPacer creates a Pacer with the given minimum interval. A zero or
// negative interval disables pacing, which tests rely on.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until the interval since the previous call has elapsed, or
// the context is cancelled.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	delay := time.Until(next)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
