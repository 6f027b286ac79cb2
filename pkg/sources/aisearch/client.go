// Package aisearch implements the assistant stage: a chat-completion
// service with live web search is asked for a structured profile report,
// which is parsed under a strict JSON contract and re-scored locally.
package aisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/logging"
)

// Defaults for the xAI-compatible chat-completion endpoint.
const (
	DefaultBaseURL = "https://api.x.ai/v1"
	DefaultModel   = "grok-3-latest"
)

// Config controls the assistant client.
type Config struct {
	// BaseURL of the chat-completion API.
	BaseURL string `yaml:"base_url"`

	// APIKey comes from the environment only, never from the config file.
	APIKey string `yaml:"-"`

	Model string `yaml:"model"`

	// MaxRetries bounds attempts on 429 and 5xx answers.
	MaxRetries int `yaml:"max_retries"`

	// InitialBackoff is the first retry delay; it doubles on each retry.
	InitialBackoff time.Duration `yaml:"initial_backoff"`

	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns production defaults. The API key must still be
// supplied by the caller.
func DefaultConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Model:          DefaultModel,
		MaxRetries:     3,
		InitialBackoff: 2 * time.Second,
		Timeout:        60 * time.Second,
	}
}

// Validate fills zero values with defaults and rejects a missing API key.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return rserrors.Wrap(rserrors.ErrConfiguration, "assistant API key not set")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.InitialBackoff <= 0 {
		c.InitialBackoff = 2 * time.Second
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return nil
}

// Client is a chat-completion client with search enabled.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        logging.Logger

	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

// NewClient creates a Client. It fails when the configuration is invalid.
func NewClient(cfg Config, log logging.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpx.NewClient(cfg.Timeout),
		log:        log,
		sleep:      time.Sleep,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type searchParameters struct {
	Mode string `json:"mode"`
}

type chatRequest struct {
	Model            string            `json:"model"`
	Messages         []chatMessage     `json:"messages"`
	SearchParameters *searchParameters `json:"search_parameters,omitempty"`
	Temperature      float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one system+user exchange and returns the raw assistant
// text. Rate limiting and server errors are retried with linear backoff;
// credential rejections abort immediately.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		SearchParameters: &searchParameters{Mode: "on"},
		Temperature:      0.1,
	})
	if err != nil {
		return "", rserrors.NewSourceError("aisearch", "encode request", rserrors.ErrContractViolation, err)
	}

	var lastErr error
	for attempt := 0; attempt < c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			c.sleep(c.cfg.InitialBackoff << (attempt - 1))
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
		}

		text, retryable, err := c.attempt(ctx, body)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err
		c.log.Warn("assistant request failed, retrying",
			logging.F("attempt", attempt+1),
			logging.Err(err),
		)
	}
	return "", lastErr
}

func (c *Client) attempt(ctx context.Context, body []byte) (text string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", false, rserrors.NewSourceError("aisearch", "build request", rserrors.ErrSourceUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, rserrors.NewSourceError("aisearch", "send request", rserrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", false, rserrors.Wrap(rserrors.ErrConfiguration, "invalid API key")
	case resp.StatusCode == http.StatusForbidden:
		return "", false, rserrors.Wrap(rserrors.ErrConfiguration, "access forbidden")
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", true, rserrors.Wrap(rserrors.ErrRateLimited, "assistant throttled")
	case resp.StatusCode >= 500:
		return "", true, rserrors.Wrapf(rserrors.ErrSourceUnavailable, "assistant status %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", false, rserrors.Wrapf(rserrors.ErrContractViolation, "assistant status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", true, rserrors.NewSourceError("aisearch", "read response", rserrors.ErrSourceUnavailable, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", false, rserrors.NewSourceError("aisearch", "decode response", rserrors.ErrContractViolation, err)
	}
	if len(parsed.Choices) == 0 {
		return "", false, rserrors.NewSourceError("aisearch", "decode response", rserrors.ErrContractViolation, fmt.Errorf("no choices"))
	}
	return parsed.Choices[0].Message.Content, false, nil
}
