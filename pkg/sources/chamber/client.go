// Package chamber talks to the Chamber of Deputies open-data API and
// implements the structured stage of the resolution chain for deputies.
package chamber

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
)

// DefaultBaseURL is the public open-data endpoint.
const DefaultBaseURL = "https://dadosabertos.camara.leg.br/api/v2"

// Client is a thin JSON client for the deputies API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logging.Logger
}

// NewClient creates a Client. Empty baseURL and nil httpClient fall back
// to the public endpoint and a default client.
func NewClient(baseURL string, httpClient *http.Client, log logging.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = httpx.NewClient(0)
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, log: log}
}

// Deputy is the detail record for one deputy.
type Deputy struct {
	ID        int64    `json:"id"`
	NomeCivil string   `json:"nomeCivil"`
	Status    Status   `json:"ultimoStatus"`
	Social    []string `json:"redeSocial"`
}

// Status is the deputy's current mandate data.
type Status struct {
	Nome         string `json:"nome"`
	SiglaPartido string `json:"siglaPartido"`
	SiglaUF      string `json:"siglaUf"`
}

type deputyResponse struct {
	Dados Deputy `json:"dados"`
}

type listResponse struct {
	Dados []struct {
		ID           int64  `json:"id"`
		Nome         string `json:"nome"`
		SiglaPartido string `json:"siglaPartido"`
		SiglaUF      string `json:"siglaUf"`
	} `json:"dados"`
}

// Deputy fetches the detail record, including the redeSocial URLs.
func (c *Client) Deputy(ctx context.Context, id int64) (*Deputy, error) {
	var resp deputyResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/deputados/%d", c.baseURL, id), &resp); err != nil {
		return nil, err
	}
	if resp.Dados.ID == 0 {
		return nil, rserrors.NewSourceError("chamber", "deputy detail", rserrors.ErrContractViolation, fmt.Errorf("empty dados for id %d", id))
	}
	return &resp.Dados, nil
}

// List fetches the current deputies as identities for batch runs.
func (c *Client) List(ctx context.Context) ([]legislator.Identity, error) {
	var resp listResponse
	if err := c.getJSON(ctx, c.baseURL+"/deputados?ordem=ASC&ordenarPor=nome", &resp); err != nil {
		return nil, err
	}

	out := make([]legislator.Identity, 0, len(resp.Dados))
	for _, d := range resp.Dados {
		out = append(out, legislator.Identity{
			ID:                d.ID,
			ParliamentaryName: d.Nome,
			Party:             d.SiglaPartido,
			State:             d.SiglaUF,
			Role:              legislator.RoleDeputy,
		})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return rserrors.NewSourceError("chamber", "build request", rserrors.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rserrors.NewSourceError("chamber", "fetch", rserrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if kind := rserrors.ClassifyStatus(resp.StatusCode); kind != nil {
		return rserrors.NewSourceError("chamber", "fetch", kind, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return rserrors.NewSourceError("chamber", "decode response", rserrors.ErrContractViolation, err)
	}
	return nil
}
