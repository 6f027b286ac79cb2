// Package senate talks to the Federal Senate open-data API. The senator
// record carries no social-media field, so this package only feeds the
// directory side of the pipeline: listing serving senators and filling in
// their identity before the scraping stages run.
package senate

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
)

// DefaultBaseURL is the public open-data endpoint.
const DefaultBaseURL = "https://legis.senado.leg.br/dadosabertos"

// Client is a thin XML client for the senators API.
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

type identification struct {
	Codigo       int64  `xml:"CodigoParlamentar"`
	Nome         string `xml:"NomeParlamentar"`
	NomeCompleto string `xml:"NomeCompletoParlamentar"`
	SiglaPartido string `xml:"SiglaPartidoParlamentar"`
	UF           string `xml:"UfParlamentar"`
}

type detailResponse struct {
	XMLName       xml.Name       `xml:"DetalheParlamentar"`
	Identificacao identification `xml:"Parlamentar>IdentificacaoParlamentar"`
}

type listEntry struct {
	Identificacao identification `xml:"IdentificacaoParlamentar"`
}

type listResponse struct {
	XMLName       xml.Name    `xml:"ListaParlamentarEmExercicio"`
	Parlamentares []listEntry `xml:"Parlamentares>Parlamentar"`
}

// Senator fetches one senator's identity by code.
func (c *Client) Senator(ctx context.Context, code int64) (*legislator.Identity, error) {
	var resp detailResponse
	if err := c.getXML(ctx, fmt.Sprintf("%s/senador/%d", c.baseURL, code), &resp); err != nil {
		return nil, err
	}
	if resp.Identificacao.Codigo == 0 {
		return nil, rserrors.NewSourceError("senate", "senator detail", rserrors.ErrContractViolation, fmt.Errorf("empty record for code %d", code))
	}
	return identityFrom(resp.Identificacao), nil
}

// List fetches the serving senators as identities for batch runs.
func (c *Client) List(ctx context.Context) ([]legislator.Identity, error) {
	var resp listResponse
	if err := c.getXML(ctx, c.baseURL+"/senador/lista/atual", &resp); err != nil {
		return nil, err
	}

	out := make([]legislator.Identity, 0, len(resp.Parlamentares))
	for _, p := range resp.Parlamentares {
		out = append(out, *identityFrom(p.Identificacao))
	}
	return out, nil
}

func identityFrom(id identification) *legislator.Identity {
	return &legislator.Identity{
		ID:                id.Codigo,
		CivilName:         id.NomeCompleto,
		ParliamentaryName: id.Nome,
		Party:             id.SiglaPartido,
		State:             id.UF,
		Role:              legislator.RoleSenator,
	}
}

func (c *Client) getXML(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return rserrors.NewSourceError("senate", "build request", rserrors.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rserrors.NewSourceError("senate", "fetch", rserrors.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if kind := rserrors.ClassifyStatus(resp.StatusCode); kind != nil {
		return rserrors.NewSourceError("senate", "fetch", kind, fmt.Errorf("status %d", resp.StatusCode))
	}

	if err := xml.NewDecoder(resp.Body).Decode(out); err != nil {
		return rserrors.NewSourceError("senate", "decode response", rserrors.ErrContractViolation, err)
	}
	return nil
}
