package chamber

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rserrors "github.com/pressiona/radar-social/pkg/errors"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/scoring"
)

func deputyIdentity() legislator.Identity {
	return legislator.Identity{
		ID:                204554,
		CivilName:         "Maria Silva Santos",
		ParliamentaryName: "Maria do Rosário",
		Role:              legislator.RoleDeputy,
	}
}

func deputyServer(t *testing.T, social []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deputados/204554", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"dados": {"id": 204554, "nomeCivil": "Maria Silva Santos",
			"ultimoStatus": {"nome": "Maria do Rosário", "siglaPartido": "PT", "siglaUf": "RS"},
			"redeSocial": %s}}`, jsonArray(social))
	}))
}

func jsonArray(items []string) string {
	out := "["
	for i, s := range items {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%q", s)
	}
	return out + "]"
}

func TestAdapter_ResolveFromOfficialRecord(t *testing.T) {
	srv := deputyServer(t, []string{
		"https://www.facebook.com/mariadorosario",
		"https://twitter.com/mariadorosario",
	})
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, srv.Client(), nil), logging.NewNopLogger())
	finding, err := adapter.Resolve(context.Background(), deputyIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	require.NotNil(t, finding)
	assert.Equal(t, "https://x.com/mariadorosario", finding.CanonicalURL)
	assert.Equal(t, "mariadorosario", finding.Username)
	assert.Equal(t, scoring.TierHigh, finding.Assessment.Tier)
	assert.False(t, finding.Assessment.NeedsReview)
}

func TestAdapter_InstitutionalAccountsFiltered(t *testing.T) {
	srv := deputyServer(t, []string{"https://twitter.com/camaradeputados"})
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, srv.Client(), nil), nil)
	finding, err := adapter.Resolve(context.Background(), deputyIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestAdapter_NoMatchingPlatform(t *testing.T) {
	srv := deputyServer(t, []string{"https://www.instagram.com/mariadorosario"})
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, srv.Client(), nil), nil)
	finding, err := adapter.Resolve(context.Background(), deputyIdentity(), legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestAdapter_SenatorIsStructuralNoOp(t *testing.T) {
	adapter := NewAdapter(NewClient("http://never-called.invalid", nil, nil), nil)
	id := deputyIdentity()
	id.Role = legislator.RoleSenator

	finding, err := adapter.Resolve(context.Background(), id, legislator.PlatformTwitter)

	require.NoError(t, err)
	assert.Nil(t, finding)
}

func TestAdapter_ServerErrorIsSourceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, srv.Client(), nil), nil)
	_, err := adapter.Resolve(context.Background(), deputyIdentity(), legislator.PlatformTwitter)

	assert.True(t, rserrors.IsSourceUnavailable(err))
}

func TestAdapter_MalformedBodyIsContractViolation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	}))
	defer srv.Close()

	adapter := NewAdapter(NewClient(srv.URL, srv.Client(), nil), nil)
	_, err := adapter.Resolve(context.Background(), deputyIdentity(), legislator.PlatformTwitter)

	assert.True(t, rserrors.IsContractViolation(err))
}

func TestClient_List(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deputados", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"dados": [
			{"id": 1, "nome": "Abílio Brunini", "siglaPartido": "PL", "siglaUf": "MT"},
			{"id": 2, "nome": "Adriana Ventura", "siglaPartido": "NOVO", "siglaUf": "SP"}
		]}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), nil)
	ids, err := client.List(context.Background())

	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, int64(1), ids[0].ID)
	assert.Equal(t, "Abílio Brunini", ids[0].ParliamentaryName)
	assert.Equal(t, legislator.RoleDeputy, ids[0].Role)
}

var _ resolver.SourceAdapter = (*Adapter)(nil)
