package cmd

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressiona/radar-social/config"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
)

func TestLookupIdentity_Deputy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/deputados/204554", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"dados": {
			"id": 204554,
			"nomeCivil": "Maria Silva Santos",
			"ultimoStatus": {"nome": "Maria do Rosário", "siglaPartido": "PT", "siglaUf": "RS"},
			"redeSocial": []
		}}`)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Chamber.BaseURL = srv.URL

	id, err := lookupIdentity(context.Background(), cfg, legislator.RoleDeputy, 204554, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(204554), id.ID)
	assert.Equal(t, "Maria Silva Santos", id.CivilName)
	assert.Equal(t, "Maria do Rosário", id.ParliamentaryName)
	assert.Equal(t, "PT", id.Party)
	assert.Equal(t, "RS", id.State)
	assert.Equal(t, legislator.RoleDeputy, id.Role)
}

func TestLookupIdentity_Senator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/senador/5672", r.URL.Path)
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, `<?xml version="1.0" encoding="UTF-8"?>
<DetalheParlamentar>
  <Parlamentar>
    <IdentificacaoParlamentar>
      <CodigoParlamentar>5672</CodigoParlamentar>
      <NomeParlamentar>Eduardo Braga</NomeParlamentar>
      <NomeCompletoParlamentar>Eduardo Braga de Souza</NomeCompletoParlamentar>
      <SiglaPartidoParlamentar>MDB</SiglaPartidoParlamentar>
      <UfParlamentar>AM</UfParlamentar>
    </IdentificacaoParlamentar>
  </Parlamentar>
</DetalheParlamentar>`)
	}))
	defer srv.Close()

	cfg := config.DefaultConfig()
	cfg.Senate.BaseURL = srv.URL

	id, err := lookupIdentity(context.Background(), cfg, legislator.RoleSenator, 5672, nil)
	require.NoError(t, err)

	assert.Equal(t, "Eduardo Braga", id.ParliamentaryName)
	assert.Equal(t, legislator.RoleSenator, id.Role)
}

func TestLookupIdentity_UnknownRole(t *testing.T) {
	_, err := lookupIdentity(context.Background(), config.DefaultConfig(), "mayor", 1, nil)
	assert.Error(t, err)
}

func TestBuildChain_AssistantGatedOnKey(t *testing.T) {
	cfg := config.DefaultConfig()

	chain, err := buildChain(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, resolver.SourceStructuredAPI, chain[0].Name())
	assert.Equal(t, resolver.SourceInstitutionalSite, chain[1].Name())
	assert.Equal(t, resolver.SourceWebSearch, chain[2].Name())

	cfg.AISearch.APIKey = "xai-test-key"
	chain, err = buildChain(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	require.Len(t, chain, 4)
	assert.Equal(t, resolver.SourceAIAssistant, chain[3].Name())
}

func TestBuildChain_AssistantDisabledByConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.AISearch.APIKey = "xai-test-key"
	cfg.Resolver.EnableAIFallback = false

	chain, err := buildChain(cfg, logging.NewNopLogger())
	require.NoError(t, err)
	assert.Len(t, chain, 3)
}

func TestBuildCache(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.Nil(t, buildCache(cfg, false))

	cfg.Redis.Enabled = true
	cfg.Redis.Addr = "localhost:6379"
	assert.NotNil(t, buildCache(cfg, false))

	// Dry runs never use the cache.
	assert.Nil(t, buildCache(cfg, true))
}
