package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pressiona/radar-social/config"
	"github.com/pressiona/radar-social/pkg/httpx"
	"github.com/pressiona/radar-social/pkg/legislator"
	"github.com/pressiona/radar-social/pkg/logging"
	"github.com/pressiona/radar-social/pkg/resolver"
	"github.com/pressiona/radar-social/pkg/sources/aisearch"
	"github.com/pressiona/radar-social/pkg/sources/chamber"
	"github.com/pressiona/radar-social/pkg/sources/senate"
	"github.com/pressiona/radar-social/pkg/sources/site"
	"github.com/pressiona/radar-social/pkg/sources/websearch"
	"github.com/pressiona/radar-social/pkg/store"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// buildChain assembles the source adapters in trust order. Disabled
// stages are skipped by the resolver itself, but the assistant adapter
// is only built when a key is configured.
func buildChain(cfg *config.Config, log logging.Logger) ([]resolver.SourceAdapter, error) {
	httpClient := httpx.NewClient(0)

	chamberAdapter := chamber.NewAdapter(chamber.NewClient(cfg.Chamber.BaseURL, httpClient, log), log)

	chamberBase, senateBase := cfg.SiteBases()
	siteAdapter := site.NewAdapter(chamberBase, senateBase, httpClient, log)

	searchAdapter := websearch.NewAdapter(cfg.WebSearch, websearch.NewSession, log)

	chain := []resolver.SourceAdapter{chamberAdapter, siteAdapter, searchAdapter}

	if cfg.Resolver.EnableAIFallback {
		if cfg.AssistantReady() {
			client, err := aisearch.NewClient(cfg.AISearch, log)
			if err != nil {
				return nil, fmt.Errorf("building assistant client: %w", err)
			}
			chain = append(chain, aisearch.NewAdapter(client, log))
		} else {
			log.Warn("RADAR_XAI_API_KEY not set, assistant stage disabled")
		}
	}

	return chain, nil
}

// buildSink returns the repository results are written to. Dry runs use
// an in-memory store so nothing outside the process is touched.
func buildSink(ctx context.Context, cfg *config.Config, dryRun bool, log logging.Logger) (resolver.Sink, func(), error) {
	if dryRun {
		log.Info("dry run, results will not be persisted")
		return store.NewMemory(), func() {}, nil
	}

	pool, err := store.Connect(ctx, cfg.Database.Build())
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}

	pg := store.NewPostgres(pool)
	if err := pg.Migrate(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrating schema: %w", err)
	}

	return pg, pool.Close, nil
}

// buildCache returns the optional freshness cache. Dry runs never skip
// anyone, so they get no cache.
func buildCache(cfg *config.Config, dryRun bool) *store.Cache {
	if dryRun || !cfg.Redis.Enabled {
		return nil
	}
	return store.NewCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.Freshness)
}

// buildResolver wires the full chain with a private metrics registry.
func buildResolver(cfg *config.Config, sink resolver.Sink, log logging.Logger) (*resolver.Resolver, error) {
	chain, err := buildChain(cfg, log)
	if err != nil {
		return nil, err
	}
	metrics := resolver.NewMetrics(prometheus.NewRegistry())
	return resolver.New(cfg.Resolver, chain, sink, log, metrics), nil
}

// senateClient builds a directory client for senator lookups.
func senateClient(cfg *config.Config, log logging.Logger) *senate.Client {
	return senate.NewClient(cfg.Senate.BaseURL, httpx.NewClient(0), log)
}

// chamberClient builds a directory client for deputy lookups.
func chamberClient(cfg *config.Config, log logging.Logger) *chamber.Client {
	return chamber.NewClient(cfg.Chamber.BaseURL, httpx.NewClient(0), log)
}

// lookupIdentity fetches the full identity record for one legislator.
func lookupIdentity(ctx context.Context, cfg *config.Config, role legislator.Role, id int64, log logging.Logger) (legislator.Identity, error) {
	switch role {
	case legislator.RoleDeputy:
		d, err := chamberClient(cfg, log).Deputy(ctx, id)
		if err != nil {
			return legislator.Identity{}, fmt.Errorf("fetching deputy %d: %w", id, err)
		}
		return legislator.Identity{
			ID:                d.ID,
			CivilName:         d.NomeCivil,
			ParliamentaryName: d.Status.Nome,
			Party:             d.Status.SiglaPartido,
			State:             d.Status.SiglaUF,
			Role:              legislator.RoleDeputy,
		}, nil
	case legislator.RoleSenator:
		s, err := senateClient(cfg, log).Senator(ctx, id)
		if err != nil {
			return legislator.Identity{}, fmt.Errorf("fetching senator %d: %w", id, err)
		}
		return *s, nil
	default:
		return legislator.Identity{}, fmt.Errorf("unknown role %q", role)
	}
}
