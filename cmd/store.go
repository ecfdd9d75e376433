package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/civic-cli/internal/extract"
	"github.com/sells-group/civic-cli/internal/portal"
	"github.com/sells-group/civic-cli/internal/reconcile"
	"github.com/sells-group/civic-cli/internal/store"
)

func openStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// newPortalClient builds the portal client, or nil when no portal is
// configured. The engine skips portal-backed paths for a nil client.
func newPortalClient() *portal.Client {
	if cfg.Portal.BaseURL == "" {
		return nil
	}
	return portal.NewClient(portal.Options{
		BaseURL:           cfg.Portal.BaseURL,
		UserAgent:         cfg.Portal.UserAgent,
		Timeout:           time.Duration(cfg.Portal.TimeoutSecs) * time.Second,
		MaxRetries:        cfg.Portal.MaxRetries,
		RequestsPerSecond: cfg.Portal.RequestsPerSecond,
	})
}

// newEngine wires the reconciliation engine with whatever collaborators the
// configuration provides. Portal and extractor are both optional.
func newEngine(st store.Store) *reconcile.Engine {
	var votes reconcile.VoteSource
	var minutes reconcile.MinutesSource
	if pc := newPortalClient(); pc != nil {
		votes = pc
		minutes = pc
	}

	var extractor reconcile.Extractor
	if cfg.Anthropic.Key != "" {
		extractor = extract.NewDocumentExtractor(
			extract.NewSDKCompleter(cfg.Anthropic.Key, cfg.Anthropic.Model))
	}

	eng := reconcile.NewEngine(st, votes, minutes, extractor)
	eng.SetAdoptionTolerance(time.Duration(cfg.Reconcile.AdoptionToleranceDays) * 24 * time.Hour)
	eng.SetYearLookback(cfg.Reconcile.YearLookback)
	return eng
}
