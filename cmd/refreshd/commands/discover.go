package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/refreshd/internal/config"
	"git.home.luguber.info/inful/refreshd/internal/discovery"
	ferrors "git.home.luguber.info/inful/refreshd/internal/foundation/errors"
	"git.home.luguber.info/inful/refreshd/internal/refresh"
	"git.home.luguber.info/inful/refreshd/internal/retry"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Write bool `help:"Persist the discovered model list when it differs"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	return RunDiscover(context.Background(), root.Config, d.Write, g)
}

// RunDiscover queries the configured provider once. Without write it only
// prints the diff against the configured catalog.
func RunDiscover(ctx context.Context, configPath string, write bool, g *Global) error {
	store, err := config.OpenFileStore(configPath)
	if err != nil {
		return err
	}
	cfg := store.Load()
	client := discovery.NewLMStudioClient(nil, retry.FromConfig(cfg.Discovery.Retry))

	if write {
		var logger *slog.Logger
		if g != nil {
			logger = g.Logger
		}
		rec, err := discovery.NewReconciler(discovery.ReconcilerConfig{
			Source:       store,
			Provider:     client,
			ProviderName: cfg.Discovery.Provider,
			FetchTimeout: cfg.Discovery.FetchTimeout,
			Observer:     refresh.NewSlogObserver(logger),
		})
		if err != nil {
			return err
		}
		result, err := rec.Run(ctx)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(stdout, "discovery: %s\n", result)
		return nil
	}

	provider := cfg.Provider(cfg.Discovery.Provider)
	if provider == nil {
		return ferrors.ConfigError("provider is not configured").
			WithContext("provider", cfg.Discovery.Provider).
			Build()
	}
	fetchCtx, cancel := context.WithTimeout(ctx, cfg.Discovery.FetchTimeout)
	defer cancel()
	discovered, err := client.Discover(fetchCtx, discovery.Endpoint{
		BaseURL: config.Expand(provider.BaseURL),
		APIKey:  config.Expand(provider.APIKey),
	})
	if err != nil {
		return err
	}

	diff := discovery.Compare(provider.Models, discovered)
	_, _ = fmt.Fprintf(stdout, "configured: %d  discovered: %d\n", len(provider.Models), len(discovered))
	if diff.Empty() {
		_, _ = fmt.Fprintln(stdout, "no changes")
		return nil
	}
	if len(diff.Added) > 0 {
		_, _ = fmt.Fprintf(stdout, "added:   %s\n", strings.Join(diff.Added, ", "))
	}
	if len(diff.Removed) > 0 {
		_, _ = fmt.Fprintf(stdout, "removed: %s\n", strings.Join(diff.Removed, ", "))
	}
	return nil
}
