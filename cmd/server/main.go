// Wanderlens - Travel Media Selection and Caching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wanderlens

// Package main runs the Wanderlens media server.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, config file, WANDERLENS_* environment)
//  2. Logging
//  3. Index store (badger, sqlite or memory) and cache index restore
//  4. Fetcher, asset cache, catalog, providers, selector, stream optimizer
//  5. Engine and HTTP API
//  6. Supervisor tree with eviction, index flush, video cleanup and HTTP
//
// SIGINT and SIGTERM cancel the tree. The index flush service writes the
// index one last time before the store is closed.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/tomtom215/wanderlens/internal/api"
	"github.com/tomtom215/wanderlens/internal/cache"
	"github.com/tomtom215/wanderlens/internal/catalog"
	"github.com/tomtom215/wanderlens/internal/config"
	"github.com/tomtom215/wanderlens/internal/engine"
	"github.com/tomtom215/wanderlens/internal/fetch"
	"github.com/tomtom215/wanderlens/internal/logging"
	"github.com/tomtom215/wanderlens/internal/metrics"
	"github.com/tomtom215/wanderlens/internal/provider"
	"github.com/tomtom215/wanderlens/internal/selector"
	"github.com/tomtom215/wanderlens/internal/store"
	"github.com/tomtom215/wanderlens/internal/stream"
	"github.com/tomtom215/wanderlens/internal/supervisor"
	"github.com/tomtom215/wanderlens/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("wanderlens stopped with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("store", cfg.Store.Backend).
		Strs("providers", cfg.Providers.Order).
		Msg("starting wanderlens")
	logging.Debug().
		Str("addr", net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))).
		Int("memory_budget_mb", cfg.Cache.MemoryBudgetMB).
		Float64("data_budget_mb", cfg.Stream.BudgetMB).
		Msg("configuration loaded")

	indexStore, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open index store: %w", err)
	}
	defer func() {
		if err := indexStore.Close(); err != nil {
			logging.Error().Err(err).Msg("error closing index store")
		}
	}()

	fetcher := fetch.NewHTTPFetcher(fetch.ConfigFrom(cfg.Fetch), logging.WithComponent("fetch"))
	assetCache := cache.New(cache.ConfigFrom(cfg.Cache, cfg.Fetch.Timeout), fetcher, logging.WithComponent("cache"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if n, err := assetCache.LoadIndex(ctx, indexStore); err != nil {
		logging.Warn().Err(err).Msg("cache index not restored, starting cold")
	} else {
		logging.Info().Int("entries", n).Msg("cache index restored")
	}

	cat, err := catalog.New()
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	chain := provider.FromConfig(cfg, logging.WithComponent("provider"))
	logging.Info().Strs("providers", chain.Names()).Msg("content providers configured")

	sel := selector.New(cat, chain, selector.ConfigFrom(cfg.Selector), logging.WithComponent("selector"))
	optimizer := stream.New(stream.ConfigFrom(cfg.Stream), assetCache, fetcher, logging.WithComponent("stream"))
	eng := engine.New(engine.DefaultConfig(), cat, sel, assetCache, optimizer, logger)

	router := api.NewRouter(api.NewHandler(eng, logger), api.ChiMiddlewareConfigFrom(cfg.Server), logger)
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * time.Minute,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfigFrom(cfg.Supervisor))
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddDataService(services.NewEvictionService(assetCache, cfg.Cache.EvictionInterval, logger))
	tree.AddDataService(services.NewIndexFlushService(assetCache, indexStore, cfg.Cache.IndexFlushInterval, logger))
	tree.AddEngineService(services.NewVideoCleanupService(optimizer, cfg.Stream.CleanupInterval, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Supervisor.ShutdownTimeout, logger))

	logging.Info().Str("addr", server.Addr).Strs("destinations", eng.Destinations()).Msg("wanderlens ready")

	if err := <-tree.ServeBackground(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	eng.Wait()
	if unstopped, err := tree.UnstoppedServiceReport(); err == nil {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
		}
	}
	logging.Info().Msg("wanderlens stopped")
	return nil
}
