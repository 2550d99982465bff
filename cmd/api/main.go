package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ory/graceful"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/api"
	"github.com/leozw/domainhub/internal/api/handlers"
	"github.com/leozw/domainhub/internal/cache"
	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/domains"
	"github.com/leozw/domainhub/internal/logger"
	"github.com/leozw/domainhub/internal/lookup"
	"github.com/leozw/domainhub/internal/metrics"
	"github.com/leozw/domainhub/internal/registrar/factory"
	"github.com/leozw/domainhub/internal/search"
	"github.com/leozw/domainhub/internal/storage"
	"github.com/leozw/domainhub/internal/storage/memory"
	"github.com/leozw/domainhub/internal/storage/postgres"
	"github.com/leozw/domainhub/internal/storage/redis"
	"github.com/leozw/domainhub/internal/syncer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	checks := map[string]handlers.Check{}

	// Store
	var store storage.Store
	if cfg.Database.URL != "" {
		if err := postgres.Migrate(cfg.Database.URL); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		db, err := postgres.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		store = db
		checks["database"] = db.PingContext
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory store")
		store = memory.New()
	}

	if cfg.Demo.Seed {
		if err := storage.Seed(ctx, store, cfg, time.Now()); err != nil {
			logger.Fatal("Failed to seed demo data", zap.Error(err))
		}
	} else {
		n, err := storage.Bootstrap(ctx, store, cfg, time.Now())
		if err != nil {
			logger.Fatal("Failed to bootstrap connections", zap.Error(err))
		}
		logger.Info("Bootstrapped registrar connections", zap.Int("count", n))
	}

	// Search cache
	searchCache := cache.NewMemory(cfg.Search.CacheTTL)
	if cfg.Redis.URL != "" {
		rc := redis.NewClient(cfg.Redis.URL)
		defer rc.Close()
		searchCache = cache.NewRedis(rc, "domainhub:")
		checks["redis"] = func(ctx context.Context) error { return rc.Ping(ctx).Err() }
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(cfg.Mimir, reg)
	go collector.StartRemoteWrite(ctx, logger)

	clients := factory.New(factory.OptionsFromConfig(cfg.Registrars, collector))

	svc := api.Services{
		Domains: domains.NewService(store, clients,
			lookup.NewNSResolver("", 5*time.Second),
			lookup.NewWhoisClient(10*time.Second),
			logger,
		),
		Search: search.NewService(store, clients, logger, search.Options{
			Cache:       searchCache,
			CacheTTL:    cfg.Search.CacheTTL,
			Concurrency: cfg.Search.Concurrency,
			Recorder:    collector,
		}),
		Syncer: syncer.NewService(store, clients, logger, collector),
	}

	server := api.NewServer(cfg, svc, checks, reg, logger)

	srv := graceful.WithDefaults(&http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: server.Router,
	})

	logger.Info("API server started", zap.String("port", cfg.Server.Port))
	if err := graceful.Graceful(srv.ListenAndServe, srv.Shutdown); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server exited")
}
