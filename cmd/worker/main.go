package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/logger"
	"github.com/leozw/domainhub/internal/metrics"
	"github.com/leozw/domainhub/internal/queue"
	"github.com/leozw/domainhub/internal/registrar/factory"
	"github.com/leozw/domainhub/internal/scheduler"
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

	if cfg.Database.URL == "" || cfg.Redis.URL == "" {
		logger.Fatal("Worker requires DATABASE_URL and REDIS_URL")
	}

	db, err := postgres.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rc := redis.NewClient(cfg.Redis.URL)
	defer rc.Close()

	collector := metrics.NewCollector(cfg.Mimir, prometheus.NewRegistry())
	clients := factory.New(factory.OptionsFromConfig(cfg.Registrars, collector))
	sync := syncer.NewService(db, clients, logger, collector)

	jobQueue := queue.NewRedisQueue(rc.Client, queue.DefaultQueueName)
	pool := scheduler.NewPool(jobQueue, sync, collector, logger, cfg.Scheduler)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go collector.StartRemoteWrite(ctx, logger)

	stopped := make(chan struct{})
	go func() {
		pool.Start(ctx)
		close(stopped)
	}()

	logger.Info("Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-stopped
	logger.Info("Worker stopped")
}
