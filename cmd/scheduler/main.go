package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/logger"
	"github.com/leozw/domainhub/internal/queue"
	"github.com/leozw/domainhub/internal/scheduler"
	"github.com/leozw/domainhub/internal/storage/postgres"
	"github.com/leozw/domainhub/internal/storage/redis"
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

	// Scheduler and workers share state only through postgres and redis.
	if cfg.Database.URL == "" || cfg.Redis.URL == "" {
		logger.Fatal("Scheduler requires DATABASE_URL and REDIS_URL")
	}

	db, err := postgres.NewConnection(cfg.Database.URL, cfg.Database.MaxConnections, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	rc := redis.NewClient(cfg.Redis.URL)
	defer rc.Close()

	jobQueue := queue.NewRedisQueue(rc.Client, queue.DefaultQueueName)
	sched := scheduler.NewScheduler(db, jobQueue, logger, cfg.Scheduler)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- sched.Start(ctx) }()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down scheduler...")
		cancel()
		if err := <-done; err != nil {
			logger.Error("Scheduler stopped with error", zap.Error(err))
		}
	case err := <-done:
		cancel()
		if err != nil {
			logger.Fatal("Scheduler failed", zap.Error(err))
		}
	}

	logger.Info("Scheduler stopped")
}
