package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/queue"
)

type JobQueue interface {
	Push(ctx context.Context, job *queue.SyncJob) error
	Pop(ctx context.Context, timeout time.Duration) (*queue.SyncJob, error)
	Length(ctx context.Context) (int64, error)
}

// ConnectionSource lists the connections due for a periodic sync.
type ConnectionSource interface {
	GetActiveConnections(ctx context.Context) ([]*core.RegistrarConnection, error)
}

// Scheduler enqueues one sync job per active connection on every tick of
// the configured cron spec.
type Scheduler struct {
	connections ConnectionSource
	queue       JobQueue
	logger      *zap.Logger
	config      config.SchedulerConfig
	now         func() time.Time
}

func NewScheduler(connections ConnectionSource, q JobQueue, logger *zap.Logger, cfg config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		connections: connections,
		queue:       q,
		logger:      logger,
		config:      cfg,
		now:         time.Now,
	}
}

// Start blocks until ctx is done. It enqueues once immediately, then on
// every tick.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(s.config.SyncSpec, func() {
		if _, err := s.EnqueueAll(ctx); err != nil {
			s.logger.Error("Failed to schedule syncs", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}

	s.logger.Info("Starting scheduler", zap.String("spec", s.config.SyncSpec))
	if _, err := s.EnqueueAll(ctx); err != nil {
		s.logger.Error("Failed to schedule syncs", zap.Error(err))
	}

	c.Start()
	<-ctx.Done()

	s.logger.Info("Stopping scheduler")
	<-c.Stop().Done()
	return nil
}

// EnqueueAll pushes a job for every active connection and returns how many
// were queued. A failed push is logged and skipped.
func (s *Scheduler) EnqueueAll(ctx context.Context) (int, error) {
	conns, err := s.connections.GetActiveConnections(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, conn := range conns {
		job := &queue.SyncJob{
			ID:           uuid.New().String(),
			ConnectionID: conn.ID,
			UserID:       conn.UserID,
			CreatedAt:    s.now(),
		}

		if err := s.queue.Push(ctx, job); err != nil {
			s.logger.Warn("Failed to enqueue sync",
				zap.String("connection_id", conn.ID),
				zap.Error(err),
			)
			continue
		}
		queued++
		s.logger.Debug("Scheduled sync",
			zap.String("connection_id", conn.ID),
			zap.String("registrar", string(conn.Registrar)),
		)
	}
	return queued, nil
}
