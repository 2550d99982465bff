package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/leozw/domainhub/internal/config"
	"github.com/leozw/domainhub/internal/queue"
	"github.com/leozw/domainhub/internal/registrar"
	"github.com/leozw/domainhub/internal/storage"
	"github.com/leozw/domainhub/internal/syncer"
)

type Syncer interface {
	Sync(ctx context.Context, connectionID string) (*syncer.Result, error)
}

// Recorder is implemented by *metrics.Collector.
type Recorder interface {
	RecordJob(success bool)
	RecordWorkerMetrics(queueSize int64)
}

const popTimeout = 5 * time.Second

// Pool runs WorkerCount workers draining the sync queue.
type Pool struct {
	queue    JobQueue
	syncer   Syncer
	recorder Recorder
	logger   *zap.Logger
	config   config.SchedulerConfig
	wg       sync.WaitGroup
}

func NewPool(q JobQueue, s Syncer, recorder Recorder, logger *zap.Logger, cfg config.SchedulerConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 1
	}
	return &Pool{
		queue:    q,
		syncer:   s,
		recorder: recorder,
		logger:   logger,
		config:   cfg,
	}
}

// Start blocks until ctx is done and every worker has returned.
func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting workers", zap.Int("worker_count", p.config.WorkerCount))

	for i := 0; i < p.config.WorkerCount; i++ {
		w := &Worker{id: i, pool: p, logger: p.logger.With(zap.Int("worker_id", i))}
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			w.Start(ctx)
		}()
	}

	p.wg.Wait()
	p.logger.Info("Workers stopped")
}

type Worker struct {
	id     int
	pool   *Pool
	logger *zap.Logger
}

func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Worker started")

	for {
		if ctx.Err() != nil {
			w.logger.Info("Worker stopped")
			return
		}

		job, err := w.pool.queue.Pop(ctx, popTimeout)
		if errors.Is(err, queue.ErrTimeout) {
			continue
		}
		if err != nil {
			if ctx.Err() == nil {
				w.logger.Error("Failed to pop job", zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}

		w.processJob(ctx, job)
	}
}

func (w *Worker) processJob(ctx context.Context, job *queue.SyncJob) {
	start := time.Now()
	p := w.pool

	jobCtx := ctx
	if p.config.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.config.JobTimeout)
		defer cancel()
	}

	result, err := p.syncer.Sync(jobCtx, job.ConnectionID)
	if p.recorder != nil {
		p.recorder.RecordJob(err == nil)
		if n, lerr := p.queue.Length(ctx); lerr == nil {
			p.recorder.RecordWorkerMetrics(n)
		}
	}

	if err != nil {
		w.handleFailure(ctx, job, err)
		return
	}

	w.logger.Debug("Sync job completed",
		zap.String("job_id", job.ID),
		zap.String("connection_id", job.ConnectionID),
		zap.Int("synced", result.SyncedCount),
		zap.Duration("duration", time.Since(start)),
	)
}

// handleFailure requeues jobs that failed for a transient reason until
// MaxRetries is reached. A deleted connection is dropped silently.
func (w *Worker) handleFailure(ctx context.Context, job *queue.SyncJob, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.Debug("Connection gone, dropping job", zap.String("connection_id", job.ConnectionID))
		return
	}

	if !registrar.IsRetryable(err) || job.Attempts+1 >= w.pool.config.MaxRetries {
		w.logger.Error("Sync job failed",
			zap.String("job_id", job.ID),
			zap.String("connection_id", job.ConnectionID),
			zap.Int("attempts", job.Attempts+1),
			zap.Error(err),
		)
		return
	}

	retry := *job
	retry.Attempts++
	retry.CreatedAt = time.Now()
	if perr := w.pool.queue.Push(ctx, &retry); perr != nil {
		w.logger.Error("Failed to requeue job", zap.String("job_id", job.ID), zap.Error(perr))
		return
	}
	w.logger.Warn("Sync job requeued",
		zap.String("job_id", job.ID),
		zap.Int("attempts", retry.Attempts),
		zap.Error(err),
	)
}
