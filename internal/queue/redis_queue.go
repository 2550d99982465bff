package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrTimeout = errors.New("queue timeout")

const DefaultQueueName = "domainhub:sync_jobs"

// SyncJob asks a worker to sync one registrar connection.
type SyncJob struct {
	ID           string    `json:"id"`
	ConnectionID string    `json:"connection_id"`
	UserID       string    `json:"user_id"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at"`
}

type RedisQueue struct {
	client    *redis.Client
	queueName string
}

func NewRedisQueue(client *redis.Client, queueName string) *RedisQueue {
	if queueName == "" {
		queueName = DefaultQueueName
	}
	return &RedisQueue{
		client:    client,
		queueName: queueName,
	}
}

// Push scores jobs by creation time so the oldest is popped first.
func (q *RedisQueue) Push(ctx context.Context, job *SyncJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	created := job.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	err = q.client.ZAdd(ctx, q.queueName, redis.Z{
		Score:  float64(created.UnixMilli()),
		Member: data,
	}).Err()

	if err != nil {
		return fmt.Errorf("failed to push job: %w", err)
	}

	return nil
}

// Pop blocks for up to timeout and returns ErrTimeout when nothing arrived.
func (q *RedisQueue) Pop(ctx context.Context, timeout time.Duration) (*SyncJob, error) {
	result, err := q.client.BZPopMin(ctx, timeout, q.queueName).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("failed to pop job: %w", err)
	}

	member, ok := result.Member.(string)
	if !ok {
		return nil, errors.New("invalid result from queue")
	}

	var job SyncJob
	if err := json.Unmarshal([]byte(member), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	return &job, nil
}

func (q *RedisQueue) Length(ctx context.Context) (int64, error) {
	return q.client.ZCard(ctx, q.queueName).Result()
}
