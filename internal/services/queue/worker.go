package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phambaophuc/image-task/internal/models"
	"go.uber.org/zap"
)

const saveTimeout = 10 * time.Second

// StartWorkers registers n consumers. They stop when ctx is cancelled; use
// Wait to block until they have drained.
func (q *QueueService) StartWorkers(ctx context.Context, n int) error {
	if n < 1 {
		n = 1
	}
	for i := 1; i <= n; i++ {
		if err := q.StartWorker(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

func (q *QueueService) StartWorker(ctx context.Context, workerID int) error {
	msgs, err := q.broker.Consume(ctx, fmt.Sprintf("worker-%d", workerID))
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	q.logger.Info("Worker started", zap.Int("worker_id", workerID))

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Worker stopping", zap.Int("worker_id", workerID))
				return
			case msg, ok := <-msgs:
				if !ok {
					q.logger.Warn("Message channel closed", zap.Int("worker_id", workerID))
					return
				}

				q.processMessage(ctx, msg, workerID)
			}
		}
	}()

	return nil
}

func (q *QueueService) processMessage(ctx context.Context, msg Delivery, workerID int) {
	var job models.ProcessingJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		q.logger.Error("Failed to unmarshal job",
			zap.Error(err),
			zap.Int("worker_id", workerID))
		msg.Nack(false) // Don't requeue malformed messages
		return
	}

	q.logger.Info("Processing job",
		zap.String("job_id", job.ID),
		zap.Int("worker_id", workerID))

	started := time.Now()
	job.Finish(q.safeProcessJob(ctx, &job))

	if job.State == models.StateSuccess {
		q.logger.Info("Job completed successfully",
			zap.String("job_id", job.ID),
			zap.Duration("took", time.Since(started)))
	} else {
		q.logger.Error("Job processing failed",
			zap.String("job_id", job.ID),
			zap.String("error_kind", job.Result.ErrorKind),
			zap.String("error", job.Result.Error))
	}

	if err := q.storeJobResult(ctx, &job); err != nil {
		q.logger.Error("Failed to store job result",
			zap.String("job_id", job.ID),
			zap.Error(err))
		if nackErr := msg.Nack(true); nackErr != nil {
			q.logger.Error("Failed to requeue job",
				zap.String("job_id", job.ID),
				zap.Error(nackErr))
		}
		return
	}

	if err := msg.Ack(); err != nil {
		q.logger.Error("Failed to ack message",
			zap.String("job_id", job.ID),
			zap.Error(err))
	}
}

// storeJobResult persists the terminal job even when shutdown has already
// cancelled ctx.
func (q *QueueService) storeJobResult(ctx context.Context, job *models.ProcessingJob) error {
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	return q.store.Save(saveCtx, job)
}
