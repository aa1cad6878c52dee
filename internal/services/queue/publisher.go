package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phambaophuc/image-task/internal/models"
	"go.uber.org/zap"
)

// Submit records a PENDING job and hands it to the broker. When the broker
// refuses the job it is stored as FAILURE so pollers never wait forever.
func (q *QueueService) Submit(ctx context.Context, sourcePath, filename string, opts models.TransformOptions) (string, error) {
	job := &models.ProcessingJob{
		ID:         uuid.New().String(),
		SourcePath: sourcePath,
		Filename:   filename,
		Options:    opts,
		State:      models.StatePending,
		CreatedAt:  time.Now().UTC(),
	}

	if err := q.store.Save(ctx, job); err != nil {
		return "", fmt.Errorf("failed to save job: %w", err)
	}

	if err := q.PublishJob(ctx, job); err != nil {
		job.Finish(models.FailedImage("queue", err))
		if saveErr := q.store.Save(ctx, job); saveErr != nil {
			q.logger.Error("Failed to record rejected job",
				zap.String("job_id", job.ID),
				zap.Error(saveErr))
		}
		return "", err
	}

	return job.ID, nil
}

func (q *QueueService) PublishJob(ctx context.Context, job *models.ProcessingJob) error {
	jobBytes, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	if err := q.broker.Publish(ctx, jobBytes); err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Info("Job published to queue", zap.String("job_id", job.ID))
	return nil
}

// Status returns the current snapshot of a job.
func (q *QueueService) Status(ctx context.Context, jobID string) (*models.ProcessingJob, error) {
	if _, err := uuid.Parse(jobID); err != nil {
		return nil, ErrJobNotFound
	}
	return q.store.Get(ctx, jobID)
}
