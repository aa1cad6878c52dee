package queue

import (
	"context"
	"fmt"

	"github.com/phambaophuc/image-task/internal/models"
	"github.com/phambaophuc/image-task/pkg/utils"
	"go.uber.org/zap"
)

func (q *QueueService) safeProcessJob(ctx context.Context, job *models.ProcessingJob) (result models.ProcessedImage) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("Job panicked", zap.String("job_id", job.ID), zap.Any("panic", r))
			result = models.FailedImage("unknown", fmt.Errorf("job panicked: %v", r))
		}
	}()
	return q.processJob(ctx, job)
}

func (q *QueueService) processJob(ctx context.Context, job *models.ProcessingJob) models.ProcessedImage {
	outputName := utils.GenerateFilename(job.ID, job.Filename)

	result := q.processor.Process(job.SourcePath, outputName, job.Options)
	if result.Status != models.StatusSuccess {
		return result
	}

	result.URL = q.storage.ResultURL(result.Filename)

	publicURL, err := q.storage.Publish(ctx, result.File)
	if err != nil {
		q.logger.Warn("Failed to mirror processed image",
			zap.String("job_id", job.ID),
			zap.Error(err))
	} else {
		result.PublicURL = publicURL
	}

	return result
}
