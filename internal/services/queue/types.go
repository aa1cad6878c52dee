package queue

import (
	"context"
	"errors"

	"github.com/phambaophuc/image-task/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

// Scheduler is the boundary the HTTP layer talks to.
type Scheduler interface {
	Submit(ctx context.Context, sourcePath, filename string, opts models.TransformOptions) (string, error)
	Status(ctx context.Context, jobID string) (*models.ProcessingJob, error)
}

// Delivery is one message handed to a worker. Exactly one of Ack or Nack
// must be called.
type Delivery struct {
	Body []byte
	Ack  func() error
	Nack func(requeue bool) error
}

// Broker moves serialized jobs from Submit to the workers.
type Broker interface {
	Publish(ctx context.Context, body []byte) error
	Consume(ctx context.Context, consumer string) (<-chan Delivery, error)
	HealthCheck(ctx context.Context) string
	Close() error
}

// Store keeps job state where pollers can read it.
type Store interface {
	Save(ctx context.Context, job *models.ProcessingJob) error
	Get(ctx context.Context, id string) (*models.ProcessingJob, error)
	HealthCheck(ctx context.Context) string
	Close() error
}

type transformer interface {
	Process(sourcePath, outputName string, opts models.TransformOptions) models.ProcessedImage
}

type resultStorage interface {
	ResultURL(filename string) string
	Publish(ctx context.Context, localPath string) (string, error)
}
