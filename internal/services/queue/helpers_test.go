package queue_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phambaophuc/image-task/internal/models"
	"github.com/phambaophuc/image-task/internal/services/queue"
)

type processFunc func(sourcePath, outputName string, opts models.TransformOptions) models.ProcessedImage

func (f processFunc) Process(sourcePath, outputName string, opts models.TransformOptions) models.ProcessedImage {
	return f(sourcePath, outputName, opts)
}

type fakeStorage struct {
	publicURL string
	err       error
}

func (s *fakeStorage) ResultURL(filename string) string {
	return "/results/" + filename
}

func (s *fakeStorage) Publish(context.Context, string) (string, error) {
	return s.publicURL, s.err
}

type failingBroker struct {
	*queue.MemoryBroker
}

func (failingBroker) Publish(context.Context, []byte) error {
	return errors.New("broker unavailable")
}

func waitForTerminal(t *testing.T, q queue.Scheduler, id string) *models.ProcessingJob {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		job, err := q.Status(context.Background(), id)
		if err != nil {
			t.Fatalf("Status(%s) failed: %v", id, err)
		}
		if job.State.Terminal() {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never reached a terminal state", id)
	return nil
}
