package queue

import (
	"context"
	"sync"

	"github.com/phambaophuc/image-task/internal/models"
)

type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]models.ProcessingJob
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]models.ProcessingJob)}
}

func (s *MemoryStore) Save(ctx context.Context, job *models.ProcessingJob) error {
	s.mu.Lock()
	s.jobs[job.ID] = *cloneJob(job)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*models.ProcessingJob, error) {
	s.mu.RLock()
	job, ok := s.jobs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrJobNotFound
	}
	return cloneJob(&job), nil
}

func cloneJob(job *models.ProcessingJob) *models.ProcessingJob {
	c := *job
	if job.Result != nil {
		result := *job.Result
		c.Result = &result
	}
	if job.DoneAt != nil {
		done := *job.DoneAt
		c.DoneAt = &done
	}
	return &c
}

func (s *MemoryStore) HealthCheck(ctx context.Context) string {
	return "healthy"
}

func (s *MemoryStore) Close() error {
	return nil
}
