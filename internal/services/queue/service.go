package queue

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

const queueName = "image_processing"

type QueueService struct {
	broker    Broker
	store     Store
	processor transformer
	storage   resultStorage
	logger    *zap.Logger
	wg        sync.WaitGroup
}

func NewQueueService(
	broker Broker,
	store Store,
	processor transformer,
	storage resultStorage,
	logger *zap.Logger,
) *QueueService {
	return &QueueService{
		broker:    broker,
		store:     store,
		processor: processor,
		storage:   storage,
		logger:    logger,
	}
}

// Wait blocks until every started worker has returned.
func (q *QueueService) Wait() {
	q.wg.Wait()
}

// Close closes the queue connection
func (q *QueueService) Close() error {
	var errs []error
	if q.broker != nil {
		if err := q.broker.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close broker: %w", err))
		}
	}
	if q.store != nil {
		if err := q.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close store: %w", err))
		}
	}
	return errors.Join(errs...)
}
