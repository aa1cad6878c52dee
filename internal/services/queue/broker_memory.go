package queue

import (
	"context"
	"errors"
	"sync"
)

var (
	errBrokerClosed = errors.New("broker closed")
	errQueueFull    = errors.New("queue full, message dropped")
)

// MemoryBroker is an in-process broker for tests and single-binary runs.
// Jobs do not survive a restart.
type MemoryBroker struct {
	mu     sync.RWMutex
	ch     chan Delivery
	closed bool
}

func NewMemoryBroker(size int) *MemoryBroker {
	if size < 1 {
		size = 1
	}
	return &MemoryBroker{ch: make(chan Delivery, size)}
}

func (b *MemoryBroker) Publish(ctx context.Context, body []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errBrokerClosed
	}

	select {
	case b.ch <- b.delivery(body):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *MemoryBroker) delivery(body []byte) Delivery {
	return Delivery{
		Body: body,
		Ack:  func() error { return nil },
		Nack: func(requeue bool) error {
			if !requeue {
				return nil
			}
			return b.requeue(body)
		},
	}
}

// requeue never blocks: it runs on a consumer goroutine, which may be the
// only reader of a full channel.
func (b *MemoryBroker) requeue(body []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errBrokerClosed
	}

	select {
	case b.ch <- b.delivery(body):
		return nil
	default:
		return errQueueFull
	}
}

// Consume hands out the shared channel; each delivery reaches one consumer.
func (b *MemoryBroker) Consume(ctx context.Context, consumer string) (<-chan Delivery, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, errBrokerClosed
	}
	return b.ch, nil
}

// Len is the number of deliveries waiting for a worker.
func (b *MemoryBroker) Len() int {
	return len(b.ch)
}

func (b *MemoryBroker) HealthCheck(ctx context.Context) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return "unhealthy: broker closed"
	}
	return "healthy"
}

func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.ch)
	}
	return nil
}
