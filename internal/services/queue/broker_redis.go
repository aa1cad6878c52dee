package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisPollTimeout = time.Second
	redisRetryDelay  = 500 * time.Millisecond
)

// RedisBroker keeps pending jobs in a Redis list: LPUSH to publish, BRPOP to
// consume, so the oldest job is served first.
type RedisBroker struct {
	client *redis.Client
	key    string
}

func NewRedisBroker(client *redis.Client) *RedisBroker {
	return &RedisBroker{
		client: client,
		key:    keyPrefix + "queue:" + queueName,
	}
}

func (b *RedisBroker) Publish(ctx context.Context, body []byte) error {
	if err := b.client.LPush(ctx, b.key, body).Err(); err != nil {
		return fmt.Errorf("redis lpush: %w", err)
	}
	return nil
}

func (b *RedisBroker) Consume(ctx context.Context, consumer string) (<-chan Delivery, error) {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for ctx.Err() == nil {
			res, err := b.client.BRPop(ctx, redisPollTimeout, b.key).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) || ctx.Err() != nil {
					continue
				}
				time.Sleep(redisRetryDelay)
				continue
			}

			// res is [key, value].
			body := []byte(res[1])
			select {
			case out <- b.delivery(body):
			case <-ctx.Done():
				b.requeue(body)
				return
			}
		}
	}()
	return out, nil
}

func (b *RedisBroker) delivery(body []byte) Delivery {
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

// requeue puts body back at the consuming end of the list.
func (b *RedisBroker) requeue(body []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	return b.client.RPush(ctx, b.key, body).Err()
}

// Len is the number of jobs waiting in the list.
func (b *RedisBroker) Len(ctx context.Context) (int64, error) {
	return b.client.LLen(ctx, b.key).Result()
}

func (b *RedisBroker) HealthCheck(ctx context.Context) string {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}
