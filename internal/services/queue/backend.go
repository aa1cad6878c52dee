package queue

import (
	"fmt"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const memoryQueueSize = 1024

// NewBroker builds the broker named by rawURL's scheme: redis, rediss,
// amqp, amqps or memory.
func NewBroker(rawURL string) (Broker, error) {
	scheme, err := schemeOf(rawURL)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "redis", "rediss":
		client, err := newRedisClient(rawURL)
		if err != nil {
			return nil, err
		}
		return NewRedisBroker(client), nil
	case "amqp", "amqps":
		return NewAMQPBroker(rawURL)
	case "memory":
		return NewMemoryBroker(memoryQueueSize), nil
	}
	return nil, fmt.Errorf("unsupported broker scheme %q", scheme)
}

// NewStore builds the result backend named by rawURL's scheme: redis,
// rediss or memory.
func NewStore(rawURL string, ttl time.Duration) (Store, error) {
	scheme, err := schemeOf(rawURL)
	if err != nil {
		return nil, err
	}

	switch scheme {
	case "redis", "rediss":
		client, err := newRedisClient(rawURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, ttl), nil
	case "memory":
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unsupported result backend scheme %q", scheme)
}

func schemeOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid connection string: %w", err)
	}
	if u.Scheme == "" {
		return "", fmt.Errorf("connection string %q has no scheme", rawURL)
	}
	return u.Scheme, nil
}

func newRedisClient(rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}
