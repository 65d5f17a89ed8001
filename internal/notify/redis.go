package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultQueueKey is the Redis list external consumers read digests from.
const defaultQueueKey = "rigwatch:alert_digests"

// RedisConfig holds queue delivery settings.
type RedisConfig struct {
	URL string `yaml:"url"` // e.g. redis://localhost:6379/0
	Key string `yaml:"key,omitempty"`
}

// RedisSender pushes JSON-encoded digests onto a Redis list. Delivery is
// fire-and-forget: rigwatch never reads the list back.
type RedisSender struct {
	client *redis.Client
	key    string
}

// NewRedisSender creates a queue sender and verifies connectivity.
func NewRedisSender(cfg RedisConfig) (*RedisSender, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = defaultQueueKey
	}
	return &RedisSender{client: client, key: key}, nil
}

func (s *RedisSender) Name() string { return "redis" }

// Send pushes the digest onto the queue.
func (s *RedisSender) Send(ctx context.Context, digest Digest) error {
	data, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("marshaling digest: %w", err)
	}
	if err := s.client.LPush(ctx, s.key, data).Err(); err != nil {
		return fmt.Errorf("pushing digest to redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (s *RedisSender) Close() error {
	return s.client.Close()
}
