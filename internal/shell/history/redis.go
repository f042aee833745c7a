package history

import (
	"context"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// RedisStore persists history as a Redis list under one key, oldest line at
// the head. Useful when shells run on disposable hosts but the history
// should follow the operator.
type RedisStore struct {
	client *backend.Client
	key    string
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKey overrides the list key.
func WithKey(key string) RedisOption {
	return func(s *RedisStore) {
		if key != "" {
			s.key = key
		}
	}
}

// NewRedisStore creates a store talking to the given address.
func NewRedisStore(address string, opts ...RedisOption) *RedisStore {
	return NewRedisStoreFromClient(backend.NewClient(&backend.Options{Addr: address}), opts...)
}

// NewRedisStoreFromClient creates a store from an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		key:    "servicekit:history",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the whole list, oldest first.
func (s *RedisStore) Load(ctx context.Context) ([]string, error) {
	lines, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history from redis: %w", err)
	}
	return lines, nil
}

// Save replaces the list with the given lines, oldest first.
func (s *RedisStore) Save(ctx context.Context, lines []string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	if len(lines) > 0 {
		values := make([]interface{}, len(lines))
		for i, l := range lines {
			values[i] = l
		}
		pipe.RPush(ctx, s.key, values...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save history to redis: %w", err)
	}
	return nil
}

// Close closes the redis client.
func (s *RedisStore) Close() error { return s.client.Close() }
