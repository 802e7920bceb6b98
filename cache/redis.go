package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zero-day-ai/kgcn/traverse"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// Redis implements Cache using go-redis/v9. One Redis cache can be shared by
// all training workers reading the same snapshot.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed cache with the given options and verifies
// the connection.
func NewRedis(opts RedisOptions) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("cache: parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect to Redis: %w", err)
	}

	return &Redis{client: client}, nil
}

// Get returns the records cached under key, or ErrMiss.
func (r *Redis) Get(ctx context.Context, key Key) ([]traverse.Record, error) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.ErrClosed) {
		return nil, ErrClosed
	}
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get %s: %w", key, err)
	}

	var records []traverse.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return records, nil
}

// Put stores records under key with the given TTL.
func (r *Redis) Put(ctx context.Context, key Key, records []traverse.Record, ttl time.Duration) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}
	if err := r.client.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		if errors.Is(err, redis.ErrClosed) {
			return ErrClosed
		}
		return fmt.Errorf("cache: put %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}
