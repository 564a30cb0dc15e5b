package fetcher

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "geo:"

// RedisFetcher implements Fetcher over documents stored in Redis
// Useful for serving lookups from a pre-seeded document set without
// reaching the provider
type RedisFetcher struct {
	client *redis.Client
}

// NewRedisFetcher creates a new Redis fetcher
//
// Parameters:
//   - addr: Redis server address (e.g., "localhost:6379")
//   - password: Redis password (empty string if no password)
//   - db: Redis database number (0-15, default is 0)
//
// Returns:
//   - *RedisFetcher: pointer to the created fetcher
//   - error: any error that occurred during connection
func NewRedisFetcher(addr, password string, db int) (*RedisFetcher, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test the connection
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisFetcher{client: client}, nil
}

// Name implements the Fetcher interface
func (f *RedisFetcher) Name() string {
	return "redis"
}

// Fetch implements the Fetcher interface
//
// Redis Key Format: geo:<ip_address>
// Example: geo:8.8.8.8
// Value: the raw document exactly as the provider returned it
func (f *RedisFetcher) Fetch(ctx context.Context, ip string) ([]byte, error) {
	val, err := f.client.Get(ctx, redisKeyPrefix+ip).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDocumentNotFound
		}
		return nil, fmt.Errorf("Redis query failed: %w", err)
	}
	return val, nil
}

// Set stores the raw document for an IP address (no expiration)
func (f *RedisFetcher) Set(ctx context.Context, ip string, body []byte) error {
	if err := f.client.Set(ctx, redisKeyPrefix+ip, body, 0).Err(); err != nil {
		return fmt.Errorf("failed to store in Redis: %w", err)
	}
	return nil
}

// LoadFromFiles copies every document from a FileFetcher directory into Redis
// Returns the number of documents stored
func (f *RedisFetcher) LoadFromFiles(ctx context.Context, dir string) (int, error) {
	files, err := NewFileFetcher(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to open documents: %w", err)
	}
	defer files.Close()

	count := 0
	err = files.Each(func(ip string, body []byte) error {
		if err := f.Set(ctx, ip, body); err != nil {
			return fmt.Errorf("failed to store document for %s: %w", ip, err)
		}
		count++
		return nil
	})
	return count, err
}

// IsEmpty checks if Redis holds any documents
func (f *RedisFetcher) IsEmpty(ctx context.Context) (bool, error) {
	keys, err := f.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return false, fmt.Errorf("failed to check Redis keys: %w", err)
	}
	return len(keys) == 0, nil
}

// SeedIfEmpty loads the documents in dir only when Redis holds none yet
// Returns the number of documents stored (0 when Redis was already populated)
func (f *RedisFetcher) SeedIfEmpty(ctx context.Context, dir string) (int, error) {
	empty, err := f.IsEmpty(ctx)
	if err != nil {
		return 0, err
	}
	if !empty {
		return 0, nil
	}
	return f.LoadFromFiles(ctx, dir)
}

// Close closes the Redis connection
func (f *RedisFetcher) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
