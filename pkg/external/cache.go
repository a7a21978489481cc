package external

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/variant-context-server/internal/domain"
)

// AnnotationCache wraps a Redis client with annotation-record caching. The
// annotation source's records are immutable for a given identifier, so cached
// entries are safe to serve for the configured TTL.
type AnnotationCache struct {
	redis      *redis.Client
	defaultTTL time.Duration
}

// NewAnnotationCache creates a new annotation cache client.
func NewAnnotationCache(config domain.CacheConfig) (*AnnotationCache, error) {
	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	opts.PoolSize = config.PoolSize
	opts.PoolTimeout = config.PoolTimeout
	opts.MaxRetries = config.MaxRetries

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &AnnotationCache{
		redis:      client,
		defaultTTL: config.DefaultTTL,
	}, nil
}

// cachedAnnotation carries a cached record with its expiry metadata.
type cachedAnnotation struct {
	Record    *domain.AnnotationRecord `json:"record"`
	CachedAt  time.Time                `json:"cached_at"`
	ExpiresAt time.Time                `json:"expires_at"`
}

// Get retrieves a cached annotation record for a normalized identifier.
func (c *AnnotationCache) Get(ctx context.Context, queryID string) (*domain.AnnotationRecord, bool, error) {
	key := c.key(queryID)

	val, err := c.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil // cache miss
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get annotation cache: %w", err)
	}

	var cached cachedAnnotation
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		// Remove corrupted cache entry
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	if time.Now().After(cached.ExpiresAt) {
		c.redis.Del(ctx, key)
		return nil, false, nil
	}

	return cached.Record, true, nil
}

// Set caches an annotation record.
func (c *AnnotationCache) Set(ctx context.Context, queryID string, record *domain.AnnotationRecord, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}

	cached := cachedAnnotation{
		Record:    record,
		CachedAt:  time.Now(),
		ExpiresAt: time.Now().Add(ttl),
	}

	jsonData, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("failed to marshal annotation cache data: %w", err)
	}

	return c.redis.Set(ctx, c.key(queryID), jsonData, ttl).Err()
}

// Close closes the underlying Redis connection.
func (c *AnnotationCache) Close() error {
	return c.redis.Close()
}

// Health reports whether Redis is reachable.
func (c *AnnotationCache) Health(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

func (c *AnnotationCache) key(queryID string) string {
	sum := sha256.Sum256([]byte(queryID))
	return fmt.Sprintf("vctx:annotation:%x", sum[:16])
}
