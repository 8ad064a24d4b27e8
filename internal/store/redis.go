package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// seenTTL bounds how long processed mailbox message ids are remembered.
// The mailbox unread flag is the primary guard; this cache only covers
// restarts and racy flag propagation.
const seenTTL = 7 * 24 * time.Hour

// SeenCache remembers which mailbox messages have already been processed.
type SeenCache struct {
	client *redis.Client
}

// NewSeenCache creates a Redis-backed seen-message cache.
func NewSeenCache(ctx context.Context, redisURL string) (*SeenCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &SeenCache{client: client}, nil
}

// Close closes the Redis connection.
func (s *SeenCache) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *SeenCache) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// seenKey returns the key marking one processed mailbox message.
func seenKey(msgID string) string {
	return fmt.Sprintf("seen:%s", msgID)
}

// WasProcessed reports whether the message was already handled.
// A nil cache or a Redis error reads as "not seen": the unread flag
// still guards correctness, the cache is best-effort.
func (s *SeenCache) WasProcessed(ctx context.Context, msgID string) bool {
	if s == nil {
		return false
	}
	exists, _ := s.client.Exists(ctx, seenKey(msgID)).Result()
	return exists > 0
}

// MarkProcessed records the message id with a TTL.
func (s *SeenCache) MarkProcessed(ctx context.Context, msgID string) {
	if s == nil {
		return
	}
	s.client.Set(ctx, seenKey(msgID), "1", seenTTL)
}
