package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"social-go/internal/models"
	"social-go/internal/services"
)

// redisCounterCache is the Redis implementation of services.CounterCache.
// It holds a short-TTL write-through copy of reaction tallies so read-heavy
// callers can serve them without touching the target row; the row stays
// authoritative.
type redisCounterCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCounterCache creates a new CounterCache backed by Redis.
func NewRedisCounterCache(client *redis.Client, ttl time.Duration) services.CounterCache {
	return &redisCounterCache{client: client, ttl: ttl}
}

const counterKeyPrefix = "rc:"

func counterKey(kind models.TargetKind, targetID uint) string {
	return fmt.Sprintf("%s%s:%d", counterKeyPrefix, kind, targetID)
}

// SetReactionCounts stores the tally for a target with the cache TTL.
func (c *redisCounterCache) SetReactionCounts(ctx context.Context, kind models.TargetKind, targetID uint, counts models.ReactionCounts) error {
	payload, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("marshalling reaction counts for %s %d: %w", kind, targetID, err)
	}
	if err := c.client.Set(ctx, counterKey(kind, targetID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching reaction counts for %s %d: %w", kind, targetID, err)
	}
	return nil
}

// GetReactionCounts retrieves a cached tally. The second return value is
// false on a cache miss.
func (c *redisCounterCache) GetReactionCounts(ctx context.Context, kind models.TargetKind, targetID uint) (models.ReactionCounts, bool, error) {
	val, err := c.client.Get(ctx, counterKey(kind, targetID)).Bytes()
	if err == redis.Nil {
		return models.ReactionCounts{}, false, nil
	}
	if err != nil {
		return models.ReactionCounts{}, false, fmt.Errorf("reading cached reaction counts for %s %d: %w", kind, targetID, err)
	}

	var counts models.ReactionCounts
	if err := json.Unmarshal(val, &counts); err != nil {
		return models.ReactionCounts{}, false, fmt.Errorf("unmarshalling cached reaction counts for %s %d: %w", kind, targetID, err)
	}
	return counts, true, nil
}
