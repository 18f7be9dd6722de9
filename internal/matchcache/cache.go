// Package matchcache caches match percentages in Redis. Records are never
// updated, so a score keyed on the pair of record IDs stays valid until the
// entry expires.
package matchcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type entry struct {
	MatchPercentage float64   `json:"match_percentage"`
	ComputedAt      time.Time `json:"computed_at"`
}

// RedisCache stores entries as JSON under "<prefix><resumeID>:<jobID>".
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// New creates a cache. Prefix may be empty; a non-positive ttl keeps entries
// for one hour.
func New(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if prefix == "" {
		prefix = "match:"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisCache) key(resumeID, jobID string) string {
	return c.prefix + resumeID + ":" + jobID
}

// Get returns the cached score and whether it was present.
func (c *RedisCache) Get(ctx context.Context, resumeID, jobID string) (float64, bool, error) {
	b, err := c.client.Get(ctx, c.key(resumeID, jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	var e entry
	if err := json.Unmarshal(b, &e); err != nil {
		// unreadable entries are dropped and recomputed
		_ = c.client.Del(ctx, c.key(resumeID, jobID)).Err()
		return 0, false, nil
	}
	return e.MatchPercentage, true, nil
}

func (c *RedisCache) Set(ctx context.Context, resumeID, jobID string, score float64) error {
	b, err := json.Marshal(entry{MatchPercentage: score, ComputedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(resumeID, jobID), b, c.ttl).Err()
}
