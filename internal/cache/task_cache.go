package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/Arieh-code/task-managment-project/internal/domain"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "task:list:"

// TaskCache caches per-user task listings in Redis. Keys carry a variant
// suffix so filtered listings cache independently; every mutation for a user
// invalidates all of that user's entries.
type TaskCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewTaskCache returns a new TaskCache.
func NewTaskCache(rdb *redis.Client, ttl time.Duration) *TaskCache {
	return &TaskCache{rdb: rdb, ttl: ttl}
}

func userKey(userID int64, variant string) string {
	k := keyPrefix + strconv.FormatInt(userID, 10)
	if variant != "" {
		k += ":" + variant
	}
	return k
}

// invalidationPattern matches every variant key of the user and nothing else.
func invalidationPattern(userID int64) string {
	return keyPrefix + strconv.FormatInt(userID, 10) + ":*"
}

// GetList returns the cached listing for the user/variant, or nil on miss.
func (c *TaskCache) GetList(ctx context.Context, userID int64, variant string) ([]dom.Task, error) {
	b, err := c.rdb.Get(ctx, userKey(userID, variant)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Task
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores a listing for the user/variant.
func (c *TaskCache) SetList(ctx context.Context, userID int64, variant string, list []dom.Task) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, userKey(userID, variant), b, c.ttl).Err()
}

// InvalidateUser removes every cached listing for the user (cache
// invalidation on write). The scan pattern requires the ":" variant
// separator after the id so user 1 never matches keys of users 10, 11 or
// 100; the variant-less key is deleted separately.
func (c *TaskCache) InvalidateUser(ctx context.Context, userID int64) error {
	if err := c.rdb.Del(ctx, userKey(userID, "")).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, invalidationPattern(userID), 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
