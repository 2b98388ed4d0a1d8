package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const cacheTTL = 5 * time.Minute

// Cache holds computed year summaries in Redis. Misses for the same key are
// collapsed with singleflight so a popular employee does not fan out into
// parallel materializations.
type Cache struct {
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewCache(rdb *redis.Client, logger ...*zap.Logger) *Cache {
	l := zap.L().Named("balance.cache")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.cache")
	}
	return &Cache{rdb: rdb, logger: l}
}

func cacheKey(employeeID string, year int) string {
	return fmt.Sprintf("balance:%s:%d", employeeID, year)
}

func (c *Cache) GetOrCompute(ctx context.Context, employeeID string, year int, compute func() (YearBalances, error)) (YearBalances, error) {
	key := cacheKey(employeeID, year)

	if val, err := c.rdb.Get(ctx, key).Result(); err == nil {
		var yb YearBalances
		if err := json.Unmarshal([]byte(val), &yb); err == nil {
			return yb, nil
		}
		// Unreadable entry: drop it and recompute.
		c.rdb.Del(ctx, key)
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		yb, err := compute()
		if err != nil {
			return YearBalances{}, err
		}

		if payload, err := json.Marshal(yb); err == nil {
			if err := c.rdb.Set(ctx, key, payload, cacheTTL).Err(); err != nil {
				c.logger.Warn("balance cache set failed", zap.String("key", key), zap.Error(err))
			}
		}
		return yb, nil
	})
	if err != nil {
		return YearBalances{}, err
	}
	return v.(YearBalances), nil
}

// Invalidate drops the cached summaries for the given years. Entries that
// survive a failed delete still expire on their own TTL.
func (c *Cache) Invalidate(ctx context.Context, employeeID string, years ...int) {
	for _, year := range years {
		key := cacheKey(employeeID, year)
		if err := c.rdb.Del(ctx, key).Err(); err != nil {
			c.logger.Warn("balance cache invalidate failed", zap.String("key", key), zap.Error(err))
		}
	}
}
