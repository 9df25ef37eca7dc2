package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/M4yankkkk/ChronoTask/internal/model"
	"github.com/M4yankkkk/ChronoTask/pkg/metrics"
)

// WeekCache keeps rendered week views in Redis. It fails open: when
// Redis is down every lookup is a miss and writes are skipped, so the
// store stays the source of truth.
type WeekCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewWeekCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *WeekCache {
	return &WeekCache{rdb: rdb, ttl: ttl, logger: logger}
}

func weekKey(ownerID string, windowStart time.Time) string {
	return fmt.Sprintf("week:%s:%d", ownerID, windowStart.UnixMilli())
}

// Get returns the cached week view, if any.
func (c *WeekCache) Get(ctx context.Context, ownerID string, windowStart time.Time) ([]model.Task, bool) {
	if c == nil || c.rdb == nil {
		metrics.IncrementWeekCache("bypass")
		return nil, false
	}

	data, err := c.rdb.Get(ctx, weekKey(ownerID, windowStart)).Bytes()
	if err != nil {
		if err != redis.Nil && c.logger != nil {
			c.logger.Warn("Week cache read failed, falling back to store",
				zap.String("owner_id", ownerID),
				zap.Error(err),
			)
		}
		metrics.IncrementWeekCache("miss")
		return nil, false
	}

	var tasks []model.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		metrics.IncrementWeekCache("miss")
		return nil, false
	}

	metrics.IncrementWeekCache("hit")
	return tasks, true
}

// Set stores a week view with the configured TTL.
func (c *WeekCache) Set(ctx context.Context, ownerID string, windowStart time.Time, tasks []model.Task) {
	if c == nil || c.rdb == nil {
		return
	}

	data, err := json.Marshal(tasks)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, weekKey(ownerID, windowStart), data, c.ttl).Err(); err != nil && c.logger != nil {
		c.logger.Warn("Week cache write failed",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
}

// Invalidate drops every cached week for the owner. Called on each write
// path; a task move can leave one window and enter another, so all of the
// owner's windows go.
func (c *WeekCache) Invalidate(ctx context.Context, ownerID string) {
	if c == nil || c.rdb == nil {
		return
	}

	pattern := fmt.Sprintf("week:%s:*", ownerID)
	iter := c.rdb.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil && c.logger != nil {
			c.logger.Warn("Week cache invalidation failed",
				zap.String("key", iter.Val()),
				zap.Error(err),
			)
		}
	}
	if err := iter.Err(); err != nil && c.logger != nil {
		c.logger.Warn("Week cache scan failed",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
	}
}
