// README: Read-through Redis cache for the fee schedule. Live flags never pass through here.
package pricing

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
)

const feeScheduleKey = "pricing:fee_schedule"

// ScheduleSource yields the static fee schedule.
type ScheduleSource interface {
	FeeSchedule(ctx context.Context) (FeeSchedule, error)
}

type FeeCache struct {
	redis  *redis.Client
	source ScheduleSource
	ttl    time.Duration
	logger *slog.Logger
}

func NewFeeCache(rdb *redis.Client, source ScheduleSource, ttl time.Duration, logger *slog.Logger) *FeeCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeeCache{redis: rdb, source: source, ttl: ttl, logger: logger}
}

// FeeSchedule returns the cached schedule, loading it from the source on a
// miss. Redis failures fall through to the source.
func (c *FeeCache) FeeSchedule(ctx context.Context) (FeeSchedule, error) {
	raw, err := c.redis.Get(ctx, feeScheduleKey).Bytes()
	switch {
	case err == nil:
		var fs FeeSchedule
		jerr := json.Unmarshal(raw, &fs)
		if jerr == nil {
			return fs, nil
		}
		c.logger.Warn("fee schedule cache entry unreadable", "error", jerr)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("fee schedule cache read failed", "error", err)
	}

	fs, err := c.source.FeeSchedule(ctx)
	if err != nil {
		return FeeSchedule{}, err
	}

	if b, err := json.Marshal(fs); err == nil {
		if err := c.redis.Set(ctx, feeScheduleKey, b, c.ttl).Err(); err != nil {
			c.logger.Warn("fee schedule cache write failed", "error", err)
		}
	}
	return fs, nil
}

// Invalidate drops the cached schedule so the next read reloads it.
func (c *FeeCache) Invalidate(ctx context.Context) error {
	return c.redis.Del(ctx, feeScheduleKey).Err()
}
