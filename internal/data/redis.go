package data

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"tradein-valuation/internal/model"
)

const redisKeyPrefix = "tradein:profile:"

// RedisCache shares cached profiles between API replicas. Redis failures
// degrade to cache misses.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCache {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (r *RedisCache) Get(ctx context.Context, deviceID string) (*model.DeviceMarketProfile, bool) {
	raw, err := r.rdb.Get(ctx, redisKeyPrefix+deviceID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		r.logger.Warn("redis get failed", zap.String("device_id", deviceID), zap.Error(err))
		return nil, false
	}
	var p model.DeviceMarketProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Warn("dropping undecodable cache entry", zap.String("device_id", deviceID), zap.Error(err))
		return nil, false
	}
	return &p, true
}

func (r *RedisCache) Set(ctx context.Context, deviceID string, p *model.DeviceMarketProfile) {
	raw, err := json.Marshal(p)
	if err != nil {
		r.logger.Warn("profile not cacheable", zap.String("device_id", deviceID), zap.Error(err))
		return
	}
	if err := r.rdb.Set(ctx, redisKeyPrefix+deviceID, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", zap.String("device_id", deviceID), zap.Error(err))
	}
}

// Flush deletes only this service's keys.
func (r *RedisCache) Flush(ctx context.Context) error {
	iter := r.rdb.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return errors.Wrap(err, "scan profile keys")
	}
	if len(keys) == 0 {
		return nil
	}
	return errors.Wrap(r.rdb.Del(ctx, keys...).Err(), "delete profile keys")
}
