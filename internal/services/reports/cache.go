package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"catering-backoffice/internal/logger"

	"github.com/go-redis/redis/v8"
)

const (
	SALARY_REPORT_CACHE_PREFIX   = "salary_report:"
	SALARY_REPORT_GENERATION_KEY = "salary_report:generation"
)

// RedisCache keys every report by a generation counter. Invalidate bumps the
// counter, which orphans every cached report at once; orphans expire by TTL.
type RedisCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{redis: rdb, ttl: ttl}
}

func (c *RedisCache) generation(ctx context.Context) (string, error) {
	gen, err := c.redis.Get(ctx, SALARY_REPORT_GENERATION_KEY).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return gen, err
}

func (c *RedisCache) key(ctx context.Context, q Query) (string, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return "", err
	}
	v := url.Values{}
	v.Set("groupBy", q.GroupBy)
	v.Set("startDate", q.StartDate)
	v.Set("endDate", q.EndDate)
	v.Set("staffId", q.StaffID)
	return fmt.Sprintf("%s%s:%s", SALARY_REPORT_CACHE_PREFIX, gen, v.Encode()), nil
}

func (c *RedisCache) Load(ctx context.Context, q Query) (Report, string, bool) {
	key, err := c.key(ctx, q)
	if err != nil {
		logger.Warn("report cache unavailable", "err", err)
		return Report{}, "", false
	}

	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("report cache read failed", "key", key, "err", err)
		}
		return Report{}, key, false
	}

	var r Report
	if err := json.Unmarshal([]byte(val), &r); err != nil {
		logger.Warn("report cache entry corrupt", "key", key, "err", err)
		return Report{}, key, false
	}
	return r, key, true
}

// Save stores r under the key handed out by Load. A key from an older
// generation is never read again and simply expires.
func (c *RedisCache) Save(ctx context.Context, key string, r Report) {
	if key == "" {
		return
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("report cache write failed", "key", key, "err", err)
	}
}

func (c *RedisCache) Invalidate(ctx context.Context) {
	if err := c.redis.Incr(ctx, SALARY_REPORT_GENERATION_KEY).Err(); err != nil {
		logger.Warn("report cache invalidation failed", "err", err)
	}
}
