package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedis builds a client from a redis:// URL and pings it once, so a bad
// address or password fails at startup instead of on the first queued job.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}
