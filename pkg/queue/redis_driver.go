package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisQueueKey   = "duka:queue:jobs"
	redisDelayedKey = "duka:queue:delayed"

	// popTimeout bounds each BRPOP so workers notice context
	// cancellation within a few seconds.
	popTimeout = 5 * time.Second
)

// RedisDriver stores jobs in Redis so they survive a restart and can be
// consumed by more than one process. Immediate jobs live on a list,
// delayed jobs in a sorted set scored by their run-at Unix timestamp.
type RedisDriver struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRedisDriver wraps the given client (share the one from pkg/cache)
// and starts the delayed-job promoter.
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{rdb: rdb, ctx: context.Background()}
	go d.promote()
	return d
}

// Push enqueues a payload for immediate processing.
func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(d.ctx, redisQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks for up to popTimeout waiting for a job. A nil, nil return
// means the wait timed out with nothing ready.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, popTimeout, redisQueueKey).Result()
	switch {
	case err == redis.Nil:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	case len(result) < 2:
		return nil, nil
	}
	return []byte(result[1]), nil
}

// PushDelayed parks a payload in the delayed set until its run-at time.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	member := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(d.ctx, redisDelayedKey, member).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// promote ticks every second, moving due delayed jobs onto the main
// list inside a pipeline.
func (d *RedisDriver) promote() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for range ticker.C {
		due, err := d.rdb.ZRangeByScore(d.ctx, redisDelayedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: strconv.FormatInt(time.Now().Unix(), 10),
		}).Result()
		if err != nil || len(due) == 0 {
			continue
		}

		pipe := d.rdb.Pipeline()
		for _, payload := range due {
			pipe.ZRem(d.ctx, redisDelayedKey, payload)
			pipe.LPush(d.ctx, redisQueueKey, []byte(payload))
		}
		pipe.Exec(d.ctx) //nolint:errcheck
	}
}
