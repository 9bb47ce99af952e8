// Package cache is a thin JSON-over-Redis cache. When Redis is down the
// whole package degrades to a no-op so the API keeps serving from the
// database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nairobitech/duka/config"
	"github.com/nairobitech/duka/pkg/metrics"
)

var (
	RDB *redis.Client
	Ctx = context.Background()
)

// Connect initialises the Redis client and verifies it with a ping. On
// failure RDB stays nil and every operation becomes a safe no-op.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})
	if err := client.Ping(Ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping: %w", err)
	}

	RDB = client
	return nil
}

func available() bool { return RDB != nil }

// Get unmarshals the cached value for key into dest. The boolean return
// is a hit/miss flag; errors count as misses.
func Get(key string, dest interface{}) bool {
	if !available() {
		return false
	}

	val, err := RDB.Get(Ctx, key).Result()
	if err == nil {
		err = json.Unmarshal([]byte(val), dest)
	}
	if err != nil {
		metrics.CacheMisses.WithLabelValues("redis").Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues("redis").Inc()
	return true
}

// Set stores value as JSON under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if !available() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(Ctx, key, data, ttl).Err()
}

// Del removes one or more keys.
func Del(keys ...string) error {
	if !available() {
		return nil
	}
	return RDB.Del(Ctx, keys...).Err()
}

// Forget is an alias for Del (Laravel-style).
func Forget(key string) error {
	return Del(key)
}

// ForgetPattern removes every key matching the glob pattern, e.g.
// "duka:catalog:*". Catalog writes use this to drop stale listings.
func ForgetPattern(pattern string) error {
	if !available() {
		return nil
	}

	iter := RDB.Scan(Ctx, 0, pattern, 100).Iterator()
	for iter.Next(Ctx) {
		if err := RDB.Del(Ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
