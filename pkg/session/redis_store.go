package session

import (
	"time"

	"github.com/nairobitech/duka/pkg/cache"
)

// RedisStore keeps sessions in Redis, keyed under a fixed prefix.
// Selected with SESSION_DRIVER=redis.
type RedisStore struct{}

// NewRedisStore creates a Redis-backed store. cache.Connect must have run.
func NewRedisStore() *RedisStore { return &RedisStore{} }

func redisKey(id string) string { return "duka:session:" + id }

func (s *RedisStore) Get(id string) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if cache.Get(redisKey(id), &data) {
		return data, true
	}
	return nil, false
}

func (s *RedisStore) Put(id string, data map[string]interface{}, ttl time.Duration) error {
	return cache.Set(redisKey(id), data, ttl)
}

func (s *RedisStore) Destroy(id string) error {
	return cache.Del(redisKey(id))
}
