package redis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/davidbz/lodestar/internal/domain"
)

// CacheStore implements domain.CacheStore on plain Redis strings and sets.
type CacheStore struct {
	client redis.UniversalClient
}

// NewCacheStore creates a cache store over client.
func NewCacheStore(client redis.UniversalClient) *CacheStore {
	return &CacheStore{client: client}
}

// Get implements domain.CacheStore.
func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis GET %s: %w", key, err)
	}
	return data, nil
}

// Set implements domain.CacheStore. A zero ttl stores the key without expiry.
func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", key, err)
	}
	return nil
}

// Expire implements domain.CacheStore.
func (s *CacheStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ok, err := s.client.Expire(ctx, key, ttl).Result()
	if err != nil {
		return fmt.Errorf("redis EXPIRE %s: %w", key, err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Delete implements domain.CacheStore.
func (s *CacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis DEL: %w", err)
	}
	return nil
}

// addToSetScript adds members and only ever lengthens the lifetime of the set.
// A zero ttl makes the set persistent. A persistent set stays persistent.
var addToSetScript = redis.NewScript(`
local existed = redis.call('EXISTS', KEYS[1])
redis.call('SADD', KEYS[1], unpack(ARGV, 2))
local ttl = tonumber(ARGV[1])
if ttl <= 0 then
  redis.call('PERSIST', KEYS[1])
  return 1
end
local current = redis.call('PTTL', KEYS[1])
if existed == 0 or (current >= 0 and current < ttl) then
  redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`)

// AddToSet implements domain.CacheStore.
func (s *CacheStore) AddToSet(ctx context.Context, key string, ttl time.Duration, members ...string) error {
	if len(members) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(members)+1)
	args = append(args, ttl.Milliseconds())
	for _, m := range members {
		args = append(args, m)
	}

	if err := addToSetScript.Run(ctx, s.client, []string{key}, args...).Err(); err != nil {
		return fmt.Errorf("redis SADD %s: %w", key, err)
	}
	return nil
}

// SetMembers implements domain.CacheStore.
func (s *CacheStore) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis SMEMBERS %s: %w", key, err)
	}
	return members, nil
}

// Ping implements domain.CacheStore.
func (s *CacheStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Stats implements domain.CacheStore.
func (s *CacheStore) Stats(ctx context.Context) (*domain.CacheStoreStats, error) {
	keys, err := s.client.DBSize(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("redis DBSIZE: %w", err)
	}

	stats := &domain.CacheStoreStats{
		Backend: "redis",
		Keys:    keys,
		Details: map[string]string{},
	}

	info, err := s.client.Info(ctx, "stats").Result()
	if err == nil {
		for k, v := range parseInfo(info) {
			switch k {
			case "keyspace_hits", "keyspace_misses", "expired_keys", "evicted_keys":
				stats.Details[k] = v
			}
		}
	}

	return stats, nil
}

// parseInfo reads "key:value" lines from an INFO reply.
func parseInfo(info string) map[string]string {
	out := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(info))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, ":"); ok {
			out[k] = v
		}
	}
	return out
}
