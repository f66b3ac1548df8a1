// Package kv wraps the shared Redis store used by both long-lived
// processes: two hash namespaces, tulpje:shard_status (shard id →
// ShardState) and tulpje:metrics (process name → ProcessMetrics), both
// last-writer-wins JSON blobs (spec.md §4.2/§8). Grounded on
// adred-codev-ws_poc's go-server modules, the only pack repos that touch
// redis/go-redis directly, for client construction conventions.
package kv

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/tulpje/tulpje/internal/apperr"
)

const (
	shardStatusKey = "tulpje:shard_status"
	metricsKey     = "tulpje:metrics"
)

// Store is a thin wrapper around a redis client restricted to the two
// hash namespaces the core uses.
type Store struct {
	rdb *redis.Client
}

// New connects to a Redis instance at url (a redis:// URL).
func New(url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindConfig, "parse REDIS_URL", err)
	}
	return &Store{rdb: redis.NewClient(opts)}, nil
}

// Ping verifies connectivity, used at startup to fail fast per spec.md §7.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return apperr.Wrap(apperr.KindTransport, "redis ping", err)
	}
	return nil
}

// PutShardState overwrites the shard_status hash field for shardID,
// per spec.md §4.1's "every mutation is a full JSON overwrite".
func (s *Store) PutShardState(ctx context.Context, shardID int, data []byte) error {
	if err := s.rdb.HSet(ctx, shardStatusKey, strconv.Itoa(shardID), data).Err(); err != nil {
		return apperr.Wrap(apperr.KindTransport, "redis hset shard_status", err)
	}
	return nil
}

// GetShardState reads the raw JSON blob for shardID, or nil if unset.
func (s *Store) GetShardState(ctx context.Context, shardID int) ([]byte, error) {
	v, err := s.rdb.HGet(ctx, shardStatusKey, strconv.Itoa(shardID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "redis hget shard_status", err)
	}
	return v, nil
}

// AllShardStates returns the raw JSON blob for every tracked shard,
// keyed by shard id string, for aggregate commands like /shards.
func (s *Store) AllShardStates(ctx context.Context) (map[string][]byte, error) {
	m, err := s.rdb.HGetAll(ctx, shardStatusKey).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "redis hgetall shard_status", err)
	}
	out := make(map[string][]byte, len(m))
	for k, v := range m {
		out[k] = []byte(v)
	}
	return out, nil
}

// PutMetrics overwrites the metrics hash field for processName.
func (s *Store) PutMetrics(ctx context.Context, processName string, data []byte) error {
	if err := s.rdb.HSet(ctx, metricsKey, processName, data).Err(); err != nil {
		return apperr.Wrap(apperr.KindTransport, "redis hset metrics", err)
	}
	return nil
}

// AllMetrics returns the raw JSON blob for every process that has
// reported metrics, keyed by process name, for /processes.
func (s *Store) AllMetrics(ctx context.Context) (map[string][]byte, error) {
	m, err := s.rdb.HGetAll(ctx, metricsKey).Result()
	if err != nil {
		return nil, apperr.Wrap(apperr.KindTransport, "redis hgetall metrics", err)
	}
	out := make(map[string][]byte, len(m))
	for k, v := range m {
		out[k] = []byte(v)
	}
	return out, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	return s.rdb.Close()
}
