package redislivestore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// KVStore is a generic key-value store for storing JSON-encoded structs in Redis.
type KVStore[T any] struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisKVStore[T any](rdb *redis.Client, prefix string) *KVStore[T] {
	return &KVStore[T]{rdb: rdb, prefix: prefix}
}

func (s *KVStore[T]) key(id string) string {
	return s.prefix + id
}

func (s *KVStore[T]) Get(ctx context.Context, id string) (*T, error) {
	val, err := s.rdb.Get(ctx, s.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *KVStore[T]) Set(ctx context.Context, id string, value *T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(id), data, 0).Err()
}

func (s *KVStore[T]) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, s.key(id)).Err()
}
