package repositories

import (
	"context"
	"errors"
	"time"

	apperrors "family-registry/pkg/errors"

	"github.com/go-redis/redis/v8"
)

type RedisCacheRepository struct {
	client *redis.Client
}

func NewRedisCacheRepository(client *redis.Client) CacheRepositoryInterface {
	return &RedisCacheRepository{client: client}
}

// Get возвращает ErrCacheMiss, если ключа нет.
func (r *RedisCacheRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", apperrors.StoreError("redis.get", err)
	}
	return val, nil
}

func (r *RedisCacheRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return apperrors.StoreError("redis.set", err)
	}
	return nil
}

// SetNX записывает ключ, только если его ещё нет. false - ключ уже существовал.
func (r *RedisCacheRepository) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, value, expiration).Result()
	if err != nil {
		return false, apperrors.StoreError("redis.setnx", err)
	}
	return ok, nil
}

func (r *RedisCacheRepository) Del(ctx context.Context, keys ...string) error {
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.StoreError("redis.del", err)
	}
	return nil
}

// Incr атомарно увеличивает значение ключа на 1.
func (r *RedisCacheRepository) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, apperrors.StoreError("redis.incr", err)
	}
	return n, nil
}

func (r *RedisCacheRepository) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	ok, err := r.client.Expire(ctx, key, expiration).Result()
	if err != nil {
		return false, apperrors.StoreError("redis.expire", err)
	}
	return ok, nil
}

func (r *RedisCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperrors.StoreError("redis.exists", err)
	}
	return n > 0, nil
}
