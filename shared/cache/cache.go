package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"facility/infras/otel"
)

const (
	otelScopeName         = "cache"
	otelCacheKeyAttribute = "cache.key"
	scanBatchSize         = 100
	Nil                   = redis.Nil
)

var errGenerationMoved = errors.New("cache generation moved")

// RedisCache stores JSON values under string keys. Durations are in seconds.
type RedisCache interface {
	Save(ctx context.Context, key string, value any, duration int) (err error)
	Get(ctx context.Context, key string, value any) (err error)
	Incr(ctx context.Context, key string, duration int) (count int64, err error)
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error
	Generation(ctx context.Context, key string) (int64, error)
	SaveIfGeneration(ctx context.Context, key string, value any, duration int, genKey string, gen int64) (saved bool, err error)
}

type redisCache struct {
	client *redis.Client
	otel   otel.Otel
}

func NewRedisCache(client *redis.Client, ot otel.Otel) RedisCache {
	return &redisCache{
		client: client,
		otel:   ot,
	}
}

// Clear removes every key matching the glob pattern, one scan page at a time.
func (cache *redisCache) Clear(ctx context.Context, pattern string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Clear")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, pattern)

	var cursor uint64

	for {
		var keys []string

		keys, cursor, err = cache.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			log.Error().Err(err).Str("pattern", pattern).Str("RedisCache", "Clear").Msg("failed to scan cache")

			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err = cache.client.Del(ctx, keys...).Err(); err != nil {
				log.Error().Err(err).Str("pattern", pattern).Str("RedisCache", "Clear").Msg("failed to del cache")

				return fmt.Errorf("failed to delete cache values: %w", err)
			}
		}

		if cursor == 0 {
			return nil
		}
	}
}

func (cache *redisCache) Delete(ctx context.Context, key string) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	if err = cache.client.Del(ctx, key).Err(); err != nil {
		log.Error().Str("key", key).Err(err).Str("RedisCache", "Delete").Msg("failed to del cache")

		return fmt.Errorf("failed to delete cache value: %w", err)
	}

	return nil
}

// Get decodes the value stored under key. A miss is reported as an error wrapping Nil.
func (cache *redisCache) Get(ctx context.Context, key string, value any) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Get")
	defer scope.End()

	scope.SetAttribute(otelCacheKeyAttribute, key)

	cacheValue, err := cache.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil { //nolint:errorlint
			scope.TraceError(err)
		}

		return fmt.Errorf("failed to get cache value: %w", err)
	}

	if v, ok := value.(*string); ok {
		*v = cacheValue

		return nil
	}

	if err = json.Unmarshal([]byte(cacheValue), value); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Get").Msg("failed to unmarshal cache")

		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}

	return nil
}

func (cache *redisCache) Save(ctx context.Context, key string, value any, duration int) (err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Save")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	payload, err := encode(value)
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Save").Msg("failed to marshal cache")

		return err
	}

	if err = cache.client.Set(ctx, key, payload, time.Second*time.Duration(duration)).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Save").Msg("failed to set cache")

		return fmt.Errorf("failed to set cache value: %w", err)
	}

	log.Debug().Str("RedisCache", "Save").Str("key", key).Msg("success to set cache")

	return nil
}

// Incr atomically bumps the counter under key. The expiry is set only when the counter is
// created, so it never slides.
func (cache *redisCache) Incr(ctx context.Context, key string, duration int) (count int64, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Incr")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	count, err = cache.client.Incr(ctx, key).Result()
	if err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Incr").Msg("failed to incr cache")

		return 0, fmt.Errorf("failed to increment cache value: %w", err)
	}

	if count == 1 {
		if err = cache.client.Expire(ctx, key, time.Second*time.Duration(duration)).Err(); err != nil {
			log.Error().Err(err).Str("key", key).Str("RedisCache", "Incr").Msg("failed to expire cache")

			return count, fmt.Errorf("failed to set cache expiry: %w", err)
		}
	}

	return count, nil
}

// Generation reads the counter under key. A missing counter is generation zero.
func (cache *redisCache) Generation(ctx context.Context, key string) (gen int64, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".Generation")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	gen, err = cache.client.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		log.Error().Err(err).Str("key", key).Str("RedisCache", "Generation").Msg("failed to get cache generation")

		return 0, fmt.Errorf("failed to get cache generation: %w", err)
	}

	return gen, nil
}

// SaveIfGeneration stores value only while the counter under genKey still equals gen, so a
// value loaded before an invalidation can never overwrite it. It reports false when skipped.
func (cache *redisCache) SaveIfGeneration(ctx context.Context, key string, value any, duration int, genKey string, gen int64) (saved bool, err error) {
	ctx, scope := cache.otel.NewScope(ctx, otelScopeName, otelScopeName+".SaveIfGeneration")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute(otelCacheKeyAttribute, key)

	payload, err := encode(value)
	if err != nil {
		return false, err
	}

	err = cache.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err //nolint:wrapcheck
		}

		if current != gen {
			return errGenerationMoved
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, time.Second*time.Duration(duration))

			return nil
		})

		return err //nolint:wrapcheck
	}, genKey)

	switch {
	case errors.Is(err, errGenerationMoved), errors.Is(err, redis.TxFailedErr):
		log.Debug().Str("key", key).Str("RedisCache", "SaveIfGeneration").Msg("generation moved, cache not set")

		return false, nil
	case err != nil:
		log.Error().Err(err).Str("key", key).Str("RedisCache", "SaveIfGeneration").Msg("failed to set cache")

		return false, fmt.Errorf("failed to set cache value: %w", err)
	}

	return true, nil
}

func encode(value any) ([]byte, error) {
	if v, ok := value.(string); ok {
		return []byte(v), nil
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %w", err)
	}

	return payload, nil
}
