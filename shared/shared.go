package shared

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"facility/shared/cache"
	"facility/shared/constant"
	"facility/shared/dto"
	"facility/shared/failure"
)

const cacheKeySeparator = ":"

func ConvertStringToInt(value string) *int {
	if value == "" {
		return nil
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to int")

		return nil
	}

	return &intValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// FilterByID matches a single row by its primary key.
func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// BuildCacheKey joins prefix and parts into a single cache key.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a stable key from the paging params and the filter's where clause.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}

	slices.Sort(names)

	hash := fnv.New64a()
	_, _ = hash.Write([]byte(where))

	for _, name := range names {
		_, _ = fmt.Fprintf(hash, "|%s=%v", name, args[name])
	}

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		strconv.FormatUint(hash.Sum64(), 16),
	)
}

// InvalidateCaches removes every key under prefix. Failures are logged only.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// WithStoreTimeout bounds a store call. A non-positive timeout leaves ctx unbounded.
func WithStoreTimeout(ctx context.Context, seconds int) (context.Context, context.CancelFunc) {
	if seconds <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, time.Duration(seconds)*time.Second)
}

// StoreError keeps domain failures as they are, turns deadline overruns into Unavailable
// and wraps everything else.
func StoreError(err error, action string) error {
	var f *failure.Failure
	if errors.As(err, &f) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return failure.Unavailable(fmt.Sprintf("store did not respond in time while trying to %s", action)) // nolint:wrapcheck
	}

	return fmt.Errorf("failed to %s: %w", action, err)
}
