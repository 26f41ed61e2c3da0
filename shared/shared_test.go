package shared_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	otelMocks "facility/infras/otel/mocks"
	"facility/shared"
	"facility/shared/cache"
	"facility/shared/dto"
	"facility/shared/failure"
)

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		limit    int
		expected int
	}{
		{
			name:     "zero total returns 1",
			total:    0,
			limit:    10,
			expected: 1,
		},
		{
			name:     "zero limit returns 1",
			total:    100,
			limit:    0,
			expected: 1,
		},
		{
			name:     "negative limit returns 1",
			total:    100,
			limit:    -5,
			expected: 1,
		},
		{
			name:     "exact division",
			total:    100,
			limit:    10,
			expected: 10,
		},
		{
			name:     "division with remainder",
			total:    101,
			limit:    10,
			expected: 11,
		},
		{
			name:     "single item",
			total:    1,
			limit:    10,
			expected: 1,
		},
		{
			name:     "limit equals total",
			total:    10,
			limit:    10,
			expected: 1,
		},
		{
			name:     "limit greater than total",
			total:    5,
			limit:    10,
			expected: 1,
		},
		{
			name:     "large numbers",
			total:    1000000,
			limit:    7,
			expected: 142858,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.CalculateTotalPage(tt.total, tt.limit)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}

func TestFilterByID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		fieldID  string
		table    string
		expected dto.FilterGroup
	}{
		{
			name:    "basic filter by id",
			id:      "123",
			fieldID: "user_id",
			table:   "users",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{
						Field:    "user_id",
						Value:    "123",
						Operator: dto.FilterOperatorEq,
						Table:    "users",
					},
				},
			},
		},
		{
			name:    "filter with empty table",
			id:      "456",
			fieldID: "id",
			table:   "",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{
						Field:    "id",
						Value:    "456",
						Operator: dto.FilterOperatorEq,
						Table:    "",
					},
				},
			},
		},
		{
			name:    "filter with uuid",
			id:      "550e8400-e29b-41d4-a716-446655440000",
			fieldID: "uuid",
			table:   "products",
			expected: dto.FilterGroup{
				Filters: []any{
					dto.Filter{
						Field:    "uuid",
						Value:    "550e8400-e29b-41d4-a716-446655440000",
						Operator: dto.FilterOperatorEq,
						Table:    "products",
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.FilterByID(tt.id, tt.fieldID, tt.table)

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %+v, got %+v", tt.expected, result)
			}

			// Additional checks for the filter structure
			if len(result.Filters) != 1 {
				t.Errorf("expected 1 filter, got %d", len(result.Filters))
			}

			filter, ok := result.Filters[0].(dto.Filter)
			if !ok {
				t.Error("expected filter to be of type dto.Filter")
			}

			if filter.Field != tt.fieldID {
				t.Errorf("expected field to be %s, got %s", tt.fieldID, filter.Field)
			}

			if filter.Value != tt.id {
				t.Errorf("expected value to be %s, got %v", tt.id, filter.Value)
			}

			if filter.Operator != dto.FilterOperatorEq {
				t.Errorf("expected operator to be %s, got %s", dto.FilterOperatorEq, filter.Operator)
			}

			if filter.Table != tt.table {
				t.Errorf("expected table to be %s, got %s", tt.table, filter.Table)
			}
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	if got := shared.ConvertStringToInt(""); got != nil {
		t.Errorf("expected nil for empty string, got %v", *got)
	}

	if got := shared.ConvertStringToInt("abc"); got != nil {
		t.Errorf("expected nil for invalid string, got %v", *got)
	}

	got := shared.ConvertStringToInt("12")
	if got == nil || *got != 12 {
		t.Errorf("expected 12, got %v", got)
	}
}

func TestBuildCacheKey(t *testing.T) {
	if got := shared.BuildCacheKey("room:get", "room-1"); got != "room:get:room-1" {
		t.Errorf("unexpected key %s", got)
	}

	if got := shared.BuildCacheKey("room:gets"); got != "room:gets" {
		t.Errorf("unexpected key %s", got)
	}
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 1, Limit: 10, SortBy: "name", SortDir: dto.SortDirAsc}
	filterA := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  []any{dto.Filter{Field: "name", Value: "alpha", Operator: dto.FilterOperatorLike}},
	}
	filterB := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  []any{dto.Filter{Field: "name", Value: "beta", Operator: dto.FilterOperatorLike}},
	}

	keyA := shared.BuildCacheKeyWithQuery("room:gets", params, filterA)
	keyB := shared.BuildCacheKeyWithQuery("room:gets", params, filterB)

	if keyA == keyB {
		t.Errorf("expected different keys for different filter values, got %s", keyA)
	}

	if keyA != shared.BuildCacheKeyWithQuery("room:gets", params, filterA) {
		t.Errorf("expected stable key for the same query")
	}
}

func TestInvalidateCaches(t *testing.T) {
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	redisCache := cache.NewRedisCache(client, otelMocks.NewOtel())
	ctx := context.Background()

	for _, key := range []string{"room:gets:1", "room:gets:2", "room:get:room-1"} {
		if err := redisCache.Save(ctx, key, "value", 60); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}
	}

	shared.InvalidateCaches(ctx, redisCache, "room:gets")

	if server.Exists("room:gets:1") || server.Exists("room:gets:2") {
		t.Errorf("expected list keys to be invalidated")
	}

	if !server.Exists("room:get:room-1") {
		t.Errorf("expected unrelated key to survive")
	}
}

func TestWithStoreTimeout(t *testing.T) {
	ctx, cancel := shared.WithStoreTimeout(context.Background(), 1)
	defer cancel()

	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > time.Second {
		t.Errorf("expected a deadline within a second, got %v", deadline)
	}

	unbounded, cancelUnbounded := shared.WithStoreTimeout(context.Background(), 0)
	defer cancelUnbounded()

	if _, ok := unbounded.Deadline(); ok {
		t.Errorf("expected no deadline for non-positive timeout")
	}
}

func TestStoreError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{name: "domain failure passes through", err: failure.NotFound("room not found"), code: http.StatusNotFound},
		{name: "deadline becomes unavailable", err: fmt.Errorf("query: %w", context.DeadlineExceeded), code: http.StatusServiceUnavailable},
		{name: "other errors are internal", err: errors.New("connection reset"), code: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := failure.GetCode(shared.StoreError(tt.err, "load room")); got != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, got)
			}
		})
	}
}

// Helper functions for creating pointers
func boolPtr(b bool) *bool {
	return &b
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}
