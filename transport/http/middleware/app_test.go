package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"facility/config"
	"facility/infras/otel/mocks"
	"facility/shared/cache"
	"facility/transport/http/middleware"
)

func newAppMiddleware(t *testing.T, cfg *config.Config) (middleware.AppMiddleware, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache.NewRedisCache(client, mocks.NewOtel())), server
}

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimit(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 3600

	app, _ := newAppMiddleware(t, cfg)

	router := chi.NewRouter()
	router.Use(app.RateLimit())
	router.Get("/v1/rooms", ok)

	call := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
		req.RemoteAddr = remoteAddr

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		return rec
	}

	first := call("10.0.0.1:1234")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, call("10.0.0.1:1235").Code)
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1236").Code)

	// other clients have their own budget
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1234").Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 1
	cfg.App.RateLimiter.WindowSeconds = 60

	app, server := newAppMiddleware(t, cfg)
	server.Close()

	router := chi.NewRouter()
	router.Use(app.RateLimit())
	router.Get("/v1/rooms", ok)

	for range 3 {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	app, _ := newAppMiddleware(t, &config.Config{})

	router := chi.NewRouter()
	router.Use(app.RateLimit())
	router.Get("/v1/rooms", ok)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestTracingAndMetrics(t *testing.T) {
	cfg := &config.Config{}
	cfg.Metrics.Enable = true

	app, _ := newAppMiddleware(t, cfg)

	router := chi.NewRouter()
	router.Use(app.Tracing, app.Metrics)
	router.Get("/v1/rooms/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/rooms/room-1", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
