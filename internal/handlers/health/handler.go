package health

import (
	"context"
	"net/http"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"facility/infras/otel"
	"facility/infras/postgres"
	"facility/shared/constant"
	"facility/transport/http/response"
)

const pingTimeout = 2 * time.Second

// Pinger is a dependency whose reachability decides readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type Handler struct {
	dependencies map[string]Pinger
	otel         otel.Otel
}

// New checks the primary database and the cache.
func New(db *postgres.Connection, redis *goRedis.Client, otel otel.Otel) Handler {
	return NewWithPingers(otel, map[string]Pinger{
		"postgres": db,
		"redis": PingerFunc(func(ctx context.Context) error {
			return redis.Ping(ctx).Err() //nolint:wrapcheck
		}),
	})
}

func NewWithPingers(otel otel.Otel, dependencies map[string]Pinger) Handler {
	return Handler{
		dependencies: dependencies,
		otel:         otel,
	}
}

// Health reports whether every dependency answers.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	for name, dependency := range handler.dependencies {
		if err := dependency.Ping(ctx); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("dependency", name).Msg("health check failed")

			response.WithUnhealthy(w)

			return
		}
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
