//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"facility/config"
	"facility/infras/jwt"
	"facility/infras/kafka"
	"facility/infras/otel"
	"facility/infras/postgres"
	"facility/infras/redis"
	"facility/infras/s3"
	"facility/internal/domains/policy"
	"facility/internal/domains/reservation/conflict"
	reservationRepository "facility/internal/domains/reservation/repository"
	reservationService "facility/internal/domains/reservation/service"
	roomRepository "facility/internal/domains/room/repository"
	roomService "facility/internal/domains/room/service"
	"facility/internal/handlers/health"
	reservationHandler "facility/internal/handlers/reservation"
	roomHandler "facility/internal/handlers/room"
	"facility/permissions"
	"facility/shared/cache"
	"facility/transport/http"
	"facility/transport/http/middleware"
	"facility/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var roomDomain = wire.NewSet(
	roomRepository.New,
	roomService.New,
)

var reservationDomain = wire.NewSet(
	reservationRepository.New,
	conflict.New,
	reservationService.New,
)

var domains = wire.NewSet(
	policy.New,
	roomDomain,
	reservationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	roomHandler.New,
	reservationHandler.New,
	health.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
