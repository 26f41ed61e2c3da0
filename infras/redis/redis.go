package redis

import (
	"context"
	"net"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"facility/config"
)

const pingTimeout = 5 * time.Second

// Options maps the primary cache settings onto client options.
func Options(config *config.Config) *goRedis.Options {
	primary := config.Cache.Redis.Primary

	return &goRedis.Options{
		Addr:     net.JoinHostPort(primary.Host, primary.Port),
		Password: primary.Password,
		DB:       primary.DB,
	}
}

// New connects to the primary cache. The service does not start without it: the cache
// also backs the rate limiter.
func New(config *config.Config) *goRedis.Client {
	options := Options(config)
	client := goRedis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("addr", options.Addr).Msg("Failed to connect to Redis")
	}

	log.Info().
		Int("db", options.DB).
		Str("addr", options.Addr).
		Msg("Connected to Redis")

	return client
}
