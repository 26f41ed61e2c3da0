package main

import (
	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/di"
	"facility/helper"
	"facility/shared/logger"
)

// @title Facility Booking API
// @version 1.0
// @description Room directory and reservation booking service.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
