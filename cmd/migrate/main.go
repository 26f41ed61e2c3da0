package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/helper"
	"facility/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)
	logger.SetLogLevel(cfg)

	if len(os.Args) < 2 { //nolint:mnd
		log.Fatal().Msgf("Migration action is required, one of: %s", strings.Join(helper.Actions, ", "))
	}

	if err := helper.Run(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
