package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"slices"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/infras/postgres"
	"facility/shared/constant"
)

const migrationsSource = "file://migrations/postgres"

const (
	ActionUp      = "up"
	ActionDown    = "down"
	ActionStepUp  = "step-up"
	ActionDrop    = "drop"
	ActionVersion = "version"
)

var ErrUnknownAction = errors.New("unknown migration action")

// Actions lists what Run accepts, in the order the CLI prints them.
var Actions = []string{ActionUp, ActionDown, ActionStepUp, ActionDrop, ActionVersion}

// DatabaseURL is the write endpoint plus the migrations table override, when configured.
func DatabaseURL(config *config.Config) string {
	u := postgres.WriteEndpoint(config).URL()

	if table := config.DB.Postgres.MigrationTable; table != constant.Empty {
		query := u.Query()
		query.Set("x-migrations-table", table)
		u.RawQuery = query.Encode()
	}

	return u.String()
}

// Run applies one migration action against the write database.
func Run(config *config.Config, action string) error {
	if !slices.Contains(Actions, action) {
		return fmt.Errorf("%w %q", ErrUnknownAction, action)
	}

	mig, err := migrate.New(migrationsSource, DatabaseURL(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	switch action {
	case ActionVersion:
		version, dirty, err := mig.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return fmt.Errorf("error reading migration version: %w", err)
		}

		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Database migration version")

		return nil
	case ActionUp:
		err = mig.Up()
	case ActionDown:
		err = mig.Steps(-1)
	case ActionStepUp:
		err = mig.Steps(1)
	case ActionDrop:
		err = mig.Down()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", action, err)
	}

	log.Info().Str("action", action).Msg("Database migration finished")

	return nil
}

func Up(config *config.Config) error {
	return Run(config, ActionUp)
}
