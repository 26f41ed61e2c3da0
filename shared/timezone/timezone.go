package timezone

import (
	"time"

	"github.com/rs/zerolog/log"

	"facility/config"
	"facility/shared/constant"
)

const defaultZone = "UTC"

var appLocation = time.UTC

func init() {
	appLocation = Load(config.Get().App.Timezone)
}

// Load resolves an IANA zone name. Empty or unknown names fall back to UTC.
func Load(name string) *time.Location {
	if name == constant.Empty {
		log.Warn().Msg("No timezone configured, using " + defaultZone)

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, using " + defaultZone)

		return time.UTC
	}

	log.Info().Str("timezone", loc.String()).Msg("Application timezone initialized")

	return loc
}

func Location() *time.Location {
	return appLocation
}

// Now is the current time in the application timezone. Audit timestamps use it.
func Now() time.Time {
	return time.Now().In(appLocation)
}

// Format renders t in the application timezone.
func Format(t time.Time, layout string) string {
	return t.In(appLocation).Format(layout)
}
