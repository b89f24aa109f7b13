package config

import (
	"github.com/squirrito-app/squirrito/pkg/service/geocode"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Geocoder holds CLI flags for the place enrichment service
type Geocoder struct {
	baseURL string
	disable bool
}

// Flags returns CLI flags for geocoder configuration
func (g *Geocoder) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "geocoder-base-url",
			Usage:       "Base URL of the Nominatim-compatible geocoding endpoint",
			Value:       "https://nominatim.openstreetmap.org",
			Sources:     cli.EnvVars("SQUIRRITO_GEOCODER_BASE_URL"),
			Destination: &g.baseURL,
		},
		&cli.BoolFlag{
			Name:        "geocoder-disable",
			Usage:       "Disable place enrichment entirely",
			Sources:     cli.EnvVars("SQUIRRITO_GEOCODER_DISABLE"),
			Destination: &g.disable,
		},
	}
}

// Configure returns the geocoding service, or nil when disabled
func (g *Geocoder) Configure() geocode.Service {
	if g.disable {
		logging.Default().Info("Place enrichment disabled")
		return nil
	}
	return geocode.New(geocode.WithBaseURL(g.baseURL))
}
