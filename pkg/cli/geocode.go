package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/cli/config"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdGeocode() *cli.Command {
	var geocoderCfg config.Geocoder

	return &cli.Command{
		Name:      "geocode",
		Usage:     "Resolve a location name to coordinates",
		ArgsUsage: "<query>",
		Flags:     geocoderCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			query := c.Args().First()
			if query == "" {
				return goerr.New("query argument is required")
			}

			geocoder := geocoderCfg.Configure()
			if geocoder == nil {
				return goerr.New("geocoder is disabled")
			}

			coords, err := geocoder.Forward(ctx, query)
			if err != nil {
				return goerr.Wrap(err, "failed to geocode", goerr.V("query", query))
			}

			logging.Default().Info("Resolved location",
				"query", query,
				"lat", coords.Lat,
				"lng", coords.Lng,
			)
			return nil
		},
	}
}
