package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/cli/config"
	"github.com/squirrito-app/squirrito/pkg/usecase"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdClear() *cli.Command {
	var repoCfg config.Repository
	var force bool

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "force",
			Aliases:     []string{"f"},
			Usage:       "Skip the confirmation safeguard",
			Destination: &force,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:  "clear",
		Usage: "Delete every stored memory (maintenance)",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if !force {
				return goerr.New("clear deletes all memories; re-run with --force to confirm")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo)
			if err := uc.Memory.Clear(ctx); err != nil {
				return goerr.Wrap(err, "failed to clear memories")
			}

			logging.Default().Info("All memories cleared", "backend", repoCfg.Backend())
			return nil
		},
	}
}
