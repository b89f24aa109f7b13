package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/squirrito-app/squirrito/pkg/cli/config"
	httpctrl "github.com/squirrito-app/squirrito/pkg/controller/http"
	"github.com/squirrito-app/squirrito/pkg/service/worker"
	"github.com/squirrito-app/squirrito/pkg/usecase"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var bestPickInterval time.Duration
	var repoCfg config.Repository
	var geminiCfg config.Gemini
	var geocoderCfg config.Geocoder
	var personaCfg config.Persona

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SQUIRRITO_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "best-pick-interval",
			Usage:       "Refresh interval for the joke of the day",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("SQUIRRITO_BEST_PICK_INTERVAL"),
			Destination: &bestPickInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, geocoderCfg.Flags()...)
	flags = append(flags, personaCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Initialize repository based on backend type
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			persona, err := personaCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to load persona")
			}

			ucOpts := []usecase.Option{
				usecase.WithPersona(persona),
			}

			// Joke generation runs on the fallback inference client; without
			// Gemini configuration every request gets a canned joke
			inferenceClient, err := geminiCfg.ConfigureInference(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure inference client")
			}
			if inferenceClient != nil {
				ucOpts = append(ucOpts, usecase.WithGenerator(inferenceClient))
				// API key in the config is masked by the log redactor
				logging.Default().Info("Joke generation enabled", "gemini", geminiCfg)
			} else {
				logging.Default().Warn("Gemini not configured, serving canned jokes only")
			}

			llmClient, err := geminiCfg.ConfigureLLM(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}
			if llmClient != nil {
				ucOpts = append(ucOpts, usecase.WithJudge(usecase.NewLLMJudge(llmClient)))
				logging.Default().Info("Best pick judge enabled")
			}

			if geocoder := geocoderCfg.Configure(); geocoder != nil {
				ucOpts = append(ucOpts, usecase.WithGeocoder(geocoder))
			}

			uc := usecase.New(repo, ucOpts...)

			bestPickWorker := worker.NewBestPickWorker(uc.BestPick, bestPickInterval)
			if err := bestPickWorker.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start best pick worker")
			}

			httpHandler, err := httpctrl.New(uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			// Start server in goroutine
			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			// Wait for shutdown signal or server error
			select {
			case err := <-errCh:
				bestPickWorker.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				bestPickWorker.Stop()

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
