package config

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/squirrito-app/squirrito/pkg/service/inference"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for joke generation and judging models.
// APIKey is tagged so the logging redactor masks it when the struct is
// logged.
type Gemini struct {
	ProjectID string
	Location  string
	APIKey    string `masq:"secret"`
	Models    []string
	Timeout   time.Duration
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("SQUIRRITO_GEMINI_PROJECT"),
			Destination: &g.ProjectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("SQUIRRITO_GEMINI_LOCATION"),
			Destination: &g.Location,
		},
		&cli.StringFlag{
			Name:        "gemini-api-key",
			Usage:       "Gemini API key (uses the Gemini API backend instead of Vertex AI)",
			Sources:     cli.EnvVars("SQUIRRITO_GEMINI_API_KEY"),
			Destination: &g.APIKey,
		},
		&cli.StringSliceFlag{
			Name:        "gemini-models",
			Usage:       "Ordered model fallback list for joke generation",
			Value:       inference.DefaultCandidates,
			Sources:     cli.EnvVars("SQUIRRITO_GEMINI_MODELS"),
			Destination: &g.Models,
		},
		&cli.DurationFlag{
			Name:        "gemini-timeout",
			Usage:       "Per-model call timeout for joke generation",
			Value:       8 * time.Second,
			Sources:     cli.EnvVars("SQUIRRITO_GEMINI_TIMEOUT"),
			Destination: &g.Timeout,
		},
	}
}

// ConfigureInference creates the fallback inference client. An API key
// selects the Gemini API backend; a project ID selects Vertex AI. Returns
// nil when neither is configured (canned jokes only).
func (g *Gemini) ConfigureInference(ctx context.Context) (*inference.Client, error) {
	var backend inference.Backend
	var err error
	switch {
	case g.APIKey != "":
		backend, err = inference.NewAPIBackend(ctx, g.APIKey)
	case g.ProjectID != "":
		backend, err = inference.NewVertexBackend(ctx, g.ProjectID, g.Location)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create inference backend")
	}

	client, err := inference.New(backend,
		inference.WithCandidates(g.Models),
		inference.WithTimeout(g.Timeout),
	)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create inference client")
	}

	return client, nil
}

// ConfigureLLM creates a gollem client for the best pick judge.
// Returns nil if projectID is not configured (judge feature disabled).
func (g *Gemini) ConfigureLLM(ctx context.Context) (gollem.LLMClient, error) {
	if g.ProjectID == "" {
		return nil, nil
	}

	client, err := gemini.New(ctx, g.ProjectID, g.Location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	return client, nil
}
