package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/usecase"
	"github.com/urfave/cli/v3"
)

// Persona holds CLI flags for character customization
type Persona struct {
	path string
}

// Flags returns CLI flags for persona configuration
func (p *Persona) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "persona-file",
			Usage:       "TOML file overriding the built-in persona prompts and canned jokes",
			Sources:     cli.EnvVars("SQUIRRITO_PERSONA_FILE"),
			Destination: &p.path,
		},
	}
}

// Configure loads the persona, falling back to the built-in one when no file
// is given
func (p *Persona) Configure() (usecase.Persona, error) {
	persona, err := usecase.LoadPersona(p.path)
	if err != nil {
		return persona, goerr.Wrap(err, "failed to load persona")
	}
	return persona, nil
}
