package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/service/geocode"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
)

// JokeUseCase turns a scene description into one short joke. Generation is
// two-pass: a persona pass drafts the joke, an editor pass punches it up.
// Either pass failing degrades rather than fails the request.
type JokeUseCase struct {
	generator Generator
	geocoder  geocode.Service
	persona   Persona
}

func NewJokeUseCase(generator Generator, geocoder geocode.Service, persona Persona) *JokeUseCase {
	return &JokeUseCase{
		generator: generator,
		geocoder:  geocoder,
		persona:   persona,
	}
}

// Generate produces a joke for the scene. It returns an error only for an
// invalid request: when every model candidate fails, the composite failure is
// logged and a canned joke is served instead, so the caller always gets a
// joke for a valid request.
func (uc *JokeUseCase) Generate(ctx context.Context, req *model.JokeRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	draft, err := uc.draft(ctx, req)
	if err != nil {
		logging.From(ctx).Error("joke generation failed, serving canned joke", "error", err)
		return uc.cannedJoke(), nil
	}

	return uc.punchUp(ctx, draft), nil
}

func (uc *JokeUseCase) draft(ctx context.Context, req *model.JokeRequest) (string, error) {
	if uc.generator == nil {
		return "", goerr.New("no generator configured")
	}

	var contextBits []string
	if uc.geocoder != nil {
		if place := uc.geocoder.Reverse(ctx, req.Lat, req.Lng); place != nil {
			if place.Name != "" {
				contextBits = append(contextBits, fmt.Sprintf("Nearby: %s", place.Name))
			}
			if place.City != "" {
				contextBits = append(contextBits, fmt.Sprintf("City: %s", place.City))
			}
			if place.Country != "" {
				contextBits = append(contextBits, fmt.Sprintf("Country: %s", place.Country))
			}
		}
	}
	if req.Surroundings != "" {
		contextBits = append(contextBits, fmt.Sprintf("Sees: %s", req.Surroundings))
	}
	if req.TodayPlan != "" {
		contextBits = append(contextBits, fmt.Sprintf("Doing: %s", req.TodayPlan))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Scene label: %q\n", req.LocationText)
	if len(contextBits) > 0 {
		fmt.Fprintf(&sb, "Context: %s\n", strings.Join(contextBits, " • "))
	}
	sb.WriteString("Make one light, playful joke.")

	return uc.generator.Generate(ctx, uc.persona.SystemPrompt, sb.String())
}

// punchUp runs the editor pass. The draft survives any editor failure.
func (uc *JokeUseCase) punchUp(ctx context.Context, draft string) string {
	punched, err := uc.generator.Generate(ctx, uc.persona.EditorPrompt, draft)
	if err != nil {
		logging.From(ctx).Warn("punch-up pass failed, keeping draft", "error", err)
		return draft
	}
	if punched == "" {
		return draft
	}
	return punched
}

func (uc *JokeUseCase) cannedJoke() string {
	jokes := uc.persona.CannedJokes
	if len(jokes) == 0 {
		jokes = DefaultPersona().CannedJokes
	}
	return jokes[rand.IntN(len(jokes))]
}
