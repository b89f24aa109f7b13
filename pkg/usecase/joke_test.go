package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/repository/memory"
	"github.com/squirrito-app/squirrito/pkg/usecase"
)

type generatorCall struct {
	System string
	User   string
}

type fakeGenerator struct {
	calls        []generatorCall
	generateFunc func(systemPrompt, userPrompt string) (string, error)
}

func (g *fakeGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls = append(g.calls, generatorCall{System: systemPrompt, User: userPrompt})
	return g.generateFunc(systemPrompt, userPrompt)
}

type fakeGeocoder struct {
	place *model.Place
}

func (g *fakeGeocoder) Reverse(ctx context.Context, lat, lng model.Coord) *model.Place {
	if !lat.IsSet() || !lng.IsSet() {
		return nil
	}
	return g.place
}

func (g *fakeGeocoder) Forward(ctx context.Context, query string) (*model.Coordinates, error) {
	return nil, goerr.New("not implemented")
}

func TestJokeGenerateTwoPass(t *testing.T) {
	persona := usecase.DefaultPersona()
	gen := &fakeGenerator{
		generateFunc: func(systemPrompt, userPrompt string) (string, error) {
			if systemPrompt == persona.EditorPrompt {
				return "punched up", nil
			}
			return "first draft", nil
		},
	}

	uc := usecase.New(memory.New(),
		usecase.WithGenerator(gen),
		usecase.WithPersona(persona),
	)

	joke, err := uc.Joke.Generate(context.Background(), &model.JokeRequest{LocationText: "the park"})
	gt.NoError(t, err).Required()
	gt.Value(t, joke).Equal("punched up")

	gt.Array(t, gen.calls).Length(2)
	gt.Value(t, gen.calls[0].System).Equal(persona.SystemPrompt)
	gt.Value(t, gen.calls[1].System).Equal(persona.EditorPrompt)
	// The editor pass receives the draft, not the scene
	gt.Value(t, gen.calls[1].User).Equal("first draft")
}

func TestJokeGeneratePromptIncludesContext(t *testing.T) {
	gen := &fakeGenerator{
		generateFunc: func(systemPrompt, userPrompt string) (string, error) {
			return "ok", nil
		},
	}
	geocoder := &fakeGeocoder{
		place: &model.Place{Name: "Trinity Bellwoods", City: "Toronto", Country: "Canada"},
	}

	uc := usecase.New(memory.New(),
		usecase.WithGenerator(gen),
		usecase.WithGeocoder(geocoder),
	)

	req := &model.JokeRequest{
		LocationText: "park bench",
		Surroundings: "dogs everywhere",
		TodayPlan:    "eating a sandwich",
		Lat:          model.NewCoord(43.647),
		Lng:          model.NewCoord(-79.413),
	}

	_, err := uc.Joke.Generate(context.Background(), req)
	gt.NoError(t, err).Required()

	prompt := gen.calls[0].User
	gt.Bool(t, strings.Contains(prompt, `Scene label: "park bench"`)).True()
	gt.Bool(t, strings.Contains(prompt, "Context: Nearby: Trinity Bellwoods • City: Toronto • Country: Canada • Sees: dogs everywhere • Doing: eating a sandwich")).True()
	gt.Bool(t, strings.Contains(prompt, "Make one light, playful joke.")).True()
}

func TestJokeGenerateWithoutCoordinatesSkipsEnrichment(t *testing.T) {
	gen := &fakeGenerator{
		generateFunc: func(systemPrompt, userPrompt string) (string, error) {
			return "ok", nil
		},
	}

	uc := usecase.New(memory.New(),
		usecase.WithGenerator(gen),
		usecase.WithGeocoder(&fakeGeocoder{place: &model.Place{Name: "should not appear"}}),
	)

	_, err := uc.Joke.Generate(context.Background(), &model.JokeRequest{
		LocationText: "somewhere",
		Surroundings: "trees",
	})
	gt.NoError(t, err).Required()

	prompt := gen.calls[0].User
	gt.Bool(t, strings.Contains(prompt, "should not appear")).False()
	gt.Bool(t, strings.Contains(prompt, "Context: Sees: trees")).True()
}

func TestJokeGeneratePunchUpFailureKeepsDraft(t *testing.T) {
	persona := usecase.DefaultPersona()
	gen := &fakeGenerator{
		generateFunc: func(systemPrompt, userPrompt string) (string, error) {
			if systemPrompt == persona.EditorPrompt {
				return "", goerr.New("editor unavailable")
			}
			return "the draft survives", nil
		},
	}

	uc := usecase.New(memory.New(), usecase.WithGenerator(gen), usecase.WithPersona(persona))

	joke, err := uc.Joke.Generate(context.Background(), &model.JokeRequest{LocationText: "here"})
	gt.NoError(t, err).Required()
	gt.Value(t, joke).Equal("the draft survives")
}

func TestJokeGenerateTotalFailureServesCannedJoke(t *testing.T) {
	gen := &fakeGenerator{
		generateFunc: func(systemPrompt, userPrompt string) (string, error) {
			return "", goerr.New("every model is down")
		},
	}
	persona := usecase.DefaultPersona()
	persona.CannedJokes = []string{"the only canned joke"}

	uc := usecase.New(memory.New(), usecase.WithGenerator(gen), usecase.WithPersona(persona))

	joke, err := uc.Joke.Generate(context.Background(), &model.JokeRequest{LocationText: "here"})
	gt.NoError(t, err).Required()
	gt.Value(t, joke).Equal("the only canned joke")
}

func TestJokeGenerateNoGeneratorServesCannedJoke(t *testing.T) {
	persona := usecase.DefaultPersona()
	persona.CannedJokes = []string{"offline joke"}

	uc := usecase.New(memory.New(), usecase.WithPersona(persona))

	joke, err := uc.Joke.Generate(context.Background(), &model.JokeRequest{LocationText: "here"})
	gt.NoError(t, err).Required()
	gt.Value(t, joke).Equal("offline joke")
}

func TestJokeGenerateInvalidRequest(t *testing.T) {
	gen := &fakeGenerator{
		generateFunc: func(systemPrompt, userPrompt string) (string, error) {
			return "should not be called", nil
		},
	}

	uc := usecase.New(memory.New(), usecase.WithGenerator(gen))

	_, err := uc.Joke.Generate(context.Background(), &model.JokeRequest{})
	gt.Error(t, err)
	gt.Bool(t, errors.Is(err, model.ErrInvalidRequest)).True()
	gt.Array(t, gen.calls).Length(0)
}
