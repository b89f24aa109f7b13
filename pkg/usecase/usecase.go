package usecase

import (
	"context"

	"github.com/squirrito-app/squirrito/pkg/domain/interfaces"
	"github.com/squirrito-app/squirrito/pkg/service/geocode"
)

// Generator produces one text completion from a system and a user prompt
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type UseCases struct {
	repo      interfaces.Repository
	generator Generator
	geocoder  geocode.Service
	persona   Persona
	judge     Judge

	Joke     *JokeUseCase
	Memory   *MemoryUseCase
	BestPick *BestPickUseCase
}

type Option func(*UseCases)

func WithGenerator(g Generator) Option {
	return func(uc *UseCases) {
		uc.generator = g
	}
}

func WithGeocoder(g geocode.Service) Option {
	return func(uc *UseCases) {
		uc.geocoder = g
	}
}

func WithPersona(p Persona) Option {
	return func(uc *UseCases) {
		uc.persona = p
	}
}

func WithJudge(j Judge) Option {
	return func(uc *UseCases) {
		uc.judge = j
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:    repo,
		persona: DefaultPersona(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Joke = NewJokeUseCase(uc.generator, uc.geocoder, uc.persona)
	uc.Memory = NewMemoryUseCase(repo)
	uc.BestPick = NewBestPickUseCase(repo, uc.judge)

	return uc
}
