package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/domain/interfaces"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
)

// MemoryUseCase manages the saved joke collection
type MemoryUseCase struct {
	repo interfaces.Repository
}

func NewMemoryUseCase(repo interfaces.Repository) *MemoryUseCase {
	return &MemoryUseCase{repo: repo}
}

// Save persists a joke the user consented to keep. Unset or non-numeric
// coordinates are stored as zero rather than rejected.
func (uc *MemoryUseCase) Save(ctx context.Context, sessionID types.SessionID, req *model.SaveRequest) (*model.Memory, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	mem := &model.Memory{
		SessionID:    sessionID,
		LocationText: req.LocationText,
		Lat:          req.Lat.Float(),
		Lng:          req.Lng.Float(),
		Joke:         *req.Joke,
	}

	stored, err := uc.repo.Put(ctx, mem)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to save memory", goerr.V("sessionID", sessionID))
	}

	return stored, nil
}

// List returns all memories in insertion order
func (uc *MemoryUseCase) List(ctx context.Context) ([]*model.Memory, error) {
	return uc.repo.List(ctx)
}

// Get returns one memory by ID
func (uc *MemoryUseCase) Get(ctx context.Context, id types.MemoryID) (*model.Memory, error) {
	return uc.repo.GetByID(ctx, id)
}

// Clear drops every memory. Maintenance only.
func (uc *MemoryUseCase) Clear(ctx context.Context) error {
	return uc.repo.Clear(ctx)
}
