package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/domain/interfaces"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
	"github.com/squirrito-app/squirrito/pkg/repository"
)

// Memory is the in-process repository backend. A single mutex serializes all
// operations, which is what preserves the no-lost-update invariant of the
// append without any storage-side transaction.
type Memory struct {
	mu      sync.Mutex
	entries []*model.Memory
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{}
}

func (r *Memory) Put(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := mem.Clone()
	stored.ID = types.NewMemoryID()
	stored.CreatedAt = time.Now().UTC()

	r.entries = append(r.entries, stored)
	return stored.Clone(), nil
}

func (r *Memory) List(ctx context.Context) ([]*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*model.Memory, len(r.entries))
	for i, m := range r.entries {
		result[i] = m.Clone()
	}
	return result, nil
}

func (r *Memory) GetByID(ctx context.Context, id types.MemoryID) (*model.Memory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Linear scan: the collection has no secondary index
	for _, m := range r.entries {
		if m.ID == id {
			return m.Clone(), nil
		}
	}
	return nil, goerr.Wrap(repository.ErrNotFound, "memory not found", goerr.V("memoryID", id))
}

func (r *Memory) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = nil
	return nil
}

func (r *Memory) Close() error {
	return nil
}
