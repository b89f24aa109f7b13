package interfaces

import (
	"context"

	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
)

// Repository is the narrow custodian interface of the single global Memory
// collection. All callers round-trip through these operations; the underlying
// storage handle is never exposed. Implementations must serialize Put so that
// concurrent saves cannot lose updates.
type Repository interface {
	// Put assigns a fresh ID and creation timestamp to the memory, appends it
	// to the collection, and returns the stored record.
	Put(ctx context.Context, mem *model.Memory) (*model.Memory, error)

	// List returns the full collection in insertion order. An empty
	// collection yields an empty slice, not nil-or-error.
	List(ctx context.Context) ([]*model.Memory, error)

	// GetByID returns the memory with the given ID, or an error wrapping
	// ErrNotFound when it was never saved.
	GetByID(ctx context.Context, id types.MemoryID) (*model.Memory, error)

	// Clear deletes the entire collection. Maintenance only; not reachable
	// through the public HTTP surface.
	Clear(ctx context.Context) error

	// Close releases any underlying storage resources
	Close() error
}
