package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/domain/interfaces"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
	"github.com/squirrito-app/squirrito/pkg/repository"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultCollection = "memories"
	counterCollection = "meta"
)

// memoryDoc is the Firestore document representation of model.Memory.
// Seq is a monotonic sequence assigned at append time; ordering by it
// recovers exact insertion order even when CreatedAt collides.
type memoryDoc struct {
	ID           string    `firestore:"id"`
	SessionID    string    `firestore:"sessionId"`
	LocationText string    `firestore:"locationText"`
	Lat          float64   `firestore:"lat"`
	Lng          float64   `firestore:"lng"`
	Joke         string    `firestore:"joke"`
	CreatedAt    time.Time `firestore:"createdAt"`
	Seq          int64     `firestore:"seq"`
}

type counterState struct {
	Next int64 `firestore:"next"`
}

func toMemoryDoc(m *model.Memory, seq int64) *memoryDoc {
	return &memoryDoc{
		ID:           string(m.ID),
		SessionID:    string(m.SessionID),
		LocationText: m.LocationText,
		Lat:          m.Lat,
		Lng:          m.Lng,
		Joke:         m.Joke,
		CreatedAt:    m.CreatedAt,
		Seq:          seq,
	}
}

func fromMemoryDoc(d *memoryDoc) *model.Memory {
	return &model.Memory{
		ID:           types.MemoryID(d.ID),
		SessionID:    types.SessionID(d.SessionID),
		LocationText: d.LocationText,
		Lat:          d.Lat,
		Lng:          d.Lng,
		Joke:         d.Joke,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

// Firestore is the durable repository backend. Each Memory is one document;
// the append runs in a transaction over a counter document, which is the
// serialization primitive that keeps concurrent saves lost-update free.
type Firestore struct {
	client     *firestore.Client
	collection string
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithCollection overrides the collection name (useful for test isolation)
func WithCollection(name string) Option {
	return func(f *Firestore) {
		f.collection = name
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client", goerr.V("projectID", projectID))
	}

	f := &Firestore{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) memories() *firestore.CollectionRef {
	return f.client.Collection(f.collection)
}

// counter is keyed by collection name so instances on different collections
// never share (or clear) each other's sequence
func (f *Firestore) counter() *firestore.DocumentRef {
	return f.client.Collection(counterCollection).Doc(f.collection)
}

func (f *Firestore) Put(ctx context.Context, mem *model.Memory) (*model.Memory, error) {
	stored := mem.Clone()
	stored.ID = types.NewMemoryID()
	stored.CreatedAt = time.Now().UTC()

	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		var state counterState
		snap, err := tx.Get(f.counter())
		switch {
		case err == nil:
			if err := snap.DataTo(&state); err != nil {
				return goerr.Wrap(err, "failed to unmarshal memory counter")
			}
		case status.Code(err) == codes.NotFound:
			state.Next = 0
		default:
			return goerr.Wrap(err, "failed to get memory counter")
		}

		seq := state.Next
		if err := tx.Set(f.counter(), counterState{Next: seq + 1}); err != nil {
			return goerr.Wrap(err, "failed to advance memory counter")
		}
		if err := tx.Create(f.memories().Doc(string(stored.ID)), toMemoryDoc(stored, seq)); err != nil {
			return goerr.Wrap(err, "failed to create memory document")
		}
		return nil
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put memory", goerr.V("memoryID", stored.ID))
	}

	return stored, nil
}

func (f *Firestore) List(ctx context.Context) ([]*model.Memory, error) {
	iter := f.memories().OrderBy("seq", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	result := []*model.Memory{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate memories")
		}

		var d memoryDoc
		if err := snap.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V("doc", snap.Ref.ID))
		}
		result = append(result, fromMemoryDoc(&d))
	}

	return result, nil
}

func (f *Firestore) GetByID(ctx context.Context, id types.MemoryID) (*model.Memory, error) {
	snap, err := f.memories().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(repository.ErrNotFound, "memory not found", goerr.V("memoryID", id))
		}
		return nil, goerr.Wrap(err, "failed to get memory", goerr.V("memoryID", id))
	}

	var d memoryDoc
	if err := snap.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal memory", goerr.V("memoryID", id))
	}

	return fromMemoryDoc(&d), nil
}

func (f *Firestore) Clear(ctx context.Context) error {
	iter := f.memories().Documents(ctx)
	defer iter.Stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(8)

	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate memories for clear")
		}

		ref := snap.Ref
		eg.Go(func() error {
			if _, err := ref.Delete(ctx); err != nil {
				return goerr.Wrap(err, "failed to delete memory", goerr.V("doc", ref.ID))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	if _, err := f.counter().Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete memory counter")
	}

	return nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
