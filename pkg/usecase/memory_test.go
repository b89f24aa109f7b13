package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
	"github.com/squirrito-app/squirrito/pkg/repository"
	"github.com/squirrito-app/squirrito/pkg/repository/memory"
	"github.com/squirrito-app/squirrito/pkg/usecase"
)

func TestMemorySave(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	joke := "a saved joke"

	stored, err := uc.Memory.Save(ctx, types.SessionID("s-1"), &model.SaveRequest{
		LocationText: "CN Tower",
		Lat:          model.NewCoord(43.6426),
		Lng:          model.NewCoord(-79.3871),
		Joke:         &joke,
	})
	gt.NoError(t, err).Required()

	gt.Bool(t, stored.ID.IsValid()).True()
	gt.Value(t, stored.SessionID).Equal(types.SessionID("s-1"))
	gt.Value(t, stored.Joke).Equal("a saved joke")
	gt.Value(t, stored.Lat).Equal(43.6426)
	gt.Bool(t, stored.CreatedAt.IsZero()).False()

	got, err := uc.Memory.Get(ctx, stored.ID)
	gt.NoError(t, err).Required()
	gt.Value(t, got.Joke).Equal("a saved joke")
}

func TestMemorySaveCoercesUnsetCoordinates(t *testing.T) {
	uc := usecase.New(memory.New())
	joke := "zero island joke"

	stored, err := uc.Memory.Save(context.Background(), types.NewSessionID(), &model.SaveRequest{
		LocationText: "nowhere in particular",
		Joke:         &joke,
	})
	gt.NoError(t, err).Required()

	gt.Value(t, stored.Lat).Equal(0.0)
	gt.Value(t, stored.Lng).Equal(0.0)
}

func TestMemorySaveInvalidRequest(t *testing.T) {
	uc := usecase.New(memory.New())
	joke := "orphan joke"

	cases := []struct {
		name string
		req  *model.SaveRequest
	}{
		{name: "missing joke", req: &model.SaveRequest{LocationText: "here"}},
		{name: "missing locationText", req: &model.SaveRequest{Joke: &joke}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Memory.Save(context.Background(), types.NewSessionID(), tc.req)
			gt.Error(t, err)
			gt.Bool(t, errors.Is(err, model.ErrInvalidRequest)).True()
		})
	}

	listed, err := uc.Memory.List(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(0)
}

func TestMemoryGetUnknownID(t *testing.T) {
	uc := usecase.New(memory.New())

	_, err := uc.Memory.Get(context.Background(), types.NewMemoryID())
	gt.Error(t, err)
	gt.Bool(t, repository.IsNotFound(err)).True()
}

func TestMemoryClear(t *testing.T) {
	uc := usecase.New(memory.New())
	ctx := context.Background()
	joke := "soon gone"

	_, err := uc.Memory.Save(ctx, types.NewSessionID(), &model.SaveRequest{
		LocationText: "temp", Joke: &joke,
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, uc.Memory.Clear(ctx)).Required()

	listed, err := uc.Memory.List(ctx)
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(0)
}
