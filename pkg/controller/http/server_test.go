package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	httpctrl "github.com/squirrito-app/squirrito/pkg/controller/http"
	"github.com/squirrito-app/squirrito/pkg/domain/interfaces"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
	"github.com/squirrito-app/squirrito/pkg/repository/memory"
	"github.com/squirrito-app/squirrito/pkg/usecase"
)

type stubGenerator struct {
	calls int
	joke  string
	err   error
}

func (g *stubGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	g.calls++
	return g.joke, g.err
}

func newTestServer(t *testing.T, opts ...usecase.Option) (*httpctrl.Server, interfaces.Repository) {
	t.Helper()

	repo := memory.New()
	uc := usecase.New(repo, opts...)
	srv, err := httpctrl.New(uc)
	gt.NoError(t, err).Required()
	return srv, repo
}

func TestPing(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/json")
	gt.Value(t, strings.TrimSpace(rec.Body.String())).Equal(`{"ok":true}`)
}

func TestJoke(t *testing.T) {
	gen := &stubGenerator{joke: "a generated joke"}
	srv, _ := newTestServer(t, usecase.WithGenerator(gen))

	body := `{"locationText": "the park", "surroundings": "trees"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/joke", strings.NewReader(body))
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Joke string `json:"joke"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.Value(t, resp.Joke).Equal("a generated joke")
}

func TestJokeInvalidJSON(t *testing.T) {
	gen := &stubGenerator{joke: "never"}
	srv, _ := newTestServer(t, usecase.WithGenerator(gen))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/joke", strings.NewReader("{broken"))
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.Value(t, gen.calls).Equal(0)
}

func TestJokeMissingLocationText(t *testing.T) {
	gen := &stubGenerator{joke: "never"}
	srv, _ := newTestServer(t, usecase.WithGenerator(gen))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/joke", strings.NewReader(`{"surroundings": "trees"}`))
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	gt.Bool(t, strings.Contains(rec.Body.String(), "locationText required")).True()
	gt.Value(t, gen.calls).Equal(0)
}

func TestJokeGenerationFailureStillReturnsJoke(t *testing.T) {
	gen := &stubGenerator{err: goerr.New("all models down")}
	srv, _ := newTestServer(t, usecase.WithGenerator(gen))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/joke", strings.NewReader(`{"locationText": "here"}`))
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var resp struct {
		Joke string `json:"joke"`
	}
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp)).Required()
	gt.NotEqual(t, resp.Joke, "")
}

func TestJokeToleratesNonNumericCoordinates(t *testing.T) {
	gen := &stubGenerator{joke: "ok"}
	srv, _ := newTestServer(t, usecase.WithGenerator(gen))

	body := `{"locationText": "here", "lat": "not-a-number", "lng": null}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/joke", strings.NewReader(body))
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
}

func TestSaveSetsSessionCookie(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"locationText": "CN Tower", "lat": 43.6, "lng": -79.4, "joke": "saved joke"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/save", strings.NewReader(body))
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var saved model.Memory
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved)).Required()
	gt.Bool(t, saved.ID.IsValid()).True()
	gt.Value(t, saved.Joke).Equal("saved joke")

	cookies := rec.Result().Cookies()
	gt.Array(t, cookies).Length(1).Required()
	gt.Value(t, cookies[0].Name).Equal("geosid")
	gt.Value(t, cookies[0].Path).Equal("/")
	gt.Value(t, cookies[0].SameSite).Equal(http.SameSiteLaxMode)
	gt.Value(t, string(saved.SessionID)).Equal(cookies[0].Value)
}

func TestSaveReusesExistingSession(t *testing.T) {
	srv, _ := newTestServer(t)

	body := `{"locationText": "CN Tower", "joke": "second joke"}`
	req := httptest.NewRequest(http.MethodPost, "/api/save", strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: "geosid", Value: "existing-session"})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var saved model.Memory
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved)).Required()
	gt.Value(t, saved.SessionID).Equal(types.SessionID("existing-session"))
}

func TestSaveValidation(t *testing.T) {
	srv, repo := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{name: "missing joke", body: `{"locationText": "here"}`},
		{name: "missing locationText", body: `{"joke": "orphan"}`},
		{name: "broken JSON", body: `{`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/save", strings.NewReader(tc.body))
			srv.ServeHTTP(rec, req)
			gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		})
	}

	listed, err := repo.List(context.Background())
	gt.NoError(t, err).Required()
	gt.Array(t, listed).Length(0)
}

func TestMemories(t *testing.T) {
	srv, repo := newTestServer(t)
	ctx := context.Background()

	for _, joke := range []string{"first", "second"} {
		_, err := repo.Put(ctx, &model.Memory{
			SessionID:    types.NewSessionID(),
			LocationText: "spot",
			Joke:         joke,
		})
		gt.NoError(t, err).Required()
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/memories", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var listed []*model.Memory
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed)).Required()
	gt.Array(t, listed).Length(2)
	gt.Value(t, listed[0].Joke).Equal("first")
	gt.Value(t, listed[1].Joke).Equal("second")
}

func TestMemoryByID(t *testing.T) {
	srv, repo := newTestServer(t)

	stored, err := repo.Put(context.Background(), &model.Memory{
		SessionID:    types.NewSessionID(),
		LocationText: "spot",
		Joke:         "findable",
	})
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/memory/"+stored.ID.String(), nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var got model.Memory
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got)).Required()
	gt.Value(t, got.ID).Equal(stored.ID)
}

func TestMemoryByIDNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("unknown uuid", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/memory/"+types.NewMemoryID().String(), nil))
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/memory/not-a-uuid", nil))
		gt.Value(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestShareCard(t *testing.T) {
	srv, repo := newTestServer(t)

	stored, err := repo.Put(context.Background(), &model.Memory{
		SessionID:    types.NewSessionID(),
		LocationText: "CN Tower",
		Lat:          43.6,
		Lng:          -79.4,
		Joke:         "shareworthy",
	})
	gt.NoError(t, err).Required()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/share/"+stored.ID.String(), nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("image/svg+xml")
	gt.Value(t, rec.Header().Get("Cache-Control")).Equal("public, max-age=31536000, immutable")
	gt.Bool(t, strings.Contains(rec.Body.String(), "shareworthy")).True()
	gt.Bool(t, strings.Contains(rec.Body.String(), "<svg")).True()
}

func TestShareCardNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/share/"+types.NewMemoryID().String(), nil))
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestBestNoPickYet(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/best", nil))
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestBestAfterRefresh(t *testing.T) {
	repo := memory.New()
	uc := usecase.New(repo)
	srv, err := httpctrl.New(uc)
	gt.NoError(t, err).Required()

	_, err = repo.Put(context.Background(), &model.Memory{
		SessionID:    types.NewSessionID(),
		LocationText: "spot",
		Joke:         "today's best",
	})
	gt.NoError(t, err).Required()
	gt.NoError(t, uc.BestPick.Refresh(context.Background())).Required()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/best", nil))

	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var pick model.BestPick
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pick)).Required()
	gt.Value(t, pick.Memory.Joke).Equal("today's best")
	gt.Value(t, pick.Method).Equal(model.PickMethodLongest)
}

func TestCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("preflight", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/joke", nil))

		gt.Value(t, rec.Code).Equal(http.StatusNoContent)
		gt.Value(t, rec.Header().Get("Access-Control-Allow-Origin")).Equal("*")
		gt.Value(t, rec.Header().Get("Access-Control-Allow-Methods")).Equal("GET,POST,OPTIONS")
		gt.Value(t, rec.Header().Get("Access-Control-Allow-Headers")).Equal("content-type")
	})

	t.Run("regular response carries headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

		gt.Value(t, rec.Header().Get("Access-Control-Allow-Origin")).Equal("*")
	})
}

func TestUIFallback(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("root serves index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Bool(t, strings.Contains(rec.Body.String(), "Squirrito")).True()
	})

	t.Run("deep link serves index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/m/"+types.NewMemoryID().String(), nil))

		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Header().Get("Content-Type")).Equal("text/html")
	})
}
