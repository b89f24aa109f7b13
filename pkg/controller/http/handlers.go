package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
	"github.com/squirrito-app/squirrito/pkg/repository"
	"github.com/squirrito-app/squirrito/pkg/service/sharecard"
	"github.com/squirrito-app/squirrito/pkg/usecase"
	"github.com/squirrito-app/squirrito/pkg/utils/errutil"
	"github.com/squirrito-app/squirrito/pkg/utils/safe"
)

const sessionCookieName = "geosid"

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	safe.Write(r.Context(), w, data)
}

func pingHandler() http.HandlerFunc {
	type response struct {
		OK bool `json:"ok"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, response{OK: true})
	}
}

func jokeHandler(jokeUC *usecase.JokeUseCase) http.HandlerFunc {
	type response struct {
		Joke string `json:"joke"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req model.JokeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		joke, err := jokeUC.Generate(r.Context(), &req)
		if err != nil {
			if errors.Is(err, model.ErrInvalidRequest) {
				http.Error(w, "locationText required", http.StatusBadRequest)
				return
			}
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, response{Joke: joke})
	}
}

func saveHandler(memoryUC *usecase.MemoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req model.SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		sessionID := sessionIDFromRequest(r)

		stored, err := memoryUC.Save(r.Context(), sessionID, &req)
		if err != nil {
			if errors.Is(err, model.ErrInvalidRequest) {
				http.Error(w, "locationText and joke required", http.StatusBadRequest)
				return
			}
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to save"), http.StatusInternalServerError)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookieName,
			Value:    sessionID.String(),
			Path:     "/",
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, r, stored)
	}
}

func memoriesHandler(memoryUC *usecase.MemoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		memories, err := memoryUC.List(r.Context())
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}

		writeJSON(w, r, memories)
	}
}

func memoryHandler(memoryUC *usecase.MemoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mem, ok := lookupMemory(w, r, memoryUC)
		if !ok {
			return
		}

		writeJSON(w, r, mem)
	}
}

func shareHandler(memoryUC *usecase.MemoryUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mem, ok := lookupMemory(w, r, memoryUC)
		if !ok {
			return
		}

		w.Header().Set("Content-Type", sharecard.ContentType)
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		safe.Write(r.Context(), w, []byte(sharecard.Render(mem)))
	}
}

func bestHandler(bestPickUC *usecase.BestPickUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pick := bestPickUC.Current()
		if pick == nil {
			http.Error(w, "No pick yet", http.StatusNotFound)
			return
		}

		writeJSON(w, r, pick)
	}
}

// lookupMemory resolves the {id} path parameter to a stored memory, writing
// the error response itself when the ID is malformed or unknown
func lookupMemory(w http.ResponseWriter, r *http.Request, memoryUC *usecase.MemoryUseCase) (*model.Memory, bool) {
	id := types.MemoryID(chi.URLParam(r, "id"))
	if !id.IsValid() {
		http.Error(w, "Not found", http.StatusNotFound)
		return nil, false
	}

	mem, err := memoryUC.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return nil, false
		}
		errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		return nil, false
	}

	return mem, true
}

// sessionIDFromRequest reuses the caller's session cookie when present and
// mints a new session otherwise
func sessionIDFromRequest(r *http.Request) types.SessionID {
	if c, err := r.Cookie(sessionCookieName); err == nil && c.Value != "" {
		return types.SessionID(c.Value)
	}
	return types.NewSessionID()
}
