package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/squirrito-app/squirrito/pkg/domain/interfaces"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/domain/types"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
)

// Judge selects the funniest memory out of a non-empty candidate list
type Judge interface {
	Pick(ctx context.Context, memories []*model.Memory) (types.MemoryID, error)
}

// BestPickUseCase maintains the joke of the day: the funniest memory saved
// since UTC midnight. The pick is recomputed on demand and cached in memory;
// it is presentation state, not part of the durable collection.
type BestPickUseCase struct {
	repo  interfaces.Repository
	judge Judge

	mu      sync.RWMutex
	current *model.BestPick
}

func NewBestPickUseCase(repo interfaces.Repository, judge Judge) *BestPickUseCase {
	return &BestPickUseCase{
		repo:  repo,
		judge: judge,
	}
}

// Current returns the cached pick, or nil when none has been computed yet
func (uc *BestPickUseCase) Current() *model.BestPick {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.current.Clone()
}

// Refresh recomputes the pick from today's memories. A judge failure is not
// an error: the longest joke wins instead.
func (uc *BestPickUseCase) Refresh(ctx context.Context) error {
	memories, err := uc.repo.List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list memories for best pick")
	}

	today := filterToday(memories, time.Now().UTC())
	if len(today) == 0 {
		uc.mu.Lock()
		uc.current = nil
		uc.mu.Unlock()
		return nil
	}

	pick := &model.BestPick{
		PickedAt: time.Now().UTC(),
	}

	if uc.judge != nil {
		if id, err := uc.judge.Pick(ctx, today); err == nil {
			if mem := findByID(today, id); mem != nil {
				pick.Memory = mem
				pick.Method = model.PickMethodJudge
			}
		} else {
			logging.From(ctx).Warn("best pick judge failed, falling back to longest joke", "error", err)
		}
	}

	if pick.Memory == nil {
		pick.Memory = longestJoke(today)
		pick.Method = model.PickMethodLongest
	}

	uc.mu.Lock()
	uc.current = pick
	uc.mu.Unlock()
	return nil
}

func filterToday(memories []*model.Memory, now time.Time) []*model.Memory {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var result []*model.Memory
	for _, m := range memories {
		if !m.CreatedAt.Before(midnight) {
			result = append(result, m)
		}
	}
	return result
}

func findByID(memories []*model.Memory, id types.MemoryID) *model.Memory {
	for _, m := range memories {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// longestJoke is the deterministic tie-breaker; earlier memories win ties
func longestJoke(memories []*model.Memory) *model.Memory {
	best := memories[0]
	for _, m := range memories[1:] {
		if len(m.Joke) > len(best.Joke) {
			best = m
		}
	}
	return best
}

// llmJudge asks a language model to pick the funniest joke, constrained to a
// JSON response naming one of the candidate IDs
type llmJudge struct {
	llmClient gollem.LLMClient
}

func NewLLMJudge(llmClient gollem.LLMClient) Judge {
	return &llmJudge{llmClient: llmClient}
}

type judgeVerdict struct {
	MemoryID string `json:"memory_id"`
	Reason   string `json:"reason"`
}

func (j *llmJudge) Pick(ctx context.Context, memories []*model.Memory) (types.MemoryID, error) {
	if len(memories) == 0 {
		return "", goerr.New("no memories to judge")
	}

	schema := &gollem.Parameter{
		Title:       "BestJokeVerdict",
		Description: "The funniest joke out of the candidates",
		Type:        gollem.TypeObject,
		Properties: map[string]*gollem.Parameter{
			"memory_id": {
				Type:        gollem.TypeString,
				Description: "The id of the funniest joke. Must be one of the candidate ids verbatim.",
				Required:    true,
			},
			"reason": {
				Type:        gollem.TypeString,
				Description: "One short sentence on why this joke wins.",
				Required:    true,
			},
		},
	}

	session, err := j.llmClient.NewSession(ctx,
		gollem.WithSessionContentType(gollem.ContentTypeJSON),
		gollem.WithSessionResponseSchema(schema),
	)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create judge session")
	}

	var sb strings.Builder
	sb.WriteString("Pick the funniest joke from the following candidates. Judge on wit, surprise, and wordplay.\n\n")
	for _, m := range memories {
		fmt.Fprintf(&sb, "id: %s\nlocation: %s\njoke: %s\n\n", m.ID, m.LocationText, m.Joke)
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(sb.String()))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate judge verdict")
	}
	if len(resp.Texts) == 0 {
		return "", goerr.New("judge returned empty response")
	}

	var verdict judgeVerdict
	if err := json.Unmarshal([]byte(resp.Texts[0]), &verdict); err != nil {
		return "", goerr.Wrap(err, "failed to parse judge verdict", goerr.V("response", resp.Texts[0]))
	}

	id := types.MemoryID(verdict.MemoryID)
	if findByID(memories, id) == nil {
		return "", goerr.New("judge picked an unknown memory", goerr.V("memoryID", verdict.MemoryID))
	}

	return id, nil
}
