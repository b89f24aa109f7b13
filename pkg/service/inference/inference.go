package inference

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/genai"
)

// Backend abstracts a single generate call against one named model
type Backend interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// genaiBackend drives the genai SDK against either hosted backend
type genaiBackend struct {
	client *genai.Client
}

// NewVertexBackend creates a Backend backed by Vertex AI in the given project
func NewVertexBackend(ctx context.Context, projectID, location string) (Backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client", goerr.V("projectID", projectID))
	}
	return &genaiBackend{client: client}, nil
}

func (b *genaiBackend) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return b.client.Models.GenerateContent(ctx, model, contents, config)
}

// NewAPIBackend creates a Backend backed by the Gemini API with an API key
func NewAPIBackend(ctx context.Context, apiKey string) (Backend, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}
	return &genaiBackend{client: client}, nil
}

// DefaultCandidates is the ordered fallback list: a primary instruction model
// followed by two smaller fallbacks. First non-empty response wins.
var DefaultCandidates = []string{
	"gemini-2.5-flash",
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
}

const (
	defaultTimeout  = 8 * time.Second
	maxOutputTokens = 160
	jokeTemperature = 0.9
)

// Client obtains a text completion from a hosted model, tolerating that any
// individual candidate may be unavailable or return degenerate output. There
// is no backoff and no cross-request circuit breaking: every Generate call
// walks the candidate list from the top.
type Client struct {
	backend    Backend
	candidates []string
	timeout    time.Duration
}

type Option func(*Client)

// WithCandidates overrides the ordered model fallback list
func WithCandidates(models []string) Option {
	return func(c *Client) {
		if len(models) > 0 {
			c.candidates = models
		}
	}
}

// WithTimeout overrides the per-candidate call timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func New(backend Backend, opts ...Option) (*Client, error) {
	if backend == nil {
		return nil, goerr.New("inference backend is required")
	}

	c := &Client{
		backend:    backend,
		candidates: DefaultCandidates,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Candidates returns the configured model fallback list
func (c *Client) Candidates() []string {
	return c.candidates
}

// Generate tries each candidate model in order and returns the first
// non-empty trimmed response. When every candidate fails, the returned error
// message carries a per-model diagnostic so operators can see which models
// were tried and why each failed.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	var diags []string
	for _, model := range c.candidates {
		text, err := c.invoke(ctx, model, systemPrompt, userPrompt)
		if err != nil {
			diags = append(diags, fmt.Sprintf("%s error: %s", model, err.Error()))
			continue
		}
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed, nil
		}
		diags = append(diags, fmt.Sprintf("%s returned empty response", model))
	}

	return "", goerr.New(
		fmt.Sprintf("inference failed on all candidates: %s", strings.Join(diags, " | ")),
		goerr.V("candidates", c.candidates),
	)
}

func (c *Client) invoke(ctx context.Context, model, systemPrompt, userPrompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, ""),
		Temperature:       genai.Ptr(float32(jokeTemperature)),
		MaxOutputTokens:   maxOutputTokens,
	}

	resp, err := c.backend.GenerateContent(ctx, model, genai.Text(userPrompt), config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
