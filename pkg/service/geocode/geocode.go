package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/squirrito-app/squirrito/pkg/domain/model"
	"github.com/squirrito-app/squirrito/pkg/utils/logging"
	"github.com/squirrito-app/squirrito/pkg/utils/safe"
)

const (
	defaultBaseURL = "https://nominatim.openstreetmap.org"
	userAgent      = "Squirrito/1.0"
)

// Service resolves between coordinates and place descriptions via a public
// geocoding endpoint.
type Service interface {
	// Reverse is strictly best-effort: it returns nil when either coordinate
	// is unset and on any lookup failure. It never returns an error.
	Reverse(ctx context.Context, lat, lng model.Coord) *model.Place

	// Forward resolves a free-text query to its best coordinate match
	Forward(ctx context.Context, query string) (*model.Coordinates, error)
}

type client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Service = &client{}

type Option func(*client)

// WithBaseURL overrides the geocoding endpoint (used by tests)
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *client) {
		c.httpClient = httpClient
	}
}

func New(opts ...Option) Service {
	c := &client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// reverseResponse is the subset of the Nominatim jsonv2 reverse payload we
// care about.
type reverseResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		City    string `json:"city"`
		Town    string `json:"town"`
		Village string `json:"village"`
		Suburb  string `json:"suburb"`
		Country string `json:"country"`
	} `json:"address"`
}

func (c *client) Reverse(ctx context.Context, lat, lng model.Coord) *model.Place {
	if !lat.IsSet() || !lng.IsSet() {
		return nil
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(lat.Float(), 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng.Float(), 'f', -1, 64))
	q.Set("zoom", "14")

	var payload reverseResponse
	if err := c.getJSON(ctx, "/reverse", q, &payload); err != nil {
		logging.From(ctx).Debug("reverse geocoding failed", "error", err.Error())
		return nil
	}

	place := &model.Place{
		Name:    payload.Name,
		City:    firstNonEmpty(payload.Address.City, payload.Address.Town, payload.Address.Village, payload.Address.Suburb),
		Country: payload.Address.Country,
	}
	if place.Name == "" && payload.DisplayName != "" {
		place.Name = strings.TrimSpace(strings.SplitN(payload.DisplayName, ",", 2)[0])
	}
	if place.Name == "" && place.City == "" && place.Country == "" {
		return nil
	}
	return place
}

// searchResult is one entry of the Nominatim jsonv2 search payload
type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *client) Forward(ctx context.Context, query string) (*model.Coordinates, error) {
	if query == "" {
		return nil, goerr.New("query is required")
	}

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("q", query)
	q.Set("limit", "1")

	var results []searchResult
	if err := c.getJSON(ctx, "/search", q, &results); err != nil {
		return nil, goerr.Wrap(err, "forward geocoding failed", goerr.V("query", query))
	}
	if len(results) == 0 {
		return nil, goerr.New("no geocoding match", goerr.V("query", query))
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid latitude in geocoding response")
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid longitude in geocoding response")
	}

	return &model.Coordinates{Lat: lat, Lng: lng}, nil
}

func (c *client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build geocoding request")
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "geocoding request failed")
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected geocoding status", goerr.V("status", resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode geocoding response")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
