package model

import "github.com/m-mizutani/goerr/v2"

// JokeRequest is the transient input of the joke generation path. Nothing in
// it is persisted.
type JokeRequest struct {
	LocationText string `json:"locationText"`
	Surroundings string `json:"surroundings,omitempty"`
	TodayPlan    string `json:"todayPlan,omitempty"`
	Lat          Coord  `json:"lat,omitempty"`
	Lng          Coord  `json:"lng,omitempty"`
}

// Validate checks the request before any downstream call is made
func (r *JokeRequest) Validate() error {
	if r.LocationText == "" {
		return goerr.Wrap(ErrInvalidRequest, "locationText required")
	}
	return nil
}

// SaveRequest is the transient input of the save-on-consent path.
type SaveRequest struct {
	LocationText string  `json:"locationText"`
	Lat          Coord   `json:"lat,omitempty"`
	Lng          Coord   `json:"lng,omitempty"`
	Joke         *string `json:"joke"`
}

// Validate requires a scene label and a joke string. An empty joke string is
// accepted; an absent one is not.
func (r *SaveRequest) Validate() error {
	if r.LocationText == "" || r.Joke == nil {
		return goerr.Wrap(ErrInvalidRequest, "locationText and joke required")
	}
	return nil
}

// Place is the best-effort reverse-geocoding result used to enrich a joke
// prompt. Every field is optional.
type Place struct {
	Name    string
	City    string
	Country string
}

// Coordinates is a resolved latitude/longitude pair from forward geocoding.
type Coordinates struct {
	Lat float64
	Lng float64
}

// ErrInvalidRequest marks client input rejected at the handler boundary
var ErrInvalidRequest = goerr.New("invalid request")
