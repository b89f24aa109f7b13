package model

import (
	"encoding/json"
	"time"

	"github.com/squirrito-app/squirrito/pkg/domain/types"
)

// Memory is a persisted joke-location record. Once created it is never
// mutated: the collection only grows by append (or shrinks by bulk clear).
type Memory struct {
	ID           types.MemoryID
	SessionID    types.SessionID
	LocationText string
	Lat          float64
	Lng          float64
	Joke         string
	CreatedAt    time.Time
}

// memoryJSON is the wire representation. CreatedAt travels as Unix
// milliseconds to stay compatible with clients that treat it as a JS
// timestamp.
type memoryJSON struct {
	ID           string  `json:"id"`
	SessionID    string  `json:"sessionId"`
	LocationText string  `json:"locationText"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Joke         string  `json:"joke"`
	CreatedAt    int64   `json:"createdAt"`
}

func (m *Memory) MarshalJSON() ([]byte, error) {
	return json.Marshal(memoryJSON{
		ID:           string(m.ID),
		SessionID:    string(m.SessionID),
		LocationText: m.LocationText,
		Lat:          m.Lat,
		Lng:          m.Lng,
		Joke:         m.Joke,
		CreatedAt:    m.CreatedAt.UnixMilli(),
	})
}

func (m *Memory) UnmarshalJSON(data []byte) error {
	var w memoryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	m.ID = types.MemoryID(w.ID)
	m.SessionID = types.SessionID(w.SessionID)
	m.LocationText = w.LocationText
	m.Lat = w.Lat
	m.Lng = w.Lng
	m.Joke = w.Joke
	m.CreatedAt = time.UnixMilli(w.CreatedAt).UTC()
	return nil
}

// Clone returns a copy of the memory so stored records can be handed out
// without exposing the repository's instance.
func (m *Memory) Clone() *Memory {
	if m == nil {
		return nil
	}
	copied := *m
	return &copied
}
