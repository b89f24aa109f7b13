package model

import "encoding/json"

// Coord is a coordinate value that tolerates absent or non-numeric JSON
// input. Anything that does not decode as a number leaves the value unset,
// and unset values read as 0.
type Coord struct {
	value float64
	ok    bool
}

// NewCoord returns a set coordinate with the given value
func NewCoord(v float64) Coord {
	return Coord{value: v, ok: true}
}

func (c *Coord) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*c = Coord{}
		return nil
	}
	*c = Coord{value: v, ok: true}
	return nil
}

func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Float())
}

// Float returns the coordinate value, or 0 when unset
func (c Coord) Float() float64 {
	if !c.ok {
		return 0
	}
	return c.value
}

// IsSet reports whether a numeric value was provided
func (c Coord) IsSet() bool {
	return c.ok
}
