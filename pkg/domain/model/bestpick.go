package model

import "time"

// BestPick is the currently highlighted memory of the day
type BestPick struct {
	Memory   *Memory   `json:"memory"`
	Method   string    `json:"method"`
	PickedAt time.Time `json:"pickedAt"`
}

// Pick methods
const (
	PickMethodJudge   = "judge"
	PickMethodLongest = "longest"
)

func (x *BestPick) Clone() *BestPick {
	if x == nil {
		return nil
	}
	clone := *x
	clone.Memory = x.Memory.Clone()
	return &clone
}
