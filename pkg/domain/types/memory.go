package types

import "github.com/google/uuid"

// MemoryID is the unique identifier of a persisted Memory.
// Generated once at creation and never reassigned.
type MemoryID string

// NewMemoryID generates a new UUID v4 MemoryID
func NewMemoryID() MemoryID {
	return MemoryID(uuid.New().String())
}

// String returns the string representation of the memory ID
func (id MemoryID) String() string {
	return string(id)
}

// IsValid checks if the memory ID is a well-formed UUID
func (id MemoryID) IsValid() bool {
	_, err := uuid.Parse(string(id))
	return err == nil
}
