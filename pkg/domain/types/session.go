package types

import "github.com/google/uuid"

// SessionID is an opaque token correlating saves from one anonymous browser
// session. It carries no identity beyond continuity.
type SessionID string

// NewSessionID mints a fresh opaque session identifier
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// String returns the string representation of the session ID
func (id SessionID) String() string {
	return string(id)
}
