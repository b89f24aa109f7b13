package repository

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned by every backend when a memory ID was never saved
var ErrNotFound = goerr.New("memory not found")

// IsNotFound reports whether err stems from a missing memory
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
