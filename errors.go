package tutorkb

import (
	"errors"

	"github.com/hazyhaar/tutorkb/internal/store"
)

// Sentinel errors surfaced to callers. Absent records are not errors:
// point lookups return (nil, nil).
var (
	// ErrDecode means a stored JSON blob no longer parses. Re-exported
	// from the store so callers never import internal packages.
	ErrDecode = store.ErrDecode

	// ErrInvalidInput means a query argument was empty or malformed.
	ErrInvalidInput = errors.New("tutorkb: invalid input")
)
