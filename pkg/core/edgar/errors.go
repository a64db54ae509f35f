package edgar

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a required structural marker missing from the input.
	ErrNotFound = errors.New("not found")

	// ErrDestinationNotFound is returned when a link anchor has no matching
	// destination. It wraps ErrNotFound.
	ErrDestinationNotFound = fmt.Errorf("destination anchor %w", ErrNotFound)
)
