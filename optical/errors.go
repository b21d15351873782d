package optical

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the codec. Callers match with errors.Is; the
// wrapped message carries the offending parameter or invariant.
var (
	// ErrInvalidParameter covers bad dimensions, non-power-of-two level
	// counts, ill-ordered or non-finite ranges, and oversize payloads.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrCapacityExceeded is returned when the required voxels do not fit
	// the lattice, or when an allocation would exceed the memory budget.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrInvalidLength is returned for bit streams whose length is not
	// aligned to the required block size.
	ErrInvalidLength = errors.New("invalid length")

	// ErrCorruptPattern is returned when a pattern fails revalidation on
	// read: violated invariants, coordinate mismatch, or a decoded stream
	// of the wrong length.
	ErrCorruptPattern = errors.New("corrupt pattern")

	// ErrUnknownECC is returned when a pattern names a scheme that is not
	// in the registry.
	ErrUnknownECC = errors.New("unknown error-correction scheme")
)

func corrupt(err error) error {
	return fmt.Errorf("%w: %v", ErrCorruptPattern, err)
}

func corruptf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrCorruptPattern}, args...)...)
}
