package optical

import "fmt"

// Centralized validation predicates used by both the writer and the reader.

const (
	// MaxPayloadBytes caps a single payload at 1 MiB.
	MaxPayloadBytes = 1 << 20
	// MaxGridDim caps each lattice axis.
	MaxGridDim = 10000
)

// ValidatePayload rejects payloads above max bytes (MaxPayloadBytes when
// max <= 0).
func ValidatePayload(data []byte, max int) error {
	if max <= 0 {
		max = MaxPayloadBytes
	}
	if len(data) > max {
		return fmt.Errorf("%w: payload of %d bytes exceeds the %d byte cap", ErrInvalidParameter, len(data), max)
	}
	return nil
}

// ValidateGrid checks that all three lattice dimensions are positive and at
// most MaxGridDim.
func ValidateGrid(g GridSize) error {
	for _, d := range [3]int{g.NX, g.NY, g.NZ} {
		if d <= 0 {
			return fmt.Errorf("%w: grid dimensions %v must be positive", ErrInvalidParameter, g)
		}
		if d > MaxGridDim {
			return fmt.Errorf("%w: grid dimensions %v exceed the per-axis cap %d", ErrInvalidParameter, g, MaxGridDim)
		}
	}
	return nil
}

// ValidatePitch checks that all three pitch components are positive and
// finite. Pitch is pure metadata but still travels with every pattern.
func ValidatePitch(p VoxelPitch) error {
	for _, v := range [3]float64{p.PX, p.PY, p.PZ} {
		if !isFinite(v) || v <= 0 {
			return fmt.Errorf("%w: voxel pitch %v must be positive and finite", ErrInvalidParameter, p)
		}
	}
	return nil
}

// ValidateRange checks that lo and hi are finite and ordered lo < hi.
func ValidateRange(lo, hi float64) error {
	if !isFinite(lo) || !isFinite(hi) {
		return fmt.Errorf("%w: range (%v, %v) must be finite", ErrInvalidParameter, lo, hi)
	}
	if lo >= hi {
		return fmt.Errorf("%w: range (%v, %v) must be ordered lo < hi", ErrInvalidParameter, lo, hi)
	}
	return nil
}

// ValidatePowerOfTwo checks that n is a positive power of two (1 counts).
func ValidatePowerOfTwo(n int) error {
	if n <= 0 || n&(n-1) != 0 {
		return fmt.Errorf("%w: level count %d must be a positive power of two", ErrInvalidParameter, n)
	}
	return nil
}
