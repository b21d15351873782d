package optical

import (
	"fmt"
	"math"
)

// Voxel is a single lattice cell: integer grid coordinates plus the two
// measured attributes. NewVoxel validates the values it is built with; the
// fields are exported and can be reassigned afterwards without any check.
type Voxel struct {
	X, Y, Z      int
	Intensity    float64
	Polarization float64
}

// NewVoxel validates and builds a voxel. Coordinates must be non-negative;
// intensity and polarization must be finite (NaN and ±Inf are rejected).
func NewVoxel(x, y, z int, intensity, polarization float64) (Voxel, error) {
	if x < 0 || y < 0 || z < 0 {
		return Voxel{}, fmt.Errorf("%w: voxel coordinates (%d,%d,%d) must be non-negative", ErrInvalidParameter, x, y, z)
	}
	if !isFinite(intensity) {
		return Voxel{}, fmt.Errorf("%w: voxel intensity %v is not finite", ErrInvalidParameter, intensity)
	}
	if !isFinite(polarization) {
		return Voxel{}, fmt.Errorf("%w: voxel polarization %v is not finite", ErrInvalidParameter, polarization)
	}
	return Voxel{X: x, Y: y, Z: z, Intensity: intensity, Polarization: polarization}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
