package optical

import (
	"fmt"
	"math"
	"math/bits"
)

// Axis couples a level count with the physical range it spans. Levels must
// be a positive power of two; Levels == 1 carries zero bits and always maps
// to Lo.
type Axis struct {
	Levels int
	Lo, Hi float64
}

// NewAxis validates the level count and range.
func NewAxis(levels int, lo, hi float64) (Axis, error) {
	if err := ValidatePowerOfTwo(levels); err != nil {
		return Axis{}, err
	}
	if err := ValidateRange(lo, hi); err != nil {
		return Axis{}, err
	}
	return Axis{Levels: levels, Lo: lo, Hi: hi}, nil
}

// Bits returns log2(Levels), the information carried per voxel on this axis.
func (a Axis) Bits() int {
	return bits.Len(uint(a.Levels)) - 1
}

// LevelToPhysical maps level k to its physical value: lo + k*(hi-lo)/(L-1).
func (a Axis) LevelToPhysical(k int) (float64, error) {
	if k < 0 || k >= a.Levels {
		return 0, fmt.Errorf("%w: level %d outside [0, %d)", ErrInvalidParameter, k, a.Levels)
	}
	if a.Levels == 1 {
		return a.Lo, nil
	}
	step := (a.Hi - a.Lo) / float64(a.Levels-1)
	return a.Lo + float64(k)*step, nil
}

// PhysicalToLevel quantises a measured value back to its level. Values
// outside [lo, hi] clamp to the nearest level, modelling detector
// saturation. Rounding is half away from zero; truncation or banker's
// rounding would bias boundaries near saturation.
func (a Axis) PhysicalToLevel(v float64) int {
	if a.Levels == 1 {
		return 0
	}
	t := (v - a.Lo) / (a.Hi - a.Lo) * float64(a.Levels-1)
	k := int(math.Round(t))
	if k < 0 {
		return 0
	}
	if k > a.Levels-1 {
		return a.Levels - 1
	}
	return k
}
