// Package noise perturbs storage patterns the way a measurement stage
// would: metadata and voxel coordinates are untouched, only intensity and
// polarization move. The codec makes no assumption about the perturbation
// distribution, so each model here is just one plausible channel.
package noise

import (
	"math/rand"

	"github.com/glasslab/optical5d/optical"
)

// Gaussian returns a copy of the pattern with independent Gaussian noise of
// the given standard deviations added to every voxel. Values are clamped to
// the axis ranges, matching a saturating detector.
func Gaussian(p *optical.StoragePattern, intensityStd, polarizationStd float64, seed int64) *optical.StoragePattern {
	rng := rand.New(rand.NewSource(seed))
	out := clone(p)
	for i := range out.Voxels {
		v := &out.Voxels[i]
		v.Intensity = clamp(v.Intensity+rng.NormFloat64()*intensityStd, p.IntensityAxis.Lo, p.IntensityAxis.Hi)
		v.Polarization = clamp(v.Polarization+rng.NormFloat64()*polarizationStd, p.PolarizationAxis.Lo, p.PolarizationAxis.Hi)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clone(p *optical.StoragePattern) *optical.StoragePattern {
	out := *p
	out.Voxels = make([]optical.Voxel, len(p.Voxels))
	copy(out.Voxels, p.Voxels)
	return &out
}
