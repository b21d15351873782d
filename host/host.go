// Package host is a thin orchestration layer over the optical codec: it
// packages a payload, optionally whitens it with a seeded keystream, drives
// a write, and verifies the result by reading it back. Higher-level tooling
// uses it instead of wiring writer and reader by hand.
package host

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/glasslab/optical5d/optical"
)

// Config selects geometry and quantisation for a host writer. Zero values
// of the fields listed on New fall back to bench defaults; Grid has no
// default and must be set.
type Config struct {
	Grid                optical.GridSize
	Pitch               optical.VoxelPitch
	IntensityLevels     int
	PolarizationStates  int
	IntensityRange      [2]float64
	PolarizationRange   [2]float64
	ECC                 optical.Scheme
	// Scramble XORs the payload with a keystream derived from ScrambleSeed
	// before writing, decorrelating long runs in the stored levels.
	Scramble     bool
	ScrambleSeed int64
}

// Writer drives write-then-verify round trips for one configuration.
type Writer struct {
	w        *optical.Writer
	scramble bool
	seed     int64
}

// Readback is the outcome of a verify: the descrambled payload plus the
// raw read diagnostics.
type Readback struct {
	Data   []byte
	Result *optical.ReadResult
}

// New builds a host writer, filling unset config fields with bench
// defaults: 5×5×15 µm pitch, intensity in (0.15, 1.0), polarization in
// (0, π), 4 levels per axis, hamming74.
func New(cfg Config) (*Writer, error) {
	if cfg.Pitch == (optical.VoxelPitch{}) {
		cfg.Pitch = optical.VoxelPitch{PX: 5.0, PY: 5.0, PZ: 15.0}
	}
	if cfg.IntensityLevels == 0 {
		cfg.IntensityLevels = 4
	}
	if cfg.PolarizationStates == 0 {
		cfg.PolarizationStates = 4
	}
	if cfg.IntensityRange == ([2]float64{}) {
		cfg.IntensityRange = [2]float64{0.15, 1.0}
	}
	if cfg.PolarizationRange == ([2]float64{}) {
		cfg.PolarizationRange = [2]float64{0.0, math.Pi}
	}
	iAxis, err := optical.NewAxis(cfg.IntensityLevels, cfg.IntensityRange[0], cfg.IntensityRange[1])
	if err != nil {
		return nil, err
	}
	pAxis, err := optical.NewAxis(cfg.PolarizationStates, cfg.PolarizationRange[0], cfg.PolarizationRange[1])
	if err != nil {
		return nil, err
	}
	w, err := optical.NewWriter(optical.WriterConfig{
		Grid:             cfg.Grid,
		Pitch:            cfg.Pitch,
		IntensityAxis:    iAxis,
		PolarizationAxis: pAxis,
		ECC:              cfg.ECC,
	})
	if err != nil {
		return nil, err
	}
	return &Writer{w: w, scramble: cfg.Scramble, seed: cfg.ScrambleSeed}, nil
}

// Write scrambles (when enabled) and writes the payload.
func (h *Writer) Write(data []byte) (*optical.StoragePattern, error) {
	return h.w.Write(h.keystreamXOR(data))
}

// Verify reads the pattern back, descrambles, and returns the payload with
// the read diagnostics. Detected-but-uncorrectable counters do not fail the
// verify; callers decide what to do with them.
func (h *Writer) Verify(p *optical.StoragePattern) (*Readback, error) {
	res, err := optical.Read(p)
	if err != nil {
		return nil, fmt.Errorf("verify read: %w", err)
	}
	return &Readback{Data: h.keystreamXOR(res.Payload), Result: res}, nil
}

// keystreamXOR applies the scramble keystream; XOR makes it its own
// inverse, so write and verify share it.
func (h *Writer) keystreamXOR(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	if !h.scramble {
		return out
	}
	rng := rand.New(rand.NewSource(h.seed))
	key := make([]byte, len(out))
	rng.Read(key)
	for i := range out {
		out[i] ^= key[i]
	}
	return out
}
