package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glasslab/optical5d/noise"
	"github.com/glasslab/optical5d/optical"
)

func TestHostRoundTripNoNoise(t *testing.T) {
	hw, err := New(Config{Grid: optical.GridSize{NX: 8, NY: 8, NZ: 2}})
	require.NoError(t, err)

	data := []byte("hello host writer")
	p, err := hw.Write(data)
	require.NoError(t, err)

	rb, err := hw.Verify(p)
	require.NoError(t, err)
	require.Equal(t, data, rb.Data)
	require.Zero(t, rb.Result.DetectedUncorrectable)
}

func TestHostScrambleChangesStoredLevelsOnly(t *testing.T) {
	data := []byte("\x00\x00\x00\x00\x00\x00\x00\x00")
	plain, err := New(Config{Grid: optical.GridSize{NX: 16, NY: 16, NZ: 2}})
	require.NoError(t, err)
	scrambled, err := New(Config{
		Grid:         optical.GridSize{NX: 16, NY: 16, NZ: 2},
		Scramble:     true,
		ScrambleSeed: 12345,
	})
	require.NoError(t, err)

	pp, err := plain.Write(data)
	require.NoError(t, err)
	sp, err := scrambled.Write(data)
	require.NoError(t, err)
	require.NotEqual(t, pp.Voxels, sp.Voxels, "keystream left an all-zero payload unchanged")

	rb, err := scrambled.Verify(sp)
	require.NoError(t, err)
	require.Equal(t, data, rb.Data)
}

func TestHostVerifyAfterNoise(t *testing.T) {
	hw, err := New(Config{
		Grid:               optical.GridSize{NX: 8, NY: 8, NZ: 2},
		IntensityLevels:    8,
		PolarizationStates: 8,
		Scramble:           true,
		ScrambleSeed:       77,
	})
	require.NoError(t, err)

	data := []byte("noisy pipeline")
	p, err := hw.Write(data)
	require.NoError(t, err)

	noisy := noise.Gaussian(p, 0.002, 0.002, 123)
	rb, err := hw.Verify(noisy)
	require.NoError(t, err)
	require.Equal(t, data, rb.Data)
}

func TestHostCapacityGuard(t *testing.T) {
	hw, err := New(Config{
		Grid:               optical.GridSize{NX: 2, NY: 2, NZ: 1},
		IntensityLevels:    2,
		PolarizationStates: 2,
	})
	require.NoError(t, err)
	_, err = hw.Write(make([]byte, 1024))
	require.ErrorIs(t, err, optical.ErrCapacityExceeded)
}
