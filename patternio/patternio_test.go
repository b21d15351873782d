package patternio

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/glasslab/optical5d/optical"
)

func writePattern(t *testing.T) *optical.StoragePattern {
	t.Helper()
	iAxis, err := optical.NewAxis(4, 0.1, 0.9)
	require.NoError(t, err)
	pAxis, err := optical.NewAxis(4, 0.0, math.Pi)
	require.NoError(t, err)
	w, err := optical.NewWriter(optical.WriterConfig{
		Grid:             optical.GridSize{NX: 8, NY: 8, NZ: 1},
		Pitch:            optical.VoxelPitch{PX: 5.0, PY: 5.0, PZ: 15.0},
		IntensityAxis:    iAxis,
		PolarizationAxis: pAxis,
		ECC:              optical.Hamming74{},
	})
	require.NoError(t, err)
	p, err := w.Write([]byte("SerializeMe"))
	require.NoError(t, err)
	return p
}

func TestJSONRoundTrip(t *testing.T) {
	p := writePattern(t)
	data, err := MarshalPattern(p)
	require.NoError(t, err)

	restored, err := UnmarshalPattern(data)
	require.NoError(t, err)
	require.Equal(t, p, restored)

	// The restored pattern still reads cleanly.
	res, err := optical.Read(restored)
	require.NoError(t, err)
	require.Equal(t, []byte("SerializeMe"), res.Payload)
}

func TestJSONFieldNames(t *testing.T) {
	data, err := MarshalPattern(writePattern(t))
	require.NoError(t, err)
	for _, key := range []string{
		`"grid_size"`, `"voxel_pitch"`, `"intensity_range"`, `"polarization_range"`,
		`"intensity_levels"`, `"polarization_states"`, `"error_correction"`,
		`"data_length_bytes"`, `"encoded_bit_length"`, `"padding_bits"`, `"voxels"`,
	} {
		require.True(t, bytes.Contains(data, []byte(key)), "missing %s", key)
	}
}

func TestUnmarshalRejectsShortGeometry(t *testing.T) {
	_, err := UnmarshalPattern([]byte(`{"grid_size":[8,8]}`))
	require.Error(t, err)
}

func TestUnmarshalRejectsMalformedVoxelRow(t *testing.T) {
	_, err := UnmarshalPattern([]byte(`{
		"grid_size":[1,1,1],"voxel_pitch":[1,1,1],
		"intensity_range":[0,1],"polarization_range":[0,1],
		"intensity_levels":2,"polarization_states":1,
		"error_correction":"none",
		"data_length_bytes":0,"encoded_bit_length":1,"padding_bits":0,
		"voxels":[[0,0,0,0.5]]}`))
	require.Error(t, err)
}

func TestContainerRoundTrip(t *testing.T) {
	p := writePattern(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, p))

	restored, err := ReadFrom(&buf)
	require.NoError(t, err)
	require.Equal(t, p, restored)
}

func TestContainerRejectsCorruptBody(t *testing.T) {
	p := writePattern(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, p))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF
	_, err := ReadFrom(bytes.NewReader(raw))
	require.ErrorContains(t, err, "digest")
}

func TestContainerRejectsBadMagic(t *testing.T) {
	p := writePattern(t)
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, p))

	raw := buf.Bytes()
	raw[0] = 'X'
	_, err := ReadFrom(bytes.NewReader(raw))
	require.ErrorContains(t, err, "magic")
}
