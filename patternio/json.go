// Package patternio projects storage patterns to and from a structural
// dictionary form for persistence. The projection is lossless: decoding an
// encoded pattern reproduces it field for field, voxel order included.
package patternio

import (
	"errors"
	"fmt"

	"github.com/francoispqt/gojay"

	"github.com/glasslab/optical5d/optical"
)

// patternDict is the dictionary projection of a StoragePattern. Field names
// are the stable external contract; the Go struct shape is not.
type patternDict struct {
	GridSize          intTriple
	VoxelPitch        floatTriple
	IntensityRange    floatPair
	PolarizationRange floatPair
	IntensityLevels   int
	PolarizationSt    int
	ErrorCorrection   string
	DataLengthBytes   int
	EncodedBitLength  int
	PaddingBits       int
	Voxels            voxelRows
}

// MarshalPattern encodes a pattern as its JSON dictionary projection.
func MarshalPattern(p *optical.StoragePattern) ([]byte, error) {
	d := &patternDict{
		GridSize:          intTriple{v: [3]int{p.Grid.NX, p.Grid.NY, p.Grid.NZ}, n: 3},
		VoxelPitch:        floatTriple{v: [3]float64{p.Pitch.PX, p.Pitch.PY, p.Pitch.PZ}, n: 3},
		IntensityRange:    floatPair{v: [2]float64{p.IntensityAxis.Lo, p.IntensityAxis.Hi}, n: 2},
		PolarizationRange: floatPair{v: [2]float64{p.PolarizationAxis.Lo, p.PolarizationAxis.Hi}, n: 2},
		IntensityLevels:   p.IntensityAxis.Levels,
		PolarizationSt:    p.PolarizationAxis.Levels,
		ErrorCorrection:   p.ECCName,
		DataLengthBytes:   p.DataLengthBytes,
		EncodedBitLength:  p.EncodedBitLength,
		PaddingBits:       p.PaddingBits,
		Voxels:            voxelRows(p.Voxels),
	}
	return gojay.MarshalJSONObject(d)
}

// UnmarshalPattern reconstructs a pattern from its dictionary projection.
// Structure is checked here; semantic invariants are the reader's job.
func UnmarshalPattern(data []byte) (*optical.StoragePattern, error) {
	d := &patternDict{}
	if err := gojay.UnmarshalJSONObject(data, d); err != nil {
		return nil, fmt.Errorf("decode pattern: %w", err)
	}
	if !d.GridSize.full() || !d.VoxelPitch.full() || !d.IntensityRange.full() || !d.PolarizationRange.full() {
		return nil, errors.New("decode pattern: incomplete geometry fields")
	}
	return &optical.StoragePattern{
		Voxels:           []optical.Voxel(d.Voxels),
		Grid:             optical.GridSize{NX: d.GridSize.v[0], NY: d.GridSize.v[1], NZ: d.GridSize.v[2]},
		Pitch:            optical.VoxelPitch{PX: d.VoxelPitch.v[0], PY: d.VoxelPitch.v[1], PZ: d.VoxelPitch.v[2]},
		IntensityAxis:    optical.Axis{Levels: d.IntensityLevels, Lo: d.IntensityRange.v[0], Hi: d.IntensityRange.v[1]},
		PolarizationAxis: optical.Axis{Levels: d.PolarizationSt, Lo: d.PolarizationRange.v[0], Hi: d.PolarizationRange.v[1]},
		ECCName:          d.ErrorCorrection,
		DataLengthBytes:  d.DataLengthBytes,
		EncodedBitLength: d.EncodedBitLength,
		PaddingBits:      d.PaddingBits,
	}, nil
}

func (d *patternDict) MarshalJSONObject(enc *gojay.Encoder) {
	enc.ArrayKey("grid_size", &d.GridSize)
	enc.ArrayKey("voxel_pitch", &d.VoxelPitch)
	enc.ArrayKey("intensity_range", &d.IntensityRange)
	enc.ArrayKey("polarization_range", &d.PolarizationRange)
	enc.IntKey("intensity_levels", d.IntensityLevels)
	enc.IntKey("polarization_states", d.PolarizationSt)
	enc.StringKey("error_correction", d.ErrorCorrection)
	enc.IntKey("data_length_bytes", d.DataLengthBytes)
	enc.IntKey("encoded_bit_length", d.EncodedBitLength)
	enc.IntKey("padding_bits", d.PaddingBits)
	enc.ArrayKey("voxels", &d.Voxels)
}

func (d *patternDict) IsNil() bool { return d == nil }

func (d *patternDict) UnmarshalJSONObject(dec *gojay.Decoder, key string) error {
	switch key {
	case "grid_size":
		return dec.Array(&d.GridSize)
	case "voxel_pitch":
		return dec.Array(&d.VoxelPitch)
	case "intensity_range":
		return dec.Array(&d.IntensityRange)
	case "polarization_range":
		return dec.Array(&d.PolarizationRange)
	case "intensity_levels":
		return dec.Int(&d.IntensityLevels)
	case "polarization_states":
		return dec.Int(&d.PolarizationSt)
	case "error_correction":
		return dec.String(&d.ErrorCorrection)
	case "data_length_bytes":
		return dec.Int(&d.DataLengthBytes)
	case "encoded_bit_length":
		return dec.Int(&d.EncodedBitLength)
	case "padding_bits":
		return dec.Int(&d.PaddingBits)
	case "voxels":
		return dec.Array(&d.Voxels)
	}
	return nil
}

func (d *patternDict) NKeys() int { return 0 }

// intTriple and floatTriple decode fixed-arity JSON arrays; n tracks how
// many elements arrived so short arrays are caught.
type intTriple struct {
	v [3]int
	n int
}

func (t *intTriple) full() bool { return t.n == 3 }

func (t *intTriple) MarshalJSONArray(enc *gojay.Encoder) {
	for _, v := range t.v {
		enc.Int(v)
	}
}

func (t *intTriple) IsNil() bool { return t == nil }

func (t *intTriple) UnmarshalJSONArray(dec *gojay.Decoder) error {
	if t.n >= 3 {
		return errors.New("triple has more than 3 elements")
	}
	if err := dec.Int(&t.v[t.n]); err != nil {
		return err
	}
	t.n++
	return nil
}

type floatTriple struct {
	v [3]float64
	n int
}

func (t *floatTriple) full() bool { return t.n == 3 }

func (t *floatTriple) MarshalJSONArray(enc *gojay.Encoder) {
	for _, v := range t.v {
		enc.Float64(v)
	}
}

func (t *floatTriple) IsNil() bool { return t == nil }

func (t *floatTriple) UnmarshalJSONArray(dec *gojay.Decoder) error {
	if t.n >= 3 {
		return errors.New("triple has more than 3 elements")
	}
	if err := dec.Float64(&t.v[t.n]); err != nil {
		return err
	}
	t.n++
	return nil
}

type floatPair struct {
	v [2]float64
	n int
}

func (t *floatPair) full() bool { return t.n == 2 }

func (t *floatPair) MarshalJSONArray(enc *gojay.Encoder) {
	for _, v := range t.v {
		enc.Float64(v)
	}
}

func (t *floatPair) IsNil() bool { return t == nil }

func (t *floatPair) UnmarshalJSONArray(dec *gojay.Decoder) error {
	if t.n >= 2 {
		return errors.New("pair has more than 2 elements")
	}
	if err := dec.Float64(&t.v[t.n]); err != nil {
		return err
	}
	t.n++
	return nil
}

// voxelRows encodes the voxel list as [x, y, z, intensity, polarization]
// rows, preserving order.
type voxelRows []optical.Voxel

func (rows *voxelRows) MarshalJSONArray(enc *gojay.Encoder) {
	for i := range *rows {
		enc.Array(&voxelRow{voxel: (*rows)[i]})
	}
}

func (rows *voxelRows) IsNil() bool { return rows == nil }

func (rows *voxelRows) UnmarshalJSONArray(dec *gojay.Decoder) error {
	row := &voxelRow{}
	if err := dec.Array(row); err != nil {
		return err
	}
	if row.n != 5 {
		return fmt.Errorf("voxel row has %d elements, want 5", row.n)
	}
	*rows = append(*rows, row.voxel)
	return nil
}

type voxelRow struct {
	voxel optical.Voxel
	n     int
}

func (r *voxelRow) MarshalJSONArray(enc *gojay.Encoder) {
	enc.Int(r.voxel.X)
	enc.Int(r.voxel.Y)
	enc.Int(r.voxel.Z)
	enc.Float64(r.voxel.Intensity)
	enc.Float64(r.voxel.Polarization)
}

func (r *voxelRow) IsNil() bool { return r == nil }

func (r *voxelRow) UnmarshalJSONArray(dec *gojay.Decoder) error {
	defer func() { r.n++ }()
	switch r.n {
	case 0:
		return dec.Int(&r.voxel.X)
	case 1:
		return dec.Int(&r.voxel.Y)
	case 2:
		return dec.Int(&r.voxel.Z)
	case 3:
		return dec.Float64(&r.voxel.Intensity)
	case 4:
		return dec.Float64(&r.voxel.Polarization)
	}
	return errors.New("voxel row has more than 5 elements")
}
