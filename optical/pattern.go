package optical

// GridSize is the nx × ny × nz box of addressable voxel positions.
type GridSize struct {
	NX, NY, NZ int
}

// Volume returns the total number of addressable positions.
func (g GridSize) Volume() int { return g.NX * g.NY * g.NZ }

// VoxelPitch is the physical spacing between voxel centres, in micrometres.
// Pure metadata; it never influences encoding.
type VoxelPitch struct {
	PX, PY, PZ float64
}

// StoragePattern is the complete, self-describing record produced by a
// write and consumed by a read. It is logically immutable; the only
// sanctioned mutation between write and read is perturbation of voxel
// intensity and polarization by a noise model.
//
// The pattern carries the ECC scheme by name. Readers resolve the scheme
// through the registry, so a pattern deserialized on another host decodes
// identically as long as the scheme is registered there.
type StoragePattern struct {
	Voxels           []Voxel
	Grid             GridSize
	Pitch            VoxelPitch
	IntensityAxis    Axis
	PolarizationAxis Axis
	ECCName          string
	DataLengthBytes  int
	EncodedBitLength int
	PaddingBits      int
}

// BitsPerVoxel is the information content of one voxel across both axes.
func (p *StoragePattern) BitsPerVoxel() int {
	return p.IntensityAxis.Bits() + p.PolarizationAxis.Bits()
}

// CapacityBits is the raw bit capacity of the full lattice.
func (p *StoragePattern) CapacityBits() int {
	return p.Grid.Volume() * p.BitsPerVoxel()
}

// VoxelCount returns the number of populated voxels.
func (p *StoragePattern) VoxelCount() int { return len(p.Voxels) }

// CoordinatesForIndex maps a voxel index to lattice coordinates, x fastest,
// then y, then z. This mapping is the single source of truth for ordering;
// writer and reader both derive coordinates from it and nothing else.
func (g GridSize) CoordinatesForIndex(i int) (x, y, z int) {
	plane := g.NX * g.NY
	z = i / plane
	rem := i % plane
	y = rem / g.NX
	x = rem % g.NX
	return x, y, z
}

// Validate re-checks every structural invariant a written pattern must
// satisfy. The reader calls it before trusting anything else in the record;
// any violation is reported as ErrCorruptPattern.
func (p *StoragePattern) Validate() error {
	if err := ValidateGrid(p.Grid); err != nil {
		return corrupt(err)
	}
	if err := ValidatePitch(p.Pitch); err != nil {
		return corrupt(err)
	}
	for _, a := range [2]Axis{p.IntensityAxis, p.PolarizationAxis} {
		if err := ValidatePowerOfTwo(a.Levels); err != nil {
			return corrupt(err)
		}
		if err := ValidateRange(a.Lo, a.Hi); err != nil {
			return corrupt(err)
		}
	}
	bpv := p.BitsPerVoxel()
	if bpv < 1 {
		return corruptf("neither axis carries information")
	}
	if p.DataLengthBytes < 0 || p.EncodedBitLength < 0 {
		return corruptf("negative length metadata")
	}
	if p.PaddingBits < 0 || p.PaddingBits >= bpv {
		return corruptf("padding of %d bits cannot fill a %d-bit voxel boundary", p.PaddingBits, bpv)
	}
	if p.EncodedBitLength+p.PaddingBits != len(p.Voxels)*bpv {
		return corruptf("encoded %d + padding %d bits do not fill %d voxels of %d bits",
			p.EncodedBitLength, p.PaddingBits, len(p.Voxels), bpv)
	}
	if len(p.Voxels) > p.Grid.Volume() {
		return corruptf("%d voxels exceed lattice volume %d", len(p.Voxels), p.Grid.Volume())
	}
	for i, v := range p.Voxels {
		x, y, z := p.Grid.CoordinatesForIndex(i)
		if v.X != x || v.Y != y || v.Z != z {
			return corruptf("voxel %d reports (%d,%d,%d), lattice order demands (%d,%d,%d)",
				i, v.X, v.Y, v.Z, x, y, z)
		}
		if !isFinite(v.Intensity) || !isFinite(v.Polarization) {
			return corruptf("voxel %d carries a non-finite measurement", i)
		}
	}
	return nil
}
