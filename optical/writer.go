package optical

import "fmt"

// DefaultMemoryBudgetBytes bounds the transient allocations of a single
// write. The estimate is voxelMemBytes per voxel plus two bytes per stream
// bit, so a full 1 MiB payload fits the 64 MiB default only on a dense
// lattice with no ECC (7 bits per voxel fits); hamming74 at that payload
// size exceeds it even at 7 bits per voxel.
const DefaultMemoryBudgetBytes = 64 << 20

// voxelMemBytes is the in-memory footprint of one Voxel, used for the
// budget estimate before anything is allocated.
const voxelMemBytes = 40

// WriterConfig bundles everything a write needs: geometry, the two
// quantisation axes, and the ECC scheme.
type WriterConfig struct {
	Grid             GridSize
	Pitch            VoxelPitch
	IntensityAxis    Axis
	PolarizationAxis Axis
	// ECC defaults to Hamming74 when nil.
	ECC Scheme
	// MaxPayloadBytes defaults to MaxPayloadBytes when zero.
	MaxPayloadBytes int
	// MemoryBudgetBytes defaults to DefaultMemoryBudgetBytes when zero.
	MemoryBudgetBytes int
}

// Writer translates byte payloads into voxel lattices. It is a pure
// function of its configuration: the same payload always yields the same
// pattern.
type Writer struct {
	grid         GridSize
	pitch        VoxelPitch
	intensity    Axis
	polarization Axis
	ecc          Scheme
	maxPayload   int
	memBudget    int
}

// NewWriter validates the configuration up front so that Write can only
// fail on payload-dependent conditions.
func NewWriter(cfg WriterConfig) (*Writer, error) {
	if err := ValidateGrid(cfg.Grid); err != nil {
		return nil, err
	}
	if err := ValidatePitch(cfg.Pitch); err != nil {
		return nil, err
	}
	for _, a := range [2]Axis{cfg.IntensityAxis, cfg.PolarizationAxis} {
		if err := ValidatePowerOfTwo(a.Levels); err != nil {
			return nil, err
		}
		if err := ValidateRange(a.Lo, a.Hi); err != nil {
			return nil, err
		}
	}
	if cfg.IntensityAxis.Bits()+cfg.PolarizationAxis.Bits() < 1 {
		return nil, fmt.Errorf("%w: at least one axis must carry information", ErrInvalidParameter)
	}
	w := &Writer{
		grid:         cfg.Grid,
		pitch:        cfg.Pitch,
		intensity:    cfg.IntensityAxis,
		polarization: cfg.PolarizationAxis,
		ecc:          cfg.ECC,
		maxPayload:   cfg.MaxPayloadBytes,
		memBudget:    cfg.MemoryBudgetBytes,
	}
	if w.ecc == nil {
		w.ecc = Hamming74{}
	}
	if w.maxPayload <= 0 {
		w.maxPayload = MaxPayloadBytes
	}
	if w.memBudget <= 0 {
		w.memBudget = DefaultMemoryBudgetBytes
	}
	return w, nil
}

// BitsPerVoxel is the information content per voxel for this writer.
func (w *Writer) BitsPerVoxel() int {
	return w.intensity.Bits() + w.polarization.Bits()
}

// Write encodes data into a fully populated StoragePattern. Sizing happens
// before any allocation: oversized payloads fail with CapacityExceeded, not
// by exhausting memory.
func (w *Writer) Write(data []byte) (*StoragePattern, error) {
	if err := ValidatePayload(data, w.maxPayload); err != nil {
		return nil, err
	}
	rawBits := len(data) * 8
	encodedBits := 0
	if rawBits > 0 {
		encodedBits = w.ecc.EncodedLen(rawBits)
	}
	bpv := w.BitsPerVoxel()
	voxelCount := (encodedBits + bpv - 1) / bpv
	padding := voxelCount*bpv - encodedBits

	if voxelCount > w.grid.Volume() {
		return nil, fmt.Errorf("%w: payload needs %d voxels, lattice holds %d",
			ErrCapacityExceeded, voxelCount, w.grid.Volume())
	}
	if est := voxelCount*voxelMemBytes + 2*(encodedBits+padding); est > w.memBudget {
		return nil, fmt.Errorf("%w: write would allocate ~%d bytes, budget is %d",
			ErrCapacityExceeded, est, w.memBudget)
	}

	encoded, err := w.ecc.Encode(BytesToBits(data))
	if err != nil {
		return nil, err
	}
	if len(encoded) != encodedBits {
		return nil, fmt.Errorf("%w: scheme %s produced %d bits, sizing predicted %d",
			ErrInvalidLength, w.ecc.Name(), len(encoded), encodedBits)
	}
	stream := append(encoded, make([]byte, padding)...)

	iBits := w.intensity.Bits()
	voxels := make([]Voxel, 0, voxelCount)
	for i := 0; i < voxelCount; i++ {
		chunk := stream[i*bpv : (i+1)*bpv]
		iLevel := int(BitsToUint(chunk[:iBits]))
		pLevel := int(BitsToUint(chunk[iBits:]))
		iVal, err := w.intensity.LevelToPhysical(iLevel)
		if err != nil {
			return nil, err
		}
		pVal, err := w.polarization.LevelToPhysical(pLevel)
		if err != nil {
			return nil, err
		}
		x, y, z := w.grid.CoordinatesForIndex(i)
		v, err := NewVoxel(x, y, z, iVal, pVal)
		if err != nil {
			return nil, err
		}
		voxels = append(voxels, v)
	}

	return &StoragePattern{
		Voxels:           voxels,
		Grid:             w.grid,
		Pitch:            w.pitch,
		IntensityAxis:    w.intensity,
		PolarizationAxis: w.polarization,
		ECCName:          w.ecc.Name(),
		DataLengthBytes:  len(data),
		EncodedBitLength: encodedBits,
		PaddingBits:      padding,
	}, nil
}
