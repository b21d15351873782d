package optical

// ReadResult is the outcome of a read. Nonzero diagnostic counters are not
// failures: a weak scheme reporting detected-but-uncorrectable blocks still
// yields its best-effort payload.
type ReadResult struct {
	Payload               []byte
	CorrectedErrors       int
	DetectedUncorrectable int
	VoxelsProcessed       int
}

// Read reconstructs the payload from a pattern whose voxel values may have
// been perturbed since the write. Every invariant is revalidated first;
// nothing in the record is trusted until it checks out.
func Read(p *StoragePattern) (*ReadResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	scheme, err := Lookup(p.ECCName)
	if err != nil {
		return nil, err
	}
	if p.DataLengthBytes > 0 && scheme.EncodedLen(p.DataLengthBytes*8) > p.EncodedBitLength {
		return nil, corruptf("%d payload bytes cannot fit in %d encoded bits under %s",
			p.DataLengthBytes, p.EncodedBitLength, p.ECCName)
	}

	iBits := p.IntensityAxis.Bits()
	pBits := p.PolarizationAxis.Bits()
	stream := make([]byte, 0, len(p.Voxels)*(iBits+pBits))
	for _, v := range p.Voxels {
		if iBits > 0 {
			stream = UintToBits(stream, uint64(p.IntensityAxis.PhysicalToLevel(v.Intensity)), iBits)
		}
		if pBits > 0 {
			stream = UintToBits(stream, uint64(p.PolarizationAxis.PhysicalToLevel(v.Polarization)), pBits)
		}
	}
	stream = stream[:p.EncodedBitLength]

	decoded, err := scheme.Decode(stream)
	if err != nil {
		return nil, corrupt(err)
	}
	dataBits := p.DataLengthBytes * 8
	if len(decoded.Bits) < dataBits {
		return nil, corruptf("decoded %d bits, payload needs %d", len(decoded.Bits), dataBits)
	}
	payload, err := BitsToBytes(decoded.Bits[:dataBits])
	if err != nil {
		return nil, corrupt(err)
	}

	return &ReadResult{
		Payload:               payload,
		CorrectedErrors:       decoded.CorrectedErrors,
		DetectedUncorrectable: decoded.DetectedUncorrectable,
		VoxelsProcessed:       len(p.Voxels),
	}, nil
}
