package noise

import (
	"math/rand"

	"github.com/glasslab/optical5d/optical"
)

// The flip channels operate on the encoded bit stream rather than on raw
// physical values: they recover each voxel's levels, flip the requested
// stream bits, and re-emit the voxels at the exact level centres. This
// gives tests and evaluations precise control over how many errors each ECC
// block sees.

// FlipBits returns a copy of the pattern with the encoded-stream bits at
// the given positions inverted. Positions at or beyond the encoded length
// are ignored (padding is never touched).
func FlipBits(p *optical.StoragePattern, positions ...int) *optical.StoragePattern {
	stream := levelStream(p)
	for _, pos := range positions {
		if pos >= 0 && pos < p.EncodedBitLength {
			stream[pos] ^= 0x1
		}
	}
	return emit(p, stream)
}

// FlipOnePerBlock flips one uniformly chosen bit in every full blockBits
// sized block of the encoded stream. With blockBits equal to a scheme's
// encoded block size this injects exactly the error load a single-error
// correcting code is specified to absorb.
func FlipOnePerBlock(p *optical.StoragePattern, blockBits int, seed int64) *optical.StoragePattern {
	rng := rand.New(rand.NewSource(seed))
	stream := levelStream(p)
	for start := 0; start+blockBits <= p.EncodedBitLength; start += blockBits {
		stream[start+rng.Intn(blockBits)] ^= 0x1
	}
	return emit(p, stream)
}

// FlipBernoulli inverts each encoded bit independently with probability
// prob, in the manner of a binary symmetric channel.
func FlipBernoulli(p *optical.StoragePattern, prob float64, seed int64) *optical.StoragePattern {
	rng := rand.New(rand.NewSource(seed))
	stream := levelStream(p)
	for i := 0; i < p.EncodedBitLength; i++ {
		if prob >= 1 || (prob > 0 && rng.Float64() < prob) {
			stream[i] ^= 0x1
		}
	}
	return emit(p, stream)
}

// levelStream reads the padded bit stream back out of the voxel list, the
// same walk the reader performs.
func levelStream(p *optical.StoragePattern) []byte {
	iBits := p.IntensityAxis.Bits()
	pBits := p.PolarizationAxis.Bits()
	stream := make([]byte, 0, len(p.Voxels)*(iBits+pBits))
	for _, v := range p.Voxels {
		if iBits > 0 {
			stream = optical.UintToBits(stream, uint64(p.IntensityAxis.PhysicalToLevel(v.Intensity)), iBits)
		}
		if pBits > 0 {
			stream = optical.UintToBits(stream, uint64(p.PolarizationAxis.PhysicalToLevel(v.Polarization)), pBits)
		}
	}
	return stream
}

// emit re-quantises a bit stream onto a fresh voxel list with the same
// coordinates as the source pattern.
func emit(p *optical.StoragePattern, stream []byte) *optical.StoragePattern {
	out := clone(p)
	iBits := p.IntensityAxis.Bits()
	bpv := p.BitsPerVoxel()
	for i := range out.Voxels {
		chunk := stream[i*bpv : (i+1)*bpv]
		iLevel := int(optical.BitsToUint(chunk[:iBits]))
		pLevel := int(optical.BitsToUint(chunk[iBits:]))
		iVal, _ := p.IntensityAxis.LevelToPhysical(iLevel)
		pVal, _ := p.PolarizationAxis.LevelToPhysical(pLevel)
		out.Voxels[i].Intensity = iVal
		out.Voxels[i].Polarization = pVal
	}
	return out
}
