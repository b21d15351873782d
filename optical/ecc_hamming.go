package optical

import "fmt"

// Hamming74 is the classic (7,4) Hamming code: 4 raw bits per block, 7
// encoded bits, single-bit correction per block.
//
// Codeword layout is 1-indexed with parity at positions 1, 2, 4 and data at
// 3, 5, 6, 7, so a block reads p1 p2 d1 p3 d2 d3 d4. Parity p_k covers the
// positions whose 1-indexed position has bit k set. A double-bit error can
// land on a valid syndrome and be silently miscorrected; the scheme cannot
// tell, so DetectedUncorrectable stays zero.
type Hamming74 struct{}

func (Hamming74) Name() string { return "hamming74" }

func (Hamming74) Encode(bits []byte) ([]byte, error) {
	if len(bits)%4 != 0 {
		return nil, fmt.Errorf("%w: hamming74 encode input of %d bits is not a multiple of 4", ErrInvalidLength, len(bits))
	}
	encoded := make([]byte, 0, len(bits)/4*7)
	for i := 0; i < len(bits); i += 4 {
		d1 := bits[i] & 0x1
		d2 := bits[i+1] & 0x1
		d3 := bits[i+2] & 0x1
		d4 := bits[i+3] & 0x1
		p1 := d1 ^ d2 ^ d4
		p2 := d1 ^ d3 ^ d4
		p3 := d2 ^ d3 ^ d4
		encoded = append(encoded, p1, p2, d1, p3, d2, d3, d4)
	}
	return encoded, nil
}

func (Hamming74) Decode(bits []byte) (DecodingResult, error) {
	if len(bits)%7 != 0 {
		return DecodingResult{}, fmt.Errorf("%w: hamming74 decode input of %d bits is not a multiple of 7", ErrInvalidLength, len(bits))
	}
	var block [7]byte
	res := DecodingResult{Bits: make([]byte, 0, len(bits)/7*4)}
	for i := 0; i < len(bits); i += 7 {
		for j := 0; j < 7; j++ {
			block[j] = bits[i+j] & 0x1
		}
		s1 := block[0] ^ block[2] ^ block[4] ^ block[6]
		s2 := block[1] ^ block[2] ^ block[5] ^ block[6]
		s3 := block[3] ^ block[4] ^ block[5] ^ block[6]
		if syndrome := int(s3)<<2 | int(s2)<<1 | int(s1); syndrome != 0 {
			block[syndrome-1] ^= 0x1
			res.CorrectedErrors++
		}
		res.Bits = append(res.Bits, block[2], block[4], block[5], block[6])
	}
	return res, nil
}

func (Hamming74) EncodedLen(rawBits int) int { return (rawBits + 3) / 4 * 7 }
