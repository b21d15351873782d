// Package erasure wraps systematic RaptorQ as a symbol-erasure baseline for
// channel evaluations. Bit-level ECC schemes in the codec absorb value
// noise inside surviving voxels; a fountain code instead absorbs wholesale
// loss of read planes. Comparing the two on the same payload puts the
// codec's correction numbers in context.
package erasure

import (
	"bytes"
	"errors"

	rqq "github.com/xssnick/raptorq"
)

// Symbol is one fountain-coded unit: systematic for ID < K, repair above.
type Symbol struct {
	ID   uint32
	Data []byte
}

// EncodeSymbols fountain-codes the payload into n symbols of symbolLen
// bytes. The first ceil(len(payload)/symbolLen) symbols are systematic; the
// library pads the last source symbol internally.
func EncodeSymbols(payload []byte, n, symbolLen int) ([]Symbol, error) {
	if n <= 0 || symbolLen <= 0 {
		return nil, errors.New("bad symbol count or length")
	}
	rq := rqq.NewRaptorQ(uint32(symbolLen))
	enc, err := rq.CreateEncoder(payload)
	if err != nil {
		return nil, err
	}
	if int(enc.BaseSymbolsNum()) > n {
		return nil, errors.New("symbol budget below source symbol count")
	}
	out := make([]Symbol, n)
	for i := 0; i < n; i++ {
		out[i] = Symbol{ID: uint32(i), Data: enc.GenSymbol(uint32(i))}
	}
	return out, nil
}

// DecodeSymbols reconstructs a payload of payloadLen bytes from whatever
// symbols survived the channel. ok is false when too few arrived.
func DecodeSymbols(received []Symbol, payloadLen, symbolLen int) ([]byte, bool) {
	if payloadLen < 0 || symbolLen <= 0 {
		return nil, false
	}
	rq := rqq.NewRaptorQ(uint32(symbolLen))
	dec, err := rq.CreateDecoder(uint32(payloadLen))
	if err != nil {
		return nil, false
	}
	for _, s := range received {
		if s.Data == nil {
			continue
		}
		if _, err := dec.AddSymbol(s.ID, s.Data); err != nil {
			// A malformed symbol is just another erasure.
			continue
		}
	}
	ok, payload, err := dec.Decode()
	if err != nil || !ok {
		return nil, false
	}
	return payload, true
}

// RoundTrip encodes the payload, erases the symbols whose index appears in
// lost, and reports whether decoding still recovers the payload exactly.
func RoundTrip(payload []byte, n, symbolLen int, lost map[int]bool) (bool, error) {
	symbols, err := EncodeSymbols(payload, n, symbolLen)
	if err != nil {
		return false, err
	}
	received := symbols[:0:0]
	for i, s := range symbols {
		if lost[i] {
			continue
		}
		received = append(received, s)
	}
	decoded, ok := DecodeSymbols(received, len(payload), symbolLen)
	return ok && bytes.Equal(decoded, payload), nil
}
