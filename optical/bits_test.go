package optical

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestBitsRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		data := make([]byte, r.Intn(256))
		r.Read(data)
		bits := BytesToBits(data)
		if len(bits) != len(data)*8 {
			t.Fatalf("expanded %d bytes to %d bits", len(data), len(bits))
		}
		back, err := BitsToBytes(bits)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(back, data) {
			t.Fatalf("round trip mismatch for %d bytes", len(data))
		}
	}
}

func TestBytesToBitsMSBFirst(t *testing.T) {
	bits := BytesToBits([]byte{0xA5})
	want := []byte{1, 0, 1, 0, 0, 1, 0, 1}
	if !bytes.Equal(bits, want) {
		t.Fatalf("0xA5 expanded to %v, want %v", bits, want)
	}
}

func TestBitsToBytesMisaligned(t *testing.T) {
	if _, err := BitsToBytes(make([]byte, 7)); !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
}

func TestUintBitsRoundTrip(t *testing.T) {
	for width := 0; width <= 12; width++ {
		for v := uint64(0); v < 1<<uint(width); v++ {
			bits := UintToBits(nil, v, width)
			if len(bits) != width {
				t.Fatalf("width %d produced %d bits", width, len(bits))
			}
			if got := BitsToUint(bits); got != v {
				t.Fatalf("width %d value %d round-tripped to %d", width, v, got)
			}
		}
	}
}
