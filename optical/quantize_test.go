package optical

import (
	"errors"
	"math"
	"testing"
)

func TestQuantiserRoundTrip(t *testing.T) {
	ranges := [][2]float64{{0, 1}, {0.15, 1.0}, {-2.5, 3.5}, {0, math.Pi}}
	for _, levels := range []int{1, 2, 4, 8, 16, 64, 256} {
		for _, r := range ranges {
			axis, err := NewAxis(levels, r[0], r[1])
			if err != nil {
				t.Fatal(err)
			}
			for k := 0; k < levels; k++ {
				v, err := axis.LevelToPhysical(k)
				if err != nil {
					t.Fatal(err)
				}
				if got := axis.PhysicalToLevel(v); got != k {
					t.Fatalf("L=%d range=%v: level %d -> %v -> %d", levels, r, k, v, got)
				}
			}
		}
	}
}

func TestQuantiserSingleLevel(t *testing.T) {
	axis, err := NewAxis(1, 0.25, 0.75)
	if err != nil {
		t.Fatal(err)
	}
	if axis.Bits() != 0 {
		t.Fatalf("L=1 carries %d bits", axis.Bits())
	}
	v, err := axis.LevelToPhysical(0)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0.25 {
		t.Fatalf("single level maps to %v, want lo", v)
	}
	if axis.PhysicalToLevel(123.0) != 0 {
		t.Fatal("single level axis must always quantise to 0")
	}
}

func TestQuantiserClamping(t *testing.T) {
	axis, _ := NewAxis(4, 0.0, 0.75)
	if got := axis.PhysicalToLevel(-10); got != 0 {
		t.Fatalf("below-range value quantised to %d", got)
	}
	if got := axis.PhysicalToLevel(10); got != 3 {
		t.Fatalf("above-range value quantised to %d", got)
	}
}

func TestQuantiserRoundsHalfAwayFromZero(t *testing.T) {
	// Step is 0.25; 0.125 sits exactly between levels 0 and 1 and must go
	// up, not to the even neighbour.
	axis, _ := NewAxis(4, 0.0, 0.75)
	if got := axis.PhysicalToLevel(0.125); got != 1 {
		t.Fatalf("boundary value quantised to %d, want 1", got)
	}
	if got := axis.PhysicalToLevel(0.625); got != 3 {
		t.Fatalf("boundary value quantised to %d, want 3", got)
	}
}

func TestNewAxisRejectsBadInput(t *testing.T) {
	cases := []struct {
		levels int
		lo, hi float64
	}{
		{3, 0, 1},
		{0, 0, 1},
		{-4, 0, 1},
		{4, 1, 0},
		{4, 1, 1},
		{4, math.NaN(), 1},
		{4, 0, math.Inf(1)},
	}
	for _, c := range cases {
		if _, err := NewAxis(c.levels, c.lo, c.hi); !errors.Is(err, ErrInvalidParameter) {
			t.Fatalf("NewAxis(%d, %v, %v): expected ErrInvalidParameter, got %v", c.levels, c.lo, c.hi, err)
		}
	}
}
