package cpix

import (
	"math/rand"
	"testing"
)

func TestColorFilters_Bijective(t *testing.T) {
	corners := [][3]uint8{
		{0, 0, 0}, {255, 255, 255},
		{255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{128, 128, 128}, {127, 128, 129},
		{1, 254, 127}, {200, 100, 50},
	}

	rng := rand.New(rand.NewSource(7))
	triples := make([][3]uint8, 0, len(corners)+4096)
	triples = append(triples, corners...)
	for range 4096 {
		triples = append(triples, [3]uint8{
			uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)),
		})
	}

	for cf := range colorFilters {
		f := &colorFilters[cf]
		t.Run(f.name, func(t *testing.T) {
			for _, tr := range triples {
				y, u, v := f.forward(tr[0], tr[1], tr[2])
				r, g, b := f.inverse(y, u, v)
				if r != tr[0] || g != tr[1] || b != tr[2] {
					t.Fatalf("round trip (%d,%d,%d) -> (%d,%d,%d) -> (%d,%d,%d)",
						tr[0], tr[1], tr[2], y, u, v, r, g, b)
				}
			}
		})
	}
}

func TestColorFilters_Identity(t *testing.T) {
	y, u, v := colorFilters[1].forward(12, 34, 56)
	if y != 12 || u != 34 || v != 56 {
		t.Errorf("identity forward = (%d,%d,%d), want (12,34,56)", y, u, v)
	}
}

func TestSpatialFilters_Populated(t *testing.T) {
	for i, sf := range spatialFilters {
		if sf.predict == nil {
			t.Errorf("spatial filter %d (%q) has nil predictor", i, sf.name)
		}
		if sf.name == "" {
			t.Errorf("spatial filter %d has empty name", i)
		}
	}
}

func TestPaeth(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c uint8
		want    uint8
	}{
		{"all equal", 10, 10, 10, 10},
		{"prefers left", 5, 10, 10, 5},
		{"prefers up", 10, 5, 10, 5},
		{"gradient", 100, 110, 100, 110},
		{"edge wrap guard", 255, 0, 255, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paeth(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("paeth(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestClampedGrad(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c uint8
		want    uint8
	}{
		{"in range", 10, 20, 15, 15},
		{"clamps low", 10, 20, 40, 10},
		{"clamps high", 10, 20, 0, 20},
		{"swapped bounds", 20, 10, 0, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampedGrad(tt.a, tt.b, tt.c); got != tt.want {
				t.Errorf("clampedGrad(%d,%d,%d) = %d, want %d", tt.a, tt.b, tt.c, got, tt.want)
			}
		})
	}
}

func TestPredictRGB_ZeroSubstitution(t *testing.T) {
	// 2x2 image, every channel distinct
	pix := []byte{
		10, 11, 12, 255, 20, 21, 22, 255,
		30, 31, 32, 255, 40, 41, 42, 255,
	}

	sfLeft, sfUp, sfUpRight := 0, 1, 3

	// top-left pixel has no neighbors at all
	if r, g, b := predictRGB(pix, 0, 0, 2, sfLeft); r != 0 || g != 0 || b != 0 {
		t.Errorf("left predictor at origin = (%d,%d,%d), want zeros", r, g, b)
	}
	if r, g, b := predictRGB(pix, 0, 0, 2, sfUp); r != 0 || g != 0 || b != 0 {
		t.Errorf("up predictor at origin = (%d,%d,%d), want zeros", r, g, b)
	}

	// left neighbor present on second column
	if r, g, b := predictRGB(pix, 1, 0, 2, sfLeft); r != 10 || g != 11 || b != 12 {
		t.Errorf("left predictor at (1,0) = (%d,%d,%d), want (10,11,12)", r, g, b)
	}

	// up neighbor present on second row
	if r, g, b := predictRGB(pix, 0, 1, 2, sfUp); r != 10 || g != 11 || b != 12 {
		t.Errorf("up predictor at (0,1) = (%d,%d,%d), want (10,11,12)", r, g, b)
	}

	// up-right falls outside on the last column
	if r, g, b := predictRGB(pix, 1, 1, 2, sfUpRight); r != 0 || g != 0 || b != 0 {
		t.Errorf("upright predictor at (1,1) = (%d,%d,%d), want zeros", r, g, b)
	}
}
