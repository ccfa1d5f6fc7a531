package colorutil

import (
	"math"
	"testing"
)

func TestRGBToHSVPrimaries(t *testing.T) {
	cases := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 255, 255, 255, 0, 0, 255},
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"mid gray", 128, 128, 128, 0, 0, 128},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tc.r, tc.g, tc.b)
			if math.Abs(h-tc.h) > 0.5 || math.Abs(s-tc.s) > 0.5 || math.Abs(v-tc.v) > 0.5 {
				t.Fatalf("got (%.1f, %.1f, %.1f), want (%.1f, %.1f, %.1f)", h, s, v, tc.h, tc.s, tc.v)
			}
		})
	}
}

func TestHSVRangeContains(t *testing.T) {
	r := HSVRange{Lower: HSV{H: 40, S: 50, V: 50}, Upper: HSV{H: 80, S: 255, V: 255}}

	if !r.Contains(HSV{H: 60, S: 100, V: 100}) {
		t.Fatalf("interior point must be contained")
	}
	// Bounds are inclusive.
	if !r.Contains(HSV{H: 40, S: 50, V: 50}) || !r.Contains(HSV{H: 80, S: 255, V: 255}) {
		t.Fatalf("boundary points must be contained")
	}
	if r.Contains(HSV{H: 39.9, S: 100, V: 100}) {
		t.Fatalf("point below hue bound must not be contained")
	}
}

func TestHSVRangeOverlaps(t *testing.T) {
	a := HSVRange{Lower: HSV{H: 40, S: 50, V: 50}, Upper: HSV{H: 80, S: 255, V: 255}}
	b := HSVRange{Lower: HSV{H: 160, S: 50, V: 50}, Upper: HSV{H: 180, S: 255, V: 255}}
	if a.Overlaps(b) || b.Overlaps(a) {
		t.Fatalf("hue-disjoint ranges must not overlap")
	}

	// Sharing a single boundary color counts as overlap.
	c := HSVRange{Lower: HSV{H: 80, S: 50, V: 50}, Upper: HSV{H: 120, S: 255, V: 255}}
	if !a.Overlaps(c) {
		t.Fatalf("ranges sharing an inclusive bound overlap")
	}

	// Disjoint on saturation alone.
	d := HSVRange{Lower: HSV{H: 40, S: 0, V: 50}, Upper: HSV{H: 80, S: 49, V: 255}}
	if a.Overlaps(d) {
		t.Fatalf("saturation-disjoint ranges must not overlap")
	}
}

func TestHSVRangeValid(t *testing.T) {
	good := HSVRange{Lower: HSV{H: 0, S: 0, V: 0}, Upper: HSV{H: 180, S: 255, V: 255}}
	if !good.Valid() {
		t.Fatalf("full-space range must be valid")
	}
	inverted := HSVRange{Lower: HSV{H: 100}, Upper: HSV{H: 50, S: 255, V: 255}}
	if inverted.Valid() {
		t.Fatalf("inverted range must be invalid")
	}
	outOfSpace := HSVRange{Lower: HSV{H: 0}, Upper: HSV{H: 200, S: 255, V: 255}}
	if outOfSpace.Valid() {
		t.Fatalf("hue above 180 must be invalid")
	}
}
