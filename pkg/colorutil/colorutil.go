// Package colorutil provides shared color utilities for the blob clicker.
package colorutil

import (
	"image/color"
	"math"
)

// Overlay colors used by the region marker window.
var (
	Red         = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Transparent = color.RGBA{R: 0, G: 0, B: 0, A: 0}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0 // V in 0-255

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0 // S in 0-255
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // Convert to OpenCV's 0-180 range

	return h, s, v
}

// HSV is a single color in OpenCV HSV space (H 0-180, S 0-255, V 0-255).
type HSV struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// HSVRange is an inclusive HSV box used for in-range segmentation.
type HSVRange struct {
	Lower HSV `json:"lower"`
	Upper HSV `json:"upper"`
}

// Contains reports whether c falls inside the range, bounds included.
func (r HSVRange) Contains(c HSV) bool {
	return c.H >= r.Lower.H && c.H <= r.Upper.H &&
		c.S >= r.Lower.S && c.S <= r.Upper.S &&
		c.V >= r.Lower.V && c.V <= r.Upper.V
}

// Overlaps reports whether two ranges share any HSV color.
// Ranges used for different blob classes must be pairwise disjoint.
func (r HSVRange) Overlaps(other HSVRange) bool {
	return r.Lower.H <= other.Upper.H && r.Upper.H >= other.Lower.H &&
		r.Lower.S <= other.Upper.S && r.Upper.S >= other.Lower.S &&
		r.Lower.V <= other.Upper.V && r.Upper.V >= other.Lower.V
}

// Valid reports whether lower <= upper on every channel and all
// channels sit inside the OpenCV HSV value space.
func (r HSVRange) Valid() bool {
	if r.Lower.H > r.Upper.H || r.Lower.S > r.Upper.S || r.Lower.V > r.Upper.V {
		return false
	}
	return r.Lower.H >= 0 && r.Upper.H <= 180 &&
		r.Lower.S >= 0 && r.Upper.S <= 255 &&
		r.Lower.V >= 0 && r.Upper.V <= 255
}
