package classify

import (
	"sort"

	"blob-clicker/internal/config"
	"blob-clicker/pkg/geometry"
)

// Detection is one classified blob: its color class, role, centroid in
// region-local pixel coordinates, and pixel area. Detections are produced
// fresh each frame and never persisted.
type Detection struct {
	Class    string           `json:"class"`
	Role     config.Role      `json:"role"`
	Priority int              `json:"priority"`
	Centroid geometry.Point2D `json:"centroid"`
	Area     float64          `json:"area"`
	Bounds   geometry.RectInt `json:"bounds"`
}

// IsTarget reports whether the detection belongs to a clickable class.
func (d Detection) IsTarget() bool { return d.Role == config.RoleTarget }

// IsHazard reports whether the detection belongs to a hazard class.
func (d Detection) IsHazard() bool { return d.Role == config.RoleHazard }

// blob is a raw connected component extracted from one color mask,
// before class bookkeeping and filtering.
type blob struct {
	Bounds geometry.RectInt
	Area   float64
}

// detectionsFromBlobs turns raw mask components into Detections for one
// declared color class, dropping components below the minimum pixel area
// and, for edge-banded classes, components whose centroid falls in the
// top or bottom band of the region.
func detectionsFromBlobs(cr config.ColorRange, blobs []blob, regionHeight int, minArea int, bandFraction float64) []Detection {
	var out []Detection
	for _, b := range blobs {
		if b.Area < float64(minArea) {
			continue
		}
		centroid := b.Bounds.Center()
		if cr.EdgeBand && inEdgeBand(centroid.Y, regionHeight, bandFraction) {
			continue
		}
		out = append(out, Detection{
			Class:    cr.Class,
			Role:     cr.Role,
			Priority: cr.Priority,
			Centroid: centroid,
			Area:     b.Area,
			Bounds:   b.Bounds,
		})
	}
	return out
}

// inEdgeBand reports whether a region-local Y coordinate lies inside the
// top or bottom exclusion band.
func inEdgeBand(y float64, regionHeight int, fraction float64) bool {
	if fraction <= 0 {
		return false
	}
	band := float64(regionHeight) * fraction
	return y < band || y > float64(regionHeight)-band
}

// Sort orders detections deterministically: target priority first, then
// top-to-bottom, then left-to-right by centroid. Identical frames always
// yield identically ordered results.
func Sort(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		a, b := dets[i], dets[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if a.Centroid.Y != b.Centroid.Y {
			return a.Centroid.Y < b.Centroid.Y
		}
		return a.Centroid.X < b.Centroid.X
	})
}
