// Package decide selects which detected targets are safe to click.
//
// A target is safe only when its centroid is strictly farther than the
// exclusion radius from every hazard in the frame: a target at exactly
// the exclusion distance is unsafe. The returned order is deterministic
// (target priority, then top-to-bottom, then left-to-right), and the
// caller acts on every safe target in that order, once per frame.
package decide

import (
	"blob-clicker/internal/classify"
)

// SafeTargets returns the target-class detections whose distance to
// every hazard exceeds minHazardDistance. An empty input, or an input
// with no surviving targets, yields an empty result; neither is an
// error. Hazards never appear in the output.
func SafeTargets(detections []classify.Detection, minHazardDistance float64) []classify.Detection {
	var targets, hazards []classify.Detection
	for _, d := range detections {
		switch {
		case d.IsTarget():
			targets = append(targets, d)
		case d.IsHazard():
			hazards = append(hazards, d)
		}
	}

	var safe []classify.Detection
	for _, t := range targets {
		if clearOfHazards(t, hazards, minHazardDistance) {
			safe = append(safe, t)
		}
	}

	classify.Sort(safe)
	return safe
}

// clearOfHazards checks the target against every hazard, not just the
// nearest one.
func clearOfHazards(t classify.Detection, hazards []classify.Detection, minDistance float64) bool {
	for _, h := range hazards {
		if t.Centroid.Distance(h.Centroid) <= minDistance {
			return false
		}
	}
	return true
}
