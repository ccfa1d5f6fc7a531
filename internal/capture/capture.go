// Package capture grabs bitmap snapshots of the monitored screen region.
package capture

import (
	"fmt"
	"image"

	"github.com/kbinani/screenshot"
)

// Provider supplies one frame per call. The production implementation
// wraps the OS screen-capture facility; tests substitute their own.
type Provider interface {
	Grab() (*image.RGBA, error)
}

// Grabber captures a fixed screen rectangle.
type Grabber struct {
	bounds image.Rectangle
}

// NewGrabber returns a Grabber for the given screen rectangle.
func NewGrabber(bounds image.Rectangle) *Grabber {
	return &Grabber{bounds: bounds}
}

// Grab captures the rectangle and returns the frame. Failures are
// transient: the caller logs and retries on the next tick.
func (g *Grabber) Grab() (*image.RGBA, error) {
	img, err := screenshot.CaptureRect(g.bounds)
	if err != nil {
		return nil, fmt.Errorf("capture region %v: %w", g.bounds, err)
	}
	return img, nil
}
