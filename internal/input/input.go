// Package input synthesizes mouse movement and clicks.
package input

import (
	"blob-clicker/pkg/geometry"

	"github.com/go-vgo/robotgo"
)

// Actuator issues a pointer move followed by a left click. Clicking is
// fire-and-forget; a rejected event is reported but never fatal.
type Actuator interface {
	Click(p geometry.PointInt) error
}

// Mouse is the robotgo-backed Actuator.
type Mouse struct {
	// OffsetY is added to every click's Y coordinate. Blobs read a few
	// pixels taller than their visual center, so a small positive
	// offset lands the click on the body of the blob.
	OffsetY int
}

// NewMouse returns a Mouse with the given Y offset.
func NewMouse(offsetY int) *Mouse {
	return &Mouse{OffsetY: offsetY}
}

// Click moves the pointer to p (screen coordinates) and left-clicks.
func (m *Mouse) Click(p geometry.PointInt) error {
	robotgo.Move(p.X, p.Y+m.OffsetY)
	robotgo.Click("left")
	return nil
}
