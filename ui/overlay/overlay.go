// Package overlay provides the translucent window outlining the
// monitored screen region.
package overlay

import (
	"errors"
	"fmt"
	"image"

	"blob-clicker/internal/config"
	"blob-clicker/pkg/colorutil"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/kbinani/screenshot"
)

// Border stroke width of the region marker, in pixels.
const borderWidth = 5

// Window is the non-interactive region marker.
type Window struct {
	win fyne.Window
}

// New builds a borderless always-on-top window with a transparent body
// and a red outline around the region. Splash windows cannot be moved
// to an absolute position, so the window spans the whole virtual screen
// and the outline is drawn at the region offset inside it.
func New(a fyne.App, region config.Region) (*Window, error) {
	drv, ok := a.Driver().(desktop.Driver)
	if !ok {
		return nil, fmt.Errorf("overlay requires a desktop driver")
	}

	screen, err := virtualScreen()
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	marker := markerBounds(region, screen)

	rect := canvas.NewRectangle(colorutil.Transparent)
	rect.StrokeColor = colorutil.Red
	rect.StrokeWidth = borderWidth
	rect.Resize(fyne.NewSize(float32(marker.Dx()), float32(marker.Dy())))
	rect.Move(fyne.NewPos(float32(marker.Min.X), float32(marker.Min.Y)))

	win := drv.CreateSplashWindow()
	win.SetContent(container.NewWithoutLayout(rect))
	win.SetPadded(false)
	win.Resize(fyne.NewSize(float32(screen.Dx()), float32(screen.Dy())))

	return &Window{win: win}, nil
}

// markerBounds places the region outline relative to the virtual screen
// origin, which is not (0, 0) on multi-monitor setups.
func markerBounds(region config.Region, screen image.Rectangle) image.Rectangle {
	return image.Rect(
		region.StartX-screen.Min.X,
		region.StartY-screen.Min.Y,
		region.EndX-screen.Min.X,
		region.EndY-screen.Min.Y,
	)
}

// virtualScreen returns the union of all active display bounds.
func virtualScreen() (image.Rectangle, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return image.Rectangle{}, errors.New("no active displays")
	}
	bounds := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		bounds = bounds.Union(screenshot.GetDisplayBounds(i))
	}
	return bounds, nil
}
