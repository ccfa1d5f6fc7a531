// Package classify segments a captured frame into colored blobs using
// HSV in-range masks and contour extraction, tagging each surviving
// component with its declared color class.
package classify

import (
	"image"

	"blob-clicker/internal/config"
	"blob-clicker/pkg/geometry"

	"gocv.io/x/gocv"
)

// Classifier runs the per-frame segmentation pipeline for a fixed set of
// declared color classes. Safe for reuse across frames; not safe for
// concurrent use.
type Classifier struct {
	ranges       []config.ColorRange
	regionHeight int
	minArea      int
	bandFraction float64
}

// New creates a Classifier for the given region and settings. Settings
// are assumed validated (ranges disjoint, thresholds non-negative).
func New(region config.Region, settings config.Settings) *Classifier {
	return &Classifier{
		ranges:       settings.Ranges,
		regionHeight: region.Height(),
		minArea:      settings.MinBlobArea,
		bandFraction: settings.EdgeBandFraction,
	}
}

// Classify returns one Detection per surviving blob in the frame,
// ordered deterministically (target priority, then top-to-bottom, then
// left-to-right). An empty or nil frame yields an empty list, not an
// error. Ranges are applied independently; no cross-class deduplication.
func (c *Classifier) Classify(frame image.Image) ([]Detection, error) {
	if frame == nil {
		return nil, nil
	}
	bounds := frame.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, nil
	}

	mat, err := imageToMat(frame)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	var detections []Detection
	for _, cr := range c.ranges {
		mask := maskForRange(hsv, cr)
		blobs := extractBlobs(mask)
		mask.Close()
		detections = append(detections, detectionsFromBlobs(cr, blobs, c.regionHeight, c.minArea, c.bandFraction)...)
	}

	Sort(detections)
	return detections, nil
}

// maskForRange builds a cleaned binary mask of the pixels inside the
// class's HSV box. One erode+dilate pass knocks out single-pixel noise
// without shrinking real blobs.
func maskForRange(hsv gocv.Mat, cr config.ColorRange) gocv.Mat {
	mask := gocv.NewMat()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(cr.Range.Lower.H, cr.Range.Lower.S, cr.Range.Lower.V, 0),
		gocv.NewScalar(cr.Range.Upper.H, cr.Range.Upper.S, cr.Range.Upper.V, 0),
		&mask)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: 3, Y: 3})
	defer kernel.Close()

	gocv.Erode(mask, &mask, kernel)
	gocv.Dilate(mask, &mask, kernel)

	return mask
}

// extractBlobs finds external contours in the mask and returns their
// bounding boxes and contour areas.
func extractBlobs(mask gocv.Mat) []blob {
	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	blobs := make([]blob, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		rect := gocv.BoundingRect(contour)
		area := gocv.ContourArea(contour)
		// Tiny contours report zero area; fall back to the box.
		if area == 0 {
			area = float64(rect.Dx() * rect.Dy())
		}
		blobs = append(blobs, blob{
			Bounds: geometry.RectInt{X: rect.Min.X, Y: rect.Min.Y, Width: rect.Dx(), Height: rect.Dy()},
			Area:   area,
		})
	}
	return blobs
}

// imageToMat converts a Go image.Image to an OpenCV Mat in BGR order.
func imageToMat(srcImg image.Image) (gocv.Mat, error) {
	bounds := srcImg.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := srcImg.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// 16-bit to 8-bit, BGR order for OpenCV
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat, nil
}
