package classify

import (
	"fmt"
	"image"
	"math"

	"blob-clicker/pkg/colorutil"

	"gonum.org/v1/gonum/stat"
)

// RangeStats holds per-channel mean and standard deviation for a set of
// HSV samples, used to fit an in-range box for a blob class.
type RangeStats struct {
	HMean float64 `json:"h_mean"`
	HStd  float64 `json:"h_std"`
	SMean float64 `json:"s_mean"`
	SStd  float64 `json:"s_std"`
	VMean float64 `json:"v_mean"`
	VStd  float64 `json:"v_std"`
	Count int     `json:"count"`
}

// SampleHSV collects the HSV value of every pixel of img inside rect.
// The rect is clamped to the image bounds.
func SampleHSV(img image.Image, rect image.Rectangle) []colorutil.HSV {
	if img == nil {
		return nil
	}
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return nil
	}

	samples := make([]colorutil.HSV, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			h, s, v := colorutil.RGBToHSV(float64(r>>8), float64(g>>8), float64(b>>8))
			samples = append(samples, colorutil.HSV{H: h, S: s, V: v})
		}
	}
	return samples
}

// ComputeStats returns per-channel mean and standard deviation over the
// samples.
func ComputeStats(samples []colorutil.HSV) (RangeStats, error) {
	if len(samples) == 0 {
		return RangeStats{}, fmt.Errorf("no samples to analyze")
	}

	hs := make([]float64, len(samples))
	ss := make([]float64, len(samples))
	vs := make([]float64, len(samples))
	for i, s := range samples {
		hs[i] = s.H
		ss[i] = s.S
		vs[i] = s.V
	}

	rs := RangeStats{Count: len(samples)}
	rs.HMean, rs.HStd = stat.MeanStdDev(hs, nil)
	rs.SMean, rs.SStd = stat.MeanStdDev(ss, nil)
	rs.VMean, rs.VStd = stat.MeanStdDev(vs, nil)
	return rs, nil
}

// FitRange builds an HSV box covering mean ± k·stddev on each channel,
// clamped to the OpenCV HSV value space. k around 2.5 captures ~99% of
// a roughly normal color population.
func (rs RangeStats) FitRange(k float64) colorutil.HSVRange {
	return colorutil.HSVRange{
		Lower: colorutil.HSV{
			H: clamp(rs.HMean-k*rs.HStd, 0, 180),
			S: clamp(rs.SMean-k*rs.SStd, 0, 255),
			V: clamp(rs.VMean-k*rs.VStd, 0, 255),
		},
		Upper: colorutil.HSV{
			H: clamp(rs.HMean+k*rs.HStd, 0, 180),
			S: clamp(rs.SMean+k*rs.SStd, 0, 255),
			V: clamp(rs.VMean+k*rs.VStd, 0, 255),
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(hi, math.Max(lo, v))
}
