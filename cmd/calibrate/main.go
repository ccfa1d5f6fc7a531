// Command calibrate fits an HSV range from a rectangular patch of a
// frame capture. Crop a screenshot to a patch showing only one blob
// class, point this tool at it, and paste the printed range into the
// settings file.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"blob-clicker/internal/classify"

	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Path to a frame capture (PNG, JPEG, or TIFF)")
	x := flag.Int("x", 0, "Patch left edge")
	y := flag.Int("y", 0, "Patch top edge")
	w := flag.Int("w", 0, "Patch width (0 = full image)")
	h := flag.Int("h", 0, "Patch height (0 = full image)")
	k := flag.Float64("k", 2.5, "Range half-width in standard deviations")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: calibrate -image <path> [-x 0 -y 0 -w 0 -h 0] [-k 2.5]")
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	patch := img.Bounds()
	if *w > 0 && *h > 0 {
		patch = image.Rect(*x, *y, *x+*w, *y+*h)
	}

	samples := classify.SampleHSV(img, patch)
	stats, err := classify.ComputeStats(samples)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sampled %d pixels from %v\n", stats.Count, patch)
	fmt.Printf("  H: mean %.1f std %.1f\n", stats.HMean, stats.HStd)
	fmt.Printf("  S: mean %.1f std %.1f\n", stats.SMean, stats.SStd)
	fmt.Printf("  V: mean %.1f std %.1f\n", stats.VMean, stats.VStd)

	r := stats.FitRange(*k)
	fmt.Printf("\nFitted range (mean ± %.1f std):\n", *k)
	fmt.Printf("    range:\n")
	fmt.Printf("      lower: {h: %.0f, s: %.0f, v: %.0f}\n", r.Lower.H, r.Lower.S, r.Lower.V)
	fmt.Printf("      upper: {h: %.0f, s: %.0f, v: %.0f}\n", r.Upper.H, r.Upper.S, r.Upper.V)
}
