// Command rangetest runs the blob classifier on an image file and prints
// the detections, so color ranges can be tuned without touching the live
// screen.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"blob-clicker/internal/classify"
	"blob-clicker/internal/config"
	"blob-clicker/internal/decide"

	_ "golang.org/x/image/tiff"
)

func main() {
	imagePath := flag.String("image", "", "Path to a frame capture (PNG, JPEG, or TIFF)")
	settingsPath := flag.String("settings", config.SettingsFile, "Path to the settings file")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: rangetest -image <path> [-settings config.yaml]")
		os.Exit(1)
	}

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	f, err := os.Open(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to decode image: %v\n", err)
		os.Exit(1)
	}

	bounds := img.Bounds()
	fmt.Printf("Loaded %s image: %dx%d pixels\n", format, bounds.Dx(), bounds.Dy())
	fmt.Printf("Color classes:\n")
	for _, cr := range settings.Ranges {
		fmt.Printf("  %-8s %-6s H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f)\n",
			cr.Class, cr.Role,
			cr.Range.Lower.H, cr.Range.Upper.H,
			cr.Range.Lower.S, cr.Range.Upper.S,
			cr.Range.Lower.V, cr.Range.Upper.V)
	}
	fmt.Printf("Min blob area: %d px, hazard exclusion: %.0f px\n\n",
		settings.MinBlobArea, settings.MinHazardDistance)

	// Treat the whole image as the monitored region.
	region := config.Region{StartX: 0, StartY: 0, EndX: bounds.Dx(), EndY: bounds.Dy()}

	detections, err := classify.New(region, settings).Classify(img)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Classification failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Detected %d blobs:\n", len(detections))
	fmt.Printf("%-8s %-6s %10s %10s %10s\n", "Class", "Role", "X", "Y", "Area")
	for _, d := range detections {
		fmt.Printf("%-8s %-6s %10.1f %10.1f %10.0f\n",
			d.Class, d.Role, d.Centroid.X, d.Centroid.Y, d.Area)
	}

	safe := decide.SafeTargets(detections, settings.MinHazardDistance)
	fmt.Printf("\nSafe targets (%d):\n", len(safe))
	for i, t := range safe {
		fmt.Printf("  %d. %s at (%.1f, %.1f)\n", i+1, t.Class, t.Centroid.X, t.Centroid.Y)
	}
}
