// Package config loads the monitored screen region and runtime settings.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"blob-clicker/pkg/colorutil"

	"github.com/spf13/viper"
)

// RegionFile is the fixed relative path holding the monitored rectangle.
const RegionFile = "window_coordinates.txt"

// SettingsFile is the optional runtime tuning file.
const SettingsFile = "config.yaml"

// Region is the screen rectangle under observation. Immutable after load.
type Region struct {
	StartX int `mapstructure:"start_x"`
	EndX   int `mapstructure:"end_x"`
	StartY int `mapstructure:"start_y"`
	EndY   int `mapstructure:"end_y"`
}

// Width returns the region width in pixels.
func (r Region) Width() int { return r.EndX - r.StartX }

// Height returns the region height in pixels.
func (r Region) Height() int { return r.EndY - r.StartY }

// Rect returns the region as an image.Rectangle in screen coordinates.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.StartX, r.StartY, r.EndX, r.EndY)
}

// Validate checks the region invariants: start_x < end_x and start_y < end_y.
func (r Region) Validate() error {
	if r.StartX >= r.EndX {
		return fmt.Errorf("invalid region: start_x (%d) must be less than end_x (%d)", r.StartX, r.EndX)
	}
	if r.StartY >= r.EndY {
		return fmt.Errorf("invalid region: start_y (%d) must be less than end_y (%d)", r.StartY, r.EndY)
	}
	return nil
}

var regionKeys = []string{"start_x", "end_x", "start_y", "end_y"}

// LoadRegion reads the region bounds from a key=value file.
// Every key is required; a missing file, missing key, or non-integer
// value is a configuration error.
func LoadRegion(path string) (Region, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return Region{}, fmt.Errorf("read region file %s: %w", path, err)
	}

	values := make(map[string]int, len(regionKeys))
	for _, key := range regionKeys {
		if !v.IsSet(key) {
			return Region{}, fmt.Errorf("region file %s: missing key %q", path, key)
		}
		raw := strings.TrimSpace(v.GetString(key))
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Region{}, fmt.Errorf("region file %s: key %q is not an integer (got %q)", path, key, raw)
		}
		values[key] = n
	}

	region := Region{
		StartX: values["start_x"],
		EndX:   values["end_x"],
		StartY: values["start_y"],
		EndY:   values["end_y"],
	}
	if err := region.Validate(); err != nil {
		return Region{}, err
	}
	return region, nil
}

// Role says how detections of a color class feed the decision engine.
type Role string

const (
	// RoleTarget marks a clickable blob class.
	RoleTarget Role = "target"
	// RoleHazard marks a blob class that excludes nearby targets.
	RoleHazard Role = "hazard"
)

// ColorRange declares one blob class: its name, role, HSV box, click
// priority among targets (lower is clicked first), and whether blobs in
// the top/bottom edge bands of the region are discarded.
type ColorRange struct {
	Class    string             `mapstructure:"class"`
	Role     Role               `mapstructure:"role"`
	Range    colorutil.HSVRange `mapstructure:"range"`
	Priority int                `mapstructure:"priority"`
	EdgeBand bool               `mapstructure:"edge_band"`
}

// Log controls logger construction.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Settings holds runtime tuning. All fields have working defaults so the
// settings file is optional; the region file is not.
type Settings struct {
	TickIntervalMS    int          `mapstructure:"tick_interval_ms"`
	MinHazardDistance float64      `mapstructure:"min_hazard_distance"`
	MinBlobArea       int          `mapstructure:"min_blob_area"`
	ClickOffsetY      int          `mapstructure:"click_offset_y"`
	EdgeBandFraction  float64      `mapstructure:"edge_band_fraction"`
	Log               Log          `mapstructure:"log"`
	Ranges            []ColorRange `mapstructure:"ranges"`
}

// TickInterval returns the loop cadence as a duration.
func (s Settings) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalMS) * time.Millisecond
}

// DefaultSettings returns the tuning used when no settings file exists.
// The HSV boxes are hand-tuned for saturated pink and green targets and
// the dull, low-saturation look of bombs; saturation floors keep the
// three boxes disjoint.
func DefaultSettings() Settings {
	return Settings{
		TickIntervalMS:    10,
		MinHazardDistance: 100,
		MinBlobArea:       4,
		ClickOffsetY:      3,
		EdgeBandFraction:  0.10,
		Log:               Log{Level: "info", Format: "text"},
		Ranges: []ColorRange{
			{
				Class:    "pink",
				Role:     RoleTarget,
				Priority: 0,
				Range: colorutil.HSVRange{
					Lower: colorutil.HSV{H: 160, S: 60, V: 100},
					Upper: colorutil.HSV{H: 180, S: 255, V: 255},
				},
			},
			{
				Class:    "green",
				Role:     RoleTarget,
				Priority: 1,
				EdgeBand: true,
				Range: colorutil.HSVRange{
					Lower: colorutil.HSV{H: 40, S: 60, V: 50},
					Upper: colorutil.HSV{H: 80, S: 255, V: 255},
				},
			},
			{
				Class: "bomb",
				Role:  RoleHazard,
				Range: colorutil.HSVRange{
					Lower: colorutil.HSV{H: 0, S: 0, V: 50},
					Upper: colorutil.HSV{H: 180, S: 50, V: 200},
				},
			},
		},
	}
}

// LoadSettings reads the settings file if present, applying defaults for
// absent keys. A missing file yields DefaultSettings; a malformed file or
// invalid values are configuration errors.
func LoadSettings(path string) (Settings, error) {
	defaults := DefaultSettings()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("tick_interval_ms", defaults.TickIntervalMS)
	v.SetDefault("min_hazard_distance", defaults.MinHazardDistance)
	v.SetDefault("min_blob_area", defaults.MinBlobArea)
	v.SetDefault("click_offset_y", defaults.ClickOffsetY)
	v.SetDefault("edge_band_fraction", defaults.EdgeBandFraction)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)

	if err := v.ReadInConfig(); err != nil {
		if !isNotFound(err) {
			return Settings{}, fmt.Errorf("read settings file %s: %w", path, err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	if len(settings.Ranges) == 0 {
		settings.Ranges = defaults.Ranges
	}
	if err := settings.Validate(); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

// Validate checks settings invariants, including pairwise-disjoint color
// ranges: the classifier never deduplicates across classes, so overlap
// is a configuration error.
func (s Settings) Validate() error {
	if s.TickIntervalMS <= 0 {
		return fmt.Errorf("tick_interval_ms must be positive, got %d", s.TickIntervalMS)
	}
	if s.MinHazardDistance < 0 {
		return fmt.Errorf("min_hazard_distance must not be negative, got %g", s.MinHazardDistance)
	}
	if s.MinBlobArea < 0 {
		return fmt.Errorf("min_blob_area must not be negative, got %d", s.MinBlobArea)
	}
	if s.EdgeBandFraction < 0 || s.EdgeBandFraction >= 0.5 {
		return fmt.Errorf("edge_band_fraction must be in [0, 0.5), got %g", s.EdgeBandFraction)
	}

	seen := make(map[string]bool, len(s.Ranges))
	for i, cr := range s.Ranges {
		if cr.Class == "" {
			return fmt.Errorf("ranges[%d]: class must not be empty", i)
		}
		if seen[cr.Class] {
			return fmt.Errorf("ranges[%d]: duplicate class %q", i, cr.Class)
		}
		seen[cr.Class] = true
		if cr.Role != RoleTarget && cr.Role != RoleHazard {
			return fmt.Errorf("ranges[%d] (%s): unknown role %q", i, cr.Class, cr.Role)
		}
		if !cr.Range.Valid() {
			return fmt.Errorf("ranges[%d] (%s): invalid HSV range", i, cr.Class)
		}
		for j := 0; j < i; j++ {
			if cr.Range.Overlaps(s.Ranges[j].Range) {
				return fmt.Errorf("color ranges %q and %q overlap; ranges must be disjoint",
					s.Ranges[j].Class, cr.Class)
			}
		}
	}
	return nil
}

func isNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	// viper returns a plain *fs.PathError when SetConfigFile points at a
	// missing file rather than its own not-found type.
	return errors.Is(err, fs.ErrNotExist)
}
