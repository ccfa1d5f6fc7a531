package loop

import (
	"errors"
	"image"
	"io"
	"log/slog"
	"testing"

	"blob-clicker/internal/classify"
	"blob-clicker/internal/config"
	"blob-clicker/internal/runstate"
	"blob-clicker/pkg/geometry"
)

type fakeProvider struct {
	frame *image.RGBA
	err   error
	calls int
}

func (p *fakeProvider) Grab() (*image.RGBA, error) {
	p.calls++
	return p.frame, p.err
}

type fakeClassifier struct {
	detections []classify.Detection
	err        error
	calls      int
}

func (c *fakeClassifier) Classify(image.Image) ([]classify.Detection, error) {
	c.calls++
	return c.detections, c.err
}

type fakeActuator struct {
	clicks []geometry.PointInt
	err    error
}

func (a *fakeActuator) Click(p geometry.PointInt) error {
	a.clicks = append(a.clicks, p)
	return a.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegion() config.Region {
	return config.Region{StartX: 100, StartY: 200, EndX: 500, EndY: 600}
}

func newTestLoop(t *testing.T, provider *fakeProvider, classifier *fakeClassifier, actuator *fakeActuator, flag *runstate.Flag) *Loop {
	t.Helper()
	settings := config.DefaultSettings()
	settings.MinHazardDistance = 10

	l, err := New(Options{
		Region:     testRegion(),
		Settings:   settings,
		Provider:   provider,
		Classifier: classifier,
		Actuator:   actuator,
		Flag:       flag,
		Events:     make(chan runstate.Event),
		Logger:     testLogger(),
	})
	if err != nil {
		t.Fatalf("loop setup: %v", err)
	}
	return l
}

func pinkAt(x, y float64) classify.Detection {
	return classify.Detection{
		Class:    "pink",
		Role:     config.RoleTarget,
		Centroid: geometry.Point2D{X: x, Y: y},
	}
}

func bombAt(x, y float64) classify.Detection {
	return classify.Detection{
		Class:    "bomb",
		Role:     config.RoleHazard,
		Centroid: geometry.Point2D{X: x, Y: y},
	}
}

func TestNewValidatesOptions(t *testing.T) {
	base := Options{
		Settings:   config.DefaultSettings(),
		Provider:   &fakeProvider{},
		Classifier: &fakeClassifier{},
		Actuator:   &fakeActuator{},
		Flag:       runstate.NewFlag(),
		Events:     make(chan runstate.Event),
	}

	cases := []struct {
		name   string
		mutate func(*Options)
	}{
		{"nil provider", func(o *Options) { o.Provider = nil }},
		{"nil classifier", func(o *Options) { o.Classifier = nil }},
		{"nil actuator", func(o *Options) { o.Actuator = nil }},
		{"nil flag", func(o *Options) { o.Flag = nil }},
		{"nil events", func(o *Options) { o.Events = nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := base
			tc.mutate(&opts)
			if _, err := New(opts); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := New(base); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
}

func TestTickIsNoOpUnlessRunning(t *testing.T) {
	provider := &fakeProvider{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	classifier := &fakeClassifier{}
	flag := runstate.NewFlag()
	l := newTestLoop(t, provider, classifier, &fakeActuator{}, flag)

	l.Tick() // stopped
	flag.Apply(runstate.EventStart)
	flag.Apply(runstate.EventPause)
	l.Tick() // paused

	if provider.calls != 0 {
		t.Fatalf("capture must not run while stopped or paused, got %d calls", provider.calls)
	}
	if classifier.calls != 0 {
		t.Fatalf("classifier must not run while stopped or paused, got %d calls", classifier.calls)
	}
}

func TestTickClicksSafeTargetsInScreenCoordinates(t *testing.T) {
	provider := &fakeProvider{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	classifier := &fakeClassifier{detections: []classify.Detection{
		pinkAt(50, 50),
		pinkAt(30, 20),
		bombAt(350, 350),
	}}
	actuator := &fakeActuator{}
	flag := runstate.NewFlag()
	flag.Apply(runstate.EventStart)

	l := newTestLoop(t, provider, classifier, actuator, flag)
	l.Tick()

	// Region-local centroids offset by the region origin, ordered
	// top-to-bottom.
	want := []geometry.PointInt{{X: 130, Y: 220}, {X: 150, Y: 250}}
	if len(actuator.clicks) != len(want) {
		t.Fatalf("expected %d clicks, got %d", len(want), len(actuator.clicks))
	}
	for i, p := range want {
		if actuator.clicks[i] != p {
			t.Fatalf("click %d: got %+v, want %+v", i, actuator.clicks[i], p)
		}
	}
}

func TestTickSkipsTargetsNearHazards(t *testing.T) {
	provider := &fakeProvider{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	classifier := &fakeClassifier{detections: []classify.Detection{
		pinkAt(50, 50),
		bombAt(52, 51),
	}}
	actuator := &fakeActuator{}
	flag := runstate.NewFlag()
	flag.Apply(runstate.EventStart)

	l := newTestLoop(t, provider, classifier, actuator, flag)
	l.Tick()

	if len(actuator.clicks) != 0 {
		t.Fatalf("expected no clicks near a hazard, got %v", actuator.clicks)
	}
}

func TestCaptureErrorSkipsTick(t *testing.T) {
	provider := &fakeProvider{err: errors.New("display asleep")}
	classifier := &fakeClassifier{detections: []classify.Detection{pinkAt(50, 50)}}
	actuator := &fakeActuator{}
	flag := runstate.NewFlag()
	flag.Apply(runstate.EventStart)

	l := newTestLoop(t, provider, classifier, actuator, flag)
	l.Tick()
	l.Tick()

	if classifier.calls != 0 {
		t.Fatalf("classifier must not run on capture failure")
	}
	if len(actuator.clicks) != 0 {
		t.Fatalf("no clicks expected on capture failure")
	}
	if provider.calls != 2 {
		t.Fatalf("loop must keep capturing on later ticks, got %d calls", provider.calls)
	}
}

func TestClassifyErrorSkipsTick(t *testing.T) {
	provider := &fakeProvider{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	classifier := &fakeClassifier{err: errors.New("bad frame")}
	actuator := &fakeActuator{}
	flag := runstate.NewFlag()
	flag.Apply(runstate.EventStart)

	l := newTestLoop(t, provider, classifier, actuator, flag)
	l.Tick()

	if len(actuator.clicks) != 0 {
		t.Fatalf("no clicks expected on classification failure")
	}
}

func TestActuationErrorDoesNotStopRemainingClicks(t *testing.T) {
	provider := &fakeProvider{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	classifier := &fakeClassifier{detections: []classify.Detection{
		pinkAt(10, 10),
		pinkAt(20, 20),
	}}
	actuator := &fakeActuator{err: errors.New("input rejected")}
	flag := runstate.NewFlag()
	flag.Apply(runstate.EventStart)

	l := newTestLoop(t, provider, classifier, actuator, flag)
	l.Tick()

	if len(actuator.clicks) != 2 {
		t.Fatalf("every safe target must still be attempted, got %d", len(actuator.clicks))
	}
}

func TestEmptyDetectionsIsNormal(t *testing.T) {
	provider := &fakeProvider{frame: image.NewRGBA(image.Rect(0, 0, 4, 4))}
	classifier := &fakeClassifier{}
	actuator := &fakeActuator{}
	flag := runstate.NewFlag()
	flag.Apply(runstate.EventStart)

	l := newTestLoop(t, provider, classifier, actuator, flag)
	l.Tick()

	if len(actuator.clicks) != 0 {
		t.Fatalf("expected no clicks for empty detections")
	}
}

func TestHandleEventReportsTerminal(t *testing.T) {
	flag := runstate.NewFlag()
	l := newTestLoop(t, &fakeProvider{}, &fakeClassifier{}, &fakeActuator{}, flag)

	if l.HandleEvent(runstate.EventStart) {
		t.Fatalf("start must not be terminal")
	}
	if l.HandleEvent(runstate.EventPause) {
		t.Fatalf("pause must not be terminal")
	}
	if !l.HandleEvent(runstate.EventStop) {
		t.Fatalf("stop must be terminal")
	}
}
