// Package loop drives the periodic capture-classify-act cycle.
package loop

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"time"

	"blob-clicker/internal/capture"
	"blob-clicker/internal/classify"
	"blob-clicker/internal/config"
	"blob-clicker/internal/decide"
	"blob-clicker/internal/input"
	"blob-clicker/internal/runstate"
)

// Classifier segments one frame into detections.
type Classifier interface {
	Classify(frame image.Image) ([]classify.Detection, error)
}

// Options configure the loop. Provider, Classifier, Actuator, Flag and
// Events are required.
type Options struct {
	Region     config.Region
	Settings   config.Settings
	Provider   capture.Provider
	Classifier Classifier
	Actuator   input.Actuator
	Flag       *runstate.Flag
	Events     <-chan runstate.Event
	Logger     *slog.Logger
}

// Loop owns one capture-classify-act cycle per tick. Capture and
// actuation errors are logged and recovered locally; only the stop event
// (or context cancellation) ends the loop.
type Loop struct {
	region     config.Region
	interval   time.Duration
	minHazard  float64
	provider   capture.Provider
	classifier Classifier
	actuator   input.Actuator
	flag       *runstate.Flag
	events     <-chan runstate.Event
	logger     *slog.Logger
}

// New validates options and returns a Loop.
func New(opts Options) (*Loop, error) {
	if opts.Provider == nil {
		return nil, errors.New("capture provider must not be nil")
	}
	if opts.Classifier == nil {
		return nil, errors.New("classifier must not be nil")
	}
	if opts.Actuator == nil {
		return nil, errors.New("actuator must not be nil")
	}
	if opts.Flag == nil {
		return nil, errors.New("run-state flag must not be nil")
	}
	if opts.Events == nil {
		return nil, errors.New("event channel must not be nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		region:     opts.Region,
		interval:   opts.Settings.TickInterval(),
		minHazard:  opts.Settings.MinHazardDistance,
		provider:   opts.Provider,
		classifier: opts.Classifier,
		actuator:   opts.Actuator,
		flag:       opts.Flag,
		events:     opts.Events,
		logger:     logger,
	}, nil
}

// Run processes hotkey events and ticks until the stop event arrives or
// the context is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-l.events:
			if l.HandleEvent(e) {
				return nil
			}
		case <-ticker.C:
			l.Tick()
		}
	}
}

// HandleEvent applies one run-state event, logging only actual
// transitions so "started" and "paused" appear once per edge. It reports
// whether the terminal stop state was reached.
func (l *Loop) HandleEvent(e runstate.Event) bool {
	state, changed := l.flag.Apply(e)
	if changed {
		switch state {
		case runstate.Running:
			l.logger.Info("bot started")
		case runstate.Paused:
			l.logger.Info("bot paused")
		case runstate.Stopped:
			l.logger.Info("bot stopped")
		}
	}
	return l.flag.Terminated()
}

// Tick runs one capture-classify-act iteration. It is a no-op unless the
// run flag reads Running.
func (l *Loop) Tick() {
	if l.flag.State() != runstate.Running {
		return
	}

	frame, err := l.provider.Grab()
	if err != nil {
		l.logger.Warn("frame capture failed, skipping tick", "error", err)
		return
	}

	detections, err := l.classifier.Classify(frame)
	if err != nil {
		l.logger.Warn("classification failed, skipping tick", "error", err)
		return
	}

	safe := decide.SafeTargets(detections, l.minHazard)
	if len(safe) == 0 {
		return
	}

	l.logger.Debug("acting on safe targets", "count", len(safe), "detections", len(detections))
	for _, t := range safe {
		p := t.Centroid.Round()
		p.X += l.region.StartX
		p.Y += l.region.StartY
		if err := l.actuator.Click(p); err != nil {
			l.logger.Warn("click rejected", "class", t.Class, "x", p.X, "y", p.Y, "error", err)
		}
	}
}
