// Package hotkeys turns global key presses into run-state events.
//
// The listener never mutates run state itself: it posts events to a
// buffered single-consumer channel that the main loop drains, so all
// state transitions happen in one place.
package hotkeys

import (
	"log/slog"

	"blob-clicker/internal/runstate"

	hook "github.com/robotn/gohook"
)

// Default key bindings.
const (
	StartKey = "s"
	PauseKey = "p"
)

// Listener installs global key-down hooks and forwards events.
type Listener struct {
	events chan runstate.Event
	logger *slog.Logger
}

// NewListener creates a Listener. The channel is buffered; if the
// consumer falls behind, excess key presses are dropped rather than
// blocking the OS hook callback.
func NewListener(logger *slog.Logger) *Listener {
	return &Listener{
		events: make(chan runstate.Event, 16),
		logger: logger,
	}
}

// Events returns the channel the main loop consumes.
func (l *Listener) Events() <-chan runstate.Event {
	return l.events
}

// Post injects an event from outside the keyboard hook (the interrupt
// signal handler uses this for EventStop).
func (l *Listener) Post(e runstate.Event) {
	l.send(e)
}

// Start installs the hooks and blocks processing key events until Stop
// is called. Run it on its own goroutine.
func (l *Listener) Start() {
	hook.Register(hook.KeyDown, []string{StartKey}, func(hook.Event) {
		l.send(runstate.EventStart)
	})
	hook.Register(hook.KeyDown, []string{PauseKey}, func(hook.Event) {
		l.send(runstate.EventPause)
	})

	l.logger.Debug("hotkey hooks installed", "start", StartKey, "pause", PauseKey)
	s := hook.Start()
	<-hook.Process(s)
}

// Stop removes the hooks and ends event processing.
func (l *Listener) Stop() {
	hook.End()
}

func (l *Listener) send(e runstate.Event) {
	select {
	case l.events <- e:
	default:
		l.logger.Debug("dropping hotkey event, channel full", "event", e.String())
	}
}
