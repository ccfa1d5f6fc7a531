// Package main provides the entry point for the blob clicker.
//
// Startup order: settings and region load first (any configuration error
// is fatal), then the hotkey listener, the region overlay, and the
// capture-classify-act loop. The GUI owns the main goroutine, exactly
// like any desktop app; the bot loop runs beside it and quits the app
// when the stop event arrives.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"blob-clicker/internal/capture"
	"blob-clicker/internal/classify"
	"blob-clicker/internal/config"
	"blob-clicker/internal/hotkeys"
	"blob-clicker/internal/input"
	"blob-clicker/internal/logging"
	"blob-clicker/internal/loop"
	"blob-clicker/internal/runstate"
	"blob-clicker/ui/overlay"

	"fyne.io/fyne/v2/app"
)

const (
	appTitle   = "Blob Clicker"
	appVersion = "0.1.0"
)

func main() {
	settings, err := config.LoadSettings(config.SettingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(logging.Options{
		Level:  settings.Log.Level,
		Format: settings.Log.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger.Info("starting", "app", appTitle, "version", appVersion)

	region, err := config.LoadRegion(config.RegionFile)
	if err != nil {
		logger.Error("configuration error", "error", err)
		os.Exit(1)
	}
	logger.Info("watching region",
		"x", region.StartX, "y", region.StartY,
		"width", region.Width(), "height", region.Height())

	printControls(logger)

	flag := runstate.NewFlag()
	listener := hotkeys.NewListener(logger)
	go listener.Start()
	defer listener.Stop()

	// The interrupt signal is the exit control: it funnels through the
	// same event channel as the hotkeys.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		listener.Post(runstate.EventStop)
	}()

	botLoop, err := loop.New(loop.Options{
		Region:     region,
		Settings:   settings,
		Provider:   capture.NewGrabber(region.Rect()),
		Classifier: classify.New(region, settings),
		Actuator:   input.NewMouse(settings.ClickOffsetY),
		Flag:       flag,
		Events:     listener.Events(),
		Logger:     logger,
	})
	if err != nil {
		logger.Error("loop setup failed", "error", err)
		os.Exit(1)
	}

	fyneApp := app.New()

	marker, err := overlay.New(fyneApp, region)
	if err != nil {
		logger.Warn("region overlay unavailable", "error", err)
	} else {
		marker.Show()
		defer marker.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := botLoop.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("loop terminated", "error", err)
		}
		fyneApp.Quit()
	}()

	fyneApp.Run()
}

func printControls(logger *slog.Logger) {
	logger.Info("controls:")
	logger.Info(fmt.Sprintf("  press '%s' to start clicking", hotkeys.StartKey))
	logger.Info(fmt.Sprintf("  press '%s' to pause", hotkeys.PauseKey))
	logger.Info("  press ctrl+c to exit")
}
