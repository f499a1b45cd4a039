// Package main is the entry point for the lightlab viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/app"
	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/window"
	"github.com/Faultbox/lightlab/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== lightlab ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if cfg.Window.DebugUI {
		logger.Warn("settings panel requires viewer-ui; ignoring debug_ui")
	}

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	win, err := window.New(window.Config{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	backend, err := gpu.NewGL()
	if err != nil {
		return fmt.Errorf("failed to create graphics backend: %w", err)
	}
	defer backend.Close()

	a, err := app.New(cfg, backend, win.Swapchain(backend))
	if err != nil {
		return err
	}
	defer a.Close()

	logger.Info("starting render loop")
	stats := app.NewFrameStats()

	for a.Running() {
		in := a.Input()
		if window.PollEvents(in) {
			a.Stop()
		}
		if err := a.HandleEvents(in.Events()); err != nil {
			logger.Fatal("resize failed", zap.Error(err))
		}
		if err := a.Frame(); err != nil {
			logger.Fatal("frame failed", zap.Error(err))
		}
		if title, ok := a.TitleChanged(); ok {
			win.SetTitle(title)
		}
		stats.Tick()
	}

	return nil
}
