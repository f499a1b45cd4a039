// Package main is the lightlab viewer with the ImGui settings panel.
package main

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/app"
	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/scene"
	"github.com/Faultbox/lightlab/internal/engine/ui"
	"github.com/Faultbox/lightlab/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

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

	logger.Info("=== lightlab (settings panel) ===")

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	frontend, err := ui.NewBackend(cfg.Window.Title, cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return fmt.Errorf("failed to create ui backend: %w", err)
	}

	backend, err := gpu.NewGL()
	if err != nil {
		return fmt.Errorf("failed to create graphics backend: %w", err)
	}
	defer backend.Close()

	a, err := app.New(cfg, backend, frontend.Swapchain(backend))
	if err != nil {
		return err
	}
	defer a.Close()

	panel := ui.NewPanel(a.Screenshots())
	a.Overlay = func(s *scene.Scene) {
		w, h := a.Size()
		ui.DrawSceneTexture(0, 0, float32(w), float32(h), backend.NativeTexture(a.Device().ColorView()))
		panel.Draw(s)
	}

	logger.Info("starting render loop")
	stats := app.NewFrameStats()

	frontend.Run(func() {
		w, h := frontend.DisplaySize()
		if cw, ch := a.Size(); w != cw || h != ch {
			if err := a.HandleResize(w, h); err != nil {
				logger.Fatal("resize failed", zap.Error(err))
			}
		}

		ui.PollKeys(&a.Input().Keyboard)
		if err := a.Frame(); err != nil {
			logger.Fatal("frame failed", zap.Error(err))
		}
		if title, ok := a.TitleChanged(); ok {
			frontend.SetWindowTitle(title)
		}
		stats.Tick()

		if !a.Running() {
			frontend.Quit()
		}
	})

	return nil
}
