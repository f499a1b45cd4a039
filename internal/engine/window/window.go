// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title  string
	Width  int
	Height int
	VSync  bool
}

// Window wraps an SDL2 window and its OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// New creates a resizable window with an OpenGL 4.1 core context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)

	// Depth lives in the offscreen target; the default framebuffer only receives blits.
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 0)

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	setSwapInterval(boolToInterval(cfg.VSync))

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

func boolToInterval(vsync bool) int {
	if vsync {
		return 1
	}
	return 0
}

func setSwapInterval(interval int) {
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		logger.Warn("failed to set swap interval", zap.Int("interval", interval), zap.Error(err))
	}
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// GetSize returns the current window size.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GetSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Swapchain returns the window's presentation surface. b copies the rendered
// color view into the default framebuffer before each swap.
func (w *Window) Swapchain(b gpu.Backend) gpu.Swapchain {
	width, height := w.GetSize()
	interval := boolToInterval(w.config.VSync)
	return &swapchain{window: w, backend: b, width: width, height: height, interval: interval, vsync: w.config.VSync}
}

type swapchain struct {
	window        *Window
	backend       gpu.Backend
	width, height int
	interval      int
	vsync         bool // false forces interval 0 regardless of Present's request
}

// ResizeBuffers records the new back buffer size. SDL resizes the default
// framebuffer together with the window.
func (s *swapchain) ResizeBuffers(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize back buffer %dx%d: %w", width, height, gpu.ErrInvalidSize)
	}
	s.width, s.height = width, height
	return nil
}

func (s *swapchain) Present(color gpu.ViewID, width, height, syncInterval int) error {
	if !s.vsync {
		syncInterval = 0
	}
	if syncInterval != s.interval {
		setSwapInterval(syncInterval)
		s.interval = syncInterval
	}
	s.backend.BlitToDefault(color, s.width, s.height)
	s.window.SwapBuffers()
	return nil
}
