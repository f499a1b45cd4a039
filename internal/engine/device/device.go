// Package device owns the graphics backend state of the viewer: render
// targets, the lit mesh program and its fixed bindings, and the per-frame
// uniform buffers.
package device

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/asset"
	"github.com/Faultbox/lightlab/internal/engine/device/shaders"
	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/logger"
)

// ClearColor is the background color of every frame.
var ClearColor = [4]float32{0.1, 0.1, 0.1, 1}

// Config holds the shader sources compiled at Initialize.
type Config struct {
	VertexSource string
	PixelSource  string
}

// DefaultConfig returns the embedded shaders.
func DefaultConfig() Config {
	return Config{
		VertexSource: shaders.VertexShader,
		PixelSource:  shaders.PixelShader,
	}
}

// ConfigFrom returns the embedded shaders with any file overrides applied.
func ConfigFrom(cfg config.ShadersConfig) (Config, error) {
	c := DefaultConfig()
	if cfg.Vertex != "" {
		src, err := os.ReadFile(cfg.Vertex)
		if err != nil {
			return Config{}, fmt.Errorf("vertex shader: %w", err)
		}
		c.VertexSource = string(src)
	}
	if cfg.Pixel != "" {
		src, err := os.ReadFile(cfg.Pixel)
		if err != nil {
			return Config{}, fmt.Errorf("pixel shader: %w", err)
		}
		c.PixelSource = string(src)
	}
	return c, nil
}

// Device drives a gpu.Backend and presents through a gpu.Swapchain.
type Device struct {
	backend   gpu.Backend
	swapchain gpu.Swapchain
	config    Config

	width, height int
	color         *gpu.View
	depth         *gpu.View
	viewport      gpu.Viewport

	program gpu.ProgramID
	layout  gpu.InputLayoutID
	sampler gpu.SamplerID
	frame   *FrameResources

	initialized bool
}

// New creates a device. Nothing is allocated until Initialize.
func New(b gpu.Backend, sc gpu.Swapchain, cfg Config) *Device {
	return &Device{backend: b, swapchain: sc, config: cfg}
}

// Initialize creates the targets, program, input layout, sampler and
// uniform buffers, then binds them as steady state. On error everything
// created so far is released.
func (d *Device) Initialize(width, height int) (err error) {
	if d.initialized {
		return nil
	}
	defer func() {
		if err != nil {
			d.release()
		}
	}()

	if err := d.createTargets(width, height); err != nil {
		return err
	}

	d.program, err = d.backend.CreateProgram(gpu.ProgramSource{
		Vertex:        d.config.VertexSource,
		Pixel:         d.config.PixelSource,
		UniformBlocks: map[string]int{"Transform": TransformSlot, "Lighting": LightingSlot},
		Samplers:      map[string]int{"diffuseTexture": DiffuseSlot},
	})
	if err != nil {
		return fmt.Errorf("compile shaders: %w", err)
	}

	d.layout, err = d.backend.CreateInputLayout(asset.VertexLayout())
	if err != nil {
		return fmt.Errorf("input layout: %w", err)
	}

	d.sampler, err = d.backend.CreateSampler(gpu.SamplerDesc{Filter: gpu.FilterLinear, Address: gpu.AddressWrap})
	if err != nil {
		return fmt.Errorf("sampler: %w", err)
	}

	d.frame, err = NewFrameResources(d.backend)
	if err != nil {
		return err
	}

	d.initialized = true
	d.bind()

	logger.Info("device initialized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (d *Device) createTargets(width, height int) error {
	color, err := gpu.NewColorView(d.backend, width, height)
	if err != nil {
		return fmt.Errorf("render target: %w", err)
	}
	depth, err := gpu.NewDepthStencilView(d.backend, width, height)
	if err != nil {
		color.Release()
		return fmt.Errorf("depth target: %w", err)
	}

	d.color, d.depth = color, depth
	d.width, d.height = width, height
	d.viewport = gpu.Viewport{Width: width, Height: height, MinDepth: 0, MaxDepth: 1}
	return nil
}

// bind applies the full steady-state binding set.
func (d *Device) bind() {
	d.backend.SetRenderTargets(d.color.ID(), d.depth.ID())
	d.backend.SetViewport(d.viewport)
	d.backend.SetProgram(d.program)
	d.backend.SetInputLayout(d.layout)
	d.backend.SetSampler(DiffuseSlot, d.sampler)
	d.frame.Bind(d.backend)
}

// Resize recreates the color and depth targets at the new size. The old
// views are released before the swapchain resizes its back buffer. Calls
// before Initialize and zero sizes (minimized windows) are ignored.
func (d *Device) Resize(width, height int) error {
	if !d.initialized {
		return nil
	}
	if width <= 0 || height <= 0 {
		logger.Debug("ignoring resize to empty surface", zap.Int("width", width), zap.Int("height", height))
		return nil
	}

	d.color.Release()
	d.depth.Release()
	d.color, d.depth = nil, nil

	if err := d.swapchain.ResizeBuffers(width, height); err != nil {
		return fmt.Errorf("resize swapchain: %w", err)
	}
	if err := d.createTargets(width, height); err != nil {
		return err
	}

	d.backend.SetRenderTargets(d.color.ID(), d.depth.ID())
	d.backend.SetViewport(d.viewport)

	logger.Debug("device resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

// BeginFrame rebinds the steady state, which presentation may have
// disturbed, and clears color and depth.
func (d *Device) BeginFrame() {
	d.bind()
	d.backend.ClearColor(d.color.ID(), ClearColor)
	d.backend.ClearDepthStencil(d.depth.ID(), 1, 0)
}

// Present shows the frame with vertical sync.
func (d *Device) Present() error {
	return d.swapchain.Present(d.color.ID(), d.width, d.height, 1)
}

// Capture reads back the color target as RGBA8, bottom row first.
func (d *Device) Capture() (pixels []byte, width, height int, err error) {
	if !d.initialized {
		return nil, 0, 0, fmt.Errorf("capture: %w", gpu.ErrReleased)
	}
	pixels, err = d.backend.ReadPixels(d.color.ID(), d.width, d.height)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("capture: %w", err)
	}
	return pixels, d.width, d.height, nil
}

// Backend returns the backend for draw calls.
func (d *Device) Backend() gpu.Backend { return d.backend }

// Frame returns the per-frame uniform buffers.
func (d *Device) Frame() *FrameResources { return d.frame }

// Viewport returns the current viewport.
func (d *Device) Viewport() gpu.Viewport { return d.viewport }

// Size returns the current target size.
func (d *Device) Size() (width, height int) { return d.width, d.height }

// ColorView returns the color target handle.
func (d *Device) ColorView() gpu.ViewID {
	if d.color == nil {
		return 0
	}
	return d.color.ID()
}

// Initialized reports whether Initialize succeeded and Close has not run.
func (d *Device) Initialized() bool { return d.initialized }

// Close releases everything Initialize created. Safe to call more than once.
func (d *Device) Close() {
	d.release()
	d.initialized = false
}

func (d *Device) release() {
	d.frame.Release()
	d.frame = nil
	d.color.Release()
	d.depth.Release()
	d.color, d.depth = nil, nil
	if d.sampler != 0 {
		d.backend.DeleteSampler(d.sampler)
		d.sampler = 0
	}
	if d.layout != 0 {
		d.backend.DeleteInputLayout(d.layout)
		d.layout = 0
	}
	if d.program != 0 {
		d.backend.DeleteProgram(d.program)
		d.program = 0
	}
}
