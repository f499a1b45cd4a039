// Package app implements the viewer's frame loop.
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/asset"
	"github.com/Faultbox/lightlab/internal/engine/debug"
	"github.com/Faultbox/lightlab/internal/engine/device"
	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/input"
	"github.com/Faultbox/lightlab/internal/engine/scene"
	"github.com/Faultbox/lightlab/internal/logger"
)

// App is the viewer: one device, one scene, one keyboard.
type App struct {
	config  *config.Config
	device  *device.Device
	scene   *scene.Scene
	input   *input.Input
	shots   *debug.ScreenshotCapture
	running bool
	title   string

	width, height int

	// Overlay runs after the scene is drawn and before Present.
	Overlay func(s *scene.Scene)
}

// New initializes the device at the configured window size and loads the
// configured meshes.
func New(cfg *config.Config, b gpu.Backend, sc gpu.Swapchain) (*App, error) {
	shaders, err := device.ConfigFrom(cfg.Shaders)
	if err != nil {
		return nil, fmt.Errorf("failed to load shaders: %w", err)
	}

	dev := device.New(b, sc, shaders)
	if err := dev.Initialize(cfg.Window.Width, cfg.Window.Height); err != nil {
		return nil, fmt.Errorf("failed to initialize device: %w", err)
	}

	meshes, err := asset.Load(b, cfg)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}

	return NewWithMeshes(cfg, dev, meshes)
}

// NewWithMeshes builds the app around an initialized device and loaded
// meshes. It takes ownership of both.
func NewWithMeshes(cfg *config.Config, dev *device.Device, meshes []*asset.Mesh) (*App, error) {
	s := scene.New(meshes, cfg.Scene)
	if err := s.SetActive(cfg.Assets.InitialMesh); err != nil {
		s.Release()
		dev.Close()
		return nil, fmt.Errorf("initial mesh: %w", err)
	}

	w, h := dev.Size()
	a := &App{
		config:  cfg,
		device:  dev,
		scene:   s,
		input:   input.New(),
		shots:   debug.NewScreenshotCapture(cfg.Screenshot.Dir, "lightlab", cfg.Screenshot.Format),
		running: true,
		width:   w,
		height:  h,
	}

	logger.Info("viewer initialized",
		zap.Int("meshes", len(meshes)),
		zap.String("active", s.Active().Name),
	)
	return a, nil
}

// Scene returns the viewer scene.
func (a *App) Scene() *scene.Scene { return a.scene }

// Device returns the graphics device.
func (a *App) Device() *device.Device { return a.device }

// Input returns the keyboard and event state.
func (a *App) Input() *input.Input { return a.input }

// Screenshots returns the screenshot writer used by F12.
func (a *App) Screenshots() *debug.ScreenshotCapture { return a.shots }

// Running reports whether the loop should continue.
func (a *App) Running() bool { return a.running }

// Stop ends the loop after the current frame.
func (a *App) Stop() { a.running = false }

// Title returns the window title: the configured title and the active mesh.
func (a *App) Title() string {
	return fmt.Sprintf("%s - %s", a.config.Window.Title, a.scene.Active().Name)
}

// TitleChanged returns the current title and whether it differs from the one
// returned by the previous call. The first call always reports a change.
func (a *App) TitleChanged() (string, bool) {
	t := a.Title()
	if t == a.title {
		return t, false
	}
	a.title = t
	return t, true
}

// Size returns the surface size used for the projection aspect.
func (a *App) Size() (width, height int) { return a.width, a.height }

// HandleResize follows a change of the output surface. Zero sizes from a
// minimized window are dropped so the aspect ratio stays finite.
func (a *App) HandleResize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	a.width, a.height = width, height
	if err := a.device.Resize(width, height); err != nil {
		return fmt.Errorf("resize to %dx%d: %w", width, height, err)
	}
	return nil
}

// HandleEvents applies the events of the last input update.
func (a *App) HandleEvents(events []input.Event) error {
	for _, event := range events {
		switch event.Type {
		case input.EventQuit:
			a.running = false
		case input.EventWindowResize:
			if err := a.HandleResize(event.Width, event.Height); err != nil {
				return err
			}
		}
	}
	return nil
}

// Frame renders and presents one frame: clear, update uniforms, draw,
// overlay, present.
func (a *App) Frame() error {
	kb := &a.input.Keyboard
	if kb.Pressed(input.KeyEscape) {
		a.running = false
	}

	a.device.BeginFrame()

	if err := a.Update(); err != nil {
		return err
	}
	a.Draw()

	if kb.Pressed(input.KeyF12) {
		a.Screenshot()
	}
	if a.Overlay != nil {
		a.Overlay(a.scene)
	}

	kb.ClearPressed()

	if err := a.device.Present(); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Update moves the camera from the held keys and rewrites both uniform
// buffers. Movement is per frame, not per second.
func (a *App) Update() error {
	kb := &a.input.Keyboard
	cam := a.scene.Camera
	cam.Move(
		kb.Axis(input.KeyD, input.KeyA),
		kb.Axis(input.KeyE, input.KeyQ),
		kb.Axis(input.KeyW, input.KeyS),
	)

	aspect := float32(a.width) / float32(a.height)
	model := a.scene.Transform.Matrix()
	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix(aspect, a.config.Graphics.NearPlane, a.config.Graphics.FarPlane)

	frame := a.device.Frame()
	if err := frame.UpdateTransform(model, view, proj); err != nil {
		return err
	}

	a.scene.Light.SetCamera(cam.Location)
	return frame.UpdateLighting(a.scene.Light)
}

// Draw issues one indexed draw per submesh of the active mesh. The mesh
// buffers are bound once; only the texture changes between draws.
func (a *App) Draw() {
	mesh := a.scene.Active()
	if mesh == nil {
		return
	}

	b := a.device.Backend()
	b.SetVertexBuffer(mesh.VertexBuffer.ID(), asset.VertexStride)
	b.SetIndexBuffer(mesh.IndexBuffer.ID())

	first := 0
	for _, sm := range mesh.Submeshes {
		var tex gpu.TextureID
		if sm.Texture != nil {
			tex = sm.Texture.ID()
		}
		b.SetTexture(device.DiffuseSlot, tex)
		b.DrawIndexed(int(sm.IndexCount), first)
		first += int(sm.IndexCount)
	}
}

// Screenshot saves the color target. Failures are logged, not returned.
func (a *App) Screenshot() {
	pixels, w, h, err := a.device.Capture()
	if err != nil {
		logger.Error("screenshot capture failed", zap.Error(err))
		return
	}
	path, err := a.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		logger.Error("screenshot save failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases the scene and the device.
func (a *App) Close() {
	logger.Info("closing viewer")

	if a.scene != nil {
		a.scene.Release()
		a.scene = nil
	}
	if a.device != nil {
		a.device.Close()
		a.device = nil
	}
}
