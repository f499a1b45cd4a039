// Package ui provides the ImGui settings panel and the ImGui-owned window
// used when the panel is enabled.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/input"
	"github.com/Faultbox/lightlab/internal/logger"
)

// imguiKeys maps ImGui keys to viewer keys.
var imguiKeys = map[input.Key]imgui.Key{
	input.KeyW:      imgui.KeyW,
	input.KeyA:      imgui.KeyA,
	input.KeyS:      imgui.KeyS,
	input.KeyD:      imgui.KeyD,
	input.KeyQ:      imgui.KeyQ,
	input.KeyE:      imgui.KeyE,
	input.KeyEscape: imgui.KeyEscape,
	input.KeyF12:    imgui.KeyF12,
}

// Backend wraps the ImGui SDL backend. It owns the window and GL context.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
}

// NewBackend creates the window. The GL context is current when it returns.
func NewBackend(title string, width, height int) (*Backend, error) {
	b := &Backend{}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.1, 0.1, 0.1, 1.0))
	b.backend.CreateWindow(title, width, height)

	logger.Info("imgui window created", zap.String("title", title), zap.Int("width", width), zap.Int("height", height))
	return b, nil
}

// Run starts the main loop. renderFunc runs once per frame inside an ImGui frame.
func (b *Backend) Run(renderFunc func()) {
	b.backend.Run(renderFunc)
}

// Quit asks the loop to stop after the current frame.
func (b *Backend) Quit() {
	b.backend.SetShouldClose(true)
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// DisplaySize returns the current drawable size.
func (b *Backend) DisplaySize() (width, height int) {
	w, h := b.backend.DisplaySize()
	return int(w), int(h)
}

// PollKeys copies ImGui's key state into kb. Keys typed into a widget are ignored.
func PollKeys(kb *input.Keyboard) {
	capture := imgui.CurrentIO().WantCaptureKeyboard()
	for key, ik := range imguiKeys {
		kb.SetDown(key, !capture && imgui.IsKeyDown(ik))
	}
}

// DrawSceneTexture draws a rendered color texture as the window background.
func DrawSceneTexture(x, y, w, h float32, textureID uint32) {
	if textureID == 0 {
		return
	}

	imgui.SetNextWindowPos(imgui.NewVec2(x, y))
	imgui.SetNextWindowSize(imgui.NewVec2(w, h))

	flags := imgui.WindowFlagsNoTitleBar | imgui.WindowFlagsNoResize |
		imgui.WindowFlagsNoMove | imgui.WindowFlagsNoScrollbar |
		imgui.WindowFlagsNoScrollWithMouse | imgui.WindowFlagsNoBringToFrontOnFocus |
		imgui.WindowFlagsNoInputs

	imgui.PushStyleVarVec2(imgui.StyleVarWindowPadding, imgui.NewVec2(0, 0))
	if imgui.BeginV("##SceneBackground", nil, flags) {
		texRef := imgui.NewTextureRefTextureID(imgui.TextureID(textureID))
		imgui.ImageV(*texRef,
			imgui.NewVec2(w, h),
			imgui.NewVec2(0, 1),
			imgui.NewVec2(1, 0))
	}
	imgui.End()
	imgui.PopStyleVar()
}

// Swapchain returns a swapchain that presents through the ImGui frame.
// Present only rebinds the window framebuffer for ImGui's own draw pass;
// the color view reaches the screen through DrawSceneTexture.
func (b *Backend) Swapchain(dev gpu.Backend) gpu.Swapchain {
	w, h := b.DisplaySize()
	return &swapchain{device: dev, width: w, height: h}
}

type swapchain struct {
	device        gpu.Backend
	width, height int
}

func (s *swapchain) ResizeBuffers(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize back buffer %dx%d: %w", width, height, gpu.ErrInvalidSize)
	}
	s.width, s.height = width, height
	return nil
}

// Present ignores syncInterval: the SDL backend owns the swap and always waits for vsync.
func (s *swapchain) Present(color gpu.ViewID, width, height, syncInterval int) error {
	s.device.SetDefaultTarget()
	s.device.SetViewport(gpu.Viewport{Width: s.width, Height: s.height, MinDepth: 0, MaxDepth: 1})
	return nil
}
