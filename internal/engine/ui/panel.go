package ui

import (
	"errors"
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/engine/debug"
	"github.com/Faultbox/lightlab/internal/engine/scene"
	"github.com/Faultbox/lightlab/internal/logger"
)

// Drag speeds of the settings widgets.
const (
	locationSpeed = 0.03
	rotationSpeed = 0.5
	scaleSpeed    = 0.05
	fovSpeed      = 0.05
)

// Panel is the "Settings" window. It edits the scene in place.
type Panel struct {
	Visible bool

	shots *debug.ScreenshotCapture
	// pendingDir carries a folder picked by the native dialog goroutine
	// back to the render thread.
	pendingDir chan string
	browsing   bool
}

// NewPanel creates a visible panel. shots may be nil, which hides the
// screenshot section.
func NewPanel(shots *debug.ScreenshotCapture) *Panel {
	return &Panel{
		Visible:    true,
		shots:      shots,
		pendingDir: make(chan string, 1),
	}
}

// Draw builds the panel for this ImGui frame.
func (p *Panel) Draw(s *scene.Scene) {
	p.applyPendingDir()
	if !p.Visible {
		return
	}

	if imgui.Begin("Settings") {
		p.drawModel(s)
		section()
		p.drawCamera(s)
		section()
		p.drawLight(s)
		if p.shots != nil {
			section()
			p.drawScreenshots()
		}
	}
	imgui.End()
}

func section() {
	imgui.Spacing()
	imgui.Separator()
	imgui.Spacing()
}

func (p *Panel) drawModel(s *scene.Scene) {
	imgui.PushIDStr("model")
	defer imgui.PopID()

	imgui.Text("Model")
	names := s.MeshNames()
	if imgui.BeginCombo("Mesh", comboPreview(names, s.ActiveIndex())) {
		for i, name := range names {
			if imgui.SelectableBoolV(name, i == s.ActiveIndex(), 0, imgui.NewVec2(0, 0)) {
				selectMesh(s, i)
			}
		}
		imgui.EndCombo()
	}

	t := &s.Transform
	imgui.DragFloat3V("Location", (*[3]float32)(&t.Location), locationSpeed, 0, 0, "%.3f", imgui.SliderFlagsNone)
	imgui.DragFloat3V("Rotation", (*[3]float32)(&t.Rotation), rotationSpeed, 0, 0, "%.3f", imgui.SliderFlagsNone)
	imgui.DragFloat3V("Scale", (*[3]float32)(&t.Scale), scaleSpeed, 0, 0, "%.3f", imgui.SliderFlagsNone)
}

func (p *Panel) drawCamera(s *scene.Scene) {
	imgui.PushIDStr("camera")
	defer imgui.PopID()

	imgui.Text("Camera")
	cam := s.Camera
	imgui.DragFloat3V("Location", (*[3]float32)(&cam.Location), locationSpeed, 0, 0, "%.3f", imgui.SliderFlagsNone)
	imgui.DragFloatV("FOV", &cam.FOV, fovSpeed, 1, 179, "%.3f", imgui.SliderFlagsNone)
}

func (p *Panel) drawLight(s *scene.Scene) {
	imgui.PushIDStr("light")
	defer imgui.PopID()

	imgui.Text("Light settings")
	l := &s.Light
	imgui.DragFloat3V("Position", (*[3]float32)(l.Position[:3]), locationSpeed, 0, 0, "%.3f", imgui.SliderFlagsNone)
	imgui.ColorEdit3("Ambient color", (*[3]float32)(l.AmbientColor[:3]))
	imgui.ColorEdit3("Light color", (*[3]float32)(l.LightColor[:3]))
	imgui.DragFloat("Ambient intensity", &l.AmbientStrength)
	imgui.DragFloat("Specular intensity", &l.SpecularStrength)
	imgui.DragFloat("Specular power", &l.SpecularPower)

	imgui.Spacing()
	imgui.TextDisabled(fmt.Sprintf("%.1f FPS", imgui.CurrentIO().Framerate()))
}

func (p *Panel) drawScreenshots() {
	imgui.PushIDStr("screenshots")
	defer imgui.PopID()

	imgui.Text("Screenshots (F12)")
	imgui.TextWrapped(p.shots.OutputDir())
	if p.browsing {
		imgui.BeginDisabled()
		imgui.Button("Browse...")
		imgui.EndDisabled()
		return
	}
	if imgui.Button("Browse...") {
		p.browseDir()
	}
}

// browseDir opens the native folder picker without blocking the frame. The
// choice is applied by the next Draw on the render thread.
func (p *Panel) browseDir() {
	p.browsing = true
	start := p.shots.OutputDir()
	go func() {
		dir, err := dialog.Directory().
			Title("Screenshot folder").
			SetStartDir(start).
			Browse()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				logger.Warn("folder dialog failed", zap.Error(err))
			}
			dir = ""
		}
		p.pendingDir <- dir
	}()
}

// applyPendingDir takes a dialog result, if any. An empty result is a cancel.
func (p *Panel) applyPendingDir() {
	select {
	case dir := <-p.pendingDir:
		p.browsing = false
		if dir == "" || p.shots == nil {
			return
		}
		p.shots.SetOutputDir(dir)
		logger.Info("screenshot folder changed", zap.String("dir", dir))
	default:
	}
}

// comboPreview returns the label shown on the closed mesh combo.
func comboPreview(names []string, active int) string {
	if active < 0 || active >= len(names) {
		return "(none)"
	}
	return names[active]
}

// selectMesh switches the drawn mesh. The next frame binds its buffers.
func selectMesh(s *scene.Scene, i int) {
	if i == s.ActiveIndex() {
		return
	}
	if err := s.SetActive(i); err != nil {
		logger.Warn("mesh selection rejected", zap.Int("index", i), zap.Error(err))
		return
	}
	logger.Debug("active mesh changed", zap.String("mesh", s.Active().Name))
}
