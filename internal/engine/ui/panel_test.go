package ui

import (
	"testing"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/asset"
	"github.com/Faultbox/lightlab/internal/engine/debug"
	"github.com/Faultbox/lightlab/internal/engine/input"
	"github.com/Faultbox/lightlab/internal/engine/scene"
)

func TestComboPreview(t *testing.T) {
	names := []string{"dbd", "cube"}
	tests := []struct {
		active int
		want   string
	}{
		{0, "dbd"},
		{1, "cube"},
		{2, "(none)"},
		{-1, "(none)"},
	}
	for _, tt := range tests {
		if got := comboPreview(names, tt.active); got != tt.want {
			t.Errorf("comboPreview(%d) = %q, want %q", tt.active, got, tt.want)
		}
	}
}

func TestSelectMesh(t *testing.T) {
	s := scene.New([]*asset.Mesh{{Name: "a"}, {Name: "b"}}, config.Default().Scene)

	selectMesh(s, 1)
	if s.ActiveIndex() != 1 {
		t.Fatalf("active = %d, want 1", s.ActiveIndex())
	}

	selectMesh(s, 5)
	if s.ActiveIndex() != 1 {
		t.Errorf("out of range selection changed active mesh to %d", s.ActiveIndex())
	}
}

func TestEveryViewerKeyHasImGuiKey(t *testing.T) {
	for k := input.KeyUnknown + 1; k < input.KeyCount; k++ {
		if _, ok := imguiKeys[k]; !ok {
			t.Errorf("%s has no ImGui mapping", k)
		}
	}
}

func TestApplyPendingDir(t *testing.T) {
	shots := debug.NewScreenshotCapture("shots", "lightlab", debug.FormatPNG)
	p := NewPanel(shots)

	// Nothing pending.
	p.applyPendingDir()
	if got := shots.OutputDir(); got != "shots" {
		t.Fatalf("OutputDir = %q, want shots", got)
	}

	p.browsing = true
	p.pendingDir <- "/tmp/captures"
	p.applyPendingDir()
	if got := shots.OutputDir(); got != "/tmp/captures" {
		t.Errorf("OutputDir = %q, want /tmp/captures", got)
	}
	if p.browsing {
		t.Error("browsing should end once the dialog result is applied")
	}

	// A cancelled dialog reports an empty path and keeps the folder.
	p.browsing = true
	p.pendingDir <- ""
	p.applyPendingDir()
	if got := shots.OutputDir(); got != "/tmp/captures" {
		t.Errorf("cancel changed OutputDir to %q", got)
	}
	if p.browsing {
		t.Error("browsing should end after a cancel")
	}
}

func TestApplyPendingDirWithoutScreenshots(t *testing.T) {
	p := NewPanel(nil)
	p.pendingDir <- "/tmp/captures"
	p.applyPendingDir()
	if p.browsing {
		t.Error("browsing should be false")
	}
}
