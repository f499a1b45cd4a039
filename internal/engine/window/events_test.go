package window

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lightlab/internal/engine/input"
)

func TestKeyFromScancode(t *testing.T) {
	if KeyFromScancode(sdl.SCANCODE_E) != input.KeyE {
		t.Error("E should map to KeyE")
	}
	if KeyFromScancode(sdl.SCANCODE_Z) != input.KeyUnknown {
		t.Error("Z is not mapped")
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  input.Event
	}{
		{"quit", &sdl.QuitEvent{}, input.Event{Type: input.EventQuit}},
		{
			"resize",
			&sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 1280, Data2: 720},
			input.Event{Type: input.EventWindowResize, Width: 1280, Height: 720},
		},
		{
			"key down",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			input.Event{Type: input.EventKeyDown, Key: input.KeyW},
		},
		{
			"key up",
			&sdl.KeyboardEvent{Type: sdl.KEYUP, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}},
			input.Event{Type: input.EventKeyUp, Key: input.KeyF12},
		},
		{
			"repeat ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			input.Event{},
		},
		{
			"unmapped ignored",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_Z}},
			input.Event{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := translate(input.New(), tt.event); got != tt.want {
				t.Errorf("translate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFocusLostReleasesKeys(t *testing.T) {
	in := input.New()
	in.Keyboard.SetDown(input.KeyW, true)

	translate(in, &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_LOST})

	if in.Keyboard.IsDown(input.KeyW) {
		t.Error("focus loss should release held keys")
	}
}
