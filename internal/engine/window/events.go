package window

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/lightlab/internal/engine/input"
)

// scancodes maps SDL scancodes to keys. Unlisted scancodes are ignored.
var scancodes = map[sdl.Scancode]input.Key{
	sdl.SCANCODE_W:      input.KeyW,
	sdl.SCANCODE_A:      input.KeyA,
	sdl.SCANCODE_S:      input.KeyS,
	sdl.SCANCODE_D:      input.KeyD,
	sdl.SCANCODE_Q:      input.KeyQ,
	sdl.SCANCODE_E:      input.KeyE,
	sdl.SCANCODE_ESCAPE: input.KeyEscape,
	sdl.SCANCODE_F12:    input.KeyF12,
}

// KeyFromScancode converts an SDL scancode. Unmapped scancodes return KeyUnknown.
func KeyFromScancode(sc sdl.Scancode) input.Key {
	return scancodes[sc]
}

// PollEvents drains the SDL event queue into in and returns true on quit.
func PollEvents(in *input.Input) bool {
	in.Begin()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e := translate(in, event); e.Type != input.EventNone {
			in.Apply(e)
		}
	}

	return in.Quit()
}

func translate(in *input.Input, event sdl.Event) input.Event {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return input.Event{Type: input.EventQuit}

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			return input.Event{Type: input.EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}
		}
		if e.Event == sdl.WINDOWEVENT_FOCUS_LOST {
			// Key-up events are lost while unfocused.
			in.Keyboard.Reset()
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return input.Event{}
		}
		key := KeyFromScancode(e.Keysym.Scancode)
		if key == input.KeyUnknown {
			return input.Event{}
		}
		if e.Type == sdl.KEYDOWN {
			return input.Event{Type: input.EventKeyDown, Key: key}
		}
		return input.Event{Type: input.EventKeyUp, Key: key}
	}
	return input.Event{}
}
