// Package input tracks keyboard state and window events independent of the
// windowing library that produces them.
package input

// EventType is the kind of a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    Key
	Width  int
	Height int
}

// Input collects the events of one pump and the keyboard they drive.
type Input struct {
	Keyboard Keyboard
	events   []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Begin drops the events of the previous pump.
func (i *Input) Begin() {
	i.events = i.events[:0]
}

// Apply records an event and updates the keyboard.
func (i *Input) Apply(e Event) {
	switch e.Type {
	case EventKeyDown:
		i.Keyboard.SetDown(e.Key, true)
	case EventKeyUp:
		i.Keyboard.SetDown(e.Key, false)
	}
	i.events = append(i.events, e)
}

// Events returns the events applied since Begin.
func (i *Input) Events() []Event {
	return i.events
}

// Quit reports whether a quit event was applied since Begin.
func (i *Input) Quit() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return false
}
