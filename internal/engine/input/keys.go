package input

// Key is a platform-independent key identifier.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyQ
	KeyE
	KeyEscape
	KeyF12

	// KeyCount is the size of a key state table.
	KeyCount
)

var keyNames = [KeyCount]string{
	KeyUnknown: "Unknown",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyQ:       "Q",
	KeyE:       "E",
	KeyEscape:  "Escape",
	KeyF12:     "F12",
}

func (k Key) String() string {
	if k < 0 || k >= KeyCount {
		return "Unknown"
	}
	return keyNames[k]
}

// Keyboard is the held state of every Key plus edge detection for presses.
type Keyboard struct {
	down    [KeyCount]bool
	pressed [KeyCount]bool
}

// SetDown records a key transition. A transition from up to down also marks
// the key as pressed until the next ClearPressed.
func (kb *Keyboard) SetDown(k Key, down bool) {
	if k <= KeyUnknown || k >= KeyCount {
		return
	}
	if down && !kb.down[k] {
		kb.pressed[k] = true
	}
	kb.down[k] = down
}

// IsDown reports whether the key is held.
func (kb *Keyboard) IsDown(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return kb.down[k]
}

// Pressed reports whether the key went down since the last ClearPressed.
func (kb *Keyboard) Pressed(k Key) bool {
	if k < 0 || k >= KeyCount {
		return false
	}
	return kb.pressed[k]
}

// ClearPressed resets edge state. Call once per frame after handling presses.
func (kb *Keyboard) ClearPressed() {
	kb.pressed = [KeyCount]bool{}
}

// Reset releases every key.
func (kb *Keyboard) Reset() {
	*kb = Keyboard{}
}

// Axis returns +1 when pos is held, -1 when neg is held, 0 when both or neither.
func (kb *Keyboard) Axis(pos, neg Key) float32 {
	var v float32
	if kb.IsDown(pos) {
		v++
	}
	if kb.IsDown(neg) {
		v--
	}
	return v
}
