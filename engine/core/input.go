package core

import stdmath "math"

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_BACKSPACE KeyCode = 0x08
	KEY_TAB       KeyCode = 0x09
	KEY_ENTER     KeyCode = 0x0D
	KEY_SHIFT     KeyCode = 0x10
	KEY_ESCAPE    KeyCode = 0x1B
	KEY_SPACE     KeyCode = 0x20
	KEY_LEFT      KeyCode = 0x25
	KEY_UP        KeyCode = 0x26
	KEY_RIGHT     KeyCode = 0x27
	KEY_DOWN      KeyCode = 0x28
	KEY_DELETE    KeyCode = 0x2E
	KEY_A         KeyCode = 0x41
	KEY_D         KeyCode = 0x44
	KEY_E         KeyCode = 0x45
	KEY_Q         KeyCode = 0x51
	KEY_R         KeyCode = 0x52
	KEY_S         KeyCode = 0x53
	KEY_W         KeyCode = 0x57
	KEY_F1        KeyCode = 0x70
	KEYS_MAX_KEYS KeyCode = 0x100
)

// DefaultClickSlop is the cursor travel, in pixels, under which a
// press/release pair of the left button counts as a click.
const DefaultClickSlop = 4.0

// Mouse state structure
type MouseState struct {
	X       float64
	Y       float64
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [KEYS_MAX_KEYS]bool
}

// Input holds current and previous states for keyboard and mouse and turns
// raw platform callbacks into events on the bus.
type Input struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState

	ClickSlop float64

	events       *EventBus
	pressX       float64
	pressY       float64
	dragDistance float64
}

func NewInput(events *EventBus) *Input {
	in := &Input{
		ClickSlop: DefaultClickSlop,
		events:    events,
	}
	LogInfo("Input subsystem initialized.")
	return in
}

// Update copies the current states to the previous states. Should be the
// last thing that happens in a frame.
func (in *Input) Update(deltaTime float64) {
	in.KeyboardPrevious = in.KeyboardCurrent
	in.MousePrevious = in.MouseCurrent
}

// keyboard input
func (in *Input) IsKeyDown(key KeyCode) bool {
	return key < KEYS_MAX_KEYS && in.KeyboardCurrent.Keys[key]
}

func (in *Input) IsKeyUp(key KeyCode) bool {
	return !in.IsKeyDown(key)
}

func (in *Input) WasKeyDown(key KeyCode) bool {
	return key < KEYS_MAX_KEYS && in.KeyboardPrevious.Keys[key]
}

func (in *Input) WasKeyUp(key KeyCode) bool {
	return !in.WasKeyDown(key)
}

func (in *Input) ProcessKey(key KeyCode, pressed bool) {
	if key >= KEYS_MAX_KEYS {
		return
	}
	// Only handle this if the state actually changed.
	if in.KeyboardCurrent.Keys[key] == pressed {
		return
	}
	in.KeyboardCurrent.Keys[key] = pressed

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	in.events.Fire(EventContext{
		Type: code,
		Data: &KeyEvent{KeyCode: key},
	})
}

// mouse input
func (in *Input) IsButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && in.MouseCurrent.Buttons[button]
}

func (in *Input) IsButtonUp(button Button) bool {
	return !in.IsButtonDown(button)
}

func (in *Input) WasButtonDown(button Button) bool {
	return button < BUTTON_MAX_BUTTONS && in.MousePrevious.Buttons[button]
}

func (in *Input) WasButtonUp(button Button) bool {
	return !in.WasButtonDown(button)
}

func (in *Input) GetMousePosition() (float64, float64) {
	return in.MouseCurrent.X, in.MouseCurrent.Y
}

func (in *Input) GetPreviousMousePosition() (float64, float64) {
	return in.MousePrevious.X, in.MousePrevious.Y
}

func (in *Input) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS || in.MouseCurrent.Buttons[button] == pressed {
		return
	}
	in.MouseCurrent.Buttons[button] = pressed

	x, y := in.MouseCurrent.X, in.MouseCurrent.Y
	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
		if button == BUTTON_LEFT {
			in.pressX, in.pressY = x, y
			in.dragDistance = 0
		}
	}
	in.events.Fire(EventContext{
		Type: code,
		Data: &MouseEvent{Button: button, PosX: x, PosY: y},
	})

	if !pressed && button == BUTTON_LEFT && in.dragDistance <= in.ClickSlop {
		in.events.Fire(EventContext{
			Type: EVENT_CODE_CLICK,
			Data: &MouseEvent{Button: button, PosX: x, PosY: y},
		})
	}
}

func (in *Input) ProcessMouseMove(x, y float64) {
	// Only process if actually different
	if in.MouseCurrent.X == x && in.MouseCurrent.Y == y {
		return
	}
	in.MouseCurrent.X = x
	in.MouseCurrent.Y = y

	if in.MouseCurrent.Buttons[BUTTON_LEFT] {
		d := stdmath.Hypot(x-in.pressX, y-in.pressY)
		if d > in.dragDistance {
			in.dragDistance = d
		}
	}

	in.events.Fire(EventContext{
		Type: EVENT_CODE_MOUSE_MOVED,
		Data: &MouseEvent{PosX: x, PosY: y},
	})
}

func (in *Input) ProcessMouseWheel(delta float64) {
	x, y := in.MouseCurrent.X, in.MouseCurrent.Y
	in.events.Fire(EventContext{
		Type: EVENT_CODE_MOUSE_WHEEL,
		Data: &MouseEvent{PosX: x, PosY: y, Scroll: delta},
	})
}
