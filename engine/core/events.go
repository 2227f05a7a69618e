package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01

	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02

	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03

	// Mouse button pressed. Data: *MouseEvent with Button, PosX, PosY
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04

	// Mouse button released. Data: *MouseEvent with Button, PosX, PosY
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05

	// Mouse moved. Data: *MouseEvent with PosX, PosY
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06

	// Mouse wheel. Data: *MouseEvent with Scroll
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07

	// Resized/resolution changed from the OS. Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08

	// A left click that did not turn into a drag. Data: *MouseEvent with PosX, PosY
	EVENT_CODE_CLICK EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type EventContext struct {
	Type EventCode
	Data interface{}
}

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   float64
	PosY   float64
	Scroll float64
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

// EventBus dispatches events synchronously to registered listeners, in
// registration order. A listener returning true stops propagation.
type EventBus struct {
	mutex      sync.RWMutex
	registered map[EventCode][]*registeredEvent
	closed     bool
}

func NewEventBus() *EventBus {
	return &EventBus{
		registered: make(map[EventCode][]*registeredEvent),
	}
}

func (eb *EventBus) Shutdown() error {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	// Free the events arrays. And objects pointed to should be destroyed on their own.
	eb.registered = make(map[EventCode][]*registeredEvent)
	eb.closed = true
	return nil
}

// Register listens for events with the given code. A listener may register
// once per code; duplicates are rejected and false is returned.
func (eb *EventBus) Register(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	if eb.closed {
		return false
	}
	for _, e := range eb.registered[code] {
		if listener != nil && e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eb.registered[code] = append(eb.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

// Unregister removes the listener from the given code. Returns false when
// no matching registration exists.
func (eb *EventBus) Unregister(code EventCode, listener interface{}) bool {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()
	events := eb.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eb.registered[code] = append(events[:i:i], events[i+1:]...)
			return true
		}
	}
	return false
}

// Fire sends the event to listeners of its code. If an event handler returns
// true, the event is considered handled and is not passed on to any more
// listeners.
func (eb *EventBus) Fire(context EventContext) bool {
	eb.mutex.RLock()
	if eb.closed {
		eb.mutex.RUnlock()
		return false
	}
	events := append([]*registeredEvent(nil), eb.registered[context.Type]...)
	eb.mutex.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}
