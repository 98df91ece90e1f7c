// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int32
	Height int32
	MouseX int32
	MouseY int32
	DeltaX int32
	DeltaY int32
	Wheel  float32
	Button uint8
}

// Source yields raw SDL events. PollSDL is the live implementation.
type Source func() sdl.Event

// PollSDL polls the SDL event queue.
func PollSDL() sdl.Event { return sdl.PollEvent() }

// Input translates SDL events and tracks held keys and buttons.
type Input struct {
	poll    Source
	events  []Event
	held    map[sdl.Scancode]bool
	buttons map[uint8]bool
}

// New creates an input handler reading from poll.
func New(poll Source) *Input {
	return &Input{
		poll:    poll,
		events:  make([]Event, 0, 16),
		held:    make(map[sdl.Scancode]bool),
		buttons: make(map[uint8]bool),
	}
}

// Update drains pending events. It returns true if the user asked to quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := i.poll(); event != nil; event = i.poll() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{Type: EventWindowResize, Width: e.Data1, Height: e.Data2})
			}

		case *sdl.KeyboardEvent:
			code := e.Keysym.Scancode
			switch e.Type {
			case sdl.KEYDOWN:
				if e.Repeat == 0 {
					i.events = append(i.events, Event{Type: EventKeyDown, Key: code})
				}
				i.held[code] = true
			case sdl.KEYUP:
				i.events = append(i.events, Event{Type: EventKeyUp, Key: code})
				delete(i.held, code)
			}

		case *sdl.MouseMotionEvent:
			i.events = append(i.events, Event{
				Type:   EventMouseMove,
				MouseX: e.X,
				MouseY: e.Y,
				DeltaX: e.XRel,
				DeltaY: e.YRel,
			})

		case *sdl.MouseButtonEvent:
			ev := Event{MouseX: e.X, MouseY: e.Y, Button: e.Button}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = EventMouseDown
				i.buttons[e.Button] = true
			} else {
				ev.Type = EventMouseUp
				delete(i.buttons, e.Button)
			}
			i.events = append(i.events, ev)

		case *sdl.MouseWheelEvent:
			i.events = append(i.events, Event{Type: EventMouseWheel, Wheel: float32(e.Y)})
		}
	}
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed reports whether scancode went down during the last Update.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

// IsKeyHeld reports whether scancode is currently down.
func (i *Input) IsKeyHeld(scancode sdl.Scancode) bool { return i.held[scancode] }

// IsButtonHeld reports whether a mouse button is currently down.
func (i *Input) IsButtonHeld(button uint8) bool { return i.buttons[button] }

// Axis returns +1, -1 or 0 from a pair of held keys.
func (i *Input) Axis(negative, positive sdl.Scancode) float32 {
	var v float32
	if i.held[positive] {
		v++
	}
	if i.held[negative] {
		v--
	}
	return v
}
