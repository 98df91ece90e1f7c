package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

// queue replays events as a Source.
func queue(events ...sdl.Event) Source {
	return func() sdl.Event {
		if len(events) == 0 {
			return nil
		}
		e := events[0]
		events = events[1:]
		return e
	}
}

func key(typ uint32, code sdl.Scancode, repeat uint8) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: typ, Repeat: repeat, Keysym: sdl.Keysym{Scancode: code}}
}

func TestKeyState(t *testing.T) {
	var pending []sdl.Event
	in := New(func() sdl.Event {
		if len(pending) == 0 {
			return nil
		}
		e := pending[0]
		pending = pending[1:]
		return e
	})

	pending = []sdl.Event{key(sdl.KEYDOWN, sdl.SCANCODE_W, 0)}
	in.Update()
	if !in.IsKeyPressed(sdl.SCANCODE_W) || !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Fatal("W not pressed and held")
	}
	if in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W) != 1 {
		t.Error("axis should be +1")
	}

	pending = []sdl.Event{key(sdl.KEYDOWN, sdl.SCANCODE_W, 1)}
	in.Update()
	if in.IsKeyPressed(sdl.SCANCODE_W) {
		t.Error("auto-repeat reported as a press")
	}
	if !in.IsKeyHeld(sdl.SCANCODE_W) {
		t.Error("W released by auto-repeat")
	}

	pending = []sdl.Event{key(sdl.KEYUP, sdl.SCANCODE_W, 0)}
	in.Update()
	if in.IsKeyHeld(sdl.SCANCODE_W) || in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W) != 0 {
		t.Error("W still held after key up")
	}
}

func TestUpdateTranslatesEvents(t *testing.T) {
	in := New(queue(
		&sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
		&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 5, Y: 6},
		&sdl.MouseMotionEvent{X: 7, Y: 8, XRel: 2, YRel: -1},
		&sdl.MouseWheelEvent{Y: -1},
		&sdl.QuitEvent{},
	))
	if !in.Update() {
		t.Error("quit not reported")
	}

	want := []EventType{EventWindowResize, EventMouseDown, EventMouseMove, EventMouseWheel, EventQuit}
	got := in.Events()
	if len(got) != len(want) {
		t.Fatalf("got %d events, want %d", len(got), len(want))
	}
	for i, typ := range want {
		if got[i].Type != typ {
			t.Errorf("event %d type = %d, want %d", i, got[i].Type, typ)
		}
	}
	if got[0].Width != 800 || got[2].DeltaX != 2 || got[3].Wheel != -1 {
		t.Errorf("event payloads = %+v", got)
	}
	if !in.IsButtonHeld(sdl.BUTTON_LEFT) {
		t.Error("left button not held")
	}
}
