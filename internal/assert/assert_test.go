package assert

import (
	"strings"
	"testing"
)

func TestT(t *testing.T) {
	if _, ok := Panics(func() { T(true, "never") }); ok {
		t.Error("T(true) should not panic")
	}

	msg, ok := Panics(func() { T(false, "mesh %q has format %d", "crate", 2) })
	if !ok {
		t.Fatal("T(false) should panic")
	}
	if !strings.Contains(msg, `mesh "crate" has format 2`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestPanicsPropagatesForeignPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != "boom" {
			t.Errorf("recovered %v, want boom", r)
		}
	}()
	Panics(func() { panic("boom") })
}
