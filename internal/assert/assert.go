// Package assert fails fast on programming errors: states that can only be
// reached through a logic bug, never through bad input or missing files.
package assert

import "fmt"

// Error is the panic value raised by T.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return "assertion failed: " + e.Msg
}

// T panics with a formatted *Error when cond is false.
func T(cond bool, format string, args ...any) {
	if cond {
		return
	}
	panic(&Error{Msg: fmt.Sprintf(format, args...)})
}

// Panics runs fn and returns the assertion message if fn panicked with *Error.
// Other panics propagate.
func Panics(fn func()) (msg string, ok bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, isAssert := r.(*Error)
		if !isAssert {
			panic(r)
		}
		msg, ok = e.Msg, true
	}()
	fn()
	return "", false
}
