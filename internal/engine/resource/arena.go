// Package resource tracks shared GPU resource records with explicit
// reference counts. A record is freed, exactly once, when its last reference
// is released. Handles carry a generation so a handle to a freed and reused
// slot is detected instead of silently touching the new occupant.
package resource

import (
	"fmt"

	"github.com/Faultbox/tickframe/internal/assert"
)

// Handle refers to one arena record. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// Valid reports whether h was issued by an arena.
func (h Handle) Valid() bool { return h.gen != 0 }

func (h Handle) String() string {
	return fmt.Sprintf("resource(%d#%d)", h.index, h.gen)
}

type record struct {
	gen     uint32
	refs    int
	release func()
	claims  []any
}

// Arena owns resource records. It is not safe for concurrent use; the engine
// touches it only from the main thread.
type Arena struct {
	records []record
	free    []uint32
	claims  map[any]Handle
	live    int
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{claims: make(map[any]Handle)}
}

// Insert creates a record with one reference. release runs when the last
// reference goes away. Each claim marks a resource (typically a mesh or
// material) as exclusively owned by this record; claiming something already
// owned by a live record is a programming error.
func (a *Arena) Insert(release func(), claims ...any) Handle {
	for _, c := range claims {
		owner, taken := a.claims[c]
		assert.T(!taken, "%v is already owned by %v", c, owner)
	}

	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.records = append(a.records, record{})
		idx = uint32(len(a.records) - 1)
	}

	r := &a.records[idx]
	r.gen++
	r.refs = 1
	r.release = release
	r.claims = claims
	h := Handle{index: idx, gen: r.gen}
	for _, c := range claims {
		a.claims[c] = h
	}
	a.live++
	return h
}

func (a *Arena) lookup(h Handle) *record {
	assert.T(h.Valid() && int(h.index) < len(a.records), "unknown %v", h)
	r := &a.records[h.index]
	assert.T(r.gen == h.gen && r.refs > 0, "stale %v", h)
	return r
}

// Retain adds a reference.
func (a *Arena) Retain(h Handle) {
	a.lookup(h).refs++
}

// Release drops a reference and reports whether the record was freed.
func (a *Arena) Release(h Handle) bool {
	r := a.lookup(h)
	r.refs--
	if r.refs > 0 {
		return false
	}

	release := r.release
	for _, c := range r.claims {
		delete(a.claims, c)
	}
	r.release = nil
	r.claims = nil
	a.free = append(a.free, h.index)
	a.live--

	if release != nil {
		release()
	}
	return true
}

// Refs returns the reference count, or 0 if h is no longer alive.
func (a *Arena) Refs(h Handle) int {
	if !a.Alive(h) {
		return 0
	}
	return a.records[h.index].refs
}

// Alive reports whether h still refers to a live record.
func (a *Arena) Alive(h Handle) bool {
	if !h.Valid() || int(h.index) >= len(a.records) {
		return false
	}
	r := &a.records[h.index]
	return r.gen == h.gen && r.refs > 0
}

// Owner returns the record that claimed c.
func (a *Arena) Owner(c any) (Handle, bool) {
	h, ok := a.claims[c]
	return h, ok
}

// Live returns the number of live records.
func (a *Arena) Live() int { return a.live }
