package audio

import (
	"sync/atomic"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"

	"github.com/Faultbox/tickframe/pkg/math"
)

// Listener is where spatial sounds are heard from.
type Listener interface {
	// ListenerPose returns the ear position and the unit vector pointing to
	// the listener's right.
	ListenerPose(interp float32) (pos, right math.Vec3)
}

// Emitter is a sound source that follows an interpolated position.
type Emitter struct {
	source func(interp float32) math.Vec3
	voices []*voice
}

type voice struct {
	pan    *effects.Pan
	volume *effects.Volume
	done   atomic.Bool
}

// Voices returns the number of sounds still playing from e.
func (e *Emitter) Voices() int { return len(e.voices) }

// SetListener sets who hears spatial sounds.
func (m *Manager) SetListener(l Listener) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listener = l
}

// NewEmitter registers a spatial source.
func (m *Manager) NewEmitter(source func(interp float32) math.Vec3) *Emitter {
	m.mu.Lock()
	defer m.mu.Unlock()
	e := &Emitter{source: source}
	m.emitters = append(m.emitters, e)
	return e
}

// RemoveEmitter silences e and stops tracking it.
func (m *Manager) RemoveEmitter(e *Emitter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, cur := range m.emitters {
		if cur == e {
			m.emitters = append(m.emitters[:i], m.emitters[i+1:]...)
			break
		}
	}
	m.locked(func() {
		for _, v := range e.voices {
			v.volume.Silent = true
		}
	})
	e.voices = nil
}

// Emitters returns how many emitters are registered.
func (m *Manager) Emitters() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.emitters)
}

// PlayAt plays s from e.
func (m *Manager) PlayAt(e *Emitter, s *Sound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.initialized {
		return ErrNotInitialized
	}
	m.attach(e, s.streamer())
	return nil
}

func (m *Manager) attach(e *Emitter, src beep.Streamer) *voice {
	v := &voice{}
	v.pan = &effects.Pan{Streamer: src}
	v.volume = &effects.Volume{Streamer: v.pan, Base: 2}
	e.voices = append(e.voices, v)
	m.spatialize(e, v, 1)
	m.locked(func() {
		m.sfx.Add(beep.Seq(v.volume, beep.Callback(func() { v.done.Store(true) })))
	})
	return v
}

// Update repositions every playing spatial sound for the frame at interp
// and forgets finished ones.
func (m *Manager) Update(interp float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locked(func() {
		for _, e := range m.emitters {
			live := e.voices[:0]
			for _, v := range e.voices {
				if v.done.Load() {
					continue
				}
				m.spatialize(e, v, interp)
				live = append(live, v)
			}
			clear(e.voices[len(live):])
			e.voices = live
		}
	})
}

func (m *Manager) spatialize(e *Emitter, v *voice, interp float32) {
	if m.listener == nil {
		v.pan.Pan = 0
		setLevel(v.volume, m.sfxLevel())
		return
	}
	pos, right := m.listener.ListenerPose(interp)
	pan, gain := spatialize(pos, right, e.source(interp), m.settings.HearingRange)
	v.pan.Pan = pan
	setLevel(v.volume, gain*m.sfxLevel())
}

// spatialize returns stereo pan in [-1, 1] and linear gain in [0, 1] for a
// source heard from listener. Gain falls off linearly to zero at hearing.
func spatialize(listener, right, source math.Vec3, hearing float32) (pan, gain float64) {
	offset := source.Sub(listener)
	dist := offset.Length()
	if dist >= hearing {
		return 0, 0
	}
	gain = float64(1 - dist/hearing)
	if dist < 1e-4 {
		return 0, gain
	}
	p := offset.Scale(1 / dist).Dot(right)
	return clamp(float64(p), -1, 1), gain
}
