package audio

import (
	gomath "math"
	"testing"

	"github.com/gopxl/beep/v2"

	"github.com/Faultbox/tickframe/pkg/math"
)

func TestLevelToVolume(t *testing.T) {
	tests := []struct {
		level float64
		want  float64
	}{
		{1, 0},
		{0.5, -1},
		{0.25, -2},
		{0, -10},
	}
	for _, tt := range tests {
		if got := levelToVolume(tt.level); gomath.Abs(got-tt.want) > 1e-9 {
			t.Errorf("levelToVolume(%v) = %v, want %v", tt.level, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-1, 0, 1, 0},
		{2, 0, 1, 1},
	}
	for _, tt := range tests {
		if got := clamp(tt.v, tt.min, tt.max); got != tt.want {
			t.Errorf("clamp(%v, %v, %v) = %v, want %v", tt.v, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestSettings(t *testing.T) {
	m := New(Settings{Master: 2, SFX: -1, Music: 0.5})
	s := m.Settings()
	if s.Master != 1 || s.SFX != 0 || s.Music != 0.5 {
		t.Errorf("settings not clamped: %+v", s)
	}
	if s.HearingRange != DefaultSettings().HearingRange {
		t.Errorf("hearing range = %v", s.HearingRange)
	}

	m.SetMasterVolume(0.5)
	m.SetSFXVolume(0.5)
	if got := m.sfxLevel(); got != 0.25 {
		t.Errorf("sfx level = %v, want 0.25", got)
	}
	m.SetMuted(true)
	if m.sfxLevel() != 0 {
		t.Error("muted level should be 0")
	}
}

func TestPlayBeforeInit(t *testing.T) {
	m := New(DefaultSettings())
	if err := m.PlaySFX(&Sound{buf: beep.NewBuffer(beep.Format{SampleRate: DefaultSampleRate, NumChannels: 2, Precision: 2})}); err != ErrNotInitialized {
		t.Errorf("PlaySFX err = %v", err)
	}
	if err := m.PlayMusic(nil, "theme.wav", true); err != ErrNotInitialized {
		t.Errorf("PlayMusic err = %v", err)
	}
}

func TestLoadSoundRejectsGarbage(t *testing.T) {
	if _, err := LoadSound([]byte("not a wav file"), DefaultSampleRate); err == nil {
		t.Error("expected decode error")
	}
}

func TestSpatialize(t *testing.T) {
	right := math.Vec3{X: 1}
	tests := []struct {
		name     string
		source   math.Vec3
		pan      float64
		gain     float64
		panSlack float64
	}{
		{"at listener", math.Vec3{}, 0, 1, 0},
		{"hard right", math.Vec3{X: 5}, 1, 0.5, 1e-6},
		{"hard left", math.Vec3{X: -5}, -1, 0.5, 1e-6},
		{"ahead", math.Vec3{Z: -5}, 0, 0.5, 1e-6},
		{"out of range", math.Vec3{X: 20}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pan, gain := spatialize(math.Vec3{}, right, tt.source, 10)
			if gomath.Abs(pan-tt.pan) > tt.panSlack || gomath.Abs(gain-tt.gain) > 1e-6 {
				t.Errorf("pan %v gain %v, want %v %v", pan, gain, tt.pan, tt.gain)
			}
		})
	}
}

type fixedListener struct{}

func (fixedListener) ListenerPose(float32) (math.Vec3, math.Vec3) {
	return math.Vec3{}, math.Vec3{X: 1}
}

func TestEmitterFollowsSource(t *testing.T) {
	m := New(Settings{Master: 1, SFX: 1, HearingRange: 10})
	m.SetListener(fixedListener{})
	e := m.NewEmitter(func(interp float32) math.Vec3 {
		return math.Vec3{X: -5 + 10*interp}
	})

	v := m.attach(e, beep.Silence(-1))
	m.Update(0)
	if v.pan.Pan > -0.99 {
		t.Errorf("pan at 0 = %v, want left", v.pan.Pan)
	}
	m.Update(1)
	if v.pan.Pan < 0.99 {
		t.Errorf("pan at 1 = %v, want right", v.pan.Pan)
	}

	v.done.Store(true)
	m.Update(1)
	if e.Voices() != 0 {
		t.Errorf("finished voice not pruned, voices = %d", e.Voices())
	}

	m.RemoveEmitter(e)
	if m.Emitters() != 0 {
		t.Errorf("emitters = %d", m.Emitters())
	}
}
