// Package audio plays music and sound effects, and positions effects in
// space relative to a listener.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	gomath "math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/logger"
)

// DefaultSampleRate is the output sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// ErrNotInitialized is returned by playback calls before Init.
var ErrNotInitialized = errors.New("audio not initialized")

// Settings are the mixer levels, each in [0, 1].
type Settings struct {
	Master float64
	SFX    float64
	Music  float64
	Muted  bool
	// HearingRange is the distance at which spatial sounds fade out.
	HearingRange float32
}

// DefaultSettings returns full master and effect volume.
func DefaultSettings() Settings {
	return Settings{Master: 1, SFX: 1, Music: 0.7, HearingRange: 40}
}

// Manager owns the speaker, the effect mixer and the music track.
type Manager struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	settings    Settings

	music *track
	sfx   *beep.Mixer

	listener Listener
	emitters []*Emitter

	log *zap.Logger
}

type track struct {
	stream beep.StreamSeekCloser
	ctrl   *beep.Ctrl
	volume *effects.Volume
	path   string
}

// New creates a manager. Nothing is played until Init.
func New(s Settings) *Manager {
	return &Manager{
		sampleRate: DefaultSampleRate,
		settings:   clampSettings(s),
		sfx:        &beep.Mixer{},
		log:        logger.Named("audio"),
	}
}

// Init opens the output device.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.sfx)
	m.initialized = true
	m.log.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close stops all playback.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.stopMusic()
	speaker.Clear()
	speaker.Close()
	m.initialized = false
}

// Initialized reports whether Init succeeded.
func (m *Manager) Initialized() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized
}

// Settings returns the current levels.
func (m *Manager) Settings() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// SetMasterVolume sets the master level.
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Master = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetSFXVolume sets the effect level.
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.SFX = clamp(vol, 0, 1)
}

// SetMusicVolume sets the music level.
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Music = clamp(vol, 0, 1)
	m.updateMusicVolume()
}

// SetMuted silences everything.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.Muted = muted
	m.updateMusicVolume()
}

func (m *Manager) sfxLevel() float64 {
	if m.settings.Muted {
		return 0
	}
	return m.settings.Master * m.settings.SFX
}

func (m *Manager) updateMusicVolume() {
	if m.music == nil {
		return
	}
	level := m.settings.Master * m.settings.Music
	if m.settings.Muted {
		level = 0
	}
	m.locked(func() { setLevel(m.music.volume, level) })
}

// locked runs fn under the speaker lock once the speaker is running.
func (m *Manager) locked(fn func()) {
	if m.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	fn()
}

// Sound is a decoded effect that can be played any number of times.
type Sound struct {
	buf *beep.Buffer
}

// LoadSound decodes WAV data and resamples it to rate.
func LoadSound(data []byte, rate beep.SampleRate) (*Sound, error) {
	stream, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	defer stream.Close()

	var src beep.Streamer = stream
	if format.SampleRate != rate {
		src = beep.Resample(4, format.SampleRate, rate, stream)
	}
	format.SampleRate = rate
	buf := beep.NewBuffer(format)
	buf.Append(src)
	return &Sound{buf: buf}, nil
}

// Duration returns the playback length.
func (s *Sound) Duration() time.Duration {
	return s.buf.Format().SampleRate.D(s.buf.Len())
}

func (s *Sound) streamer() beep.Streamer {
	return s.buf.Streamer(0, s.buf.Len())
}

// LoadSound decodes WAV data at the manager's sample rate.
func (m *Manager) LoadSound(data []byte) (*Sound, error) {
	return LoadSound(data, m.sampleRate)
}

// PlaySFX plays a non-spatial effect.
func (m *Manager) PlaySFX(s *Sound) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	vol := &effects.Volume{Streamer: s.streamer(), Base: 2}
	setLevel(vol, m.sfxLevel())
	m.locked(func() { m.sfx.Add(vol) })
	return nil
}

// PlayMusic replaces the music track with WAV data.
func (m *Manager) PlayMusic(data []byte, path string, loop bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return ErrNotInitialized
	}
	m.stopMusic()

	stream, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav %s: %w", path, err)
	}

	var out beep.Streamer = stream
	if format.SampleRate != m.sampleRate {
		out = beep.Resample(4, format.SampleRate, m.sampleRate, stream)
	}
	if loop {
		out = &loopStreamer{source: stream, out: out}
	}

	t := &track{stream: stream, path: path, ctrl: &beep.Ctrl{Streamer: out}}
	t.volume = &effects.Volume{Streamer: t.ctrl, Base: 2}
	m.music = t
	m.updateMusicVolume()

	speaker.Play(t.volume)
	m.log.Debug("music started", zap.String("path", path), zap.Bool("loop", loop))
	return nil
}

// StopMusic stops the music track.
func (m *Manager) StopMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopMusic()
}

func (m *Manager) stopMusic() {
	if m.music == nil {
		return
	}
	m.locked(func() { m.music.ctrl.Paused = true })
	if err := m.music.stream.Close(); err != nil {
		m.log.Warn("closing music stream", zap.String("path", m.music.path), zap.Error(err))
	}
	m.music = nil
}

// MusicPath returns the playing track, or "".
func (m *Manager) MusicPath() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.music == nil {
		return ""
	}
	return m.music.path
}

// setLevel maps a linear level in [0, 1] onto a base-2 Volume effect.
func setLevel(v *effects.Volume, level float64) {
	v.Silent = level <= 0
	v.Volume = levelToVolume(level)
}

// levelToVolume converts a linear level to the exponent of a base-2
// Volume effect: 1 is unchanged, 0.5 is one halving.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	return gomath.Log2(level)
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}

func clampSettings(s Settings) Settings {
	s.Master = clamp(s.Master, 0, 1)
	s.SFX = clamp(s.SFX, 0, 1)
	s.Music = clamp(s.Music, 0, 1)
	if s.HearingRange <= 0 {
		s.HearingRange = DefaultSettings().HearingRange
	}
	return s
}

// loopStreamer rewinds its source whenever it runs dry.
type loopStreamer struct {
	source beep.StreamSeeker
	out    beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.out.Stream(samples[filled:])
		filled += n
		if !ok {
			if err := l.source.Seek(0); err != nil {
				return filled, filled > 0
			}
			if n == 0 && l.source.Len() == 0 {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.source.Err()
}
