// Package config handles engine configuration loading and management.
package config

import "time"

// Config holds all client settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Audio      AudioConfig      `yaml:"audio"`
	Assets     AssetsConfig     `yaml:"assets"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	FPSLimit   int        `yaml:"fps_limit"`
	ClearColor [4]float32 `yaml:"clear_color"`
}

// SimulationConfig controls the fixed-tick loop.
type SimulationConfig struct {
	TickRate         int `yaml:"tick_rate"`           // simulation ticks per second
	MaxTicksPerFrame int `yaml:"max_ticks_per_frame"` // catch-up cap after a stall
}

// TickDuration returns the length of one simulation tick.
func (s SimulationConfig) TickDuration() time.Duration {
	if s.TickRate <= 0 {
		return 0
	}
	return time.Second / time.Duration(s.TickRate)
}

// PhysicsConfig holds physics world settings.
type PhysicsConfig struct {
	Gravity [3]float32 `yaml:"gravity"`
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	Muted        bool    `yaml:"muted"`
	HearingRange float32 `yaml:"hearing_range"` // distance at which emitters fall silent
}

// AssetsConfig holds asset lookup settings.
type AssetsConfig struct {
	SearchPaths []string `yaml:"search_paths"` // searched last to first
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
			ClearColor: [4]float32{0.1, 0.1, 0.15, 1},
		},
		Simulation: SimulationConfig{
			TickRate:         60,
			MaxTicksPerFrame: 5,
		},
		Physics: PhysicsConfig{
			Gravity: [3]float32{0, -9.81, 0},
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			SFXVolume:    0.8,
			Muted:        false,
			HearingRange: 40,
		},
		Assets: AssetsConfig{
			SearchPaths: []string{"assets"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
