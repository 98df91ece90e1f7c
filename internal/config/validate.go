package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/Faultbox/tickframe/internal/logger"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: window size %dx%d must be positive", c.Graphics.Width, c.Graphics.Height))
	}
	if c.Graphics.FPSLimit < 0 {
		err = multierr.Append(err, fmt.Errorf("graphics: fps_limit %d must not be negative", c.Graphics.FPSLimit))
	}
	if c.Simulation.TickRate <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulation: tick_rate %d must be positive", c.Simulation.TickRate))
	}
	if c.Simulation.MaxTicksPerFrame <= 0 {
		err = multierr.Append(err, fmt.Errorf("simulation: max_ticks_per_frame %d must be positive", c.Simulation.MaxTicksPerFrame))
	}
	err = multierr.Append(err, checkVolume("master_volume", c.Audio.MasterVolume))
	err = multierr.Append(err, checkVolume("sfx_volume", c.Audio.SFXVolume))
	if c.Audio.HearingRange <= 0 {
		err = multierr.Append(err, fmt.Errorf("audio: hearing_range %v must be positive", c.Audio.HearingRange))
	}
	if _, lvlErr := logger.ParseLevel(c.Logging.Level); lvlErr != nil {
		err = multierr.Append(err, fmt.Errorf("logging: %w", lvlErr))
	}
	return err
}

func checkVolume(name string, v float32) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("audio: %s %v outside [0, 1]", name, v)
	}
	return nil
}
