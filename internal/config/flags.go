package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "path to config file")
	flagDebug      = flag.Bool("debug", false, "enable debug logging")
	flagWindowed   = flag.Bool("windowed", false, "run in a window")
	flagFullscreen = flag.Bool("fullscreen", false, "run fullscreen")
	flagWidth      = flag.Int("width", 0, "window width")
	flagHeight     = flag.Int("height", 0, "window height")
	flagTickRate   = flag.Int("tickrate", 0, "simulation ticks per second")
	flagAssets     = flag.String("assets", "", "extra asset directory, searched before the configured ones")
	flagMute       = flag.Bool("mute", false, "start with audio muted")
	flagLogFile    = flag.String("logfile", "", "write logs to this file as well")
)

// ParseFlags parses the command line. Call it before Load.
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the -config flag.
func ConfigPath() string {
	return *flagConfig
}

func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagTickRate > 0 {
		cfg.Simulation.TickRate = *flagTickRate
	}
	if *flagAssets != "" {
		// Later search paths win.
		cfg.Assets.SearchPaths = append(cfg.Assets.SearchPaths, *flagAssets)
	}
	if *flagMute {
		cfg.Audio.Muted = true
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
}
