// Package game runs the fixed-tick simulation and renders it at display
// rate, interpolating between the last two ticks.
package game

import (
	"fmt"
	gomath "math"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/assets"
	"github.com/Faultbox/tickframe/internal/config"
	"github.com/Faultbox/tickframe/internal/engine/audio"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/engine/gpu/glbackend"
	"github.com/Faultbox/tickframe/internal/engine/input"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/internal/engine/window"
	"github.com/Faultbox/tickframe/internal/logger"
	"github.com/Faultbox/tickframe/pkg/math"
)

const title = "tickframe"

// Game is the main game instance.
type Game struct {
	cfg *config.Config

	window  *window.Window
	input   *input.Input
	device  *glbackend.Device
	shaders *shader.Library
	assets  *assets.Manager
	audio   *audio.Manager

	level  *Level
	clock  *Clock
	target *renderer.Target
	shots  *Screenshots

	running bool
	interp  float32
	log     *zap.Logger
}

// New opens the window and builds the level.
func New(cfg *config.Config) (*Game, error) {
	g := &Game{cfg: cfg, log: logger.Named("game")}
	g.log.Info("initializing game",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("tick_rate", cfg.Simulation.TickRate))

	if err := g.init(); err != nil {
		g.Close()
		return nil, err
	}
	g.log.Info("game initialized")
	return g, nil
}

func (g *Game) init() error {
	var err error
	g.window, err = window.New(window.Config{
		Title:      title,
		Width:      g.cfg.Graphics.Width,
		Height:     g.cfg.Graphics.Height,
		Fullscreen: g.cfg.Graphics.Fullscreen,
		VSync:      g.cfg.Graphics.VSync,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}

	// GL entry points need the context the window just made current.
	w, h := g.window.DrawableSize()
	if g.device, err = glbackend.New(w, h); err != nil {
		return err
	}
	g.input = input.New(input.PollSDL)

	g.shaders = shader.NewLibrary(g.device)
	lit, err := g.shaders.Register(litKind())
	if err != nil {
		return err
	}

	g.assets, err = assets.NewManager(g.device, lit, assets.Options{
		SearchPaths:    g.cfg.Assets.SearchPaths,
		MaxTextureSize: 2048,
	})
	if err != nil {
		return fmt.Errorf("creating asset manager: %w", err)
	}

	g.audio = audio.New(audio.Settings{
		Master:       float64(g.cfg.Audio.MasterVolume),
		SFX:          float64(g.cfg.Audio.SFXVolume),
		Music:        float64(g.cfg.Audio.MasterVolume),
		Muted:        g.cfg.Audio.Muted,
		HearingRange: g.cfg.Audio.HearingRange,
	})
	if err := g.audio.Init(); err != nil {
		g.log.Warn("audio disabled", zap.Error(err))
	}

	if g.level, err = NewLevel(g.cfg, g.assets, g.audio, lit, float32(w)/float32(h)); err != nil {
		return fmt.Errorf("building level: %w", err)
	}

	g.clock = NewClock(g.cfg.Simulation.TickDuration(), g.cfg.Simulation.MaxTicksPerFrame)
	g.target = renderer.New(g.device.Surface(), g.device.NewCommandList(), g.cfg.Graphics.ClearColor)
	g.shots = NewScreenshots("screenshots", title)
	return nil
}

// Run drives the loop until the window closes or Escape is pressed.
func (g *Game) Run() error {
	g.running = true
	g.log.Info("starting game loop")

	dt := float32(g.clock.Step().Seconds())
	var minFrame time.Duration
	if g.cfg.Graphics.FPSLimit > 0 {
		minFrame = time.Second / time.Duration(g.cfg.Graphics.FPSLimit)
	}

	last := time.Now()
	frames := 0
	fpsTimer := last

	for g.running {
		now := time.Now()
		elapsed := now.Sub(last)
		last = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		ticks, interp := g.clock.Advance(elapsed)
		for range ticks {
			g.level.Tick(dt)
		}
		g.interp = interp

		g.audio.Update(interp)
		g.render(interp)
		g.window.SwapBuffers()

		frames++
		if time.Since(fpsTimer) >= time.Second {
			stats := g.target.Stats()
			g.log.Debug("frame stats",
				zap.Int("fps", frames),
				zap.Uint64("ticks", g.level.Ticks()),
				zap.Int("draws", stats.Draws),
				zap.Int("shader_binds", stats.ShaderBinds),
				zap.Int("uploads", stats.Uploads),
				zap.Duration("dropped", g.clock.Dropped()))
			frames = 0
			fpsTimer = time.Now()
		}

		if minFrame > 0 {
			if rest := minFrame - time.Since(now); rest > 0 {
				time.Sleep(rest)
			}
		}
	}
	return nil
}

func (g *Game) render(interp float32) {
	g.target.Start()
	g.level.Render(g.target, interp)
	g.target.End()
}

func (g *Game) handleEvents() {
	cam := g.level.Camera
	for _, ev := range g.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			w, h := g.window.DrawableSize()
			g.device.Resize(w, h)
			cam.SetAspect(w, h)
		case input.EventMouseMove:
			if g.input.IsButtonHeld(sdl.BUTTON_RIGHT) {
				cam.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			}
		case input.EventMouseDown:
			if ev.Button == sdl.BUTTON_LEFT {
				w, h := g.window.Size()
				res := g.level.Pick(float32(ev.MouseX), float32(ev.MouseY), float32(w), float32(h), g.interp)
				g.log.Debug("pick", zap.Int("crate", res.Crate), zap.Bool("ground", res.Ground))
			}
		case input.EventMouseWheel:
			cam.HandleZoom(ev.Wheel)
		case input.EventKeyDown:
			g.handleKey(ev.Key)
		}
	}

	forward := g.input.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W)
	right := g.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D)
	g.level.Steer(cameraRelative(cam.RotationY, forward, right))
}

func (g *Game) handleKey(key sdl.Scancode) {
	switch key {
	case sdl.SCANCODE_ESCAPE:
		g.running = false
	case sdl.SCANCODE_SPACE:
		g.level.Jump()
	case sdl.SCANCODE_R:
		g.level.ResetPlayer()
	case sdl.SCANCODE_L:
		g.level.ToggleLamp()
	case sdl.SCANCODE_M:
		s := g.audio.Settings()
		g.audio.SetMuted(!s.Muted)
	case sdl.SCANCODE_F12:
		if err := g.screenshot(); err != nil {
			g.log.Warn("screenshot failed", zap.Error(err))
		}
	}
}

// cameraRelative turns forward/right input into a ground-plane direction
// for a camera yawed by yaw radians.
func cameraRelative(yaw, forward, right float32) math.Vec3 {
	s, c := float32(gomath.Sin(float64(yaw))), float32(gomath.Cos(float64(yaw)))
	fwd := math.Vec3{X: -s, Z: -c}
	side := math.Vec3{X: c, Z: -s}
	return fwd.Scale(forward).Add(side.Scale(right))
}

// screenshot renders the current frame into an offscreen surface and saves
// it as PNG.
func (g *Game) screenshot() error {
	w, h := g.device.Surface().Size()
	fb, err := g.device.NewFramebuffer(w, h)
	if err != nil {
		return err
	}
	defer fb.Release()

	t := renderer.New(fb, g.device.NewCommandList(), g.cfg.Graphics.ClearColor)
	t.Start()
	t.CommandList().Clear(gpu.ClearColor, g.cfg.Graphics.ClearColor)
	g.level.Render(t, g.interp)
	t.End()

	path, err := g.shots.Save(fb.ReadImage())
	if err != nil {
		return err
	}
	g.log.Info("screenshot saved", zap.String("path", path))
	return nil
}

// Close tears everything down in reverse order of creation.
func (g *Game) Close() error {
	g.log.Info("closing game")

	var err error
	if g.level != nil {
		g.level.Close()
	}
	if g.audio != nil {
		g.audio.Close()
	}
	if g.assets != nil {
		err = multierr.Append(err, g.assets.Close())
	}
	if g.shaders != nil {
		g.shaders.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
	return err
}
