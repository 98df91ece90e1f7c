package game

import (
	gomath "math"

	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/assets"
	"github.com/Faultbox/tickframe/internal/config"
	"github.com/Faultbox/tickframe/internal/engine/audio"
	"github.com/Faultbox/tickframe/internal/engine/camera"
	"github.com/Faultbox/tickframe/internal/engine/lighting"
	"github.com/Faultbox/tickframe/internal/engine/model"
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/internal/engine/physics/kinematic"
	"github.com/Faultbox/tickframe/internal/engine/picking"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/scene"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/internal/game/motion"
	"github.com/Faultbox/tickframe/internal/logger"
	"github.com/Faultbox/tickframe/pkg/math"
	"github.com/Faultbox/tickframe/pkg/transform"
)

// Asset names the level loads. Missing files fall back to placeholders.
const (
	groundTexture = "textures/ground.png"
	playerModel   = "models/player.glb"
	crateModel    = "models/crate.glb"
	jumpSound     = "sounds/jump.wav"
)

const (
	groundSize   = 40
	crateCount   = 6
	playerMass   = 70
	crateMass    = 10
	moveStep     = 2
	jumpVelocity = 6
	kickVelocity = 5
)

var playerSpawn = math.Vec3{Y: 1}

type releaser interface{ Release() }

// Level is the simulated content: the physics world, the scene and what is
// in it, and the camera and lights that view it.
type Level struct {
	sim    *physics.Simulation
	world  *kinematic.World
	scene  *scene.Scene
	assets *assets.Manager
	audio  *audio.Manager

	Camera *camera.OrbitCamera
	Env    *lighting.Environment
	Sun    *lighting.PointLight

	Ground *model.PhysicsModel
	Player *model.DynamicPhysicsModel
	Crates []*model.DynamicPhysicsModel
	Mover  *motion.Spring

	steer       math.Vec3
	playerVoice *audio.Emitter
	jump        *audio.Sound
	lampOn      bool
	sunHome     math.Vec3

	models []releaser
	log    *zap.Logger
}

// NewLevel builds the demo level. Every model draws with lit.
func NewLevel(cfg *config.Config, mgr *assets.Manager, am *audio.Manager, lit *shader.Shader, aspect float32) (*Level, error) {
	g := cfg.Physics.Gravity
	world := kinematic.New(math.Vec3{X: g[0], Y: g[1], Z: g[2]}, kinematic.WithGround(0))
	l := &Level{
		sim:    physics.NewSimulation(world),
		world:  world,
		scene:  scene.New(lit),
		assets: mgr,
		audio:  am,
		Camera: camera.NewOrbitCamera(aspect),
		Env:    lighting.DefaultEnvironment(),
		Sun:    lighting.NewSun(math.Vec3{}, 0.8, 0.9, 60, math.Vec3{X: 1, Y: 0.95, Z: 0.85}),
		log:    logger.Named("level"),
	}
	l.sunHome = l.Sun.Position
	l.scene.AddGlobal(l.Camera)
	l.scene.AddGlobal(l.Env)
	l.scene.AddGlobal(l.Sun)

	if err := l.populate(cfg.Simulation.TickRate); err != nil {
		l.Close()
		return nil, err
	}
	l.Camera.Follow(l.Player.RenderTransform)

	am.SetListener(l.Camera)
	l.playerVoice = am.NewEmitter(func(interp float32) math.Vec3 {
		return l.Player.RenderTransform(interp).Position
	})
	if data, err := mgr.Files().Load(jumpSound); err != nil {
		l.log.Warn("jump sound unavailable", zap.Error(err))
	} else if l.jump, err = am.LoadSound(data); err != nil {
		l.log.Warn("jump sound unreadable", zap.Error(err))
	}
	return l, nil
}

func (l *Level) populate(tickRate int) error {
	half := float32(groundSize) / 2
	ground := l.assets.Procedural("ground",
		assets.PlaneMesh("ground", groundSize),
		l.assets.Texture(groundTexture),
		kinematic.Box{HalfExtents: math.Vec3{X: half, Y: 0.01, Z: half}})
	var err error
	if l.Ground, err = model.NewPhysics(ground, l.sim, transform.Identity()); err != nil {
		ground.Release()
		return err
	}
	l.add(l.Ground)

	player := l.assets.Model(playerModel)
	if l.Player, err = model.NewDynamic(player, l.sim, transform.At(playerSpawn), playerMass); err != nil {
		player.Release()
		return err
	}
	l.add(l.Player)

	for i := range crateCount {
		angle := float64(i) / crateCount * 2 * gomath.Pi
		pos := math.Vec3{
			X: float32(gomath.Cos(angle)) * 6,
			Y: 3 + float32(i),
			Z: float32(gomath.Sin(angle)) * 6,
		}
		scale := 0.6 + 0.1*float32(i%4)
		t := transform.At(pos).WithScale(math.Vec3{X: scale, Y: scale, Z: scale})
		t.Rotation = math.QuatFromAxisAngle(math.Vec3{Y: 1}, float32(angle))

		crate := l.assets.Model(crateModel)
		c, err := model.NewDynamic(crate, l.sim, t, crateMass)
		if err != nil {
			crate.Release()
			return err
		}
		l.Crates = append(l.Crates, c)
		l.add(c)
	}

	l.Mover = motion.NewSpring(l.Player, tickRate, 4, 1)
	l.scene.Add(l.Mover)
	l.sim.Subscribe(motion.Kinematic{Spring: l.Mover, Body: l.Player.Body()})
	return nil
}

type sceneModel interface {
	scene.Entity
	releaser
}

func (l *Level) add(m sceneModel) {
	l.models = append(l.models, m)
	l.scene.Add(m)
}

// Tick advances the simulation by one fixed step. A steering direction set
// with Steer keeps the player's goal moveStep ahead of it on every tick.
func (l *Level) Tick(dt float32) {
	if l.steer != (math.Vec3{}) {
		l.Mover.MoveTo(l.Player.Current().Position.Add(l.steer.Scale(moveStep)))
	}
	l.scene.Update(dt)
	l.sim.Tick(dt)
}

// Ticks returns the simulation tick count.
func (l *Level) Ticks() uint64 { return l.sim.Ticks() }

// Render draws the level at interp.
func (l *Level) Render(t *renderer.Target, interp float32) {
	l.scene.Render(t, interp)
}

// Steer sets the ground-plane direction the player walks in on the
// following ticks. A zero direction stops steering and leaves the current
// goal in place.
func (l *Level) Steer(dir math.Vec3) {
	dir.Y = 0
	if dir.Length() == 0 {
		l.steer = math.Vec3{}
		return
	}
	l.steer = dir.Normalize()
}

// PickResult is what a click at a screen position selected.
type PickResult struct {
	Crate  int // index into Crates, or -1
	Ground bool
	Point  math.Vec3
}

// Pick casts a ray from pixel (x, y) of a w by h viewport, as seen at
// interp. A crate under the cursor is kicked upward; otherwise a ground hit
// sends the player toward the clicked point.
func (l *Level) Pick(x, y, w, h float32, interp float32) PickResult {
	ray := picking.ScreenToRay(x, y, w, h, l.Camera.ViewProjection(interp).Inverse())

	boxes := make([]picking.AABB, len(l.Crates))
	for i, c := range l.Crates {
		boxes[i] = picking.Box(c.RenderTransform(interp).Position, extents(c.Body().Shape()))
	}
	if i, t := ray.Nearest(boxes); i >= 0 {
		l.kick(l.Crates[i])
		return PickResult{Crate: i, Point: ray.At(t)}
	}

	p, ok := ray.IntersectPlaneY(0)
	if !ok {
		return PickResult{Crate: -1}
	}
	l.MovePlayerTo(p)
	return PickResult{Crate: -1, Ground: true, Point: p}
}

func (l *Level) kick(c *model.DynamicPhysicsModel) {
	v := c.Body().Velocity()
	v.Y += kickVelocity
	c.Body().SetVelocity(v)
}

// MovePlayerTo sets the player's goal to p, keeping its current height.
func (l *Level) MovePlayerTo(p math.Vec3) {
	p.Y = l.Player.Current().Position.Y
	l.Mover.MoveTo(p)
}

func extents(s physics.Shape) math.Vec3 {
	if e, ok := s.(interface{ Extents() math.Vec3 }); ok {
		return e.Extents()
	}
	return math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}
}

// Jump launches the player if it is resting.
func (l *Level) Jump() bool {
	body := l.Player.Body()
	if gomath.Abs(float64(body.Velocity().Y)) > 1e-3 {
		return false
	}
	l.Mover.Stop()
	v := body.Velocity()
	v.Y = jumpVelocity
	body.SetVelocity(v)
	if l.jump != nil {
		if err := l.audio.PlayAt(l.playerVoice, l.jump); err != nil {
			l.log.Debug("jump sound not played", zap.Error(err))
		}
	}
	return true
}

// ResetPlayer teleports the player back to its spawn point.
func (l *Level) ResetPlayer() {
	l.Mover.Stop()
	l.Player.Body().SetVelocity(math.Vec3{})
	l.Player.SetWorldTransform(transform.At(playerSpawn))
}

// ToggleLamp switches the light between the sun and a lamp carried above
// the player.
func (l *Level) ToggleLamp() {
	l.lampOn = !l.lampOn
	if l.lampOn {
		l.Sun.Follow(func(interp float32) math.Vec3 {
			return l.Player.RenderTransform(interp).Position
		}, math.Vec3{Y: 3})
		return
	}
	l.Sun.Unfollow()
	l.Sun.Position = l.sunHome
}

// Close removes everything from the scene and releases the models. Cached
// templates nothing references any more are collected.
func (l *Level) Close() {
	if l.playerVoice != nil {
		l.audio.RemoveEmitter(l.playerVoice)
	}
	l.scene.Clear()
	for i := len(l.models) - 1; i >= 0; i-- {
		l.models[i].Release()
	}
	l.models = nil
	if n := l.assets.Collect(); n > 0 {
		l.log.Debug("collected level templates", zap.Int("evicted", n))
	}
}
