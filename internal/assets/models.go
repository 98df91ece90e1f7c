package assets

import (
	"errors"
	"fmt"
	"image/color"
	"path"

	"github.com/qmuntal/gltf"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/engine/physics"
	"github.com/Faultbox/tickframe/internal/engine/physics/kinematic"
	"github.com/Faultbox/tickframe/internal/engine/renderer"
	"github.com/Faultbox/tickframe/internal/engine/resource"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/internal/engine/template"
	"github.com/Faultbox/tickframe/internal/logger"
)

// ErrLeaked is reported by Close when templates outlive the manager.
var ErrLeaked = errors.New("templates still referenced")

// Options configure a Manager.
type Options struct {
	SearchPaths []string
	// MaxTextureSize scales larger images down. 0 keeps them as is.
	MaxTextureSize int
}

// Manager loads textures and models and owns the template cache.
type Manager struct {
	files  *Files
	dev    gpu.Device
	shader *shader.Shader
	maxTex int

	arena       *resource.Arena
	templates   *template.Cache
	placeholder *template.Physics

	textures map[string]gpu.Texture
	missing  gpu.Texture
	white    gpu.Texture

	log *zap.Logger
}

// NewManager creates the manager and its placeholders. Models are built
// with sh. Search paths that do not exist are skipped with a warning.
func NewManager(dev gpu.Device, sh *shader.Shader, opts Options) (*Manager, error) {
	m := &Manager{
		files:    NewFiles(),
		dev:      dev,
		shader:   sh,
		maxTex:   opts.MaxTextureSize,
		arena:    resource.NewArena(),
		textures: make(map[string]gpu.Texture),
		log:      logger.Named("assets"),
	}
	for _, dir := range opts.SearchPaths {
		if err := m.files.AddSearchPath(dir); err != nil {
			m.log.Warn("skipping search path", zap.String("dir", dir), zap.Error(err))
		}
	}

	var err error
	if m.missing, err = dev.NewTexture(Checkerboard(64, 8)); err != nil {
		return nil, fmt.Errorf("creating missing texture: %w", err)
	}
	if m.white, err = dev.NewTexture(Solid(color.RGBA{R: 255, G: 255, B: 255, A: 255})); err != nil {
		m.missing.Release()
		return nil, fmt.Errorf("creating white texture: %w", err)
	}

	placeholder, err := m.buildProcedural(m.arena, CubeMesh("missing", 0.5), m.missing, nil)
	if err != nil {
		m.white.Release()
		m.missing.Release()
		return nil, fmt.Errorf("creating placeholder model: %w", err)
	}
	m.placeholder = placeholder
	m.templates = template.NewCache(m.arena, placeholder)
	return m, nil
}

// Files returns the file resolver.
func (m *Manager) Files() *Files { return m.files }

// Templates returns the model template cache.
func (m *Manager) Templates() *template.Cache { return m.templates }

// MissingTexture returns the checkerboard used for failed loads.
func (m *Manager) MissingTexture() gpu.Texture { return m.missing }

// WhiteTexture returns a 1x1 white texture for untextured materials.
func (m *Manager) WhiteTexture() gpu.Texture { return m.white }

// Texture returns the named texture. A texture that fails to load is
// replaced by the missing texture, with a warning, for the manager's
// lifetime.
func (m *Manager) Texture(name string) gpu.Texture {
	if tex, ok := m.textures[name]; ok {
		return tex
	}
	tex, err := m.loadTexture(name)
	if err != nil {
		m.log.Warn("texture load failed, using placeholder", zap.String("name", name), zap.Error(err))
		tex = m.missing
	}
	m.textures[name] = tex
	return tex
}

func (m *Manager) loadTexture(name string) (gpu.Texture, error) {
	data, err := m.files.Load(name)
	if err != nil {
		return nil, err
	}
	// Decoded pixels live on the GPU; the encoded bytes are not needed again.
	m.files.Forget(name)
	return m.uploadImage(data)
}

func (m *Manager) uploadImage(data []byte) (gpu.Texture, error) {
	img, err := DecodeImage(data, m.maxTex)
	if err != nil {
		return nil, err
	}
	return m.dev.NewTexture(img)
}

// Model returns a derivative of the named glTF model. A model that fails to
// load is replaced by the placeholder cube and the failure logged.
func (m *Manager) Model(name string) *template.Physics {
	t := m.templates.Acquire(name, func(arena *resource.Arena) (template.Template, error) {
		return m.loadModel(arena, name)
	})
	return t.(*template.Physics)
}

// Procedural returns a derivative of a generated model, building it on
// first use. tex may be nil for a white material; shape nil derives a box
// from the mesh bounds.
func (m *Manager) Procedural(name string, md gpu.MeshData, tex gpu.Texture, shape physics.Shape) *template.Physics {
	t := m.templates.Acquire(name, func(arena *resource.Arena) (template.Template, error) {
		if tex == nil {
			tex = m.white
		}
		return m.buildProcedural(arena, md, tex, shape)
	})
	return t.(*template.Physics)
}

// Placeholder returns a derivative of the missing-model cube.
func (m *Manager) Placeholder() *template.Physics {
	return m.placeholder.CreateDerivative().(*template.Physics)
}

func (m *Manager) buildProcedural(arena *resource.Arena, md gpu.MeshData, tex gpu.Texture, shape physics.Shape) (*template.Physics, error) {
	mesh, err := m.dev.NewMesh(md)
	if err != nil {
		return nil, fmt.Errorf("uploading %s: %w", md.Name, err)
	}
	bounds := BoundsOf(md.Vertices)
	if shape == nil {
		shape = kinematic.Box{HalfExtents: bounds.HalfExtents()}
	}
	meshes := []renderer.MeshMaterial{{Mesh: mesh, Material: m.shader.CreateMaterial(md.Name, tex)}}
	return &template.Physics{
		Template:         template.NewOwning(arena, meshes),
		Shape:            shape,
		OffsetFromCenter: bounds.Center(),
	}, nil
}

func (m *Manager) loadModel(arena *resource.Arena, name string) (*template.Physics, error) {
	p, err := m.files.Resolve(name)
	if err != nil {
		return nil, err
	}
	doc, err := gltf.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	parts, bounds, err := readGLTF(doc, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	var (
		meshes []renderer.MeshMaterial
		owned  []template.Releaser
		images = make(map[int]gpu.Texture)
	)
	fail := func(err error) (*template.Physics, error) {
		for _, mm := range meshes {
			mm.Mesh.Release()
		}
		for _, r := range owned {
			r.Release()
		}
		return nil, err
	}

	for _, pt := range parts {
		tex := m.white
		if pt.image >= 0 {
			if cached, ok := images[pt.image]; ok {
				tex = cached
			} else {
				tex = m.modelImage(doc, name, pt.image)
				images[pt.image] = tex
				if tex != m.missing {
					owned = append(owned, tex)
				}
			}
		}
		mesh, err := m.dev.NewMesh(pt.mesh)
		if err != nil {
			return fail(fmt.Errorf("uploading %s: %w", pt.mesh.Name, err))
		}
		meshes = append(meshes, renderer.MeshMaterial{Mesh: mesh, Material: m.shader.CreateMaterial(pt.mesh.Name, tex)})
	}

	m.log.Debug("model loaded",
		zap.String("name", name),
		zap.Int("meshes", len(meshes)),
		zap.Int("textures", len(owned)))
	return &template.Physics{
		Template:         template.NewOwning(arena, meshes, owned...),
		Shape:            kinematic.Box{HalfExtents: bounds.HalfExtents()},
		OffsetFromCenter: bounds.Center(),
	}, nil
}

// modelImage uploads one glTF image, falling back to the missing texture.
func (m *Manager) modelImage(doc *gltf.Document, model string, idx int) gpu.Texture {
	data, uri, err := imageBytes(doc, idx)
	if err == nil && uri != "" {
		data, err = m.files.Load(path.Join(path.Dir(model), uri))
	}
	var tex gpu.Texture
	if err == nil {
		tex, err = m.uploadImage(data)
	}
	if err != nil {
		m.log.Warn("model texture failed, using placeholder",
			zap.String("model", model), zap.Int("image", idx), zap.Error(err))
		return m.missing
	}
	return tex
}

// Collect evicts models nothing references any more.
func (m *Manager) Collect() int { return m.templates.Collect() }

// Close releases every cached resource. It reports templates still held by
// callers.
func (m *Manager) Close() error {
	var err error
	m.templates.Close()
	if live := m.arena.Live(); live > 0 {
		err = multierr.Append(err, fmt.Errorf("%d model(s): %w", live, ErrLeaked))
	}
	for name, tex := range m.textures {
		if tex != m.missing {
			tex.Release()
		}
		delete(m.textures, name)
	}
	m.white.Release()
	m.missing.Release()
	m.files.Close()
	return err
}
