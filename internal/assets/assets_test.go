package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/tickframe/internal/engine/constants"
	"github.com/Faultbox/tickframe/internal/engine/gpu"
	"github.com/Faultbox/tickframe/internal/engine/gpu/gputest"
	"github.com/Faultbox/tickframe/internal/engine/physics/kinematic"
	"github.com/Faultbox/tickframe/internal/engine/shader"
	"github.com/Faultbox/tickframe/pkg/math"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		w, h, limit int
		wantW       int
		wantH       int
	}{
		{64, 32, 0, 64, 32},
		{64, 32, 128, 64, 32},
		{64, 32, 16, 16, 8},
		{32, 64, 16, 8, 16},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.limit)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("fitWithin(%d, %d, %d) = %d, %d, want %d, %d",
				tt.w, tt.h, tt.limit, w, h, tt.wantW, tt.wantH)
		}
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeImage(t *testing.T) {
	data := encodePNG(t, 64, 32)

	img, err := DecodeImage(data, 0)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("size = %v", b)
	}

	img, err = DecodeImage(data, 16)
	if err != nil {
		t.Fatalf("DecodeImage: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 8 {
		t.Errorf("scaled size = %v, want 16x8", b)
	}

	if _, err := DecodeImage([]byte("garbage"), 0); err == nil {
		t.Error("expected decode error")
	}
}

func TestCheckerboard(t *testing.T) {
	img := Checkerboard(4, 2)
	if img.RGBAAt(0, 0) != (color.RGBA{R: 255, B: 255, A: 255}) {
		t.Errorf("corner = %v", img.RGBAAt(0, 0))
	}
	if img.RGBAAt(2, 0) != (color.RGBA{A: 255}) {
		t.Errorf("second cell = %v", img.RGBAAt(2, 0))
	}
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesPriority(t *testing.T) {
	base, override := t.TempDir(), t.TempDir()
	writeFile(t, base, "a.txt", []byte("base"))
	writeFile(t, base, "b.txt", []byte("only base"))
	writeFile(t, override, "a.txt", []byte("override"))

	f := NewFiles()
	for _, dir := range []string{base, override} {
		if err := f.AddSearchPath(dir); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name string
		want string
	}{
		{"a.txt", "override"},
		{"b.txt", "only base"},
	}
	for _, tt := range tests {
		data, err := f.Load(tt.name)
		if err != nil || string(data) != tt.want {
			t.Errorf("Load(%s) = %q, %v, want %q", tt.name, data, err, tt.want)
		}
	}

	f.Load("a.txt")
	if hits, misses := f.CacheStats(); hits != 1 || misses != 2 {
		t.Errorf("cache stats = %d hits %d misses, want 1, 2", hits, misses)
	}

	for _, name := range []string{"missing.txt", "../a.txt"} {
		if _, err := f.Load(name); !errors.Is(err, ErrNotFound) {
			t.Errorf("Load(%s) err = %v, want ErrNotFound", name, err)
		}
	}

	if err := f.AddSearchPath(filepath.Join(base, "nope")); err == nil {
		t.Error("missing search path accepted")
	}
}

func TestCubeMesh(t *testing.T) {
	md := CubeMesh("cube", 0.5)
	if len(md.Vertices) != 24 || len(md.Indices) != 36 {
		t.Fatalf("cube has %d vertices, %d indices", len(md.Vertices), len(md.Indices))
	}
	b := BoundsOf(md.Vertices)
	if !b.Center().Approx(math.Vec3{}, 1e-6) || !b.HalfExtents().Approx(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, 1e-6) {
		t.Errorf("bounds = %+v", b)
	}

	// Winding must agree with the stored normals.
	for i := 0; i < len(md.Indices); i += 3 {
		a := vec(md.Vertices[md.Indices[i]].Position)
		b := vec(md.Vertices[md.Indices[i+1]].Position)
		c := vec(md.Vertices[md.Indices[i+2]].Position)
		face := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if n := vec(md.Vertices[md.Indices[i]].Normal); !face.Approx(n, 1e-5) {
			t.Errorf("triangle %d: winding normal %v, stored %v", i/3, face, n)
		}
	}
}

func TestFlatNormals(t *testing.T) {
	vs := []gpu.Vertex{
		{Position: [3]float32{0, 0, 0}},
		{Position: [3]float32{1, 0, 0}},
		{Position: [3]float32{0, 1, 0}},
	}
	FlatNormals(vs, []uint32{0, 1, 2})
	for i, v := range vs {
		if v.Normal != [3]float32{0, 0, 1} {
			t.Errorf("vertex %d normal = %v", i, v.Normal)
		}
	}
}

func TestEmptyBounds(t *testing.T) {
	b := EmptyBounds()
	if b.Valid() {
		t.Error("empty bounds reported valid")
	}
	b.Extend([3]float32{1, 2, 3})
	if !b.Valid() || b.Min != b.Max {
		t.Errorf("single point bounds = %+v", b)
	}
}

type fixture struct {
	dev *gputest.Device
	dir string
	mgr *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dev := gputest.NewDevice(640, 480)
	sh, err := shader.NewLibrary(dev).Register(shader.Kind{
		Source:   gpu.ProgramSource{Name: "lit", Format: gpu.FormatPositionNormalUV},
		Global:   constants.NewLayout(constants.NewBlock("Frame", 0, constants.MemberViewProjection)),
		Instance: constants.NewLayout(constants.NewBlock("Object", 1, constants.MemberWorldMatrix)),
	})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	mgr, err := NewManager(dev, sh, Options{SearchPaths: []string{dir, filepath.Join(dir, "absent")}})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return &fixture{dev: dev, dir: dir, mgr: mgr}
}

// writeTriangle saves a one-triangle binary glTF, optionally sampling an
// embedded PNG.
func writeTriangle(t *testing.T, dir, name string, textured bool) {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	prim := &gltf.Primitive{
		Indices:    gltf.Index(idx),
		Attributes: map[string]int{gltf.POSITION: pos},
	}
	if textured {
		img, err := modeler.WriteImage(doc, "skin", "image/png", bytes.NewReader(encodePNG(t, 8, 8)))
		if err != nil {
			t.Fatal(err)
		}
		doc.Textures = append(doc.Textures, &gltf.Texture{Source: gltf.Index(img)})
		doc.Materials = append(doc.Materials, &gltf.Material{
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorTexture: &gltf.TextureInfo{Index: 0},
			},
		})
		prim.Material = gltf.Index(0)
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: "tri", Primitives: []*gltf.Primitive{prim}})
	if err := gltf.SaveBinary(doc, filepath.Join(dir, name)); err != nil {
		t.Fatalf("saving glTF: %v", err)
	}
}

func TestManagerMissingTexture(t *testing.T) {
	f := newFixture(t)
	if got := f.mgr.Texture("nope.png"); got != f.mgr.MissingTexture() {
		t.Error("missing texture not replaced by placeholder")
	}
	n := len(f.dev.Textures)
	f.mgr.Texture("nope.png")
	if len(f.dev.Textures) != n {
		t.Error("failed texture retried")
	}

	writeFile(t, f.dir, "grass.png", encodePNG(t, 4, 4))
	tex := f.mgr.Texture("grass.png")
	if tex == f.mgr.MissingTexture() || f.mgr.Texture("grass.png") != tex {
		t.Error("texture not loaded once")
	}
	if err := f.mgr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if tex.(*gputest.Texture).Releases != 1 {
		t.Error("texture not released on close")
	}
}

func TestManagerMissingModel(t *testing.T) {
	f := newFixture(t)
	m := f.mgr.Model("nope.glb")
	if len(m.Meshes()) != 1 || m.Meshes()[0].Mesh != f.dev.Meshes[0] {
		t.Fatalf("placeholder meshes = %v", m.Meshes())
	}
	box, ok := m.Shape.(kinematic.Box)
	if !ok || !box.HalfExtents.Approx(math.Vec3{X: 0.5, Y: 0.5, Z: 0.5}, 1e-6) {
		t.Errorf("placeholder shape = %#v", m.Shape)
	}
	if f.mgr.Templates().Has("nope.glb") {
		t.Error("failed load cached")
	}
	m.Release()
	if err := f.mgr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	if f.dev.Meshes[0].Releases != 1 {
		t.Error("placeholder mesh not released on close")
	}
}

func TestManagerLoadsModel(t *testing.T) {
	f := newFixture(t)
	writeTriangle(t, f.dir, "tri.glb", false)

	a := f.mgr.Model("tri.glb")
	b := f.mgr.Model("tri.glb")
	if hits, misses, failures := f.mgr.Templates().Stats(); hits != 1 || misses != 1 || failures != 0 {
		t.Fatalf("stats = %d/%d/%d", hits, misses, failures)
	}
	meshes := a.Meshes()
	if len(meshes) != 1 || meshes[0].Mesh != b.Meshes()[0].Mesh {
		t.Fatal("derivatives do not share the mesh")
	}
	fake := meshes[0].Mesh.(*gputest.Mesh)
	if len(fake.Data.Indices) != 3 || fake.Data.Vertices[0].Normal != [3]float32{0, 0, 1} {
		t.Errorf("mesh data = %+v", fake.Data)
	}
	if meshes[0].Material.Textures()[0] != f.mgr.WhiteTexture() {
		t.Error("untextured model should use the white texture")
	}
	if !a.OffsetFromCenter.Approx(math.Vec3{X: 1, Y: 1}, 1e-6) {
		t.Errorf("offset = %v", a.OffsetFromCenter)
	}

	a.Release()
	if f.mgr.Collect() != 0 {
		t.Error("collected a referenced model")
	}
	b.Release()
	if f.mgr.Collect() != 1 || fake.Releases != 1 {
		t.Errorf("unreferenced model not freed, releases = %d", fake.Releases)
	}
	if err := f.mgr.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestManagerModelTexture(t *testing.T) {
	f := newFixture(t)
	writeTriangle(t, f.dir, "skinned.glb", true)

	m := f.mgr.Model("skinned.glb")
	tex := m.Meshes()[0].Material.Textures()[0]
	if tex == f.mgr.WhiteTexture() || tex == f.mgr.MissingTexture() {
		t.Fatal("embedded texture not loaded")
	}
	m.Release()
	f.mgr.Collect()
	if tex.(*gputest.Texture).Releases != 1 {
		t.Error("model texture not released with the model")
	}
	if f.mgr.MissingTexture().(*gputest.Texture).Releases != 0 {
		t.Error("shared texture released with the model")
	}
}

func TestManagerCloseReportsLeaks(t *testing.T) {
	f := newFixture(t)
	held := f.mgr.Procedural("crate", CubeMesh("crate", 1), nil, nil)
	if err := f.mgr.Close(); !errors.Is(err, ErrLeaked) {
		t.Errorf("Close err = %v, want ErrLeaked", err)
	}
	held.Release()
}
