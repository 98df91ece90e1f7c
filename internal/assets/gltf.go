package assets

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/tickframe/internal/engine/gpu"
)

// part is one triangle primitive and the image it samples, or -1.
type part struct {
	mesh  gpu.MeshData
	image int
}

// readGLTF extracts every triangle primitive of doc. Primitives without
// normals get flat normals; non-indexed primitives get sequential indices.
func readGLTF(doc *gltf.Document, name string) ([]part, Bounds, error) {
	var parts []part
	bounds := EmptyBounds()

	for mi, m := range doc.Meshes {
		for pi, prim := range m.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}
			md, err := readPrimitive(doc, prim)
			if err != nil {
				return nil, Bounds{}, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			md.Name = fmt.Sprintf("%s/%d.%d", name, mi, pi)
			bounds.Union(BoundsOf(md.Vertices))
			parts = append(parts, part{mesh: md, image: baseColorImage(doc, prim)})
		}
	}
	if len(parts) == 0 {
		return nil, Bounds{}, fmt.Errorf("no triangle primitives")
	}
	return parts, bounds, nil
}

func readPrimitive(doc *gltf.Document, prim *gltf.Primitive) (gpu.MeshData, error) {
	md := gpu.MeshData{Format: gpu.FormatPositionNormalUV}

	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return md, fmt.Errorf("missing POSITION")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return md, fmt.Errorf("reading positions: %w", err)
	}
	md.Vertices = make([]gpu.Vertex, len(positions))
	for i, p := range positions {
		md.Vertices[i].Position = p
	}

	hasNormals := false
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		normals, err := modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return md, fmt.Errorf("reading normals: %w", err)
		}
		for i := range min(len(normals), len(md.Vertices)) {
			md.Vertices[i].Normal = normals[i]
		}
		hasNormals = true
	}

	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		uvs, err := modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return md, fmt.Errorf("reading texcoords: %w", err)
		}
		for i := range min(len(uvs), len(md.Vertices)) {
			md.Vertices[i].TexCoord = uvs[i]
		}
	}

	if prim.Indices != nil {
		md.Indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return md, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		md.Indices = make([]uint32, len(md.Vertices))
		for i := range md.Indices {
			md.Indices[i] = uint32(i)
		}
	}
	for _, idx := range md.Indices {
		if int(idx) >= len(md.Vertices) {
			return md, fmt.Errorf("index %d out of range (%d vertices)", idx, len(md.Vertices))
		}
	}

	if !hasNormals {
		FlatNormals(md.Vertices, md.Indices)
	}
	return md, nil
}

func baseColorImage(doc *gltf.Document, prim *gltf.Primitive) int {
	if prim.Material == nil || *prim.Material >= len(doc.Materials) {
		return -1
	}
	mat := doc.Materials[*prim.Material]
	if mat.PBRMetallicRoughness == nil || mat.PBRMetallicRoughness.BaseColorTexture == nil {
		return -1
	}
	ti := mat.PBRMetallicRoughness.BaseColorTexture.Index
	if ti >= len(doc.Textures) || doc.Textures[ti].Source == nil {
		return -1
	}
	return *doc.Textures[ti].Source
}

// imageBytes returns the encoded bytes of an image stored in a buffer view
// or a data URI. ok is false for external files.
func imageBytes(doc *gltf.Document, idx int) (data []byte, uri string, err error) {
	img := doc.Images[idx]
	if img.BufferView != nil {
		data, err = modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		return data, "", err
	}
	if img.IsEmbeddedResource() {
		data, err = img.MarshalData()
		return data, "", err
	}
	return nil, img.URI, nil
}
