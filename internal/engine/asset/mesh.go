// Package asset turns mesh and image files into GPU resources.
package asset

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/logger"
	"github.com/Faultbox/lightlab/pkg/formats"
)

// Vertex is the interleaved vertex format: position, normal, texture coordinate.
type Vertex struct {
	Position mgl32.Vec3
	Normal   mgl32.Vec3
	TexCoord mgl32.Vec2
}

// VertexStride is the size of Vertex in bytes.
const VertexStride = int(unsafe.Sizeof(Vertex{}))

// VertexLayout describes Vertex to the input assembler.
func VertexLayout() gpu.VertexLayout {
	return gpu.VertexLayout{
		Stride: VertexStride,
		Attributes: []gpu.VertexAttribute{
			{Name: "POSITION", Location: 0, Components: 3, Offset: int(unsafe.Offsetof(Vertex{}.Position))},
			{Name: "NORMAL", Location: 1, Components: 3, Offset: int(unsafe.Offsetof(Vertex{}.Normal))},
			{Name: "TEXCOORD", Location: 2, Components: 2, Offset: int(unsafe.Offsetof(Vertex{}.TexCoord))},
		},
	}
}

// Submesh is a contiguous index range drawn with one texture.
type Submesh struct {
	Name       string
	IndexCount uint32
	// Texture is owned by the submesh. Shared textures are aliased with Retain.
	Texture *gpu.Texture
}

// Mesh owns one vertex buffer, one index buffer, and the submeshes drawn from them.
type Mesh struct {
	Name         string
	VertexBuffer *gpu.Buffer
	IndexBuffer  *gpu.Buffer
	Submeshes    []Submesh
}

// IndexCount returns the total number of indices, the sum over submeshes.
func (m *Mesh) IndexCount() uint32 {
	var n uint32
	for _, s := range m.Submeshes {
		n += s.IndexCount
	}
	return n
}

// Release frees the buffers and drops the submesh textures. Safe to call twice.
func (m *Mesh) Release() {
	if m == nil {
		return
	}
	m.VertexBuffer.Release()
	m.IndexBuffer.Release()
	for i := range m.Submeshes {
		m.Submeshes[i].Texture.Release()
		m.Submeshes[i].Texture = nil
	}
}

// LoadMesh parses an OBJ file and uploads it.
func LoadMesh(b gpu.Backend, name, path string) (*Mesh, error) {
	obj, err := formats.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", name, err)
	}
	for _, w := range obj.Warnings {
		logger.Debug("obj warning", zap.String("mesh", name), zap.String("detail", w))
	}

	mesh, err := BuildMesh(b, name, obj)
	if err != nil {
		return nil, err
	}

	logger.Info("mesh loaded",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("vertices", obj.IndexCount()),
		zap.Int("submeshes", len(mesh.Submeshes)),
	)
	return mesh, nil
}

// BuildMesh emits one vertex per face-vertex reference, in file order and
// without deduplication, so the index buffer is simply 0..V-1. Each shape
// becomes a submesh. The V texture coordinate is flipped to match a
// top-row-first image upload. Submesh textures are left unset.
func BuildMesh(b gpu.Backend, name string, obj *formats.OBJ) (*Mesh, error) {
	total := obj.IndexCount()
	if total == 0 {
		return nil, fmt.Errorf("build mesh %s: no faces: %w", name, gpu.ErrInvalidSize)
	}

	vertices := make([]Vertex, 0, total)
	submeshes := make([]Submesh, 0, len(obj.Shapes))
	for _, shape := range obj.Shapes {
		for _, idx := range shape.Indices {
			var v Vertex
			v.Position = obj.Positions[idx.Vertex]
			if idx.Normal != formats.NoIndex {
				v.Normal = obj.Normals[idx.Normal]
			}
			if idx.TexCoord != formats.NoIndex {
				tc := obj.TexCoords[idx.TexCoord]
				v.TexCoord = mgl32.Vec2{tc[0], -tc[1]}
			}
			vertices = append(vertices, v)
		}
		submeshes = append(submeshes, Submesh{Name: shape.Name, IndexCount: uint32(len(shape.Indices))})
	}

	indices := make([]uint32, len(vertices))
	for i := range indices {
		indices[i] = uint32(i)
	}

	vb, err := gpu.NewBuffer(b, gpu.BufferDesc{
		Kind:  gpu.VertexBuffer,
		Usage: gpu.Immutable,
		Size:  len(vertices) * VertexStride,
		Label: name + " vertices",
	}, gpu.SliceBytes(vertices))
	if err != nil {
		return nil, fmt.Errorf("build mesh %s: %w", name, err)
	}

	ib, err := gpu.NewBuffer(b, gpu.BufferDesc{
		Kind:  gpu.IndexBuffer,
		Usage: gpu.Immutable,
		Size:  len(indices) * 4,
		Label: name + " indices",
	}, gpu.SliceBytes(indices))
	if err != nil {
		vb.Release()
		return nil, fmt.Errorf("build mesh %s: %w", name, err)
	}

	return &Mesh{
		Name:         name,
		VertexBuffer: vb,
		IndexBuffer:  ib,
		Submeshes:    submeshes,
	}, nil
}
