package device

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/lighting"
)

// Uniform block and texture slots shared with the shaders.
const (
	TransformSlot = 0
	LightingSlot  = 1
	DiffuseSlot   = 0
)

// TransformUniforms is the "Transform" uniform block (std140, 256 bytes).
type TransformUniforms struct {
	Model        mgl32.Mat4
	View         mgl32.Mat4
	Projection   mgl32.Mat4
	InverseModel mgl32.Mat4
}

// BuildTransformUniforms converts row-vector matrices to the upload layout:
// model, view and projection transposed, the inverse model as-is.
func BuildTransformUniforms(model, view, proj mgl32.Mat4) TransformUniforms {
	return TransformUniforms{
		Model:        model.Transpose(),
		View:         view.Transpose(),
		Projection:   proj.Transpose(),
		InverseModel: model.Inv(),
	}
}

// FrameResources holds the two uniform buffers rewritten every frame.
type FrameResources struct {
	transform *gpu.Buffer
	lighting  *gpu.Buffer
}

// NewFrameResources creates both buffers sized exactly to their structs.
func NewFrameResources(b gpu.Backend) (*FrameResources, error) {
	var tu TransformUniforms
	transform, err := gpu.NewBuffer(b, gpu.BufferDesc{
		Kind:  gpu.UniformBuffer,
		Usage: gpu.Dynamic,
		Size:  len(gpu.Bytes(&tu)),
		Label: "transform",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("frame resources: %w", err)
	}

	var ls lighting.Settings
	light, err := gpu.NewBuffer(b, gpu.BufferDesc{
		Kind:  gpu.UniformBuffer,
		Usage: gpu.Dynamic,
		Size:  len(gpu.Bytes(&ls)),
		Label: "lighting",
	}, nil)
	if err != nil {
		transform.Release()
		return nil, fmt.Errorf("frame resources: %w", err)
	}

	return &FrameResources{transform: transform, lighting: light}, nil
}

// TransformBuffer returns the transform uniform buffer.
func (f *FrameResources) TransformBuffer() *gpu.Buffer { return f.transform }

// LightingBuffer returns the lighting uniform buffer.
func (f *FrameResources) LightingBuffer() *gpu.Buffer { return f.lighting }

// UpdateTransform overwrites the transform buffer. Matrices use the row-vector convention.
func (f *FrameResources) UpdateTransform(model, view, proj mgl32.Mat4) error {
	tu := BuildTransformUniforms(model, view, proj)
	if err := f.transform.Write(gpu.Bytes(&tu)); err != nil {
		return fmt.Errorf("update transform: %w", err)
	}
	return nil
}

// UpdateLighting overwrites the lighting buffer.
func (f *FrameResources) UpdateLighting(s lighting.Settings) error {
	if err := f.lighting.Write(gpu.Bytes(&s)); err != nil {
		return fmt.Errorf("update lighting: %w", err)
	}
	return nil
}

// Bind attaches both buffers to their uniform slots.
func (f *FrameResources) Bind(b gpu.Backend) {
	b.SetUniformBuffer(TransformSlot, f.transform.ID())
	b.SetUniformBuffer(LightingSlot, f.lighting.ID())
}

// Release frees both buffers.
func (f *FrameResources) Release() {
	if f == nil {
		return
	}
	f.transform.Release()
	f.lighting.Release()
}
