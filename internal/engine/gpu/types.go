// Package gpu defines the graphics device abstraction the renderer drives and
// its OpenGL implementation.
//
// The Backend interface is shaped after an immediate-context graphics API:
// resources are created up front, state is bound explicitly, and draws are
// issued against whatever is bound. Handles returned by a Backend are opaque
// and only valid for that Backend.
package gpu

import (
	"errors"
	"unsafe"
)

var (
	// ErrInvalidSize is returned when a resource size or data length is wrong.
	ErrInvalidSize = errors.New("gpu: invalid size")

	// ErrReleased is returned when a released handle is used.
	ErrReleased = errors.New("gpu: resource released")
)

// Opaque resource handles.
type (
	BufferID      uint32
	TextureID     uint32
	ViewID        uint32
	ProgramID     uint32
	SamplerID     uint32
	InputLayoutID uint32
)

// BufferKind selects how a buffer is bound.
type BufferKind int

const (
	VertexBuffer BufferKind = iota
	IndexBuffer
	UniformBuffer
)

func (k BufferKind) String() string {
	switch k {
	case VertexBuffer:
		return "vertex"
	case IndexBuffer:
		return "index"
	case UniformBuffer:
		return "uniform"
	default:
		return "unknown"
	}
}

// Usage describes the expected update pattern of a buffer.
type Usage int

const (
	// Immutable buffers are filled at creation and never written again.
	Immutable Usage = iota
	// Dynamic buffers are overwritten by the CPU, typically once per frame.
	Dynamic
)

// BufferDesc describes a buffer to create.
type BufferDesc struct {
	Kind  BufferKind
	Usage Usage
	Size  int
	Label string
}

// TextureDesc describes an immutable RGBA8 texture.
type TextureDesc struct {
	Width  int
	Height int
	Label  string
}

// Viewport maps clip space to a target region.
type Viewport struct {
	X, Y          int
	Width, Height int
	MinDepth      float32
	MaxDepth      float32
}

// VertexAttribute is one float attribute of an interleaved vertex.
type VertexAttribute struct {
	Name       string
	Location   uint32
	Components int
	Offset     int
}

// VertexLayout describes an interleaved vertex stream.
type VertexLayout struct {
	Stride     int
	Attributes []VertexAttribute
}

// ProgramSource holds the two shader stages and the names of their resource slots.
type ProgramSource struct {
	Vertex string
	Pixel  string

	// UniformBlocks maps a uniform block name to its binding slot.
	UniformBlocks map[string]int
	// Samplers maps a sampler uniform name to its texture unit.
	Samplers map[string]int
}

// Filter selects texture filtering.
type Filter int

const (
	FilterLinear Filter = iota
	FilterNearest
)

// AddressMode selects texture coordinate wrapping.
type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
)

// SamplerDesc describes a sampler state.
type SamplerDesc struct {
	Filter  Filter
	Address AddressMode
}

// Bytes returns the memory of *v as a byte slice without copying.
// T must not contain pointers.
func Bytes[T any](v *T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), unsafe.Sizeof(*v))
}

// SliceBytes returns the memory backing s as a byte slice without copying.
// T must not contain pointers.
func SliceBytes[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*int(unsafe.Sizeof(zero)))
}
