// Package gputest provides an in-memory gpu.Backend that records every call.
package gputest

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
)

// Call is one recorded backend or swapchain call.
type Call struct {
	Op   string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Op, c.Args)
}

// Draw is a recorded DrawIndexed with the state bound at the time.
type Draw struct {
	Count   int
	First   int
	Texture gpu.TextureID
	Vertex  gpu.BufferID
	Index   gpu.BufferID
}

type view struct {
	color         bool
	width, height int
}

// Recorder implements gpu.Backend without a GPU. Handles start at 1 and are
// never reused, so a stale handle is always detectable.
type Recorder struct {
	Calls []Call
	Draws []Draw

	// Fail makes the named operation return the error until cleared.
	Fail map[string]error

	buffers  map[gpu.BufferID][]byte
	textures map[gpu.TextureID]gpu.TextureDesc
	views    map[gpu.ViewID]view
	programs map[gpu.ProgramID]gpu.ProgramSource
	layouts  map[gpu.InputLayoutID]gpu.VertexLayout
	samplers map[gpu.SamplerID]gpu.SamplerDesc
	next     uint32

	// Bound state.
	Program      gpu.ProgramID
	Layout       gpu.InputLayoutID
	VertexBuffer gpu.BufferID
	VertexStride int
	IndexBuffer  gpu.BufferID
	ColorTarget  gpu.ViewID
	DepthTarget  gpu.ViewID
	Viewport     gpu.Viewport
	Uniforms     map[int]gpu.BufferID
	Samplers     map[int]gpu.SamplerID
	Textures     map[int]gpu.TextureID
	clearColor   [4]float32
}

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		Fail:     make(map[string]error),
		buffers:  make(map[gpu.BufferID][]byte),
		textures: make(map[gpu.TextureID]gpu.TextureDesc),
		views:    make(map[gpu.ViewID]view),
		programs: make(map[gpu.ProgramID]gpu.ProgramSource),
		layouts:  make(map[gpu.InputLayoutID]gpu.VertexLayout),
		samplers: make(map[gpu.SamplerID]gpu.SamplerDesc),
		Uniforms: make(map[int]gpu.BufferID),
		Samplers: make(map[int]gpu.SamplerID),
		Textures: make(map[int]gpu.TextureID),
	}
}

// ErrUnknownHandle is returned for handles the recorder never issued or already deleted.
var ErrUnknownHandle = errors.New("gputest: unknown handle")

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) handle() uint32 {
	r.next++
	return r.next
}

// Ops returns the recorded operation names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Find returns the recorded calls of one operation.
func (r *Recorder) Find(op string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Index returns the position of the first call to op at or after from, or -1.
func (r *Recorder) Index(op string, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if r.Calls[i].Op == op {
			return i
		}
	}
	return -1
}

// Reset drops the call and draw logs but keeps resources and bound state.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

// Live returns the number of resources not yet deleted.
func (r *Recorder) Live() int {
	return len(r.buffers) + len(r.textures) + len(r.views) + len(r.programs) + len(r.layouts) + len(r.samplers)
}

// LiveViews returns the number of render target views not yet deleted.
func (r *Recorder) LiveViews() int { return len(r.views) }

// LiveTextures returns the number of textures not yet deleted.
func (r *Recorder) LiveTextures() int { return len(r.textures) }

// LiveBuffers returns the number of buffers not yet deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// BufferData returns a copy of a buffer's current contents.
func (r *Recorder) BufferData(id gpu.BufferID) []byte {
	return slices.Clone(r.buffers[id])
}

// ViewSize returns the size of a live view.
func (r *Recorder) ViewSize(id gpu.ViewID) (width, height int, ok bool) {
	v, ok := r.views[id]
	return v.width, v.height, ok
}

func (r *Recorder) CreateBuffer(desc gpu.BufferDesc, data []byte) (gpu.BufferID, error) {
	r.record("CreateBuffer", desc.Kind, desc.Size)
	if err := r.Fail["CreateBuffer"]; err != nil {
		return 0, err
	}
	id := gpu.BufferID(r.handle())
	contents := make([]byte, desc.Size)
	copy(contents, data)
	r.buffers[id] = contents
	return id, nil
}

func (r *Recorder) WriteBuffer(id gpu.BufferID, data []byte) error {
	r.record("WriteBuffer", id, len(data))
	if err := r.Fail["WriteBuffer"]; err != nil {
		return err
	}
	buf, ok := r.buffers[id]
	if !ok {
		return ErrUnknownHandle
	}
	if len(data) != len(buf) {
		return gpu.ErrInvalidSize
	}
	copy(buf, data)
	return nil
}

func (r *Recorder) DeleteBuffer(id gpu.BufferID) {
	r.record("DeleteBuffer", id)
	delete(r.buffers, id)
}

func (r *Recorder) CreateTexture(desc gpu.TextureDesc, pixels []byte) (gpu.TextureID, error) {
	r.record("CreateTexture", desc.Width, desc.Height)
	if err := r.Fail["CreateTexture"]; err != nil {
		return 0, err
	}
	id := gpu.TextureID(r.handle())
	r.textures[id] = desc
	return id, nil
}

func (r *Recorder) DeleteTexture(id gpu.TextureID) {
	r.record("DeleteTexture", id)
	delete(r.textures, id)
}

func (r *Recorder) CreateColorView(width, height int) (gpu.ViewID, error) {
	r.record("CreateColorView", width, height)
	if err := r.Fail["CreateColorView"]; err != nil {
		return 0, err
	}
	id := gpu.ViewID(r.handle())
	r.views[id] = view{color: true, width: width, height: height}
	return id, nil
}

func (r *Recorder) CreateDepthStencilView(width, height int) (gpu.ViewID, error) {
	r.record("CreateDepthStencilView", width, height)
	if err := r.Fail["CreateDepthStencilView"]; err != nil {
		return 0, err
	}
	id := gpu.ViewID(r.handle())
	r.views[id] = view{width: width, height: height}
	return id, nil
}

func (r *Recorder) DeleteView(id gpu.ViewID) {
	r.record("DeleteView", id)
	delete(r.views, id)
}

func (r *Recorder) CreateProgram(src gpu.ProgramSource) (gpu.ProgramID, error) {
	r.record("CreateProgram")
	if err := r.Fail["CreateProgram"]; err != nil {
		return 0, err
	}
	id := gpu.ProgramID(r.handle())
	r.programs[id] = src
	return id, nil
}

func (r *Recorder) DeleteProgram(id gpu.ProgramID) {
	r.record("DeleteProgram", id)
	delete(r.programs, id)
}

func (r *Recorder) CreateInputLayout(layout gpu.VertexLayout) (gpu.InputLayoutID, error) {
	r.record("CreateInputLayout", layout.Stride, len(layout.Attributes))
	if err := r.Fail["CreateInputLayout"]; err != nil {
		return 0, err
	}
	id := gpu.InputLayoutID(r.handle())
	r.layouts[id] = layout
	return id, nil
}

func (r *Recorder) DeleteInputLayout(id gpu.InputLayoutID) {
	r.record("DeleteInputLayout", id)
	delete(r.layouts, id)
}

// InputLayout returns a live layout description.
func (r *Recorder) InputLayout(id gpu.InputLayoutID) (gpu.VertexLayout, bool) {
	l, ok := r.layouts[id]
	return l, ok
}

func (r *Recorder) CreateSampler(desc gpu.SamplerDesc) (gpu.SamplerID, error) {
	r.record("CreateSampler", desc.Filter, desc.Address)
	if err := r.Fail["CreateSampler"]; err != nil {
		return 0, err
	}
	id := gpu.SamplerID(r.handle())
	r.samplers[id] = desc
	return id, nil
}

func (r *Recorder) DeleteSampler(id gpu.SamplerID) {
	r.record("DeleteSampler", id)
	delete(r.samplers, id)
}

func (r *Recorder) SetRenderTargets(color, depth gpu.ViewID) {
	r.record("SetRenderTargets", color, depth)
	r.ColorTarget, r.DepthTarget = color, depth
}

func (r *Recorder) SetDefaultTarget() {
	r.record("SetDefaultTarget")
	r.ColorTarget, r.DepthTarget = 0, 0
}

func (r *Recorder) SetViewport(vp gpu.Viewport) {
	r.record("SetViewport", vp.X, vp.Y, vp.Width, vp.Height)
	r.Viewport = vp
}

func (r *Recorder) ClearColor(color gpu.ViewID, rgba [4]float32) {
	r.record("ClearColor", color, rgba)
	r.clearColor = rgba
}

func (r *Recorder) ClearDepthStencil(view gpu.ViewID, depth float32, stencil uint8) {
	r.record("ClearDepthStencil", view, depth, stencil)
}

func (r *Recorder) SetProgram(id gpu.ProgramID) {
	r.record("SetProgram", id)
	r.Program = id
}

func (r *Recorder) SetInputLayout(id gpu.InputLayoutID) {
	r.record("SetInputLayout", id)
	r.Layout = id
}

func (r *Recorder) SetUniformBuffer(slot int, id gpu.BufferID) {
	r.record("SetUniformBuffer", slot, id)
	r.Uniforms[slot] = id
}

func (r *Recorder) SetSampler(slot int, id gpu.SamplerID) {
	r.record("SetSampler", slot, id)
	r.Samplers[slot] = id
}

func (r *Recorder) SetTexture(slot int, id gpu.TextureID) {
	r.record("SetTexture", slot, id)
	r.Textures[slot] = id
}

func (r *Recorder) SetVertexBuffer(id gpu.BufferID, stride int) {
	r.record("SetVertexBuffer", id, stride)
	r.VertexBuffer, r.VertexStride = id, stride
}

func (r *Recorder) SetIndexBuffer(id gpu.BufferID) {
	r.record("SetIndexBuffer", id)
	r.IndexBuffer = id
}

func (r *Recorder) DrawIndexed(count, first int) {
	r.record("DrawIndexed", count, first)
	r.Draws = append(r.Draws, Draw{
		Count:   count,
		First:   first,
		Texture: r.Textures[0],
		Vertex:  r.VertexBuffer,
		Index:   r.IndexBuffer,
	})
}

func (r *Recorder) BlitToDefault(color gpu.ViewID, width, height int) {
	r.record("BlitToDefault", color, width, height)
}

// ReadPixels returns the view filled with the last clear color.
func (r *Recorder) ReadPixels(color gpu.ViewID, width, height int) ([]byte, error) {
	r.record("ReadPixels", color, width, height)
	if err := r.Fail["ReadPixels"]; err != nil {
		return nil, err
	}
	v, ok := r.views[color]
	if !ok || !v.color {
		return nil, ErrUnknownHandle
	}
	if width > v.width || height > v.height {
		return nil, gpu.ErrInvalidSize
	}
	px := [4]byte{}
	for i, c := range r.clearColor {
		px[i] = byte(c*255 + 0.5)
	}
	out := make([]byte, width*height*4)
	for i := 0; i < len(out); i += 4 {
		copy(out[i:], px[:])
	}
	return out, nil
}

var _ gpu.Backend = (*Recorder)(nil)
