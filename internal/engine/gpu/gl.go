package gpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/lightlab/internal/logger"
)

type glViewKind int

const (
	glColorView glViewKind = iota
	glDepthView
)

type glView struct {
	kind   glViewKind
	name   uint32 // texture for color views, renderbuffer for depth views
	width  int32
	height int32
}

type glBuffer struct {
	size  int
	usage Usage
}

type glLayout struct {
	vao    uint32
	layout VertexLayout
}

// GL implements Backend on OpenGL 4.1 core.
// IMPORTANT: Must be created AFTER the OpenGL context is current.
type GL struct {
	fbo     uint32
	buffers map[BufferID]glBuffer
	views   map[ViewID]glView
	layouts map[InputLayoutID]*glLayout
	layout  *glLayout

	nextView   ViewID
	nextLayout InputLayoutID
}

// NewGL loads OpenGL entry points and prepares default state.
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	g := &GL{
		buffers: make(map[BufferID]glBuffer),
		views:   make(map[ViewID]glView),
		layouts: make(map[InputLayoutID]*glLayout),
	}
	gl.GenFramebuffers(1, &g.fbo)

	// Match the usual default depth state: test enabled, less-than, writes on.
	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Disable(gl.CULL_FACE)
	gl.Disable(gl.BLEND)

	return g, nil
}

// Close deletes the framebuffer object. Other resources belong to their owners.
func (g *GL) Close() {
	if g.fbo != 0 {
		gl.DeleteFramebuffers(1, &g.fbo)
		g.fbo = 0
	}
}

// NativeTexture returns the OpenGL texture name behind a color view.
func (g *GL) NativeTexture(id ViewID) uint32 {
	v, ok := g.views[id]
	if !ok || v.kind != glColorView {
		return 0
	}
	return v.name
}

func (g *GL) CreateBuffer(desc BufferDesc, data []byte) (BufferID, error) {
	usage := uint32(gl.STATIC_DRAW)
	if desc.Usage == Dynamic {
		usage = gl.DYNAMIC_DRAW
	}

	var id uint32
	gl.GenBuffers(1, &id)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, id)
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = gl.Ptr(data)
	}
	gl.BufferData(gl.COPY_WRITE_BUFFER, desc.Size, ptr, usage)
	gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteBuffers(1, &id)
		return 0, fmt.Errorf("glBufferData: 0x%x", errCode)
	}

	g.buffers[BufferID(id)] = glBuffer{size: desc.Size, usage: desc.Usage}
	logger.Debug("buffer created",
		zap.String("label", desc.Label),
		zap.Stringer("kind", desc.Kind),
		zap.Int("size", desc.Size),
	)
	return BufferID(id), nil
}

// WriteBuffer maps the buffer with INVALIDATE_BUFFER so the driver can hand
// out fresh storage while earlier draws still read the old contents.
func (g *GL) WriteBuffer(id BufferID, data []byte) error {
	b, ok := g.buffers[id]
	if !ok {
		return fmt.Errorf("buffer %d: %w", id, ErrReleased)
	}
	if len(data) != b.size {
		return fmt.Errorf("buffer %d: %d bytes for size %d: %w", id, len(data), b.size, ErrInvalidSize)
	}

	gl.BindBuffer(gl.COPY_WRITE_BUFFER, uint32(id))
	defer gl.BindBuffer(gl.COPY_WRITE_BUFFER, 0)

	ptr := gl.MapBufferRange(gl.COPY_WRITE_BUFFER, 0, b.size, gl.MAP_WRITE_BIT|gl.MAP_INVALIDATE_BUFFER_BIT)
	if ptr == nil {
		return fmt.Errorf("map buffer %d: 0x%x", id, gl.GetError())
	}
	copy(unsafe.Slice((*byte)(ptr), b.size), data)
	if !gl.UnmapBuffer(gl.COPY_WRITE_BUFFER) {
		return fmt.Errorf("unmap buffer %d: contents lost", id)
	}
	return nil
}

func (g *GL) DeleteBuffer(id BufferID) {
	if _, ok := g.buffers[id]; !ok {
		return
	}
	name := uint32(id)
	gl.DeleteBuffers(1, &name)
	delete(g.buffers, id)
}

func (g *GL) CreateTexture(desc TextureDesc, pixels []byte) (TextureID, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(desc.Width), int32(desc.Height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	// Single mip level.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_BASE_LEVEL, 0)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("glTexImage2D: 0x%x", errCode)
	}

	logger.Debug("texture created",
		zap.String("label", desc.Label),
		zap.Int("width", desc.Width),
		zap.Int("height", desc.Height),
	)
	return TextureID(tex), nil
}

func (g *GL) DeleteTexture(id TextureID) {
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
}

func (g *GL) CreateColorView(width, height int) (ViewID, error) {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAX_LEVEL, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("color target: 0x%x", errCode)
	}
	return g.addView(glView{kind: glColorView, name: tex, width: int32(width), height: int32(height)}), nil
}

func (g *GL) CreateDepthStencilView(width, height int) (ViewID, error) {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	if errCode := gl.GetError(); errCode != gl.NO_ERROR {
		gl.DeleteRenderbuffers(1, &rbo)
		return 0, fmt.Errorf("depth target: 0x%x", errCode)
	}
	return g.addView(glView{kind: glDepthView, name: rbo, width: int32(width), height: int32(height)}), nil
}

func (g *GL) addView(v glView) ViewID {
	g.nextView++
	g.views[g.nextView] = v
	return g.nextView
}

func (g *GL) DeleteView(id ViewID) {
	v, ok := g.views[id]
	if !ok {
		return
	}
	switch v.kind {
	case glColorView:
		gl.DeleteTextures(1, &v.name)
	case glDepthView:
		gl.DeleteRenderbuffers(1, &v.name)
	}
	delete(g.views, id)
}

func (g *GL) CreateProgram(src ProgramSource) (ProgramID, error) {
	program, err := linkProgram(src.Vertex, src.Pixel)
	if err != nil {
		return 0, err
	}
	if err := bindSlots(program, src); err != nil {
		gl.DeleteProgram(program)
		return 0, err
	}
	logger.Debug("shader program created", zap.Uint32("program", program))
	return ProgramID(program), nil
}

func (g *GL) DeleteProgram(id ProgramID) {
	gl.DeleteProgram(uint32(id))
}

func (g *GL) CreateInputLayout(layout VertexLayout) (InputLayoutID, error) {
	if layout.Stride <= 0 || len(layout.Attributes) == 0 {
		return 0, fmt.Errorf("input layout: %w", ErrInvalidSize)
	}
	l := &glLayout{layout: layout}
	gl.GenVertexArrays(1, &l.vao)
	gl.BindVertexArray(l.vao)
	for _, a := range layout.Attributes {
		gl.EnableVertexAttribArray(a.Location)
	}
	gl.BindVertexArray(0)

	g.nextLayout++
	g.layouts[g.nextLayout] = l
	return g.nextLayout, nil
}

func (g *GL) DeleteInputLayout(id InputLayoutID) {
	l, ok := g.layouts[id]
	if !ok {
		return
	}
	gl.DeleteVertexArrays(1, &l.vao)
	if g.layout == l {
		g.layout = nil
	}
	delete(g.layouts, id)
}

func (g *GL) CreateSampler(desc SamplerDesc) (SamplerID, error) {
	filter := int32(gl.LINEAR)
	if desc.Filter == FilterNearest {
		filter = gl.NEAREST
	}
	wrap := int32(gl.REPEAT)
	if desc.Address == AddressClamp {
		wrap = gl.CLAMP_TO_EDGE
	}

	var s uint32
	gl.GenSamplers(1, &s)
	gl.SamplerParameteri(s, gl.TEXTURE_MIN_FILTER, filter)
	gl.SamplerParameteri(s, gl.TEXTURE_MAG_FILTER, filter)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_T, wrap)
	gl.SamplerParameteri(s, gl.TEXTURE_WRAP_R, wrap)
	gl.SamplerParameterf(s, gl.TEXTURE_MIN_LOD, 0)
	gl.SamplerParameterf(s, gl.TEXTURE_MAX_LOD, 1000)
	return SamplerID(s), nil
}

func (g *GL) DeleteSampler(id SamplerID) {
	s := uint32(id)
	gl.DeleteSamplers(1, &s)
}

func (g *GL) SetRenderTargets(color, depth ViewID) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, g.fbo)
	if v, ok := g.views[color]; ok {
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, v.name, 0)
	}
	if v, ok := g.views[depth]; ok {
		gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, v.name)
	}
	if status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER); status != gl.FRAMEBUFFER_COMPLETE {
		logger.Error("framebuffer incomplete", zap.Uint32("status", status))
	}
}

func (g *GL) SetDefaultTarget() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (g *GL) SetViewport(vp Viewport) {
	gl.Viewport(int32(vp.X), int32(vp.Y), int32(vp.Width), int32(vp.Height))
	gl.DepthRangef(vp.MinDepth, vp.MaxDepth)
}

func (g *GL) ClearColor(_ ViewID, rgba [4]float32) {
	gl.ClearColor(rgba[0], rgba[1], rgba[2], rgba[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (g *GL) ClearDepthStencil(_ ViewID, depth float32, stencil uint8) {
	gl.DepthMask(true)
	gl.ClearDepth(float64(depth))
	gl.ClearStencil(int32(stencil))
	gl.Clear(gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)
}

func (g *GL) SetProgram(id ProgramID) {
	gl.UseProgram(uint32(id))
}

func (g *GL) SetInputLayout(id InputLayoutID) {
	l, ok := g.layouts[id]
	if !ok {
		return
	}
	g.layout = l
	gl.BindVertexArray(l.vao)
}

func (g *GL) SetUniformBuffer(slot int, id BufferID) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, uint32(slot), uint32(id))
}

func (g *GL) SetSampler(slot int, id SamplerID) {
	gl.BindSampler(uint32(slot), uint32(id))
}

func (g *GL) SetTexture(slot int, id TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(slot))
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

// SetVertexBuffer points the current layout's attributes at the buffer.
func (g *GL) SetVertexBuffer(id BufferID, stride int) {
	if g.layout == nil {
		return
	}
	gl.BindVertexArray(g.layout.vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(id))
	for _, a := range g.layout.layout.Attributes {
		gl.VertexAttribPointerWithOffset(a.Location, int32(a.Components), gl.FLOAT, false, int32(stride), uintptr(a.Offset))
	}
}

func (g *GL) SetIndexBuffer(id BufferID) {
	if g.layout != nil {
		gl.BindVertexArray(g.layout.vao)
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(id))
}

// DrawIndexed draws 32-bit indices.
func (g *GL) DrawIndexed(count, first int) {
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(count), gl.UNSIGNED_INT, uintptr(first*4))
}

func (g *GL) BlitToDefault(color ViewID, width, height int) {
	v, ok := g.views[color]
	if !ok {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, g.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, v.width, v.height, 0, 0, int32(width), int32(height), gl.COLOR_BUFFER_BIT, gl.NEAREST)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

func (g *GL) ReadPixels(color ViewID, width, height int) ([]byte, error) {
	v, ok := g.views[color]
	if !ok || v.kind != glColorView {
		return nil, fmt.Errorf("read pixels: view %d: %w", color, ErrReleased)
	}
	if int32(width) > v.width || int32(height) > v.height || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("read pixels %dx%d from %dx%d: %w", width, height, v.width, v.height, ErrInvalidSize)
	}

	var prev int32
	gl.GetIntegerv(gl.READ_FRAMEBUFFER_BINDING, &prev)
	defer gl.BindFramebuffer(gl.READ_FRAMEBUFFER, uint32(prev))

	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, g.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	pixels := make([]byte, width*height*4)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels, nil
}

var _ Backend = (*GL)(nil)
