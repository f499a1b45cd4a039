package gpu

import "fmt"

// Buffer owns a GPU buffer. Release frees it; further use returns ErrReleased.
type Buffer struct {
	backend Backend
	id      BufferID
	desc    BufferDesc
}

// NewBuffer creates a buffer of desc.Size bytes. data may be nil for
// buffers filled later with Write.
func NewBuffer(b Backend, desc BufferDesc, data []byte) (*Buffer, error) {
	if desc.Size <= 0 {
		return nil, fmt.Errorf("%s buffer %q: %w", desc.Kind, desc.Label, ErrInvalidSize)
	}
	if data != nil && len(data) != desc.Size {
		return nil, fmt.Errorf("%s buffer %q: %d bytes of data for size %d: %w",
			desc.Kind, desc.Label, len(data), desc.Size, ErrInvalidSize)
	}
	id, err := b.CreateBuffer(desc, data)
	if err != nil {
		return nil, fmt.Errorf("%s buffer %q: %w", desc.Kind, desc.Label, err)
	}
	return &Buffer{backend: b, id: id, desc: desc}, nil
}

// ID returns the backend handle.
func (b *Buffer) ID() BufferID { return b.id }

// Size returns the buffer size in bytes.
func (b *Buffer) Size() int { return b.desc.Size }

// Label returns the debug label.
func (b *Buffer) Label() string { return b.desc.Label }

// Write overwrites the whole buffer.
func (b *Buffer) Write(data []byte) error {
	if b.backend == nil {
		return ErrReleased
	}
	if len(data) != b.desc.Size {
		return fmt.Errorf("write %q: %d bytes for size %d: %w", b.desc.Label, len(data), b.desc.Size, ErrInvalidSize)
	}
	return b.backend.WriteBuffer(b.id, data)
}

// Release frees the buffer. Safe to call more than once and on nil.
func (b *Buffer) Release() {
	if b == nil || b.backend == nil {
		return
	}
	b.backend.DeleteBuffer(b.id)
	b.backend = nil
}

// Texture is a reference-counted sampleable texture. NewTexture returns one
// reference; Retain adds an alias and Release drops one. The GPU texture is
// freed when the last reference is released.
type Texture struct {
	backend Backend
	id      TextureID
	desc    TextureDesc
	refs    int
}

// NewTexture uploads width*height RGBA8 pixels.
func NewTexture(b Backend, desc TextureDesc, pixels []byte) (*Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("texture %q %dx%d: %w", desc.Label, desc.Width, desc.Height, ErrInvalidSize)
	}
	if len(pixels) != desc.Width*desc.Height*4 {
		return nil, fmt.Errorf("texture %q: %d bytes for %dx%d RGBA8: %w",
			desc.Label, len(pixels), desc.Width, desc.Height, ErrInvalidSize)
	}
	id, err := b.CreateTexture(desc, pixels)
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", desc.Label, err)
	}
	return &Texture{backend: b, id: id, desc: desc, refs: 1}, nil
}

// ID returns the backend handle.
func (t *Texture) ID() TextureID { return t.id }

// Size returns the texture dimensions.
func (t *Texture) Size() (width, height int) { return t.desc.Width, t.desc.Height }

// Label returns the debug label.
func (t *Texture) Label() string { return t.desc.Label }

// Refs returns the number of live references.
func (t *Texture) Refs() int { return t.refs }

// Retain adds a reference and returns t for assignment.
func (t *Texture) Retain() *Texture {
	if t != nil && t.refs > 0 {
		t.refs++
	}
	return t
}

// Release drops one reference.
func (t *Texture) Release() {
	if t == nil || t.refs == 0 {
		return
	}
	t.refs--
	if t.refs == 0 {
		t.backend.DeleteTexture(t.id)
	}
}

// View owns a render target view.
type View struct {
	backend Backend
	id      ViewID
	width   int
	height  int
}

// NewColorView creates a color target view.
func NewColorView(b Backend, width, height int) (*View, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("color view %dx%d: %w", width, height, ErrInvalidSize)
	}
	id, err := b.CreateColorView(width, height)
	if err != nil {
		return nil, fmt.Errorf("color view: %w", err)
	}
	return &View{backend: b, id: id, width: width, height: height}, nil
}

// NewDepthStencilView creates a depth-stencil target view.
func NewDepthStencilView(b Backend, width, height int) (*View, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("depth view %dx%d: %w", width, height, ErrInvalidSize)
	}
	id, err := b.CreateDepthStencilView(width, height)
	if err != nil {
		return nil, fmt.Errorf("depth view: %w", err)
	}
	return &View{backend: b, id: id, width: width, height: height}, nil
}

// ID returns the backend handle.
func (v *View) ID() ViewID { return v.id }

// Size returns the view dimensions.
func (v *View) Size() (width, height int) { return v.width, v.height }

// Release frees the view. Safe to call more than once and on nil.
func (v *View) Release() {
	if v == nil || v.backend == nil {
		return
	}
	v.backend.DeleteView(v.id)
	v.backend = nil
}
