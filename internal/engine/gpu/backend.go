package gpu

// Backend is the command surface of a graphics device.
//
// Implementations are not safe for concurrent use; all calls happen on the
// thread that owns the graphics context.
type Backend interface {
	CreateBuffer(desc BufferDesc, data []byte) (BufferID, error)
	// WriteBuffer overwrites the whole buffer. len(data) must equal its size.
	WriteBuffer(id BufferID, data []byte) error
	DeleteBuffer(id BufferID)

	// CreateTexture uploads width*height RGBA8 pixels as a sampleable texture.
	CreateTexture(desc TextureDesc, pixels []byte) (TextureID, error)
	DeleteTexture(id TextureID)

	// CreateColorView creates an RGBA8 render target view.
	CreateColorView(width, height int) (ViewID, error)
	// CreateDepthStencilView creates a 24-bit depth + 8-bit stencil target view.
	CreateDepthStencilView(width, height int) (ViewID, error)
	DeleteView(id ViewID)

	CreateProgram(src ProgramSource) (ProgramID, error)
	DeleteProgram(id ProgramID)
	CreateInputLayout(layout VertexLayout) (InputLayoutID, error)
	DeleteInputLayout(id InputLayoutID)
	CreateSampler(desc SamplerDesc) (SamplerID, error)
	DeleteSampler(id SamplerID)

	SetRenderTargets(color, depth ViewID)
	// SetDefaultTarget binds the window's own framebuffer.
	SetDefaultTarget()
	SetViewport(vp Viewport)
	ClearColor(color ViewID, rgba [4]float32)
	ClearDepthStencil(view ViewID, depth float32, stencil uint8)

	SetProgram(id ProgramID)
	SetInputLayout(id InputLayoutID)
	SetUniformBuffer(slot int, id BufferID)
	SetSampler(slot int, id SamplerID)
	SetTexture(slot int, id TextureID)
	SetVertexBuffer(id BufferID, stride int)
	SetIndexBuffer(id BufferID)
	// DrawIndexed draws count indices starting at index first as a triangle list.
	DrawIndexed(count, first int)

	// BlitToDefault copies a color view to the window framebuffer.
	BlitToDefault(color ViewID, width, height int)
	// ReadPixels reads a color view back as tightly packed RGBA8, bottom row first.
	ReadPixels(color ViewID, width, height int) ([]byte, error)
}

// Swapchain is the presentation surface owned by the window.
type Swapchain interface {
	// ResizeBuffers resizes the back buffer. Views onto the old back buffer
	// must be released first.
	ResizeBuffers(width, height int) error
	// Present shows the color view. syncInterval 1 waits for vertical sync.
	Present(color ViewID, width, height, syncInterval int) error
}
