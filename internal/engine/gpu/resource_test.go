package gpu_test

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/gpu/gputest"
)

func TestBufferLifecycle(t *testing.T) {
	rec := gputest.New()

	buf, err := gpu.NewBuffer(rec, gpu.BufferDesc{Kind: gpu.UniformBuffer, Usage: gpu.Dynamic, Size: 16, Label: "test"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 16, buf.Size())
	assert.Equal(t, 1, rec.LiveBuffers())

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}
	require.NoError(t, buf.Write(data))
	assert.Equal(t, data, rec.BufferData(buf.ID()))

	err = buf.Write(data[:8])
	assert.True(t, errors.Is(err, gpu.ErrInvalidSize))

	buf.Release()
	buf.Release()
	assert.Equal(t, 0, rec.LiveBuffers())
	assert.Len(t, rec.Find("DeleteBuffer"), 1)
	assert.ErrorIs(t, buf.Write(data), gpu.ErrReleased)
}

func TestNewBufferValidatesSize(t *testing.T) {
	rec := gputest.New()

	_, err := gpu.NewBuffer(rec, gpu.BufferDesc{Kind: gpu.VertexBuffer, Size: 0}, nil)
	assert.ErrorIs(t, err, gpu.ErrInvalidSize)

	_, err = gpu.NewBuffer(rec, gpu.BufferDesc{Kind: gpu.VertexBuffer, Size: 8}, make([]byte, 4))
	assert.ErrorIs(t, err, gpu.ErrInvalidSize)

	assert.Empty(t, rec.Find("CreateBuffer"))
}

func TestNewBufferBackendError(t *testing.T) {
	rec := gputest.New()
	boom := errors.New("out of memory")
	rec.Fail["CreateBuffer"] = boom

	_, err := gpu.NewBuffer(rec, gpu.BufferDesc{Kind: gpu.IndexBuffer, Size: 12, Label: "mesh"}, make([]byte, 12))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "index buffer \"mesh\"")
}

func TestTextureRefCount(t *testing.T) {
	rec := gputest.New()

	tex, err := gpu.NewTexture(rec, gpu.TextureDesc{Width: 2, Height: 2, Label: "checker"}, make([]byte, 16))
	require.NoError(t, err)
	assert.Equal(t, 1, tex.Refs())

	alias := tex.Retain()
	assert.Same(t, tex, alias)
	assert.Equal(t, 2, tex.Refs())

	tex.Release()
	assert.Equal(t, 1, rec.LiveTextures(), "texture freed while an alias is live")

	alias.Release()
	assert.Equal(t, 0, rec.LiveTextures())

	// Extra releases and retains after free are ignored.
	alias.Release()
	alias.Retain()
	assert.Equal(t, 0, tex.Refs())
	assert.Len(t, rec.Find("DeleteTexture"), 1)
}

func TestNewTextureValidatesPixels(t *testing.T) {
	rec := gputest.New()

	_, err := gpu.NewTexture(rec, gpu.TextureDesc{Width: 2, Height: 2}, make([]byte, 15))
	assert.ErrorIs(t, err, gpu.ErrInvalidSize)

	_, err = gpu.NewTexture(rec, gpu.TextureDesc{Width: 0, Height: 2}, nil)
	assert.ErrorIs(t, err, gpu.ErrInvalidSize)
}

func TestViews(t *testing.T) {
	rec := gputest.New()

	color, err := gpu.NewColorView(rec, 1600, 900)
	require.NoError(t, err)
	depth, err := gpu.NewDepthStencilView(rec, 1600, 900)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.LiveViews())

	w, h := depth.Size()
	assert.Equal(t, 1600, w)
	assert.Equal(t, 900, h)

	color.Release()
	depth.Release()
	var nilView *gpu.View
	nilView.Release()
	assert.Equal(t, 0, rec.LiveViews())

	_, err = gpu.NewColorView(rec, 0, 900)
	assert.ErrorIs(t, err, gpu.ErrInvalidSize)
}

func TestBytes(t *testing.T) {
	v := struct{ A, B float32 }{1, 2}
	assert.Len(t, gpu.Bytes(&v), 8)

	s := []uint32{1, 2, 3}
	b := gpu.SliceBytes(s)
	assert.Len(t, b, 12)
	assert.Equal(t, unsafe.Pointer(&s[0]), unsafe.Pointer(&b[0]))
	assert.Nil(t, gpu.SliceBytes([]uint32{}))
}
