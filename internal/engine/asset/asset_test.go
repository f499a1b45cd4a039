package asset

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unsafe"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/gpu"
	"github.com/Faultbox/lightlab/internal/engine/gpu/gputest"
	"github.com/Faultbox/lightlab/pkg/formats"
)

const twoShapeOBJ = `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0.25 0.75
vn 0 0 1
o quad
f 1/1/1 2/1/1 3/1/1 4/1/1
o tri
f 1 2 3
`

func TestVertexLayout(t *testing.T) {
	assert.Equal(t, 32, VertexStride)
	assert.Equal(t, uintptr(32), unsafe.Sizeof(Vertex{}))

	layout := VertexLayout()
	require.Len(t, layout.Attributes, 3)
	offsets := []int{layout.Attributes[0].Offset, layout.Attributes[1].Offset, layout.Attributes[2].Offset}
	assert.Equal(t, []int{0, 12, 24}, offsets)
	assert.Equal(t, 2, layout.Attributes[2].Components)
}

func TestBuildMesh(t *testing.T) {
	rec := gputest.New()
	obj, err := formats.ParseOBJ(strings.NewReader(twoShapeOBJ))
	require.NoError(t, err)

	mesh, err := BuildMesh(rec, "test", obj)
	require.NoError(t, err)

	// Quad fans into 6 references, triangle adds 3.
	require.Len(t, mesh.Submeshes, 2)
	assert.Equal(t, uint32(6), mesh.Submeshes[0].IndexCount)
	assert.Equal(t, uint32(3), mesh.Submeshes[1].IndexCount)
	assert.Equal(t, uint32(9), mesh.IndexCount())
	assert.Nil(t, mesh.Submeshes[0].Texture)

	assert.Equal(t, 9*VertexStride, mesh.VertexBuffer.Size())
	assert.Equal(t, 9*4, mesh.IndexBuffer.Size())

	indices := rec.BufferData(mesh.IndexBuffer.ID())
	for i := 0; i < 9; i++ {
		assert.Equal(t, uint32(i), binary.LittleEndian.Uint32(indices[i*4:]), "index %d", i)
	}

	vertices := rec.BufferData(mesh.VertexBuffer.ID())
	floatAt := func(vertex, component int) float32 {
		off := vertex*VertexStride + component*4
		return math.Float32frombits(binary.LittleEndian.Uint32(vertices[off:]))
	}

	// Vertex 2 is the fan's third reference: position 3, texcoord (0.25, -0.75), normal +Z.
	assert.Equal(t, float32(1), floatAt(2, 0))
	assert.Equal(t, float32(1), floatAt(2, 1))
	assert.Equal(t, float32(1), floatAt(2, 5))
	assert.Equal(t, float32(0.25), floatAt(2, 6))
	assert.Equal(t, float32(-0.75), floatAt(2, 7))

	// The triangle has no normal or texcoord references and gets zeros.
	for c := 3; c < 8; c++ {
		assert.Zero(t, floatAt(7, c), "component %d", c)
	}

	mesh.Release()
	mesh.Release()
	assert.Zero(t, rec.Live())
}

func TestBuildMeshEmpty(t *testing.T) {
	rec := gputest.New()
	_, err := BuildMesh(rec, "empty", &formats.OBJ{})
	assert.Error(t, err)
	assert.Zero(t, rec.Live())
}

func TestBuildMeshIndexBufferFailure(t *testing.T) {
	rec := gputest.New()
	obj, err := formats.ParseOBJ(strings.NewReader(twoShapeOBJ))
	require.NoError(t, err)

	// Vertex buffer succeeds, then every later buffer fails.
	calls := 0
	mesh, err := BuildMesh(&failNth{Recorder: rec, n: 2, count: &calls}, "test", obj)
	assert.Nil(t, mesh)
	assert.Error(t, err)
	assert.Zero(t, rec.LiveBuffers())
}

// failNth fails the nth CreateBuffer call.
type failNth struct {
	*gputest.Recorder
	n     int
	count *int
}

func (f *failNth) CreateBuffer(desc gpu.BufferDesc, data []byte) (gpu.BufferID, error) {
	*f.count++
	if *f.count == f.n {
		return 0, assert.AnError
	}
	return f.Recorder.CreateBuffer(desc, data)
}

func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	writePNG(t, path, 3, 2, color.NRGBA{R: 255, A: 128})

	pixels, w, h, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 3, w)
	assert.Equal(t, 2, h)
	require.Len(t, pixels, 3*2*4)
	assert.Equal(t, []byte{255, 0, 0, 128}, pixels[:4])

	_, _, _, err = LoadTexture(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not an image"), 0644))
	_, _, _, err = LoadTexture(bad)
	assert.Error(t, err)
}

func TestLoadTextureFormats(t *testing.T) {
	base := color.NRGBA{R: 200, G: 40, B: 10, A: 255}
	corner := color.NRGBA{R: 10, G: 220, B: 30, A: 255}

	tests := []struct {
		name   string
		file   string
		encode func(io.Writer, image.Image) error
		// lossy formats get a uniform image and a channel tolerance.
		lossy bool
	}{
		{"png", "tex.png", png.Encode, false},
		{"jpeg", "tex.jpg", func(w io.Writer, m image.Image) error {
			return jpeg.Encode(w, m, &jpeg.Options{Quality: 100})
		}, true},
		{"bmp", "tex.bmp", bmp.Encode, false},
		{"webp", "tex.webp", func(w io.Writer, m image.Image) error {
			return nativewebp.Encode(w, m, nil)
		}, false},
		{"tga", "tex.tga", tga.Encode, false},
		{"tga upper case", "TEX.TGA", tga.Encode, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, 4, 3))
			for y := 0; y < 3; y++ {
				for x := 0; x < 4; x++ {
					src.SetNRGBA(x, y, base)
				}
			}
			tolerance, first := 8, base
			if !tt.lossy {
				// A distinct top-left texel pins the row order.
				src.SetNRGBA(0, 0, corner)
				tolerance, first = 0, corner
			}

			var buf bytes.Buffer
			require.NoError(t, tt.encode(&buf, src))
			path := filepath.Join(t.TempDir(), tt.file)
			require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))

			pixels, w, h, err := LoadTexture(path)
			require.NoError(t, err)
			assert.Equal(t, 4, w)
			assert.Equal(t, 3, h)
			require.Len(t, pixels, 4*3*4)

			assertTexel(t, []byte{first.R, first.G, first.B, first.A}, pixels[0:4], tolerance)
			assertTexel(t, []byte{base.R, base.G, base.B, base.A}, pixels[len(pixels)-4:], tolerance)
		})
	}
}

func assertTexel(t *testing.T, want, got []byte, tolerance int) {
	t.Helper()
	for i := range want {
		d := int(want[i]) - int(got[i])
		if d < 0 {
			d = -d
		}
		assert.LessOrEqual(t, d, tolerance, "channel %d: want %d, got %d", i, want[i], got[i])
	}
}

func TestLoadTextureUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.gif")
	require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0644))

	_, _, _, err := LoadTexture(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestToNRGBA(t *testing.T) {
	gray := image.NewGray(image.Rect(5, 5, 7, 6))
	gray.SetGray(5, 5, color.Gray{Y: 200})

	out := ToNRGBA(gray)
	assert.Equal(t, image.Rect(0, 0, 2, 1), out.Bounds())
	assert.Equal(t, []byte{200, 200, 200, 255}, out.Pix[:4])

	same := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	assert.Same(t, same, ToNRGBA(same))
}

func TestWhiteTexture(t *testing.T) {
	rec := gputest.New()
	tex, err := WhiteTexture(rec)
	require.NoError(t, err)

	w, h := tex.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
	tex.Release()
	assert.Zero(t, rec.LiveTextures())
}

func writeAssets(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "meshes"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "meshes", "two.obj"), []byte(twoShapeOBJ), 0644))
	writePNG(t, filepath.Join(root, "textures", "a.png"), 2, 2, color.NRGBA{G: 255, A: 255})

	cfg := config.Default()
	cfg.Assets.Root = root
	cfg.Assets.Meshes = []config.MeshConfig{
		{Name: "textured", Path: "meshes/two.obj", Textures: []string{"textures/a.png", "textures/a.png"}},
		{Name: "plain", Path: "meshes/two.obj"},
	}
	return cfg
}

func TestLoad(t *testing.T) {
	rec := gputest.New()
	cfg := writeAssets(t)

	meshes, err := Load(rec, cfg)
	require.NoError(t, err)
	require.Len(t, meshes, 2)

	// One decoded file plus the shared white texture.
	assert.Equal(t, 2, rec.LiveTextures())

	textured, plain := meshes[0], meshes[1]
	assert.Same(t, textured.Submeshes[0].Texture, textured.Submeshes[1].Texture)
	assert.Equal(t, 2, textured.Submeshes[0].Texture.Refs())

	white := plain.Submeshes[0].Texture
	assert.Same(t, white, plain.Submeshes[1].Texture)
	assert.Equal(t, "white", white.Label())
	assert.Equal(t, 2, white.Refs())

	textured.Release()
	assert.Equal(t, 1, rec.LiveTextures(), "white texture must survive the first mesh")
	plain.Release()
	assert.Zero(t, rec.Live())
}

func TestLoadMissingTextureReleasesEverything(t *testing.T) {
	rec := gputest.New()
	cfg := writeAssets(t)
	cfg.Assets.Meshes[1].Textures = []string{"textures/missing.png"}

	meshes, err := Load(rec, cfg)
	assert.Nil(t, meshes)
	assert.Error(t, err)
	assert.Zero(t, rec.Live())
}

func TestLoadMissingMesh(t *testing.T) {
	rec := gputest.New()
	cfg := writeAssets(t)
	cfg.Assets.Meshes[0].Path = "meshes/nope.obj"

	_, err := Load(rec, cfg)
	assert.Error(t, err)
	assert.Zero(t, rec.Live())
}
