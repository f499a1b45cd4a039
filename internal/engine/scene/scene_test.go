package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/asset"
	"github.com/Faultbox/lightlab/internal/engine/gpu/gputest"
	"github.com/Faultbox/lightlab/pkg/formats"
	"github.com/Faultbox/lightlab/pkg/math"
)

func TestIdentityTransformMatrix(t *testing.T) {
	assert.True(t, IdentityTransform().Matrix().ApproxEqual(mgl32.Ident4()))
}

func TestTransformMatrix(t *testing.T) {
	tr := Transform{
		Location: mgl32.Vec3{1, 2, 3},
		Rotation: mgl32.Vec3{0, 90, 0},
		Scale:    mgl32.Vec3{2, 2, 2},
	}
	// Scale first, then rotate +X onto -Z, then translate.
	got := math.TransformPoint(tr.Matrix(), mgl32.Vec3{1, 0, 0})
	assert.InDeltaSlice(t, []float32{1, 2, 1}, got[:], 1e-5)
}

func newTestScene(t *testing.T) (*Scene, *gputest.Recorder) {
	t.Helper()
	rec := gputest.New()
	var meshes []*asset.Mesh
	for _, name := range []string{"a", "b"} {
		obj := &formats.OBJ{
			Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
			Shapes: []formats.OBJShape{{Name: name, Indices: []formats.OBJIndex{
				{Vertex: 0, TexCoord: formats.NoIndex, Normal: formats.NoIndex},
				{Vertex: 1, TexCoord: formats.NoIndex, Normal: formats.NoIndex},
				{Vertex: 2, TexCoord: formats.NoIndex, Normal: formats.NoIndex},
			}}},
		}
		m, err := asset.BuildMesh(rec, name, obj)
		require.NoError(t, err)
		meshes = append(meshes, m)
	}
	return New(meshes, config.Default().Scene), rec
}

func TestNewUsesConfig(t *testing.T) {
	s, _ := newTestScene(t)
	def := config.Default().Scene

	assert.Equal(t, mgl32.Vec3(def.Model.Location), s.Transform.Location)
	assert.Equal(t, mgl32.Vec3{0, 150, 0}, s.Transform.Rotation)
	assert.Equal(t, mgl32.Vec3(def.Camera.Location), s.Camera.Location)
	assert.Equal(t, float32(60), s.Camera.FOV)
	assert.Equal(t, float32(256), s.Light.SpecularPower)
	assert.Equal(t, []string{"a", "b"}, s.MeshNames())
}

func TestSetActive(t *testing.T) {
	s, _ := newTestScene(t)

	assert.Equal(t, 0, s.ActiveIndex())
	assert.Equal(t, "a", s.Active().Name)

	require.NoError(t, s.SetActive(1))
	assert.Equal(t, "b", s.Active().Name)

	assert.Error(t, s.SetActive(2))
	assert.Error(t, s.SetActive(-1))
	assert.Equal(t, 1, s.ActiveIndex(), "failed selection keeps the current mesh")
}

func TestReleaseFreesMeshes(t *testing.T) {
	s, rec := newTestScene(t)
	require.NotZero(t, rec.LiveBuffers())

	s.Release()

	assert.Zero(t, rec.LiveBuffers())
	assert.Nil(t, s.Active())
}
