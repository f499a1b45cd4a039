// Package scene holds the viewer's mutable state: the loaded meshes, which
// one is drawn, its transform, the camera and the light.
package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightlab/internal/config"
	"github.com/Faultbox/lightlab/internal/engine/asset"
	"github.com/Faultbox/lightlab/internal/engine/camera"
	"github.com/Faultbox/lightlab/internal/engine/lighting"
	"github.com/Faultbox/lightlab/pkg/math"
)

// Transform places the model in the world. Rotation is in degrees per axis.
type Transform struct {
	Location mgl32.Vec3
	Rotation mgl32.Vec3
	Scale    mgl32.Vec3
}

// IdentityTransform returns a transform that leaves the model in place.
func IdentityTransform() Transform {
	return Transform{Scale: mgl32.Vec3{1, 1, 1}}
}

// Matrix returns Scale × Rotation(X, Y, Z) × Translation in row-vector form.
func (t Transform) Matrix() mgl32.Mat4 {
	return math.Compose(t.Location, t.Rotation, t.Scale)
}

// Scene is the single scene of the viewer.
type Scene struct {
	Meshes    []*asset.Mesh
	Transform Transform
	Camera    *camera.FlyCamera
	Light     lighting.Settings

	active int
}

// New builds a scene over already loaded meshes with the configured
// placement, camera and light. The scene takes ownership of the meshes.
func New(meshes []*asset.Mesh, cfg config.SceneConfig) *Scene {
	cam := camera.NewFlyCamera()
	cam.Location = cfg.Camera.Location
	cam.FOV = cfg.Camera.FOV
	cam.Speed = cfg.Camera.Speed

	return &Scene{
		Meshes: meshes,
		Transform: Transform{
			Location: cfg.Model.Location,
			Rotation: cfg.Model.Rotation,
			Scale:    cfg.Model.Scale,
		},
		Camera: cam,
		Light:  lighting.FromConfig(cfg.Light),
	}
}

// ActiveIndex returns the index of the drawn mesh.
func (s *Scene) ActiveIndex() int { return s.active }

// Active returns the drawn mesh, or nil when none are loaded.
func (s *Scene) Active() *asset.Mesh {
	if s.active < 0 || s.active >= len(s.Meshes) {
		return nil
	}
	return s.Meshes[s.active]
}

// SetActive selects the mesh to draw from the next frame on.
func (s *Scene) SetActive(i int) error {
	if i < 0 || i >= len(s.Meshes) {
		return fmt.Errorf("mesh index %d out of range [0,%d)", i, len(s.Meshes))
	}
	s.active = i
	return nil
}

// MeshNames lists the loaded meshes in order.
func (s *Scene) MeshNames() []string {
	names := make([]string, len(s.Meshes))
	for i, m := range s.Meshes {
		names[i] = m.Name
	}
	return names
}

// Release frees every mesh.
func (s *Scene) Release() {
	for _, m := range s.Meshes {
		m.Release()
	}
	s.Meshes = nil
	s.active = 0
}
