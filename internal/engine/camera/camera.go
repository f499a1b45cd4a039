// Package camera provides the viewer's fly camera.
package camera

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightlab/pkg/math"
)

// Fixed look direction and up vector of the fly camera.
var (
	Forward = mgl32.Vec3{0, 0, 1}
	Up      = mgl32.Vec3{0, 1, 0}
)

// FlyCamera translates freely along the world axes and always looks down +Z.
type FlyCamera struct {
	Location mgl32.Vec3
	// Rotation is kept for the settings panel; the view ignores it.
	Rotation mgl32.Vec3
	FOV      float32 // Vertical field of view, degrees
	Speed    float32 // World units per Move step
}

// NewFlyCamera creates a camera with the viewer's stock placement.
func NewFlyCamera() *FlyCamera {
	return &FlyCamera{
		Location: mgl32.Vec3{-1.38, 1.44, -2.0},
		FOV:      60,
		Speed:    0.03,
	}
}

// Move steps the camera along the world axes. Each component is a direction
// multiplier (normally -1, 0 or 1) scaled by Speed. There is no frame time
// factor, so movement speed follows the frame rate.
func (c *FlyCamera) Move(dx, dy, dz float32) {
	c.Location = c.Location.Add(mgl32.Vec3{dx, dy, dz}.Mul(c.Speed))
}

// ViewMatrix returns the left-handed view matrix.
func (c *FlyCamera) ViewMatrix() mgl32.Mat4 {
	return math.LookToLH(c.Location, Forward, Up)
}

// ProjectionMatrix returns the left-handed perspective projection for the given aspect ratio.
func (c *FlyCamera) ProjectionMatrix(aspect, near, far float32) mgl32.Mat4 {
	return math.PerspectiveFovLH(math.ToRadians(c.FOV), aspect, near, far)
}
