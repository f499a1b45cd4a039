// Package lighting holds the single point light uploaded to the pixel shader.
package lighting

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/lightlab/internal/config"
)

// Settings is uploaded verbatim to the "Lighting" uniform block (std140).
// Field order and the trailing pad keep it at 80 bytes, a multiple of 16.
type Settings struct {
	CamPos       mgl32.Vec4 // Written every frame from the camera
	Position     mgl32.Vec4
	AmbientColor mgl32.Vec4
	LightColor   mgl32.Vec4

	AmbientStrength  float32
	SpecularStrength float32
	SpecularPower    float32
	_                float32
}

// Size is the uniform buffer size of Settings in bytes.
const Size = 80

// Default returns the stock light.
func Default() Settings {
	return FromConfig(config.Default().Scene.Light)
}

// FromConfig builds settings from the config section. CamPos starts at zero.
func FromConfig(c config.LightConfig) Settings {
	return Settings{
		Position:         c.Position,
		AmbientColor:     c.AmbientColor,
		LightColor:       c.LightColor,
		AmbientStrength:  c.AmbientStrength,
		SpecularStrength: c.SpecularStrength,
		SpecularPower:    c.SpecularPower,
	}
}

// SetCamera copies the eye position into CamPos. W stays 0.
func (s *Settings) SetCamera(eye mgl32.Vec3) {
	s.CamPos = eye.Vec4(0)
}
