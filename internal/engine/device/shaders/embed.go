// Package shaders provides the embedded GLSL programs of the lit mesh pass.
package shaders

import _ "embed"

// VertexShader transforms vertices and passes world position, normal and UV.
//
//go:embed vertex.glsl
var VertexShader string

// PixelShader applies ambient, diffuse and specular terms of one point light.
//
//go:embed pixel.glsl
var PixelShader string
