// Package math provides the matrix helpers used to build per-frame transforms.
//
// Matrices are mgl32.Mat4 values read with row vectors (p' = p × M), so a
// composition reads in application order: Scaling × Rotation × Translation
// scales first and translates last. Shaders in this project multiply column
// vectors, so callers transpose before upload.
package math

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ToRadians converts degrees to radians.
func ToRadians(deg float32) float32 {
	return deg * math32.Pi / 180
}

// ToRadians3 converts each component from degrees to radians.
func ToRadians3(deg mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{ToRadians(deg[0]), ToRadians(deg[1]), ToRadians(deg[2])}
}

// Scaling returns a scale matrix.
func Scaling(s mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Scale3D(s[0], s[1], s[2])
}

// Translation returns a translation matrix with the offset in the last row.
func Translation(t mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(t[0], t[1], t[2]).Transpose()
}

// RotationX returns a left-handed rotation around the X axis.
// angle is in radians.
func RotationX(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(angle).Transpose()
}

// RotationY returns a left-handed rotation around the Y axis.
// angle is in radians.
func RotationY(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(angle).Transpose()
}

// RotationZ returns a left-handed rotation around the Z axis.
// angle is in radians.
func RotationZ(angle float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DZ(angle).Transpose()
}

// RotationXYZ rotates around X, then Y, then Z. Angles are in radians.
func RotationXYZ(angles mgl32.Vec3) mgl32.Mat4 {
	return RotationX(angles[0]).Mul4(RotationY(angles[1])).Mul4(RotationZ(angles[2]))
}

// Compose builds Scaling(scale) × RotationXYZ(rotationDeg) × Translation(location).
// rotationDeg is in degrees.
func Compose(location, rotationDeg, scale mgl32.Vec3) mgl32.Mat4 {
	return Scaling(scale).
		Mul4(RotationXYZ(ToRadians3(rotationDeg))).
		Mul4(Translation(location))
}

// LookToLH returns a left-handed view matrix for a camera at eye looking along dir.
func LookToLH(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	z := dir.Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)

	return mgl32.Mat4FromRows(
		mgl32.Vec4{x[0], y[0], z[0], 0},
		mgl32.Vec4{x[1], y[1], z[1], 0},
		mgl32.Vec4{x[2], y[2], z[2], 0},
		mgl32.Vec4{-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1},
	)
}

// PerspectiveFovLH returns a left-handed perspective projection.
// fovY is in radians, aspect is width/height. Depth maps to the OpenGL clip
// range: near → -1, far → +1.
func PerspectiveFovLH(fovY, aspect, near, far float32) mgl32.Mat4 {
	h := 1 / math32.Tan(fovY/2)
	w := h / aspect
	fn := far - near

	return mgl32.Mat4FromRows(
		mgl32.Vec4{w, 0, 0, 0},
		mgl32.Vec4{0, h, 0, 0},
		mgl32.Vec4{0, 0, (far + near) / fn, 1},
		mgl32.Vec4{0, 0, -2 * far * near / fn, 0},
	)
}

// TransformPoint transforms p as a row vector with w=1 and divides by w.
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	v := m.Transpose().Mul4x1(p.Vec4(1))
	if v[3] != 0 && v[3] != 1 {
		return mgl32.Vec3{v[0] / v[3], v[1] / v[3], v[2] / v[3]}
	}
	return v.Vec3()
}
