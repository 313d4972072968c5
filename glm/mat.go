package glm

import math "github.com/chewxy/math32"

// Mat4 is a 4x4 matrix stored column-major: xRC is row R, column C. It acts
// on column vectors (v' = M·v), the same convention as soypat/glgl's
// math/ms3 package. The batcher's CPU-side vertex transform (batch2d) and
// any host-built camera/projection matrix must agree on this convention.
type Mat4 struct {
	x00, x10, x20, x30 float32
	x01, x11, x21, x31 float32
	x02, x12, x22, x32 float32
	x03, x13, x23, x33 float32
}

// Identity4 returns the 4x4 identity matrix.
func Identity4() Mat4 {
	return Mat4{
		x00: 1, x11: 1, x22: 1, x33: 1,
	}
}

// Translate4 returns a 4x4 translation matrix for v.
func Translate4(v Vec2) Mat4 {
	m := Identity4()
	m.x03, m.x13 = v.X, v.Y
	return m
}

// Scale4 returns a 4x4 scale matrix for v on x and y (z and w unaffected).
func Scale4(v Vec2) Mat4 {
	m := Identity4()
	m.x00, m.x11 = v.X, v.Y
	return m
}

// Mul returns a·b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	m.x00 = a.x00*b.x00 + a.x01*b.x10 + a.x02*b.x20 + a.x03*b.x30
	m.x10 = a.x10*b.x00 + a.x11*b.x10 + a.x12*b.x20 + a.x13*b.x30
	m.x20 = a.x20*b.x00 + a.x21*b.x10 + a.x22*b.x20 + a.x23*b.x30
	m.x30 = a.x30*b.x00 + a.x31*b.x10 + a.x32*b.x20 + a.x33*b.x30

	m.x01 = a.x00*b.x01 + a.x01*b.x11 + a.x02*b.x21 + a.x03*b.x31
	m.x11 = a.x10*b.x01 + a.x11*b.x11 + a.x12*b.x21 + a.x13*b.x31
	m.x21 = a.x20*b.x01 + a.x21*b.x11 + a.x22*b.x21 + a.x23*b.x31
	m.x31 = a.x30*b.x01 + a.x31*b.x11 + a.x32*b.x21 + a.x33*b.x31

	m.x02 = a.x00*b.x02 + a.x01*b.x12 + a.x02*b.x22 + a.x03*b.x32
	m.x12 = a.x10*b.x02 + a.x11*b.x12 + a.x12*b.x22 + a.x13*b.x32
	m.x22 = a.x20*b.x02 + a.x21*b.x12 + a.x22*b.x22 + a.x23*b.x32
	m.x32 = a.x30*b.x02 + a.x31*b.x12 + a.x32*b.x22 + a.x33*b.x32

	m.x03 = a.x00*b.x03 + a.x01*b.x13 + a.x02*b.x23 + a.x03*b.x33
	m.x13 = a.x10*b.x03 + a.x11*b.x13 + a.x12*b.x23 + a.x13*b.x33
	m.x23 = a.x20*b.x03 + a.x21*b.x13 + a.x22*b.x23 + a.x23*b.x33
	m.x33 = a.x30*b.x03 + a.x31*b.x13 + a.x32*b.x23 + a.x33*b.x33
	return m
}

// MulPoint transforms a 2D point p by m, treating z=0, w=1 and returning
// only the resulting x/y. This is the exact transform the batcher applies
// to every vertex position per spec: position' = M.xx*x + M.yx*y + M.wx.
func (m Mat4) MulPoint(p Vec2) Vec2 {
	return Vec2{
		X: m.x00*p.X + m.x01*p.Y + m.x03,
		Y: m.x10*p.X + m.x11*p.Y + m.x13,
	}
}

// Ortho returns a standard off-center orthographic projection mapping
// [left,right]x[bottom,top]x[near,far] onto the clip-space cube consistent
// with this package's column-vector convention.
func Ortho(left, right, bottom, top, near, far float32) Mat4 {
	m := Identity4()
	m.x00 = 2 / (right - left)
	m.x11 = 2 / (top - bottom)
	m.x22 = -2 / (far - near)
	m.x03 = -(right + left) / (right - left)
	m.x13 = -(top + bottom) / (top - bottom)
	m.x23 = -(far + near) / (far - near)
	return m
}

// Perspective returns a standard symmetric perspective projection for a
// vertical field of view fovyRadians, aspect ratio width/height, and
// near/far clip planes.
func Perspective(fovyRadians, aspect, near, far float32) Mat4 {
	f := 1 / math.Tan(fovyRadians/2)
	var m Mat4
	m.x00 = f / aspect
	m.x11 = f
	m.x22 = (far + near) / (near - far)
	m.x23 = (2 * far * near) / (near - far)
	m.x32 = -1
	return m
}
