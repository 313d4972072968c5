// Package glm provides the small vector/matrix/rect types shared by the
// GPU object layer, the 2D batcher, and the command executor. Matrices are
// column-major, right-handed, and operate on column vectors (v' = M·v),
// matching soypat/glgl's math/ms3 convention.
package glm

// Vec2 is a 2D vector of two float32 fields, x and y, in that order.
type Vec2 struct {
	X, Y float32
}

// Add returns the vector sum of p and q.
func (p Vec2) Add(q Vec2) Vec2 { return Vec2{p.X + q.X, p.Y + q.Y} }

// Sub returns the vector difference p - q.
func (p Vec2) Sub(q Vec2) Vec2 { return Vec2{p.X - q.X, p.Y - q.Y} }

// Scale returns p scaled by f.
func (p Vec2) Scale(f float32) Vec2 { return Vec2{p.X * f, p.Y * f} }

// Vec4 is a 4D vector of four float32 fields, in x, y, z, w order. Used for
// colors (rgba) and homogeneous positions.
type Vec4 struct {
	X, Y, Z, W float32
}

// Lerp returns the linear interpolation between a and b at parameter t:
// a when t==0, b when t==1.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Lerp2 applies Lerp component-wise to two Vec2 values.
func Lerp2(a, b Vec2, t float32) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}
