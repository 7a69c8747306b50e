// Package vmath holds the small float32 vector helpers shared by the solver,
// the mesh snapshot and the shaders.
package vmath

import "github.com/chewxy/math32"

// Vec3 is a float32 3D vector laid out the way vertex buffers expect it.
type Vec3 struct {
	X, Y, Z float32
}

// Up is the +Y unit vector, the normal of an undisturbed surface.
var Up = Vec3{0, 1, 0}

// UnitX is the +X unit vector, the tangent of an undisturbed surface.
var UnitX = Vec3{1, 0, 0}

// Scale multiplies every component by s.
func (v Vec3) Scale(s float32) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Dot returns the scalar product of v and o.
func (v Vec3) Dot(o Vec3) float32 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Length returns the Euclidean norm.
func (v Vec3) Length() float32 { return math32.Sqrt(v.Dot(v)) }

// Normalize returns v scaled to unit length, or the zero vector when v is zero.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	inv := 1 / l
	return Vec3{v.X * inv, v.Y * inv, v.Z * inv}
}

// ApproxEqual compares component-wise within tol.
func (v Vec3) ApproxEqual(o Vec3, tol float32) bool {
	return math32.Abs(v.X-o.X) <= tol &&
		math32.Abs(v.Y-o.Y) <= tol &&
		math32.Abs(v.Z-o.Z) <= tol
}
