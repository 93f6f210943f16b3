package core

import (
	"fmt"
	"math"
)

// Epsilon is the smallest magnitude accepted as a divisor. Divisions and
// normalisations below it are refused rather than blowing up to Inf/NaN.
const Epsilon = 1e-4

// Vec3 represents a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Divide returns the vector divided by a scalar. The second result is false
// when |scalar| < Epsilon, in which case no division is performed.
func (v Vec3) Divide(scalar float64) (Vec3, bool) {
	if math.Abs(scalar) < Epsilon {
		return Vec3{}, false
	}
	return Vec3{v.X / scalar, v.Y / scalar, v.Z / scalar}, true
}

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{
		X: v.X * other.X,
		Y: v.Y * other.Y,
		Z: v.Z * other.Z,
	}
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction. Vectors shorter
// than Epsilon are returned unchanged.
func (v Vec3) Normalize() Vec3 {
	u, ok := v.Divide(v.Length())
	if !ok {
		return v
	}
	return u
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// IsZero reports whether every component is exactly zero
func (v Vec3) IsZero() bool {
	return v == Vec3{}
}

func (v Vec3) String() string {
	return fmt.Sprintf("V(%g, %g, %g)", v.X, v.Y, v.Z)
}
