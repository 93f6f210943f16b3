package core

import "fmt"

// Ray is the half-line Origin + t*Direction, t >= 0
type Ray struct {
	Origin    Vec3
	Direction Vec3
}

// NewRay creates a new ray
func NewRay(origin, direction Vec3) Ray {
	return Ray{Origin: origin, Direction: direction}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Reflect mirrors the ray about the plane through point with the given
// normal. The result starts at point and travels along d - 2(d.n)n.
func (r Ray) Reflect(point, normal Vec3) Ray {
	d := r.Direction
	return Ray{
		Origin:    point,
		Direction: d.Subtract(normal.Multiply(2 * d.Dot(normal))),
	}
}

func (r Ray) String() string {
	return fmt.Sprintf("Ray(%v, %v)", r.Origin, r.Direction)
}

// Intersection is a point on a surface together with its shading normal.
// A genuine intersection never carries the zero normal.
type Intersection struct {
	Point  Vec3
	Normal Vec3
}

// Valid reports whether the record describes a real hit
func (i Intersection) Valid() bool {
	return !i.Normal.IsZero()
}

// Offset returns the intersection with its point pushed eps along the normal.
// Used to start secondary rays clear of the surface they leave.
func (i Intersection) Offset(eps float64) Intersection {
	return Intersection{Point: i.Point.Add(i.Normal.Multiply(eps)), Normal: i.Normal}
}
