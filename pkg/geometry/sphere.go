package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	Mat    material.Material
	Color  core.Vec3
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material, color core.Vec3) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		Mat:    mat,
		Color:  color,
	}
}

// Intersect tests if a ray intersects with the sphere. The ray direction is
// assumed to be unit length.
func (s *Sphere) Intersect(ray core.Ray) (core.Intersection, bool) {
	oc := ray.Origin.Subtract(s.Center)
	p := ray.Direction.Dot(oc)
	discriminant := p*p - (oc.LengthSquared() - s.Radius*s.Radius)

	if discriminant < 0 {
		return core.Intersection{}, false
	}

	if discriminant == 0 {
		// Tangent ray: single root
		if -p < 0 {
			return core.Intersection{}, false
		}
		return s.hitAt(ray, -p)
	}

	sqrtD := math.Sqrt(discriminant)
	if near := -p - sqrtD; near >= 0 {
		return s.hitAt(ray, near)
	}
	// Origin inside the sphere
	if far := -p + sqrtD; far >= 0 {
		return s.hitAt(ray, far)
	}
	return core.Intersection{}, false
}

func (s *Sphere) hitAt(ray core.Ray, t float64) (core.Intersection, bool) {
	point := ray.At(t)
	normal := point.Subtract(s.Center).Normalize()
	if normal.IsZero() {
		return core.Intersection{}, false
	}
	return core.Intersection{Point: point, Normal: normal}, true
}

// Material returns the sphere's material
func (s *Sphere) Material() material.Material {
	return s.Mat
}

// Albedo returns the sphere colour; it does not vary over the surface
func (s *Sphere) Albedo(core.Vec3) core.Vec3 {
	return s.Color
}

// Validate rejects spheres that cannot produce a usable normal
func (s *Sphere) Validate() error {
	if !(s.Radius >= core.Epsilon) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("sphere at %v: radius must be at least %g, got %g", s.Center, core.Epsilon, s.Radius)
	}
	return nil
}
