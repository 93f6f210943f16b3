package geometry

import (
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Plane represents an infinite two-sided plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal
	Mat    material.Material
	Color  core.Vec3
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material, color core.Vec3) *Plane {
	return &Plane{
		Point:  point,
		Normal: normal.Normalize(), // Ensure normal is normalized
		Mat:    mat,
		Color:  color,
	}
}

// Intersect tests if a ray intersects with the plane. The returned normal
// always faces the incoming ray.
func (p *Plane) Intersect(ray core.Ray) (core.Intersection, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays miss, including rays lying in the plane
	if denominator == 0 {
		return core.Intersection{}, false
	}

	t := -ray.Origin.Subtract(p.Point).Dot(p.Normal) / denominator
	if t < 0 {
		return core.Intersection{}, false
	}

	normal := p.Normal
	if denominator > 0 {
		normal = normal.Negate()
	}
	return core.Intersection{Point: ray.At(t), Normal: normal}, true
}

// Material returns the plane's material
func (p *Plane) Material() material.Material {
	return p.Mat
}

// Albedo returns the plane colour; it does not vary over the surface
func (p *Plane) Albedo(core.Vec3) core.Vec3 {
	return p.Color
}

// Validate rejects planes without a usable normal
func (p *Plane) Validate() error {
	if p.Normal.IsZero() || p.Normal.Length() < core.Epsilon {
		return fmt.Errorf("plane through %v: normal must be non-zero, got %v", p.Point, p.Normal)
	}
	return nil
}
