package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Shape interface for objects that can be hit by rays
type Shape interface {
	// Intersect returns the nearest intersection in front of the ray origin.
	// The bool is false on a miss.
	Intersect(ray core.Ray) (core.Intersection, bool)
	Material() material.Material
	// Albedo returns the surface colour at point
	Albedo(point core.Vec3) core.Vec3
}

// Validator is implemented by shapes that can reject degenerate parameters
type Validator interface {
	Validate() error
}

// Closest scans every shape and returns the intersection nearest to the ray
// origin along with the shape that produced it.
func Closest(ray core.Ray, shapes []Shape) (core.Intersection, Shape, bool) {
	var (
		closest    core.Intersection
		closestHit Shape
	)
	closestDistSq := 0.0

	for _, shape := range shapes {
		hit, ok := shape.Intersect(ray)
		if !ok {
			continue
		}
		distSq := hit.Point.Subtract(ray.Origin).LengthSquared()
		if closestHit == nil || distSq < closestDistSq {
			closest, closestHit, closestDistSq = hit, shape, distSq
		}
	}

	return closest, closestHit, closestHit != nil
}

// Occluded reports whether any shape is hit strictly closer than maxDist
// along the ray.
func Occluded(ray core.Ray, shapes []Shape, maxDist float64) bool {
	for _, shape := range shapes {
		hit, ok := shape.Intersect(ray)
		if ok && hit.Point.Subtract(ray.Origin).Length() < maxDist {
			return true
		}
	}
	return false
}
