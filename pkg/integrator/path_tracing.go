package integrator

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/lights"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with point
// lights and one cosine-weighted indirect sample per diffuse bounce. Its
// tuning constants come from the scene's ShadingConfig.
type PathTracingIntegrator struct{}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, shape, isHit := geometry.Closest(ray, s.Shapes)
	if !isHit {
		return s.ShadingConfig.BackgroundColor
	}

	// Lift the point off the surface so the next ray cannot hit it again
	hit = hit.Offset(s.ShadingConfig.Epsilon)

	if shape.Material().IsSpecular() {
		return pt.calculateSpecularColor(ray, hit, s, sampler, depth)
	}
	return pt.calculateDiffuseColor(ray, hit, shape, s, sampler, depth)
}

// calculateSpecularColor follows the perfect reflection without attenuation
func (pt *PathTracingIntegrator) calculateSpecularColor(ray core.Ray, hit core.Intersection, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	reflected := material.Mirror.Scatter(ray, hit, sampler)
	return pt.RayColor(reflected, s, sampler, depth-1)
}

// calculateDiffuseColor combines direct point-light illumination with a
// single indirect sample. The cosine and 1/pi terms cancel against the
// cosine-weighted sampling density.
func (pt *PathTracingIntegrator) calculateDiffuseColor(ray core.Ray, hit core.Intersection, shape geometry.Shape, s *scene.Scene, sampler core.Sampler, depth int) core.Vec3 {
	config := s.ShadingConfig
	totalLight := lights.TotalContribution(s.Lights, hit, s.Shapes, config.Epsilon)
	if totalLight <= config.LowLightThreshold {
		return config.UnlitColor
	}

	albedo := shape.Albedo(hit.Point)
	direct := albedo.Multiply(totalLight)

	scattered := material.Lambertian.Scatter(ray, hit, sampler)
	indirect := pt.RayColor(scattered, s, sampler, depth-1)

	return direct.Add(albedo.MultiplyVec(indirect))
}
