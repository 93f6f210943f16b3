package integrator

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray, following at most
	// depth bounces. All randomness comes from sampler.
	RayColor(ray core.Ray, scene *scene.Scene, sampler core.Sampler, depth int) core.Vec3
}
