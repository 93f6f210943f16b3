package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// NewDefaultScene creates a default scene with a sphere, ground, and one
// point light
func NewDefaultScene() *Scene {
	s := New()

	red := core.NewVec3(0.9, 0.25, 0.2)
	grey := core.NewVec3(0.8, 0.8, 0.8)

	s.AddSphere(geometry.NewSphere(core.NewVec3(0, 2, 6), 1.5, material.Lambertian, red))
	s.AddPlane(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.Lambertian, grey))

	// Radiance is on a 0-255 scale before gamma, hence the large intensity
	s.AddPointLight(core.NewVec3(3, 8, 3), 5e8)

	return s
}

// NewMirrorScene extends the default scene with a mirror sphere and a back
// wall for it to reflect
func NewMirrorScene() *Scene {
	s := NewDefaultScene()

	s.AddSphere(geometry.NewSphere(core.NewVec3(-3, 1.5, 7), 1.5, material.Mirror, core.Vec3{}))
	s.AddPlane(geometry.NewPlane(core.NewVec3(0, 0, 14), core.NewVec3(0, 0, -1), material.Lambertian, core.NewVec3(0.2, 0.4, 0.8)))
	s.AddPointLight(core.NewVec3(-6, 6, 2), 2e8)

	return s
}
