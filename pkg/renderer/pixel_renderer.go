package renderer

import (
	"image/color"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// PixelRenderer handles the rendering of individual pixels using an integrator
type PixelRenderer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     scene.SamplingConfig
}

// NewPixelRenderer creates a pixel renderer. The scene must have been
// preprocessed.
func NewPixelRenderer(s *scene.Scene, integratorInst integrator.Integrator, config scene.SamplingConfig) *PixelRenderer {
	return &PixelRenderer{
		scene:      s,
		integrator: integratorInst,
		config:     config,
	}
}

// RenderPixel takes every sample for (row, col) and returns the tone-mapped
// colour along with the number of samples taken
func (pr *PixelRenderer) RenderPixel(row, col int) (color.RGBA, int) {
	index := uint64(row)*uint64(pr.config.Width) + uint64(col)
	sampler := core.NewPixelSampler(pr.config.Seed, index)

	sum := pr.AccumulateRadiance(row, col, sampler)
	return ToneMap(sum, pr.config.SamplesPerPixel, pr.config.Gamma), pr.config.SamplesPerPixel
}

// AccumulateRadiance sums SamplesPerPixel radiance estimates along the
// pixel's camera ray
func (pr *PixelRenderer) AccumulateRadiance(row, col int, sampler core.Sampler) core.Vec3 {
	ray := pr.scene.Camera.Ray(row, col)

	var sum core.Vec3
	for i := 0; i < pr.config.SamplesPerPixel; i++ {
		sum = sum.Add(pr.integrator.RayColor(ray, pr.scene, sampler, pr.config.MaxDepth))
	}
	return sum
}
