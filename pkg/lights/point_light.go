package lights

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// falloffNorm is the fixed normalisation of the inverse-square falloff
const falloffNorm = 4 * math.Pi * math.Pi

// PointLight emits uniformly from a single position and casts hard shadows
type PointLight struct {
	Position  core.Vec3
	Intensity float64
}

// NewPointLight creates a new point light
func NewPointLight(position core.Vec3, intensity float64) *PointLight {
	return &PointLight{Position: position, Intensity: intensity}
}

// Contribution returns Intensity * max(0, n.d) / (4*pi^2*dist^2), or exactly
// zero when any shape blocks the segment between hit and the light.
func (pl *PointLight) Contribution(hit core.Intersection, shapes []geometry.Shape, eps float64) float64 {
	toLight := pl.Position.Subtract(hit.Point)
	distSq := toLight.LengthSquared()
	dist := math.Sqrt(distSq)

	dir, ok := toLight.Divide(dist)
	if !ok {
		// Light sits on the surface; there is no usable direction
		return 0
	}

	shifted := hit.Offset(eps).Point
	if geometry.Occluded(core.NewRay(shifted, dir), shapes, dist) {
		return 0
	}

	cosine := math.Max(0, hit.Normal.Dot(dir))
	return pl.Intensity * cosine / (falloffNorm * distSq)
}
