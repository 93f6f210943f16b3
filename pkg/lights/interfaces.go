package lights

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
)

// Light interface for sources that contribute direct illumination
type Light interface {
	// Contribution returns the scalar light arriving at hit. Shadow rays are
	// started eps along the hit normal and tested against every shape.
	Contribution(hit core.Intersection, shapes []geometry.Shape, eps float64) float64
}

// TotalContribution sums the contribution of every light at hit
func TotalContribution(lights []Light, hit core.Intersection, shapes []geometry.Shape, eps float64) float64 {
	total := 0.0
	for _, light := range lights {
		total += light.Contribution(hit, shapes, eps)
	}
	return total
}
