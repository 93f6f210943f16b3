package material

import (
	"errors"
	"fmt"
	"strings"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// ErrUnknownMaterial is returned when a material name cannot be parsed
var ErrUnknownMaterial = errors.New("unknown material")

// Material selects the scattering law of a surface. The albedo lives on the
// geometry; the material only decides how rays leave the surface.
type Material int

const (
	// Lambertian scatters diffusely with a cosine-weighted distribution
	Lambertian Material = iota
	// Mirror reflects perfectly with no attenuation
	Mirror
)

func (m Material) String() string {
	switch m {
	case Lambertian:
		return "Lambertian"
	case Mirror:
		return "Mirror"
	default:
		return fmt.Sprintf("Material(%d)", int(m))
	}
}

// IsSpecular returns true for materials that scatter along a single direction
func (m Material) IsSpecular() bool {
	return m == Mirror
}

// Scatter returns the ray leaving hit for an incoming ray. hit is expected to
// be already offset from the surface.
func (m Material) Scatter(rayIn core.Ray, hit core.Intersection, sampler core.Sampler) core.Ray {
	if m == Mirror {
		return rayIn.Reflect(hit.Point, hit.Normal)
	}
	return core.NewRay(hit.Point, core.RandomCosineDirection(hit.Normal, sampler))
}

// ParseMaterial resolves a material name as written in scene files
func ParseMaterial(name string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "lambertian", "diffuse":
		return Lambertian, nil
	case "mirror", "specular":
		return Mirror, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}

// NeedsColor reports whether scene files must give an albedo for m
func (m Material) NeedsColor() bool {
	return m == Lambertian
}
