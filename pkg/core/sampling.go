package core

import (
	"math"
	"math/rand/v2"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() (float64, float64)
}

// RandomSampler wraps a Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewPixelSampler returns a sampler with its own PCG stream for one pixel.
// The stream depends only on seed and index, so renders are reproducible no
// matter which worker picks the pixel up.
func NewPixelSampler(seed, index uint64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewPCG(seed, index)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() (float64, float64) {
	return r.random.Float64(), r.random.Float64()
}

// SampleCosineHemisphere maps (r1, r2) in [0,1)^2 to a cosine-weighted
// direction on the hemisphere around normal (pdf = cos(theta)/pi).
// normal must be unit length.
func SampleCosineHemisphere(normal Vec3, r1, r2 float64) Vec3 {
	phi := 2 * math.Pi * r1
	sqrt1mr2 := math.Sqrt(1 - r2)
	x := math.Cos(phi) * sqrt1mr2
	y := math.Sin(phi) * sqrt1mr2
	z := math.Sqrt(r2)

	t1, t2 := TangentFrame(normal)
	return t1.Multiply(x).Add(t2.Multiply(y)).Add(normal.Multiply(z))
}

// RandomCosineDirection draws a cosine-weighted direction around normal
func RandomCosineDirection(normal Vec3, sampler Sampler) Vec3 {
	r1, r2 := sampler.Get2D()
	return SampleCosineHemisphere(normal, r1, r2)
}

// TangentFrame builds (t1, t2) so that (t1, t2, normal) is orthonormal.
// t1 is taken perpendicular to the axis the normal is least aligned with,
// which keeps it well away from a degenerate cross product.
func TangentFrame(normal Vec3) (Vec3, Vec3) {
	ax, ay, az := math.Abs(normal.X), math.Abs(normal.Y), math.Abs(normal.Z)

	var t1 Vec3
	switch {
	case ax <= ay && ax <= az:
		t1 = NewVec3(0, -normal.Z, normal.Y)
	case ay <= ax && ay <= az:
		t1 = NewVec3(-normal.Z, 0, normal.X)
	default:
		t1 = NewVec3(-normal.Y, normal.X, 0)
	}
	t1 = t1.Normalize()
	return t1, t1.Cross(normal)
}
