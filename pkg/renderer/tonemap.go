package renderer

import (
	"image/color"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// ToneMap averages sum over samples and converts it to 8-bit colour with
// clamp(0, 255, avg^gamma) per channel
func ToneMap(sum core.Vec3, samples int, gamma float64) color.RGBA {
	if samples <= 0 {
		return color.RGBA{A: 255}
	}
	avg := sum.Multiply(1.0 / float64(samples))

	return color.RGBA{
		R: toByte(avg.X, gamma),
		G: toByte(avg.Y, gamma),
		B: toByte(avg.Z, gamma),
		A: 255,
	}
}

func toByte(v, gamma float64) uint8 {
	if !(v > 0) {
		// Covers zero, negatives and NaN
		return 0
	}
	c := math.Pow(v, gamma)
	if c >= 255 {
		return 255
	}
	return uint8(c)
}
