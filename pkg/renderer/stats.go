package renderer

import (
	"image"
	"time"
)

// RenderStats summarizes a finished render
type RenderStats struct {
	TotalPixels  int
	TotalSamples int
	NumWorkers   int
	Duration     time.Duration
}

// SamplesPerSecond returns the sample throughput of the render
func (rs RenderStats) SamplesPerSecond() float64 {
	if rs.Duration <= 0 {
		return 0
	}
	return float64(rs.TotalSamples) / rs.Duration.Seconds()
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of img in
// the 0-255 range
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.RGBAAt(x, y)
			total += 0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)
		}
	}
	return total / float64(pixels)
}
