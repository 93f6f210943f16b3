package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// Raytracer renders a scene by fanning pixels out to a worker pool and
// collecting the results into a single image
type Raytracer struct {
	scene      *scene.Scene
	integrator integrator.Integrator
	config     scene.SamplingConfig
	logger     core.Logger
}

// NewRaytracer creates a raytracer for s. The scene is preprocessed again so
// its camera always matches the current sampling config and configuration
// errors surface before any work starts.
func NewRaytracer(s *scene.Scene, integratorInst integrator.Integrator, logger core.Logger) (*Raytracer, error) {
	if s == nil {
		return nil, errors.New("raytracer: nil scene")
	}
	if integratorInst == nil {
		return nil, errors.New("raytracer: nil integrator")
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("raytracer: %w", err)
	}

	return &Raytracer{
		scene:      s,
		integrator: integratorInst,
		config:     s.SamplingConfig,
		logger:     logger,
	}, nil
}

// Render produces the full image. It blocks until every pixel is done. If
// any pixel fails the whole render fails and no image is returned. The
// context is only consulted before work is dispatched.
func (rt *Raytracer) Render(ctx context.Context) (*image.RGBA, RenderStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	width, height := rt.config.Width, rt.config.Height
	start := time.Now()

	pool := NewWorkerPool(NewPixelRenderer(rt.scene, rt.integrator, rt.config), rt.config.NumWorkers)
	stats := RenderStats{
		TotalPixels: width * height,
		NumWorkers:  pool.GetNumWorkers(),
	}

	rt.logger.Printf("Rendering %dx%d at %d spp, depth %d, %d workers\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, stats.NumWorkers)
	rt.logger.Printf("Camera at %v, %d shapes, %d lights\n",
		rt.scene.Camera.Position(), rt.scene.GetPrimitiveCount(), len(rt.scene.Lights))

	pool.Start()
	go func() {
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				pool.SubmitTask(PixelTask{Row: row, Col: col})
			}
		}
		pool.Stop()
	}()

	// This loop is the only writer of img
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var renderErr error
	completed := 0
	for result := range pool.Results() {
		if result.Err != nil {
			if renderErr == nil {
				renderErr = result.Err
			}
			continue
		}
		img.SetRGBA(result.Col, result.Row, result.Color)
		stats.TotalSamples += result.Samples
		completed++
	}

	stats.Duration = time.Since(start)

	if renderErr != nil {
		return nil, stats, fmt.Errorf("render failed: %w", renderErr)
	}
	if completed != stats.TotalPixels {
		return nil, stats, fmt.Errorf("render incomplete: %d of %d pixels", completed, stats.TotalPixels)
	}

	rt.logger.Printf("Render completed in %v (%.0f samples/sec)\n", stats.Duration, stats.SamplesPerSecond())
	return img, stats, nil
}
