package renderer

import (
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/integrator"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// createTestScene returns the default scene shrunk to a quick render size
func createTestScene(width, height, samples, workers int) *scene.Scene {
	s := scene.NewDefaultScene()
	s.SamplingConfig.Width = width
	s.SamplingConfig.Height = height
	s.SamplingConfig.SamplesPerPixel = samples
	s.SamplingConfig.MaxDepth = 4
	s.SamplingConfig.NumWorkers = workers
	return s
}

func newTestRaytracer(t *testing.T, s *scene.Scene, integratorInst integrator.Integrator) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(s, integratorInst, core.NopLogger{})
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}
	return rt
}

func render(t *testing.T, s *scene.Scene) (*image.RGBA, RenderStats) {
	t.Helper()
	rt := newTestRaytracer(t, s, integrator.NewPathTracingIntegrator())
	img, stats, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return img, stats
}

func TestRenderDimensionsAndStats(t *testing.T) {
	img, stats := render(t, createTestScene(16, 12, 2, 3))

	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 12 {
		t.Errorf("Expected 16x12 image, got %v", img.Bounds())
	}
	if stats.TotalPixels != 16*12 {
		t.Errorf("Expected %d pixels, got %d", 16*12, stats.TotalPixels)
	}
	if stats.TotalSamples != 16*12*2 {
		t.Errorf("Expected %d samples, got %d", 16*12*2, stats.TotalSamples)
	}
	if stats.NumWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", stats.NumWorkers)
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if a := img.RGBAAt(x, y).A; a != 255 {
				t.Fatalf("Pixel (%d,%d) was never written (alpha %d)", x, y, a)
			}
		}
	}
}

func TestRenderIndependentOfWorkerCount(t *testing.T) {
	single, _ := render(t, createTestScene(20, 20, 3, 1))
	parallel, _ := render(t, createTestScene(20, 20, 3, 7))

	for i := range single.Pix {
		if single.Pix[i] != parallel.Pix[i] {
			t.Fatalf("Images differ at byte %d: %d vs %d", i, single.Pix[i], parallel.Pix[i])
		}
	}
}

func TestRenderCenterPixelMatchesPixelRenderer(t *testing.T) {
	s := createTestScene(21, 21, 4, 4)
	img, _ := render(t, s)

	pr := NewPixelRenderer(s, integrator.NewPathTracingIntegrator(), s.SamplingConfig)
	expected, samples := pr.RenderPixel(10, 10)
	if samples != 4 {
		t.Errorf("Expected 4 samples, got %d", samples)
	}
	if got := img.RGBAAt(10, 10); got != expected {
		t.Errorf("Center pixel %v does not match direct render %v", got, expected)
	}

	// The center ray hits the lit red sphere, so red must dominate
	if expected.R <= expected.G || expected.R <= expected.B {
		t.Errorf("Expected a red-dominant center pixel, got %v", expected)
	}
}

func TestRenderCenterPixelValue(t *testing.T) {
	// At depth 1 only direct light reaches the camera, so the pixel is exact.
	// The center ray of an even-sized image looks straight down +Z and hits
	// the red sphere at (0, 2, 4.5) lit by the light at (3, 8, 3).
	s := createTestScene(20, 20, 3, 2)
	s.SamplingConfig.MaxDepth = 1
	img, _ := render(t, s)

	expected := color.RGBA{R: 133, G: 74, B: 67, A: 255}
	got := img.RGBAAt(10, 10)

	near := func(a, b uint8) bool { return a == b || a == b+1 || a+1 == b }
	if !near(got.R, expected.R) || !near(got.G, expected.G) || !near(got.B, expected.B) || got.A != 255 {
		t.Errorf("Expected center pixel %v, got %v", expected, got)
	}
}

func TestNewRaytracerRebuildsCameraAfterResize(t *testing.T) {
	s := createTestScene(40, 40, 1, 2)
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	s.SamplingConfig.Width = 10
	s.SamplingConfig.Height = 10

	rt := newTestRaytracer(t, s, integrator.NewPathTracingIntegrator())
	if w, h := s.Camera.Size(); w != 10 || h != 10 {
		t.Fatalf("Expected camera rebuilt at 10x10, got %dx%d", w, h)
	}

	fresh := createTestScene(10, 10, 1, 2)
	if err := fresh.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if got, want := s.Camera.Ray(9, 9), fresh.Camera.Ray(9, 9); got != want {
		t.Errorf("Expected bottom-right ray %v, got %v", want, got)
	}

	img, _, err := rt.Render(context.Background())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	want, _ := render(t, fresh)
	for i := range img.Pix {
		if img.Pix[i] != want.Pix[i] {
			t.Fatalf("Resized render differs from a fresh render at byte %d", i)
		}
	}
}

func TestRenderSeedChangesNoise(t *testing.T) {
	a := createTestScene(20, 20, 1, 2)
	b := createTestScene(20, 20, 1, 2)
	b.SamplingConfig.Seed = a.SamplingConfig.Seed + 1

	imgA, _ := render(t, a)
	imgB, _ := render(t, b)

	differ := false
	for i := range imgA.Pix {
		if imgA.Pix[i] != imgB.Pix[i] {
			differ = true
			break
		}
	}
	if !differ {
		t.Error("Expected different seeds to produce different noise")
	}
}

func TestMoreSamplesReduceVariance(t *testing.T) {
	stddev := func(samples int) float64 {
		s := createTestScene(21, 21, samples, 1)
		if err := s.Preprocess(); err != nil {
			t.Fatalf("Preprocess failed: %v", err)
		}
		pr := NewPixelRenderer(s, integrator.NewPathTracingIntegrator(), s.SamplingConfig)

		const trials = 200
		values := make([]float64, trials)
		var mean float64
		for i := range values {
			sampler := core.NewPixelSampler(uint64(i), 0)
			values[i] = pr.AccumulateRadiance(10, 10, sampler).X / float64(samples)
			mean += values[i]
		}
		mean /= trials

		var variance float64
		for _, v := range values {
			variance += (v - mean) * (v - mean)
		}
		return math.Sqrt(variance / trials)
	}

	one := stddev(1)
	sixteen := stddev(16)
	if one == 0 {
		t.Fatal("Expected noise at one sample per pixel")
	}
	if sixteen >= one*0.5 {
		t.Errorf("Expected 16 spp to cut stddev well below 1 spp: %f vs %f", sixteen, one)
	}
}

type panicIntegrator struct{}

func (panicIntegrator) RayColor(core.Ray, *scene.Scene, core.Sampler, int) core.Vec3 {
	panic("boom")
}

func TestRenderFailsWhenWorkerPanics(t *testing.T) {
	s := createTestScene(8, 8, 1, 4)
	rt := newTestRaytracer(t, s, panicIntegrator{})

	img, _, err := rt.Render(context.Background())
	if err == nil {
		t.Fatal("Expected render error after worker panic")
	}
	if img != nil {
		t.Error("Expected no image from a failed render")
	}
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	s := createTestScene(8, 8, 1, 2)
	rt := newTestRaytracer(t, s, integrator.NewPathTracingIntegrator())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := rt.Render(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestNewRaytracerRejectsInvalidScene(t *testing.T) {
	tests := []struct {
		name   string
		modify func(s *scene.Scene)
	}{
		{"No shapes", func(s *scene.Scene) { s.Shapes = nil }},
		{"Zero width", func(s *scene.Scene) { s.SamplingConfig.Width = 0 }},
		{"Bad camera", func(s *scene.Scene) { s.CameraConfig.Up = s.CameraConfig.Forward }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := createTestScene(8, 8, 1, 1)
			tt.modify(s)
			if _, err := NewRaytracer(s, integrator.NewPathTracingIntegrator(), nil); err == nil {
				t.Error("Expected construction error")
			}
		})
	}

	if _, err := NewRaytracer(nil, panicIntegrator{}, nil); err == nil {
		t.Error("Expected error for nil scene")
	}
}
