package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/lights"
)

// ErrNoShapes is returned when a scene has nothing to render
var ErrNoShapes = errors.New("scene has no shapes")

// Scene contains all the elements needed for rendering. It is read-only once
// Preprocess has succeeded and may be shared by any number of workers.
type Scene struct {
	Camera         *geometry.Camera
	Shapes         []geometry.Shape // Objects in the scene
	Lights         []lights.Light   // Lights in the scene
	SamplingConfig SamplingConfig
	ShadingConfig  ShadingConfig
	CameraConfig   geometry.CameraConfig
}

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	Width           int     // Image width
	Height          int     // Image height
	SamplesPerPixel int     // Number of rays per pixel
	MaxDepth        int     // Maximum ray bounce depth
	NumWorkers      int     // Number of parallel workers (0 = use CPU count)
	Gamma           float64 // Exponent applied to averaged radiance
	Seed            uint64  // Base seed for per-pixel random streams
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		Width:           1000,
		Height:          1000,
		SamplesPerPixel: 100,
		MaxDepth:        8,
		NumWorkers:      8,
		Gamma:           0.45,
		Seed:            42,
	}
}

// ShadingConfig holds the tuning constants of the path tracer
type ShadingConfig struct {
	Epsilon           float64   // Offset along normals for secondary rays
	LowLightThreshold float64   // Direct light at or below this is treated as unlit
	UnlitColor        core.Vec3 // Radiance returned for unlit diffuse hits
	BackgroundColor   core.Vec3 // Radiance returned when a ray escapes
}

// DefaultShadingConfig returns the diagnostic colours and thresholds the
// renderer has always used.
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		Epsilon:           core.Epsilon,
		LowLightThreshold: 0.1,
		UnlitColor:        core.NewVec3(255, 0, 250),
		BackgroundColor:   core.NewVec3(50, 0, 0),
	}
}

// Validate checks the sampling configuration
func (c SamplingConfig) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("image size must be positive, got %dx%d", c.Width, c.Height)
	case c.SamplesPerPixel <= 0:
		return fmt.Errorf("samples per pixel must be positive, got %d", c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	case !(c.Gamma > 0):
		return fmt.Errorf("gamma must be positive, got %g", c.Gamma)
	}
	return nil
}

// Validate checks the shading configuration
func (c ShadingConfig) Validate() error {
	if !(c.Epsilon > 0) {
		return fmt.Errorf("epsilon must be positive, got %g", c.Epsilon)
	}
	return nil
}

// Preprocess validates the scene and builds its camera. It must succeed
// before the scene is handed to a renderer.
func (s *Scene) Preprocess() error {
	if len(s.Shapes) == 0 {
		return ErrNoShapes
	}
	if err := s.SamplingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid sampling config: %w", err)
	}
	if err := s.ShadingConfig.Validate(); err != nil {
		return fmt.Errorf("invalid shading config: %w", err)
	}

	for i, shape := range s.Shapes {
		if v, ok := shape.(geometry.Validator); ok {
			if err := v.Validate(); err != nil {
				return fmt.Errorf("shape %d: %w", i, err)
			}
		}
	}

	// The image size is owned by the sampling config
	s.CameraConfig.Width = s.SamplingConfig.Width
	s.CameraConfig.Height = s.SamplingConfig.Height

	camera, err := geometry.NewCamera(s.CameraConfig)
	if err != nil {
		return err
	}
	s.Camera = camera
	return nil
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(sphere *geometry.Sphere) {
	s.Shapes = append(s.Shapes, sphere)
}

// AddPlane adds a plane to the scene
func (s *Scene) AddPlane(plane *geometry.Plane) {
	s.Shapes = append(s.Shapes, plane)
}

// AddPointLight adds a point light to the scene
func (s *Scene) AddPointLight(position core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, intensity))
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Shapes)
}

// New returns an empty scene with default configuration
func New() *Scene {
	return &Scene{
		Shapes:         make([]geometry.Shape, 0),
		Lights:         make([]lights.Light, 0),
		SamplingConfig: DefaultSamplingConfig(),
		ShadingConfig:  DefaultShadingConfig(),
		CameraConfig:   geometry.DefaultCameraConfig(),
	}
}
