package loaders

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/lights"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

const demoScene = `
# Scene: Demo
# Description: One sphere on a ground plane

[[sphere]]
position = [0, 2, 6]
radius = 1.5
material = "Lambertian"
colour = [0.9, 0.25, 0.2]

[[sphere]]
position = [-3, 1.5, 7]
radius = 1.5
material = "Mirror"

[[plane]]
point = [0, 0, 0]
normal = [0, 2, 0]
material = "Lambertian"
colour = "silver"

[[point_light]]
position = [3, 8, 3]
intensity = 5e8
`

func vecNear(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func TestParseScene(t *testing.T) {
	s, err := ParseScene(strings.NewReader(demoScene))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if len(s.Shapes) != 3 {
		t.Fatalf("Expected 3 shapes, got %d", len(s.Shapes))
	}
	if len(s.Lights) != 1 {
		t.Fatalf("Expected 1 light, got %d", len(s.Lights))
	}
	if s.Camera == nil {
		t.Error("Expected camera to be built")
	}

	sphere, ok := s.Shapes[0].(*geometry.Sphere)
	if !ok {
		t.Fatalf("Expected first shape to be a sphere, got %T", s.Shapes[0])
	}
	if sphere.Center != core.NewVec3(0, 2, 6) || sphere.Radius != 1.5 {
		t.Errorf("Unexpected sphere %+v", sphere)
	}
	if sphere.Material() != material.Lambertian || sphere.Color != core.NewVec3(0.9, 0.25, 0.2) {
		t.Errorf("Unexpected sphere surface %v %v", sphere.Material(), sphere.Color)
	}

	if s.Shapes[1].Material() != material.Mirror {
		t.Errorf("Expected mirror, got %v", s.Shapes[1].Material())
	}

	plane, ok := s.Shapes[2].(*geometry.Plane)
	if !ok {
		t.Fatalf("Expected third shape to be a plane, got %T", s.Shapes[2])
	}
	if plane.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normalised plane normal, got %v", plane.Normal)
	}
	// silver is (192, 192, 192)
	if !vecNear(plane.Color, core.NewVec3(192.0/255, 192.0/255, 192.0/255), 1e-12) {
		t.Errorf("Expected silver albedo, got %v", plane.Color)
	}

	light, ok := s.Lights[0].(*lights.PointLight)
	if !ok {
		t.Fatalf("Expected point light, got %T", s.Lights[0])
	}
	if light.Position != core.NewVec3(3, 8, 3) || light.Intensity != 5e8 {
		t.Errorf("Unexpected light %+v", light)
	}
}

func TestParseSceneDefaults(t *testing.T) {
	s, err := ParseScene(strings.NewReader(demoScene))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	if s.SamplingConfig != scene.DefaultSamplingConfig() {
		t.Errorf("Expected default sampling config, got %+v", s.SamplingConfig)
	}
	if s.ShadingConfig != scene.DefaultShadingConfig() {
		t.Errorf("Expected default shading config, got %+v", s.ShadingConfig)
	}

	expected := geometry.DefaultCameraConfig()
	if s.CameraConfig.Position != expected.Position || s.CameraConfig.FOV != expected.FOV {
		t.Errorf("Expected default camera, got %+v", s.CameraConfig)
	}
}

func TestParseSceneSections(t *testing.T) {
	input := demoScene + `
[camera]
position = [0, 1, -5]
fov_degrees = 90
focal_distance = 2

[render]
width = 64
height = 32
samples = 7
depth = 3
workers = 2
gamma = 1.0
seed = 9
low_light_threshold = 0.5
unlit_colour = "black"
background_colour = [1, 2, 3]
`
	s, err := ParseScene(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseScene failed: %v", err)
	}

	sampling := s.SamplingConfig
	if sampling.Width != 64 || sampling.Height != 32 || sampling.SamplesPerPixel != 7 ||
		sampling.MaxDepth != 3 || sampling.NumWorkers != 2 || sampling.Gamma != 1 || sampling.Seed != 9 {
		t.Errorf("Unexpected sampling config %+v", sampling)
	}

	shading := s.ShadingConfig
	if shading.Epsilon != core.Epsilon {
		t.Errorf("Expected epsilon to keep its default, got %g", shading.Epsilon)
	}
	if shading.LowLightThreshold != 0.5 || shading.UnlitColor != (core.Vec3{}) || shading.BackgroundColor != core.NewVec3(1, 2, 3) {
		t.Errorf("Unexpected shading config %+v", shading)
	}

	cam := s.CameraConfig
	if cam.Position != core.NewVec3(0, 1, -5) || cam.FOV != 90 || cam.FocalDistance != 2 {
		t.Errorf("Unexpected camera config %+v", cam)
	}
	if cam.Width != 64 || cam.Height != 32 {
		t.Errorf("Expected camera size to follow render size, got %dx%d", cam.Width, cam.Height)
	}
	if w, h := s.Camera.Size(); w != 64 || h != 32 {
		t.Errorf("Expected 64x32 camera, got %dx%d", w, h)
	}
}

func TestParseSceneErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		target   error
	}{
		{
			name:   "Lambertian without colour",
			input:  "[[sphere]]\nposition = [0, 0, 5]\nradius = 1\nmaterial = \"Lambertian\"\n",
			target: ErrMissingColour,
		},
		{
			name:   "Unknown material",
			input:  "[[plane]]\npoint = [0, 0, 0]\nnormal = [0, 1, 0]\nmaterial = \"Glass\"\ncolour = [1, 1, 1]\n",
			target: material.ErrUnknownMaterial,
		},
		{
			name:     "Unknown colour name",
			input:    "[[sphere]]\nposition = [0, 0, 5]\nradius = 1\nmaterial = \"Lambertian\"\ncolour = \"notacolour\"\n",
			contains: "unknown colour name",
		},
		{
			name:     "Colour with two components",
			input:    "[[sphere]]\nposition = [0, 0, 5]\nradius = 1\nmaterial = \"Lambertian\"\ncolour = [1, 1]\n",
			contains: "3 components",
		},
		{
			name:     "Zero radius",
			input:    "[[sphere]]\nposition = [0, 0, 5]\nradius = 0\nmaterial = \"Mirror\"\n",
			contains: "shape 0",
		},
		{
			name:     "Zero plane normal",
			input:    "[[plane]]\npoint = [0, 0, 0]\nnormal = [0, 0, 0]\nmaterial = \"Mirror\"\n",
			contains: "shape 0",
		},
		{
			name:   "No shapes",
			input:  "[[point_light]]\nposition = [0, 5, 0]\nintensity = 10\n",
			target: scene.ErrNoShapes,
		},
		{
			name:   "Camera not perpendicular",
			input:  demoScene + "\n[camera]\nforward = [0, 0, 1]\nup = [0, 1, 1]\n",
			target: geometry.ErrNotPerpendicular,
		},
		{
			name:     "Unknown key",
			input:    demoScene + "\n[render]\nwidht = 10\n",
			contains: "render.widht",
		},
		{
			name:     "Malformed TOML",
			input:    "[[sphere]\n",
			contains: "failed to parse scene",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := ParseScene(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if s != nil {
				t.Error("Expected nil scene on error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected error wrapping %v, got %v", tt.target, err)
			}
			if tt.contains != "" && !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("Expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}

func TestLoadScene(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte(demoScene), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := LoadScene(path)
	if err != nil {
		t.Fatalf("LoadScene failed: %v", err)
	}
	if s.GetPrimitiveCount() != 3 {
		t.Errorf("Expected 3 primitives, got %d", s.GetPrimitiveCount())
	}

	if _, err := LoadScene(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
