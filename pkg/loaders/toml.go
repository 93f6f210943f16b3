package loaders

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/colornames"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/scene"
)

// ErrMissingColour is returned when a material that needs an albedo has none
var ErrMissingColour = errors.New("material requires a colour")

// Colour is an RGB value in a scene file. It is written either as an
// [r, g, b] array or as a CSS colour name such as "steelblue".
type Colour struct {
	Value   core.Vec3
	Defined bool
}

// UnmarshalTOML implements toml.Unmarshaler
func (c *Colour) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		rgba, ok := colornames.Map[strings.ToLower(strings.TrimSpace(v))]
		if !ok {
			return fmt.Errorf("unknown colour name %q", v)
		}
		c.Value = core.NewVec3(float64(rgba.R)/255, float64(rgba.G)/255, float64(rgba.B)/255)
	case []interface{}:
		if len(v) != 3 {
			return fmt.Errorf("colour must have 3 components, got %d", len(v))
		}
		var rgb [3]float64
		for i, component := range v {
			f, err := toFloat(component)
			if err != nil {
				return fmt.Errorf("colour component %d: %w", i, err)
			}
			rgb[i] = f
		}
		c.Value = core.NewVec3(rgb[0], rgb[1], rgb[2])
	default:
		return fmt.Errorf("colour must be an [r, g, b] array or a name, got %T", data)
	}
	c.Defined = true
	return nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	}
	return 0, fmt.Errorf("expected a number, got %T", v)
}

type vec3 [3]float64

func (v vec3) toVec3() core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}

func fromVec3(v core.Vec3) vec3 {
	return vec3{v.X, v.Y, v.Z}
}

type sphereEntry struct {
	Position vec3    `toml:"position"`
	Radius   float64 `toml:"radius"`
	Material string  `toml:"material"`
	Colour   Colour  `toml:"colour"`
}

type planeEntry struct {
	Point    vec3   `toml:"point"`
	Normal   vec3   `toml:"normal"`
	Material string `toml:"material"`
	Colour   Colour `toml:"colour"`
}

type pointLightEntry struct {
	Position  vec3    `toml:"position"`
	Intensity float64 `toml:"intensity"`
}

type cameraSection struct {
	Position      vec3    `toml:"position"`
	Forward       vec3    `toml:"forward"`
	Up            vec3    `toml:"up"`
	FOVDegrees    float64 `toml:"fov_degrees"`
	FocalDistance float64 `toml:"focal_distance"`
}

type renderSection struct {
	Width             int     `toml:"width"`
	Height            int     `toml:"height"`
	Samples           int     `toml:"samples"`
	Depth             int     `toml:"depth"`
	Workers           int     `toml:"workers"`
	Gamma             float64 `toml:"gamma"`
	Seed              uint64  `toml:"seed"`
	Epsilon           float64 `toml:"epsilon"`
	LowLightThreshold float64 `toml:"low_light_threshold"`
	UnlitColour       Colour  `toml:"unlit_colour"`
	BackgroundColour  Colour  `toml:"background_colour"`
}

type sceneFile struct {
	Camera      cameraSection     `toml:"camera"`
	Render      renderSection     `toml:"render"`
	Spheres     []sphereEntry     `toml:"sphere"`
	Planes      []planeEntry      `toml:"plane"`
	PointLights []pointLightEntry `toml:"point_light"`
}

// defaultSceneFile seeds the optional sections so keys missing from the
// file keep their default values
func defaultSceneFile() sceneFile {
	cam := geometry.DefaultCameraConfig()
	sampling := scene.DefaultSamplingConfig()
	shading := scene.DefaultShadingConfig()

	return sceneFile{
		Camera: cameraSection{
			Position:      fromVec3(cam.Position),
			Forward:       fromVec3(cam.Forward),
			Up:            fromVec3(cam.Up),
			FOVDegrees:    cam.FOV,
			FocalDistance: cam.FocalDistance,
		},
		Render: renderSection{
			Width:             sampling.Width,
			Height:            sampling.Height,
			Samples:           sampling.SamplesPerPixel,
			Depth:             sampling.MaxDepth,
			Workers:           sampling.NumWorkers,
			Gamma:             sampling.Gamma,
			Seed:              sampling.Seed,
			Epsilon:           shading.Epsilon,
			LowLightThreshold: shading.LowLightThreshold,
			UnlitColour:       Colour{Value: shading.UnlitColor, Defined: true},
			BackgroundColour:  Colour{Value: shading.BackgroundColor, Defined: true},
		},
	}
}

// LoadScene reads a TOML scene file and returns a preprocessed scene
func LoadScene(filename string) (*scene.Scene, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open scene file: %w", err)
	}
	defer file.Close()

	s, err := ParseScene(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

// ParseScene decodes a TOML scene description. Every shape is validated and
// the camera is built, so a returned scene is ready to render.
func ParseScene(r io.Reader) (*scene.Scene, error) {
	file := defaultSceneFile()
	md, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, fmt.Errorf("unknown keys in scene: %s", strings.Join(keys, ", "))
	}

	s := scene.New()
	s.CameraConfig = geometry.CameraConfig{
		Position:      file.Camera.Position.toVec3(),
		Forward:       file.Camera.Forward.toVec3(),
		Up:            file.Camera.Up.toVec3(),
		FOV:           file.Camera.FOVDegrees,
		FocalDistance: file.Camera.FocalDistance,
	}
	s.SamplingConfig = scene.SamplingConfig{
		Width:           file.Render.Width,
		Height:          file.Render.Height,
		SamplesPerPixel: file.Render.Samples,
		MaxDepth:        file.Render.Depth,
		NumWorkers:      file.Render.Workers,
		Gamma:           file.Render.Gamma,
		Seed:            file.Render.Seed,
	}
	s.ShadingConfig = scene.ShadingConfig{
		Epsilon:           file.Render.Epsilon,
		LowLightThreshold: file.Render.LowLightThreshold,
		UnlitColor:        file.Render.UnlitColour.Value,
		BackgroundColor:   file.Render.BackgroundColour.Value,
	}

	for i, entry := range file.Spheres {
		mat, albedo, err := parseSurface(entry.Material, entry.Colour)
		if err != nil {
			return nil, fmt.Errorf("sphere %d: %w", i, err)
		}
		s.AddSphere(geometry.NewSphere(entry.Position.toVec3(), entry.Radius, mat, albedo))
	}

	for i, entry := range file.Planes {
		mat, albedo, err := parseSurface(entry.Material, entry.Colour)
		if err != nil {
			return nil, fmt.Errorf("plane %d: %w", i, err)
		}
		s.AddPlane(geometry.NewPlane(entry.Point.toVec3(), entry.Normal.toVec3(), mat, albedo))
	}

	for _, entry := range file.PointLights {
		s.AddPointLight(entry.Position.toVec3(), entry.Intensity)
	}

	if err := s.Preprocess(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseSurface(name string, colour Colour) (material.Material, core.Vec3, error) {
	mat, err := material.ParseMaterial(name)
	if err != nil {
		return 0, core.Vec3{}, err
	}
	if mat.NeedsColor() && !colour.Defined {
		return 0, core.Vec3{}, fmt.Errorf("%w: %s", ErrMissingColour, mat)
	}
	return mat, colour.Value, nil
}
