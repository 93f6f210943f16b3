package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// ErrNotPerpendicular is returned when the camera's forward and up
// directions are not orthogonal.
var ErrNotPerpendicular = errors.New("camera forward and up must be perpendicular")

// perpendicularTolerance bounds |forward.up| after normalisation
const perpendicularTolerance = 1e-9

// CameraConfig contains all camera configuration parameters
type CameraConfig struct {
	Position      core.Vec3 // Eye position
	Forward       core.Vec3 // Viewing direction
	Up            core.Vec3 // Up direction, perpendicular to Forward
	FOV           float64   // Horizontal field of view in degrees
	FocalDistance float64   // Distance to the screen (0 = 1.0)
	Width         int       // Image width in pixels
	Height        int       // Image height in pixels
}

// DefaultCameraConfig returns the camera of the demo scene: two units above
// the origin looking down +Z with a 60 degree field of view.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(0, 2, 0),
		Forward:  core.NewVec3(0, 0, 1),
		Up:       core.NewVec3(0, 1, 0),
		FOV:      60,
		Width:    1000,
		Height:   1000,
	}
}

// Camera is a pinhole camera with a precomputed screen basis
type Camera struct {
	position  core.Vec3
	forward   core.Vec3
	up        core.Vec3
	topLeft   core.Vec3
	stepRight core.Vec3
	stepDown  core.Vec3
	width     int
	height    int
}

// NewCamera creates a camera from configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("camera image size must be positive, got %dx%d", config.Width, config.Height)
	}
	if !(config.FOV > 0 && config.FOV < 180) {
		return nil, fmt.Errorf("camera field of view must be in (0, 180) degrees, got %g", config.FOV)
	}

	forward := config.Forward.Normalize()
	up := config.Up.Normalize()
	if forward.Length() < core.Epsilon || up.Length() < core.Epsilon {
		return nil, fmt.Errorf("camera forward %v and up %v must be non-zero", config.Forward, config.Up)
	}
	if math.Abs(forward.Dot(up)) > perpendicularTolerance {
		return nil, fmt.Errorf("%w: forward %v, up %v", ErrNotPerpendicular, config.Forward, config.Up)
	}

	focal := config.FocalDistance
	if focal <= 0 {
		focal = 1.0
	}

	halfWidth := focal * math.Tan(config.FOV*math.Pi/180/2)
	halfHeight := halfWidth * float64(config.Height) / float64(config.Width)

	// forward x up gives the screen's right-hand direction
	right := forward.Cross(up).Normalize()

	center := config.Position.Add(forward.Multiply(focal))
	topLeft := center.Add(up.Multiply(halfHeight)).Subtract(right.Multiply(halfWidth))

	return &Camera{
		position:  config.Position,
		forward:   forward,
		up:        up,
		topLeft:   topLeft,
		stepRight: right.Multiply(2 * halfWidth / float64(config.Width)),
		stepDown:  up.Multiply(-2 * halfHeight / float64(config.Height)),
		width:     config.Width,
		height:    config.Height,
	}, nil
}

// Ray returns the primary ray through pixel (row, col). It depends only on
// the camera and the indices.
func (c *Camera) Ray(row, col int) core.Ray {
	target := c.topLeft.
		Add(c.stepDown.Multiply(float64(row))).
		Add(c.stepRight.Multiply(float64(col)))
	return core.NewRay(c.position, target.Subtract(c.position).Normalize())
}

// Position returns the eye position
func (c *Camera) Position() core.Vec3 {
	return c.position
}

// Forward returns the normalized viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.forward
}

// Size returns the image dimensions the camera was built for
func (c *Camera) Size() (width, height int) {
	return c.width, c.height
}
