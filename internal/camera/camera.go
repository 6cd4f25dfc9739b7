package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"vibesurfer/internal/config"
)

// Pose is the camera's derived per-frame state
type Pose struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
}

// Forward returns the normalized view direction
func (p Pose) Forward() mgl64.Vec3 {
	return p.Target.Sub(p.Eye).Normalize()
}

// HeightOracle answers terrain height queries for presets that follow the
// surface. The GPU pipeline provides a one-frame-old readback; before the
// first readback completes, a CPU noise evaluation stands in.
type HeightOracle interface {
	HeightAt(x, z float64) float64
}

// Preset is a named motion profile: a pure function from time to pose.
// There is no accumulated state anywhere; the same t always yields the
// same pose (Floating additionally depends on the oracle's answer).
type Preset interface {
	Pose(t float64) Pose
	Name() string
}

// NewPreset builds the preset selected by the configuration
func NewPreset(cfg config.CameraConfig, oracle HeightOracle) (Preset, error) {
	switch cfg.Preset {
	case "fixed":
		f := cfg.Fixed
		eye := mgl64.Vec3{f.Eye[0], f.Eye[1], f.Eye[2]}
		if cfg.ElevationOverride != 0 {
			eye[1] = cfg.ElevationOverride
		}
		return &Fixed{
			Eye0:              eye,
			RelTarget:         mgl64.Vec3{f.Target[0], f.Target[1], f.Target[2]}.Sub(mgl64.Vec3{f.Eye[0], f.Eye[1], f.Eye[2]}),
			SimulatedVelocity: f.SimulatedVelocity,
		}, nil
	case "basic":
		b := cfg.Basic
		return &Basic{Altitude: b.Altitude, Speed: b.Speed, LookAhead: b.LookAhead}, nil
	case "cinematic":
		return &Cinematic{Config: cfg.Cinematic}, nil
	case "floating":
		if oracle == nil {
			return nil, fmt.Errorf("camera: floating preset requires a terrain height oracle")
		}
		fl := cfg.Floating
		return &Floating{
			PositionX:          fl.PositionX,
			HeightAboveTerrain: fl.HeightAboveTerrain,
			InitialVelocity:    fl.InitialVelocity,
			Acceleration:       fl.Acceleration,
			LookAhead:          fl.LookAhead,
			Oracle:             oracle,
		}, nil
	default:
		return nil, fmt.Errorf("camera: unknown preset %q", cfg.Preset)
	}
}

// Fixed moves the eye through world space at a constant simulated
// velocity along +Z, preserving the initial eye→target offset. The camera
// really travels; there is no grid-flow trick.
type Fixed struct {
	Eye0              mgl64.Vec3
	RelTarget         mgl64.Vec3
	SimulatedVelocity float64
}

func (f *Fixed) Name() string { return "fixed" }

func (f *Fixed) Pose(t float64) Pose {
	eye := f.Eye0.Add(mgl64.Vec3{0, 0, f.SimulatedVelocity * t})
	return Pose{Eye: eye, Target: eye.Add(f.RelTarget)}
}

// Basic is straight-line flight at constant altitude and forward speed
type Basic struct {
	Altitude  float64
	Speed     float64
	LookAhead float64
}

func (b *Basic) Name() string { return "basic" }

func (b *Basic) Pose(t float64) Pose {
	eye := mgl64.Vec3{0, b.Altitude, b.Speed * t}
	return Pose{Eye: eye, Target: eye.Add(mgl64.Vec3{0, 0, b.LookAhead})}
}

// Cinematic sweeps the eye on dual-frequency sinusoids: wide X arcs,
// forward Z drift plus weave, and Y altitude swoops clamped to an interval
// that keeps the surface in frame.
type Cinematic struct {
	Config config.CinematicConfig
}

func (c *Cinematic) Name() string { return "cinematic" }

func (c *Cinematic) Pose(t float64) Pose {
	cfg := c.Config
	tau := 2 * math.Pi

	x := cfg.AmpX*math.Sin(tau*cfg.FreqX*t) + cfg.AmpX2*math.Sin(tau*cfg.FreqX2*t)
	z := cfg.DriftZ*t + cfg.AmpZ*math.Sin(tau*cfg.FreqZ*t)
	y := cfg.BaseY + cfg.AmpY*math.Sin(tau*cfg.FreqY*t) + cfg.AmpY2*math.Sin(tau*cfg.FreqY2*t)
	if y < cfg.MinY {
		y = cfg.MinY
	} else if y > cfg.MaxY {
		y = cfg.MaxY
	}
	eye := mgl64.Vec3{x, y, z}

	// Look-at oscillates independently ahead of the eye. The 0.7 factor
	// keeps the view pitched down instead of staring over the horizon.
	target := mgl64.Vec3{
		x + cfg.LookAmpX*math.Sin(tau*cfg.LookFreqX*t),
		0.7 * y,
		z + cfg.LookAhead,
	}
	return Pose{Eye: eye, Target: target}
}

// Floating follows the terrain surface: a one-dimensional accelerating
// trajectory in Z at fixed X, with the eye held a constant height above
// the terrain under it.
type Floating struct {
	PositionX          float64
	HeightAboveTerrain float64
	InitialVelocity    float64
	Acceleration       float64
	LookAhead          float64
	Oracle             HeightOracle
}

func (f *Floating) Name() string { return "floating" }

func (f *Floating) Pose(t float64) Pose {
	z := f.InitialVelocity*t + 0.5*f.Acceleration*t*t
	y := f.Oracle.HeightAt(f.PositionX, z) + f.HeightAboveTerrain

	eye := mgl64.Vec3{f.PositionX, y, z}
	target := mgl64.Vec3{f.PositionX, y * 0.9, z + f.LookAhead}
	return Pose{Eye: eye, Target: target}
}
