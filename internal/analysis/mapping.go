package analysis

import (
	"vibesurfer/internal/config"
)

// Visual holds the shader-visible parameters derived from the spectral
// bands for one frame.
type Visual struct {
	Amplitude float64
	Frequency float64
	LineWidth float64
}

// MapBands converts spectral bands into visual parameters. Pure function:
// no clamping, no hysteresis, no temporal smoothing. Each output is
// monotonically non-decreasing in its driving band.
func MapBands(b Bands, physics config.PhysicsConfig, mapping config.MappingConfig) Visual {
	return Visual{
		Amplitude: physics.DetailAmplitude + b.Low*mapping.BassToAmplitude,
		Frequency: physics.DetailFrequency + b.Mid*mapping.MidToFrequency,
		LineWidth: physics.BaseLineWidth + b.High*mapping.HighToLineWidth,
	}
}
