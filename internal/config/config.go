package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the full startup configuration. There is no runtime
// reconfiguration: the engine reads this once and treats it as immutable.
type Config struct {
	Camera    CameraConfig    `yaml:"camera"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Mapping   MappingConfig   `yaml:"mapping"`
	FFT       FFTConfig       `yaml:"fft"`
	Recording RecordingConfig `yaml:"recording"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CameraConfig selects one of the named motion profiles. Preset picks the
// variant; only the matching parameter block is consulted.
type CameraConfig struct {
	Preset string `yaml:"preset"` // fixed, basic, cinematic, floating

	Fixed     FixedConfig     `yaml:"fixed"`
	Basic     BasicConfig     `yaml:"basic"`
	Cinematic CinematicConfig `yaml:"cinematic"`
	Floating  FloatingConfig  `yaml:"floating"`

	// ElevationOverride lifts the Fixed preset's eye to this height in
	// meters when non-zero
	ElevationOverride float64 `yaml:"elevation_override"`
}

// FixedConfig holds the fixed-pose preset parameters
type FixedConfig struct {
	Eye               [3]float64 `yaml:"eye"`
	Target            [3]float64 `yaml:"target"`
	SimulatedVelocity float64    `yaml:"simulated_velocity"` // m/s along +Z
}

// BasicConfig holds the straight-line flight parameters
type BasicConfig struct {
	Altitude  float64 `yaml:"altitude"`
	Speed     float64 `yaml:"speed"`
	LookAhead float64 `yaml:"look_ahead"`
}

// CinematicConfig holds the dual-frequency sweep parameters
type CinematicConfig struct {
	AmpX      float64 `yaml:"amp_x"`
	FreqX     float64 `yaml:"freq_x"`
	AmpX2     float64 `yaml:"amp_x2"`
	FreqX2    float64 `yaml:"freq_x2"`
	DriftZ    float64 `yaml:"drift_z"`
	AmpZ      float64 `yaml:"amp_z"`
	FreqZ     float64 `yaml:"freq_z"`
	BaseY     float64 `yaml:"base_y"`
	AmpY      float64 `yaml:"amp_y"`
	FreqY     float64 `yaml:"freq_y"`
	AmpY2     float64 `yaml:"amp_y2"`
	FreqY2    float64 `yaml:"freq_y2"`
	MinY      float64 `yaml:"min_y"`
	MaxY      float64 `yaml:"max_y"`
	LookAhead float64 `yaml:"look_ahead"`
	LookAmpX  float64 `yaml:"look_amp_x"`
	LookFreqX float64 `yaml:"look_freq_x"`
}

// FloatingConfig holds the terrain-following preset parameters
type FloatingConfig struct {
	PositionX          float64 `yaml:"position_x"`
	HeightAboveTerrain float64 `yaml:"height_above_terrain"`
	InitialVelocity    float64 `yaml:"initial_velocity"`
	Acceleration       float64 `yaml:"acceleration"`
	LookAhead          float64 `yaml:"look_ahead"`
}

// PhysicsConfig holds the ocean/terrain physics parameters
type PhysicsConfig struct {
	BaseTerrainAmplitude float64 `yaml:"base_terrain_amplitude_m"`
	BaseTerrainFrequency float64 `yaml:"base_terrain_frequency"`
	DetailAmplitude      float64 `yaml:"detail_amplitude_m"`
	DetailFrequency      float64 `yaml:"detail_frequency"`
	GridSide             uint32  `yaml:"grid_side"`
	GridSpacing          float64 `yaml:"grid_spacing_m"`
	WaveSpeed            float64 `yaml:"wave_speed"`
	BaseLineWidth        float64 `yaml:"base_line_width"`
}

// MappingConfig holds the band-to-visual coefficients
type MappingConfig struct {
	BassToAmplitude float64 `yaml:"bass_to_amplitude"`
	MidToFrequency  float64 `yaml:"mid_to_frequency"`
	HighToLineWidth float64 `yaml:"high_to_line_width"`
}

// FFTConfig holds the spectral analyzer tuning
type FFTConfig struct {
	SampleRate       int        `yaml:"sample_rate"`
	FFTSize          int        `yaml:"fft_size"`
	UpdateIntervalMs int        `yaml:"update_interval_ms"`
	BassRangeHz      [2]float64 `yaml:"bass_range_hz"`
	MidRangeHz       [2]float64 `yaml:"mid_range_hz"`
	HighRangeHz      [2]float64 `yaml:"high_range_hz"`
}

// RecordingConfig enables headless capture. When Enabled, the render loop
// exits after ceil(DurationS * FPS) frames.
type RecordingConfig struct {
	Enabled    bool    `yaml:"enabled"`
	DurationS  float64 `yaml:"duration_s"`
	FPS        int     `yaml:"fps"`
	OutputDir  string  `yaml:"output_dir"`
	CaptureWAV bool    `yaml:"capture_wav"`
}

// LoggingConfig controls the debug logger
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // error, warning, info, debug, trace
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			Preset: "cinematic",
			Fixed: FixedConfig{
				Eye:               [3]float64{0, 101, 0},
				Target:            [3]float64{0, 70, 10},
				SimulatedVelocity: 10,
			},
			Basic: BasicConfig{
				Altitude:  80,
				Speed:     20,
				LookAhead: 60,
			},
			Cinematic: CinematicConfig{
				AmpX:      180,
				FreqX:     0.031,
				AmpX2:     40,
				FreqX2:    0.11,
				DriftZ:    14,
				AmpZ:      60,
				FreqZ:     0.043,
				BaseY:     80,
				AmpY:      22,
				FreqY:     0.057,
				AmpY2:     7,
				FreqY2:    0.19,
				MinY:      50,
				MaxY:      110,
				LookAhead: 90,
				LookAmpX:  35,
				LookFreqX: 0.07,
			},
			Floating: FloatingConfig{
				PositionX:          0,
				HeightAboveTerrain: 12,
				InitialVelocity:    8,
				Acceleration:       0.4,
				LookAhead:          40,
			},
		},
		Physics: PhysicsConfig{
			BaseTerrainAmplitude: 18,
			BaseTerrainFrequency: 0.004,
			DetailAmplitude:      2.5,
			DetailFrequency:      0.03,
			GridSide:             512,
			GridSpacing:          2,
			WaveSpeed:            0.6,
			BaseLineWidth:        1.0,
		},
		Mapping: MappingConfig{
			BassToAmplitude: 3.0,
			MidToFrequency:  0.15,
			HighToLineWidth: 0.03,
		},
		FFT: FFTConfig{
			SampleRate:       44100,
			FFTSize:          1024,
			UpdateIntervalMs: 50,
			BassRangeHz:      [2]float64{20, 200},
			MidRangeHz:       [2]float64{200, 1000},
			HighRangeHz:      [2]float64{1000, 4000},
		},
		Recording: RecordingConfig{
			Enabled:   false,
			DurationS: 10,
			FPS:       60,
			OutputDir: "capture",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// Load reads and validates a configuration file, applying defaults for
// absent sections
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// isPowerOfTwo reports whether n is a positive power of two
func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Validate checks the invariants the engine asserts at startup. Any
// violation is a fatal init error.
func (c *Config) Validate() error {
	switch c.Camera.Preset {
	case "fixed", "basic", "cinematic", "floating":
	default:
		return fmt.Errorf("config: unknown camera preset %q", c.Camera.Preset)
	}

	if !isPowerOfTwo(c.FFT.FFTSize) {
		return fmt.Errorf("config: fft_size %d is not a power of two", c.FFT.FFTSize)
	}
	if c.FFT.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate %d must be positive", c.FFT.SampleRate)
	}
	if c.FFT.UpdateIntervalMs <= 0 {
		return fmt.Errorf("config: update_interval_ms %d must be positive", c.FFT.UpdateIntervalMs)
	}
	nyquist := float64(c.FFT.SampleRate) / 2
	for _, band := range []struct {
		name string
		r    [2]float64
	}{
		{"bass", c.FFT.BassRangeHz},
		{"mid", c.FFT.MidRangeHz},
		{"high", c.FFT.HighRangeHz},
	} {
		if band.r[0] < 0 || band.r[1] <= band.r[0] {
			return fmt.Errorf("config: %s_range_hz [%g, %g] is not ascending", band.name, band.r[0], band.r[1])
		}
		if band.r[1] > nyquist {
			return fmt.Errorf("config: %s_range_hz upper bound %g Hz exceeds Nyquist %g Hz", band.name, band.r[1], nyquist)
		}
	}

	if c.Physics.GridSide < 2 {
		return fmt.Errorf("config: grid_side %d must be at least 2", c.Physics.GridSide)
	}
	if c.Physics.GridSpacing <= 0 {
		return fmt.Errorf("config: grid_spacing_m %g must be positive", c.Physics.GridSpacing)
	}

	if c.Recording.Enabled {
		if c.Recording.DurationS <= 0 {
			return fmt.Errorf("config: recording duration_s %g must be positive", c.Recording.DurationS)
		}
		if c.Recording.FPS <= 0 {
			return fmt.Errorf("config: recording fps %d must be positive", c.Recording.FPS)
		}
		if c.Recording.OutputDir == "" {
			return fmt.Errorf("config: recording output_dir must be set")
		}
	}

	if c.Camera.Preset == "cinematic" {
		cin := c.Camera.Cinematic
		if cin.MinY >= cin.MaxY {
			return fmt.Errorf("config: cinematic min_y %g must be below max_y %g", cin.MinY, cin.MaxY)
		}
	}

	return nil
}
