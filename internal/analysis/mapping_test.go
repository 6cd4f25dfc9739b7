package analysis

import (
	"testing"

	"vibesurfer/internal/config"
)

func testPhysics() config.PhysicsConfig {
	return config.PhysicsConfig{
		DetailAmplitude: 2.5,
		DetailFrequency: 0.03,
		BaseLineWidth:   1.0,
	}
}

func testMapping() config.MappingConfig {
	return config.MappingConfig{
		BassToAmplitude: 3.0,
		MidToFrequency:  0.15,
		HighToLineWidth: 0.03,
	}
}

// TestMapBandsFormula tests the exact linear mapping
func TestMapBandsFormula(t *testing.T) {
	v := MapBands(Bands{Low: 2, Mid: 4, High: 10}, testPhysics(), testMapping())

	if want := 2.5 + 2*3.0; v.Amplitude != want {
		t.Errorf("amplitude: expected %v, got %v", want, v.Amplitude)
	}
	if want := 0.03 + 4*0.15; v.Frequency != want {
		t.Errorf("frequency: expected %v, got %v", want, v.Frequency)
	}
	if want := 1.0 + 10*0.03; v.LineWidth != want {
		t.Errorf("line width: expected %v, got %v", want, v.LineWidth)
	}
}

// TestMapBandsZeroInput tests that silent bands yield the base physics
func TestMapBandsZeroInput(t *testing.T) {
	phys := testPhysics()
	v := MapBands(Bands{}, phys, testMapping())

	if v.Amplitude != phys.DetailAmplitude {
		t.Errorf("expected base amplitude %v, got %v", phys.DetailAmplitude, v.Amplitude)
	}
	if v.Frequency != phys.DetailFrequency {
		t.Errorf("expected base frequency %v, got %v", phys.DetailFrequency, v.Frequency)
	}
	if v.LineWidth != phys.BaseLineWidth {
		t.Errorf("expected base line width %v, got %v", phys.BaseLineWidth, v.LineWidth)
	}
}

// TestMapBandsMonotonic tests that each output is non-decreasing in its
// driving band
func TestMapBandsMonotonic(t *testing.T) {
	phys := testPhysics()
	mapping := testMapping()

	var prev Visual
	for i := 0; i <= 10; i++ {
		b := Bands{Low: float64(i), Mid: float64(i), High: float64(i)}
		v := MapBands(b, phys, mapping)
		if i > 0 {
			if v.Amplitude < prev.Amplitude {
				t.Errorf("amplitude decreased from %v to %v as low rose", prev.Amplitude, v.Amplitude)
			}
			if v.Frequency < prev.Frequency {
				t.Errorf("frequency decreased from %v to %v as mid rose", prev.Frequency, v.Frequency)
			}
			if v.LineWidth < prev.LineWidth {
				t.Errorf("line width decreased from %v to %v as high rose", prev.LineWidth, v.LineWidth)
			}
		}
		prev = v
	}
}
