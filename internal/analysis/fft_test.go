package analysis

import (
	"math"
	"testing"

	"vibesurfer/internal/config"
	"vibesurfer/internal/debug"
)

func testFFTConfig() config.FFTConfig {
	return config.FFTConfig{
		SampleRate:       44100,
		FFTSize:          1024,
		UpdateIntervalMs: 50,
		BassRangeHz:      [2]float64{20, 200},
		MidRangeHz:       [2]float64{200, 1000},
		HighRangeHz:      [2]float64{1000, 4000},
	}
}

func quietLogger() *debug.Logger {
	l := debug.NewLogger(100)
	l.SetConsole(false)
	return l
}

// feedSine appends a pure tone at the given frequency and amplitude
func feedSine(s *Shared, freq float64, amp float64, sampleRate int, n int) {
	block := make([]float32, n)
	for i := range block {
		block[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	s.Append(block)
}

// TestSineInBassBandDominates tests that a 100 Hz tone lands in the low band
func TestSineInBassBandDominates(t *testing.T) {
	cfg := testFFTConfig()
	shared := NewShared(cfg.FFTSize * 4)
	w := NewWorker(cfg, shared, quietLogger())

	feedSine(shared, 100, 0.4, cfg.SampleRate, cfg.FFTSize)
	w.tick()

	b := shared.SnapshotBands()
	if b.Low <= b.Mid || b.Low <= b.High {
		t.Errorf("100 Hz tone: expected low band to dominate, got %+v", b)
	}
	for name, v := range map[string]float64{"low": b.Low, "mid": b.Mid, "high": b.High} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			t.Errorf("band %s is not finite and non-negative: %v", name, v)
		}
	}
}

// TestSineInHighBandDominates tests that a 3 kHz tone lands in the high band
func TestSineInHighBandDominates(t *testing.T) {
	cfg := testFFTConfig()
	shared := NewShared(cfg.FFTSize * 4)
	w := NewWorker(cfg, shared, quietLogger())

	feedSine(shared, 3000, 0.4, cfg.SampleRate, cfg.FFTSize)
	w.tick()

	b := shared.SnapshotBands()
	if b.High <= b.Low || b.High <= b.Mid {
		t.Errorf("3 kHz tone: expected high band to dominate, got %+v", b)
	}
}

// TestTickSkipsWhenStarved tests that an empty ring publishes nothing
func TestTickSkipsWhenStarved(t *testing.T) {
	cfg := testFFTConfig()
	shared := NewShared(cfg.FFTSize * 4)
	w := NewWorker(cfg, shared, quietLogger())

	shared.PublishBands(Bands{Low: 7, Mid: 8, High: 9})
	w.tick()

	b := shared.SnapshotBands()
	if b.Low != 7 || b.Mid != 8 || b.High != 9 {
		t.Errorf("starved tick must not publish; bands changed to %+v", b)
	}
}

// TestTickConsumesHalfWindow tests the worker's 50% overlap through the ring
func TestTickConsumesHalfWindow(t *testing.T) {
	cfg := testFFTConfig()
	shared := NewShared(cfg.FFTSize * 4)
	w := NewWorker(cfg, shared, quietLogger())

	feedSine(shared, 440, 0.3, cfg.SampleRate, cfg.FFTSize)
	w.tick()

	if got := shared.Buffered(); got != cfg.FFTSize/2 {
		t.Errorf("expected %d samples left after one tick, got %d", cfg.FFTSize/2, got)
	}
}

// TestBandMagnitudeBinRange tests the bin boundary arithmetic
func TestBandMagnitudeBinRange(t *testing.T) {
	cfg := testFFTConfig()
	shared := NewShared(cfg.FFTSize * 4)
	w := NewWorker(cfg, shared, quietLogger())

	// Coefficient array matching a real FFT of size 1024: 513 bins. Put
	// energy in exactly bin 5 (~215 Hz), inside the mid band only.
	coeffs := make([]complex128, cfg.FFTSize/2+1)
	coeffs[5] = complex(100, 0)

	low := w.bandMagnitude(coeffs, cfg.BassRangeHz)
	mid := w.bandMagnitude(coeffs, cfg.MidRangeHz)
	if mid <= 0 {
		t.Errorf("bin 5 (~215 Hz) should contribute to the mid band, got %v", mid)
	}
	if low != 0 {
		t.Errorf("bin 5 (~215 Hz) should not contribute to the bass band, got %v", low)
	}
}

// TestBandMagnitudeNonFinite tests that a poisoned coefficient zeroes the band
func TestBandMagnitudeNonFinite(t *testing.T) {
	cfg := testFFTConfig()
	shared := NewShared(cfg.FFTSize * 4)
	w := NewWorker(cfg, shared, quietLogger())

	coeffs := make([]complex128, cfg.FFTSize/2+1)
	coeffs[2] = complex(math.NaN(), 0) // bin 2 (~86 Hz) lies in the bass band

	if got := w.bandMagnitude(coeffs, cfg.BassRangeHz); got != 0 {
		t.Errorf("non-finite intermediate must zero the band, got %v", got)
	}
}
