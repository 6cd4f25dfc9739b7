package analysis

import (
	"math"
	"math/cmplx"
	"sync"
	"time"

	"gonum.org/v1/gonum/dsp/fourier"

	"vibesurfer/internal/config"
	"vibesurfer/internal/debug"
)

// Worker periodically converts the accumulated samples into three
// normalized spectral bands. It is a single cooperative goroutine looping
// with a sleep; cancellation is observed between sleeps.
type Worker struct {
	cfg    config.FFTConfig
	shared *Shared
	logger *debug.Logger

	fft    *fourier.FFT
	window []float64

	// Scratch buffers reused across ticks
	samples  []float64
	windowed []float64

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates an FFT worker bound to the shared state. The config
// must already be validated (power-of-two size, bands under Nyquist).
func NewWorker(cfg config.FFTConfig, shared *Shared, logger *debug.Logger) *Worker {
	n := cfg.FFTSize

	// Hann window: w[i] = 0.5 * (1 - cos(2π·i/(N-1)))
	window := make([]float64, n)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}

	return &Worker{
		cfg:      cfg,
		shared:   shared,
		logger:   logger,
		fft:      fourier.NewFFT(n),
		window:   window,
		samples:  make([]float64, n),
		windowed: make([]float64, n),
		stopChan: make(chan struct{}),
	}
}

// Start launches the worker goroutine
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

// Stop signals the worker and waits for it to exit
func (w *Worker) Stop() {
	close(w.stopChan)
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()

	interval := time.Duration(w.cfg.UpdateIntervalMs) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ticker.C:
			w.tick()
		}
	}
}

// tick runs one analysis cycle. Insufficient samples skip the tick; a
// failed cycle never publishes.
func (w *Worker) tick() {
	if !w.shared.DrainWindow(w.cfg.FFTSize, w.samples) {
		return
	}

	for i, v := range w.samples {
		w.windowed[i] = v * w.window[i]
	}

	coeffs := w.fft.Coefficients(nil, w.windowed)

	bands := Bands{
		Low:  w.bandMagnitude(coeffs, w.cfg.BassRangeHz),
		Mid:  w.bandMagnitude(coeffs, w.cfg.MidRangeHz),
		High: w.bandMagnitude(coeffs, w.cfg.HighRangeHz),
	}

	w.shared.PublishBands(bands)

	if w.logger != nil {
		w.logger.LogFFTf(debug.LogLevelDebug, "bands low=%.3f mid=%.3f high=%.3f", bands.Low, bands.Mid, bands.High)
	}
}

// bandMagnitude averages coefficient magnitudes over the band's bin range.
// Division by bin count keeps the three bands on a comparable scale.
// Any non-finite intermediate zeroes the band for this tick.
func (w *Worker) bandMagnitude(coeffs []complex128, rangeHz [2]float64) float64 {
	n := w.cfg.FFTSize
	sr := float64(w.cfg.SampleRate)

	lo := int(math.Floor(rangeHz[0] * float64(n) / sr))
	hi := int(math.Ceil(rangeHz[1] * float64(n) / sr))
	if lo < 0 {
		lo = 0
	}
	if hi > len(coeffs) {
		hi = len(coeffs)
	}
	if hi <= lo {
		return 0
	}

	var sum float64
	for k := lo; k < hi; k++ {
		sum += cmplx.Abs(coeffs[k])
	}

	bins := hi - lo
	if bins < 1 {
		bins = 1
	}
	v := sum / float64(bins)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
