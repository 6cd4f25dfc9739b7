package audio

import (
	"fmt"
	"os"
	"sync"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVCapture accumulates limited mono PCM in memory and writes a stereo
// WAV file on Close. Buffering in memory keeps file I/O off the audio
// thread; a duration-bounded recording stays small (a minute of 44.1 kHz
// mono float32 is ~10.6 MB).
type WAVCapture struct {
	mu         sync.Mutex
	samples    []float32
	sampleRate int
	path       string
	closed     bool
}

// NewWAVCapture creates a capture sink that will write to path. The
// buffer is pre-sized to the expected duration plus one second, so the
// audio-thread append does not reallocate while the captured audio stays
// within that length; appends beyond it grow the buffer.
func NewWAVCapture(path string, sampleRate int, expectedSeconds float64) *WAVCapture {
	capacity := int(float64(sampleRate)*expectedSeconds) + sampleRate
	return &WAVCapture{
		samples:    make([]float32, 0, capacity),
		sampleRate: sampleRate,
		path:       path,
	}
}

// WritePCM appends a block of limited mono samples
func (c *WAVCapture) WritePCM(samples []float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.samples = append(c.samples, samples...)
}

// Close encodes the buffered samples as 16-bit stereo WAV
func (c *WAVCapture) Close() error {
	c.mu.Lock()
	c.closed = true
	samples := c.samples
	c.mu.Unlock()

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("capture: failed to create %s: %w", c.path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, c.sampleRate, 16, channels, 1)

	// Duplicate mono into both channels, matching what the device played
	data := make([]int, len(samples)*channels)
	for i, v := range samples {
		s := int(v * 32767)
		data[i*2] = s
		data[i*2+1] = s
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  c.sampleRate,
		},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("capture: failed to write WAV data: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("capture: failed to finalize WAV: %w", err)
	}
	return nil
}
