package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

// TestWAVCaptureRoundTrip tests that captured PCM lands in a decodable
// stereo WAV file
func TestWAVCaptureRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	c := NewWAVCapture(path, 44100, 1)

	block := make([]float32, BlockSize)
	for i := range block {
		block[i] = 0.25
	}
	for n := 0; n < 10; n++ {
		c.WritePCM(block)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open capture: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("capture is not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("failed to decode capture: %v", err)
	}
	if buf.Format.NumChannels != 2 {
		t.Errorf("expected stereo capture, got %d channels", buf.Format.NumChannels)
	}
	if buf.Format.SampleRate != 44100 {
		t.Errorf("expected 44100 Hz, got %d", buf.Format.SampleRate)
	}
	if want := 10 * BlockSize * 2; len(buf.Data) != want {
		t.Errorf("expected %d interleaved samples, got %d", want, len(buf.Data))
	}
}

// TestWAVCaptureIgnoresWritesAfterClose tests the shutdown race guard
func TestWAVCaptureIgnoresWritesAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audio.wav")
	c := NewWAVCapture(path, 44100, 1)
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// The audio thread may race one last block in; it must be dropped
	c.WritePCM(make([]float32, BlockSize))
}
