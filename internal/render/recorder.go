package render

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"vibesurfer/internal/debug"
)

// Recorder writes captured frames as numbered PNGs. When the configured
// frame count is reached, Done reports true and the render loop exits.
type Recorder struct {
	outputDir   string
	totalFrames int
	frameCount  int
	logger      *debug.Logger
}

// NewRecorder creates the output directory and computes the frame budget
// as ceil(duration * fps)
func NewRecorder(outputDir string, durationS float64, fps int, logger *debug.Logger) (*Recorder, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("recorder: failed to create %s: %w", outputDir, err)
	}
	return &Recorder{
		outputDir:   outputDir,
		totalFrames: int(math.Ceil(durationS * float64(fps))),
		logger:      logger,
	}, nil
}

// TotalFrames returns the frame budget
func (r *Recorder) TotalFrames() int {
	return r.totalFrames
}

// Frame encodes one captured image. Encoding happens on the render
// thread; recording mode uses a stepped clock, so real-time pacing does
// not matter.
func (r *Recorder) Frame(img *image.RGBA) error {
	path := filepath.Join(r.outputDir, fmt.Sprintf("frame_%05d.png", r.frameCount))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("recorder: failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("recorder: failed to encode %s: %w", path, err)
	}

	r.frameCount++
	if r.logger != nil && r.frameCount%60 == 0 {
		r.logger.LogRenderf(debug.LogLevelInfo, "captured %d/%d frames", r.frameCount, r.totalFrames)
	}
	return nil
}

// Done reports whether the capture duration is complete
func (r *Recorder) Done() bool {
	return r.frameCount >= r.totalFrames
}
