package audio

import (
	"errors"
	"testing"

	"vibesurfer/internal/debug"
)

// constantSource fills every block with a fixed value
type constantSource struct {
	value float32
}

func (c *constantSource) NextBlock(dst []float32) error {
	for i := range dst {
		dst[i] = c.value
	}
	return nil
}

// failingSource always errors
type failingSource struct{}

func (f *failingSource) NextBlock(dst []float32) error {
	return errors.New("no samples")
}

// recordingSink captures everything appended
type recordingSink struct {
	samples []float32
}

func (r *recordingSink) Append(samples []float32) {
	r.samples = append(r.samples, samples...)
}

func testOutput(source Source, sink SampleSink) *Output {
	logger := debug.NewLogger(100)
	logger.SetConsole(false)
	// The device context is not needed to exercise the Read path
	return &Output{
		source:     source,
		sink:       sink,
		logger:     logger,
		sampleRate: 44100,
	}
}

// TestReadFillsEntireBuffer tests that Read never partially fills
func TestReadFillsEntireBuffer(t *testing.T) {
	o := testOutput(&constantSource{value: 0.1}, nil)

	for _, size := range []int{4, 512, 4096, 1000} {
		p := make([]byte, size)
		n, err := o.Read(p)
		if err != nil {
			t.Fatalf("Read(%d) failed: %v", size, err)
		}
		if n != size {
			t.Errorf("Read(%d) returned %d; partial fills cause audible gaps", size, n)
		}
	}
}

// TestSafetyLimiter tests that every output sample obeys |s| <= 0.5
func TestSafetyLimiter(t *testing.T) {
	// A source far beyond the limit simulates a synthesis anomaly
	o := testOutput(&constantSource{value: 40}, nil)

	p := make([]byte, 4096)
	if _, err := o.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	limit := int16(SafetyLimit*32767) + 1
	for i := 0; i+1 < len(p); i += 2 {
		s := int16(uint16(p[i]) | uint16(p[i+1])<<8)
		if s > limit || s < -limit {
			t.Fatalf("sample at byte %d is %d, beyond the ±0.5 safety limit", i, s)
		}
	}
}

// TestMonoSumReachesSink tests that the analysis ring sees the limited signal
func TestMonoSumReachesSink(t *testing.T) {
	sink := &recordingSink{}
	o := testOutput(&constantSource{value: 0.25}, sink)

	p := make([]byte, BlockSize*bytesPerFrame)
	if _, err := o.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(sink.samples) != BlockSize {
		t.Fatalf("expected %d mono samples in sink, got %d", BlockSize, len(sink.samples))
	}
	for i, v := range sink.samples {
		if v != 0.25 {
			t.Errorf("sink sample %d: expected 0.25, got %v", i, v)
		}
	}
}

// TestSinkSeesLimitedSamples tests that clamping happens before the sink
func TestSinkSeesLimitedSamples(t *testing.T) {
	sink := &recordingSink{}
	o := testOutput(&constantSource{value: 3}, sink)

	p := make([]byte, BlockSize*bytesPerFrame)
	if _, err := o.Read(p); err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	for i, v := range sink.samples {
		if v > SafetyLimit || v < -SafetyLimit {
			t.Errorf("sink sample %d escaped the limiter: %v", i, v)
		}
	}
}

// TestSourceFailureYieldsSilence tests the dropout path
func TestSourceFailureYieldsSilence(t *testing.T) {
	sink := &recordingSink{}
	o := testOutput(&failingSource{}, sink)

	p := make([]byte, 1024)
	for i := range p {
		p[i] = 0xAB
	}
	n, err := o.Read(p)
	if err != nil {
		t.Fatalf("Read must recover from source failure, got %v", err)
	}
	if n != len(p) {
		t.Fatalf("Read returned %d of %d; silence must still fill the buffer", n, len(p))
	}
	for i, b := range p {
		if b != 0 {
			t.Fatalf("byte %d is 0x%02X; expected silence, not stale data", i, b)
		}
	}
}

// TestUnalignedReadCarriesFrame tests the partial-frame carry between calls
func TestUnalignedReadCarriesFrame(t *testing.T) {
	o := testOutput(&constantSource{value: 0.1}, nil)

	// First read ends mid-frame
	p1 := make([]byte, 6)
	n, err := o.Read(p1)
	if err != nil || n != 6 {
		t.Fatalf("Read(6) = %d, %v", n, err)
	}

	// The next read must start with the carried bytes so the L/R
	// interleave never slips
	p2 := make([]byte, bytesPerFrame)
	n, err = o.Read(p2)
	if err != nil || n != bytesPerFrame {
		t.Fatalf("Read(%d) = %d, %v", bytesPerFrame, n, err)
	}

	// p1 holds frame0 plus half of frame1; p2 starts with the rest of
	// frame1. Reassembled, frame1's left and right halves must be equal
	// (mono duplicated to stereo).
	frame1 := append(append([]byte{}, p1[4:6]...), p2[0:2]...)
	l := int16(uint16(frame1[0]) | uint16(frame1[1])<<8)
	r := int16(uint16(frame1[2]) | uint16(frame1[3])<<8)
	if l != r {
		t.Errorf("carried frame slipped channels: L=%d R=%d", l, r)
	}
}
