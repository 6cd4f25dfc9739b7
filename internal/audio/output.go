package audio

import (
	"fmt"
	"io"
	"sync"

	"github.com/hajimehoshi/oto/v2"

	"vibesurfer/internal/debug"
)

const (
	// BlockSize is the fixed synthesis block: 128 samples at 44.1 kHz is
	// ~2.9 ms of audio
	BlockSize = 128

	// SafetyLimit is the hard clamp applied to every output sample. This
	// is a design-level contract, not a tuning knob.
	SafetyLimit = 0.5

	channels      = 2
	bytesPerSamp  = 2 // 16-bit PCM
	bytesPerFrame = channels * bytesPerSamp
)

// Source produces mono PCM blocks. A Source that cannot fill a block
// returns an error; the output substitutes silence for that block.
type Source interface {
	NextBlock(dst []float32) error
}

// SampleSink receives the mono-summed copy of everything sent to the
// device. The FFT pipeline's ring accumulator implements this.
type SampleSink interface {
	Append(samples []float32)
}

// CapturePCM receives the limited mono samples for recording
type CapturePCM interface {
	WritePCM(samples []float32)
}

// Output owns the synth and feeds the audio device. The oto player pulls
// via Read on its own thread at fixed block intervals; every invocation
// must fill the whole buffer or the device underruns audibly.
type Output struct {
	ctx    *oto.Context
	player oto.Player

	synthMu sync.Mutex
	source  Source

	sink    SampleSink
	capture CapturePCM
	logger  *debug.Logger

	sampleRate int

	// Scratch reused every callback; the steady-state Read path must not
	// allocate
	block [BlockSize]float32

	// Encoded block bytes not yet consumed by the device. A Read that
	// ends mid-block leaves the remainder here; nothing synthesized is
	// ever dropped.
	pending    [BlockSize * bytesPerFrame]byte
	pendingOff int
	pendingLen int

	dropoutLogged bool
}

// NewOutput creates the audio output and its device context. The player
// does not start until Start is called.
func NewOutput(sampleRate int, source Source, sink SampleSink, logger *debug.Logger) (*Output, error) {
	ctx, ready, err := oto.NewContext(sampleRate, channels, bytesPerSamp)
	if err != nil {
		return nil, fmt.Errorf("audio: failed to create output context: %w", err)
	}
	<-ready

	o := &Output{
		ctx:        ctx,
		source:     source,
		sink:       sink,
		logger:     logger,
		sampleRate: sampleRate,
	}
	o.player = ctx.NewPlayer(o)
	return o, nil
}

// SetCapture installs an optional capture sink. Must be called before
// Start.
func (o *Output) SetCapture(c CapturePCM) {
	o.capture = c
}

// Start begins playback; the device starts pulling from Read
func (o *Output) Start() {
	o.player.Play()
}

// Close stops playback and releases the device
func (o *Output) Close() error {
	if err := o.player.Close(); err != nil {
		return fmt.Errorf("audio: failed to close player: %w", err)
	}
	return nil
}

// Read implements io.Reader for the device. It fills p entirely with
// interleaved stereo 16-bit PCM, synthesized in fixed blocks, limited to
// ±SafetyLimit, and mirrors a mono copy into the sample sink.
func (o *Output) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if o.pendingOff == o.pendingLen {
			o.synthesizePending()
		}
		c := copy(p[n:], o.pending[o.pendingOff:o.pendingLen])
		n += c
		o.pendingOff += c
	}
	return n, nil
}

// synthesizePending produces one block, applies the limiter, mirrors it
// to the sinks, and encodes it as interleaved stereo
func (o *Output) synthesizePending() {
	if err := o.fillBlock(); err != nil {
		// Producer failure: silence beats stale data
		for i := range o.block {
			o.block[i] = 0
		}
		if !o.dropoutLogged {
			o.logger.LogAudiof(debug.LogLevelError, "synth failed to produce a block, substituting silence: %v", err)
			o.dropoutLogged = true
		}
	} else {
		o.dropoutLogged = false
	}

	// Hard safety limiter, applied before the samples reach either the
	// device or the analysis ring
	for i, v := range o.block {
		if v > SafetyLimit {
			v = SafetyLimit
		} else if v < -SafetyLimit {
			v = -SafetyLimit
		}
		if v != v { // NaN
			v = 0
		}
		o.block[i] = v
	}

	if o.sink != nil {
		o.sink.Append(o.block[:])
	}
	if o.capture != nil {
		o.capture.WritePCM(o.block[:])
	}

	// Interleave mono to stereo 16-bit little-endian
	for i, v := range o.block {
		s := int16(v * 32767)
		lo := byte(uint16(s) & 0xFF)
		hi := byte(uint16(s) >> 8)
		o.pending[i*bytesPerFrame+0] = lo
		o.pending[i*bytesPerFrame+1] = hi
		o.pending[i*bytesPerFrame+2] = lo
		o.pending[i*bytesPerFrame+3] = hi
	}
	o.pendingOff = 0
	o.pendingLen = BlockSize * bytesPerFrame
}

// fillBlock synthesizes one block under the synth lock. The lock scope is
// a single block so the render thread can never hold the audio thread for
// longer than one block's synthesis.
func (o *Output) fillBlock() error {
	o.synthMu.Lock()
	defer o.synthMu.Unlock()
	return o.source.NextBlock(o.block[:])
}

var _ io.Reader = (*Output)(nil)
