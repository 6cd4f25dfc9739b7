package audio

import (
	"math"
)

// Waveform selects a voice's oscillator shape
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Voice is one oscillator with a phase accumulator and a per-note decay
// envelope. Phase wraps by subtraction rather than modulo to keep
// floating-point precision over long runs.
type Voice struct {
	Frequency float64
	Volume    float64
	Waveform  Waveform
	Enabled   bool

	phase          float64
	phaseIncrement float64

	// Envelope level, multiplied by decayPerSample each sample after the
	// note triggers
	envLevel       float64
	decayPerSample float64

	// 15-bit LFSR for the noise waveform, polynomial x^15 + x^14 + 1
	noiseLFSR uint16

	lastFrequency float64
}

// setFrequency updates the phase increment and resets phase only when the
// frequency actually changed. Redundant writes must not reset phase or the
// output warbles.
func (v *Voice) setFrequency(freq float64, sampleRate int) {
	if freq == v.lastFrequency {
		return
	}
	v.Frequency = freq
	v.lastFrequency = freq
	v.phaseIncrement = (freq / float64(sampleRate)) * 2.0 * math.Pi
	v.phase = 0
}

// trigger starts a note with the given decay time in seconds
func (v *Voice) trigger(decaySeconds float64, sampleRate int) {
	v.envLevel = 1.0
	if decaySeconds <= 0 {
		v.decayPerSample = 1.0
		return
	}
	// Reach -60 dB after decaySeconds
	v.decayPerSample = math.Pow(0.001, 1.0/(decaySeconds*float64(sampleRate)))
}

// sample produces the voice's next output sample and advances its state
func (v *Voice) sample() float64 {
	if !v.Enabled || v.envLevel < 1e-4 {
		return 0
	}

	var out float64
	switch v.Waveform {
	case WaveSine:
		out = math.Sin(v.phase)
	case WaveSquare:
		if v.phase < math.Pi {
			out = 1.0
		} else {
			out = -1.0
		}
	case WaveSaw:
		out = (v.phase/(2.0*math.Pi))*2.0 - 1.0
	case WaveNoise:
		feedback := (v.noiseLFSR & 1) ^ ((v.noiseLFSR >> 14) & 1)
		v.noiseLFSR = (v.noiseLFSR >> 1) | (feedback << 14)
		if v.noiseLFSR == 0 {
			v.noiseLFSR = 1 // Prevent stuck at 0
		}
		if v.noiseLFSR&1 != 0 {
			out = 1.0
		} else {
			out = -1.0
		}
	}

	out *= v.Volume * v.envLevel
	v.envLevel *= v.decayPerSample

	v.phase += v.phaseIncrement
	if v.phase >= 2.0*math.Pi {
		v.phase -= 2.0 * math.Pi
	}
	return out
}

// Voice indices in the synth's fixed bank
const (
	voiceBass = iota
	voicePad1
	voicePad2
	voicePad3
	voiceArp
	voiceHat
	voiceCount
)

// chord is a root plus triad intervals in semitones
type chord struct {
	root      int // semitones relative to A2 (110 Hz)
	intervals [3]int
}

// An eight-bar minor progression; the sequencer loops it indefinitely
var progression = []chord{
	{root: 0, intervals: [3]int{0, 3, 7}},  // Am
	{root: 8, intervals: [3]int{0, 4, 7}},  // F
	{root: 3, intervals: [3]int{0, 4, 7}},  // C
	{root: 10, intervals: [3]int{0, 4, 7}}, // G
	{root: 0, intervals: [3]int{0, 3, 7}},  // Am
	{root: 5, intervals: [3]int{0, 3, 7}},  // Dm
	{root: 3, intervals: [3]int{0, 4, 7}},  // C
	{root: -2, intervals: [3]int{0, 3, 7}}, // Gm (phrygian color)
}

// Synth is the procedural music source: a fixed bank of phase-accumulator
// voices driven by a sample-clock sequencer. It produces mono float32
// blocks; the output adapter handles stereo interleaving and limiting.
// All state advances deterministically from the sample position.
type Synth struct {
	sampleRate int
	voices     [voiceCount]Voice

	MasterVolume float64

	samplePos      uint64
	samplesPerBeat uint64

	// Sequencer positions already triggered, so a mid-block call never
	// double-fires a step
	lastBeat int64
	lastBar  int64
}

// NewSynth creates the synth with its fixed voice bank
func NewSynth(sampleRate int) *Synth {
	s := &Synth{
		sampleRate:     sampleRate,
		MasterVolume:   0.8,
		samplesPerBeat: uint64(float64(sampleRate) * 0.5), // 120 BPM
		lastBeat:       -1,
		lastBar:        -1,
	}

	s.voices[voiceBass] = Voice{Waveform: WaveSine, Volume: 0.5, Enabled: true, noiseLFSR: 1}
	s.voices[voicePad1] = Voice{Waveform: WaveSaw, Volume: 0.18, Enabled: true, noiseLFSR: 1}
	s.voices[voicePad2] = Voice{Waveform: WaveSaw, Volume: 0.18, Enabled: true, noiseLFSR: 1}
	s.voices[voicePad3] = Voice{Waveform: WaveSaw, Volume: 0.18, Enabled: true, noiseLFSR: 1}
	s.voices[voiceArp] = Voice{Waveform: WaveSquare, Volume: 0.12, Enabled: true, noiseLFSR: 1}
	s.voices[voiceHat] = Voice{Waveform: WaveNoise, Volume: 0.1, Enabled: true, noiseLFSR: 1}
	return s
}

// semitoneHz converts semitones above A2 (110 Hz) to frequency
func semitoneHz(semitones int) float64 {
	return 110.0 * math.Pow(2.0, float64(semitones)/12.0)
}

// step advances the sequencer to the current sample position, triggering
// notes whose boundaries were crossed
func (s *Synth) step() {
	beat := int64(s.samplePos / s.samplesPerBeat)
	bar := beat / 4

	if bar != s.lastBar {
		s.lastBar = bar
		c := progression[int(bar)%len(progression)]

		s.voices[voiceBass].setFrequency(semitoneHz(c.root)/2, s.sampleRate)
		s.voices[voiceBass].trigger(2.0, s.sampleRate)

		for i, iv := range c.intervals {
			v := &s.voices[voicePad1+i]
			v.setFrequency(semitoneHz(c.root+iv), s.sampleRate)
			v.trigger(2.4, s.sampleRate)
		}
	}

	if beat != s.lastBeat {
		s.lastBeat = beat
		c := progression[int(bar)%len(progression)]

		// Arpeggio walks the triad one note per beat, an octave up
		iv := c.intervals[int(beat)%3]
		s.voices[voiceArp].setFrequency(semitoneHz(c.root+iv+12), s.sampleRate)
		s.voices[voiceArp].trigger(0.3, s.sampleRate)

		// Hat on every beat, short burst
		s.voices[voiceHat].trigger(0.05, s.sampleRate)
	}
}

// NextBlock fills dst with the next mono samples. The mix is clamped to
// [-1, 1]; the hard ±0.5 safety limit is the output adapter's contract.
func (s *Synth) NextBlock(dst []float32) error {
	for i := range dst {
		s.step()

		var mix float64
		for v := range s.voices {
			mix += s.voices[v].sample()
		}
		mix *= s.MasterVolume

		if mix > 1.0 {
			mix = 1.0
		} else if mix < -1.0 {
			mix = -1.0
		}
		if math.IsNaN(mix) {
			mix = 0
		}

		dst[i] = float32(mix)
		s.samplePos++
	}
	return nil
}
