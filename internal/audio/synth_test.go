package audio

import (
	"math"
	"testing"
)

// TestNextBlockFillsExactly tests that a block is always filled completely
func TestNextBlockFillsExactly(t *testing.T) {
	s := NewSynth(44100)

	block := make([]float32, BlockSize)
	for i := range block {
		block[i] = 99 // sentinel
	}
	if err := s.NextBlock(block); err != nil {
		t.Fatalf("NextBlock failed: %v", err)
	}
	for i, v := range block {
		if v == 99 {
			t.Fatalf("sample %d was not written", i)
		}
	}
}

// TestSynthOutputBounded tests that the mix stays within [-1, 1] and finite
func TestSynthOutputBounded(t *testing.T) {
	s := NewSynth(44100)

	block := make([]float32, BlockSize)
	// One minute of audio covers several bars of the progression
	for b := 0; b < 44100*60/BlockSize; b++ {
		if err := s.NextBlock(block); err != nil {
			t.Fatalf("NextBlock failed at block %d: %v", b, err)
		}
		for i, v := range block {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				t.Fatalf("block %d sample %d is not finite: %v", b, i, v)
			}
			if v > 1.0 || v < -1.0 {
				t.Fatalf("block %d sample %d out of range: %v", b, i, v)
			}
		}
	}
}

// TestSynthDeterministic tests that two synths produce identical output
func TestSynthDeterministic(t *testing.T) {
	a := NewSynth(44100)
	b := NewSynth(44100)

	blockA := make([]float32, BlockSize)
	blockB := make([]float32, BlockSize)
	for n := 0; n < 200; n++ {
		a.NextBlock(blockA)
		b.NextBlock(blockB)
		for i := range blockA {
			if blockA[i] != blockB[i] {
				t.Fatalf("block %d sample %d diverged: %v vs %v", n, i, blockA[i], blockB[i])
			}
		}
	}
}

// TestSynthProducesSignal tests that the synth is not silent
func TestSynthProducesSignal(t *testing.T) {
	s := NewSynth(44100)

	block := make([]float32, 44100)
	s.NextBlock(block)

	var energy float64
	for _, v := range block {
		energy += float64(v) * float64(v)
	}
	if energy == 0 {
		t.Error("one second of synthesis produced pure silence")
	}
}

// TestVoicePhaseContinuity tests that a redundant frequency write does
// not reset phase
func TestVoicePhaseContinuity(t *testing.T) {
	v := Voice{Waveform: WaveSine, Volume: 1, Enabled: true, noiseLFSR: 1}
	v.setFrequency(440, 44100)
	v.trigger(10, 44100)

	for i := 0; i < 100; i++ {
		v.sample()
	}
	phaseBefore := v.phase

	v.setFrequency(440, 44100) // same frequency
	if v.phase != phaseBefore {
		t.Errorf("redundant frequency write reset phase: %v -> %v", phaseBefore, v.phase)
	}

	v.setFrequency(880, 44100) // actual change
	if v.phase != 0 {
		t.Errorf("frequency change should reset phase, got %v", v.phase)
	}
}
