package analysis

import (
	"testing"
)

// TestAppendPreservesOrder tests that drained samples come back in append order
func TestAppendPreservesOrder(t *testing.T) {
	s := NewShared(16)

	s.Append([]float32{1, 2, 3, 4})
	s.Append([]float32{5, 6, 7, 8})

	dst := make([]float64, 8)
	if !s.DrainWindow(8, dst) {
		t.Fatal("DrainWindow(8) failed with 8 samples buffered")
	}
	for i := 0; i < 8; i++ {
		if dst[i] != float64(i+1) {
			t.Errorf("sample %d: expected %d, got %v", i, i+1, dst[i])
		}
	}
}

// TestDrainWindowRemovesHalf tests the 50% overlap contract
func TestDrainWindowRemovesHalf(t *testing.T) {
	s := NewShared(32)

	samples := make([]float32, 8)
	for i := range samples {
		samples[i] = float32(i)
	}
	s.Append(samples)

	dst := make([]float64, 8)
	if !s.DrainWindow(8, dst) {
		t.Fatal("DrainWindow(8) failed with 8 samples buffered")
	}
	if got := s.Buffered(); got != 4 {
		t.Errorf("expected 4 samples remaining after draining 8, got %d", got)
	}

	// The second window starts at the midpoint of the first
	s.Append([]float32{100, 101, 102, 103})
	if !s.DrainWindow(8, dst) {
		t.Fatal("second DrainWindow(8) failed")
	}
	if dst[0] != 4 {
		t.Errorf("expected second window to start at sample 4, got %v", dst[0])
	}
}

// TestDrainWindowInsufficientSamples tests that a short buffer skips the tick
func TestDrainWindowInsufficientSamples(t *testing.T) {
	s := NewShared(16)
	s.Append([]float32{1, 2, 3})

	dst := make([]float64, 8)
	if s.DrainWindow(8, dst) {
		t.Error("DrainWindow(8) succeeded with only 3 samples buffered")
	}
	if got := s.Buffered(); got != 3 {
		t.Errorf("failed drain should not consume; expected 3 buffered, got %d", got)
	}
}

// TestAppendOverwritesOldest tests the bounded-capacity behavior
func TestAppendOverwritesOldest(t *testing.T) {
	s := NewShared(4)

	s.Append([]float32{1, 2, 3, 4})
	s.Append([]float32{5, 6})

	dst := make([]float64, 4)
	if !s.DrainWindow(4, dst) {
		t.Fatal("DrainWindow(4) failed on a full ring")
	}
	expected := []float64{3, 4, 5, 6}
	for i, want := range expected {
		if dst[i] != want {
			t.Errorf("sample %d: expected %v, got %v", i, want, dst[i])
		}
	}
}

// TestBandsLastWriterWins tests the publish/snapshot exchange
func TestBandsLastWriterWins(t *testing.T) {
	s := NewShared(16)

	if b := s.SnapshotBands(); b.Low != 0 || b.Mid != 0 || b.High != 0 {
		t.Errorf("expected zero bands before any publish, got %+v", b)
	}

	s.PublishBands(Bands{Low: 1, Mid: 2, High: 3})
	s.PublishBands(Bands{Low: 4, Mid: 5, High: 6})

	b := s.SnapshotBands()
	if b.Low != 4 || b.Mid != 5 || b.High != 6 {
		t.Errorf("expected latest bands {4 5 6}, got %+v", b)
	}
}
