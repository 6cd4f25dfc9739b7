package terrain

import (
	"testing"
	"unsafe"
)

// TestVertexStrideIs32 tests the asserted element stride
func TestVertexStrideIs32(t *testing.T) {
	if size := unsafe.Sizeof(Vertex{}); size != 32 {
		t.Errorf("vertex stride is %d bytes, want 32", size)
	}
	if err := CheckVertexLayout(); err != nil {
		t.Errorf("CheckVertexLayout failed: %v", err)
	}
}

// TestGridIndexCount tests two triangles per cell
func TestGridIndexCount(t *testing.T) {
	g, err := NewGrid(8, 2)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	want := 7 * 7 * 6
	if got := g.IndexCount(); got != want {
		t.Errorf("expected %d indices for an 8x8 grid, got %d", want, got)
	}
	if got := g.VertexCount(); got != 64 {
		t.Errorf("expected 64 vertices, got %d", got)
	}
	if got := g.VertexBufferSize(); got != 64*32 {
		t.Errorf("expected %d byte vertex buffer, got %d", 64*32, got)
	}
}

// TestGridIndicesInBounds tests that no index escapes the vertex range
func TestGridIndicesInBounds(t *testing.T) {
	g, err := NewGrid(16, 1)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}
	max := uint32(g.VertexCount())
	for i, idx := range g.Indices {
		if idx >= max {
			t.Fatalf("index %d references vertex %d, beyond %d", i, idx, max)
		}
	}
}

// TestGridWindingCounterClockwise tests that every triangle's normal
// points up (+Y) for a flat grid, which is CCW seen from above
func TestGridWindingCounterClockwise(t *testing.T) {
	g, err := NewGrid(4, 2)
	if err != nil {
		t.Fatalf("NewGrid failed: %v", err)
	}

	// Flat grid positions: y = 0, x/z from the grid coordinates
	pos := func(idx uint32) [3]float64 {
		x := float64(idx%g.Side) * g.Spacing
		z := float64(idx/g.Side) * g.Spacing
		return [3]float64{x, 0, z}
	}

	for i := 0; i+2 < len(g.Indices); i += 3 {
		a := pos(g.Indices[i])
		b := pos(g.Indices[i+1])
		c := pos(g.Indices[i+2])

		abX, abZ := b[0]-a[0], b[2]-a[2]
		acX, acZ := c[0]-a[0], c[2]-a[2]

		normalY := abZ*acX - abX*acZ
		if normalY <= 0 {
			t.Fatalf("triangle %d has normal.y = %v; winding is not CCW from above", i/3, normalY)
		}
	}
}

// TestGridRejectsDegenerateSizes tests the startup validation
func TestGridRejectsDegenerateSizes(t *testing.T) {
	if _, err := NewGrid(1, 2); err == nil {
		t.Error("NewGrid(1, ...) must fail")
	}
	if _, err := NewGrid(8, 0); err == nil {
		t.Error("NewGrid(..., 0) must fail")
	}
	if _, err := NewGrid(8, -1); err == nil {
		t.Error("NewGrid(..., -1) must fail")
	}
}
