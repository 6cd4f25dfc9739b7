package terrain

import (
	"fmt"
	"unsafe"
)

// Vertex is one grid point as it lives in GPU memory. The layout is
// co-designed with the std430 declaration in the compute shader: position
// padded to 16 bytes, uv padded so the element stride is 32. Any
// divergence between the two sides shows up as silent corruption in
// trailing vertices, so the stride is asserted at startup.
type Vertex struct {
	Position [3]float32
	_        float32
	UV       [2]float32
	_        [2]float32
}

// VertexStride is the asserted element stride in bytes
const VertexStride = 32

// Grid is the toroidal heightfield: a fixed N×N window of vertices
// recentered on the camera every frame. The index list is static; the
// vertex payload is fully rewritten by every compute dispatch.
type Grid struct {
	Side    uint32  // N
	Spacing float64 // s, meters between adjacent vertices

	Indices []uint32
}

// NewGrid builds the grid and its static index list
func NewGrid(side uint32, spacing float64) (*Grid, error) {
	if side < 2 {
		return nil, fmt.Errorf("terrain: grid side %d must be at least 2", side)
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("terrain: grid spacing %g must be positive", spacing)
	}
	if err := CheckVertexLayout(); err != nil {
		return nil, err
	}

	g := &Grid{Side: side, Spacing: spacing}
	g.Indices = buildIndices(side)
	return g, nil
}

// VertexCount returns N·N
func (g *Grid) VertexCount() int {
	return int(g.Side) * int(g.Side)
}

// IndexCount returns the number of indices in the triangle list
func (g *Grid) IndexCount() int {
	return len(g.Indices)
}

// VertexBufferSize returns the byte size of the vertex storage buffer
func (g *Grid) VertexBufferSize() int {
	return g.VertexCount() * VertexStride
}

// buildIndices emits two triangles per cell, row-major, wound
// counter-clockwise when viewed from above (+Y normals)
func buildIndices(side uint32) []uint32 {
	n := side
	indices := make([]uint32, 0, (n-1)*(n-1)*6)
	for z := uint32(0); z < n-1; z++ {
		for x := uint32(0); x < n-1; x++ {
			v00 := z*n + x
			v10 := z*n + x + 1
			v01 := (z+1)*n + x
			v11 := (z+1)*n + x + 1

			indices = append(indices, v00, v01, v11)
			indices = append(indices, v00, v11, v10)
		}
	}
	return indices
}

// CheckVertexLayout asserts the CPU-side vertex stride matches the
// shader's declared layout. Misalignment is a correctness bug: the
// pathognomonic symptom is the first ~75% of the grid updating while the
// tail stays garbage.
func CheckVertexLayout() error {
	if stride := unsafe.Sizeof(Vertex{}); stride != VertexStride {
		return fmt.Errorf("terrain: vertex stride is %d bytes, want %d (layout must match the compute shader)", stride, VertexStride)
	}
	if off := unsafe.Offsetof(Vertex{}.UV); off != 16 {
		return fmt.Errorf("terrain: vertex uv offset is %d bytes, want 16 (layout must match the compute shader)", off)
	}
	return nil
}
