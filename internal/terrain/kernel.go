package terrain

// CPU reference of the compute kernel, kept semantically identical to the
// GLSL in shader.go. It backs the Floating oracle before the first GPU
// readback lands, and it is what the tests exercise: the kernel contract
// (bounds check, index decode, camera-centered world sampling, two-layer
// height) is identical on both sides.

// HeightAt evaluates the two-layer terrain height at world coordinates.
// The base layer is time-independent; the detail layer animates on the
// noise function's third axis.
func HeightAt(p *Params, worldX, worldZ float64) float64 {
	base := Simplex3D(worldX*float64(p.BaseFrequency), worldZ*float64(p.BaseFrequency), 0) * float64(p.BaseAmplitude)
	detail := Simplex3D(worldX*float64(p.DetailFrequency), worldZ*float64(p.DetailFrequency), float64(p.Time)) * float64(p.DetailAmplitude)
	return base + detail
}

// KernelInvocation runs one kernel invocation against dst. Returns false
// when idx overshoots N·N (the mandatory bounds check: the last workgroup
// of a 1-D dispatch may run past the grid).
func KernelInvocation(p *Params, idx int, dst []Vertex) bool {
	n := int(p.GridSide)
	if idx >= n*n {
		return false
	}

	x := idx % n
	z := idx / n

	// The grid is a window of width N·s centered on the camera
	half := float64(p.GridSide) * float64(p.GridSpacing) / 2
	worldX := float64(p.CameraPos[0]) - half + float64(x)*float64(p.GridSpacing)
	worldZ := float64(p.CameraPos[2]) - half + float64(z)*float64(p.GridSpacing)

	h := HeightAt(p, worldX, worldZ)

	dst[idx] = Vertex{
		Position: [3]float32{float32(worldX), float32(h), float32(worldZ)},
		UV:       [2]float32{float32(x) / float32(n), float32(z) / float32(n)},
	}
	return true
}

// ReferenceDispatch simulates a full 1-D dispatch of the given invocation
// count, including overshooting invocations, and returns the vertex
// buffer. Used by tests; the real dispatch runs on the GPU.
func ReferenceDispatch(p *Params, invocations int) []Vertex {
	n := int(p.GridSide)
	dst := make([]Vertex, n*n)
	for idx := 0; idx < invocations; idx++ {
		KernelInvocation(p, idx, dst)
	}
	return dst
}
