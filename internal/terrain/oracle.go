package terrain

import (
	"sync"
)

// Oracle answers terrain-height queries for the Floating camera preset.
// It prefers the most recent GPU readback row (one frame old); until the
// first readback lands it evaluates the CPU noise reference, so early
// frames never see a degenerate height.
type Oracle struct {
	mu sync.Mutex

	// Latest readback: heights across x at the camera-center row
	heights []float64
	originX float64
	spacing float64
	valid   bool

	params    Params
	hasParams bool
}

// NewOracle creates an empty oracle; it serves CPU fallback heights until
// SetRow is first called
func NewOracle() *Oracle {
	return &Oracle{}
}

// SetParams records the current dispatch parameters for the CPU fallback
func (o *Oracle) SetParams(p Params) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.params = p
	o.hasParams = true
}

// SetRow installs a readback row. The row holds full vertices; only the
// world x and height are kept.
func (o *Oracle) SetRow(row []Vertex) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if len(row) == 0 {
		return
	}
	if cap(o.heights) < len(row) {
		o.heights = make([]float64, len(row))
	}
	o.heights = o.heights[:len(row)]
	for i, v := range row {
		o.heights[i] = float64(v.Position[1])
	}
	o.originX = float64(row[0].Position[0])
	if len(row) > 1 {
		o.spacing = float64(row[1].Position[0]) - o.originX
	}
	o.valid = o.spacing > 0
}

// HeightAt returns the terrain height at world (x, z). The readback row
// was sampled at the previous frame's camera z; the z argument only
// matters for the CPU fallback.
func (o *Oracle) HeightAt(x, z float64) float64 {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.valid {
		// Linear interpolation along the row, clamped at the edges
		pos := (x - o.originX) / o.spacing
		if pos <= 0 {
			return o.heights[0]
		}
		if pos >= float64(len(o.heights)-1) {
			return o.heights[len(o.heights)-1]
		}
		i := int(pos)
		frac := pos - float64(i)
		return o.heights[i]*(1-frac) + o.heights[i+1]*frac
	}

	if o.hasParams {
		return HeightAt(&o.params, x, z)
	}
	return 0
}
