package terrain

import (
	"math"
)

// CPU implementation of the 3D simplex noise used by the compute kernel.
// This is the Stefan-Gustavson-style arithmetic formulation (the
// permutation polynomial variant, no lookup tables), kept line-for-line
// parallel with the GLSL in shader.go. The two are not bit-identical —
// the GPU evaluates in float32 — but they agree to visual equivalence,
// which is what the Floating oracle fallback and the tests need.

func floorf(x float64) float64 { return math.Floor(x) }

func mod289(x float64) float64 {
	return x - floorf(x*(1.0/289.0))*289.0
}

func permute(x float64) float64 {
	return mod289(((x * 34.0) + 1.0) * x)
}

func taylorInvSqrt(r float64) float64 {
	return 1.79284291400159 - 0.85373472095314*r
}

func stepf(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// Simplex3D evaluates 3D simplex noise at (x, y, z). Output is smooth,
// deterministic, and roughly within [-1, 1].
func Simplex3D(vx, vy, vz float64) float64 {
	const cx = 1.0 / 6.0
	const cy = 1.0 / 3.0

	// Skew to simplex cell space
	s := (vx + vy + vz) * cy
	ix := floorf(vx + s)
	iy := floorf(vy + s)
	iz := floorf(vz + s)

	t := (ix + iy + iz) * cx
	x0 := vx - ix + t
	y0 := vy - iy + t
	z0 := vz - iz + t

	// Rank the components to pick the simplex corner traversal order
	gx := stepf(y0, x0)
	gy := stepf(z0, y0)
	gz := stepf(x0, z0)
	lx := 1.0 - gx
	ly := 1.0 - gy
	lz := 1.0 - gz

	i1x := math.Min(gx, lz)
	i1y := math.Min(gy, lx)
	i1z := math.Min(gz, ly)
	i2x := math.Max(gx, lz)
	i2y := math.Max(gy, lx)
	i2z := math.Max(gz, ly)

	x1 := x0 - i1x + cx
	y1 := y0 - i1y + cx
	z1 := z0 - i1z + cx
	x2 := x0 - i2x + cy
	y2 := y0 - i2y + cy
	z2 := z0 - i2z + cy
	x3 := x0 - 0.5
	y3 := y0 - 0.5
	z3 := z0 - 0.5

	// Permutation-polynomial hash of the four corners
	ix = mod289(ix)
	iy = mod289(iy)
	iz = mod289(iz)

	p0 := permute(permute(permute(iz)+iy) + ix)
	p1 := permute(permute(permute(iz+i1z)+iy+i1y) + ix + i1x)
	p2 := permute(permute(permute(iz+i2z)+iy+i2y) + ix + i2x)
	p3 := permute(permute(permute(iz+1.0)+iy+1.0) + ix + 1.0)

	// Gradients: 7x7 points over a square mapped onto an octahedron
	g0x, g0y, g0z := gradient(p0)
	g1x, g1y, g1z := gradient(p1)
	g2x, g2y, g2z := gradient(p2)
	g3x, g3y, g3z := gradient(p3)

	// Normalize gradients
	n0 := taylorInvSqrt(g0x*g0x + g0y*g0y + g0z*g0z)
	n1 := taylorInvSqrt(g1x*g1x + g1y*g1y + g1z*g1z)
	n2 := taylorInvSqrt(g2x*g2x + g2y*g2y + g2z*g2z)
	n3 := taylorInvSqrt(g3x*g3x + g3y*g3y + g3z*g3z)
	g0x, g0y, g0z = g0x*n0, g0y*n0, g0z*n0
	g1x, g1y, g1z = g1x*n1, g1y*n1, g1z*n1
	g2x, g2y, g2z = g2x*n2, g2y*n2, g2z*n2
	g3x, g3y, g3z = g3x*n3, g3y*n3, g3z*n3

	// Radial falloff per corner
	m0 := math.Max(0.6-(x0*x0+y0*y0+z0*z0), 0.0)
	m1 := math.Max(0.6-(x1*x1+y1*y1+z1*z1), 0.0)
	m2 := math.Max(0.6-(x2*x2+y2*y2+z2*z2), 0.0)
	m3 := math.Max(0.6-(x3*x3+y3*y3+z3*z3), 0.0)
	m0 *= m0
	m1 *= m1
	m2 *= m2
	m3 *= m3

	return 42.0 * (m0*m0*(g0x*x0+g0y*y0+g0z*z0) +
		m1*m1*(g1x*x1+g1y*y1+g1z*z1) +
		m2*m2*(g2x*x2+g2y*y2+g2z*z2) +
		m3*m3*(g3x*x3+g3y*y3+g3z*z3))
}

// gradient maps a hashed corner value onto one of the octahedron
// directions, entirely arithmetically
func gradient(p float64) (float64, float64, float64) {
	const n = 0.142857142857 // 1/7
	const off = 0.5*n - 1.0  // half-texel offset keeps gradients off zero

	j := p - 49.0*floorf(p*n*n)

	gx := floorf(j * n)
	gy := floorf(j - 7.0*gx)

	x := gx*n*2.0 + off
	y := gy*n*2.0 + off
	h := 1.0 - math.Abs(x) - math.Abs(y)

	// Fold points outside the octahedron back onto it; sh is -1 on the
	// folded half, 0 otherwise
	sx := 2.0*floorf(x) + 1.0
	sy := 2.0*floorf(y) + 1.0
	sh := -stepf(0.0, -h)

	x += sx * sh
	y += sy * sh

	return x, y, h
}
