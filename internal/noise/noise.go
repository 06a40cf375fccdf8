// Package noise implements deterministic gradient noise with fractal
// Brownian motion, seeded so that repeated calls with the same (seed,
// coordinates) always agree.
package noise

import "math"

// Noise is a pure gradient-noise sampler. The sampling methods never mutate
// n, so they are safe to call concurrently from multiple generation
// workers; SetFrequency does mutate n and is not synchronized with them.
type Noise struct {
	seed      uint32
	frequency float32
}

// New returns a noise sampler seeded by seed, with frequency 1.
func New(seed uint32) *Noise {
	return &Noise{seed: seed, frequency: 1}
}

// SetFrequency changes the frequency multiplier applied before sampling.
func (n *Noise) SetFrequency(f float32) { n.frequency = f }

// gradient2D derives a unit 2D gradient vector from lattice point (ix, iy)
// and the seed by an integer hash that yields an angle in [0, 2pi). This is
// the angle-construction approach: rather than indexing a fixed gradient
// table, the angle itself is hashed, so any integer lattice coordinate is
// supported without a precomputed table.
func (n *Noise) gradient2D(ix, iy int32) (float32, float32) {
	const w = 32
	const s = w / 2
	a := uint32(ix) + n.seed
	b := uint32(iy) + n.seed*31

	a *= 3284157443
	b ^= (a << s) | (a >> (w - s))
	b *= 1911520717
	a ^= (b << s) | (b >> (w - s))
	a *= 2048419325

	angle := float32(a) * (math.Pi / float32(1<<31))
	return float32(math.Sin(float64(angle))), float32(math.Cos(float64(angle)))
}

// gradient3D derives a unit 3D gradient vector from lattice point
// (ix, iy, iz) and the seed, extending gradient2D's angle-hash approach
// with a second hashed angle so the result ranges over the full sphere
// rather than a single great circle.
func (n *Noise) gradient3D(ix, iy, iz int32) (float32, float32, float32) {
	const w = 32
	const s = w / 2
	a := uint32(ix) + n.seed
	b := uint32(iy) + n.seed*31
	c := uint32(iz) + n.seed*131

	a *= 3284157443
	b ^= (a << s) | (a >> (w - s))
	b *= 1911520717
	c ^= (b << s) | (b >> (w - s))
	c *= 2654435761
	a ^= (c << s) | (c >> (w - s))
	a *= 2048419325

	theta := float32(a) * (math.Pi / float32(1<<31))
	phi := float32(c) * (math.Pi / float32(1<<32))

	sinPhi, cosPhi := math.Sincos(float64(phi))
	sinTheta, cosTheta := math.Sincos(float64(theta))
	return float32(sinPhi * cosTheta), float32(cosPhi), float32(sinPhi * sinTheta)
}

func dotGridGradient2D(n *Noise, ix, iy int32, x, y float32) float32 {
	gx, gy := n.gradient2D(ix, iy)
	dx := x - float32(ix)
	dy := y - float32(iy)
	return dx*gx + dy*gy
}

func dotGridGradient3D(n *Noise, ix, iy, iz int32, x, y, z float32) float32 {
	gx, gy, gz := n.gradient3D(ix, iy, iz)
	dx := x - float32(ix)
	dy := y - float32(iy)
	dz := z - float32(iz)
	return dx*gx + dy*gy + dz*gz
}

// interpolate is the smoothstep-weighted lerp used throughout: the cubic
// ease 3w^2-2w^3 applied via direct formula.
func interpolate(a0, a1, w float32) float32 {
	return (a1-a0)*(3.0-w*2.0)*w*w + a0
}

// Perlin2D samples classic grid-gradient noise at (x, y), returning a value
// in roughly [-1, 1].
func (n *Noise) Perlin2D(x, y float32) float32 {
	x *= n.frequency
	y *= n.frequency

	x0 := int32(math.Floor(float64(x)))
	y0 := int32(math.Floor(float64(y)))
	x1 := x0 + 1
	y1 := y0 + 1

	sx := x - float32(x0)
	sy := y - float32(y0)

	n0 := dotGridGradient2D(n, x0, y0, x, y)
	n1 := dotGridGradient2D(n, x1, y0, x, y)
	ix0 := interpolate(n0, n1, sx)

	n0 = dotGridGradient2D(n, x0, y1, x, y)
	n1 = dotGridGradient2D(n, x1, y1, x, y)
	ix1 := interpolate(n0, n1, sx)

	return interpolate(ix0, ix1, sy)
}

// Perlin3D samples grid-gradient noise at (x, y, z), the 3D variant used by
// cave carving's density field. Returns a value in roughly [-1, 1].
func (n *Noise) Perlin3D(x, y, z float32) float32 {
	x *= n.frequency
	y *= n.frequency
	z *= n.frequency

	x0 := int32(math.Floor(float64(x)))
	y0 := int32(math.Floor(float64(y)))
	z0 := int32(math.Floor(float64(z)))
	x1, y1, z1 := x0+1, y0+1, z0+1

	sx := x - float32(x0)
	sy := y - float32(y0)
	sz := z - float32(z0)

	lerpXFace := func(iy, iz int32) float32 {
		n0 := dotGridGradient3D(n, x0, iy, iz, x, y, z)
		n1 := dotGridGradient3D(n, x1, iy, iz, x, y, z)
		return interpolate(n0, n1, sx)
	}

	ix00 := lerpXFace(y0, z0)
	ix10 := lerpXFace(y1, z0)
	ix01 := lerpXFace(y0, z1)
	ix11 := lerpXFace(y1, z1)

	iy0 := interpolate(ix00, ix10, sy)
	iy1 := interpolate(ix01, ix11, sy)

	return interpolate(iy0, iy1, sz)
}

// FractalBrownianMotion2D sums octaves of Perlin2D noise, each at lacunarity
// times the frequency and persistence times the amplitude of the last,
// normalized so the result stays in roughly [-1, 1].
func (n *Noise) FractalBrownianMotion2D(x, y float32, octaves int, lacunarity, persistence float32) float32 {
	var total, amplitude, frequency, maxValue float32 = 0, 1, 1, 0
	for i := 0; i < octaves; i++ {
		total += n.Perlin2D(x*frequency, y*frequency) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}

// GetNoise2D samples one octave of the underlying 2D noise.
func (n *Noise) GetNoise2D(x, y float32) float32 {
	return n.Perlin2D(x, y)
}

// GetNoise3D samples one octave of the underlying 3D noise, used by cave
// carving to rotate each worm's walking direction.
func (n *Noise) GetNoise3D(x, y, z float32) float32 {
	return n.Perlin3D(x, y, z)
}
