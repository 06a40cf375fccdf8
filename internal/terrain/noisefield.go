package terrain

import "mini-mc/internal/noise"

// noiseField pairs a Noise sampler with the sampling Step A/E draws from
// it, either one raw octave or a fractal sum of several; each field in the
// `fields` bundle is independently seeded so the inputs are uncorrelated.
type noiseField struct {
	n *noise.Noise
}

func newField(seed int32, offset uint32) *noiseField {
	return &noiseField{n: noise.New(uint32(seed) + offset)}
}

// sample draws one raw octave, used by the warp offsets and river field
// which the original generator also samples single-octave.
func (f *noiseField) sample(x, y float32) float32 {
	return f.n.GetNoise2D(x, y)
}

// fbm layers octaves octaves of this field at frequency*lacunarity^i and
// amplitude persistence^i, matching the original generator's fractal
// Brownian motion sampling for continent, hills, erosion, weirdness,
// mountain, ridge, and detail noise.
func (f *noiseField) fbm(x, y float32, octaves int, lacunarity, persistence float32) float32 {
	return f.n.FractalBrownianMotion2D(x, y, octaves, lacunarity, persistence)
}

// newFields constructs the full Step A/D noise bundle for a generation
// run, each field offset by a distinct constant so seed+k fields are
// uncorrelated per spec.
func newFields(seed int32) *fields {
	return &fields{
		continent: newField(seed, 1),
		hills:     newField(seed, 2),
		erosion:   newField(seed, 3),
		weirdness: newField(seed, 4),
		warpX:     newField(seed, 5),
		warpZ:     newField(seed, 6),
		river:     newField(seed, 7),
		detail:    newField(seed, 8),
		fine:      newField(seed, 9),
		ridge:     newField(seed, 10),
		mountain:  newField(seed, 11),
		climate:   newField(seed, 12),
		bias:      newField(seed, 13),
		cave:      newField(seed, 14),
	}
}
