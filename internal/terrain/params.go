// Package terrain implements the chunk generation pipeline: column height,
// shore smoothing, biome classification, material selection, and cave
// carving, driven by a flat TerrainGenerationParams record.
package terrain

// Params is the flat record of generation tunables. It is read-only once
// handed to a generator run: generation workers never mutate it, so the
// same Params value can be shared across concurrently running tasks.
type Params struct {
	Seed int32

	SeaLevel     int
	BedrockLevel int

	RiverThreshold float32
	RiverStrength  float32

	MountainBoost float32
	PVBoost       float32

	SmoothingStrength float32

	CliffSlopeThreshold float32
	MinCliffElevation   int

	ShoreSmoothRadius   int
	ShoreSlopeFactor    float32
	ShoreSmoothStrength float32

	BiomeScaleChunks          int
	SnowTemperatureThreshold  float32
	ForestMoistureThreshold   float32
	DesertMoistureThreshold   float32

	// GenSize/Downsample only matter to the biome-map dump utility, not
	// to chunk generation itself.
	GenSize    int
	Downsample int
}

// DefaultParams returns the tunables used when nothing overrides them,
// matching the values the original engine shipped with.
func DefaultParams() Params {
	return Params{
		Seed: 1337,

		SeaLevel:     62,
		BedrockLevel: 0,

		RiverThreshold: 0.005,
		RiverStrength:  0.25,

		MountainBoost: 1.6,
		PVBoost:       1.8,

		SmoothingStrength: 0.25,

		CliffSlopeThreshold: 1.6,
		MinCliffElevation:   24,

		ShoreSmoothRadius:   10,
		ShoreSlopeFactor:    1.5,
		ShoreSmoothStrength: 0.9,

		BiomeScaleChunks:         4,
		SnowTemperatureThreshold: 0.25,
		ForestMoistureThreshold:  0.55,
		DesertMoistureThreshold:  0.2,

		GenSize:    1000,
		Downsample: 16,
	}
}
