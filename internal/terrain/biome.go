package terrain

import (
	"mini-mc/internal/noise"
	"mini-mc/internal/voxel"
)

// Biome is a coarse climate classification influencing which materials
// surface and how the heightmap is adjusted.
type Biome int

const (
	Ocean Biome = iota
	Snow
	Mountain
	Forest
	Desert
	Plains
)

func (b Biome) String() string {
	switch b {
	case Ocean:
		return "OCEAN"
	case Snow:
		return "SNOW"
	case Mountain:
		return "MOUNTAIN"
	case Forest:
		return "FOREST"
	case Desert:
		return "DESERT"
	case Plains:
		return "PLAINS"
	default:
		return "UNKNOWN"
	}
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// columnClimate holds the per-column climate samples biome classification
// and the height adjustment pass both need, computed once in Step A/D.
type columnClimate struct {
	baseH         float32
	inlandFactor  float32
	mountainRange float32
	mountainNoise float32
	ridge         float32
	temp          float32
	moisture      float32
	climate       float32
}

// classifyBiome runs the Step D decision order against one column's
// climate samples.
func classifyBiome(p Params, c columnClimate) Biome {
	seaLevel := float32(p.SeaLevel)

	if c.baseH <= seaLevel {
		return Ocean
	}
	if c.baseH > seaLevel+28 {
		if c.temp < p.SnowTemperatureThreshold || c.baseH > seaLevel+60 {
			return Snow
		}
		return Mountain
	}
	if c.mountainRange > 0.58 && c.inlandFactor > 0.45 {
		if c.temp < p.SnowTemperatureThreshold || c.baseH > seaLevel+60 {
			return Snow
		}
		return Mountain
	}
	if c.climate < 0.18 {
		return Snow
	}
	if c.baseH > seaLevel+30 && c.temp < 0.45 {
		return Snow
	}
	if c.moisture > 0.9*p.ForestMoistureThreshold && c.climate < 0.65 {
		return Forest
	}
	if c.climate > 0.68 && c.moisture < p.DesertMoistureThreshold+0.05 {
		return Desert
	}
	return Plains
}

// sampleClimate computes the climate-classification inputs for one column:
// very-low-frequency temperature/moisture fields plus a small regional
// bias, sharpened into a single climate scalar. The patch frequency is
// derived from BiomeScaleChunks so biomes widen into larger contiguous
// regions as it grows, per spec.md's "read at generation" contract.
func sampleClimate(p Params, climateNoise, biasNoise *noise.Noise, worldX, worldZ float32) (temp, moisture, climate float32) {
	chunks := p.BiomeScaleChunks
	if chunks < 1 {
		chunks = 1
	}
	worldUnitsPerPatch := float32(chunks) * float32(voxel.Width) * 8
	freq := 1 / maxF32(256, worldUnitsPerPatch)

	temp = climateNoise.GetNoise2D(worldX*freq, worldZ*freq)*0.5 + 0.5
	moisture = climateNoise.GetNoise2D(worldX*freq+500, worldZ*freq+500)*0.5 + 0.5
	bias := biasNoise.GetNoise2D(worldX*freq*0.6, worldZ*freq*0.6)*0.5 + 0.5

	climate = clamp01(mix(temp, 1-moisture, 0.35)*0.7 + bias*0.3)
	climate = clamp01((climate-0.5)*1.6 + 0.5)
	return temp, moisture, climate
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

// majorityFilterBiomes applies the 3x3 majority filter in-place: a column
// is reclassified to the majority biome of its 3x3 neighborhood when that
// biome holds at least 5 of 9 votes. This never reaches across chunk
// borders, so isolated speckles are removed without coordinating with
// neighboring chunks.
func majorityFilterBiomes(biomes [][]Biome, width, depth int) [][]Biome {
	out := make([][]Biome, width)
	for x := range out {
		out[x] = make([]Biome, depth)
		copy(out[x], biomes[x])
	}

	var counts [int(Plains) + 1]int
	for x := 0; x < width; x++ {
		for z := 0; z < depth; z++ {
			for i := range counts {
				counts[i] = 0
			}
			for dx := -1; dx <= 1; dx++ {
				for dz := -1; dz <= 1; dz++ {
					nx, nz := x+dx, z+dz
					if nx < 0 || nx >= width || nz < 0 || nz >= depth {
						continue
					}
					counts[biomes[nx][nz]]++
				}
			}
			best := biomes[x][z]
			bestCount := 0
			for i, n := range counts {
				if n > bestCount {
					bestCount = n
					best = Biome(i)
				}
			}
			if bestCount >= 5 {
				out[x][z] = best
			}
		}
	}
	return out
}
