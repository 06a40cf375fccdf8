package terrain

import (
	"mini-mc/internal/bitpack"
	"mini-mc/internal/chunk"
	"mini-mc/internal/config"
	"mini-mc/internal/palette"
	"mini-mc/internal/profiling"
	"mini-mc/internal/voxel"
)

// Generate runs the full terrain pipeline (Steps A-H) for chunk position
// pos and returns a fully populated Chunk. It is safe to call
// concurrently from multiple generation workers: Params is read-only and
// every noise sampler is pure.
func Generate(pos voxel.ChunkPos, p Params) (*chunk.Chunk, error) {
	defer profiling.Track("terrain.Generate")()

	f := newFields(p.Seed)

	var heights, rawBaseH, inlandFactors, hillsVals [voxel.Width][voxel.Depth]float32
	var biomes [voxel.Width][voxel.Depth]Biome

	for x := 0; x < voxel.Width; x++ {
		for z := 0; z < voxel.Depth; z++ {
			worldX := float32(pos.X*voxel.Width + x)
			worldZ := float32(pos.Z*voxel.Depth + z)

			h, inland, _, hills := heightAt(f, p, worldX, worldZ)
			heights[x][z] = h
			rawBaseH[x][z] = h
			inlandFactors[x][z] = inland
			hillsVals[x][z] = hills
		}
	}

	heightRows := toRows(&heights)
	shoreSmooth(heightRows, p)
	singlePassSmooth(heightRows)

	var temps, moistures [voxel.Width][voxel.Depth]float32
	var mountainRanges, mountainNoises, ridges [voxel.Width][voxel.Depth]float32

	for x := 0; x < voxel.Width; x++ {
		for z := 0; z < voxel.Depth; z++ {
			worldX := float32(pos.X*voxel.Width + x)
			worldZ := float32(pos.Z*voxel.Depth + z)

			temp, moisture, climate := sampleClimate(p, f.climate.n, f.bias.n, worldX, worldZ)
			temps[x][z] = temp
			moistures[x][z] = moisture

			mountainRange := clamp01(f.mountain.fbm(worldX*0.0022, worldZ*0.0022, 5, 2.0, 0.5)*0.5 + 0.5)
			mountainNoise := f.erosion.fbm(worldX*0.006, worldZ*0.006, 4, 2.0, 0.5)
			ridge := f.ridge.fbm(worldX*0.08, worldZ*0.08, 3, 2.0, 0.5)
			mountainRanges[x][z] = mountainRange
			mountainNoises[x][z] = mountainNoise
			ridges[x][z] = ridge

			cc := columnClimate{
				baseH:         rawBaseH[x][z],
				inlandFactor:  inlandFactors[x][z],
				mountainRange: mountainRange,
				mountainNoise: mountainNoise,
				ridge:         ridge,
				temp:          temp,
				moisture:      moisture,
				climate:       climate,
			}
			biomes[x][z] = classifyBiome(p, cc)
		}
	}

	biomeRows := majorityFilterBiomes(toBiomeRows(&biomes), voxel.Width, voxel.Depth)

	blocks := make([]voxel.BlockKind, voxel.CellCount)

	for x := 0; x < voxel.Width; x++ {
		for z := 0; z < voxel.Depth; z++ {
			biome := biomeRows[x][z]
			height := heightRows[x][z]

			// Step E: height adjustments by biome.
			switch biome {
			case Mountain:
				amp := smoothstep(0.45, 1, mountainRanges[x][z]) * smoothstep(0.15, 1, mountainNoises[x][z])
				ridgeAmp := smoothstep(0.4, 1, ridges[x][z])
				height += amp * 60 * p.MountainBoost * (0.7 + 0.6*ridgeAmp)
			case Desert:
				height -= 6
			}

			surfaceY := int(height + 0.5)
			if surfaceY < 1 {
				surfaceY = 1
			}
			if surfaceY > voxel.Height-20 {
				surfaceY = voxel.Height - 20
			}

			slope := slopeAt(heightRows, x, z)
			cliff := isCliff(p, slope, surfaceY, hillsVals[x][z], inlandFactors[x][z])
			tf := chooseTopFill(p, biome, surfaceY, cliff, moistures[x][z])

			fillColumn(blocks, p, x, z, surfaceY, tf)
		}
	}

	if config.GetCavesEnabled() {
		carveCaves(blocks, pos, p.Seed, f.cave.n)
	}

	arr, paletteEntries, _, err := bitpack.EncodeAll(blocks, voxel.PaletteBits)
	if err != nil {
		return nil, err
	}
	return chunk.New(pos, palette.FromEntries(paletteEntries), arr), nil
}

func toRows(a *[voxel.Width][voxel.Depth]float32) [][]float32 {
	rows := make([][]float32, voxel.Width)
	for x := range rows {
		rows[x] = a[x][:]
	}
	return rows
}

func toBiomeRows(a *[voxel.Width][voxel.Depth]Biome) [][]Biome {
	rows := make([][]Biome, voxel.Width)
	for x := range rows {
		rows[x] = a[x][:]
	}
	return rows
}
