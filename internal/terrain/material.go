package terrain

import "mini-mc/internal/voxel"

// topFill is the (top, fill) material pair surfacing a column, chosen by
// Step F from biome, wetness, cliff state, and elevation.
type topFill struct {
	top, fill voxel.BlockKind
}

// chooseTopFill implements the (top, fill) decision table from Step F.
func chooseTopFill(p Params, biome Biome, surfaceY int, cliff bool, moisture float32) topFill {
	seaLevel := p.SeaLevel

	underwater := surfaceY <= seaLevel
	if underwater {
		return topFill{voxel.Sand, voxel.Sand}
	}

	var tf topFill
	switch {
	case cliff || biome == Mountain:
		if surfaceY > seaLevel+80 || biome == Snow {
			tf = topFill{voxel.Snow, voxel.Stone}
		} else {
			tf = topFill{voxel.Stone, voxel.Stone}
		}
	default:
		switch biome {
		case Desert:
			tf = topFill{voxel.Sand, voxel.Sand}
		case Forest:
			tf = topFill{voxel.Grass, voxel.Dirt}
		case Snow:
			tf = topFill{voxel.Snow, voxel.Stone}
		case Plains:
			if moisture < 0.25 {
				tf = topFill{voxel.Sand, voxel.Sand}
			} else {
				tf = topFill{voxel.Grass, voxel.Dirt}
			}
		default:
			tf = topFill{voxel.Grass, voxel.Dirt}
		}
	}

	if biome == Desert {
		tf = topFill{voxel.Sand, voxel.Sand}
	}
	if surfaceY > seaLevel+110 {
		tf = topFill{voxel.Snow, voxel.Stone}
	}
	return tf
}

// isCliff implements Step F's cliff predicate.
func isCliff(p Params, slope float32, surfaceY int, hills, inlandFactor float32) bool {
	return slope > p.CliffSlopeThreshold &&
		surfaceY > p.SeaLevel+p.MinCliffElevation &&
		hills > 0.55 &&
		inlandFactor > -0.1
}

// slopeAt computes local slope from central differences of the smoothed
// heightmap; edge columns fall back to a one-sided difference.
func slopeAt(heights [][]float32, x, z int) float32 {
	width, depth := len(heights), len(heights[0])

	left, right := heights[x][z], heights[x][z]
	if x > 0 {
		left = heights[x-1][z]
	}
	if x < width-1 {
		right = heights[x+1][z]
	}
	dx := (right - left) / 2

	back, front := heights[x][z], heights[x][z]
	if z > 0 {
		back = heights[x][z-1]
	}
	if z < depth-1 {
		front = heights[x][z+1]
	}
	dz := (front - back) / 2

	return absF32(dx) + absF32(dz)
}

// fillColumn writes the Step F material column for local (x, z) into blocks.
func fillColumn(blocks []voxel.BlockKind, p Params, x, z, surfaceY int, tf topFill) {
	seaLevel := p.SeaLevel
	fillFrom := surfaceY - 4
	if fillFrom < p.BedrockLevel+1 {
		fillFrom = p.BedrockLevel + 1
	}

	waterTop := surfaceY
	if seaLevel > waterTop {
		waterTop = seaLevel
	}

	for y := 0; y < voxel.Height; y++ {
		var kind voxel.BlockKind
		switch {
		case y <= p.BedrockLevel:
			kind = voxel.Bedrock
		case y < fillFrom:
			kind = voxel.Stone
		case y < surfaceY:
			kind = tf.fill
		case y == surfaceY:
			kind = tf.top
		case y <= seaLevel:
			kind = voxel.Water
		case y > waterTop:
			kind = voxel.Air
		default:
			kind = voxel.Air
		}
		blocks[voxel.Index(x, y, z)] = kind
	}
}
