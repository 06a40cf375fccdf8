package meshing

import "mini-mc/internal/voxel"

// AtlasCols and AtlasRows describe the block texture atlas's grid layout.
// Every tile is the same size; a face's UV offset is its (col, row) scaled
// by (1/AtlasCols, 1/AtlasRows).
const (
	AtlasCols = 7
	AtlasRows = 1
)

// textureFace collapses the six geometric faces down to the three texture
// roles a block definition can vary by: top, bottom, and the four sides
// (which always share one tile).
type textureFace int

const (
	faceTop textureFace = iota
	faceBottom
	faceSide
)

// tileSet names the atlas column used for each texture role of one block
// kind. Kinds with a single uniform texture repeat the same column in all
// three fields.
type tileSet struct {
	top, side, bottom float32
}

// tiles grounds GRASS's distinct top/side/bottom look, and everything
// else's single uniform tile, in seven atlas columns. BEDROCK has no
// dedicated column in this layout and reuses STONE's, since it never
// appears above the world floor.
var tiles = map[voxel.BlockKind]tileSet{
	voxel.Grass:   {top: 0, side: 1, bottom: 2},
	voxel.Dirt:    {top: 2, side: 2, bottom: 2},
	voxel.Stone:   {top: 3, side: 3, bottom: 3},
	voxel.Sand:    {top: 4, side: 4, bottom: 4},
	voxel.Snow:    {top: 5, side: 5, bottom: 5},
	voxel.Water:   {top: 6, side: 6, bottom: 6},
	voxel.Bedrock: {top: 3, side: 3, bottom: 3},
}

// tileOffset returns the (u, v) origin of kind's tile for the given
// texture role, in normalized [0,1) atlas coordinates.
func tileOffset(kind voxel.BlockKind, tf textureFace) (u, v float32) {
	set, ok := tiles[kind]
	if !ok {
		set = tiles[voxel.Stone]
	}
	var col float32
	switch tf {
	case faceTop:
		col = set.top
	case faceBottom:
		col = set.bottom
	default:
		col = set.side
	}
	return col / AtlasCols, 0
}

// textureFaceFor maps a geometric face to the texture role it samples.
func textureFaceFor(f Face) textureFace {
	switch f {
	case FaceTop:
		return faceTop
	case FaceBottom:
		return faceBottom
	default:
		return faceSide
	}
}
