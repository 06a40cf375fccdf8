// Package meshing builds the interleaved vertex buffer a chunk contributes
// to the world's renderable surface: one quad per exposed block face,
// culled against AIR on all six sides including across chunk borders.
package meshing

import (
	"mini-mc/internal/chunk"
	"mini-mc/internal/profiling"
	"mini-mc/internal/voxel"
)

// vertexFloats is the stride of one vertex: position (3) + UV (2) +
// gradient input (1) + normal (3).
const vertexFloats = 9

// Face identifies one of the six directions a block face can point.
type Face int

const (
	FaceTop Face = iota
	FaceBottom
	FaceNorth
	FaceSouth
	FaceEast
	FaceWest
)

type corner struct{ dx, dy, dz float32 }

// faceCorners lists each face's four corners in counter-clockwise winding
// as seen from outside the cube, and its outward normal.
var faceCorners = map[Face]struct {
	corners [4]corner
	normal  [3]float32
}{
	FaceTop: {
		corners: [4]corner{{0, 1, 0}, {0, 1, 1}, {1, 1, 1}, {1, 1, 0}},
		normal:  [3]float32{0, 1, 0},
	},
	FaceBottom: {
		corners: [4]corner{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {0, 0, 1}},
		normal:  [3]float32{0, -1, 0},
	},
	FaceNorth: {
		corners: [4]corner{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1}},
		normal:  [3]float32{0, 0, 1},
	},
	FaceSouth: {
		corners: [4]corner{{1, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		normal:  [3]float32{0, 0, -1},
	},
	FaceEast: {
		corners: [4]corner{{1, 0, 1}, {1, 0, 0}, {1, 1, 0}, {1, 1, 1}},
		normal:  [3]float32{1, 0, 0},
	},
	FaceWest: {
		corners: [4]corner{{0, 0, 0}, {0, 0, 1}, {0, 1, 1}, {0, 1, 0}},
		normal:  [3]float32{-1, 0, 0},
	},
}

// cornerUV is the (u, v) fraction within one atlas tile for each of a
// face's four corners, matching the winding in faceCorners.
var cornerUV = [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

// MeshData is the CPU-side vertex buffer produced by BuildMeshData: a flat,
// non-indexed triangle list, vertexFloats floats per vertex.
type MeshData struct {
	Vertices []float32
}

// VertexCount reports how many vertices d holds.
func (d MeshData) VertexCount() int { return len(d.Vertices) / vertexFloats }

// MeshHandle is the renderer-facing result of UploadMesh. Since GPU upload
// is out of scope here, it is a thin wrapper that would back a vertex
// buffer object in a full renderer.
type MeshHandle struct {
	Data        MeshData
	VertexCount int
}

// BuildMeshData implements the chunk mesh builder: for every non-AIR voxel
// and every one of its six faces, a quad is emitted only if the
// corresponding neighbor cell is AIR. Horizontal neighbor lookups cross
// into the chunk's linked neighbor via Chunk.BlockAtFace; an absent
// neighbor (unlinked, or its weak reference has expired) reads as AIR, so
// the face is always drawn rather than silently dropped.
func BuildMeshData(c *chunk.Chunk) MeshData {
	defer profiling.Track("meshing.BuildMeshData")()

	originX, originZ := c.Origin()
	verts := make([]float32, 0, 1024)
	indices := c.Blocks().DecodeAll()
	entries := c.Palette().Entries()

	for x := 0; x < voxel.Width; x++ {
		for z := 0; z < voxel.Depth; z++ {
			for y := 0; y < voxel.Height; y++ {
				kind := voxel.Air
				if idx := indices[voxel.Index(x, y, z)]; int(idx) < len(entries) {
					kind = entries[idx]
				}
				if kind == voxel.Air {
					continue
				}
				neighbors := visibleFaces(c, x, y, z)
				for face := FaceTop; face <= FaceWest; face++ {
					if neighbors[face] != voxel.Air {
						continue
					}
					appendQuad(&verts, kind, face, float32(originX+x), float32(y), float32(originZ+z))
				}
			}
		}
	}

	return MeshData{Vertices: verts}
}

// UploadMesh wraps data into a MeshHandle. Implementations targeting a real
// renderer would upload Vertices to a GPU buffer here; BuildMeshData and
// UploadMesh are kept separate so that split remains possible, even though
// nothing prevents fusing them into one call.
func UploadMesh(data MeshData) MeshHandle {
	return MeshHandle{Data: data, VertexCount: data.VertexCount()}
}

// visibleFaces returns, for every face of the block at local (x, y, z), the
// block kind occupying the adjacent cell in that direction, indexed by Face.
func visibleFaces(c *chunk.Chunk, x, y, z int) [6]voxel.BlockKind {
	var out [6]voxel.BlockKind
	if y+1 >= voxel.Height {
		out[FaceTop] = voxel.Air
	} else {
		out[FaceTop] = c.GetBlock(x, y+1, z)
	}
	if y-1 < 0 {
		out[FaceBottom] = voxel.Air
	} else {
		out[FaceBottom] = c.GetBlock(x, y-1, z)
	}
	out[FaceNorth] = faceNeighbor(c, x, y, z, voxel.North)
	out[FaceSouth] = faceNeighbor(c, x, y, z, voxel.South)
	out[FaceEast] = faceNeighbor(c, x, y, z, voxel.East)
	out[FaceWest] = faceNeighbor(c, x, y, z, voxel.West)
	return out
}

func faceNeighbor(c *chunk.Chunk, x, y, z int, dir voxel.Direction) voxel.BlockKind {
	return c.BlockAtFace(x, y, z, dir)
}

// appendQuad writes one face's two triangles (six vertices) to verts.
// worldX, worldY, worldZ are the block's local-to-world-shifted origin;
// the face's corner offsets are added to place each vertex.
func appendQuad(verts *[]float32, kind voxel.BlockKind, face Face, worldX, worldY, worldZ float32) {
	info := faceCorners[face]
	u0, v0 := tileOffset(kind, textureFaceFor(face))
	const tileU, tileV = 1.0 / AtlasCols, 1.0 / AtlasRows

	var quad [4][vertexFloats]float32
	for i, c := range info.corners {
		px := worldX + c.dx
		py := worldY + c.dy
		pz := worldZ + c.dz
		u := u0 + cornerUV[i][0]*tileU
		v := v0 + cornerUV[i][1]*tileV
		quad[i] = [vertexFloats]float32{
			px, py, pz,
			u, v,
			py,
			info.normal[0], info.normal[1], info.normal[2],
		}
	}

	order := [6]int{0, 1, 2, 0, 2, 3}
	for _, idx := range order {
		*verts = append(*verts, quad[idx][:]...)
	}
}
