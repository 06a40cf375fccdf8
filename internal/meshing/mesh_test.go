package meshing

import (
	"testing"

	"mini-mc/internal/bitpack"
	"mini-mc/internal/chunk"
	"mini-mc/internal/palette"
	"mini-mc/internal/voxel"
)

func newChunkWithBlocks(t *testing.T, pos voxel.ChunkPos, set func(blocks []voxel.BlockKind)) *chunk.Chunk {
	t.Helper()
	blocks := make([]voxel.BlockKind, voxel.CellCount)
	set(blocks)
	arr, entries, _, err := bitpack.EncodeAll(blocks, voxel.PaletteBits)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	return chunk.New(pos, palette.FromEntries(entries), arr)
}

func TestBuildMeshDataSingleBlockEmitsSixFaces(t *testing.T) {
	c := newChunkWithBlocks(t, voxel.ChunkPos{X: 0, Z: 0}, func(blocks []voxel.BlockKind) {
		blocks[voxel.Index(8, 8, 8)] = voxel.Stone
	})

	data := BuildMeshData(c)
	if got, want := data.VertexCount(), 6*6; got != want {
		t.Fatalf("VertexCount() = %d, want %d (6 faces x 6 vertices)", got, want)
	}
}

func TestBuildMeshDataCullsBetweenAdjacentSolidBlocks(t *testing.T) {
	c := newChunkWithBlocks(t, voxel.ChunkPos{X: 0, Z: 0}, func(blocks []voxel.BlockKind) {
		blocks[voxel.Index(8, 8, 8)] = voxel.Stone
		blocks[voxel.Index(8, 9, 8)] = voxel.Stone
	})

	data := BuildMeshData(c)
	// Each block now has only 5 exposed faces (their shared top/bottom face
	// is culled), for 10 faces total.
	if got, want := data.VertexCount(), 10*6; got != want {
		t.Fatalf("VertexCount() = %d, want %d", got, want)
	}
}

func TestBuildMeshDataDrawsFaceWhenNeighborChunkUnlinked(t *testing.T) {
	c := newChunkWithBlocks(t, voxel.ChunkPos{X: 0, Z: 0}, func(blocks []voxel.BlockKind) {
		blocks[voxel.Index(0, 8, 8)] = voxel.Stone
	})

	data := BuildMeshData(c)
	if got, want := data.VertexCount(), 6*6; got != want {
		t.Fatalf("VertexCount() with no linked West neighbor = %d, want %d (face always drawn)", got, want)
	}
}

func TestBuildMeshDataCullsAcrossLinkedNeighborChunk(t *testing.T) {
	a := newChunkWithBlocks(t, voxel.ChunkPos{X: 0, Z: 0}, func(blocks []voxel.BlockKind) {
		blocks[voxel.Index(0, 8, 8)] = voxel.Stone
	})
	b := newChunkWithBlocks(t, voxel.ChunkPos{X: -1, Z: 0}, func(blocks []voxel.BlockKind) {
		blocks[voxel.Index(voxel.Width-1, 8, 8)] = voxel.Stone
	})
	a.SetAdjacentChunk(voxel.West, b)

	data := BuildMeshData(a)
	if got, want := data.VertexCount(), 5*6; got != want {
		t.Fatalf("VertexCount() with solid West neighbor = %d, want %d (West face culled)", got, want)
	}
}

func TestUploadMeshWrapsVertexCount(t *testing.T) {
	data := MeshData{Vertices: make([]float32, vertexFloats*6)}
	handle := UploadMesh(data)
	if handle.VertexCount != 6 {
		t.Fatalf("UploadMesh VertexCount = %d, want 6", handle.VertexCount)
	}
}

func TestTileOffsetGrassFacesDiffer(t *testing.T) {
	topU, _ := tileOffset(voxel.Grass, faceTop)
	sideU, _ := tileOffset(voxel.Grass, faceSide)
	bottomU, _ := tileOffset(voxel.Grass, faceBottom)
	dirtU, _ := tileOffset(voxel.Dirt, faceTop)

	if topU == sideU || topU == bottomU {
		t.Fatalf("expected GRASS top tile to differ from its side/bottom tiles")
	}
	if bottomU != dirtU {
		t.Fatalf("expected GRASS bottom tile to match DIRT's tile, got %v != %v", bottomU, dirtU)
	}
}

func TestTileOffsetUnknownKindFallsBackToStone(t *testing.T) {
	u, _ := tileOffset(voxel.Air, faceSide)
	stoneU, _ := tileOffset(voxel.Stone, faceSide)
	if u != stoneU {
		t.Fatalf("expected unmapped kind to fall back to STONE's tile")
	}
}
