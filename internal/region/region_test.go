package region

import (
	"errors"
	"path/filepath"
	"testing"

	"mini-mc/internal/bitpack"
	"mini-mc/internal/chunk"
	"mini-mc/internal/palette"
	"mini-mc/internal/voxel"
	"mini-mc/internal/voxelerr"
)

func newTestChunk(t *testing.T, pos voxel.ChunkPos, fill voxel.BlockKind) *chunk.Chunk {
	t.Helper()
	blocks := make([]voxel.BlockKind, voxel.CellCount)
	for i := range blocks {
		blocks[i] = fill
	}
	arr, entries, _, err := bitpack.EncodeAll(blocks, voxel.PaletteBits)
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	return chunk.New(pos, palette.FromEntries(entries), arr)
}

func TestCoordMapsLocalIndices(t *testing.T) {
	cases := []struct {
		pos                    voxel.ChunkPos
		wantRX, wantRZ         int
		wantLocalX, wantLocalZ int
	}{
		{voxel.ChunkPos{X: 0, Z: 0}, 0, 0, 0, 0},
		{voxel.ChunkPos{X: 31, Z: 31}, 0, 0, 31, 31},
		{voxel.ChunkPos{X: 32, Z: 0}, 1, 0, 0, 0},
		{voxel.ChunkPos{X: -1, Z: -1}, -1, -1, 31, 31},
	}
	for _, c := range cases {
		rx, rz, lx, lz := Coord(c.pos)
		if rx != c.wantRX || rz != c.wantRZ || lx != c.wantLocalX || lz != c.wantLocalZ {
			t.Errorf("Coord(%v) = (%d,%d,%d,%d), want (%d,%d,%d,%d)", c.pos, rx, rz, lx, lz, c.wantRX, c.wantRZ, c.wantLocalX, c.wantLocalZ)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.rgn")
	f, err := Open(path, 0, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	pos := voxel.ChunkPos{X: 5, Z: 9}
	original := newTestChunk(t, pos, voxel.Stone)
	if err := f.SaveChunk(original); err != nil {
		t.Fatalf("SaveChunk: %v", err)
	}
	if original.Mutated() {
		t.Error("SaveChunk did not clear mutated flag")
	}

	loaded, err := f.LoadChunk(pos)
	if err != nil {
		t.Fatalf("LoadChunk: %v", err)
	}
	if got := loaded.GetBlock(3, 3, 3); got != voxel.Stone {
		t.Errorf("loaded GetBlock = %v, want STONE", got)
	}
}

func TestLoadMissingSlotReturnsErrNotLoaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.rgn")
	f, err := Open(path, 0, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	_, err = f.LoadChunk(voxel.ChunkPos{X: 1, Z: 1})
	if err == nil {
		t.Fatal("expected error for unsaved slot")
	}
	if !errors.Is(err, voxelerr.ErrNotLoaded) {
		t.Errorf("expected ErrNotLoaded, got %v", err)
	}
}

func TestSaveChunkWrongRegionRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.rgn")
	f, err := Open(path, 0, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	c := newTestChunk(t, voxel.ChunkPos{X: 40, Z: 0}, voxel.Dirt)
	if err := f.SaveChunk(c); err == nil {
		t.Fatal("expected error saving a chunk outside this region file")
	}
}

func TestReopenPersistsDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.rgn")

	f, err := Open(path, 0, 0)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	pos := voxel.ChunkPos{X: 2, Z: 2}
	c := newTestChunk(t, pos, voxel.Sand)
	if err := f.SaveChunk(c); err != nil {
		t.Fatalf("SaveChunk: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(path, 0, 0)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if !reopened.Has(pos) {
		t.Fatal("expected reopened region to report the saved chunk present")
	}
	loaded, err := reopened.LoadChunk(pos)
	if err != nil {
		t.Fatalf("LoadChunk after reopen: %v", err)
	}
	if got := loaded.GetBlock(0, 0, 0); got != voxel.Sand {
		t.Errorf("reloaded GetBlock = %v, want SAND", got)
	}
}
