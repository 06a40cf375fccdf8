package region

import (
	"testing"

	"mini-mc/internal/voxel"
)

func TestStoreSaveLoadAcrossRegions(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	positions := []voxel.ChunkPos{{X: 0, Z: 0}, {X: 40, Z: -5}, {X: -40, Z: 40}}
	for _, pos := range positions {
		c := newTestChunk(t, pos, voxel.Grass)
		if err := store.Save(c); err != nil {
			t.Fatalf("Save(%v): %v", pos, err)
		}
	}

	for _, pos := range positions {
		loaded, ok, err := store.Load(pos)
		if err != nil {
			t.Fatalf("Load(%v): %v", pos, err)
		}
		if !ok {
			t.Fatalf("Load(%v) ok=false, want true", pos)
		}
		if got := loaded.GetBlock(1, 1, 1); got != voxel.Grass {
			t.Errorf("Load(%v) GetBlock = %v, want GRASS", pos, got)
		}
	}
}

func TestStoreLoadUnsavedReturnsFalseNoError(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Load(voxel.ChunkPos{X: 3, Z: 3})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for never-saved chunk")
	}
}
