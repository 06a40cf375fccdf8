package streamer

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mini-mc/internal/config"
	"mini-mc/internal/region"
	"mini-mc/internal/terrain"
	"mini-mc/internal/voxel"
)

// drainPoll repeatedly calls Poll until the expected count of chunks are
// loaded or the deadline passes, since generation happens on background
// workers at an unspecified pace.
func drainPoll(t *testing.T, s *Streamer, want int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for s.Len() < want && time.Now().Before(deadline) {
		s.Poll()
		time.Sleep(time.Millisecond)
	}
	if s.Len() < want {
		t.Fatalf("Len() = %d after %v, want >= %d", s.Len(), timeout, want)
	}
}

func withSmallRadius(t *testing.T, radius int) {
	t.Helper()
	prevRadius := config.GetLoadRadius()
	prevWorkers := config.GetMaxConcurrentGeneration()
	prevBudget := config.GetMaxChunkProcessPerFrame()
	config.SetLoadRadius(radius)
	config.SetMaxConcurrentGeneration(2)
	config.SetMaxChunkProcessPerFrame(100)
	t.Cleanup(func() {
		config.SetLoadRadius(prevRadius)
		config.SetMaxConcurrentGeneration(prevWorkers)
		config.SetMaxChunkProcessPerFrame(prevBudget)
	})
}

func TestStreamThenPollLoadsChunksAroundCamera(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second) // 3x3 ring at radius 1

	if _, ok := s.GetChunk(voxel.ChunkPos{X: 0, Z: 0}); !ok {
		t.Error("expected center chunk loaded")
	}
	if _, ok := s.GetChunk(voxel.ChunkPos{X: 1, Z: 1}); !ok {
		t.Error("expected corner chunk within radius loaded")
	}
}

func TestPollLinksAdjacentChunks(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second)

	center, _ := s.GetChunk(voxel.ChunkPos{X: 0, Z: 0})
	if _, ok := center.Neighbor(voxel.East); !ok {
		t.Error("expected center chunk linked to its East neighbor after both loaded")
	}
}

func TestEvictRemovesFarChunksAndUnlinksNeighbors(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second)

	removed := s.Evict(mgl32.Vec3{0, 80, 0})
	if removed != 0 {
		t.Fatalf("Evict within radius removed %d, want 0", removed)
	}

	// Move the camera far away; everything should now be evictable.
	removed = s.Evict(mgl32.Vec3{10000, 80, 10000})
	if removed != 9 {
		t.Fatalf("Evict after moving camera away removed %d, want 9", removed)
	}
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after evicting everything, want 0", s.Len())
	}
}

func TestPollBuildsMeshOnceSurrounded(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second)

	if _, ok := s.GetMesh(voxel.ChunkPos{X: 0, Z: 0}); !ok {
		t.Error("expected center chunk (fully surrounded within radius 1) to have a mesh")
	}
	if got, want := s.MeshCount(), 1; got != want {
		t.Errorf("MeshCount() = %d, want %d (only the center chunk has all four neighbors loaded)", got, want)
	}
	if _, ok := s.GetMesh(voxel.ChunkPos{X: 1, Z: 1}); ok {
		t.Error("expected corner chunk (missing neighbors outside the loaded ring) to have no mesh yet")
	}
}

func TestPollRemeshesNeighborOnceSurrounded(t *testing.T) {
	withSmallRadius(t, 2)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 25, 2*time.Second) // 5x5 ring at radius 2

	for _, pos := range []voxel.ChunkPos{{X: 0, Z: 0}, {X: 1, Z: 0}, {X: -1, Z: 0}, {X: 0, Z: 1}, {X: 0, Z: -1}} {
		if _, ok := s.GetMesh(pos); !ok {
			t.Errorf("expected chunk %v to have a mesh once every ring position loaded", pos)
		}
	}
}

func TestEvictInvalidatesSurvivingNeighborMesh(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second)

	if _, ok := s.GetMesh(voxel.ChunkPos{X: 0, Z: 0}); !ok {
		t.Fatal("expected center chunk to have a mesh before eviction")
	}

	// Request the chunk one further east so it survives a camera move that
	// evicts everything else, including the center chunk's East neighbor.
	s.request(voxel.ChunkPos{X: 2, Z: 0})
	drainPoll(t, s, 10, 2*time.Second)

	removed := s.Evict(mgl32.Vec3{64, 80, 0})
	if removed == 0 {
		t.Fatal("expected Evict to remove at least one far chunk")
	}

	if _, ok := s.GetChunk(voxel.ChunkPos{X: 2, Z: 0}); ok {
		if _, meshed := s.GetMesh(voxel.ChunkPos{X: 2, Z: 0}); meshed {
			t.Error("expected surviving chunk that lost a neighbor to have its mesh invalidated")
		}
	}
}

func TestSetBlockRebuildsOwningAndBorderingMeshes(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second)

	center, ok := s.GetChunk(voxel.ChunkPos{X: 0, Z: 0})
	if !ok {
		t.Fatal("expected center chunk loaded")
	}

	if err := s.SetBlock(0, 200, 0, voxel.Stone); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if got := s.GetBlock(0, 200, 0); got != voxel.Stone {
		t.Errorf("GetBlock after SetBlock = %v, want STONE", got)
	}
	if !center.Mutated() {
		t.Error("expected SetBlock to mark the owning chunk mutated")
	}
	if _, meshed := s.GetMesh(voxel.ChunkPos{X: 0, Z: 0}); !meshed {
		t.Error("expected owning chunk's mesh to remain built after SetBlock")
	}
}

func TestSetBlockOnUnloadedChunkIsNoOp(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	if err := s.SetBlock(100000, 5, 100000, voxel.Stone); err != nil {
		t.Fatalf("SetBlock on unloaded chunk: %v", err)
	}
	if got := s.GetBlock(100000, 5, 100000); got != voxel.Air {
		t.Errorf("GetBlock on unloaded chunk = %v, want AIR", got)
	}
}

func TestIsBlockVisible(t *testing.T) {
	withSmallRadius(t, 1)

	s := New(terrain.DefaultParams(), nil)
	defer s.Close()

	s.Stream(mgl32.Vec3{0, 80, 0})
	drainPoll(t, s, 9, 2*time.Second)

	if s.IsBlockVisible(0, 300, 0) {
		t.Error("expected an AIR block far above terrain to report not visible")
	}
	if s.IsBlockVisible(100000, 5, 100000) {
		t.Error("expected IsBlockVisible on an unloaded chunk to report false")
	}
}

func TestEvictSavesMutatedChunksToPersistence(t *testing.T) {
	withSmallRadius(t, 1)

	store, err := region.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	s := New(terrain.DefaultParams(), store)
	defer s.Close()

	s.request(voxel.ChunkPos{X: 0, Z: 0})
	drainPoll(t, s, 1, 2*time.Second)

	c, ok := s.GetChunk(voxel.ChunkPos{X: 0, Z: 0})
	if !ok {
		t.Fatal("expected center chunk loaded")
	}
	if _, _, err := c.SetBlock(0, 200, 0, voxel.Stone); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	if removed := s.Evict(mgl32.Vec3{10000, 80, 10000}); removed != 1 {
		t.Fatalf("Evict removed %d, want 1", removed)
	}

	loaded, ok, err := store.Load(voxel.ChunkPos{X: 0, Z: 0})
	if err != nil {
		t.Fatalf("store.Load: %v", err)
	}
	if !ok {
		t.Fatal("expected mutated chunk to have been saved on eviction")
	}
	if got := loaded.GetBlock(0, 200, 0); got != voxel.Stone {
		t.Errorf("reloaded GetBlock = %v, want STONE", got)
	}
}
