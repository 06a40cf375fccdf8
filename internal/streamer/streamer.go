// Package streamer keeps the set of loaded chunks around a moving camera
// current: a bounded pool of background workers generates or loads chunks
// concurrently, but every mutation of the streamer's chunk map happens on
// the calling goroutine inside Poll, so callers never need to synchronize
// against the world while they read it.
package streamer

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"mini-mc/internal/chunk"
	"mini-mc/internal/config"
	"mini-mc/internal/meshing"
	"mini-mc/internal/profiling"
	"mini-mc/internal/terrain"
	"mini-mc/internal/voxel"
)

// Persistence is the load/save surface the streamer consults before
// generating a chunk and when evicting a mutated one. A *region.Store
// satisfies it; tests may supply a fake for a purely in-memory world.
type Persistence interface {
	Load(pos voxel.ChunkPos) (c *chunk.Chunk, ok bool, err error)
	Save(c *chunk.Chunk) error
}

type jobResult struct {
	pos voxel.ChunkPos
	c   *chunk.Chunk
	err error
}

// Streamer owns the live chunk set and the worker pool that populates it.
type Streamer struct {
	params terrain.Params
	store  Persistence

	jobs    chan voxel.ChunkPos
	results chan jobResult
	wg      sync.WaitGroup

	pendingMu sync.Mutex
	pending   map[voxel.ChunkPos]struct{}

	// chunks and every field below are touched only from Stream/Poll/Evict
	// and the block and mesh accessors, which callers must invoke from a
	// single (the "main") goroutine.
	chunks map[voxel.ChunkPos]*chunk.Chunk
	meshes map[voxel.ChunkPos]meshing.MeshHandle
}

// New starts a Streamer with config.GetMaxConcurrentGeneration() background
// workers generating or loading chunks under params. store may be nil, in
// which case every chunk is generated fresh and nothing is ever persisted.
func New(params terrain.Params, store Persistence) *Streamer {
	s := &Streamer{
		params:  params,
		store:   store,
		jobs:    make(chan voxel.ChunkPos, 4096),
		results: make(chan jobResult, 4096),
		pending: make(map[voxel.ChunkPos]struct{}),
		chunks:  make(map[voxel.ChunkPos]*chunk.Chunk),
		meshes:  make(map[voxel.ChunkPos]meshing.MeshHandle),
	}

	workers := config.GetMaxConcurrentGeneration()
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}
	return s
}

// Close stops every background worker. Pending results already queued are
// discarded; callers wanting a final save should Evict everything first.
func (s *Streamer) Close() {
	close(s.jobs)
	s.wg.Wait()
}

func (s *Streamer) worker() {
	defer s.wg.Done()
	for pos := range s.jobs {
		s.results <- s.produce(pos)
	}
}

func (s *Streamer) produce(pos voxel.ChunkPos) jobResult {
	defer profiling.Track("streamer.produce")()

	if s.store != nil {
		if c, ok, err := s.store.Load(pos); err == nil && ok {
			return jobResult{pos: pos, c: c}
		}
	}
	c, err := terrain.Generate(pos, s.params)
	return jobResult{pos: pos, c: c, err: err}
}

// chunkPosFromWorld converts a world-space (x, z) to the chunk it falls in.
func chunkPosFromWorld(x, z float32) voxel.ChunkPos {
	return voxel.ChunkPos{
		X: voxel.FloorDiv(int(math.Floor(float64(x))), voxel.Width),
		Z: voxel.FloorDiv(int(math.Floor(float64(z))), voxel.Depth),
	}
}

// Stream enqueues generation for every unloaded chunk within
// config.GetLoadRadius() chunks of camera, nearest rings first. A chunk
// already loaded, already queued, or arriving when the job queue is full is
// silently skipped; Stream is cheap to call every frame.
func (s *Streamer) Stream(camera mgl32.Vec3) {
	defer profiling.Track("streamer.Stream")()

	center := chunkPosFromWorld(camera.X(), camera.Z())
	radius := config.GetLoadRadius()

	s.request(center)
	for r := 1; r <= radius; r++ {
		x0, x1 := center.X-r, center.X+r
		z0, z1 := center.Z-r, center.Z+r
		for x := x0; x <= x1; x++ {
			s.request(voxel.ChunkPos{X: x, Z: z0})
			s.request(voxel.ChunkPos{X: x, Z: z1})
		}
		for z := z0 + 1; z <= z1-1; z++ {
			s.request(voxel.ChunkPos{X: x0, Z: z})
			s.request(voxel.ChunkPos{X: x1, Z: z})
		}
	}
}

// request enqueues pos for background generation if it is not already
// loaded, pending, or past queue capacity.
func (s *Streamer) request(pos voxel.ChunkPos) bool {
	if _, ok := s.chunks[pos]; ok {
		return false
	}

	s.pendingMu.Lock()
	if _, ok := s.pending[pos]; ok {
		s.pendingMu.Unlock()
		return false
	}
	s.pending[pos] = struct{}{}
	s.pendingMu.Unlock()

	select {
	case s.jobs <- pos:
		return true
	default:
		s.pendingMu.Lock()
		delete(s.pending, pos)
		s.pendingMu.Unlock()
		return false
	}
}

// Poll installs up to config.GetMaxChunkProcessPerFrame() completed
// generation results into the live chunk set, links each newly installed
// chunk to any already-loaded horizontal neighbors (both directions), and
// reports how many chunks were installed. Poll must run on the same
// goroutine every call.
func (s *Streamer) Poll() int {
	defer profiling.Track("streamer.Poll")()

	budget := config.GetMaxChunkProcessPerFrame()
	installed := 0

	for installed < budget {
		select {
		case res := <-s.results:
			s.pendingMu.Lock()
			delete(s.pending, res.pos)
			s.pendingMu.Unlock()

			if res.err != nil || res.c == nil {
				continue
			}
			s.install(res.c)
			installed++
		default:
			return installed
		}
	}
	return installed
}

// install links c to any already-loaded horizontal neighbors, builds its
// mesh immediately if all four are now present, and remeshes any neighbor
// that becomes fully surrounded as a result of c arriving.
func (s *Streamer) install(c *chunk.Chunk) {
	s.chunks[c.Pos] = c
	for d := voxel.North; d <= voxel.West; d++ {
		neighborPos := c.Pos.Neighbor(d)
		neighbor, ok := s.chunks[neighborPos]
		if !ok {
			continue
		}
		c.SetAdjacentChunk(d, neighbor)
		neighbor.SetAdjacentChunk(d.Opposite(), c)
		if neighbor.HasAllAdjacentChunksLoaded() {
			s.rebuildMesh(neighbor)
		}
	}
	if c.HasAllAdjacentChunksLoaded() {
		s.rebuildMesh(c)
	}
}

func (s *Streamer) rebuildMesh(c *chunk.Chunk) {
	data := meshing.BuildMeshData(c)
	s.meshes[c.Pos] = meshing.UploadMesh(data)
}

// GetMesh returns the current mesh for the chunk at pos, if one has been
// built. A chunk with an unresolved edge (not all four neighbors loaded)
// has no mesh yet.
func (s *Streamer) GetMesh(pos voxel.ChunkPos) (meshing.MeshHandle, bool) {
	h, ok := s.meshes[pos]
	return h, ok
}

// MeshCount reports how many chunks currently have a built mesh.
func (s *Streamer) MeshCount() int { return len(s.meshes) }

// GetChunk returns the loaded chunk at pos, if any.
func (s *Streamer) GetChunk(pos voxel.ChunkPos) (*chunk.Chunk, bool) {
	c, ok := s.chunks[pos]
	return c, ok
}

// GetBlock reads the block at world coordinates (x, y, z), correctly
// handling negative coordinates via floor division. Returns AIR for any
// coordinate in a chunk that is not currently loaded.
func (s *Streamer) GetBlock(x, y, z int) voxel.BlockKind {
	pos := voxel.ChunkPos{X: voxel.FloorDiv(x, voxel.Width), Z: voxel.FloorDiv(z, voxel.Depth)}
	c, ok := s.chunks[pos]
	if !ok {
		return voxel.Air
	}
	return c.GetBlock(voxel.FloorMod(x, voxel.Width), y, voxel.FloorMod(z, voxel.Depth))
}

// SetBlock mutates the block at world coordinates (x, y, z), dispatching to
// its owning chunk. It is a no-op if that chunk is not currently loaded. A
// mutation that actually changes the voxel immediately rebuilds the owning
// chunk's mesh (if fully surrounded) and the mesh of any already-meshed
// neighbor bordering the mutated cell, so edits never leave a stale mesh.
func (s *Streamer) SetBlock(x, y, z int, kind voxel.BlockKind) error {
	pos := voxel.ChunkPos{X: voxel.FloorDiv(x, voxel.Width), Z: voxel.FloorDiv(z, voxel.Depth)}
	c, ok := s.chunks[pos]
	if !ok {
		return nil
	}

	changed, borders, err := c.SetBlock(voxel.FloorMod(x, voxel.Width), y, voxel.FloorMod(z, voxel.Depth), kind)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if c.HasAllAdjacentChunksLoaded() {
		s.rebuildMesh(c)
	}
	for _, d := range borders {
		if neighbor, ok := s.chunks[pos.Neighbor(d)]; ok && neighbor.HasAllAdjacentChunksLoaded() {
			s.rebuildMesh(neighbor)
		}
	}
	return nil
}

// IsBlockVisible reports whether the block at world coordinates (x, y, z)
// has at least one exposed face, dispatching to its owning chunk. Returns
// false for any coordinate in a chunk that is not currently loaded.
func (s *Streamer) IsBlockVisible(x, y, z int) bool {
	pos := voxel.ChunkPos{X: voxel.FloorDiv(x, voxel.Width), Z: voxel.FloorDiv(z, voxel.Depth)}
	c, ok := s.chunks[pos]
	if !ok {
		return false
	}
	return c.IsBlockVisible(voxel.FloorMod(x, voxel.Width), y, voxel.FloorMod(z, voxel.Depth))
}

// Evict removes every loaded chunk farther than config.GetLoadRadius()+1
// chunks from camera, saving any that were mutated since load if a
// Persistence store is configured. It reports how many chunks were evicted.
func (s *Streamer) Evict(camera mgl32.Vec3) int {
	defer profiling.Track("streamer.Evict")()

	center := chunkPosFromWorld(camera.X(), camera.Z())
	radius := config.GetLoadRadius() + 1

	removed := 0
	for pos, c := range s.chunks {
		dx, dz := pos.X-center.X, pos.Z-center.Z
		if dx*dx+dz*dz <= radius*radius {
			continue
		}
		if s.store != nil && c.Mutated() {
			_ = s.store.Save(c)
		}
		for d := voxel.North; d <= voxel.West; d++ {
			if neighbor, ok := s.chunks[pos.Neighbor(d)]; ok {
				neighbor.SetAdjacentChunk(d.Opposite(), nil)
				// neighbor is no longer fully surrounded; its mesh is
				// dropped until install() rebuilds it on reconnection.
				delete(s.meshes, neighbor.Pos)
			}
		}
		delete(s.chunks, pos)
		delete(s.meshes, pos)
		removed++
	}
	return removed
}

// Len reports how many chunks are currently loaded.
func (s *Streamer) Len() int { return len(s.chunks) }
