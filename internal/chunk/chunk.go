// Package chunk implements the per-chunk voxel container: palette-backed
// storage, weak references to the four horizontal neighbors, and the block
// accessors the mesh builder and world streamer drive.
package chunk

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"weak"

	"mini-mc/internal/bitpack"
	"mini-mc/internal/palette"
	"mini-mc/internal/voxel"
	"mini-mc/internal/voxelerr"
)

// Chunk owns a palette and BitPackedArray covering one 16x256x16 voxel
// column, plus non-owning references to its four horizontal neighbors. A
// chunk is created by the streamer (generated or loaded from a region
// file), mutated only by SetBlock and initial generation, and destroyed
// when the streamer evicts it.
type Chunk struct {
	Pos voxel.ChunkPos

	palette *palette.Palette
	blocks  *bitpack.Array

	neighbors [4]weak.Pointer[Chunk]

	// mutated is set whenever SetBlock changes a voxel after initial
	// generation; the streamer consults it to decide whether eviction
	// must save the chunk's region.
	mutated bool
}

// New wraps an already-encoded palette and BitPackedArray (produced by the
// terrain generator or a region load) into a Chunk.
func New(pos voxel.ChunkPos, pal *palette.Palette, blocks *bitpack.Array) *Chunk {
	return &Chunk{Pos: pos, palette: pal, blocks: blocks}
}

// Origin returns the world-space (x, z) origin of this chunk.
func (c *Chunk) Origin() (x, z int) {
	return c.Pos.X * voxel.Width, c.Pos.Z * voxel.Depth
}

// GetBlock returns AIR for any out-of-bounds coordinate; otherwise it reads
// the palette index from the backing array and resolves it.
func (c *Chunk) GetBlock(x, y, z int) voxel.BlockKind {
	if !voxel.InBounds(x, y, z) {
		return voxel.Air
	}
	idx, err := c.blocks.Get(voxel.Index(x, y, z))
	if err != nil {
		return voxel.Air
	}
	kind, err := c.palette.At(idx)
	if err != nil {
		return voxel.Air
	}
	return kind
}

// SetBlock is a no-op for an out-of-bounds coordinate. If kind is new to
// this chunk's palette it is appended (the palette is append-only). It
// reports whether the voxel grid actually changed, and which neighboring
// directions (if any) border the mutated cell and must also remesh.
func (c *Chunk) SetBlock(x, y, z int, kind voxel.BlockKind) (changed bool, borders []voxel.Direction, err error) {
	if !voxel.InBounds(x, y, z) {
		return false, nil, nil
	}
	i := voxel.Index(x, y, z)
	oldIdx, err := c.blocks.Get(i)
	if err != nil {
		return false, nil, fmt.Errorf("chunk: setBlock(%d,%d,%d): %w", x, y, z, err)
	}
	oldKind, err := c.palette.At(oldIdx)
	if err != nil {
		return false, nil, fmt.Errorf("chunk: setBlock(%d,%d,%d): %w", x, y, z, err)
	}
	if oldKind == kind {
		return false, nil, nil
	}

	newIdx, err := c.palette.IndexOf(kind)
	if err != nil {
		return false, nil, fmt.Errorf("chunk: setBlock(%d,%d,%d): %w", x, y, z, err)
	}
	if err := c.blocks.Set(i, newIdx); err != nil {
		return false, nil, fmt.Errorf("chunk: setBlock(%d,%d,%d): %w", x, y, z, err)
	}
	c.mutated = true

	if x == 0 {
		borders = append(borders, voxel.West)
	}
	if x == voxel.Width-1 {
		borders = append(borders, voxel.East)
	}
	if z == 0 {
		borders = append(borders, voxel.South)
	}
	if z == voxel.Depth-1 {
		borders = append(borders, voxel.North)
	}
	return true, borders, nil
}

// IsBlockVisible reports whether the cell is non-AIR and at least one of
// its six neighbors (peeking cross-chunk at the horizontal edges) is AIR.
// This is the test the player ray-cast uses to decide hittability.
func (c *Chunk) IsBlockVisible(x, y, z int) bool {
	if !voxel.InBounds(x, y, z) {
		return false
	}
	if c.GetBlock(x, y, z) == voxel.Air {
		return false
	}

	if y+1 >= voxel.Height || c.GetBlock(x, y+1, z) == voxel.Air {
		return true
	}
	if y-1 < 0 || c.GetBlock(x, y-1, z) == voxel.Air {
		return true
	}
	if c.neighborBlock(x+1, y, z, voxel.East) == voxel.Air {
		return true
	}
	if c.neighborBlock(x-1, y, z, voxel.West) == voxel.Air {
		return true
	}
	if c.neighborBlock(x, y, z+1, voxel.North) == voxel.Air {
		return true
	}
	if c.neighborBlock(x, y, z-1, voxel.South) == voxel.Air {
		return true
	}
	return false
}

// neighborBlock resolves (x, y, z) — which may be outside this chunk's
// horizontal bounds by exactly one cell — by peeking into the linked
// neighbor in direction dir. An absent neighbor (weak reference expired or
// never linked) reads as AIR, matching the mesh builder's "always draw"
// rule for unresolved edges.
func (c *Chunk) neighborBlock(x, y, z int, dir voxel.Direction) voxel.BlockKind {
	if x >= 0 && x < voxel.Width && z >= 0 && z < voxel.Depth {
		return c.GetBlock(x, y, z)
	}
	n, ok := c.Neighbor(dir)
	if !ok {
		return voxel.Air
	}
	return n.GetBlock(voxel.FloorMod(x, voxel.Width), y, voxel.FloorMod(z, voxel.Depth))
}

// BlockAtFace resolves the cell one step from (x, y, z) in the horizontal
// direction face, which may cross into a horizontally adjacent chunk; any
// other direction value reads as AIR. Vertical neighbors are not handled
// here. This is the lookup the mesh builder uses to decide per-face culling
// of the four side faces.
func (c *Chunk) BlockAtFace(x, y, z int, face voxel.Direction) voxel.BlockKind {
	switch face {
	case voxel.North:
		return c.neighborBlock(x, y, z+1, voxel.North)
	case voxel.South:
		return c.neighborBlock(x, y, z-1, voxel.South)
	case voxel.East:
		return c.neighborBlock(x+1, y, z, voxel.East)
	case voxel.West:
		return c.neighborBlock(x-1, y, z, voxel.West)
	default:
		return voxel.Air
	}
}

// SetAdjacentChunk records a non-owning reference to neighbor in direction
// dir. Passing nil clears the reference.
func (c *Chunk) SetAdjacentChunk(dir voxel.Direction, neighbor *Chunk) {
	c.neighbors[dir] = weak.Make(neighbor)
}

// Neighbor resolves the linked neighbor in direction dir, if it is still
// alive.
func (c *Chunk) Neighbor(dir voxel.Direction) (*Chunk, bool) {
	n := c.neighbors[dir].Value()
	return n, n != nil
}

// HasAllAdjacentChunksLoaded reports whether all four horizontal neighbors
// are currently resolvable, i.e. the mesh can be built without edge holes
// from an unresolved (not just absent-by-design) neighbor.
func (c *Chunk) HasAllAdjacentChunksLoaded() bool {
	for d := voxel.North; d <= voxel.West; d++ {
		if _, ok := c.Neighbor(d); !ok {
			return false
		}
	}
	return true
}

// Mutated reports whether SetBlock has changed this chunk since it was
// created or last marked saved.
func (c *Chunk) Mutated() bool { return c.mutated }

// MarkSaved clears the mutated flag after a successful region save.
func (c *Chunk) MarkSaved() { c.mutated = false }

// Palette exposes the chunk's palette for the mesh builder's tile lookup.
func (c *Chunk) Palette() *palette.Palette { return c.palette }

// Blocks exposes the backing BitPackedArray for the mesh builder's
// DecodeAll hot path.
func (c *Chunk) Blocks() *bitpack.Array { return c.blocks }

// SaveToStream writes (chunk X, chunk Z, palette, BitPackedArray payload).
// The two leading int32 values are the chunk-grid coordinates Pos.X and
// Pos.Z, not the block-space origin returned by Origin.
func (c *Chunk) SaveToStream(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if err := binary.Write(bw, binary.LittleEndian, int32(c.Pos.X)); err != nil {
		return fmt.Errorf("chunk: saveToStream: write originX: %w: %w", err, voxelerr.ErrIOFailure)
	}
	if err := binary.Write(bw, binary.LittleEndian, int32(c.Pos.Z)); err != nil {
		return fmt.Errorf("chunk: saveToStream: write originZ: %w: %w", err, voxelerr.ErrIOFailure)
	}
	if err := c.palette.SaveToStream(bw); err != nil {
		return fmt.Errorf("chunk: saveToStream: %w", err)
	}
	if err := c.blocks.SaveToStream(bw); err != nil {
		return fmt.Errorf("chunk: saveToStream: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("chunk: saveToStream: flush: %w: %w", err, voxelerr.ErrIOFailure)
	}
	return nil
}

// LoadFromStream reads a chunk written by SaveToStream and rebuilds its
// palette inverse map. Neighbor references are not part of the payload;
// the caller (streamer) relinks them after insertion.
func LoadFromStream(r io.Reader) (*Chunk, error) {
	br := bufio.NewReader(r)
	var originX, originZ int32
	if err := binary.Read(br, binary.LittleEndian, &originX); err != nil {
		return nil, fmt.Errorf("chunk: loadFromStream: read originX: %w: %w", err, voxelerr.ErrIOFailure)
	}
	if err := binary.Read(br, binary.LittleEndian, &originZ); err != nil {
		return nil, fmt.Errorf("chunk: loadFromStream: read originZ: %w: %w", err, voxelerr.ErrIOFailure)
	}
	pal, err := palette.LoadFromStream(br)
	if err != nil {
		return nil, fmt.Errorf("chunk: loadFromStream: %w", err)
	}
	blocks, err := bitpack.LoadFromStream(br)
	if err != nil {
		return nil, fmt.Errorf("chunk: loadFromStream: %w", err)
	}
	return New(voxel.ChunkPos{X: int(originX), Z: int(originZ)}, pal, blocks), nil
}
