// Package palette implements the per-chunk small ordered table mapping
// dense indices to BlockKind, with the inverse lookup used when writing.
package palette

import (
	"encoding/binary"
	"fmt"
	"io"

	"mini-mc/internal/voxel"
	"mini-mc/internal/voxelerr"
)

// Palette is append-only for the lifetime of the chunk that owns it:
// indices are never reused once assigned.
type Palette struct {
	entries []voxel.BlockKind
	index   map[voxel.BlockKind]uint32
}

// New returns an empty palette.
func New() *Palette {
	return &Palette{
		entries: make([]voxel.BlockKind, 0, 8),
		index:   make(map[voxel.BlockKind]uint32, 8),
	}
}

// FromEntries rebuilds a palette (and its inverse map) from an ordered
// sequence of BlockKind, as produced by loadFromStream.
func FromEntries(entries []voxel.BlockKind) *Palette {
	p := &Palette{
		entries: append([]voxel.BlockKind(nil), entries...),
		index:   make(map[voxel.BlockKind]uint32, len(entries)),
	}
	for i, k := range p.entries {
		p.index[k] = uint32(i)
	}
	return p
}

// Len returns the number of distinct block kinds currently in the palette.
func (p *Palette) Len() int { return len(p.entries) }

// At returns the BlockKind stored at dense index i.
func (p *Palette) At(i uint32) (voxel.BlockKind, error) {
	if int(i) >= len(p.entries) {
		return voxel.Air, fmt.Errorf("palette: at(%d): %w", i, voxelerr.ErrOutOfRange)
	}
	return p.entries[i], nil
}

// IndexOf returns the dense index for kind, appending it to the palette
// (preserving first-seen order) if it isn't already present.
func (p *Palette) IndexOf(kind voxel.BlockKind) (uint32, error) {
	if idx, ok := p.index[kind]; ok {
		return idx, nil
	}
	capacity := uint64(1) << voxel.PaletteBits
	if uint64(len(p.entries)) >= capacity {
		return 0, fmt.Errorf("palette: indexOf(%s): %w", kind, voxelerr.ErrInvalidArgument)
	}
	idx := uint32(len(p.entries))
	p.entries = append(p.entries, kind)
	p.index[kind] = idx
	return idx, nil
}

// Lookup returns the dense index for kind without mutating the palette.
func (p *Palette) Lookup(kind voxel.BlockKind) (uint32, bool) {
	idx, ok := p.index[kind]
	return idx, ok
}

// Entries returns the palette's entries in insertion order. Callers must
// not mutate the returned slice.
func (p *Palette) Entries() []voxel.BlockKind {
	return p.entries
}

// SaveToStream writes the palette size (u32) followed by each entry (u8).
func (p *Palette) SaveToStream(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(p.entries))); err != nil {
		return fmt.Errorf("palette: saveToStream: write size: %w: %w", err, voxelerr.ErrIOFailure)
	}
	for _, k := range p.entries {
		if err := binary.Write(w, binary.LittleEndian, uint8(k)); err != nil {
			return fmt.Errorf("palette: saveToStream: write entry: %w: %w", err, voxelerr.ErrIOFailure)
		}
	}
	return nil
}

// LoadFromStream reads a palette written by SaveToStream and rebuilds its
// inverse map.
func LoadFromStream(r io.Reader) (*Palette, error) {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("palette: loadFromStream: read size: %w: %w", err, voxelerr.ErrIOFailure)
	}
	entries := make([]voxel.BlockKind, size)
	for i := range entries {
		var b uint8
		if err := binary.Read(r, binary.LittleEndian, &b); err != nil {
			return nil, fmt.Errorf("palette: loadFromStream: read entry: %w: %w", err, voxelerr.ErrIOFailure)
		}
		entries[i] = voxel.BlockKind(b)
	}
	return FromEntries(entries), nil
}
