// Package bitpack implements a fixed-width-entry array backed by 32-bit
// words. An entry may straddle a word boundary: the low bits land in the
// earlier word, the remaining high bits in the next.
package bitpack

import (
	"encoding/binary"
	"fmt"
	"io"

	"mini-mc/internal/voxel"
	"mini-mc/internal/voxelerr"
)

const wordBits = 32

// Array is a fixed-length array of N unsigned integers, each stored in b
// bits where 1 <= b <= 32. Its lifetime is tied to the chunk that owns it.
type Array struct {
	n     int
	bits  uint
	words []uint32
}

// New allocates a packed array of n entries, each bits wide.
func New(n int, bits uint) (*Array, error) {
	if bits < 1 || bits > wordBits {
		return nil, fmt.Errorf("bitpack: new(n=%d, bits=%d): %w", n, bits, voxelerr.ErrInvalidArgument)
	}
	if n < 0 {
		return nil, fmt.Errorf("bitpack: new(n=%d, bits=%d): %w", n, bits, voxelerr.ErrInvalidArgument)
	}
	wordCount := (n*int(bits) + wordBits - 1) / wordBits
	return &Array{n: n, bits: bits, words: make([]uint32, wordCount)}, nil
}

// Len returns the number of entries.
func (a *Array) Len() int { return a.n }

// BitsPerEntry returns the fixed width of each entry.
func (a *Array) BitsPerEntry() uint { return a.bits }

func (a *Array) mask() uint64 {
	return (uint64(1) << a.bits) - 1
}

// Get reads the entry at index i.
func (a *Array) Get(i int) (uint32, error) {
	if i < 0 || i >= a.n {
		return 0, fmt.Errorf("bitpack: get(%d): %w", i, voxelerr.ErrOutOfRange)
	}
	bitPos := i * int(a.bits)
	wordIdx := bitPos / wordBits
	offset := uint(bitPos % wordBits)

	v := uint64(a.words[wordIdx]) >> offset
	if offset+a.bits > wordBits {
		v |= uint64(a.words[wordIdx+1]) << (wordBits - offset)
	}
	return uint32(v & a.mask()), nil
}

// Set writes v into the entry at index i.
func (a *Array) Set(i int, v uint32) error {
	if i < 0 || i >= a.n {
		return fmt.Errorf("bitpack: set(%d): %w", i, voxelerr.ErrOutOfRange)
	}
	if uint64(v) > a.mask() {
		return fmt.Errorf("bitpack: set(%d, %d): %w", i, v, voxelerr.ErrInvalidArgument)
	}
	bitPos := i * int(a.bits)
	wordIdx := bitPos / wordBits
	offset := uint(bitPos % wordBits)

	m := a.mask()
	a.words[wordIdx] &^= uint32(m << offset)
	a.words[wordIdx] |= uint32(uint64(v) << offset)

	if offset+a.bits > wordBits {
		spill := offset + a.bits - wordBits
		hiMask := uint32((uint64(1) << spill) - 1)
		a.words[wordIdx+1] &^= hiMask
		a.words[wordIdx+1] |= uint32(uint64(v) >> (wordBits - offset))
	}
	return nil
}

// DecodeAll produces all N entries in index order. It is the hot path used
// by mesh builders: a single pass with a running bit position, reading at
// most two words per entry, rather than N independent Get calls.
func (a *Array) DecodeAll() []uint32 {
	out := make([]uint32, a.n)
	if a.n == 0 {
		return out
	}
	m := a.mask()
	bitPos := 0
	for i := 0; i < a.n; i++ {
		wordIdx := bitPos / wordBits
		offset := uint(bitPos % wordBits)
		v := uint64(a.words[wordIdx]) >> offset
		if offset+a.bits > wordBits {
			v |= uint64(a.words[wordIdx+1]) << (wordBits - offset)
		}
		out[i] = uint32(v & m)
		bitPos += int(a.bits)
	}
	return out
}

// EncodeAll builds a palette and inverse map from blocks and writes the
// corresponding palette indices into a freshly allocated array at the given
// bit width. AIR always takes index 0 (so a zeroed array decodes to AIR);
// every other kind follows in first-seen order. It fails if more than
// 2^bits distinct kinds, counting that AIR entry, would be needed.
func EncodeAll(blocks []voxel.BlockKind, bits uint) (*Array, []voxel.BlockKind, map[voxel.BlockKind]uint32, error) {
	arr, err := New(len(blocks), bits)
	if err != nil {
		return nil, nil, nil, err
	}
	capacity := uint64(1) << bits
	palette := make([]voxel.BlockKind, 0, 8)
	paletteMap := make(map[voxel.BlockKind]uint32, 8)
	palette = append(palette, voxel.Air)
	paletteMap[voxel.Air] = 0

	for i, kind := range blocks {
		idx, ok := paletteMap[kind]
		if !ok {
			if uint64(len(palette)) >= capacity {
				return nil, nil, nil, fmt.Errorf("bitpack: encodeAll: palette overflow at entry %d: %w", i, voxelerr.ErrInvalidArgument)
			}
			idx = uint32(len(palette))
			palette = append(palette, kind)
			paletteMap[kind] = idx
		}
		if err := arr.Set(i, idx); err != nil {
			return nil, nil, nil, fmt.Errorf("bitpack: encodeAll: %w", err)
		}
	}
	return arr, palette, paletteMap, nil
}

// SaveToStream writes N (u64), bits (u8), then the raw words little-endian.
func (a *Array) SaveToStream(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint64(a.n)); err != nil {
		return fmt.Errorf("bitpack: saveToStream: write n: %w: %w", err, voxelerr.ErrIOFailure)
	}
	if err := binary.Write(w, binary.LittleEndian, uint8(a.bits)); err != nil {
		return fmt.Errorf("bitpack: saveToStream: write bits: %w: %w", err, voxelerr.ErrIOFailure)
	}
	if err := binary.Write(w, binary.LittleEndian, a.words); err != nil {
		return fmt.Errorf("bitpack: saveToStream: write words: %w: %w", err, voxelerr.ErrIOFailure)
	}
	return nil
}

// LoadFromStream reads an array written by SaveToStream into a newly
// allocated Array.
func LoadFromStream(r io.Reader) (*Array, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, fmt.Errorf("bitpack: loadFromStream: read n: %w: %w", err, voxelerr.ErrIOFailure)
	}
	var bits uint8
	if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
		return nil, fmt.Errorf("bitpack: loadFromStream: read bits: %w: %w", err, voxelerr.ErrIOFailure)
	}
	a, err := New(int(n), uint(bits))
	if err != nil {
		return nil, fmt.Errorf("bitpack: loadFromStream: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, a.words); err != nil {
		return nil, fmt.Errorf("bitpack: loadFromStream: read words: %w: %w", err, voxelerr.ErrIOFailure)
	}
	return a, nil
}
