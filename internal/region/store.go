package region

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"mini-mc/internal/chunk"
	"mini-mc/internal/voxel"
	"mini-mc/internal/voxelerr"
)

// Store lazily opens and caches the region files beneath one directory,
// giving the world streamer a single load/save surface regardless of how
// many region files a session touches.
type Store struct {
	dir string

	mu    sync.Mutex
	files map[[2]int]*File
}

// NewStore creates a Store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("region: create store dir %s: %w: %w", dir, err, voxelerr.ErrIOFailure)
	}
	return &Store{dir: dir, files: make(map[[2]int]*File)}, nil
}

func (s *Store) fileFor(regionX, regionZ int) (*File, error) {
	key := [2]int{regionX, regionZ}

	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.files[key]; ok {
		return f, nil
	}
	f, err := Open(Path(s.dir, regionX, regionZ), regionX, regionZ)
	if err != nil {
		return nil, err
	}
	s.files[key] = f
	return f, nil
}

// Load returns the chunk at pos, or ok=false if it has never been saved.
func (s *Store) Load(pos voxel.ChunkPos) (c *chunk.Chunk, ok bool, err error) {
	regionX, regionZ, _, _ := Coord(pos)
	f, err := s.fileFor(regionX, regionZ)
	if err != nil {
		return nil, false, err
	}
	c, err = f.LoadChunk(pos)
	if err != nil {
		if errors.Is(err, voxelerr.ErrNotLoaded) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

// Save persists c to its region file. A no-op (but not an error) for
// chunks that aren't dirty would be the caller's business; Save always
// writes.
func (s *Store) Save(c *chunk.Chunk) error {
	regionX, regionZ, _, _ := Coord(c.Pos)
	f, err := s.fileFor(regionX, regionZ)
	if err != nil {
		return err
	}
	return f.SaveChunk(c)
}

// Close closes every region file this store has opened.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for _, f := range s.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
