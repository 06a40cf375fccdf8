// Command mini-mc drives the voxel world engine headlessly: it streams
// chunks around a fixed camera path for a handful of frames, building each
// chunk's mesh as it loads, and reports what was generated. It exercises
// the same terrain/chunk/meshing/streamer pipeline a windowed client would
// drive from its render loop, without any GPU or windowing dependency.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"mini-mc/internal/profiling"
	"mini-mc/internal/region"
	"mini-mc/internal/streamer"
	"mini-mc/internal/terrain"
)

func main() {
	seed := int32(1337)
	if len(os.Args) > 1 {
		parsed, err := strconv.ParseInt(os.Args[1], 10, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mini-mc: invalid seed %q: %v\n", os.Args[1], err)
			os.Exit(1)
		}
		seed = int32(parsed)
	}

	if err := run(seed); err != nil {
		log.Fatal(err)
	}
}

func run(seed int32) error {
	params := terrain.DefaultParams()
	params.Seed = seed

	store, err := region.NewStore("worldsave")
	if err != nil {
		return fmt.Errorf("open region store: %w", err)
	}
	defer store.Close()

	s := streamer.New(params, store)
	defer s.Close()

	camera := mgl32.Vec3{0, float32(params.SeaLevel + 40), 0}

	const frames = 120
	for frame := 0; frame < frames; frame++ {
		profiling.ResetFrame()

		s.Stream(camera)
		s.Poll()

		camera = camera.Add(mgl32.Vec3{0.5, 0, 0.5})
		time.Sleep(time.Millisecond)
	}

	removed := s.Evict(camera)
	fmt.Printf("seed=%d loaded=%d meshed=%d evicted=%d terrain=%s slowest=[%s]\n",
		seed, s.Len(), s.MeshCount(), removed, profiling.SumWithPrefix("terrain."), profiling.SlowestSpans(3))
	return nil
}
