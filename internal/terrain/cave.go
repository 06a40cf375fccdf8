package terrain

import (
	"math"
	"math/rand"

	"mini-mc/internal/noise"
	"mini-mc/internal/voxel"
)

// Worm is a transient random-walk tunneling descriptor used only during
// cave carving; it is never stored past one generation run.
type Worm struct {
	X, Y, Z float32
	Radius  float32
	Steps   int
}

// Cave-carving constants, ground truth per the original engine: a 5x5
// chunk neighborhood (range=2) and the two 64-bit hash multipliers used to
// derive each source chunk's worm-count seed.
const (
	caveRange  = 2
	caveHashA  = 341873128712
	caveHashB  = 132897987541
	wormRadius = 2.0
)

// carveCaves implements Step G: for every chunk position in the 5x5
// neighborhood around target, seed a deterministic RNG from that source
// chunk's coordinates and the world seed, spawn 0 or 1 worms (1-in-50),
// and carve every worm step that lands inside target's bounds. This lets
// caves cross chunk borders without writing into neighboring chunks.
func carveCaves(blocks []voxel.BlockKind, target voxel.ChunkPos, worldSeed int32, caveNoise *noise.Noise) {
	for dx := -caveRange; dx <= caveRange; dx++ {
		for dz := -caveRange; dz <= caveRange; dz++ {
			source := voxel.ChunkPos{X: target.X + dx, Z: target.Z + dz}
			seed := uint64(worldSeed) ^ uint64(int64(source.X)*caveHashA+int64(source.Z)*caveHashB)
			rng := rand.New(rand.NewSource(int64(seed)))

			if rng.Intn(50) != 0 {
				continue
			}

			startX := float32(source.X*voxel.Width) + float32(rng.Intn(voxel.Width))
			startZ := float32(source.Z*voxel.Depth) + float32(rng.Intn(voxel.Depth))
			startY := float32(10 + rng.Intn(40))
			steps := 120 + rng.Intn(121)

			w := Worm{X: startX, Y: startY, Z: startZ, Radius: wormRadius, Steps: steps}
			walkWorm(blocks, target, w, rng, caveNoise)
		}
	}
}

// walkWorm advances w one unit step at a time, rotating its direction by
// small angles derived from the noise field sampled at its current
// position, and carves a sphere of its radius to AIR at each step,
// restricted to target's bounds.
func walkWorm(blocks []voxel.BlockKind, target voxel.ChunkPos, w Worm, rng *rand.Rand, caveNoise *noise.Noise) {
	yaw := float32(rng.Float64() * 2 * math.Pi)
	pitch := float32((rng.Float64() - 0.5) * math.Pi * 0.5)

	for i := 0; i < w.Steps; i++ {
		n := caveNoise.GetNoise3D(w.X*0.1, w.Y*0.1, w.Z*0.1)
		yaw += n * 0.5
		pitch += caveNoise.GetNoise3D(w.X*0.1+100, w.Y*0.1, w.Z*0.1) * 0.25
		if pitch > 1 {
			pitch = 1
		}
		if pitch < -1 {
			pitch = -1
		}

		dx := float32(math.Cos(float64(yaw))) * float32(math.Cos(float64(pitch)))
		dy := float32(math.Sin(float64(pitch)))
		dz := float32(math.Sin(float64(yaw))) * float32(math.Cos(float64(pitch)))

		w.X += dx
		w.Y += dy
		w.Z += dz

		carveSphere(blocks, target, w.X, w.Y, w.Z, w.Radius)
	}
}

// carveSphere sets every voxel within radius r of (wx, wy, wz) to AIR,
// restricted to target's local bounds; BEDROCK voxels are left in place.
func carveSphere(blocks []voxel.BlockKind, target voxel.ChunkPos, wx, wy, wz, r float32) {
	originX := float32(target.X * voxel.Width)
	originZ := float32(target.Z * voxel.Depth)

	minX := int(math.Floor(float64(wx - r - originX)))
	maxX := int(math.Ceil(float64(wx + r - originX)))
	minY := int(math.Floor(float64(wy - r)))
	maxY := int(math.Ceil(float64(wy + r)))
	minZ := int(math.Floor(float64(wz - r - originZ)))
	maxZ := int(math.Ceil(float64(wz + r - originZ)))

	r2 := r * r
	for lx := minX; lx <= maxX; lx++ {
		if lx < 0 || lx >= voxel.Width {
			continue
		}
		worldX := originX + float32(lx)
		for ly := minY; ly <= maxY; ly++ {
			if ly < 0 || ly >= voxel.Height {
				continue
			}
			for lz := minZ; lz <= maxZ; lz++ {
				if lz < 0 || lz >= voxel.Depth {
					continue
				}
				worldZ := originZ + float32(lz)
				ddx := worldX - wx
				ddy := float32(ly) - wy
				ddz := worldZ - wz
				if ddx*ddx+ddy*ddy+ddz*ddz <= r2 {
					idx := voxel.Index(lx, ly, lz)
					if blocks[idx] != voxel.Bedrock {
						blocks[idx] = voxel.Air
					}
				}
			}
		}
	}
}
