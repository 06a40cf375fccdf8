package terrain

import (
	"math"

	"mini-mc/internal/voxel"
)

// fields bundles the independent noise samplers Step A draws on, each
// seeded by `seed+k` for a distinct k so the fields are uncorrelated.
type fields struct {
	continent *noiseField
	hills     *noiseField
	erosion   *noiseField
	weirdness *noiseField
	warpX     *noiseField
	warpZ     *noiseField
	river     *noiseField
	detail    *noiseField
	fine      *noiseField
	ridge     *noiseField
	mountain  *noiseField
	climate   *noiseField
	bias      *noiseField
	cave      *noiseField
}

// heightAt implements Step A: column height for world coordinates
// (worldX, worldZ).
func heightAt(f *fields, p Params, worldX, worldZ float32) (baseH, inlandFactor, weirdness, hillsVal float32) {
	continent := f.continent.fbm(worldX*0.0005, worldZ*0.0005, 8, 2.0, 0.5)
	hills := clamp01(f.hills.fbm(worldX*0.005, worldZ*0.005, 5, 2.0, 0.5))
	weird := f.weirdness.fbm(worldX*0.002, worldZ*0.002, 5, 2.0, 0.5)

	inlandFactor = smoothstep(-0.455, 0.5, continent)
	const plainsBaseline = 10.0
	h := float32(p.SeaLevel) + inlandFactor*plainsBaseline

	mountainMask := smoothstep(0.45, 0.85, inlandFactor) * p.MountainBoost
	if mountainMask > 0.15 {
		pv := 1 - absF32(3*absF32(weird)-2)
		h += pv * 40 * p.PVBoost * mountainMask
	}

	warpOffX := f.warpX.sample(worldX*0.003, worldZ*0.003) * 12
	warpOffZ := f.warpZ.sample(worldX*0.003, worldZ*0.003) * 12
	detail := f.detail.fbm((worldX+warpOffX)*0.03, (worldZ+warpOffZ)*0.03, 3, 2.0, 0.5)
	detailBlend := mix(0.6, 1.0, clamp01(mountainMask))
	fine := f.fine.fbm(worldX*0.1, worldZ*0.1, 2, 2.0, 0.5)

	h += hills * 20 * mountainMask
	h += detail * 6 * detailBlend
	h += fine * 2

	river := absF32(f.river.sample(worldX*0.002, worldZ*0.002))
	if river < p.RiverThreshold {
		t := smoothstep(p.RiverThreshold, 0, river)
		target := float32(p.SeaLevel) - 2
		h = mix(h, target, t*p.RiverStrength*0.6)
	}

	if h < 1 {
		h = 1
	}
	maxH := float32(voxel.Height - 20)
	if h > maxH {
		h = maxH
	}
	return h, inlandFactor, weird, hills
}

// shoreSmooth implements Step B: a BFS distance-to-water ramp that gently
// slopes land toward the sea near the coastline.
func shoreSmooth(heights [][]float32, p Params) {
	width, depth := len(heights), len(heights[0])
	const unvisited = -1
	dist := make([][]int, width)
	for x := range dist {
		dist[x] = make([]int, depth)
		for z := range dist[x] {
			dist[x][z] = unvisited
		}
	}

	type cell struct{ x, z int }
	queue := make([]cell, 0, width*depth)
	for x := 0; x < width; x++ {
		for z := 0; z < depth; z++ {
			if heights[x][z] <= float32(p.SeaLevel) {
				dist[x][z] = 0
				queue = append(queue, cell{x, z})
			}
		}
	}

	deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		if dist[c.x][c.z] >= p.ShoreSmoothRadius {
			continue
		}
		for _, d := range deltas {
			nx, nz := c.x+d[0], c.z+d[1]
			if nx < 0 || nx >= width || nz < 0 || nz >= depth {
				continue
			}
			if dist[nx][nz] != unvisited {
				continue
			}
			dist[nx][nz] = dist[c.x][c.z] + 1
			queue = append(queue, cell{nx, nz})
		}
	}

	for x := 0; x < width; x++ {
		for z := 0; z < depth; z++ {
			d := dist[x][z]
			if d <= 0 || d > p.ShoreSmoothRadius {
				continue
			}
			t := 1 - float32(d)/float32(p.ShoreSmoothRadius)
			target := float32(p.SeaLevel) + float32(d)*p.ShoreSlopeFactor
			heights[x][z] = mix(heights[x][z], target, clamp01(t*p.ShoreSmoothStrength))
		}
	}
}

// singlePassSmooth implements Step C: each interior height is pulled 35%
// toward its 3x3 mean, damping single-cell spikes while preserving peaks.
// Edge cells (whose 3x3 neighborhood would read outside the chunk) are
// left untouched.
func singlePassSmooth(heights [][]float32) {
	width, depth := len(heights), len(heights[0])
	src := make([][]float32, width)
	for x := range src {
		src[x] = append([]float32(nil), heights[x]...)
	}
	for x := 1; x < width-1; x++ {
		for z := 1; z < depth-1; z++ {
			var sum float32
			for dx := -1; dx <= 1; dx++ {
				for dz := -1; dz <= 1; dz++ {
					sum += src[x+dx][z+dz]
				}
			}
			mean := sum / 9
			heights[x][z] = mix(src[x][z], mean, 0.35)
		}
	}
}

func absF32(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
