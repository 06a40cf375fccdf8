// Package profiling accumulates per-frame timings across the generation,
// streaming, and meshing pipeline so a driver loop can report where a
// frame's time went, without pulling in a full tracing stack for it.
package profiling

import (
	"maps"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	mu          sync.Mutex
	frameTotals = make(map[string]time.Duration)
)

// Track returns a stop function that records the elapsed time under name
// into the current frame's totals. Usage: defer profiling.Track("streamer.Poll")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		frameTotals[name] += d
		mu.Unlock()
	}
}

// ResetFrame clears the accumulated totals. A driver loop calls this once
// at the start of each frame so SumWithPrefix/SlowestSpans only reflect
// that frame's work.
func ResetFrame() {
	mu.Lock()
	for k := range frameTotals {
		delete(frameTotals, k)
	}
	mu.Unlock()
}

func snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(frameTotals))
	maps.Copy(out, frameTotals)
	return out
}

// SumWithPrefix returns the sum of durations whose span name starts with
// any of the given prefixes, e.g. SumWithPrefix("terrain.") to total every
// generation-pipeline stage tracked this frame.
func SumWithPrefix(prefixes ...string) time.Duration {
	ss := snapshot()
	var sum time.Duration
	for k, v := range ss {
		for _, p := range prefixes {
			if strings.HasPrefix(k, p) {
				sum += v
				break
			}
		}
	}
	return sum
}

// SlowestSpans formats the n slowest tracked spans this frame, e.g.
// "streamer.produce:4.2ms, meshing.BuildMeshData:2.1ms".
func SlowestSpans(n int) string {
	ss := snapshot()

	type span struct {
		name string
		dur  time.Duration
	}
	list := make([]span, 0, len(ss))
	for k, v := range ss {
		list = append(list, span{name: k, dur: v})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].dur > list[j].dur })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].dur.Microseconds()) / 1000.0
		parts = append(parts, list[i].name+":"+formatMs(ms)+"ms")
	}
	return strings.Join(parts, ", ")
}

func formatMs(ms float64) string {
	whole := int64(ms)
	frac := int64((ms-float64(whole))*10 + 0.0001)
	if frac <= 0 {
		return itoa(whole)
	}
	return itoa(whole) + "." + itoa(frac)
}

func itoa(i int64) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	buf := make([]byte, 0, 20)
	for i > 0 {
		buf = append(buf, byte('0'+i%10))
		i /= 10
	}
	for l, r := 0, len(buf)-1; l < r; l, r = l+1, r-1 {
		buf[l], buf[r] = buf[r], buf[l]
	}
	if neg {
		return "-" + string(buf)
	}
	return string(buf)
}
