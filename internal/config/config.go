package config

import "sync"

// StreamerSettings holds the world streamer's runtime knobs: how far
// around the camera chunks stay loaded, and how much generation work the
// main thread admits per frame.
type StreamerSettings struct {
	mu                      sync.RWMutex
	loadRadius              int
	maxConcurrentGeneration int
	maxChunkProcessPerFrame int
}

var globalStreamerSettings = &StreamerSettings{
	loadRadius:              16,
	maxConcurrentGeneration: 1,
	maxChunkProcessPerFrame: 1000,
}

// GetLoadRadius returns the current load radius, in chunks (Chebyshev
// distance from the camera's chunk).
func GetLoadRadius() int {
	globalStreamerSettings.mu.RLock()
	defer globalStreamerSettings.mu.RUnlock()
	return globalStreamerSettings.loadRadius
}

// SetLoadRadius sets the load radius; clamped to a minimum of 1.
func SetLoadRadius(radius int) {
	globalStreamerSettings.mu.Lock()
	defer globalStreamerSettings.mu.Unlock()
	if radius < 1 {
		radius = 1
	}
	globalStreamerSettings.loadRadius = radius
}

// GetMaxConcurrentGeneration returns the in-flight generation task cap.
func GetMaxConcurrentGeneration() int {
	globalStreamerSettings.mu.RLock()
	defer globalStreamerSettings.mu.RUnlock()
	return globalStreamerSettings.maxConcurrentGeneration
}

// SetMaxConcurrentGeneration sets the in-flight generation task cap;
// clamped to a minimum of 1.
func SetMaxConcurrentGeneration(n int) {
	globalStreamerSettings.mu.Lock()
	defer globalStreamerSettings.mu.Unlock()
	if n < 1 {
		n = 1
	}
	globalStreamerSettings.maxConcurrentGeneration = n
}

// GetMaxChunkProcessPerFrame returns how many completed generation tasks
// the main thread integrates per call to the streamer's Poll.
func GetMaxChunkProcessPerFrame() int {
	globalStreamerSettings.mu.RLock()
	defer globalStreamerSettings.mu.RUnlock()
	return globalStreamerSettings.maxChunkProcessPerFrame
}

// SetMaxChunkProcessPerFrame sets the per-frame integration cap; clamped
// to a minimum of 1.
func SetMaxChunkProcessPerFrame(n int) {
	globalStreamerSettings.mu.Lock()
	defer globalStreamerSettings.mu.Unlock()
	if n < 1 {
		n = 1
	}
	globalStreamerSettings.maxChunkProcessPerFrame = n
}
