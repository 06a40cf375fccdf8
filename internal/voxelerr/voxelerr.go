// Package voxelerr defines the sentinel error kinds shared across the world
// engine. Call sites wrap one of these with fmt.Errorf("...: %w", ...) so
// callers can test with errors.Is without string matching.
package voxelerr

import "errors"

var (
	// ErrOutOfRange is returned when a coordinate or index falls outside the
	// bounds of a chunk, region, or packed array.
	ErrOutOfRange = errors.New("voxelerr: value out of range")

	// ErrInvalidArgument is returned when a caller-supplied parameter is
	// structurally invalid (zero bit width, negative size, malformed header).
	ErrInvalidArgument = errors.New("voxelerr: invalid argument")

	// ErrIOFailure is returned when a disk read/write for a chunk or region
	// file fails for reasons other than "not found".
	ErrIOFailure = errors.New("voxelerr: io failure")

	// ErrNotLoaded is returned when an operation requires chunk or neighbor
	// data that hasn't been generated/loaded yet.
	ErrNotLoaded = errors.New("voxelerr: not loaded")
)
