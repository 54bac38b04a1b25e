package sampler

import "errors"

var (
	// ErrNoSource indicates New was called without a proc source.
	ErrNoSource = errors.New("sampler: nil source")

	// ErrNoHost indicates New was called without a host collaborator.
	ErrNoHost = errors.New("sampler: nil host")

	// ErrEnumerate indicates the process list itself could not be read.
	// Unlike a single unreadable process, it fails the whole cycle.
	ErrEnumerate = errors.New("sampler: enumerate processes")

	// ErrBadInterval indicates a non-positive sampling interval.
	ErrBadInterval = errors.New("sampler: interval must be > 0")
)
