package gpu

import "errors"

// Sentinel errors for device and step failures. Callers match with
// errors.Is; everything wrapping them still routes the engine to the
// CPU path.
var (
	// ErrNotAvailable means no usable device could be acquired. It is
	// cached on the Context until Reset.
	ErrNotAvailable = errors.New("gpu: device not available")

	// ErrKernelNotFound means the kernel source file is missing from
	// all probe locations. It is cached on the Context until Reset.
	ErrKernelNotFound = errors.New("gpu: kernel not found")

	// ErrTableTooLarge means the active set needs a hash table beyond
	// the supported maximum.
	ErrTableTooLarge = errors.New("gpu: hash table too large")

	// ErrDispatchLimit means the potential set exceeds the maximum
	// number of cells one dispatch can cover.
	ErrDispatchLimit = errors.New("gpu: potential set exceeds dispatch limit")
)
