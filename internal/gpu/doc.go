// Package gpu implements the device-side generation step on the wgpu
// hardware abstraction layer.
//
// The step runs a compute kernel over the potential set: the active
// set is uploaded as an open-addressed hash table, one invocation
// classifies one potential cell by probing its eight neighbors, and
// invocations whose cell changes state append the cell's 3x3
// neighborhood to a shared overflow buffer through an atomic counter.
// Results are read back, decoded and handed to the engine for merging.
//
// Device acquisition, the compiled pipeline and the grow-only buffers
// are cached on the Context and reused across steps.
package gpu
