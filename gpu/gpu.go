// Package gpu provides the wgpu-backed accelerator for life.Engine.
//
// The accelerator is safe to construct on machines without a GPU: the
// first step attempts device acquisition, and on failure the engine
// transparently stays on its CPU path.
//
//	accel := gpu.New(gpu.WithBundledKernel())
//	engine := life.NewEngine(life.WithAccelerator(accel))
package gpu

import (
	"log/slog"

	life "github.com/sam-schorb/game-of-life"
	igpu "github.com/sam-schorb/game-of-life/internal/gpu"
)

// KernelFileName is the on-disk name of the compute kernel the
// accelerator loads by default.
const KernelFileName = igpu.KernelFileName

// Option configures the accelerator.
type Option func(*igpu.Config)

// WithKernelPath loads the compute kernel from an explicit file
// instead of probing next to the executable and in the working
// directory.
func WithKernelPath(path string) Option {
	return func(cfg *igpu.Config) { cfg.KernelPath = path }
}

// WithKernelSource compiles the given WGSL source as the compute
// kernel, skipping the filesystem entirely.
func WithKernelSource(src string) Option {
	return func(cfg *igpu.Config) { cfg.KernelSource = src }
}

// WithBundledKernel uses the kernel source compiled into the binary,
// so no kernel file needs to ship alongside the executable.
func WithBundledKernel() Option {
	return func(cfg *igpu.Config) { cfg.KernelSource = igpu.BundledKernel() }
}

// WithMaxNeighbors fixes the overflow buffer capacity in cells. The
// default sizes it per step from the potential count.
func WithMaxNeighbors(n int) Option {
	return func(cfg *igpu.Config) { cfg.MaxNeighbors = n }
}

// Accelerator steps generations on a wgpu compute device. It
// implements life.Accelerator.
type Accelerator struct {
	ctx *igpu.Context
}

var _ life.Accelerator = (*Accelerator)(nil)

// New creates an accelerator. No device work happens until the first
// Step or Available call.
func New(opts ...Option) *Accelerator {
	var cfg igpu.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Accelerator{ctx: igpu.NewContext(cfg)}
}

// Name returns "wgpu".
func (a *Accelerator) Name() string { return "wgpu" }

// Available reports whether a device can be acquired. The first call
// may perform acquisition; failure is cached until Reset.
func (a *Accelerator) Available() bool { return a.ctx.Available() }

// Step runs one generation on the device. The returned output is
// valid until the next Step call.
func (a *Accelerator) Step(active, potential []life.Cell) (*life.StepOutput, error) {
	return a.ctx.Step(active, potential)
}

// Timing returns the per-stage breakdown of the most recent step.
func (a *Accelerator) Timing() life.TimingStats {
	t := a.ctx.Timing()
	return life.TimingStats{
		PrepareMS:        t.PrepareMS,
		UploadMS:         t.UploadMS,
		DispatchMS:       t.DispatchMS,
		DownloadMS:       t.DownloadMS,
		TotalMS:          t.TotalMS,
		LastUsedGPU:      t.LastUsedGPU,
		NeighborOverflow: t.NeighborOverflow,
	}
}

// ResetTiming clears the timing record.
func (a *Accelerator) ResetTiming() { a.ctx.ResetTiming() }

// Reset discards device state and any cached acquisition failure.
func (a *Accelerator) Reset() { a.ctx.Reset() }

// Close releases device resources.
func (a *Accelerator) Close() { a.ctx.Close() }

// SetLogger routes the accelerator's internal logging to l. It is
// called automatically when the accelerator is attached to an Engine.
func (a *Accelerator) SetLogger(l *slog.Logger) { igpu.SetLogger(l) }
