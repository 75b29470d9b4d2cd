package life

// CellState is the classification of one potential cell after a step:
// whether it was alive going in and whether it is alive coming out.
type CellState struct {
	Cell
	WasAlive    bool
	WillBeAlive bool
}

// Changed reports whether the cell's classification differs from its
// previous state.
func (s CellState) Changed() bool {
	return s.WasAlive != s.WillBeAlive
}

// StepOutput is the raw result of one accelerated generation step,
// before it is merged back into sparse sets.
//
// States holds exactly one record per potential cell. Neighbors is the
// dense overflow list of 3x3 neighborhoods appended by changed cells;
// when Overflow is true the list was truncated at capacity and must
// not be trusted as complete.
type StepOutput struct {
	States    []CellState
	Neighbors []Cell
	Overflow  bool
}

// TimingStats is the per-step timing breakdown of the last accelerated
// generation, in wall-clock milliseconds per stage.
type TimingStats struct {
	PrepareMS  float64
	UploadMS   float64
	DispatchMS float64
	DownloadMS float64
	TotalMS    float64

	// LastUsedGPU reports whether the most recent step ran on the device.
	LastUsedGPU bool

	// NeighborOverflow reports whether the overflow buffer was
	// truncated on the most recent step (degraded decode engaged).
	NeighborOverflow bool
}

// Accelerator computes generation steps on an accelerator device.
//
// Implementations are provided by backend packages (see gpu/). Any
// error returned from Step makes the Engine fall back to the CPU
// reference path for that one step; the accelerator is tried again on
// the next step.
type Accelerator interface {
	// Name returns the accelerator name (e.g. "wgpu").
	Name() string

	// Available reports whether the device is present and
	// initializable. The first call may trigger device acquisition;
	// an acquisition failure is cached for the accelerator lifetime.
	Available() bool

	// Step classifies every potential cell against the active set and
	// collects the neighborhoods of changed cells. The input slices
	// are only read for the duration of the call.
	Step(active, potential []Cell) (*StepOutput, error)

	// Timing returns the last-step timing breakdown.
	Timing() TimingStats

	// ResetTiming clears the timing record between measurement runs.
	ResetTiming()

	// Reset discards cached device state, including a cached
	// acquisition failure, so the next Step retries from scratch.
	Reset()

	// Close releases device resources.
	Close()
}
