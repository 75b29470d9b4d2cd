package life

// Engine advances generations, preferring an attached accelerator and
// falling back to the CPU reference path whenever the accelerated step
// fails or is disabled.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	accel      Accelerator
	gpuEnabled bool

	lastUsedGPU bool
	lastErr     string

	activeScratch    []Cell
	potentialScratch []Cell
}

// NewEngine creates an Engine. With no options it runs on the CPU
// reference path only.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{gpuEnabled: true}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Step computes the next generation of current into next. It returns
// whether the step ran on the accelerator.
//
// next is cleared first. current is not modified.
func (e *Engine) Step(current, next *State) bool {
	next.Clear()

	// An empty world needs no work on either path. Reported as a CPU
	// step so diagnostics never claim device use without a dispatch.
	if len(current.Potential) == 0 {
		e.lastUsedGPU = false
		return false
	}

	if e.accel != nil && e.gpuEnabled {
		if e.stepAccelerated(current, next) {
			e.lastUsedGPU = true
			return true
		}
		// Fall through to the CPU path for this step; the
		// accelerator is retried on the next one.
		next.Clear()
	}

	NextGeneration(current, next)
	e.lastUsedGPU = false
	return false
}

func (e *Engine) stepAccelerated(current, next *State) bool {
	e.activeScratch = current.Active.AppendTo(e.activeScratch[:0])
	e.potentialScratch = current.Potential.AppendTo(e.potentialScratch[:0])

	out, err := e.accel.Step(e.activeScratch, e.potentialScratch)
	if err != nil {
		e.lastErr = err.Error()
		Logger().Warn("accelerated step failed, using cpu path",
			"accelerator", e.accel.Name(), "error", err)
		return false
	}

	e.mergeOutput(current, next, out)
	return true
}

// mergeOutput folds the raw accelerator output back into sparse sets.
//
// The potential set for the next generation always includes every cell
// that is currently active. Neighborhoods of changed cells come from
// the device overflow list when it is complete; when it was truncated
// the neighborhoods are reconstructed on the host from the change
// records instead.
func (e *Engine) mergeOutput(current, next *State, out *StepOutput) {
	for c := range current.Active {
		next.Potential.Add(c)
	}

	changed := 0
	for _, s := range out.States {
		if s.WillBeAlive {
			next.Active.Add(s.Cell)
		}
		if s.Changed() {
			changed++
		}
	}

	if len(out.Neighbors) >= changed*9 {
		for _, c := range out.Neighbors {
			next.Potential.Add(c)
		}
		return
	}

	for _, s := range out.States {
		if s.Changed() {
			stimulateNeighborhood(next.Potential, s.Cell)
		}
	}
}

// SetGPUEnabled toggles use of the attached accelerator. Disabling it
// forces the CPU reference path without releasing device resources.
func (e *Engine) SetGPUEnabled(enabled bool) {
	e.gpuEnabled = enabled
}

// GPUEnabled reports whether accelerated stepping is enabled.
func (e *Engine) GPUEnabled() bool {
	return e.gpuEnabled
}

// GPUAvailable reports whether an accelerator is attached and its
// device can be acquired.
func (e *Engine) GPUAvailable() bool {
	return e.accel != nil && e.accel.Available()
}

// LastStepUsedGPU reports whether the most recent Step ran on the
// accelerator.
func (e *Engine) LastStepUsedGPU() bool {
	return e.lastUsedGPU
}

// LastGPUError returns the message of the most recent accelerated step
// failure, or "" if none has occurred.
func (e *Engine) LastGPUError() string {
	return e.lastErr
}

// Timing returns the attached accelerator's last-step timing.
func (e *Engine) Timing() TimingStats {
	if e.accel == nil {
		return TimingStats{}
	}
	return e.accel.Timing()
}

// ResetTiming clears the attached accelerator's timing record.
func (e *Engine) ResetTiming() {
	if e.accel != nil {
		e.accel.ResetTiming()
	}
}

// ResetCaches discards the attached accelerator's cached device state
// so the next step retries acquisition from scratch.
func (e *Engine) ResetCaches() {
	if e.accel != nil {
		e.accel.Reset()
	}
}

// Close releases accelerator resources. The Engine remains usable on
// the CPU path afterwards.
func (e *Engine) Close() {
	if e.accel != nil {
		releaseLogger(e.accel)
		e.accel.Close()
		e.accel = nil
	}
}
