package life

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithAccelerator attaches an accelerator for Step to prefer over the
// CPU reference path. The current package logger is propagated to the
// accelerator if it accepts one.
func WithAccelerator(a Accelerator) EngineOption {
	return func(e *Engine) {
		e.accel = a
		propagateLogger(a)
	}
}

// WithGPUEnabled sets the initial enabled state of the accelerated
// path. The default is enabled.
func WithGPUEnabled(enabled bool) EngineOption {
	return func(e *Engine) {
		e.gpuEnabled = enabled
	}
}
