package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	life "github.com/sam-schorb/game-of-life"
)

// defaultMaxNeighborsCap bounds the per-step overflow buffer when no
// explicit capacity is configured.
const defaultMaxNeighborsCap = 1 << 22

// Config controls device-side stepping.
type Config struct {
	// KernelSource, when non-empty, is the WGSL kernel to compile
	// instead of loading from disk.
	KernelSource string

	// KernelPath, when non-empty, is an explicit kernel file to load
	// instead of probing the standard locations.
	KernelPath string

	// MaxNeighbors fixes the overflow buffer capacity in cells. Zero
	// sizes it per step as 9 per potential cell, capped.
	MaxNeighbors int
}

// Context owns the device, the compiled step pipeline and the cached
// acquisition state. Acquisition is lazy: the first Step or Available
// call opens the device, and a failure is cached until Reset.
type Context struct {
	mu  sync.Mutex
	cfg Config

	instance   hal.Instance
	device     hal.Device
	queue      hal.Queue
	dispatcher *StepDispatcher

	initDone bool
	initErr  error

	timing TimingRecord
}

// NewContext creates an uninitialized Context. No device work happens
// until the first step.
func NewContext(cfg Config) *Context {
	return &Context{cfg: cfg}
}

// Available reports whether the device and pipeline can be acquired,
// performing acquisition if it has not been attempted yet.
func (c *Context) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initLocked() == nil
}

// Step runs one generation on the device.
//
// The returned output aliases internal scratch and is valid until the
// next Step call.
func (c *Context) Step(active, potential []life.Cell) (*life.StepOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.timing = TimingRecord{}

	// Zero workgroups is rejected by some backends; an empty potential
	// set has an empty answer anyway.
	if len(potential) == 0 {
		return &life.StepOutput{}, nil
	}

	if err := c.initLocked(); err != nil {
		return nil, err
	}

	maxNeighbors := c.cfg.MaxNeighbors
	if maxNeighbors <= 0 {
		maxNeighbors = 9 * len(potential)
		if maxNeighbors > defaultMaxNeighborsCap {
			maxNeighbors = defaultMaxNeighborsCap
		}
	}
	if maxNeighbors < 9 {
		maxNeighbors = 9
	}

	start := time.Now()
	out, err := c.dispatcher.Step(active, potential, maxNeighbors, &c.timing)
	c.timing.TotalMS = msSince(start)
	if err != nil {
		return nil, err
	}
	c.timing.LastUsedGPU = true
	c.timing.NeighborOverflow = out.Overflow
	if out.Overflow {
		slogger().Debug("neighbor overflow, host reconstruction engaged",
			"capacity", maxNeighbors)
	}
	return out, nil
}

// Timing returns the most recent step's timing breakdown.
func (c *Context) Timing() TimingRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timing
}

// ResetTiming clears the timing record.
func (c *Context) ResetTiming() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timing = TimingRecord{}
}

// Reset releases device state and clears any cached acquisition
// failure, so the next step retries from scratch.
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	c.initDone = false
	c.initErr = nil
}

// Close releases device state. Unlike Reset, a cached acquisition
// failure is kept.
func (c *Context) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	if c.initErr == nil {
		c.initDone = false
	}
}

func (c *Context) closeLocked() {
	if c.dispatcher != nil {
		c.dispatcher.Destroy()
		c.dispatcher = nil
	}
	if c.device != nil {
		c.device.Destroy()
		c.device = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	c.queue = nil
}

func (c *Context) initLocked() error {
	if c.initDone {
		return c.initErr
	}
	c.initDone = true
	c.initErr = c.acquire()
	if c.initErr != nil {
		c.closeLocked()
		slogger().Info("device acquisition failed, cpu path only", "error", c.initErr)
	}
	return c.initErr
}

func (c *Context) acquire() error {
	source, err := c.kernelSource()
	if err != nil {
		return err
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("%w: vulkan backend not registered", ErrNotAvailable)
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("%w: create instance: %v", ErrNotAvailable, err)
	}
	c.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("%w: no adapters found", ErrNotAvailable)
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("%w: open device: %v", ErrNotAvailable, err)
	}
	c.device = openDev.Device
	c.queue = openDev.Queue

	dispatcher, err := NewStepDispatcher(c.device, c.queue, source)
	if err != nil {
		return err
	}
	c.dispatcher = dispatcher

	slogger().Info("device acquired", "adapter", selected.Info.Name)
	return nil
}

func (c *Context) kernelSource() (string, error) {
	if c.cfg.KernelSource != "" {
		return c.cfg.KernelSource, nil
	}
	if c.cfg.KernelPath != "" {
		data, err := readKernelFile(c.cfg.KernelPath)
		if err != nil {
			return "", err
		}
		return data, nil
	}
	return LocateKernel()
}
