package gpu

import (
	"fmt"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	life "github.com/sam-schorb/game-of-life"
)

const (
	// workgroupSize matches @workgroup_size in the kernel.
	workgroupSize = 256

	// maxWorkgroups is the hal's one-dimension dispatch limit.
	maxWorkgroups = 65535

	// maxDispatchCells is the most potential cells one dispatch covers.
	maxDispatchCells = maxWorkgroups * workgroupSize

	// fenceTimeout bounds the wait for step completion. A timeout is
	// reported as a step error, not a hang.
	fenceTimeout = 5 * time.Second
)

// compileKernel compiles WGSL to SPIR-V little-endian 32-bit words.
func compileKernel(wgslSource string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgslSource)
	if err != nil {
		return nil, fmt.Errorf("compile step kernel: %w", err)
	}
	spirvCode := make([]uint32, len(spirvBytes)/4)
	for i := range spirvCode {
		spirvCode[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return spirvCode, nil
}

// StepDispatcher owns the compiled pipeline and the reusable buffers
// for the step kernel on one device.
type StepDispatcher struct {
	device hal.Device
	queue  hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	buffers *stepBuffers

	// Host-side scratch reused across steps.
	tableScratch   []hashEntry
	uploadScratch  []byte
	paramsScratch  []byte
	statesScratch  []life.CellState
	cellsScratch   []life.Cell
	readbackStates []byte
	readbackCells  []byte
}

// NewStepDispatcher compiles the kernel source and builds the
// pipeline on the given device.
func NewStepDispatcher(device hal.Device, queue hal.Queue, kernelSource string) (*StepDispatcher, error) {
	d := &StepDispatcher{
		device:  device,
		queue:   queue,
		buffers: newStepBuffers(),
	}

	spirvCode, err := compileKernel(kernelSource)
	if err != nil {
		return nil, err
	}
	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "life_step",
		Source: hal.ShaderSource{SPIRV: spirvCode},
	})
	if err != nil {
		return nil, fmt.Errorf("create step shader module: %w", err)
	}
	d.shader = shader

	bindLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "life_step_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 3, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 4, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 5, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("create bind group layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "life_step_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	pipeline, err := device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "life_step_pipeline", Layout: pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		d.Destroy()
		return nil, fmt.Errorf("create compute pipeline: %w", err)
	}
	d.pipeline = pipeline

	return d, nil
}

// Destroy releases all pipeline and buffer resources.
func (d *StepDispatcher) Destroy() {
	if d.device == nil {
		return
	}
	if d.buffers != nil {
		d.buffers.destroy(d.device)
	}
	if d.pipeline != nil {
		d.device.DestroyComputePipeline(d.pipeline)
		d.pipeline = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}

// Step runs one generation over the given sets and decodes the raw
// output. Timing for each stage is accumulated into timing.
func (d *StepDispatcher) Step(active, potential []life.Cell, maxNeighbors int, timing *TimingRecord) (*life.StepOutput, error) {
	if len(potential) > maxDispatchCells {
		return nil, fmt.Errorf("%w: %d cells, limit %d", ErrDispatchLimit, len(potential), maxDispatchCells)
	}

	prepareStart := time.Now()
	table, tableSize, err := buildHashTable(active, d.tableScratch)
	if err != nil {
		return nil, err
	}
	d.tableScratch = table
	mask := tableSize - 1
	timing.PrepareMS = msSince(prepareStart)

	uploadStart := time.Now()
	if err := d.buffers.ensure(d.device, len(table), len(potential), maxNeighbors); err != nil {
		return nil, err
	}

	d.paramsScratch = encodeParams(tableSize, uint32(len(potential)), mask, uint32(maxNeighbors), d.paramsScratch)
	d.queue.WriteBuffer(d.buffers.params.buf, 0, d.paramsScratch)

	d.uploadScratch = encodeTable(table, d.uploadScratch)
	d.queue.WriteBuffer(d.buffers.table.buf, 0, d.uploadScratch)

	d.uploadScratch = encodeCells(potential, d.uploadScratch)
	d.queue.WriteBuffer(d.buffers.potential.buf, 0, d.uploadScratch)

	d.queue.WriteBuffer(d.buffers.counter.buf, 0, []byte{0, 0, 0, 0})
	timing.UploadMS = msSince(uploadStart)

	dispatchStart := time.Now()
	resultsSize := uint64(len(potential)) * stateWireSize
	neighborsSize := uint64(maxNeighbors) * cellWireSize
	if err := d.encodeAndSubmit(len(potential), resultsSize, neighborsSize); err != nil {
		return nil, err
	}
	timing.DispatchMS = msSince(dispatchStart)

	downloadStart := time.Now()
	out, err := d.readback(len(potential), maxNeighbors)
	timing.DownloadMS = msSince(downloadStart)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *StepDispatcher) encodeAndSubmit(potentialCount int, resultsSize, neighborsSize uint64) error {
	bindGroup, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "life_step_bind", Layout: d.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: d.buffers.params.buf.NativeHandle(), Offset: 0, Size: paramsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: d.buffers.table.buf.NativeHandle(), Offset: 0, Size: d.buffers.table.capacity}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: d.buffers.potential.buf.NativeHandle(), Offset: 0, Size: d.buffers.potential.capacity}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: d.buffers.results.buf.NativeHandle(), Offset: 0, Size: d.buffers.results.capacity}},
			{Binding: 4, Resource: gputypes.BufferBinding{Buffer: d.buffers.neighbors.buf.NativeHandle(), Offset: 0, Size: d.buffers.neighbors.capacity}},
			{Binding: 5, Resource: gputypes.BufferBinding{Buffer: d.buffers.counter.buf.NativeHandle(), Offset: 0, Size: 4}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer d.device.DestroyBindGroup(bindGroup)

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "life_step_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("life_step"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "life_step_pass"})
	pass.SetPipeline(d.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(uint32((potentialCount+workgroupSize-1)/workgroupSize), 1, 1)
	pass.End()

	encoder.CopyBufferToBuffer(d.buffers.results.buf, d.buffers.resultsStaging.buf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: resultsSize},
	})
	encoder.CopyBufferToBuffer(d.buffers.neighbors.buf, d.buffers.neighborsStaging.buf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: neighborsSize},
	})
	encoder.CopyBufferToBuffer(d.buffers.counter.buf, d.buffers.counterStaging.buf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: 4},
	})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil {
		return fmt.Errorf("wait for step: %w", err)
	}
	if !fenceOK {
		return fmt.Errorf("wait for step: timeout after %s", fenceTimeout)
	}
	return nil
}

func (d *StepDispatcher) readback(potentialCount, maxNeighbors int) (*life.StepOutput, error) {
	statesBytes := potentialCount * stateWireSize
	if cap(d.readbackStates) < statesBytes {
		d.readbackStates = make([]byte, statesBytes)
	}
	d.readbackStates = d.readbackStates[:statesBytes]
	if err := d.queue.ReadBuffer(d.buffers.resultsStaging.buf, 0, d.readbackStates); err != nil {
		return nil, fmt.Errorf("read results: %w", err)
	}

	var counterBytes [4]byte
	if err := d.queue.ReadBuffer(d.buffers.counterStaging.buf, 0, counterBytes[:]); err != nil {
		return nil, fmt.Errorf("read counter: %w", err)
	}
	counter := int(uint32(counterBytes[0]) | uint32(counterBytes[1])<<8 |
		uint32(counterBytes[2])<<16 | uint32(counterBytes[3])<<24)

	// Truncate to capacity. A truncated counter means some changed cell
	// could not reserve its full neighborhood; only whole records below
	// the cap are trusted.
	overflow := counter > maxNeighbors
	valid := counter
	if overflow {
		valid = maxNeighbors - maxNeighbors%9
	}

	cellBytes := valid * cellWireSize
	if cap(d.readbackCells) < cellBytes {
		d.readbackCells = make([]byte, cellBytes)
	}
	d.readbackCells = d.readbackCells[:cellBytes]
	if cellBytes > 0 {
		if err := d.queue.ReadBuffer(d.buffers.neighborsStaging.buf, 0, d.readbackCells); err != nil {
			return nil, fmt.Errorf("read neighbors: %w", err)
		}
	}

	d.statesScratch = decodeStates(d.readbackStates, potentialCount, d.statesScratch)
	d.cellsScratch = decodeCells(d.readbackCells, valid, d.cellsScratch)

	return &life.StepOutput{
		States:    d.statesScratch,
		Neighbors: d.cellsScratch,
		Overflow:  overflow,
	}, nil
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t)) / float64(time.Millisecond)
}
