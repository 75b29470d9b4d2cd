package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// minBufferSize is the smallest allocation the hal accepts.
const minBufferSize = 4

// deviceBuffer is a grow-only device allocation. ensure reallocates
// when the requested size exceeds the current capacity and never
// shrinks, so steady-state steps do no buffer churn.
type deviceBuffer struct {
	buf      hal.Buffer
	capacity uint64
	label    string
	usage    gputypes.BufferUsage
}

func (b *deviceBuffer) ensure(device hal.Device, size uint64) error {
	if size < minBufferSize {
		size = minBufferSize
	}
	if b.buf != nil && size <= b.capacity {
		return nil
	}
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf = nil
	}
	buf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.label,
		Size:  size,
		Usage: b.usage,
	})
	if err != nil {
		return fmt.Errorf("create %s buffer (%d bytes): %w", b.label, size, err)
	}
	b.buf = buf
	b.capacity = size
	slogger().Debug("buffer grown", "label", b.label, "bytes", size)
	return nil
}

func (b *deviceBuffer) destroy(device hal.Device) {
	if b.buf != nil {
		device.DestroyBuffer(b.buf)
		b.buf = nil
		b.capacity = 0
	}
}

// stepBuffers holds every device allocation one step needs. The
// growable set tracks the live/potential counts; params and counter
// are fixed-size; the stagings mirror the three readback targets.
type stepBuffers struct {
	params    deviceBuffer
	table     deviceBuffer
	potential deviceBuffer
	results   deviceBuffer
	neighbors deviceBuffer
	counter   deviceBuffer

	resultsStaging   deviceBuffer
	neighborsStaging deviceBuffer
	counterStaging   deviceBuffer
}

func newStepBuffers() *stepBuffers {
	return &stepBuffers{
		params:    deviceBuffer{label: "life-params", usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst},
		table:     deviceBuffer{label: "life-table", usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		potential: deviceBuffer{label: "life-potential", usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		results:   deviceBuffer{label: "life-results", usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc},
		neighbors: deviceBuffer{label: "life-neighbors", usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc},
		counter:   deviceBuffer{label: "life-counter", usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst | gputypes.BufferUsageCopySrc},

		resultsStaging:   deviceBuffer{label: "life-results-staging", usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
		neighborsStaging: deviceBuffer{label: "life-neighbors-staging", usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
		counterStaging:   deviceBuffer{label: "life-counter-staging", usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
	}
}

// ensure sizes every buffer for a step over tableLen table slots,
// potentialLen potential cells and maxNeighbors overflow slots.
func (s *stepBuffers) ensure(device hal.Device, tableLen, potentialLen, maxNeighbors int) error {
	sizes := []struct {
		buf  *deviceBuffer
		size uint64
	}{
		{&s.params, paramsSize},
		{&s.table, uint64(tableLen) * entryWireSize},
		{&s.potential, uint64(potentialLen) * cellWireSize},
		{&s.results, uint64(potentialLen) * stateWireSize},
		{&s.neighbors, uint64(maxNeighbors) * cellWireSize},
		{&s.counter, 4},
		{&s.resultsStaging, uint64(potentialLen) * stateWireSize},
		{&s.neighborsStaging, uint64(maxNeighbors) * cellWireSize},
		{&s.counterStaging, 4},
	}
	for _, e := range sizes {
		if err := e.buf.ensure(device, e.size); err != nil {
			return err
		}
	}
	return nil
}

func (s *stepBuffers) destroy(device hal.Device) {
	for _, b := range []*deviceBuffer{
		&s.params, &s.table, &s.potential, &s.results, &s.neighbors, &s.counter,
		&s.resultsStaging, &s.neighborsStaging, &s.counterStaging,
	} {
		b.destroy(device)
	}
}
