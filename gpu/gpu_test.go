// Integration tests for the wgpu accelerator. On machines without a
// usable Vulkan device every test degrades to checking the fallback
// contract rather than failing.
package gpu_test

import (
	"testing"

	life "github.com/sam-schorb/game-of-life"
	"github.com/sam-schorb/game-of-life/gpu"
)

func newTestAccelerator(t *testing.T) *gpu.Accelerator {
	t.Helper()
	accel := gpu.New(gpu.WithBundledKernel())
	t.Cleanup(accel.Close)
	return accel
}

func TestAvailableIsConsistent(t *testing.T) {
	accel := newTestAccelerator(t)
	first := accel.Available()
	for i := 0; i < 3; i++ {
		if accel.Available() != first {
			t.Fatal("Available flapped between calls")
		}
	}
	t.Logf("accelerator available: %v", first)
}

func TestStepMatchesReference(t *testing.T) {
	accel := newTestAccelerator(t)
	if !accel.Available() {
		t.Skip("no usable device")
	}

	engine := life.NewEngine(life.WithAccelerator(accel))
	cur := life.NewState()
	cur.AddRandomCluster(life.Cell{X: 0, Y: 0}, 32, 3)
	next := life.NewState()

	ref := cur.Clone()
	for g := 0; g < 10; g++ {
		usedGPU := engine.Step(cur, next)
		cur, next = next, cur

		refNext := life.NewState()
		life.NextGeneration(ref, refNext)
		ref = refNext

		if !cur.Equal(ref) {
			t.Fatalf("generation %d diverged from reference (gpu=%v)", g+1, usedGPU)
		}
	}

	timing := accel.Timing()
	if engine.LastStepUsedGPU() && !timing.LastUsedGPU {
		t.Error("timing does not record device use")
	}
}

func TestEngineSurvivesMissingDevice(t *testing.T) {
	// Regardless of hardware, the engine must produce exact
	// generations with the accelerator attached.
	accel := newTestAccelerator(t)
	engine := life.NewEngine(life.WithAccelerator(accel))

	cur := life.NewState()
	cur.AddCell(life.Cell{X: -1, Y: 0})
	cur.AddCell(life.Cell{X: 0, Y: 0})
	cur.AddCell(life.Cell{X: 1, Y: 0})
	next := life.NewState()

	engine.Step(cur, next)

	ref := life.NewState()
	life.NextGeneration(cur, ref)
	if !next.Equal(ref) {
		t.Error("step output diverged from reference")
	}
}

func TestMissingKernelIsCached(t *testing.T) {
	accel := gpu.New(gpu.WithKernelPath("/nonexistent/life_step.wgsl"))
	defer accel.Close()

	if accel.Available() {
		t.Fatal("accelerator available with missing kernel")
	}

	engine := life.NewEngine(life.WithAccelerator(accel))
	cur := life.NewState()
	cur.AddCell(life.Cell{X: 0, Y: 0})
	next := life.NewState()

	if engine.Step(cur, next) {
		t.Error("step reported accelerated with missing kernel")
	}
	if engine.LastGPUError() == "" {
		t.Error("missing kernel did not surface as step error")
	}
}

func TestResetClearsCachedFailure(t *testing.T) {
	accel := gpu.New(gpu.WithKernelPath("/nonexistent/life_step.wgsl"))
	defer accel.Close()

	if accel.Available() {
		t.Skip("unexpected kernel at probe path")
	}
	accel.Reset()
	// After Reset the next Available call re-attempts acquisition
	// rather than returning the cached failure. It still fails here,
	// but through a fresh probe.
	if accel.Available() {
		t.Error("missing kernel became available after Reset")
	}
}
