package gpu

import (
	"testing"

	life "github.com/sam-schorb/game-of-life"
)

func TestContextStepEmptyPotential(t *testing.T) {
	// No device is needed for an empty step, so this must succeed even
	// where acquisition would fail.
	ctx := NewContext(Config{KernelPath: "/nonexistent/life_step.wgsl"})
	defer ctx.Close()

	out, err := ctx.Step([]life.Cell{{X: 0, Y: 0}}, nil)
	if err != nil {
		t.Fatalf("empty step: %v", err)
	}
	if len(out.States) != 0 || len(out.Neighbors) != 0 || out.Overflow {
		t.Errorf("empty step output = %+v, want empty", out)
	}

	timing := ctx.Timing()
	if timing.LastUsedGPU {
		t.Error("empty step recorded device use")
	}
}
