package gpu

import (
	"testing"

	life "github.com/sam-schorb/game-of-life"
)

// hostAccelerator runs the kernel algorithm on the host, standing in
// for a device in engine-level tests.
type hostAccelerator struct {
	maxNeighbors int
}

func (h *hostAccelerator) Name() string             { return "host" }
func (h *hostAccelerator) Available() bool          { return true }
func (h *hostAccelerator) Timing() life.TimingStats { return life.TimingStats{} }
func (h *hostAccelerator) ResetTiming()             {}
func (h *hostAccelerator) Reset()                   {}
func (h *hostAccelerator) Close()                   {}

func (h *hostAccelerator) Step(active, potential []life.Cell) (*life.StepOutput, error) {
	max := h.maxNeighbors
	if max <= 0 {
		max = 9 * len(potential)
	}
	out, _ := runKernelHost(active, potential, max)
	return out, nil
}

func flatten(s life.CellSet) []life.Cell {
	return s.AppendTo(nil)
}

// TestKernelHostRuleCases drives every survive/birth rule case through
// the kernel algorithm and checks the classification against the
// reference path.
func TestKernelHostRuleCases(t *testing.T) {
	offsets := [8][2]int32{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
	tests := []struct {
		name      string
		alive     bool
		neighbors int
		want      bool
	}{
		{"dead cell with 2 neighbors stays dead", false, 2, false},
		{"dead cell with 3 neighbors is born", false, 3, true},
		{"dead cell with 4 neighbors stays dead", false, 4, false},
		{"live cell with 0 neighbors dies", true, 0, false},
		{"live cell with 1 neighbor dies", true, 1, false},
		{"live cell with 2 neighbors survives", true, 2, true},
		{"live cell with 3 neighbors survives", true, 3, true},
		{"live cell with 4 neighbors dies", true, 4, false},
		{"live cell with 8 neighbors dies", true, 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := life.NewState()
			center := life.Cell{X: 0, Y: 0}
			if tt.alive {
				s.AddCell(center)
			}
			for i := 0; i < tt.neighbors; i++ {
				s.AddCell(center.Offset(offsets[i][0], offsets[i][1]))
			}

			out, _ := runKernelHost(flatten(s.Active), flatten(s.Potential), 9*s.Potential.Len())

			found := false
			for _, st := range out.States {
				if st.Cell != center {
					continue
				}
				found = true
				if st.WasAlive != tt.alive {
					t.Errorf("wasAlive = %v, want %v", st.WasAlive, tt.alive)
				}
				if st.WillBeAlive != tt.want {
					t.Errorf("willBeAlive = %v, want %v", st.WillBeAlive, tt.want)
				}
			}
			if !found {
				t.Fatal("center cell missing from results")
			}

			// The whole field must classify identically to the
			// reference path, not just the center.
			ref := life.NewState()
			life.NextGeneration(s, ref)
			for _, st := range out.States {
				if st.WillBeAlive != ref.Alive(st.Cell) {
					t.Errorf("cell %v willBeAlive = %v, reference says %v",
						st.Cell, st.WillBeAlive, ref.Alive(st.Cell))
				}
			}
		})
	}
}

func TestKernelHostBlinker(t *testing.T) {
	s := life.NewState()
	for _, c := range []life.Cell{{X: -1, Y: 0}, {X: 0, Y: 0}, {X: 1, Y: 0}} {
		s.AddCell(c)
	}

	out, counter := runKernelHost(flatten(s.Active), flatten(s.Potential), 9*s.Potential.Len())

	if len(out.States) != s.Potential.Len() {
		t.Fatalf("got %d states, want %d", len(out.States), s.Potential.Len())
	}

	changed := 0
	for _, st := range out.States {
		want := st.X == 0 && st.Y >= -1 && st.Y <= 1
		if st.WillBeAlive != want {
			t.Errorf("cell (%d, %d) willBeAlive = %v, want %v", st.X, st.Y, st.WillBeAlive, want)
		}
		if st.Changed() {
			changed++
		}
	}
	// The blinker flips four cells: two deaths, two births.
	if changed != 4 {
		t.Errorf("changed cells = %d, want 4", changed)
	}
	if counter != 9*changed {
		t.Errorf("counter = %d, want %d", counter, 9*changed)
	}
	if out.Overflow {
		t.Error("unexpected overflow")
	}
	if len(out.Neighbors) != counter {
		t.Errorf("neighbors = %d, want %d", len(out.Neighbors), counter)
	}
}

func TestKernelHostCounterTracksChanges(t *testing.T) {
	s := life.NewState()
	s.AddRandomCluster(life.Cell{X: 0, Y: 0}, 16, 5)

	out, counter := runKernelHost(flatten(s.Active), flatten(s.Potential), 9*s.Potential.Len())
	changed := 0
	for _, st := range out.States {
		if st.Changed() {
			changed++
		}
	}
	if counter != 9*changed {
		t.Errorf("counter = %d, want 9*%d", counter, changed)
	}
}

func TestKernelHostOverflowTruncates(t *testing.T) {
	// Two lone cells die, so two neighborhoods want recording, but
	// capacity only admits one.
	active := []life.Cell{{X: 0, Y: 0}, {X: 100, Y: 100}}
	s := life.NewState()
	for _, c := range active {
		s.AddCell(c)
	}

	out, counter := runKernelHost(flatten(s.Active), flatten(s.Potential), 9)

	if counter != 18 {
		t.Fatalf("counter = %d, want 18", counter)
	}
	if !out.Overflow {
		t.Fatal("overflow not reported")
	}
	if len(out.Neighbors) != 9 {
		t.Fatalf("neighbors = %d, want 9", len(out.Neighbors))
	}

	// The one recorded neighborhood must be complete and belong to a
	// single changed cell.
	center := out.Neighbors[0]
	seen := life.NewCellSet(out.Neighbors...)
	for dy := int32(-1); dy <= 1; dy++ {
		for dx := int32(-1); dx <= 1; dx++ {
			if !seen.Has(center.Offset(dx, dy)) {
				t.Errorf("recorded neighborhood missing (%d, %d)", dx, dy)
			}
		}
	}
}

// TestEngineWithHostAcceleratorMatchesReference drives the public
// engine through the kernel algorithm for many generations and checks
// it against the reference path.
func TestEngineWithHostAcceleratorMatchesReference(t *testing.T) {
	accel := &hostAccelerator{}
	engine := life.NewEngine(life.WithAccelerator(accel))

	cur := life.NewState()
	cur.AddRandomCluster(life.Cell{X: 0, Y: 0}, 24, 11)
	next := life.NewState()

	ref := cur.Clone()
	for g := 0; g < 20; g++ {
		if !engine.Step(cur, next) {
			t.Fatalf("generation %d: accelerated step not taken", g)
		}
		cur, next = next, cur

		refNext := life.NewState()
		life.NextGeneration(ref, refNext)
		ref = refNext

		if !cur.Equal(ref) {
			t.Fatalf("generation %d diverged from reference", g+1)
		}
	}
}

// TestEngineWithTruncatingHostAccelerator forces overflow on nearly
// every step and checks the engine still produces exact generations.
func TestEngineWithTruncatingHostAccelerator(t *testing.T) {
	accel := &hostAccelerator{maxNeighbors: 18}
	engine := life.NewEngine(life.WithAccelerator(accel))

	cur := life.NewState()
	cur.AddRandomCluster(life.Cell{X: 0, Y: 0}, 24, 13)
	next := life.NewState()

	ref := cur.Clone()
	for g := 0; g < 20; g++ {
		engine.Step(cur, next)
		cur, next = next, cur

		refNext := life.NewState()
		life.NextGeneration(ref, refNext)
		ref = refNext

		if !cur.Equal(ref) {
			t.Fatalf("generation %d diverged from reference", g+1)
		}
		if !cur.Potential.Equal(ref.Potential) {
			t.Fatalf("generation %d potential set diverged", g+1)
		}
	}
}
