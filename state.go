package life

import "math/rand"

// State is the sparse world state: the active set holds every living
// cell, the potential set holds every cell that must be re-evaluated
// on the next generation step.
//
// Invariant: any cell that could change state next step is present in
// Potential. Cells outside Potential are assumed unchanged, which is
// what allows unbounded-plane simulation without scanning the plane.
type State struct {
	Active    CellSet
	Potential CellSet
}

// NewState returns an empty world state.
func NewState() *State {
	return &State{
		Active:    make(CellSet),
		Potential: make(CellSet),
	}
}

// AddCell marks a cell alive and stimulates its full 3x3 neighborhood
// for evaluation next step.
func (s *State) AddCell(c Cell) {
	s.Active.Add(c)
	s.Potential.Add(c)
	for _, off := range neighborOffsets {
		s.Potential.Add(c.Offset(off[0], off[1]))
	}
}

// RemoveCell marks a cell dead. The potential set is left untouched;
// the next step re-evaluates the neighborhood anyway.
func (s *State) RemoveCell(c Cell) {
	s.Active.Remove(c)
}

// Alive reports whether the cell is currently alive.
func (s *State) Alive(c Cell) bool {
	return s.Active.Has(c)
}

// Population returns the number of living cells.
func (s *State) Population() int {
	return s.Active.Len()
}

// Clear removes every cell from the world.
func (s *State) Clear() {
	s.Active = make(CellSet)
	s.Potential = make(CellSet)
}

// Clone returns an independent copy of the state.
func (s *State) Clone() *State {
	return &State{
		Active:    s.Active.Clone(),
		Potential: s.Potential.Clone(),
	}
}

// Equal reports whether two states have identical active sets. The
// potential set is a superset bookkeeping detail and is deliberately
// not compared.
func (s *State) Equal(other *State) bool {
	return s.Active.Equal(other.Active)
}

// AddBrush paints a filled square of side 2*size-1 centered on the
// given cell. Size 1 paints a single cell.
func (s *State) AddBrush(center Cell, size int) {
	for dy := -size + 1; dy < size; dy++ {
		for dx := -size + 1; dx < size; dx++ {
			s.AddCell(center.Offset(int32(dx), int32(dy)))
		}
	}
}

// AddRandomCluster adds a roughly 1/3-density random cluster in a
// square of half-width size around the center. The same seed always
// produces the same cluster.
func (s *State) AddRandomCluster(center Cell, size int, seed int64) {
	rng := rand.New(rand.NewSource(seed))
	for dy := -size; dy <= size; dy++ {
		for dx := -size; dx <= size; dx++ {
			if rng.Intn(3) == 0 {
				s.AddCell(center.Offset(int32(dx), int32(dy)))
			}
		}
	}
}
