package life

// NextGeneration computes one Conway generation from current into
// next, replacing next's contents. It is the CPU reference path: a
// deterministic pure function with no device or goroutine involvement,
// and the correctness oracle for the GPU path.
//
// Every currently-active cell is carried into next.Potential (a live
// cell can die without any neighbor changing, so it must always be
// re-checked). Cells whose classification changed additionally
// stimulate their full 3x3 neighborhood.
func NextGeneration(current, next *State) {
	next.Active = make(CellSet, current.Active.Len())
	next.Potential = make(CellSet, current.Active.Len())

	for c := range current.Active {
		next.Potential.Add(c)
	}

	for c := range current.Potential {
		n := countAliveNeighbors(current.Active, c)
		if current.Active.Has(c) {
			if n == 2 || n == 3 {
				next.Active.Add(c)
			} else {
				// Cell dies: neighbors are stimulated next epoch.
				stimulateNeighborhood(next.Potential, c)
			}
		} else if n == 3 {
			next.Active.Add(c)
			stimulateNeighborhood(next.Potential, c)
		}
	}
}

// countAliveNeighbors returns how many of the 8 surrounding cells are
// in the active set.
func countAliveNeighbors(active CellSet, c Cell) int {
	n := 0
	for _, off := range neighborOffsets {
		if active.Has(c.Offset(off[0], off[1])) {
			n++
		}
	}
	return n
}

// stimulateNeighborhood marks a cell and its 8 neighbors potential.
func stimulateNeighborhood(potential CellSet, c Cell) {
	potential.Add(c)
	for _, off := range neighborOffsets {
		potential.Add(c.Offset(off[0], off[1]))
	}
}
