package gpu

import (
	life "github.com/sam-schorb/game-of-life"
)

// runKernelHost executes the step kernel's algorithm on the host,
// including table probing, the atomic-counter reservation scheme and
// capacity truncation. It exists so the device path's decode and merge
// logic can be exercised without a device; it is not a performance
// path.
func runKernelHost(active, potential []life.Cell, maxNeighbors int) (*life.StepOutput, int) {
	table, tableSize, err := buildHashTable(active, nil)
	if err != nil {
		// Host runs are test-sized; table growth never hits the cap.
		panic(err)
	}
	mask := tableSize - 1

	alive := func(x, y int32) bool {
		return probeTable(table, mask, x, y)
	}

	states := make([]life.CellState, len(potential))
	neighbors := make([]life.Cell, 0, maxNeighbors)
	counter := 0

	for i, cell := range potential {
		wasAlive := alive(cell.X, cell.Y)
		count := 0
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				if alive(cell.X+dx, cell.Y+dy) {
					count++
				}
			}
		}

		willBeAlive := count == 3 || (wasAlive && count == 2)
		states[i] = life.CellState{Cell: cell, WasAlive: wasAlive, WillBeAlive: willBeAlive}

		if wasAlive == willBeAlive {
			continue
		}
		base := counter
		counter += 9
		if base+9 > maxNeighbors {
			continue
		}
		neighbors = append(neighbors, cell)
		for dy := int32(-1); dy <= 1; dy++ {
			for dx := int32(-1); dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				neighbors = append(neighbors, life.Cell{X: cell.X + dx, Y: cell.Y + dy})
			}
		}
	}

	return &life.StepOutput{
		States:    states,
		Neighbors: neighbors,
		Overflow:  counter > maxNeighbors,
	}, counter
}
