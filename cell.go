package life

// Cell is a coordinate on the simulation plane. The domain is the full
// signed 32-bit plane; there is no origin bias and no bounds clamp.
type Cell struct {
	X, Y int32
}

// Offset returns the cell translated by (dx, dy).
func (c Cell) Offset(dx, dy int32) Cell {
	return Cell{c.X + dx, c.Y + dy}
}

// neighborOffsets lists the 8 surrounding offsets in row-major order
// (dy outer, dx inner). The GPU kernel walks neighbors in the same
// order so the two paths emit identical neighborhood blocks.
var neighborOffsets = [8][2]int32{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// CellSet is an unordered set of cells.
type CellSet map[Cell]struct{}

// NewCellSet returns a set containing the given cells.
func NewCellSet(cells ...Cell) CellSet {
	s := make(CellSet, len(cells))
	for _, c := range cells {
		s.Add(c)
	}
	return s
}

// Add inserts a cell into the set.
func (s CellSet) Add(c Cell) {
	s[c] = struct{}{}
}

// Remove deletes a cell from the set.
func (s CellSet) Remove(c Cell) {
	delete(s, c)
}

// Has reports whether the cell is in the set.
func (s CellSet) Has(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of cells in the set.
func (s CellSet) Len() int {
	return len(s)
}

// Clone returns an independent copy of the set.
func (s CellSet) Clone() CellSet {
	out := make(CellSet, len(s))
	for c := range s {
		out[c] = struct{}{}
	}
	return out
}

// Equal reports whether both sets contain exactly the same cells.
func (s CellSet) Equal(other CellSet) bool {
	if len(s) != len(other) {
		return false
	}
	for c := range s {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// AppendTo appends all cells to dst and returns the extended slice.
// Order is unspecified. Pass dst[:0] to reuse a scratch slice across
// calls without reallocating.
func (s CellSet) AppendTo(dst []Cell) []Cell {
	if cap(dst)-len(dst) < len(s) {
		grown := make([]Cell, len(dst), len(dst)+len(s))
		copy(grown, dst)
		dst = grown
	}
	for c := range s {
		dst = append(dst, c)
	}
	return dst
}
