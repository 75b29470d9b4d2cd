package gpu

import (
	"fmt"

	life "github.com/sam-schorb/game-of-life"
)

// maxTableSize caps the open-addressed table at 2^24 slots. Beyond
// that the step reports ErrTableTooLarge and the engine uses the CPU
// path.
const maxTableSize = 1 << 24

// minTableSize keeps tiny active sets from thrashing the probe loop.
const minTableSize = 64

// hashEntry is one slot of the device hash table. Layout matches the
// 16-byte HashEntry struct in the kernel.
type hashEntry struct {
	X        int32
	Y        int32
	Occupied uint32
	Pad      uint32
}

// packKey folds a coordinate pair into one 64-bit key. The low word is
// the x coordinate, so the table's home slot only needs 32-bit math.
func packKey(x, y int32) uint64 {
	return uint64(uint32(y))<<32 | uint64(uint32(x))
}

// homeSlot is the starting probe slot for a cell. It mirrors the
// kernel's cell_alive entry point bit for bit.
func homeSlot(x int32, mask uint32) uint32 {
	return uint32(x) & mask
}

// tableSizeFor picks a power-of-two table size holding n cells at no
// more than half load, so linear probes always terminate on an empty
// slot.
func tableSizeFor(n int) (uint32, error) {
	size := uint32(minTableSize)
	for int(size) < 2*n {
		size <<= 1
		if size > maxTableSize {
			return 0, fmt.Errorf("%w: %d active cells need more than %d slots",
				ErrTableTooLarge, n, maxTableSize)
		}
	}
	return size, nil
}

// buildHashTable lays the active set out as an open-addressed table
// with linear probing. scratch is reused when large enough.
func buildHashTable(active []life.Cell, scratch []hashEntry) ([]hashEntry, uint32, error) {
	size, err := tableSizeFor(len(active))
	if err != nil {
		return nil, 0, err
	}

	if cap(scratch) < int(size) {
		scratch = make([]hashEntry, size)
	} else {
		scratch = scratch[:size]
		for i := range scratch {
			scratch[i] = hashEntry{}
		}
	}

	mask := size - 1
	for _, c := range active {
		slot := homeSlot(c.X, mask)
		placed := false
		for i := uint32(0); i < size; i++ {
			e := &scratch[slot]
			if e.Occupied == 0 {
				*e = hashEntry{X: c.X, Y: c.Y, Occupied: 1}
				placed = true
				break
			}
			// Duplicate coordinates coalesce to one entry.
			if e.X == c.X && e.Y == c.Y {
				placed = true
				break
			}
			slot = (slot + 1) & mask
		}
		if !placed {
			return nil, 0, fmt.Errorf("%w: table of %d slots filled", ErrTableTooLarge, size)
		}
	}
	return scratch, size, nil
}

// probeTable reports whether the table holds the given cell. Used by
// the host mirror of the kernel and by tests.
func probeTable(table []hashEntry, mask uint32, x, y int32) bool {
	slot := homeSlot(x, mask)
	for i := uint32(0); i < uint32(len(table)); i++ {
		e := table[slot]
		if e.Occupied == 0 {
			return false
		}
		if e.X == x && e.Y == y {
			return true
		}
		slot = (slot + 1) & mask
	}
	return false
}
