package gpu

import (
	"encoding/binary"

	life "github.com/sam-schorb/game-of-life"
)

// Wire sizes of the kernel's buffer element types, in bytes.
const (
	cellWireSize  = 8  // vec2<i32>
	entryWireSize = 16 // HashEntry
	stateWireSize = 16 // CellState
	paramsSize    = 16 // Params uniform
)

// encodeCells serializes cells as little-endian vec2<i32> pairs into
// buf, which is reused when large enough.
func encodeCells(cells []life.Cell, buf []byte) []byte {
	n := len(cells) * cellWireSize
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	for i, c := range cells {
		off := i * cellWireSize
		binary.LittleEndian.PutUint32(buf[off:], uint32(c.X))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(c.Y))
	}
	return buf
}

// encodeTable serializes the hash table into buf.
func encodeTable(table []hashEntry, buf []byte) []byte {
	n := len(table) * entryWireSize
	if cap(buf) < n {
		buf = make([]byte, n)
	}
	buf = buf[:n]
	for i, e := range table {
		off := i * entryWireSize
		binary.LittleEndian.PutUint32(buf[off:], uint32(e.X))
		binary.LittleEndian.PutUint32(buf[off+4:], uint32(e.Y))
		binary.LittleEndian.PutUint32(buf[off+8:], e.Occupied)
		binary.LittleEndian.PutUint32(buf[off+12:], e.Pad)
	}
	return buf
}

// encodeParams serializes the Params uniform block.
func encodeParams(tableSize, potentialCount, hashMask, maxNeighbors uint32, buf []byte) []byte {
	if cap(buf) < paramsSize {
		buf = make([]byte, paramsSize)
	}
	buf = buf[:paramsSize]
	binary.LittleEndian.PutUint32(buf[0:], tableSize)
	binary.LittleEndian.PutUint32(buf[4:], potentialCount)
	binary.LittleEndian.PutUint32(buf[8:], hashMask)
	binary.LittleEndian.PutUint32(buf[12:], maxNeighbors)
	return buf
}

// decodeStates deserializes count CellState records from data into
// dst, which is reused when large enough.
func decodeStates(data []byte, count int, dst []life.CellState) []life.CellState {
	if cap(dst) < count {
		dst = make([]life.CellState, count)
	}
	dst = dst[:count]
	for i := 0; i < count; i++ {
		off := i * stateWireSize
		dst[i] = life.CellState{
			Cell: life.Cell{
				X: int32(binary.LittleEndian.Uint32(data[off:])),
				Y: int32(binary.LittleEndian.Uint32(data[off+4:])),
			},
			WasAlive:    binary.LittleEndian.Uint32(data[off+8:]) != 0,
			WillBeAlive: binary.LittleEndian.Uint32(data[off+12:]) != 0,
		}
	}
	return dst
}

// decodeCells deserializes count vec2<i32> pairs from data into dst.
func decodeCells(data []byte, count int, dst []life.Cell) []life.Cell {
	if cap(dst) < count {
		dst = make([]life.Cell, count)
	}
	dst = dst[:count]
	for i := 0; i < count; i++ {
		off := i * cellWireSize
		dst[i] = life.Cell{
			X: int32(binary.LittleEndian.Uint32(data[off:])),
			Y: int32(binary.LittleEndian.Uint32(data[off+4:])),
		}
	}
	return dst
}
