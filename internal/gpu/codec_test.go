package gpu

import (
	"encoding/binary"
	"testing"

	life "github.com/sam-schorb/game-of-life"
)

func TestEncodeCellsLayout(t *testing.T) {
	cells := []life.Cell{{X: 3, Y: -4}, {X: -1, Y: 7}}
	buf := encodeCells(cells, nil)
	if len(buf) != 2*cellWireSize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), 2*cellWireSize)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[0:])); got != 3 {
		t.Errorf("cell[0].x = %d, want 3", got)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[4:])); got != -4 {
		t.Errorf("cell[0].y = %d, want -4", got)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[8:])); got != -1 {
		t.Errorf("cell[1].x = %d, want -1", got)
	}

	back := decodeCells(buf, len(cells), nil)
	for i := range cells {
		if back[i] != cells[i] {
			t.Errorf("cell %d decoded as %v, want %v", i, back[i], cells[i])
		}
	}
}

func TestEncodeTableLayout(t *testing.T) {
	table := []hashEntry{{X: -9, Y: 2, Occupied: 1}, {}}
	buf := encodeTable(table, nil)
	if len(buf) != 2*entryWireSize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), 2*entryWireSize)
	}
	if got := int32(binary.LittleEndian.Uint32(buf[0:])); got != -9 {
		t.Errorf("entry[0].x = %d, want -9", got)
	}
	if got := binary.LittleEndian.Uint32(buf[8:]); got != 1 {
		t.Errorf("entry[0].occupied = %d, want 1", got)
	}
	for i := entryWireSize; i < 2*entryWireSize; i++ {
		if buf[i] != 0 {
			t.Fatalf("empty entry byte %d = %d, want 0", i, buf[i])
		}
	}
}

func TestEncodeParamsLayout(t *testing.T) {
	buf := encodeParams(1024, 77, 1023, 693, nil)
	if len(buf) != paramsSize {
		t.Fatalf("encoded %d bytes, want %d", len(buf), paramsSize)
	}
	want := []uint32{1024, 77, 1023, 693}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != w {
			t.Errorf("params word %d = %d, want %d", i, got, w)
		}
	}
}

func TestDecodeStates(t *testing.T) {
	raw := make([]byte, 2*stateWireSize)
	negX := int32(-5)
	binary.LittleEndian.PutUint32(raw[0:], uint32(negX))
	binary.LittleEndian.PutUint32(raw[4:], 6)
	binary.LittleEndian.PutUint32(raw[8:], 1)
	binary.LittleEndian.PutUint32(raw[12:], 0)
	binary.LittleEndian.PutUint32(raw[16:], 9)
	binary.LittleEndian.PutUint32(raw[20:], 9)
	binary.LittleEndian.PutUint32(raw[24:], 0)
	binary.LittleEndian.PutUint32(raw[28:], 1)

	states := decodeStates(raw, 2, nil)
	want := []life.CellState{
		{Cell: life.Cell{X: -5, Y: 6}, WasAlive: true, WillBeAlive: false},
		{Cell: life.Cell{X: 9, Y: 9}, WasAlive: false, WillBeAlive: true},
	}
	for i := range want {
		if states[i] != want[i] {
			t.Errorf("state %d = %+v, want %+v", i, states[i], want[i])
		}
	}
	if !states[0].Changed() || !states[1].Changed() {
		t.Error("changed states not reported as changed")
	}
}

func TestEncodeScratchReuse(t *testing.T) {
	cells := []life.Cell{{X: 1, Y: 2}}
	scratch := make([]byte, 0, 64)
	out := encodeCells(cells, scratch)
	if &out[0] != &scratch[:1][0] {
		t.Error("encodeCells reallocated despite sufficient capacity")
	}
}
