// Package life implements a sparse, unbounded Conway's Game of Life
// step engine with an optional GPU compute path.
//
// # Overview
//
// The world is stored as two sparse coordinate sets: the active set
// (cells currently alive) and the potential set (cells that must be
// re-evaluated next generation). Because only potential cells are
// visited, the simulation runs on the full signed 32-bit plane without
// ever scanning it.
//
// # Quick Start
//
//	import "github.com/sam-schorb/game-of-life"
//
//	state := life.NewState()
//	state.AddCell(life.Cell{X: 0, Y: 0})
//	state.AddCell(life.Cell{X: 1, Y: 0})
//	state.AddCell(life.Cell{X: 2, Y: 0})
//
//	engine := life.NewEngine()
//	next := life.NewState()
//	engine.Step(state, next)
//
// # GPU Acceleration
//
// The CPU reference engine is the ground truth. A GPU accelerator can
// be injected at construction time; any GPU failure falls back to the
// CPU path for that step, so results are always available:
//
//	import "github.com/sam-schorb/game-of-life/gpu"
//
//	engine := life.NewEngine(life.WithAccelerator(gpu.New()))
//
// Both paths produce set-identical results for identical input.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Cell, CellSet, State, Engine, Accelerator
//   - internal/gpu: hash-table encoder, wgpu compute dispatch, decoder
//   - gpu: public accelerator constructor backed by internal/gpu
package life
