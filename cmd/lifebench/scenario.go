package main

import (
	"time"

	life "github.com/sam-schorb/game-of-life"
)

// Scenario is one benchmark workload: a deterministic seed grid run
// for a fixed number of generations.
type Scenario struct {
	Name           string
	Generations    int
	Width, Height  int32
	DensityDivisor int32
}

var scenarios = []Scenario{
	{Name: "sparse-64", Generations: 100, Width: 64, Height: 64, DensityDivisor: 7},
	{Name: "dense-128", Generations: 100, Width: 128, Height: 128, DensityDivisor: 3},
	{Name: "sparse-512", Generations: 50, Width: 512, Height: 512, DensityDivisor: 11},
	{Name: "dense-512", Generations: 50, Width: 512, Height: 512, DensityDivisor: 3},
}

// Seed populates a fresh state with the scenario's deterministic grid
// pattern.
func (sc Scenario) Seed() *life.State {
	s := life.NewState()
	for y := int32(0); y < sc.Height; y++ {
		for x := int32(0); x < sc.Width; x++ {
			if (x+y*sc.Width)%sc.DensityDivisor == 0 {
				s.AddCell(life.Cell{X: x, Y: y})
			}
		}
	}
	return s
}

// RunResult summarizes one timed run of a scenario.
type RunResult struct {
	Elapsed    time.Duration
	Population int
	GPUSteps   int
}

// Run advances the scenario's seed state for the configured number of
// generations on the given engine.
func (sc Scenario) Run(engine *life.Engine) RunResult {
	current := sc.Seed()
	next := life.NewState()

	start := time.Now()
	gpuSteps := 0
	for g := 0; g < sc.Generations; g++ {
		if engine.Step(current, next) {
			gpuSteps++
		}
		current, next = next, current
	}
	return RunResult{
		Elapsed:    time.Since(start),
		Population: current.Population(),
		GPUSteps:   gpuSteps,
	}
}
