// Command lifebench compares CPU and GPU stepping across a set of
// deterministic workloads and prints a timing table.
//
// Usage:
//
//	lifebench [-generations N] [-kernel path] [-gpu=false] [-v]
//
// Each scenario runs twice, once with the accelerator disabled and
// once with it enabled. On machines without a usable device the GPU
// run transparently falls back to the CPU path and the table says so.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	life "github.com/sam-schorb/game-of-life"
	"github.com/sam-schorb/game-of-life/gpu"
)

func main() {
	generations := flag.Int("generations", 0, "override generations per scenario (0 = scenario default)")
	kernelPath := flag.String("kernel", "", "explicit kernel file (default: probe, then bundled)")
	useGPU := flag.Bool("gpu", true, "attempt the GPU path")
	verbose := flag.Bool("v", false, "log device activity to stderr")
	flag.Parse()

	if *verbose {
		life.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var accel *gpu.Accelerator
	if *useGPU {
		opts := []gpu.Option{gpu.WithBundledKernel()}
		if *kernelPath != "" {
			opts = []gpu.Option{gpu.WithKernelPath(*kernelPath)}
		}
		accel = gpu.New(opts...)
		defer accel.Close()
	}

	if err := run(accel, *generations); err != nil {
		fmt.Fprintln(os.Stderr, "lifebench:", err)
		os.Exit(1)
	}
}

func run(accel *gpu.Accelerator, generations int) error {
	table := tablewriter.NewWriter(os.Stdout)
	if err := table.Append([]string{
		"scenario", "gens", "cells", "cpu", "gpu", "speedup",
		"gpu steps", "last step (prep/up/disp/down ms)", "note",
	}); err != nil {
		return err
	}

	for _, sc := range scenarios {
		if generations > 0 {
			sc.Generations = generations
		}

		cpuEngine := life.NewEngine(life.WithGPUEnabled(false))
		cpuResult := sc.Run(cpuEngine)

		gpuCol, speedupCol, stepsCol, stagesCol, noteCol := "-", "-", "-", "-", ""
		if accel != nil {
			accel.ResetTiming()
			gpuEngine := life.NewEngine(life.WithAccelerator(accel))
			gpuResult := sc.Run(gpuEngine)
			if gpuResult.Population != cpuResult.Population {
				return fmt.Errorf("%s: population mismatch, cpu=%d gpu=%d",
					sc.Name, cpuResult.Population, gpuResult.Population)
			}
			gpuCol = gpuResult.Elapsed.Round(10 * time.Microsecond).String()
			speedupCol = fmt.Sprintf("%.2fx", float64(cpuResult.Elapsed)/float64(gpuResult.Elapsed))
			stepsCol = fmt.Sprintf("%d/%d", gpuResult.GPUSteps, sc.Generations)
			if timing := accel.Timing(); timing.LastUsedGPU {
				stagesCol = fmt.Sprintf("%.2f/%.2f/%.2f/%.2f",
					timing.PrepareMS, timing.UploadMS, timing.DispatchMS, timing.DownloadMS)
			}
			if gpuResult.GPUSteps < sc.Generations {
				noteCol = gpuEngine.LastGPUError()
			}
		}

		if err := table.Append([]string{
			sc.Name,
			fmt.Sprintf("%d", sc.Generations),
			fmt.Sprintf("%d", sc.Seed().Population()),
			cpuResult.Elapsed.Round(10 * time.Microsecond).String(),
			gpuCol,
			speedupCol,
			stepsCol,
			stagesCol,
			noteCol,
		}); err != nil {
			return err
		}
	}

	return table.Render()
}
