// Command benchmark runs the calcsim workload harness.
//
// Usage:
//
//	go run ./cmd/benchmark [flags]
//
// Flags:
//
//	-csv         Output results in CSV format (default: human-readable)
//	-json        Output results as a JSON report
//	-config      Simulator configuration file (JSON or YAML)
//	-quick       Run only the core workloads
//	-repeat      Run the workload set this many times (for profiling)
//	-cpuprofile  Write a CPU profile to this file
//	-memprofile  Write a heap profile to this file
//
// Example:
//
//	# Compare cycle counts with a slow display
//	go run ./cmd/benchmark -config slow-display.yaml -csv > results.csv
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/sarchlab/calcsim/benchmarks"
	"github.com/sarchlab/calcsim/config"
)

func main() {
	csvOutput := flag.Bool("csv", false, "Output results in CSV format")
	jsonOutput := flag.Bool("json", false, "Output results as JSON")
	configPath := flag.String("config", "", "Simulator configuration file")
	quick := flag.Bool("quick", false, "Run only the core workloads")
	repeat := flag.Int("repeat", 1, "Run the workload set this many times")
	cpuProfile := flag.String("cpuprofile", "", "write cpu profile to file")
	memProfile := flag.String("memprofile", "", "write memory profile to file")
	flag.Parse()

	hc := benchmarks.DefaultConfig()
	if *configPath != "" {
		sim, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		hc.Sim = sim
	}

	workloads := benchmarks.GetWorkloads()
	if *quick {
		workloads = benchmarks.GetCoreWorkloads()
	}

	harness := benchmarks.NewHarness(hc)
	for i := 0; i < *repeat; i++ {
		harness.AddBenchmarks(workloads)
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error starting CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if !*csvOutput && !*jsonOutput {
		fmt.Println("calcsim Workload Harness")
		fmt.Println("========================")
		fmt.Printf("Width: %d, display: %s, render latency: %d, key gap: %d\n",
			hc.Sim.Width, hc.Sim.DisplayReady, hc.Sim.RenderLatency, hc.Sim.KeyGap)
		fmt.Println("")
	}

	results := harness.RunAll()

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating memory profile: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()

		if err := pprof.WriteHeapProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing memory profile: %v\n", err)
		}
	}

	switch {
	case *jsonOutput:
		if err := harness.PrintJSON(results); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *csvOutput:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)

		s := benchmarks.Summarize(results)
		fmt.Println("=== Summary ===")
		fmt.Printf("Passed: %d/%d\n", s.Passed, s.TotalBenchmarks)
		fmt.Printf("Total cycles: %d (%.2f per key)\n", s.TotalCycles, s.AverageCyclesPerKey)
	}

	if s := benchmarks.Summarize(results); s.Passed != s.TotalBenchmarks {
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
