// Package benchmarks provides a workload harness for the calculator
// simulator. Each workload is a key sequence with a known final display; the
// harness runs it on a fresh system and reports cycle statistics.
package benchmarks

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sarchlab/calcsim/config"
	"github.com/sarchlab/calcsim/timing/system"
)

// Version is reported in JSON output.
const Version = "0.1.0"

// BenchmarkResult holds the results for a single workload run.
type BenchmarkResult struct {
	// Name identifies the workload
	Name string `json:"name"`

	// Description explains what the workload exercises
	Description string `json:"description"`

	// SimulatedCycles is the total number of ticks, including the
	// power-on clear
	SimulatedCycles uint64 `json:"simulated_cycles"`

	// Buttons is the number of keys consumed by the core
	Buttons uint64 `json:"buttons"`

	// CyclesPerKey is SimulatedCycles / Buttons
	CyclesPerKey float64 `json:"cycles_per_key"`

	// Evaluations is the number of ALU requests
	Evaluations uint64 `json:"evaluations"`

	// ALUBusyCycles is the number of ticks the ALU spent computing
	ALUBusyCycles uint64 `json:"alu_busy_cycles"`

	// AdderOps is the number of adder evaluations made by the ALU
	AdderOps uint64 `json:"adder_ops"`

	// DigitsDropped is the number of digits discarded for lack of room
	DigitsDropped uint64 `json:"digits_dropped"`

	// Frames is the number of frames rendered
	Frames int `json:"frames"`

	// LatencyMismatches counts ALU requests that disagreed with the
	// latency table
	LatencyMismatches uint64 `json:"latency_mismatches,omitempty"`

	// Display is the final display text
	Display string `json:"display"`

	// Passed is true when Display matched the expected text
	Passed bool `json:"passed"`

	// Error is set when the run failed
	Error string `json:"error,omitempty"`

	// WallTime is the actual time taken to run the simulation
	WallTime time.Duration `json:"wall_time_ns"`
}

// Benchmark defines a single workload.
type Benchmark struct {
	// Name identifies the workload
	Name string

	// Description explains what the workload exercises
	Description string

	// Keys is the key sequence, in keys.ParseSequence syntax
	Keys string

	// Signed selects two's-complement mode
	Signed bool

	// Expected is the display text after the last key
	Expected string
}

// HarnessConfig configures the benchmark harness.
type HarnessConfig struct {
	// Sim is the simulator configuration. Signed is overridden per
	// workload.
	Sim *config.Config

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// Verbose prints each workload as it runs
	Verbose bool
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Sim:     config.Default(),
		Output:  os.Stdout,
		Verbose: false,
	}
}

// Harness runs workloads and reports results.
type Harness struct {
	config     HarnessConfig
	benchmarks []Benchmark
}

// NewHarness creates a new benchmark harness.
func NewHarness(config HarnessConfig) *Harness {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Sim == nil {
		config.Sim = DefaultConfig().Sim
	}
	return &Harness{
		config:     config,
		benchmarks: []Benchmark{},
	}
}

// AddBenchmark adds a workload to the harness.
func (h *Harness) AddBenchmark(b Benchmark) {
	h.benchmarks = append(h.benchmarks, b)
}

// AddBenchmarks adds multiple workloads to the harness.
func (h *Harness) AddBenchmarks(benchmarks []Benchmark) {
	h.benchmarks = append(h.benchmarks, benchmarks...)
}

// RunAll executes all workloads and returns results.
func (h *Harness) RunAll() []BenchmarkResult {
	results := make([]BenchmarkResult, 0, len(h.benchmarks))

	for _, bench := range h.benchmarks {
		if h.config.Verbose {
			_, _ = fmt.Fprintf(h.config.Output, "running %s\n", bench.Name)
		}
		results = append(results, h.runBenchmark(bench))
	}

	return results
}

// runBenchmark executes a single workload on a fresh system.
func (h *Harness) runBenchmark(bench Benchmark) BenchmarkResult {
	result := BenchmarkResult{
		Name:        bench.Name,
		Description: bench.Description,
	}

	cfg := h.config.Sim.Clone()
	cfg.Signed = bench.Signed

	sys, err := system.FromConfig(cfg)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	start := time.Now()
	err = sys.Enter(bench.Keys)
	result.WallTime = time.Since(start)
	if err != nil {
		result.Error = err.Error()
	}

	stats := sys.Stats()
	result.SimulatedCycles = stats.Cycles
	result.Buttons = stats.Core.Buttons
	result.Evaluations = stats.Core.Evaluations
	result.ALUBusyCycles = stats.ALU.BusyCycles
	result.AdderOps = stats.ALU.AdderOps
	result.DigitsDropped = stats.Core.DigitsDropped
	result.Frames = stats.Frames
	result.LatencyMismatches = stats.LatencyMismatches
	if stats.Core.Buttons > 0 {
		result.CyclesPerKey = float64(stats.Cycles) / float64(stats.Core.Buttons)
	}

	result.Display = sys.Shown().String()
	result.Passed = err == nil && result.Display == bench.Expected

	return result
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output, "=== calcsim Workload Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		status := "ok"
		if !r.Passed {
			status = "FAIL"
		}
		_, _ = fmt.Fprintf(h.config.Output, "Workload: %s [%s]\n", r.Name, status)
		_, _ = fmt.Fprintf(h.config.Output, "  Description: %s\n", r.Description)
		_, _ = fmt.Fprintf(h.config.Output, "  Display: %s\n", r.Display)
		if r.Error != "" {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %s\n", r.Error)
		}
		_, _ = fmt.Fprintln(h.config.Output, "  --- Timing ---")
		_, _ = fmt.Fprintf(h.config.Output, "  Simulated Cycles: %d\n", r.SimulatedCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Buttons:          %d\n", r.Buttons)
		_, _ = fmt.Fprintf(h.config.Output, "  Cycles/Key:       %.2f\n", r.CyclesPerKey)
		_, _ = fmt.Fprintf(h.config.Output, "  Evaluations:      %d\n", r.Evaluations)
		_, _ = fmt.Fprintf(h.config.Output, "  ALU Busy Cycles:  %d\n", r.ALUBusyCycles)
		_, _ = fmt.Fprintf(h.config.Output, "  Adder Ops:        %d\n", r.AdderOps)
		_, _ = fmt.Fprintf(h.config.Output, "  Frames:           %d\n", r.Frames)
		if r.DigitsDropped > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Digits Dropped:   %d\n", r.DigitsDropped)
		}
		if r.LatencyMismatches > 0 {
			_, _ = fmt.Fprintf(h.config.Output, "  Latency Mismatches: %d\n", r.LatencyMismatches)
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs results in CSV format for easy comparison.
func (h *Harness) PrintCSV(results []BenchmarkResult) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,cycles,buttons,cycles_per_key,evaluations,alu_busy_cycles,adder_ops,frames,display,passed")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "%s,%d,%d,%.2f,%d,%d,%d,%d,%s,%v\n",
			r.Name,
			r.SimulatedCycles,
			r.Buttons,
			r.CyclesPerKey,
			r.Evaluations,
			r.ALUBusyCycles,
			r.AdderOps,
			r.Frames,
			r.Display,
			r.Passed,
		)
	}
}

// BenchmarkReport is the complete output format for benchmark results.
type BenchmarkReport struct {
	// Metadata about the benchmark run
	Metadata ReportMetadata `json:"metadata"`

	// Results is the list of individual workload results
	Results []BenchmarkResult `json:"results"`

	// Summary contains aggregate statistics
	Summary ReportSummary `json:"summary"`
}

// ReportMetadata contains information about the benchmark run.
type ReportMetadata struct {
	// Timestamp when the benchmark was run
	Timestamp string `json:"timestamp"`

	// Version of the simulator
	Version string `json:"version"`

	// Config is the simulator configuration used
	Config *config.Config `json:"config"`
}

// ReportSummary contains aggregate statistics across all workloads.
type ReportSummary struct {
	// TotalBenchmarks is the number of workloads run
	TotalBenchmarks int `json:"total_benchmarks"`

	// Passed is the number of workloads whose display matched
	Passed int `json:"passed"`

	// TotalCycles is the sum of all simulated cycles
	TotalCycles uint64 `json:"total_cycles"`

	// TotalButtons is the sum of all keys consumed
	TotalButtons uint64 `json:"total_buttons"`

	// AverageCyclesPerKey is TotalCycles / TotalButtons
	AverageCyclesPerKey float64 `json:"average_cycles_per_key"`

	// TotalWallTime is the total wall clock time for all workloads
	TotalWallTime time.Duration `json:"total_wall_time_ns"`
}

// Summarize computes aggregate statistics for results.
func Summarize(results []BenchmarkResult) ReportSummary {
	s := ReportSummary{TotalBenchmarks: len(results)}
	for _, r := range results {
		s.TotalCycles += r.SimulatedCycles
		s.TotalButtons += r.Buttons
		s.TotalWallTime += r.WallTime
		if r.Passed {
			s.Passed++
		}
	}
	if s.TotalButtons > 0 {
		s.AverageCyclesPerKey = float64(s.TotalCycles) / float64(s.TotalButtons)
	}
	return s
}

// PrintJSON outputs results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []BenchmarkResult) error {
	report := BenchmarkReport{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   Version,
			Config:    h.config.Sim,
		},
		Results: results,
		Summary: Summarize(results),
	}

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
