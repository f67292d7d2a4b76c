// Package main provides the entry point for calcsim.
// calcsim is a cycle-level simulator of a four-function hex calculator.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/calcsim/config"
	"github.com/sarchlab/calcsim/script"
	"github.com/sarchlab/calcsim/timing/system"
	"github.com/sarchlab/calcsim/translate"
)

var (
	configPath  = flag.String("config", "", "Path to configuration file (JSON or YAML)")
	saveConfig  = flag.String("save-config", "", "Write the effective configuration to this path and exit")
	width       = flag.Uint("width", 0, "Register width in bits, overrides the configuration")
	signed      = flag.Bool("signed", false, "Start in signed (two's-complement) mode")
	scriptPath  = flag.String("script", "", "Run a Starlark scenario script")
	interactive = flag.Bool("i", false, "Read keys from the terminal")
	frames      = flag.Bool("frames", false, "Print every rendered frame")
	verbose     = flag.Int("v", 0, "Log verbosity: 0 quiet, 1 results, 2 transitions, 3 handshakes")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *saveConfig != "" {
		if err := cfg.Save(*saveConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	sys, err := system.FromConfig(cfg, system.WithLogger(newLogger(*verbose)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *scriptPath != "":
		err = script.Run(*scriptPath, nil, sys, os.Stdout)
	case *interactive:
		err = runInteractive(sys, os.Stdout)
	case flag.NArg() > 0:
		err = runBatch(sys, strings.Join(flag.Args(), " "), os.Stdout)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: calcsim [options] <keys...>\n")
	fmt.Fprintf(os.Stderr, "       calcsim [options] -script scenario.star\n")
	fmt.Fprintf(os.Stderr, "       calcsim [options] -i\n")
	fmt.Fprintf(os.Stderr, "\nKeys: 0-9 A-F, + - * / =, AC, NEG (or ~). Example: calcsim 25+10=\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

// loadConfig reads the configuration file, if any, and applies flag
// overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "width":
			cfg.Width = *width
		case "signed":
			cfg.Signed = *signed
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(v int) logr.Logger {
	if v <= 0 {
		return logr.Discard()
	}
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{Verbosity: v - 1})
}

// runBatch enters a key sequence and reports the display and statistics.
func runBatch(sys *system.System, seq string, w io.Writer) error {
	if err := sys.Enter(seq); err != nil {
		return err
	}

	if *frames {
		for _, f := range sys.Display().Frames() {
			translate.Fprintf(w, "[%d] %s\n", f.Tick, f.String())
		}
	} else {
		fmt.Fprintln(w, sys.Shown().String())
	}

	printStats(sys, w)
	return nil
}

func printStats(sys *system.System, w io.Writer) {
	st := sys.Stats()
	fmt.Fprintln(w)
	translate.Fprintf(w, "Cycles:          %d\n", st.Cycles)
	translate.Fprintf(w, "Buttons:         %d\n", st.Core.Buttons)
	translate.Fprintf(w, "Digits dropped:  %d\n", st.Core.DigitsDropped)
	translate.Fprintf(w, "Evaluations:     %d\n", st.Core.Evaluations)
	translate.Fprintf(w, "Errors:          %d\n", st.Core.Errors)
	translate.Fprintf(w, "Frames:          %d\n", st.Frames)
	translate.Fprintf(w, "ALU busy cycles: %d\n", st.ALU.BusyCycles)
	translate.Fprintf(w, "Adder ops (ALU): %d\n", st.ALU.AdderOps)
	if st.LatencyMismatches > 0 {
		translate.Fprintf(w, "Latency mismatches: %d\n", st.LatencyMismatches)
	}
}
