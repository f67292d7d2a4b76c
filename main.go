// Package main provides the entry point for calcsim.
// calcsim is a cycle-level simulator of a four-function hex calculator.
//
// For the full CLI, use: go run ./cmd/calcsim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("calcsim - Hex Calculator Core Simulator")
	fmt.Println("")
	fmt.Println("Usage: calcsim [options] <keys...>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -signed    Start in signed (two's-complement) mode")
	fmt.Println("  -width     Register width in bits (default 16)")
	fmt.Println("  -config    Path to a JSON or YAML configuration file")
	fmt.Println("  -script    Run a Starlark scenario script")
	fmt.Println("  -i         Interactive keypad")
	fmt.Println("  -v         Log verbosity")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/calcsim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/calcsim' instead.")
	}
}
