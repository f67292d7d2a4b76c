package benchmarks

// GetWorkloads returns the standard set of workloads. Each one targets a
// specific part of the core or the ALU.
func GetWorkloads() []Benchmark {
	return []Benchmark{
		digitEntry(),
		digitOverflow(),
		addChain(),
		mulChain(),
		repeatedEquals(),
		divUnsigned(),
		divSigned(),
		divideByZero(),
		mixedOperations(),
	}
}

// GetCoreWorkloads returns a minimal set for quick validation.
func GetCoreWorkloads() []Benchmark {
	return []Benchmark{
		addChain(),
		mulChain(),
		divSigned(),
	}
}

// 1. Digit entry - display round trip per key, no ALU work
func digitEntry() Benchmark {
	return Benchmark{
		Name:        "digit_entry",
		Description: "4 digits into A - measures the per-key display handshake",
		Keys:        "B E E F",
		Expected:    "BEEF",
	}
}

// 2. Digit overflow - digits past the register width are dropped
func digitOverflow() Benchmark {
	return Benchmark{
		Name:        "digit_overflow",
		Description: "8 digits into a 16-bit register - the last 4 are dropped without a display",
		Keys:        "1 2 3 4 5 6 7 8",
		Expected:    "1234",
	}
}

// 3. Add chain - one-cycle ALU operations
func addChain() Benchmark {
	return Benchmark{
		Name:        "add_chain",
		Description: "8 chained additions - single-cycle ALU path",
		Keys:        "1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 =",
		Expected:    "0008",
	}
}

// 4. Mul chain - W-cycle shift-and-add
func mulChain() Benchmark {
	return Benchmark{
		Name:        "mul_chain",
		Description: "3^4 by chained multiplication - shift-and-add loop",
		Keys:        "3 * 3 * 3 * 3 =",
		Expected:    "0051",
	}
}

// 5. Repeated equals - A op A re-evaluation
func repeatedEquals() Benchmark {
	return Benchmark{
		Name:        "repeated_equals",
		Description: "EQUALS pressed three times after MUL - squares the result each time",
		Keys:        "2 * = = =",
		Expected:    "0100",
	}
}

// 6. Unsigned division - W-cycle restoring loop
func divUnsigned() Benchmark {
	return Benchmark{
		Name:        "div_unsigned",
		Description: "FFFF / 3 - unsigned restoring division",
		Keys:        "F F F F / 3 =",
		Expected:    "5555",
	}
}

// 7. Signed division - sign flips and quotient negation
func divSigned() Benchmark {
	return Benchmark{
		Name:        "div_signed",
		Description: "-7FFF / 7 - signed division with a negated quotient",
		Keys:        "NEG 7 F F F / 7 =",
		Signed:      true,
		Expected:    "-1249",
	}
}

// 8. Divide by zero - error path and recovery
func divideByZero() Benchmark {
	return Benchmark{
		Name:        "divide_by_zero",
		Description: "5 / 0 then AC - error detection before any compute cycle",
		Keys:        "5 / 0 = AC",
		Expected:    "0000",
	}
}

// 9. Mixed operations - every operator in one chain
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "25 + 10 = * 2 - 6 / 4 = - all four operators chained left to right",
		Keys:        "2 5 + 1 0 = * 2 - 6 / 4 =",
		Expected:    "0019",
	}
}
