package integration

import (
	"fmt"
	"math"
	"strings"
)

type note struct {
	applies func(expr string) bool
	text    string
}

func containsAny(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if strings.Contains(s, sub) {
				return true
			}
		}
		return false
	}
}

// indefiniteNotes match the printed integrand only. The 1/x note looks for
// those literal spellings and nothing equivalent.
var indefiniteNotes = []note{
	{containsAny("**", "^"), "Power rule: ∫x^n dx = x^(n+1)/(n+1) + C (for n ≠ -1)"},
	{containsAny("1/x", "x**(-1)"), "Special case: ∫(1/x) dx = ln|x| + C"},
	{containsAny("sin"), "Note: ∫sin(x) dx = -cos(x) + C"},
	{containsAny("cos"), "Note: ∫cos(x) dx = sin(x) + C"},
	{containsAny("exp", "e**"), "Note: ∫e^x dx = e^x + C"},
}

// IndefiniteSteps narrates an antiderivative.
func IndefiniteSteps(v, expr, integral string) []string {
	steps := []string{
		fmt.Sprintf("Original function: f(%s) = %s", v, expr),
		fmt.Sprintf("Finding: ∫(%s) d%s", expr, v),
		fmt.Sprintf("Integral: %s + C", integral),
	}
	for _, n := range indefiniteNotes {
		if n.applies(expr) {
			steps = append(steps, n.text)
		}
	}
	return append(steps, "Remember: C represents the constant of integration")
}

// DefiniteSteps narrates a definite integral. The numeric line is shown
// only when numeric is set and the value is of reasonable size.
func DefiniteSteps(v, expr, lo, hi, anti, integral string, value float64, numeric bool) []string {
	steps := []string{
		fmt.Sprintf("Original function: f(%s) = %s", v, expr),
		fmt.Sprintf("Finding: ∫[%s to %s] (%s) d%s", lo, hi, expr, v),
		fmt.Sprintf("First, find indefinite integral: F(%s) = %s", v, anti),
		fmt.Sprintf("Apply Fundamental Theorem: F(%s) - F(%s)", hi, lo),
		"Result: " + integral,
	}
	if numeric && math.Abs(value) < 1e10 {
		steps = append(steps, fmt.Sprintf("Numerical value: ≈ %.6f", value))
	}
	return steps
}
