package derivative

import (
	"fmt"
	"strings"
)

type note struct {
	applies func(expr, raw string) bool
	text    string
}

// notes are matched against the printed input and raw derivative, not
// against the rules the engine actually used. A note can fire for a
// pattern that played no part in the result. The power note looks for
// "**" in the raw derivative; the printer writes powers as "^", so it
// fires only when a caller passes text in that notation.
var notes = []note{
	{
		func(expr, _ string) bool { return strings.Contains(expr, "sin") || strings.Contains(expr, "cos") },
		"Note: d/dx[sin(x)] = cos(x), d/dx[cos(x)] = -sin(x)",
	},
	{
		func(expr, _ string) bool { return strings.Contains(expr, "exp") || strings.Contains(expr, "e^") },
		"Note: d/dx[e^x] = e^x",
	},
	{
		func(expr, _ string) bool { return strings.Contains(expr, "log") || strings.Contains(expr, "ln") },
		"Note: d/dx[ln(x)] = 1/x",
	},
	{
		func(_, raw string) bool { return strings.Contains(raw, "**") },
		"Power rule applied: d/dx[x^n] = n*x^(n-1)",
	},
}

// Steps narrates a differentiation of expr with respect to v.
func Steps(v, expr, raw, simplified string) []string {
	steps := []string{
		fmt.Sprintf("Original function: f(%s) = %s", v, expr),
		fmt.Sprintf("Finding: d/d%s[%s]", v, expr),
	}
	if raw != simplified {
		steps = append(steps,
			"Derivative (before simplification): "+raw,
			"Simplified: "+simplified)
	} else {
		steps = append(steps, "Derivative: "+raw)
	}
	for _, n := range notes {
		if n.applies(expr, raw) {
			steps = append(steps, n.text)
		}
	}
	return steps
}
