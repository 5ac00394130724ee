package symcalc_test

import (
	"testing"

	"github.com/njchilds90/symcalc"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(x+1)^2", "x^2 + 2*x + 1"},
		{"x*(x+1)", "x^2 + x"},
		{"(x+1)*(x-1)", "x^2 - 1"},
		{"2*(x+3)", "2*x + 6"},
		{"(x+1)^3", "x^3 + 3*x^2 + 3*x + 1"},
		{"(2*x+1)^3", "8*x^3 + 12*x^2 + 6*x + 1"},
		{"x*(x+1)^2", "x^3 + 2*x^2 + x"},
		{"(x+1)*(x+1)", "x^2 + 2*x + 1"},
		{"(x+1)^2*(x-1)", "x^3 + x^2 - x - 1"},
	}
	for _, tt := range tests {
		if got := symcalc.Expand(mustParse(t, tt.in)).String(); got != tt.want {
			t.Errorf("Expand(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSimplify(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"pythagorean", "sin(x)^2 + cos(x)^2", "1"},
		{"scaled pythagorean", "3*sin(2*x)^2 + 3*cos(2*x)^2 + x", "x + 3"},
		{"cancel", "(x^2 - 1)/(x - 1)", "x + 1"},
		{"keep factored", "(x+1)^2", "(x + 1)^2"},
		{"collect", "x + x + 2*x", "4*x"},
		{"keep factored cube", "(x+1)^3", "(x + 1)^3"},
		{"product of squares", "x*(x+1)^2", "x*(x + 1)^2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := symcalc.Simplify(mustParse(t, tt.in)).String(); got != tt.want {
				t.Errorf("Simplify(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCancel_NotRational(t *testing.T) {
	if _, ok := symcalc.Cancel(mustParse(t, "sin(x)/x")); ok {
		t.Error("sin(x)/x is not a rational function")
	}
	if _, ok := symcalc.Cancel(mustParse(t, "x/y")); ok {
		t.Error("Cancel handles a single variable only")
	}
}

func TestComplexity(t *testing.T) {
	if symcalc.Complexity(x) != 1 || symcalc.Complexity(symcalc.N(7)) != 1 {
		t.Error("atoms score 1")
	}
	if symcalc.Complexity(symcalc.F(1, 2)) <= symcalc.Complexity(symcalc.N(2)) {
		t.Error("fractions score above integers")
	}
	small := mustParse(t, "(x+1)^2")
	large := symcalc.Expand(small)
	if symcalc.Complexity(small) >= symcalc.Complexity(large) {
		t.Errorf("%s should score below %s", small, large)
	}
}

// ============================================================
// Polynomials
// ============================================================

func TestDegree(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"5", 0},
		{"2*x + 3", 1},
		{"x^2 + 3*x + 1", 2},
		{"(x+1)^3", 3},
		{"(2*x+1)^3", 3},
		{"x*(x+1)^2", 3},
		{"x*y^4", 1},
		{"sin(x)", -1},
		{"1/x", -1},
	}
	for _, tt := range tests {
		if got := symcalc.Degree(mustParse(t, tt.in), "x"); got != tt.want {
			t.Errorf("Degree(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestPolyCoeffs(t *testing.T) {
	coeffs, ok := symcalc.PolyCoeffs(mustParse(t, "3*x^2 + 2*x + 1"), "x")
	if !ok {
		t.Fatal("expected a polynomial")
	}
	want := map[int]string{0: "1", 1: "2", 2: "3"}
	if len(coeffs) != len(want) {
		t.Fatalf("coeffs = %v", coeffs)
	}
	for d, w := range want {
		if coeffs[d].String() != w {
			t.Errorf("coeff[%d] = %s, want %s", d, coeffs[d], w)
		}
	}

	coeffs, ok = symcalc.PolyCoeffs(mustParse(t, "a*x^2 + b"), "x")
	if !ok {
		t.Fatal("symbolic coefficients are allowed")
	}
	if coeffs[2].String() != "a" || coeffs[0].String() != "b" {
		t.Errorf("coeffs = %v", coeffs)
	}
	if _, ok := symcalc.PolyCoeffs(mustParse(t, "exp(x)"), "x"); ok {
		t.Error("exp(x) is not a polynomial")
	}
}
