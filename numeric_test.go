package symcalc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/symcalc"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1/3", 1.0 / 3},
		{"pi/2", math.Pi / 2},
		{"exp(1)", math.E},
		{"sqrt(2)", math.Sqrt2},
		{"atan(1)*4", math.Pi},
	}
	for _, tt := range tests {
		got, err := symcalc.Float(mustParse(t, tt.in))
		if err != nil {
			t.Errorf("Float(%s): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Float(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, in := range []string{"x + 1", "log(-1)"} {
		if _, err := symcalc.Float(mustParse(t, in)); !errors.Is(err, symcalc.ErrNotNumeric) {
			t.Errorf("Float(%s) error = %v", in, err)
		}
	}
}

func TestLambdify(t *testing.T) {
	f := symcalc.Lambdify(mustParse(t, "x^2 + 1"), "x")
	if got := f(2); got != 5 {
		t.Errorf("f(2) = %v", got)
	}
	g := symcalc.Lambdify(mustParse(t, "sin(x)*exp(x)"), "x")
	if got, want := g(0.5), math.Sin(0.5)*math.Exp(0.5); math.Abs(got-want) > 1e-15 {
		t.Errorf("g(0.5) = %v, want %v", got, want)
	}
	h := symcalc.Lambdify(mustParse(t, "x + y"), "x")
	if !math.IsNaN(h(1)) {
		t.Error("an unbound symbol evaluates to NaN")
	}
}

func TestQuadrature(t *testing.T) {
	tests := []struct {
		in       string
		a, b     float64
		want     float64
		tolerant float64
	}{
		{"x^2", 0, 1, 1.0 / 3, 1e-12},
		{"x^2", 1, 0, -1.0 / 3, 1e-12},
		{"sin(x)", 0, math.Pi, 2, 1e-12},
		{"exp(-x^2)", 0, 1, 0.746824132812427, 1e-9},
		{"1/(1 + x^2)", -1, 1, math.Pi / 2, 1e-12},
	}
	for _, tt := range tests {
		got, err := symcalc.Quadrature(mustParse(t, tt.in), "x", tt.a, tt.b, 64)
		if err != nil {
			t.Errorf("Quadrature(%s): %v", tt.in, err)
			continue
		}
		if math.Abs(got-tt.want) > tt.tolerant {
			t.Errorf("Quadrature(%s, %v, %v) = %v, want %v", tt.in, tt.a, tt.b, got, tt.want)
		}
	}
}

func TestQuadrature_Errors(t *testing.T) {
	if _, err := symcalc.Quadrature(x, "x", 0, math.Inf(1), 64); !errors.Is(err, symcalc.ErrQuadrature) {
		t.Errorf("infinite bound: %v", err)
	}
	if _, err := symcalc.Quadrature(mustParse(t, "x*y"), "x", 0, 1, 64); !errors.Is(err, symcalc.ErrQuadrature) {
		t.Errorf("free symbol: %v", err)
	}
}
