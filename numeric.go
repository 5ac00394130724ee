package symcalc

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// ============================================================
// Numeric evaluation
// ============================================================

// ErrNotNumeric is returned when an expression has free symbols or leaves
// the real line.
var ErrNotNumeric = errors.New("expression has no real numeric value")

// Float evaluates a closed expression. Infinity evaluates to +Inf.
func Float(e Expr) (float64, error) {
	if syms := FreeSymbols(e); len(syms) > 0 {
		return 0, fmt.Errorf("%w: %s has free symbols", ErrNotNumeric, e)
	}
	f, ok := e.Simplify().Evalf()
	if !ok || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %s", ErrNotNumeric, e)
	}
	return f, nil
}

// Lambdify compiles e into a function of varName. Other free symbols make
// the function return NaN.
func Lambdify(e Expr, varName string) func(float64) float64 {
	switch t := e.(type) {
	case *Num:
		v := t.Float64()
		return func(float64) float64 { return v }
	case *Const:
		v, _ := t.Evalf()
		return func(float64) float64 { return v }
	case *Sym:
		if t.name == varName {
			return func(x float64) float64 { return x }
		}
		return func(float64) float64 { return math.NaN() }
	case *Add:
		fs := lambdifyAll(t.terms, varName)
		return func(x float64) float64 {
			acc := 0.0
			for _, f := range fs {
				acc += f(x)
			}
			return acc
		}
	case *Mul:
		fs := lambdifyAll(t.factors, varName)
		return func(x float64) float64 {
			acc := 1.0
			for _, f := range fs {
				acc *= f(x)
			}
			return acc
		}
	case *Pow:
		base, exp := Lambdify(t.base, varName), Lambdify(t.exp, varName)
		return func(x float64) float64 { return math.Pow(base(x), exp(x)) }
	case *Func:
		arg := Lambdify(t.arg, varName)
		name := t.name
		return func(x float64) float64 {
			r, ok := evalFunc(name, arg(x))
			if !ok {
				return math.NaN()
			}
			return r
		}
	}
	return func(float64) float64 { return math.NaN() }
}

func lambdifyAll(es []Expr, varName string) []func(float64) float64 {
	fs := make([]func(float64) float64, len(es))
	for i, e := range es {
		fs[i] = Lambdify(e, varName)
	}
	return fs
}

// ErrQuadrature is returned when numeric integration produces no finite
// value.
var ErrQuadrature = errors.New("numeric integration failed")

// Quadrature approximates the integral of e over [a, b] with an n-point
// Gauss-Legendre rule. Both bounds must be finite.
func Quadrature(e Expr, varName string, a, b float64, n int) (float64, error) {
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsNaN(a) || math.IsNaN(b) {
		return 0, fmt.Errorf("%w: bounds must be finite", ErrQuadrature)
	}
	if n <= 0 {
		n = 64
	}
	sign := 1.0
	if a > b {
		a, b, sign = b, a, -1
	}
	f := Lambdify(e.Simplify(), varName)
	v := quad.Fixed(f, a, b, n, quad.Legendre{}, 0)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s over [%g, %g]", ErrQuadrature, e, a, b)
	}
	return sign * v, nil
}
