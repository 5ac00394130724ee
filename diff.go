package symcalc

import (
	"errors"
	"fmt"
)

// ErrNotDifferentiable is returned when an expression contains a piecewise
// constant function (floor, ceil, sign) of the differentiation variable.
var ErrNotDifferentiable = errors.New("expression is not differentiable")

// Diff differentiates expr with respect to varName. The result is in
// canonical form but not simplified; pass it to Simplify for the compact
// form.
func Diff(expr Expr, varName string) (Expr, error) {
	if f := findStep(expr, varName); f != nil {
		return nil, fmt.Errorf("%w: %s has no derivative in %s", ErrNotDifferentiable, f, varName)
	}
	return expr.Diff(varName), nil
}

func findStep(e Expr, varName string) *Func {
	switch v := e.(type) {
	case *Add:
		for _, t := range v.terms {
			if f := findStep(t, varName); f != nil {
				return f
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if s := findStep(f, varName); s != nil {
				return s
			}
		}
	case *Pow:
		if f := findStep(v.base, varName); f != nil {
			return f
		}
		return findStep(v.exp, varName)
	case *Func:
		switch v.name {
		case "floor", "ceil", "sign":
			if Has(v.arg, varName) {
				return v
			}
		}
		return findStep(v.arg, varName)
	}
	return nil
}
