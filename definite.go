package symcalc

import (
	"errors"
	"fmt"
	"math"
)

// ============================================================
// Definite integration
// ============================================================

// ErrDivergent is returned when a definite integral has no value, not
// even an infinite one: oo - oo between the bounds, or a pole that sends
// the integrand to oo on one side and -oo on the other.
var ErrDivergent = errors.New("integral does not converge")

// DefiniteIntegrate evaluates the integral of expr over [lower, upper] by
// the fundamental theorem of calculus. Bounds may be Infinity or
// -Infinity; those ends are evaluated as limits of the antiderivative.
// An integral that diverges to one side evaluates to Infinity or
// -Infinity.
func DefiniteIntegrate(expr Expr, varName string, lower, upper Expr) (Expr, error) {
	expr, lower, upper = expr.Simplify(), lower.Simplify(), upper.Simplify()
	if lower.Equal(upper) {
		return N(0), nil
	}
	anti, err := Integrate(expr, varName)
	if err != nil {
		return nil, err
	}
	sign, err := checkPoles(expr, varName, lower, upper)
	if err != nil {
		return nil, err
	}
	if sign != 0 {
		return signedInf(sign), nil
	}
	if _, ok := lower.Evalf(); ok {
		if _, ok := upper.Evalf(); ok {
			anti = realLogs(anti)
		}
	}

	hi, err := boundValue(anti, varName, upper, -1)
	if err != nil {
		return nil, err
	}
	lo, err := boundValue(anti, varName, lower, 1)
	if err != nil {
		return nil, err
	}
	if s := infSign(hi); s != 0 && s == infSign(lo) {
		return nil, fmt.Errorf("%w: oo - oo between the bounds", ErrDivergent)
	}
	return AddOf(hi, negate(lo)), nil
}

// boundValue evaluates the antiderivative at one end of the interval. side
// is +1 when the integral approaches the bound from above (lower bound)
// and -1 from below (upper bound).
func boundValue(anti Expr, varName string, bound Expr, side int) (Expr, error) {
	switch infSign(bound) {
	case 1:
		return LimitAtInfinity(anti, varName)
	case -1:
		return LimitAtNegInfinity(anti, varName)
	}
	at := anti.Sub(varName, bound)
	if f, ok := at.Evalf(); ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return at, nil
	}
	if _, ok := bound.Evalf(); !ok {
		// Symbolic bound: nothing to evaluate.
		return at, nil
	}
	// Singular at the endpoint: take the one-sided limit with
	// v = bound + side/t as t -> oo.
	t := S(substVar)
	approach := AddOf(bound, MulOf(N(int64(side)), recip(t)))
	r, err := LimitAtInfinity(anti.Sub(varName, approach), substVar)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// checkPoles looks for non-integrable poles p(v)^-k, k >= 1, strictly
// inside the interval. Poles at an endpoint are left to boundValue. It
// returns +1 or -1 when every interior pole sends the integrand to oo or
// -oo on both sides, so the integral diverges to that infinity, and 0 when
// there are none.
func checkPoles(expr Expr, varName string, lower, upper Expr) (int, error) {
	lo, ok1 := lower.Evalf()
	hi, ok2 := upper.Evalf()
	if !ok1 || !ok2 {
		return 0, nil
	}
	orientation := 1
	if lo > hi {
		lo, hi = hi, lo
		orientation = -1
	}
	var roots []float64
	var walk func(e Expr)
	walk = func(e Expr) {
		switch t := e.(type) {
		case *Add:
			for _, x := range t.terms {
				walk(x)
			}
		case *Mul:
			for _, x := range t.factors {
				walk(x)
			}
		case *Func:
			walk(t.arg)
		case *Pow:
			walk(t.base)
			en, isNum := t.exp.(*Num)
			if !isNum || en.Float64() > -1 {
				return
			}
			p, ok := toRatPoly(t.base, varName)
			if !ok {
				return
			}
			if rs, ok := realRootsFloat(p); ok {
				roots = append(roots, rs...)
			}
		}
	}
	walk(expr)

	f := Lambdify(expr, varName)
	sign := 0
	for _, r := range roots {
		if r <= lo || r >= hi {
			continue
		}
		s, pole := poleSign(f, r)
		if !pole {
			continue
		}
		if s == 0 || (sign != 0 && s != sign) {
			return 0, fmt.Errorf("%w: %s has a pole at %s = %g", ErrDivergent, expr, varName, r)
		}
		sign = s
	}
	return sign * orientation, nil
}

// poleSign samples f on both sides of r. pole is false when f stays
// bounded near r, as it does where a factor cancels. s is the common sign
// of f on both sides, or 0 when the sides disagree.
func poleSign(f func(float64) float64, r float64) (s int, pole bool) {
	d := 1e-7 * math.Max(1, math.Abs(r))
	left, right := f(r-d), f(r+d)
	if math.IsNaN(left) || math.IsNaN(right) {
		return 0, true
	}
	if math.Abs(left) < 3*math.Abs(f(r-10*d)) && math.Abs(right) < 3*math.Abs(f(r+10*d)) {
		return 0, false
	}
	switch {
	case left > 0 && right > 0:
		return 1, true
	case left < 0 && right < 0:
		return -1, true
	}
	return 0, true
}

// realLogs rewrites log(u) as log(abs(u)), the real antiderivative form,
// unless u is manifestly non-negative.
func realLogs(e Expr) Expr {
	switch t := e.(type) {
	case *Add:
		terms := make([]Expr, len(t.terms))
		for i, x := range t.terms {
			terms[i] = realLogs(x)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(t.factors))
		for i, x := range t.factors {
			factors[i] = realLogs(x)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(realLogs(t.base), t.exp)
	case *Func:
		arg := realLogs(t.arg)
		if t.name == "log" && !nonNegative(arg) {
			return LogOf(AbsOf(arg))
		}
		return funcOf(t.name, arg).Simplify()
	}
	return e
}

func nonNegative(e Expr) bool {
	switch t := e.(type) {
	case *Num:
		return t.IsPositive()
	case *Const:
		return true
	case *Func:
		return t.name == "exp" || t.name == "cosh" || t.name == "abs"
	case *Pow:
		if n, ok := t.exp.(*Num); ok && n.IsInteger() && n.val.Num().Bit(0) == 0 {
			return true
		}
		return nonNegative(t.base)
	case *Add:
		for _, x := range t.terms {
			if !nonNegative(x) {
				return false
			}
		}
		return true
	case *Mul:
		for _, x := range t.factors {
			if !nonNegative(x) {
				return false
			}
		}
		return true
	}
	return false
}
