package symcalc

import (
	"errors"
	"fmt"
	"math/big"
)

// ============================================================
// Limits at infinity
// ============================================================

// ErrNoLimit is returned when a limit cannot be determined.
var ErrNoLimit = errors.New("limit could not be determined")

// maxLHopital bounds repeated L'Hôpital steps.
const maxLHopital = 5

// LimitAtInfinity computes lim_{varName -> oo} expr. The result is finite,
// Infinity, or -Infinity.
func LimitAtInfinity(expr Expr, varName string) (Expr, error) {
	r, ok := limInf(expr.Simplify(), varName, maxLHopital)
	if !ok {
		return nil, fmt.Errorf("%w: %s as %s -> oo", ErrNoLimit, expr, varName)
	}
	return r, nil
}

// LimitAtNegInfinity computes lim_{varName -> -oo} expr.
func LimitAtNegInfinity(expr Expr, varName string) (Expr, error) {
	flipped := expr.Sub(varName, negate(S(varName)))
	r, ok := limInf(flipped, varName, maxLHopital)
	if !ok {
		return nil, fmt.Errorf("%w: %s as %s -> -oo", ErrNoLimit, expr, varName)
	}
	return r, nil
}

func signedInf(sign int) Expr {
	if sign < 0 {
		return negInfinity()
	}
	return Infinity
}

// signOf reports the sign of a finite constant, or 0 and false when it is
// zero or cannot be evaluated.
func signOf(e Expr) (int, bool) {
	if s := infSign(e); s != 0 {
		return s, true
	}
	f, ok := e.Evalf()
	if !ok || f == 0 {
		return 0, false
	}
	if f < 0 {
		return -1, true
	}
	return 1, true
}

func isZeroExpr(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsZero()
}

func limInf(e Expr, v string, depth int) (Expr, bool) {
	if !Has(e, v) {
		return e, true
	}
	switch t := e.(type) {
	case *Sym:
		return Infinity, true
	case *Add:
		if num, den, ok := toRational(t, v); ok {
			return rationalLimit(num, den), true
		}
		return limAdd(t, v, depth)
	case *Mul:
		if num, den, ok := toRational(t, v); ok {
			return rationalLimit(num, den), true
		}
		return limMul(t, v, depth)
	case *Pow:
		if num, den, ok := toRational(t, v); ok {
			return rationalLimit(num, den), true
		}
		return limPow(t, v, depth)
	case *Func:
		L, ok := limInf(t.arg, v, depth)
		if !ok {
			return nil, false
		}
		if t.name == "log" && isZeroExpr(L) {
			return negInfinity(), true
		}
		r := funcOf(t.name, L).Simplify()
		if hasInfiniteArg(r) {
			// sin(oo), log(-oo) and friends have no limit.
			return nil, false
		}
		return r, true
	}
	return nil, false
}

func hasInfiniteArg(e Expr) bool {
	switch t := e.(type) {
	case *Func:
		return infSign(t.arg) != 0 || hasInfiniteArg(t.arg)
	case *Mul:
		for _, f := range t.factors {
			if hasInfiniteArg(f) {
				return true
			}
		}
	}
	return false
}

func rationalLimit(num, den ratPoly) Expr {
	dn, dd := num.degree(), den.degree()
	switch {
	case dn < dd:
		return N(0)
	case dn == dd:
		return NRat(new(big.Rat).Quo(num.lead(), den.lead()))
	}
	return signedInf(num.lead().Sign() * den.lead().Sign())
}

func limAdd(a *Add, v string, depth int) (Expr, bool) {
	var finite, logTerms []Expr
	pos, neg := false, false
	for _, term := range a.terms {
		L, ok := limInf(term, v, depth)
		if !ok {
			return nil, false
		}
		switch infSign(L) {
		case 1:
			pos = true
		case -1:
			neg = true
		default:
			finite = append(finite, L)
			continue
		}
		logTerms = append(logTerms, term)
	}
	switch {
	case pos && neg:
		// oo - oo between logarithms: combine into a single log first.
		combined, ok := combineLogs(logTerms)
		if !ok || depth <= 0 {
			return nil, false
		}
		L, ok := limInf(combined, v, depth-1)
		if !ok || infSign(L) != 0 {
			return nil, false
		}
		return AddOf(append(finite, L)...), true
	case pos:
		return Infinity, true
	case neg:
		return negInfinity(), true
	}
	return AddOf(finite...), true
}

// combineLogs rewrites sum(c_i*log(u_i)) as log(prod(u_i^c_i)) for
// rational c_i.
func combineLogs(terms []Expr) (Expr, bool) {
	factors := make([]Expr, 0, len(terms))
	for _, t := range terms {
		c, rest := splitCoeff(t)
		f, ok := rest.(*Func)
		if !ok || f.name != "log" {
			return nil, false
		}
		factors = append(factors, PowOf(f.arg, c))
	}
	return LogOf(MulOf(factors...)), true
}

func limPow(p *Pow, v string, depth int) (Expr, bool) {
	if !Has(p.exp, v) {
		L, ok := limInf(p.base, v, depth)
		if !ok {
			return nil, false
		}
		n, isNum := p.exp.(*Num)
		switch s := infSign(L); {
		case s != 0:
			if !isNum {
				return nil, false
			}
			if n.IsNegative() {
				return N(0), true
			}
			if s > 0 {
				return Infinity, true
			}
			if !n.IsInteger() {
				return nil, false
			}
			if new(big.Int).Rem(n.val.Num(), big.NewInt(2)).Sign() == 0 {
				return Infinity, true
			}
			return negInfinity(), true
		case isZeroExpr(L):
			if isNum && n.IsNegative() {
				return nil, false
			}
			return N(0), true
		}
		return PowOf(L, p.exp), true
	}
	if !Has(p.base, v) {
		L, ok := limInf(p.exp, v, depth)
		if !ok {
			return nil, false
		}
		s := infSign(L)
		if s == 0 {
			return PowOf(p.base, L), true
		}
		b, ok := p.base.Evalf()
		if !ok || b <= 0 {
			return nil, false
		}
		switch {
		case b == 1:
			return N(1), true
		case (b > 1) == (s > 0):
			return Infinity, true
		}
		return N(0), true
	}
	if depth <= 0 {
		return nil, false
	}
	return limInf(ExpOf(MulOf(p.exp, LogOf(p.base))), v, depth-1)
}

// limMul splits a product into numerator and denominator. Decaying
// exponentials move to the denominator so that x*exp(-x) becomes the
// oo/oo form x/exp(x) for L'Hôpital.
func limMul(m *Mul, v string, depth int) (Expr, bool) {
	var num, den []Expr
	for _, f := range m.factors {
		if p, ok := f.(*Pow); ok {
			if en, isNum := p.exp.(*Num); isNum && en.IsNegative() && Has(p.base, v) {
				den = append(den, PowOf(p.base, numNeg(en)))
				continue
			}
		}
		if fn, ok := f.(*Func); ok && fn.name == "exp" {
			if L, ok2 := limInf(fn.arg, v, depth); ok2 && infSign(L) < 0 {
				den = append(den, ExpOf(negate(fn.arg)))
				continue
			}
		}
		num = append(num, f)
	}
	if len(den) == 0 {
		return limProduct(num, v, depth)
	}
	numE, denE := MulOf(num...), MulOf(den...)
	Ln, ok := limInf(numE, v, depth)
	if !ok {
		return nil, false
	}
	Ld, ok := limInf(denE, v, depth)
	if !ok {
		return nil, false
	}
	sn, sd := infSign(Ln), infSign(Ld)
	switch {
	case sd == 0 && !isZeroExpr(Ld):
		if sn != 0 {
			s, ok := signOf(Ld)
			if !ok {
				return nil, false
			}
			return signedInf(sn * s), true
		}
		return MulOf(Ln, recip(Ld)), true
	case sd != 0 && sn == 0:
		return N(0), true
	case (sd != 0 && sn != 0) || (isZeroExpr(Ld) && isZeroExpr(Ln)):
		if depth <= 0 {
			return nil, false
		}
		ratio := MulOf(numE.Diff(v), recip(denE.Diff(v)))
		return limInf(ratio, v, depth-1)
	}
	return nil, false
}

func limProduct(factors []Expr, v string, depth int) (Expr, bool) {
	limits := make([]Expr, len(factors))
	sign, infinite, zero := 1, false, false
	for i, f := range factors {
		L, ok := limInf(f, v, depth)
		if !ok {
			return nil, false
		}
		limits[i] = L
		if s := infSign(L); s != 0 {
			infinite = true
			sign *= s
			continue
		}
		if isZeroExpr(L) {
			zero = true
		}
	}
	switch {
	case infinite && zero:
		return nil, false
	case infinite:
		for _, L := range limits {
			if infSign(L) != 0 {
				continue
			}
			s, ok := signOf(L)
			if !ok {
				return nil, false
			}
			sign *= s
		}
		return signedInf(sign), true
	}
	return MulOf(limits...), true
}
