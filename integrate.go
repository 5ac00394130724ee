package symcalc

import (
	"errors"
	"fmt"
	"math/big"
)

// ============================================================
// Integration (rule-based symbolic)
// ============================================================

// ErrNoClosedForm is returned when no rule produces an antiderivative.
var ErrNoClosedForm = errors.New("no closed-form antiderivative found")

// maxIntegrateDepth bounds nested rule applications (substitution, parts,
// reduction formulas).
const maxIntegrateDepth = 8

// substVar names the placeholder used during u-substitution. It cannot be
// produced by the parser.
const substVar = "$u"

// Integrate returns an antiderivative of expr with respect to varName,
// without the constant of integration.
func Integrate(expr Expr, varName string) (Expr, error) {
	r, ok := integrate(expr.Simplify(), varName, maxIntegrateDepth)
	if !ok {
		return nil, fmt.Errorf("%w for %s", ErrNoClosedForm, expr)
	}
	return r, nil
}

func integrate(e Expr, v string, depth int) (Expr, bool) {
	if depth <= 0 {
		return nil, false
	}
	if !Has(e, v) {
		return MulOf(e, S(v)), true
	}
	switch t := e.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(t, N(2))), true
	case *Add:
		parts := make([]Expr, len(t.terms))
		for i, term := range t.terms {
			r, ok := integrate(term, v, depth)
			if !ok {
				return integrateRationalExpr(e, v)
			}
			parts[i] = r
		}
		return AddOf(parts...), true
	case *Mul:
		var consts, deps []Expr
		for _, f := range t.factors {
			if Has(f, v) {
				deps = append(deps, f)
			} else {
				consts = append(consts, f)
			}
		}
		if len(consts) > 0 {
			r, ok := integrate(MulOf(deps...), v, depth)
			if !ok {
				return nil, false
			}
			c := MulOf(consts...)
			if sum, isAdd := r.(*Add); isAdd {
				terms := make([]Expr, len(sum.terms))
				for i, term := range sum.terms {
					terms[i] = MulOf(c, term)
				}
				return AddOf(terms...), true
			}
			return MulOf(c, r), true
		}
		return integrateProduct(t, v, depth)
	case *Pow:
		return integratePow(t, v, depth)
	case *Func:
		return integrateFunc(t, v, depth)
	}
	return nil, false
}

// linear matches e = a*v + b with a non-zero and a, b free of v.
func linear(e Expr, v string) (a, b Expr, ok bool) {
	coeffs, isPoly := PolyCoeffs(e, v)
	if !isPoly || len(coeffs) > 2 {
		return nil, nil, false
	}
	a, hasA := coeffs[1]
	if !hasA {
		return nil, nil, false
	}
	b, hasB := coeffs[0]
	if !hasB {
		b = N(0)
	}
	return a, b, true
}

func recip(e Expr) Expr { return PowOf(e, N(-1)) }

// ------------------------------------------------------------
// Powers
// ------------------------------------------------------------

func integratePow(p *Pow, v string, depth int) (Expr, bool) {
	base, exp := p.base, p.exp
	if !Has(exp, v) {
		if a, _, ok := linear(base, v); ok {
			if isNumEqual(exp, -1) {
				return MulOf(recip(a), LogOf(base)), true
			}
			n1 := AddOf(exp, N(1))
			return MulOf(PowOf(base, n1), recip(MulOf(a, n1))), true
		}
		if r, ok := integrateRationalExpr(p, v); ok {
			return r, true
		}
		if r, ok := integrateSqrtQuadratic(base, exp, v); ok {
			return r, true
		}
		if r, ok := integrateTrigPower(base, exp, v, depth); ok {
			return r, true
		}
		if n, isNum := exp.(*Num); isNum && n.IsInteger() && n.IsPositive() {
			if expanded, isAdd := Expand(p).(*Add); isAdd {
				return integrate(expanded, v, depth-1)
			}
		}
		return integrateBySubstitution(p, v, depth)
	}
	if !Has(base, v) {
		if a, _, ok := linear(exp, v); ok {
			return MulOf(p, recip(MulOf(a, LogOf(base)))), true
		}
	}
	return integrateBySubstitution(p, v, depth)
}

// integrateSqrtQuadratic covers (c - k*v^2)^(-1/2) and (c - k*v^2)^(1/2)
// with rational k, c > 0.
func integrateSqrtQuadratic(base, exp Expr, v string) (Expr, bool) {
	n, isNum := exp.(*Num)
	if !isNum || (n.val.Cmp(ratHalf) != 0 && n.val.Cmp(big.NewRat(-1, 2)) != 0) {
		return nil, false
	}
	p, ok := toRatPoly(base, v)
	if !ok || p.degree() != 2 || p[1].Sign() != 0 || p[0].Sign() <= 0 || p[2].Sign() >= 0 {
		return nil, false
	}
	c := NRat(p[0])
	k := NRat(new(big.Rat).Neg(p[2]))
	x := S(v)
	arg := MulOf(SqrtOf(MulOf(k, recip(c))), x)
	if n.IsNegative() {
		return MulOf(recip(SqrtOf(k)), AsinOf(arg)), true
	}
	return AddOf(
		MulOf(F(1, 2), x, SqrtOf(base)),
		MulOf(F(1, 2), c, recip(SqrtOf(k)), AsinOf(arg)),
	), true
}

// integrateTrigPower handles integer powers of sin, cos, tan, sec and csc
// of a linear argument, using reduction formulas for higher powers.
func integrateTrigPower(base, exp Expr, v string, depth int) (Expr, bool) {
	f, isFunc := base.(*Func)
	n, isNum := exp.(*Num)
	if !isFunc || !isNum || !n.IsInteger() || !n.val.Num().IsInt64() {
		return nil, false
	}
	a, _, ok := linear(f.arg, v)
	if !ok {
		return nil, false
	}
	k := n.val.Num().Int64()
	u := f.arg
	x := S(v)
	switch {
	case (f.name == "cos" && k == -2) || (f.name == "sec" && k == 2):
		return MulOf(recip(a), TanOf(u)), true
	case (f.name == "sin" && k == -2) || (f.name == "csc" && k == 2):
		return negate(MulOf(recip(a), CotOf(u))), true
	case f.name == "tan" && k == 2:
		return AddOf(MulOf(recip(a), TanOf(u)), negate(x)), true
	case (f.name == "sin" || f.name == "cos") && k >= 2:
		// sin^k = -sin^(k-1)cos/(k a) + (k-1)/k sin^(k-2)
		// cos^k =  cos^(k-1)sin/(k a) + (k-1)/k cos^(k-2)
		var lead Expr
		if f.name == "sin" {
			lead = MulOf(N(-1), PowOf(SinOf(u), N(k-1)), CosOf(u))
		} else {
			lead = MulOf(PowOf(CosOf(u), N(k-1)), SinOf(u))
		}
		lead = MulOf(lead, recip(MulOf(N(k), a)))
		rest, ok := integrate(PowOf(f, N(k-2)), v, depth-1)
		if !ok {
			return nil, false
		}
		return AddOf(lead, MulOf(F(k-1, k), rest)), true
	}
	return nil, false
}

// ------------------------------------------------------------
// Functions of a linear argument
// ------------------------------------------------------------

func integrateFunc(f *Func, v string, depth int) (Expr, bool) {
	u := f.arg
	if a, _, ok := linear(u, v); ok {
		if anti, ok2 := linearAntiderivative(f.name, u); ok2 {
			return MulOf(anti, recip(a)), true
		}
	}
	if f.name == "exp" {
		if r, ok := integrateGaussian(u, v); ok {
			return r, true
		}
	}
	return integrateBySubstitution(f, v, depth)
}

// linearAntiderivative returns F with F'(u) = name(u).
func linearAntiderivative(name string, u Expr) (Expr, bool) {
	switch name {
	case "sin":
		return negate(CosOf(u)), true
	case "cos":
		return SinOf(u), true
	case "tan":
		return negate(LogOf(CosOf(u))), true
	case "sec":
		return LogOf(AddOf(SecOf(u), TanOf(u))), true
	case "csc":
		return negate(LogOf(AddOf(CscOf(u), CotOf(u)))), true
	case "cot":
		return LogOf(SinOf(u)), true
	case "exp":
		return ExpOf(u), true
	case "log":
		return AddOf(MulOf(u, LogOf(u)), negate(u)), true
	case "sinh":
		return CoshOf(u), true
	case "cosh":
		return SinhOf(u), true
	case "tanh":
		return LogOf(CoshOf(u)), true
	case "atan":
		return AddOf(MulOf(u, AtanOf(u)), MulOf(F(-1, 2), LogOf(AddOf(PowOf(u, N(2)), N(1))))), true
	case "asin":
		return AddOf(MulOf(u, AsinOf(u)), SqrtOf(AddOf(N(1), negate(PowOf(u, N(2)))))), true
	case "acos":
		return AddOf(MulOf(u, AcosOf(u)), negate(SqrtOf(AddOf(N(1), negate(PowOf(u, N(2))))))), true
	case "erf":
		return AddOf(MulOf(u, ErfOf(u)), MulOf(ExpOf(negate(PowOf(u, N(2)))), PowOf(Pi, F(-1, 2)))), true
	case "abs":
		return MulOf(F(1, 2), u, AbsOf(u)), true
	case "sign":
		return AbsOf(u), true
	}
	return nil, false
}

// integrateGaussian covers exp(c*v^2) with rational c < 0.
func integrateGaussian(u Expr, v string) (Expr, bool) {
	p, ok := toRatPoly(u, v)
	if !ok || p.degree() != 2 || p[1].Sign() != 0 || p[0].Sign() != 0 || p[2].Sign() >= 0 {
		return nil, false
	}
	k := NRat(new(big.Rat).Neg(p[2]))
	return MulOf(SqrtOf(Pi), recip(MulOf(N(2), SqrtOf(k))), ErfOf(MulOf(SqrtOf(k), S(v)))), true
}

// ------------------------------------------------------------
// Products
// ------------------------------------------------------------

func integrateProduct(m *Mul, v string, depth int) (Expr, bool) {
	if r, ok := integrateRationalExpr(m, v); ok {
		return r, true
	}
	if r, ok := integrateExpTrig(m.factors, v); ok {
		return r, true
	}
	if expanded, isAdd := Expand(m).(*Add); isAdd {
		if r, ok := integrate(expanded, v, depth-1); ok {
			return r, true
		}
	}
	if r, ok := integrateBySubstitution(m, v, depth); ok {
		return r, true
	}
	return integrateByParts(m.factors, v, depth)
}

// integrateExpTrig covers exp(a v + p) * sin(b v + q) and the cos variant.
func integrateExpTrig(factors []Expr, v string) (Expr, bool) {
	if len(factors) != 2 {
		return nil, false
	}
	ex, isExp := factors[0].(*Func)
	tr, isTrig := factors[1].(*Func)
	if !isExp || ex.name != "exp" {
		ex, isExp = factors[1].(*Func)
		tr, isTrig = factors[0].(*Func)
	}
	if !isExp || !isTrig || ex.name != "exp" || (tr.name != "sin" && tr.name != "cos") {
		return nil, false
	}
	a, _, ok1 := linear(ex.arg, v)
	b, _, ok2 := linear(tr.arg, v)
	if !ok1 || !ok2 {
		return nil, false
	}
	denom := recip(AddOf(PowOf(a, N(2)), PowOf(b, N(2))))
	sin, cos := SinOf(tr.arg), CosOf(tr.arg)
	var inner Expr
	if tr.name == "sin" {
		inner = AddOf(MulOf(a, sin), negate(MulOf(b, cos)))
	} else {
		inner = AddOf(MulOf(a, cos), MulOf(b, sin))
	}
	return Expand(MulOf(ex, inner, denom)), true
}

// integrateByParts handles P(v)*T(v) where P is a polynomial and T is
// either easy to integrate (sin, cos, exp, sinh, cosh, c^v) or easy to
// differentiate into something rational (log, atan, asin, acos).
func integrateByParts(factors []Expr, v string, depth int) (Expr, bool) {
	var polyF []Expr
	var other Expr
	for _, f := range factors {
		if d := Degree(f, v); d >= 1 {
			polyF = append(polyF, f)
			continue
		}
		if other != nil {
			return nil, false
		}
		other = f
	}
	if other == nil || len(polyF) == 0 {
		return nil, false
	}
	P := MulOf(polyF...)

	switch classifyForParts(other, v) {
	case partsIntegrate:
		V, ok := integrate(other, v, depth-1)
		if !ok {
			return nil, false
		}
		rest, ok := integrate(MulOf(P.Diff(v), V), v, depth-1)
		if !ok {
			return nil, false
		}
		return AddOf(MulOf(P, V), negate(rest)), true
	case partsDifferentiate:
		Q, ok := integrate(P, v, depth-1)
		if !ok {
			return nil, false
		}
		rest, ok := integrate(Expand(MulOf(Q, other.Diff(v))), v, depth-1)
		if !ok {
			return nil, false
		}
		return AddOf(MulOf(Q, other), negate(rest)), true
	}
	return nil, false
}

type partsKind int

const (
	partsNone partsKind = iota
	partsIntegrate
	partsDifferentiate
)

func classifyForParts(e Expr, v string) partsKind {
	switch t := e.(type) {
	case *Func:
		if _, _, ok := linear(t.arg, v); !ok {
			if t.name == "log" && Degree(t.arg, v) >= 1 {
				return partsDifferentiate
			}
			return partsNone
		}
		switch t.name {
		case "sin", "cos", "exp", "sinh", "cosh":
			return partsIntegrate
		case "log", "atan", "asin", "acos":
			return partsDifferentiate
		}
	case *Pow:
		if !Has(t.base, v) {
			if _, _, ok := linear(t.exp, v); ok {
				return partsIntegrate
			}
		}
	}
	return partsNone
}

// ------------------------------------------------------------
// Substitution
// ------------------------------------------------------------

// integrateBySubstitution tries u = g(v) for each inner expression g: if
// e / g' can be written in terms of u alone, it integrates in u and
// substitutes back.
func integrateBySubstitution(e Expr, v string, depth int) (Expr, bool) {
	w := S(substVar)
	for _, u := range substitutionCandidates(e, v) {
		du := u.Diff(v)
		if n, isNum := du.(*Num); isNum && n.IsZero() {
			continue
		}
		q := MulOf(e, recip(du))
		qw := replaceExpr(q, u, w)
		if Has(qw, v) {
			qw = replaceExpr(Expand(q), u, w)
			if Has(qw, v) {
				continue
			}
		}
		r, ok := integrate(qw, substVar, depth-1)
		if !ok {
			continue
		}
		return r.Sub(substVar, u), true
	}
	return nil, false
}

func substitutionCandidates(e Expr, v string) []Expr {
	var out []Expr
	seen := map[string]bool{}
	add := func(u Expr) {
		if !Has(u, v) {
			return
		}
		if s, ok := u.(*Sym); ok && s.name == v {
			return
		}
		key := u.String()
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, u)
	}
	var visit func(x Expr, level int)
	visit = func(x Expr, level int) {
		if level > 2 {
			return
		}
		switch t := x.(type) {
		case *Mul:
			for _, f := range t.factors {
				visit(f, level)
			}
		case *Func:
			add(t.arg)
			add(t)
			visit(t.arg, level+1)
		case *Pow:
			add(t.base)
			if Has(t.exp, v) {
				add(t.exp)
			}
			visit(t.base, level+1)
		}
	}
	visit(e, 0)
	return out
}

// replaceExpr replaces each occurrence of target in e by w. When target is
// v^k, v^(m*k) is rewritten to w^m.
func replaceExpr(e, target Expr, w *Sym) Expr {
	if e.Equal(target) {
		return w
	}
	if tp, ok := target.(*Pow); ok {
		if ep, ok2 := e.(*Pow); ok2 && ep.base.Equal(tp.base) {
			ten, ok3 := tp.exp.(*Num)
			een, ok4 := ep.exp.(*Num)
			if ok3 && ok4 {
				ratio := numDiv(een, ten)
				if ratio.IsInteger() {
					return PowOf(w, ratio)
				}
			}
		}
	}
	switch t := e.(type) {
	case *Add:
		terms := make([]Expr, len(t.terms))
		for i, x := range t.terms {
			terms[i] = replaceExpr(x, target, w)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, len(t.factors))
		for i, x := range t.factors {
			factors[i] = replaceExpr(x, target, w)
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(replaceExpr(t.base, target, w), replaceExpr(t.exp, target, w))
	case *Func:
		return funcOf(t.name, replaceExpr(t.arg, target, w)).Simplify()
	}
	return e
}

// ------------------------------------------------------------
// Rational functions
// ------------------------------------------------------------

// integrateRationalExpr integrates N(v)/D(v) with rational coefficients
// when D has degree at most two after cancellation.
func integrateRationalExpr(e Expr, v string) (Expr, bool) {
	num, den, ok := toRational(e, v)
	if !ok || den.degree() > 2 {
		return nil, false
	}
	q, r := polyDivMod(num, den)
	poly := integratePoly(q).toExpr(v)
	if r.isZero() {
		return poly, true
	}
	x := S(v)
	switch den.degree() {
	case 1:
		// den is monic: v + d0.
		return AddOf(poly, MulOf(NRat(r[0]), LogOf(den.toExpr(v)))), true
	case 2:
		return AddOf(poly, integrateQuadraticFraction(r, den, x)), true
	}
	return nil, false
}

func integratePoly(p ratPoly) ratPoly {
	out := make(ratPoly, len(p)+1)
	out[0] = new(big.Rat)
	for i, c := range p {
		out[i+1] = new(big.Rat).Quo(c, big.NewRat(int64(i+1), 1))
	}
	return out.trim()
}

// integrateQuadraticFraction integrates (p v + s)/(v^2 + b v + c).
func integrateQuadraticFraction(r, den ratPoly, x *Sym) Expr {
	s := NRat(r[0])
	p := N(0)
	if len(r) > 1 {
		p = NRat(r[1])
	}
	b, c := den[1], den[0]
	numer := func(at Expr) Expr { return AddOf(MulOf(p, at), s) }
	roots, disc := quadraticRoots(big.NewRat(1, 1), b, c)
	switch {
	case disc > 0:
		r1, r2 := roots[0], roots[1]
		A := MulOf(numer(r1), recip(AddOf(r1, negate(r2))))
		B := MulOf(numer(r2), recip(AddOf(r2, negate(r1))))
		return AddOf(
			Simplify(MulOf(A, LogOf(AddOf(x, negate(r1))))),
			Simplify(MulOf(B, LogOf(AddOf(x, negate(r2))))),
		)
	case disc == 0:
		r0 := roots[0]
		lin := AddOf(x, negate(r0))
		return AddOf(MulOf(p, LogOf(lin)), negate(MulOf(numer(r0), recip(lin))))
	}
	// 4c - b^2 > 0
	kRat := new(big.Rat).Mul(big.NewRat(4, 1), c)
	kRat.Sub(kRat, new(big.Rat).Mul(b, b))
	sq := SqrtOf(NRat(kRat))
	bn := NRat(b)
	logPart := MulOf(F(1, 2), p, LogOf(den.toExpr(x.name)))
	coeff := AddOf(s, negate(MulOf(F(1, 2), p, bn)))
	atanPart := MulOf(N(2), coeff, recip(sq), AtanOf(MulOf(AddOf(MulOf(N(2), x), bn), recip(sq))))
	return AddOf(logPart, atanPart)
}
