package symcalc

import (
	"math/big"
	"sort"
)

// ============================================================
// Polynomial utilities
// ============================================================

// Degree returns the degree of expr in varName, or -1 when expr is not a
// polynomial in varName.
func Degree(expr Expr, varName string) int {
	coeffs, ok := PolyCoeffs(expr, varName)
	if !ok {
		return -1
	}
	deg := 0
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	return deg
}

// PolyCoeffs maps each power of varName to its coefficient. Coefficients
// may be symbolic but never mention varName. ok is false when expr is not
// a polynomial in varName.
func PolyCoeffs(expr Expr, varName string) (map[int]Expr, bool) {
	out := map[int]Expr{}
	if !extractCoeffs(Expand(expr), varName, out) {
		return nil, false
	}
	for d, c := range out {
		if n, isNum := c.(*Num); isNum && n.IsZero() && d != 0 {
			delete(out, d)
		}
	}
	return out, true
}

func extractCoeffs(e Expr, varName string, out map[int]Expr) bool {
	if add, ok := e.(*Add); ok {
		for _, t := range add.terms {
			if !extractCoeffs(t, varName, out) {
				return false
			}
		}
		return true
	}
	deg, coeff, ok := monomial(e, varName)
	if !ok {
		return false
	}
	if existing, seen := out[deg]; seen {
		out[deg] = AddOf(existing, coeff)
	} else {
		out[deg] = coeff
	}
	return true
}

// monomial splits c*v^k into (k, c).
func monomial(e Expr, varName string) (int, Expr, bool) {
	if !Has(e, varName) {
		return 0, e, true
	}
	switch v := e.(type) {
	case *Sym:
		return 1, N(1), true
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() && n.IsPositive() && n.val.Num().IsInt64() {
				return int(n.val.Num().Int64()), N(1), true
			}
		}
	case *Mul:
		deg := 0
		var coeffs []Expr
		for _, f := range v.factors {
			d, c, ok := monomial(f, varName)
			if !ok {
				return 0, nil, false
			}
			deg += d
			coeffs = append(coeffs, c)
		}
		return deg, MulOf(coeffs...), true
	}
	return 0, nil, false
}

// ------------------------------------------------------------
// Dense polynomials with rational coefficients, index = degree.
// ------------------------------------------------------------

type ratPoly []*big.Rat

// toRatPoly returns the coefficient vector of e when e is a polynomial in
// varName with rational coefficients.
func toRatPoly(e Expr, varName string) (ratPoly, bool) {
	coeffs, ok := PolyCoeffs(e, varName)
	if !ok {
		return nil, false
	}
	deg := 0
	for d := range coeffs {
		if d > deg {
			deg = d
		}
	}
	p := make(ratPoly, deg+1)
	for i := range p {
		p[i] = new(big.Rat)
	}
	for d, c := range coeffs {
		n, isNum := c.(*Num)
		if !isNum {
			return nil, false
		}
		p[d].Set(n.val)
	}
	return p.trim(), true
}

func (p ratPoly) trim() ratPoly {
	for len(p) > 1 && p[len(p)-1].Sign() == 0 {
		p = p[:len(p)-1]
	}
	return p
}

func (p ratPoly) degree() int {
	p = p.trim()
	if len(p) == 1 && p[0].Sign() == 0 {
		return -1
	}
	return len(p) - 1
}

func (p ratPoly) lead() *big.Rat { return p.trim()[len(p.trim())-1] }

func (p ratPoly) isZero() bool { return p.degree() < 0 }

func constPoly(r *big.Rat) ratPoly { return ratPoly{new(big.Rat).Set(r)} }

func polyAdd(a, b ratPoly) ratPoly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(ratPoly, n)
	for i := range out {
		out[i] = new(big.Rat)
		if i < len(a) {
			out[i].Add(out[i], a[i])
		}
		if i < len(b) {
			out[i].Add(out[i], b[i])
		}
	}
	return out.trim()
}

func polyScale(a ratPoly, c *big.Rat) ratPoly {
	out := make(ratPoly, len(a))
	for i := range a {
		out[i] = new(big.Rat).Mul(a[i], c)
	}
	return out.trim()
}

func polyMul(a, b ratPoly) ratPoly {
	out := make(ratPoly, len(a)+len(b)-1)
	for i := range out {
		out[i] = new(big.Rat)
	}
	for i := range a {
		for j := range b {
			out[i+j].Add(out[i+j], new(big.Rat).Mul(a[i], b[j]))
		}
	}
	return out.trim()
}

func polyPow(a ratPoly, n int) ratPoly {
	out := ratPoly{big.NewRat(1, 1)}
	for i := 0; i < n; i++ {
		out = polyMul(out, a)
	}
	return out
}

// polyDivMod divides a by b, which must be non-zero.
func polyDivMod(a, b ratPoly) (q, r ratPoly) {
	b = b.trim()
	r = append(ratPoly(nil), a.trim()...)
	for i := range r {
		r[i] = new(big.Rat).Set(r[i])
	}
	db := b.degree()
	if r.degree() < db {
		return ratPoly{new(big.Rat)}, r
	}
	q = make(ratPoly, r.degree()-db+1)
	for i := range q {
		q[i] = new(big.Rat)
	}
	lead := b[db]
	for r.degree() >= db {
		dr := r.degree()
		c := new(big.Rat).Quo(r[dr], lead)
		q[dr-db] = c
		for i := 0; i <= db; i++ {
			r[dr-db+i].Sub(r[dr-db+i], new(big.Rat).Mul(c, b[i]))
		}
		r = r.trim()
		if r.isZero() {
			break
		}
	}
	return q.trim(), r
}

// polyGCD returns the monic greatest common divisor.
func polyGCD(a, b ratPoly) ratPoly {
	for !b.isZero() {
		_, r := polyDivMod(a, b)
		a, b = b, r
	}
	if a.isZero() {
		return ratPoly{big.NewRat(1, 1)}
	}
	return polyScale(a, new(big.Rat).Inv(a.lead()))
}

// toExpr rebuilds the polynomial as an expression in varName.
func (p ratPoly) toExpr(varName string) Expr {
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		if c.Sign() == 0 {
			continue
		}
		terms = append(terms, MulOf(NRat(c), PowOf(S(varName), N(int64(i)))))
	}
	return AddOf(terms...)
}

// factoredExpr prints c*(x - r)^n when p has a single repeated rational
// root, and the expanded form otherwise.
func (p ratPoly) factoredExpr(varName string) Expr {
	n := p.degree()
	if n < 2 {
		return p.toExpr(varName)
	}
	lead := p.lead()
	r := new(big.Rat).Quo(p[n-1], new(big.Rat).Mul(lead, big.NewRat(int64(n), 1)))
	r.Neg(r)
	candidate := polyScale(polyPow(ratPoly{new(big.Rat).Neg(r), big.NewRat(1, 1)}, n), lead)
	if !polyEqual(candidate, p) {
		return p.toExpr(varName)
	}
	linear := AddOf(S(varName), NRat(new(big.Rat).Neg(r)))
	return MulOf(NRat(lead), PowOf(linear, N(int64(n))))
}

func polyEqual(a, b ratPoly) bool {
	a, b = a.trim(), b.trim()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}

// ------------------------------------------------------------
// Rational functions
// ------------------------------------------------------------

// toRational writes e as num/den with rational polynomial coefficients.
func toRational(e Expr, varName string) (num, den ratPoly, ok bool) {
	one := ratPoly{big.NewRat(1, 1)}
	switch v := e.(type) {
	case *Num:
		return constPoly(v.val), one, true
	case *Sym:
		if v.name != varName {
			return nil, nil, false
		}
		return ratPoly{new(big.Rat), big.NewRat(1, 1)}, one, true
	case *Add:
		num, den = ratPoly{new(big.Rat)}, one
		for _, t := range v.terms {
			n, d, ok := toRational(t, varName)
			if !ok {
				return nil, nil, false
			}
			num = polyAdd(polyMul(num, d), polyMul(n, den))
			den = polyMul(den, d)
		}
		return reduceRational(num, den)
	case *Mul:
		num, den = one, one
		for _, f := range v.factors {
			n, d, ok := toRational(f, varName)
			if !ok {
				return nil, nil, false
			}
			num = polyMul(num, n)
			den = polyMul(den, d)
		}
		return reduceRational(num, den)
	case *Pow:
		en, isNum := v.exp.(*Num)
		if !isNum || !en.IsInteger() || !en.val.Num().IsInt64() {
			return nil, nil, false
		}
		k := en.val.Num().Int64()
		if k > 32 || k < -32 {
			return nil, nil, false
		}
		n, d, ok := toRational(v.base, varName)
		if !ok {
			return nil, nil, false
		}
		if k < 0 {
			n, d, k = d, n, -k
		}
		return polyPow(n, int(k)), polyPow(d, int(k)), true
	}
	return nil, nil, false
}

func reduceRational(num, den ratPoly) (ratPoly, ratPoly, bool) {
	if den.isZero() {
		return nil, nil, false
	}
	g := polyGCD(num, den)
	if g.degree() > 0 {
		num, _ = polyDivMod(num, g)
		den, _ = polyDivMod(den, g)
	}
	// Normalize so the denominator is monic.
	inv := new(big.Rat).Inv(den.lead())
	return polyScale(num, inv), polyScale(den, inv), true
}

// ------------------------------------------------------------
// Roots
// ------------------------------------------------------------

// quadraticRoots solves a*x^2 + b*x + c = 0 exactly over the reals. disc
// reports the sign of the discriminant; roots is empty when it is negative.
func quadraticRoots(a, b, c *big.Rat) (roots []Expr, disc int) {
	d := new(big.Rat).Mul(b, b)
	d.Sub(d, new(big.Rat).Mul(big.NewRat(4, 1), new(big.Rat).Mul(a, c)))
	disc = d.Sign()
	if disc < 0 {
		return nil, disc
	}
	twoA := NRat(new(big.Rat).Mul(big.NewRat(2, 1), a))
	negB := NRat(new(big.Rat).Neg(b))
	sq := SqrtOf(NRat(d))
	r1 := MulOf(AddOf(negB, sq), PowOf(twoA, N(-1)))
	if disc == 0 {
		return []Expr{r1}, disc
	}
	r2 := MulOf(AddOf(negB, negate(sq)), PowOf(twoA, N(-1)))
	return []Expr{r1, r2}, disc
}

// realRootsFloat returns the real roots of polynomials up to degree 2.
func realRootsFloat(p ratPoly) ([]float64, bool) {
	p = p.trim()
	switch p.degree() {
	case 0, -1:
		return nil, true
	case 1:
		r := new(big.Rat).Quo(p[0], p[1])
		f, _ := r.Neg(r).Float64()
		return []float64{f}, true
	case 2:
		roots, _ := quadraticRoots(p[2], p[1], p[0])
		out := make([]float64, 0, len(roots))
		for _, r := range roots {
			if f, ok := r.Evalf(); ok {
				out = append(out, f)
			}
		}
		sort.Float64s(out)
		return out, true
	}
	return nil, false
}
