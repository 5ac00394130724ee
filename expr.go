// Package symcalc is the symbolic kernel behind the calculator services.
//
// Expressions are immutable trees. Every constructor (AddOf, MulOf, PowOf,
// SinOf, ...) returns a canonical form: like terms and like bases are
// combined, exact rationals are folded, and term order is deterministic, so
// two equal expressions print the same way.
package symcalc

import (
	"math"
	"math/big"
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

type Expr interface {
	Simplify() Expr
	String() string
	LaTeX() string
	Sub(varName string, value Expr) Expr
	Diff(varName string) Expr
	Evalf() (float64, bool)
	Equal(other Expr) bool
	exprType() string
}

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }
func F(p, q int64) *Num {
	if q == 0 {
		panic("symcalc: denominator is zero")
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}
func NRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

// NFloat converts a finite float exactly. It panics on NaN or Inf.
func NFloat(f float64) *Num {
	r := new(big.Rat)
	if r.SetFloat64(f) == nil {
		panic("symcalc: NFloat of non-finite value")
	}
	return &Num{val: r}
}

func (n *Num) Simplify() Expr        { return n }
func (n *Num) Sub(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr      { return N(0) }
func (n *Num) Evalf() (float64, bool) {
	f, _ := n.val.Float64()
	return f, true
}
func (n *Num) Equal(other Expr) bool { o, ok := other.(*Num); return ok && n.val.Cmp(o.val) == 0 }
func (n *Num) exprType() string      { return "num" }
func (n *Num) Float64() float64      { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool          { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool           { return n.val.Cmp(ratOne) == 0 }
func (n *Num) IsNegOne() bool        { return n.val.Cmp(ratNegOne) == 0 }
func (n *Num) IsInteger() bool       { return n.val.IsInt() }
func (n *Num) Rat() *big.Rat         { return new(big.Rat).Set(n.val) }
func (n *Num) IsPositive() bool      { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool      { return n.val.Sign() < 0 }

var (
	ratOne    = big.NewRat(1, 1)
	ratNegOne = big.NewRat(-1, 1)
	ratHalf   = big.NewRat(1, 2)
)

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic("symcalc: division by zero")
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num    { return &Num{val: new(big.Rat).Abs(a.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

// maxExactPower bounds exact integer powers so that 10^100000 style input
// cannot allocate without limit. Larger powers stay unevaluated.
const maxExactPower = 512

func numPowInt(b *Num, e int64) (*Num, bool) {
	if e > maxExactPower || e < -maxExactPower {
		return nil, false
	}
	if b.IsZero() && e < 0 {
		return nil, false
	}
	abs := e
	if abs < 0 {
		abs = -abs
	}
	num := new(big.Int).Exp(b.val.Num(), big.NewInt(abs), nil)
	den := new(big.Int).Exp(b.val.Denom(), big.NewInt(abs), nil)
	r := new(big.Rat).SetFrac(num, den)
	if e < 0 {
		r.Inv(r)
	}
	return &Num{val: r}, true
}

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym      { return &Sym{name: name} }
func (s *Sym) Simplify() Expr { return s }
func (s *Sym) Evalf() (float64, bool) {
	return 0, false
}
func (s *Sym) Equal(other Expr) bool { o, ok := other.(*Sym); return ok && s.name == o.name }
func (s *Sym) exprType() string      { return "sym" }
func (s *Sym) Name() string          { return s.name }
func (s *Sym) Sub(varName string, value Expr) Expr {
	if s.name == varName {
		return value
	}
	return s
}
func (s *Sym) Diff(varName string) Expr {
	if s.name == varName {
		return N(1)
	}
	return N(0)
}

// ============================================================
// Const: named mathematical constants
// ============================================================

type Const struct{ name string }

var (
	E        = &Const{name: "E"}
	Pi       = &Const{name: "pi"}
	Infinity = &Const{name: "oo"}
)

func (c *Const) Simplify() Expr        { return c }
func (c *Const) Sub(string, Expr) Expr { return c }
func (c *Const) Diff(string) Expr      { return N(0) }
func (c *Const) Equal(other Expr) bool { o, ok := other.(*Const); return ok && c.name == o.name }
func (c *Const) exprType() string      { return "const" }
func (c *Const) Evalf() (float64, bool) {
	switch c.name {
	case "E":
		return math.E, true
	case "pi":
		return math.Pi, true
	case "oo":
		return math.Inf(1), true
	}
	return 0, false
}

func negInfinity() Expr { return &Mul{factors: []Expr{N(-1), Infinity}} }

// infSign reports +1 for oo, -1 for -oo and 0 for anything else.
func infSign(e Expr) int {
	switch v := e.(type) {
	case *Const:
		if v.name == "oo" {
			return 1
		}
	case *Mul:
		if len(v.factors) == 2 {
			if c, ok := v.factors[0].(*Num); ok && c.IsNegative() {
				if k, ok := v.factors[1].(*Const); ok && k.name == "oo" {
					return -1
				}
			}
		}
	}
	return 0
}

// IsInfinite reports whether e is oo or -oo.
func IsInfinite(e Expr) bool { return infSign(e) != 0 }

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

func AddOf(terms ...Expr) Expr { return (&Add{terms: terms}).Simplify() }

func (a *Add) Simplify() Expr {
	flat := make([]Expr, 0, len(a.terms))
	for _, t := range a.terms {
		s := t.Simplify()
		if inner, ok := s.(*Add); ok {
			flat = append(flat, inner.terms...)
		} else {
			flat = append(flat, s)
		}
	}

	// Like terms share the same non-numeric part, keyed by its printed form.
	type like struct {
		rest  Expr
		coeff *Num
	}
	numAccum := N(0)
	likes := []*like{}
	index := map[string]*like{}
	posInf, negInf := false, false
	for _, t := range flat {
		if n, ok := t.(*Num); ok {
			numAccum = numAdd(numAccum, n)
			continue
		}
		switch infSign(t) {
		case 1:
			posInf = true
			continue
		case -1:
			negInf = true
			continue
		}
		coeff, rest := splitCoeff(t)
		key := rest.String()
		if l, seen := index[key]; seen {
			l.coeff = numAdd(l.coeff, coeff)
			continue
		}
		l := &like{rest: rest, coeff: coeff}
		index[key] = l
		likes = append(likes, l)
	}
	if posInf && !negInf {
		return Infinity
	}
	if negInf && !posInf {
		return negInfinity()
	}

	result := make([]Expr, 0, len(likes)+1)
	for _, l := range likes {
		if l.coeff.IsZero() {
			continue
		}
		result = append(result, scale(l.coeff, l.rest))
	}
	sortTerms(result)
	if !numAccum.IsZero() {
		result = append(result, numAccum)
	}
	if posInf && negInf {
		// oo - oo is left unevaluated for the caller to reject.
		result = append(result, Infinity, negInfinity())
	}
	if len(result) == 0 {
		return N(0)
	}
	if len(result) == 1 {
		return result[0]
	}
	return &Add{terms: result}
}

func scale(coeff *Num, e Expr) Expr {
	if coeff.IsOne() {
		return e
	}
	return MulOf(coeff, e)
}

// splitCoeff separates the leading rational coefficient of a product.
func splitCoeff(e Expr) (*Num, Expr) {
	if m, ok := e.(*Mul); ok && len(m.factors) >= 2 {
		if c, ok2 := m.factors[0].(*Num); ok2 {
			rest := m.factors[1:]
			if len(rest) == 1 {
				return c, rest[0]
			}
			return c, &Mul{factors: rest}
		}
	}
	return N(1), e
}

// sortTerms orders terms by descending polynomial degree, then by text.
func sortTerms(terms []Expr) {
	type keyed struct {
		e   Expr
		deg float64
		key string
	}
	ks := make([]keyed, len(terms))
	for i, t := range terms {
		_, rest := splitCoeff(t)
		ks[i] = keyed{e: t, deg: degreeKey(rest), key: rest.String()}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].deg != ks[j].deg {
			return ks[i].deg > ks[j].deg
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		terms[i] = ks[i].e
	}
}

func degreeKey(e Expr) float64 {
	switch v := e.(type) {
	case *Sym:
		return 1
	case *Pow:
		if _, ok := v.base.(*Sym); ok {
			if n, ok2 := v.exp.(*Num); ok2 {
				return n.Float64()
			}
		}
	case *Mul:
		total := 0.0
		for _, f := range v.factors {
			total += degreeKey(f)
		}
		return total
	}
	return 0
}

func (a *Add) Sub(varName string, value Expr) Expr {
	newTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		newTerms[i] = t.Sub(varName, value)
	}
	return AddOf(newTerms...)
}

func (a *Add) Diff(varName string) Expr {
	dTerms := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		dTerms[i] = t.Diff(varName)
	}
	return AddOf(dTerms...)
}

func (a *Add) Evalf() (float64, bool) {
	acc := 0.0
	for _, t := range a.terms {
		v, ok := t.Evalf()
		if !ok {
			return 0, false
		}
		acc += v
	}
	return acc, true
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) exprType() string { return "add" }
func (a *Add) Terms() []Expr    { return a.terms }

// ============================================================
// Mul: product of factors
// ============================================================

type Mul struct{ factors []Expr }

func MulOf(factors ...Expr) Expr { return (&Mul{factors: factors}).Simplify() }

func (m *Mul) Simplify() Expr {
	flat := make([]Expr, 0, len(m.factors))
	for _, f := range m.factors {
		s := f.Simplify()
		if inner, ok := s.(*Mul); ok {
			flat = append(flat, inner.factors...)
		} else {
			flat = append(flat, s)
		}
	}

	// Like bases are merged by summing their exponents; exp() factors
	// are merged by summing their arguments.
	type power struct {
		base Expr
		exps []Expr
	}
	coeff := N(1)
	powers := []*power{}
	index := map[string]*power{}
	expArgs := []Expr{}
	inf := false
	for _, f := range flat {
		switch v := f.(type) {
		case *Num:
			coeff = numMul(coeff, v)
			continue
		case *Const:
			if v.name == "oo" {
				inf = true
				continue
			}
		case *Func:
			if v.name == "exp" {
				expArgs = append(expArgs, v.arg)
				continue
			}
		}
		base, exp := f, Expr(N(1))
		if p, ok := f.(*Pow); ok {
			base, exp = p.base, p.exp
		}
		key := base.String()
		if p, seen := index[key]; seen {
			p.exps = append(p.exps, exp)
			continue
		}
		p := &power{base: base, exps: []Expr{exp}}
		index[key] = p
		powers = append(powers, p)
	}
	if coeff.IsZero() {
		return N(0)
	}
	if inf && len(powers) == 0 && len(expArgs) == 0 {
		if coeff.IsNegative() {
			return negInfinity()
		}
		return Infinity
	}

	others := []Expr{}
	leftovers := []Expr{}
	for _, p := range powers {
		combined := PowOf(p.base, AddOf(p.exps...))
		switch c := combined.(type) {
		case *Num:
			coeff = numMul(coeff, c)
		case *Mul:
			leftovers = append(leftovers, c)
		default:
			others = append(others, combined)
		}
	}
	if len(expArgs) > 0 {
		switch c := ExpOf(AddOf(expArgs...)).(type) {
		case *Num:
			coeff = numMul(coeff, c)
		case *Func:
			others = append(others, c)
		default:
			leftovers = append(leftovers, c)
		}
	}
	if inf {
		others = append(others, Infinity)
	}
	if len(leftovers) > 0 {
		return MulOf(append(append([]Expr{coeff}, others...), leftovers...)...)
	}
	if coeff.IsZero() {
		return N(0)
	}
	sortFactors(others)

	if len(others) == 0 {
		return coeff
	}
	if coeff.IsOne() {
		if len(others) == 1 {
			return others[0]
		}
		return &Mul{factors: others}
	}
	return &Mul{factors: append([]Expr{coeff}, others...)}
}

// sortFactors puts constants first, then symbols and their powers, then
// everything else; ties are broken by printed form.
func sortFactors(fs []Expr) {
	type keyed struct {
		e     Expr
		class int
		key   string
	}
	ks := make([]keyed, len(fs))
	for i, f := range fs {
		class, key := 2, f.String()
		switch v := f.(type) {
		case *Const:
			class = 0
		case *Sym:
			class = 1
		case *Pow:
			switch b := v.base.(type) {
			case *Num, *Const:
				class = 0
			case *Sym:
				class, key = 1, b.name
			}
		}
		ks[i] = keyed{e: f, class: class, key: key}
	}
	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].class != ks[j].class {
			return ks[i].class < ks[j].class
		}
		return ks[i].key < ks[j].key
	})
	for i := range ks {
		fs[i] = ks[i].e
	}
}

func (m *Mul) Sub(varName string, value Expr) Expr {
	newFactors := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		newFactors[i] = f.Sub(varName, value)
	}
	return MulOf(newFactors...)
}

func (m *Mul) Diff(varName string) Expr {
	terms := make([]Expr, len(m.factors))
	for i, fi := range m.factors {
		dfi := fi.Diff(varName)
		others := make([]Expr, 0, len(m.factors)-1)
		for j, fj := range m.factors {
			if j != i {
				others = append(others, fj)
			}
		}
		if len(others) == 0 {
			terms[i] = dfi
		} else {
			terms[i] = MulOf(append([]Expr{dfi}, others...)...)
		}
	}
	return AddOf(terms...)
}

func (m *Mul) Evalf() (float64, bool) {
	acc := 1.0
	for _, f := range m.factors {
		v, ok := f.Evalf()
		if !ok {
			return 0, false
		}
		acc *= v
	}
	return acc, true
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) exprType() string { return "mul" }
func (m *Mul) Factors() []Expr  { return m.factors }

// ============================================================
// Pow: base^exponent
// ============================================================

type Pow struct{ base, exp Expr }

func PowOf(base, exp Expr) Expr { return (&Pow{base: base, exp: exp}).Simplify() }
func SqrtOf(arg Expr) Expr      { return PowOf(arg, F(1, 2)) }

func (p *Pow) Simplify() Expr {
	base := p.base.Simplify()
	exp := p.exp.Simplify()

	en, expIsNum := exp.(*Num)
	if expIsNum && en.IsZero() {
		return N(1)
	}
	if expIsNum && en.IsOne() {
		return base
	}

	switch b := base.(type) {
	case *Num:
		if b.IsZero() {
			// 0^negative is a pole; leave it for Evalf to report.
			if expIsNum && en.IsNegative() {
				return &Pow{base: base, exp: exp}
			}
			return N(0)
		}
		if b.IsOne() {
			return N(1)
		}
		if expIsNum {
			if r, ok := numPow(b, en); ok {
				return r
			}
		}
	case *Const:
		if b.name == "E" {
			return ExpOf(exp)
		}
		if b.name == "oo" && expIsNum {
			if en.IsNegative() {
				return N(0)
			}
			return Infinity
		}
	case *Pow:
		if expIsNum && en.IsInteger() {
			return PowOf(b.base, MulOf(b.exp, exp))
		}
	case *Mul:
		if expIsNum && en.IsInteger() {
			factors := make([]Expr, len(b.factors))
			for i, f := range b.factors {
				factors[i] = PowOf(f, exp)
			}
			return MulOf(factors...)
		}
	case *Func:
		if b.name == "exp" && expIsNum {
			return ExpOf(MulOf(b.arg, exp))
		}
	}
	return &Pow{base: base, exp: exp}
}

// numPow evaluates b^e exactly when the result is rational, and pulls
// square factors out of integer square roots (sqrt(8) = 2*sqrt(2)).
func numPow(b, e *Num) (Expr, bool) {
	if !e.val.Num().IsInt64() {
		return nil, false
	}
	if e.IsInteger() {
		r, ok := numPowInt(b, e.val.Num().Int64())
		if !ok {
			return nil, false
		}
		return r, true
	}
	if b.IsNegative() {
		return nil, false
	}
	q := e.val.Denom()
	if !q.IsInt64() || q.Int64() > 12 {
		return nil, false
	}
	root, ok := ratRoot(b.val, q.Int64())
	if ok {
		return numPowInt(&Num{val: root}, e.val.Num().Int64())
	}
	if q.Int64() == 2 && b.IsInteger() && e.val.Num().IsInt64() {
		k, rest := squareFactor(b.val.Num())
		if k.Cmp(big.NewInt(1)) != 0 {
			p := e.val.Num().Int64()
			outer, ok := numPowInt(&Num{val: new(big.Rat).SetInt(k)}, p)
			if !ok {
				return nil, false
			}
			return MulOf(outer, &Pow{base: &Num{val: new(big.Rat).SetInt(rest)}, exp: e}), true
		}
	}
	return nil, false
}

// ratRoot returns the exact q-th root of a non-negative rational.
func ratRoot(r *big.Rat, q int64) (*big.Rat, bool) {
	num, ok := intRoot(r.Num(), q)
	if !ok {
		return nil, false
	}
	den, ok := intRoot(r.Denom(), q)
	if !ok {
		return nil, false
	}
	return new(big.Rat).SetFrac(num, den), true
}

func intRoot(n *big.Int, q int64) (*big.Int, bool) {
	if n.Sign() < 0 {
		return nil, false
	}
	if q == 2 {
		s := new(big.Int).Sqrt(n)
		return s, new(big.Int).Mul(s, s).Cmp(n) == 0
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	guess := int64(math.Round(math.Pow(f, 1/float64(q))))
	for _, c := range []int64{guess - 1, guess, guess + 1} {
		if c < 0 {
			continue
		}
		cb := big.NewInt(c)
		if new(big.Int).Exp(cb, big.NewInt(q), nil).Cmp(n) == 0 {
			return cb, true
		}
	}
	return nil, false
}

// squareFactor splits n = k^2 * rest using trial division by small primes.
func squareFactor(n *big.Int) (k, rest *big.Int) {
	k, rest = big.NewInt(1), new(big.Int).Set(n)
	for d := int64(2); d <= 1000; d++ {
		dd := big.NewInt(d * d)
		for {
			q, r := new(big.Int).QuoRem(rest, dd, new(big.Int))
			if r.Sign() != 0 {
				break
			}
			rest = q
			k.Mul(k, big.NewInt(d))
		}
	}
	return k, rest
}

func (p *Pow) Sub(varName string, value Expr) Expr {
	return PowOf(p.base.Sub(varName, value), p.exp.Sub(varName, value))
}

func (p *Pow) Diff(varName string) Expr {
	du := p.base.Diff(varName)
	dv := p.exp.Diff(varName)
	if !Has(p.exp, varName) {
		newExp := AddOf(p.exp, N(-1))
		return MulOf(p.exp, PowOf(p.base, newExp), du)
	}
	if !Has(p.base, varName) {
		return MulOf(PowOf(p.base, p.exp), LogOf(p.base), dv)
	}
	logTerm := MulOf(dv, LogOf(p.base))
	divTerm := MulOf(p.exp, du, PowOf(p.base, N(-1)))
	return MulOf(PowOf(p.base, p.exp), AddOf(logTerm, divTerm))
}

func (p *Pow) Evalf() (float64, bool) {
	b, ok1 := p.base.Evalf()
	e, ok2 := p.exp.Evalf()
	if !ok1 || !ok2 {
		return 0, false
	}
	pf := math.Pow(b, e)
	if math.IsNaN(pf) {
		return 0, false
	}
	return pf, true
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) exprType() string { return "pow" }
func (p *Pow) Base() Expr       { return p.base }
func (p *Pow) ExpExpr() Expr    { return p.exp }

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// Has reports whether varName occurs free in e.
func Has(e Expr, varName string) bool {
	switch v := e.(type) {
	case *Sym:
		return v.name == varName
	case *Add:
		for _, t := range v.terms {
			if Has(t, varName) {
				return true
			}
		}
	case *Mul:
		for _, f := range v.factors {
			if Has(f, varName) {
				return true
			}
		}
	case *Pow:
		return Has(v.base, varName) || Has(v.exp, varName)
	case *Func:
		return Has(v.arg, varName)
	}
	return false
}

// isNegative reports whether e carries an explicit negative sign.
func isNegative(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsNegative()
	case *Mul:
		if c, ok := v.factors[0].(*Num); ok {
			return c.IsNegative()
		}
	}
	return false
}

func negate(e Expr) Expr { return MulOf(N(-1), e) }

func isNumEqual(e Expr, v int64) bool {
	n, ok := e.(*Num)
	return ok && n.val.Cmp(big.NewRat(v, 1)) == 0
}
