package symcalc

// ============================================================
// Expansion
// ============================================================

// maxExpandPower bounds (a+b)^n expansion.
const maxExpandPower = 12

// Expand distributes products over sums and expands small positive integer
// powers of sums.
func Expand(e Expr) Expr { return expandExpr(e.Simplify()) }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = mulTerms(result, expandExpr(f))
		}
		return result
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.val.Num().IsInt64() {
			k := n.val.Num().Int64()
			if _, isAdd := base.(*Add); isAdd && k >= 2 && k <= maxExpandPower {
				result := base
				for i := int64(1); i < k; i++ {
					result = mulTerms(result, base)
				}
				return result
			}
		}
		return PowOf(base, v.exp)
	case *Func:
		return funcOf(v.name, expandExpr(v.arg)).Simplify()
	}
	return e
}

// mulTerms multiplies two expanded expressions term by term. Only single
// terms reach MulOf: a product of two sums would fold back into a power.
func mulTerms(a, b Expr) Expr {
	ta, tb := termsOf(a), termsOf(b)
	out := make([]Expr, 0, len(ta)*len(tb))
	for _, s := range ta {
		for _, t := range tb {
			out = append(out, MulOf(s, t))
		}
	}
	return AddOf(out...)
}

func termsOf(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

// ============================================================
// Trig identities
// ============================================================

// TrigSimplify rewrites c*sin(u)^2 + c*cos(u)^2 as c throughout e.
func TrigSimplify(e Expr) Expr {
	return trigSimplifyExpr(e.Simplify())
}

func trigSimplifyExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = trigSimplifyExpr(t)
		}
		return trigFindPythagorean(AddOf(newTerms...))
	case *Mul:
		newFactors := make([]Expr, len(v.factors))
		for i, f := range v.factors {
			newFactors[i] = trigSimplifyExpr(f)
		}
		return MulOf(newFactors...)
	case *Pow:
		return PowOf(trigSimplifyExpr(v.base), v.exp)
	case *Func:
		return funcOf(v.name, trigSimplifyExpr(v.arg)).Simplify()
	}
	return e
}

func trigFindPythagorean(e Expr) Expr {
	add, ok := e.(*Add)
	if !ok {
		return e
	}
	type trigTerm struct {
		funcName string
		argStr   string
		coeff    *Num
		idx      int
	}
	var trigTerms []trigTerm
	for idx, t := range add.terms {
		coeff, inner := splitCoeff(t)
		p, isPow := inner.(*Pow)
		if !isPow || !isNumEqual(p.exp, 2) {
			continue
		}
		if fn, isFunc := p.base.(*Func); isFunc && (fn.name == "sin" || fn.name == "cos") {
			trigTerms = append(trigTerms, trigTerm{fn.name, fn.arg.String(), coeff, idx})
		}
	}
	for i := 0; i < len(trigTerms); i++ {
		for j := i + 1; j < len(trigTerms); j++ {
			ti, tj := trigTerms[i], trigTerms[j]
			if ti.argStr == tj.argStr && ti.funcName != tj.funcName && numCmp(ti.coeff, tj.coeff) == 0 {
				newTerms := []Expr{}
				for idx, t := range add.terms {
					if idx != ti.idx && idx != tj.idx {
						newTerms = append(newTerms, t)
					}
				}
				newTerms = append(newTerms, ti.coeff)
				return trigFindPythagorean(AddOf(newTerms...))
			}
		}
	}
	return e
}

// ============================================================
// Simplify
// ============================================================

// Simplify returns the least complex of several equivalent rewrites of e:
// the canonical form, its expansion, trig identities, and, for rational
// functions of a single variable, the cancelled quotient. Ties keep the
// earlier candidate.
func Simplify(e Expr) Expr {
	base := e.Simplify()
	expanded := Expand(base)
	candidates := []Expr{base, expanded, TrigSimplify(base), TrigSimplify(expanded)}
	if c, ok := Cancel(base); ok {
		candidates = append(candidates, c)
	}
	best, bestCost := candidates[0], Complexity(candidates[0])
	for _, c := range candidates[1:] {
		if cost := Complexity(c); cost < bestCost {
			best, bestCost = c, cost
		}
	}
	return best
}

// Cancel writes a rational function of one variable as a reduced quotient.
func Cancel(e Expr) (Expr, bool) {
	syms := FreeSymbols(e)
	if len(syms) != 1 {
		return nil, false
	}
	var v string
	for name := range syms {
		v = name
	}
	num, den, ok := toRational(e, v)
	if !ok {
		return nil, false
	}
	if den.degree() == 0 {
		// den is monic, so it is exactly 1.
		return num.toExpr(v), true
	}
	return MulOf(num.toExpr(v), PowOf(den.factoredExpr(v), N(-1))), true
}

// Complexity counts nodes; simpler expressions score lower.
func Complexity(e Expr) int {
	switch v := e.(type) {
	case *Num:
		if v.IsInteger() {
			return 1
		}
		return 2
	case *Add:
		n := len(v.terms) - 1
		for _, t := range v.terms {
			n += Complexity(t)
		}
		return n
	case *Mul:
		n := len(v.factors) - 1
		for _, f := range v.factors {
			n += Complexity(f)
		}
		return n
	case *Pow:
		return 1 + Complexity(v.base) + Complexity(v.exp)
	case *Func:
		return 1 + Complexity(v.arg)
	}
	return 1
}
