package symcalc

import (
	"math/big"
	"strings"
)

// ============================================================
// Plain-text printing
// ============================================================

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (s *Sym) String() string { return s.name }

func (c *Const) String() string { return c.name }

func (a *Add) String() string {
	var sb strings.Builder
	for i, t := range a.terms {
		neg := isNegative(t)
		s := t.String()
		if neg {
			s = negate(t).String()
		}
		switch {
		case i == 0 && neg:
			sb.WriteString("-" + s)
		case i == 0:
			sb.WriteString(s)
		case neg:
			sb.WriteString(" - " + s)
		default:
			sb.WriteString(" + " + s)
		}
	}
	return sb.String()
}

func (m *Mul) String() string {
	coeff, rest := splitCoeff(m)
	if coeff.IsNegative() {
		return "-" + quotientString(numNeg(coeff), factorsOf(rest))
	}
	return quotientString(coeff, factorsOf(rest))
}

func (p *Pow) String() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			return quotientString(N(1), []Expr{p})
		}
		if en.val.Cmp(ratHalf) == 0 {
			return "sqrt(" + p.base.String() + ")"
		}
	}
	base := p.base.String()
	if needsPowParens(p.base) {
		base = "(" + base + ")"
	}
	exp := p.exp.String()
	if needsPowParens(p.exp) {
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func factorsOf(e Expr) []Expr {
	if m, ok := e.(*Mul); ok {
		return m.factors
	}
	if n, ok := e.(*Num); ok && n.IsOne() {
		return nil
	}
	return []Expr{e}
}

// splitQuotient separates factors into numerator and denominator; a factor
// with a negative numeric exponent moves to the denominator with the sign
// flipped.
func splitQuotient(factors []Expr) (num, den []Expr) {
	for _, f := range factors {
		if p, ok := f.(*Pow); ok {
			if en, ok2 := p.exp.(*Num); ok2 && en.IsNegative() {
				den = append(den, PowOf(p.base, numNeg(en)))
				continue
			}
		}
		num = append(num, f)
	}
	return num, den
}

// quotientString prints coeff*factors as numerator/denominator, the
// numeric denominator first: 1/(2*x), 3*x^2/2.
func quotientString(coeff *Num, factors []Expr) string {
	numF, denF := splitQuotient(factors)
	var num, den []string
	if p := coeff.val.Num(); !(p.IsInt64() && p.Int64() == 1) {
		num = append(num, p.String())
	}
	for _, f := range numF {
		num = append(num, factorString(f))
	}
	if q := coeff.val.Denom(); !(q.IsInt64() && q.Int64() == 1) {
		den = append(den, q.String())
	}
	for _, f := range denF {
		den = append(den, factorString(f))
	}
	numStr := strings.Join(num, "*")
	if numStr == "" {
		numStr = "1"
	}
	if len(den) == 0 {
		return numStr
	}
	denStr := strings.Join(den, "*")
	if len(den) > 1 {
		denStr = "(" + denStr + ")"
	}
	return numStr + "/" + denStr
}

func factorString(e Expr) string {
	if _, ok := e.(*Add); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func needsPowParens(e Expr) bool {
	switch v := e.(type) {
	case *Add, *Mul, *Pow:
		return true
	case *Num:
		return v.IsNegative() || !v.IsInteger()
	}
	return false
}

// ============================================================
// LaTeX printing
// ============================================================

var greekLaTeX = map[string]string{
	"alpha": `\alpha`, "beta": `\beta`, "gamma": `\gamma`, "delta": `\delta`,
	"epsilon": `\epsilon`, "zeta": `\zeta`, "eta": `\eta`, "theta": `\theta`,
	"iota": `\iota`, "kappa": `\kappa`, "lambda": `\lambda`, "mu": `\mu`,
	"nu": `\nu`, "xi": `\xi`, "rho": `\rho`, "sigma": `\sigma`, "tau": `\tau`,
	"phi": `\phi`, "chi": `\chi`, "psi": `\psi`, "omega": `\omega`,
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	num := n.val.Num()
	den := n.val.Denom()
	if num.Sign() < 0 {
		return `-\frac{` + new(big.Int).Neg(num).String() + "}{" + den.String() + "}"
	}
	return `\frac{` + num.String() + "}{" + den.String() + "}"
}

func (s *Sym) LaTeX() string {
	if g, ok := greekLaTeX[s.name]; ok {
		return g
	}
	if i := strings.IndexByte(s.name, '_'); i > 0 && i < len(s.name)-1 {
		return s.name[:i] + "_{" + s.name[i+1:] + "}"
	}
	return s.name
}

func (c *Const) LaTeX() string {
	switch c.name {
	case "E":
		return "e"
	case "pi":
		return `\pi`
	case "oo":
		return `\infty`
	}
	return c.name
}

func (a *Add) LaTeX() string {
	var sb strings.Builder
	for i, t := range a.terms {
		neg := isNegative(t)
		s := t.LaTeX()
		if neg {
			s = negate(t).LaTeX()
		}
		switch {
		case i == 0 && neg:
			sb.WriteString("-" + s)
		case i == 0:
			sb.WriteString(s)
		case neg:
			sb.WriteString(" - " + s)
		default:
			sb.WriteString(" + " + s)
		}
	}
	return sb.String()
}

func (m *Mul) LaTeX() string {
	coeff, rest := splitCoeff(m)
	if coeff.IsNegative() {
		return "-" + quotientLaTeX(numNeg(coeff), factorsOf(rest))
	}
	return quotientLaTeX(coeff, factorsOf(rest))
}

func quotientLaTeX(coeff *Num, factors []Expr) string {
	numF, denF := splitQuotient(factors)
	var num, den []string
	if p := coeff.val.Num(); !(p.IsInt64() && p.Int64() == 1) {
		num = append(num, p.String())
	}
	for _, f := range numF {
		num = append(num, factorLaTeX(f))
	}
	if q := coeff.val.Denom(); !(q.IsInt64() && q.Int64() == 1) {
		den = append(den, q.String())
	}
	for _, f := range denF {
		den = append(den, factorLaTeX(f))
	}
	numStr := strings.Join(num, " ")
	if numStr == "" {
		numStr = "1"
	}
	if len(den) == 0 {
		return numStr
	}
	return `\frac{` + numStr + "}{" + strings.Join(den, " ") + "}"
}

func factorLaTeX(e Expr) string {
	if _, ok := e.(*Add); ok {
		return `\left(` + e.LaTeX() + `\right)`
	}
	return e.LaTeX()
}

func (p *Pow) LaTeX() string {
	if en, ok := p.exp.(*Num); ok {
		if en.IsNegative() {
			return quotientLaTeX(N(1), []Expr{p})
		}
		if en.val.Cmp(ratHalf) == 0 {
			return `\sqrt{` + p.base.LaTeX() + "}"
		}
	}
	if f, ok := p.base.(*Func); ok && f.name != "exp" && f.name != "abs" {
		return funcHead(f.name) + "^{" + p.exp.LaTeX() + `}\left(` + f.arg.LaTeX() + `\right)`
	}
	base := p.base.LaTeX()
	if needsPowParens(p.base) {
		base = `\left(` + base + `\right)`
	}
	return base + "^{" + p.exp.LaTeX() + "}"
}

func funcHead(name string) string {
	switch name {
	case "sin", "cos", "tan", "sec", "csc", "cot", "sinh", "cosh", "tanh", "log":
		return `\` + name
	case "asin":
		return `\operatorname{asin}`
	case "acos":
		return `\operatorname{acos}`
	case "atan":
		return `\operatorname{atan}`
	}
	return `\operatorname{` + name + "}"
}

func (f *Func) LaTeX() string {
	arg := f.arg.LaTeX()
	switch f.name {
	case "exp":
		return "e^{" + arg + "}"
	case "abs":
		return `\left|{` + arg + `}\right|`
	case "floor":
		return `\left\lfloor{` + arg + `}\right\rfloor`
	case "ceil":
		return `\left\lceil{` + arg + `}\right\rceil`
	}
	return funcHead(f.name) + `{\left(` + arg + `\right)}`
}

// String returns the plain-text form of e.
func String(e Expr) string { return e.String() }

// LaTeX returns the LaTeX form of e.
func LaTeX(e Expr) string { return e.LaTeX() }
