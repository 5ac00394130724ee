package symcalc

import (
	"math"
	"math/big"
)

// ============================================================
// Func: named function applications
// ============================================================

type Func struct {
	name string
	arg  Expr
}

// knownFuncs lists the single-argument functions the kernel understands.
var knownFuncs = map[string]bool{
	"sin": true, "cos": true, "tan": true,
	"sec": true, "csc": true, "cot": true,
	"asin": true, "acos": true, "atan": true,
	"sinh": true, "cosh": true, "tanh": true,
	"exp": true, "log": true, "erf": true,
	"abs": true, "floor": true, "ceil": true, "sign": true,
}

func funcOf(name string, arg Expr) *Func { return &Func{name: name, arg: arg} }

func SinOf(arg Expr) Expr   { return funcOf("sin", arg).Simplify() }
func CosOf(arg Expr) Expr   { return funcOf("cos", arg).Simplify() }
func TanOf(arg Expr) Expr   { return funcOf("tan", arg).Simplify() }
func SecOf(arg Expr) Expr   { return funcOf("sec", arg).Simplify() }
func CscOf(arg Expr) Expr   { return funcOf("csc", arg).Simplify() }
func CotOf(arg Expr) Expr   { return funcOf("cot", arg).Simplify() }
func ExpOf(arg Expr) Expr   { return funcOf("exp", arg).Simplify() }
func LogOf(arg Expr) Expr   { return funcOf("log", arg).Simplify() }
func AbsOf(arg Expr) Expr   { return funcOf("abs", arg).Simplify() }
func AsinOf(arg Expr) Expr  { return funcOf("asin", arg).Simplify() }
func AcosOf(arg Expr) Expr  { return funcOf("acos", arg).Simplify() }
func AtanOf(arg Expr) Expr  { return funcOf("atan", arg).Simplify() }
func SinhOf(arg Expr) Expr  { return funcOf("sinh", arg).Simplify() }
func CoshOf(arg Expr) Expr  { return funcOf("cosh", arg).Simplify() }
func TanhOf(arg Expr) Expr  { return funcOf("tanh", arg).Simplify() }
func ErfOf(arg Expr) Expr   { return funcOf("erf", arg).Simplify() }
func FloorOf(arg Expr) Expr { return funcOf("floor", arg).Simplify() }
func CeilOf(arg Expr) Expr  { return funcOf("ceil", arg).Simplify() }
func SignOf(arg Expr) Expr  { return funcOf("sign", arg).Simplify() }

// Apply builds name(arg) for any function in the kernel's table.
func Apply(name string, arg Expr) (Expr, bool) {
	if !knownFuncs[name] {
		return nil, false
	}
	return funcOf(name, arg).Simplify(), true
}

var (
	oddFuncs  = map[string]bool{"sin": true, "tan": true, "csc": true, "cot": true, "asin": true, "atan": true, "sinh": true, "tanh": true, "erf": true, "sign": true}
	evenFuncs = map[string]bool{"cos": true, "sec": true, "cosh": true, "abs": true}
)

// specialValues holds exact values at well-known points, keyed by the
// printed form of the argument.
var specialValues = map[string]map[string]Expr{
	"sin":  {"0": N(0), "pi": N(0), "pi/2": N(1)},
	"cos":  {"0": N(1), "pi": N(-1), "pi/2": N(0)},
	"tan":  {"0": N(0), "pi": N(0)},
	"sec":  {"0": N(1), "pi": N(-1)},
	"csc":  {"pi/2": N(1)},
	"cot":  {"pi/2": N(0)},
	"asin": {"0": N(0), "1": piTimes(1, 2)},
	"acos": {"1": N(0), "0": piTimes(1, 2)},
	"atan": {"0": N(0), "1": piTimes(1, 4), "oo": piTimes(1, 2)},
	"sinh": {"0": N(0), "oo": Infinity},
	"cosh": {"0": N(1), "oo": Infinity},
	"tanh": {"0": N(0), "oo": N(1)},
	"exp":  {"0": N(1), "oo": Infinity, "-oo": N(0)},
	"log":  {"1": N(0), "E": N(1), "oo": Infinity},
	"erf":  {"0": N(0), "oo": N(1)},
	"abs":  {"oo": Infinity, "E": E, "pi": Pi},
	"sign": {"oo": N(1), "E": N(1), "pi": N(1)},
}

// piTimes builds the canonical p/q*pi without going through MulOf, which
// would make specialValues depend on itself during initialization.
func piTimes(p, q int64) Expr { return &Mul{factors: []Expr{F(p, q), Pi}} }

func (f *Func) Simplify() Expr {
	arg := f.arg.Simplify()

	if isNegative(arg) {
		if oddFuncs[f.name] {
			return MulOf(N(-1), funcOf(f.name, negate(arg)).Simplify())
		}
		if evenFuncs[f.name] {
			return funcOf(f.name, negate(arg)).Simplify()
		}
	}
	if table, ok := specialValues[f.name]; ok {
		if v, ok2 := table[arg.String()]; ok2 {
			return v
		}
	}

	switch f.name {
	case "log":
		if inner, ok := arg.(*Func); ok && inner.name == "exp" {
			return inner.arg
		}
	case "exp":
		if inner, ok := arg.(*Func); ok && inner.name == "log" {
			return inner.arg
		}
	case "abs":
		if n, ok := arg.(*Num); ok {
			return numAbs(n)
		}
		if inner, ok := arg.(*Func); ok && inner.name == "abs" {
			return inner
		}
	case "sign":
		if n, ok := arg.(*Num); ok {
			return N(int64(n.val.Sign()))
		}
	case "floor", "ceil":
		if n, ok := arg.(*Num); ok {
			q, m := new(big.Int).DivMod(n.val.Num(), n.val.Denom(), new(big.Int))
			if f.name == "ceil" && m.Sign() != 0 {
				q.Add(q, big.NewInt(1))
			}
			return &Num{val: new(big.Rat).SetInt(q)}
		}
	}
	return &Func{name: f.name, arg: arg}
}

func (f *Func) Sub(varName string, value Expr) Expr {
	return funcOf(f.name, f.arg.Sub(varName, value)).Simplify()
}

func (f *Func) Diff(varName string) Expr {
	du := f.arg.Diff(varName)
	var outer Expr
	switch f.name {
	case "sin":
		outer = CosOf(f.arg)
	case "cos":
		outer = MulOf(N(-1), SinOf(f.arg))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(f.arg), N(2)))
	case "sec":
		outer = MulOf(SecOf(f.arg), TanOf(f.arg))
	case "csc":
		outer = MulOf(N(-1), CscOf(f.arg), CotOf(f.arg))
	case "cot":
		outer = MulOf(N(-1), AddOf(N(1), PowOf(CotOf(f.arg), N(2))))
	case "exp":
		outer = ExpOf(f.arg)
	case "log":
		outer = PowOf(f.arg, N(-1))
	case "asin":
		outer = PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2))
	case "acos":
		outer = MulOf(N(-1), PowOf(AddOf(N(1), MulOf(N(-1), PowOf(f.arg, N(2)))), F(-1, 2)))
	case "atan":
		outer = PowOf(AddOf(N(1), PowOf(f.arg, N(2))), N(-1))
	case "sinh":
		outer = CoshOf(f.arg)
	case "cosh":
		outer = SinhOf(f.arg)
	case "tanh":
		outer = AddOf(N(1), MulOf(N(-1), PowOf(TanhOf(f.arg), N(2))))
	case "erf":
		outer = MulOf(N(2), PowOf(Pi, F(-1, 2)), ExpOf(MulOf(N(-1), PowOf(f.arg, N(2)))))
	case "abs":
		outer = MulOf(f.arg, PowOf(AbsOf(f.arg), N(-1)))
	default:
		// floor, ceil and sign are rejected by Diff before reaching here.
		return MulOf(funcOf("D["+f.name+"]", f.arg), du)
	}
	return MulOf(outer, du)
}

func (f *Func) Evalf() (float64, bool) {
	v, ok := f.arg.Evalf()
	if !ok {
		return 0, false
	}
	return evalFunc(f.name, v)
}

func evalFunc(name string, v float64) (float64, bool) {
	var r float64
	switch name {
	case "sin":
		r = math.Sin(v)
	case "cos":
		r = math.Cos(v)
	case "tan":
		r = math.Tan(v)
	case "sec":
		r = 1 / math.Cos(v)
	case "csc":
		r = 1 / math.Sin(v)
	case "cot":
		r = math.Cos(v) / math.Sin(v)
	case "exp":
		r = math.Exp(v)
	case "log":
		r = math.Log(v)
	case "abs":
		r = math.Abs(v)
	case "asin":
		r = math.Asin(v)
	case "acos":
		r = math.Acos(v)
	case "atan":
		r = math.Atan(v)
	case "sinh":
		r = math.Sinh(v)
	case "cosh":
		r = math.Cosh(v)
	case "tanh":
		r = math.Tanh(v)
	case "erf":
		r = math.Erf(v)
	case "floor":
		r = math.Floor(v)
	case "ceil":
		r = math.Ceil(v)
	case "sign":
		switch {
		case v > 0:
			r = 1
		case v < 0:
			r = -1
		}
	default:
		return 0, false
	}
	if math.IsNaN(r) {
		return 0, false
	}
	return r, true
}

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) exprType() string { return "func" }
func (f *Func) FuncName() string { return f.name }
func (f *Func) Arg() Expr        { return f.arg }
