package symcalc_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/symcalc"
)

func TestParse_Canonical(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2*x", "2*x"},
		{"2x", "2*x"},
		{"x(x+1)", "x*(x + 1)"},
		{"sin x", "sin(x)"},
		{"sinx", "sin(x)"},
		{"sin^2(x)", "sin(x)^2"},
		{"x**3", "x^3"},
		{"2**3", "8"},
		{"e^x", "exp(x)"},
		{"ln(x)", "log(x)"},
		{"xy", "x*y"},
		{"2^-1", "1/2"},
		{"[x+1]^2", "(x + 1)^2"},
		{"x^2 + 3*x + 5", "x^2 + 3*x + 5"},
		{"(x+1)(x-1)", "(x + 1)*(x - 1)"},
		{"0.5x", "x/2"},
		{"abs(-3)", "3"},
		{"theta^2", "theta^2"},
		{"sec(x)", "sec(x)"},
		{"secx", "sec(x)"},
		{"cot(-x)", "-cot(x)"},
		{"sec(-x)", "sec(x)"},
		{"xsin(x)", "x*sin(x)"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, err := symcalc.Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestParse_ImplicitEqualsExplicit(t *testing.T) {
	pairs := [][2]string{
		{"2x", "2*x"},
		{"2sin(x)", "2*sin(x)"},
		{"x(x+1)", "x*(x+1)"},
		{"3(x+2)^2", "3*(x+2)**2"},
	}
	for _, p := range pairs {
		a, err := symcalc.Parse(p[0])
		if err != nil {
			t.Fatalf("Parse(%q): %v", p[0], err)
		}
		b, err := symcalc.Parse(p[1])
		if err != nil {
			t.Fatalf("Parse(%q): %v", p[1], err)
		}
		if !a.Equal(b) {
			t.Errorf("%q = %s, %q = %s", p[0], a, p[1], b)
		}
	}
}

func TestParse_WithSymbols(t *testing.T) {
	e, err := symcalc.Parse("rate*t", symcalc.WithSymbols("rate"))
	if err != nil {
		t.Fatal(err)
	}
	if e.String() != "rate*t" {
		t.Errorf("got %s", e)
	}

	// A declared name shadows the constant of the same spelling.
	e, err = symcalc.Parse("e", symcalc.WithSymbols("e"))
	if err != nil {
		t.Fatal(err)
	}
	if !e.Equal(symcalc.S("e")) {
		t.Errorf("e parsed as %s", e)
	}
	e, err = symcalc.Parse("e")
	if err != nil {
		t.Fatal(err)
	}
	if !e.Equal(symcalc.E) {
		t.Errorf("undeclared e parsed as %s", e)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "empty expression"},
		{"   ", "empty expression"},
		{"x+1)", "unmatched ')' at position 3"},
		{"(x+1", "missing closing parenthesis for '(' at position 0"},
		{"2 $ x", "invalid character '$' at position 2"},
		{"sin", "function sin requires an argument at position 0"},
		{"sin(x, y)", "sin takes 1 argument, got 2 at position 0"},
		{"x +", "unexpected end of expression at position 3"},
		{"foo(x)", `unknown function "foo" at position 0`},
		{"2bar (x)", `unknown function "bar" at position 1`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := symcalc.Parse(tt.in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded", tt.in)
			}
			var pe *symcalc.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if err.Error() != tt.want {
				t.Errorf("Parse(%q) error = %q, want %q", tt.in, err, tt.want)
			}
		})
	}
}

func TestParseSymbol(t *testing.T) {
	for _, name := range []string{"x", "t", "theta", "x1", "x_0", "e"} {
		if _, err := symcalc.ParseSymbol(name); err != nil {
			t.Errorf("ParseSymbol(%q): %v", name, err)
		}
	}
	for _, name := range []string{"", "1x", "x y", "x-y", "sin", "ln", "pi", "oo"} {
		if _, err := symcalc.ParseSymbol(name); err == nil {
			t.Errorf("ParseSymbol(%q) succeeded", name)
		}
	}
}
