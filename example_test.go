package symcalc_test

import (
	"fmt"

	"github.com/njchilds90/symcalc"
)

func ExampleParse() {
	e, err := symcalc.Parse("2x^2 + 3x + 5")
	if err != nil {
		panic(err)
	}
	fmt.Println(e)
	fmt.Println(symcalc.LaTeX(e))
	// Output:
	// 2*x^2 + 3*x + 5
	// 2 x^{2} + 3 x + 5
}

func ExampleDiff() {
	f, _ := symcalc.Parse("x*sin(x)")
	d, err := symcalc.Diff(f, "x")
	if err != nil {
		panic(err)
	}
	fmt.Println(symcalc.Simplify(d))
	// Output: x*cos(x) + sin(x)
}

func ExampleIntegrate() {
	f, _ := symcalc.Parse("x^2 + 3x")
	F, err := symcalc.Integrate(f, "x")
	if err != nil {
		panic(err)
	}
	fmt.Println(F)
	// Output: x^3/3 + 3*x^2/2
}

func ExampleDefiniteIntegrate() {
	f, _ := symcalc.Parse("exp(-x)")
	r, err := symcalc.DefiniteIntegrate(f, "x", symcalc.N(0), symcalc.Infinity)
	if err != nil {
		panic(err)
	}
	fmt.Println(r)
	// Output: 1
}

func ExampleQuadrature() {
	f, _ := symcalc.Parse("x^2")
	v, err := symcalc.Quadrature(f, "x", 0, 1, 16)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%.6f\n", v)
	// Output: 0.333333
}
