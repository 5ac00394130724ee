package derivative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc/internal/calcerr"
	"github.com/njchilds90/symcalc/internal/logging"
)

func TestCompute_Polynomial(t *testing.T) {
	resp, err := Compute(context.Background(), Request{Function: "x^2 + 3*x + 5"})
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if resp.Original != "x^2 + 3*x + 5" {
		t.Errorf("original = %q", resp.Original)
	}
	if resp.Derivative != "2*x + 3" {
		t.Errorf("derivative = %q", resp.Derivative)
	}
	if resp.DerivativeLaTeX != "2 x + 3" {
		t.Errorf("latex = %q", resp.DerivativeLaTeX)
	}
	if resp.Variable != "x" {
		t.Errorf("variable = %q", resp.Variable)
	}
	want := []string{
		"Original function: f(x) = x^2 + 3*x + 5",
		"Finding: d/dx[x^2 + 3*x + 5]",
		"Derivative: 2*x + 3",
	}
	if !reflect.DeepEqual(resp.Steps, want) {
		t.Errorf("steps = %q\nwant    %q", resp.Steps, want)
	}
}

func TestCompute_ImplicitMultiplication(t *testing.T) {
	a, err := Compute(context.Background(), Request{Function: "2x", Variable: "x"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(context.Background(), Request{Function: "2*x", Variable: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if a.Derivative != "2" || a.Derivative != b.Derivative || a.Original != b.Original {
		t.Errorf("2x gave %+v, 2*x gave %+v", a, b)
	}
}

func TestCompute_OtherVariable(t *testing.T) {
	resp, err := Compute(context.Background(), Request{Function: "t^3", Variable: "t"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Derivative != "3*t^2" || resp.Variable != "t" {
		t.Errorf("got %+v", resp)
	}
	if resp.Steps[1] != "Finding: d/dt[t^3]" {
		t.Errorf("step = %q", resp.Steps[1])
	}
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		kind calcerr.Kind
		msg  string
	}{
		{"missing function", Request{}, calcerr.Validation, "Function is required"},
		{"bad variable", Request{Function: "x", Variable: "1x"}, calcerr.Validation, "Invalid variable: 1x"},
		{"function as variable", Request{Function: "x", Variable: "sin"}, calcerr.Validation, "Invalid variable: sin"},
		{"syntax", Request{Function: "x^^2"}, calcerr.Parse, "Invalid function syntax: "},
		{"unbalanced", Request{Function: "sin(x"}, calcerr.Parse, "Invalid function syntax: "},
		{"step function", Request{Function: "floor(x)"}, calcerr.Computation, "Error calculating derivative: "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(context.Background(), tt.req)
			if err == nil {
				t.Fatal("expected an error")
			}
			if calcerr.KindOf(err) != tt.kind {
				t.Errorf("kind = %v, want %v", calcerr.KindOf(err), tt.kind)
			}
			if !strings.HasPrefix(err.Error(), tt.msg) {
				t.Errorf("message = %q, want prefix %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestCompute_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compute(ctx, Request{Function: "x^2"})
	if calcerr.KindOf(err) != calcerr.Internal {
		t.Fatalf("want an internal error, got %v", err)
	}
}

func TestSteps_Notes(t *testing.T) {
	steps := Steps("x", "exp(x)*sin(x) + log(x)", "exp(x)*sin(x) + exp(x)*cos(x) + 1/x", "exp(x)*(sin(x) + cos(x)) + 1/x")
	want := []string{
		"Original function: f(x) = exp(x)*sin(x) + log(x)",
		"Finding: d/dx[exp(x)*sin(x) + log(x)]",
		"Derivative (before simplification): exp(x)*sin(x) + exp(x)*cos(x) + 1/x",
		"Simplified: exp(x)*(sin(x) + cos(x)) + 1/x",
		"Note: d/dx[sin(x)] = cos(x), d/dx[cos(x)] = -sin(x)",
		"Note: d/dx[e^x] = e^x",
		"Note: d/dx[ln(x)] = 1/x",
	}
	if !reflect.DeepEqual(steps, want) {
		t.Errorf("steps = %q\nwant    %q", steps, want)
	}
}

func TestSteps_PowerNote(t *testing.T) {
	const power = "Power rule applied: d/dx[x^n] = n*x^(n-1)"
	steps := Steps("x", "x**3", "3*x**2", "3*x**2")
	if steps[len(steps)-1] != power {
		t.Errorf("steps = %q", steps)
	}
	for _, in := range []string{"x^2", "1/x", "(x+1)^3"} {
		resp, err := Compute(context.Background(), Request{Function: in})
		if err != nil {
			t.Fatalf("Compute(%s): %v", in, err)
		}
		for _, s := range resp.Steps {
			if s == power {
				t.Errorf("%s: unexpected power note in %q", in, resp.Steps)
			}
		}
	}
}

func TestCompute_PowerOfSum(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"(x+1)^3", "3*(x + 1)^2"},
		{"(2*x+1)^3", "6*(2*x + 1)^2"},
	}
	for _, tt := range tests {
		resp, err := Compute(context.Background(), Request{Function: tt.in})
		if err != nil {
			t.Fatalf("Compute(%s): %v", tt.in, err)
		}
		if resp.Derivative != tt.want {
			t.Errorf("d/dx %s = %q, want %q", tt.in, resp.Derivative, tt.want)
		}
	}
	w, out := serve(t, http.MethodPost, "/derivative", `{"function": "(x+1)^3"}`)
	if w.Code != http.StatusOK || out["derivative"] != "3*(x + 1)^2" {
		t.Errorf("status = %d, body = %v", w.Code, out)
	}
}

func serve(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := NewHandler(logging.Discard(), 1<<20)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w, out
}

func TestHandler_Derivative(t *testing.T) {
	w, out := serve(t, http.MethodPost, "/derivative", `{"function": "sin(x)"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, out)
	}
	if out["derivative"] != "cos(x)" || out["variable"] != "x" {
		t.Errorf("body = %v", out)
	}
	if out["derivative_latex"] != `\cos{\left(x\right)}` {
		t.Errorf("latex = %v", out["derivative_latex"])
	}
}

func TestHandler_MalformedIsClientError(t *testing.T) {
	for _, body := range []string{
		`{"function": ")("}`,
		`{"function": "2**"}`,
		`{"function": "x +* 3"}`,
		`{"function": "sin()"}`,
		`{"function": "$"}`,
		`{"function": "foo(x)"}`,
		`{"function": 42}`,
		`not json`,
	} {
		w, out := serve(t, http.MethodPost, "/derivative", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, body = %v", body, w.Code, out)
		}
		if _, ok := out["error"].(string); !ok {
			t.Errorf("%s: no error message in %v", body, out)
		}
	}
}

func TestHandler_HomeAndTest(t *testing.T) {
	w, out := serve(t, http.MethodGet, "/", "")
	if w.Code != http.StatusOK || out["message"] != "Derivative Calculator API is running!" {
		t.Errorf("home = %d %v", w.Code, out)
	}
	w, out = serve(t, http.MethodGet, "/test", "")
	if w.Code != http.StatusOK {
		t.Fatalf("test status = %d", w.Code)
	}
	if out["test_function"] != "x^2 + 3*x + 5" || out["test_derivative"] != "2*x + 3" {
		t.Errorf("test = %v", out)
	}
}
