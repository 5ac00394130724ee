// Package integration is the integration service: indefinite
// antiderivatives and definite integrals with a numeric approximation.
package integration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/njchilds90/symcalc"
	"github.com/njchilds90/symcalc/internal/calcerr"
	"github.com/njchilds90/symcalc/internal/httpapi"
)

const (
	Indefinite = "indefinite"
	Definite   = "definite"
)

// quadraturePoints is the Gauss-Legendre order used when the closed form
// cannot be evaluated numerically.
const quadraturePoints = 64

// Bound is an integration limit. Clients send either text ("pi", "oo") or
// a bare number.
type Bound string

func (b *Bound) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*b = Bound(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("bound must be a string or a number")
	}
	*b = Bound(n.String())
	return nil
}

// Request is the body of POST /integrate.
type Request struct {
	Function   string `json:"function"`
	Variable   string `json:"variable"`
	Type       string `json:"type"`
	LowerBound Bound  `json:"lower_bound"`
	UpperBound Bound  `json:"upper_bound"`
}

type Response struct {
	Original      string   `json:"original"`
	Result        string   `json:"result"`
	Simplified    string   `json:"simplified"`
	IntegralLaTeX string   `json:"integral_latex"`
	Variable      string   `json:"variable"`
	Type          string   `json:"type"`
	Steps         []string `json:"steps"`
}

func integralError(err error) error {
	return calcerr.Wrap(calcerr.Computation,
		fmt.Sprintf("Error calculating integral: %s. This function may not have a closed-form integral.", err), err)
}

// Compute integrates req.Function. Any type other than "definite" is
// integrated as indefinite and echoed back unchanged.
func Compute(ctx context.Context, req Request) (*Response, error) {
	if req.Function == "" {
		return nil, calcerr.New(calcerr.Validation, "Function is required")
	}
	v := req.Variable
	if v == "" {
		v = "x"
	}
	kind := req.Type
	if kind == "" {
		kind = Indefinite
	}
	if _, err := symcalc.ParseSymbol(v); err != nil {
		return nil, calcerr.Wrap(calcerr.Validation, "Invalid variable: "+v, err)
	}
	expr, err := symcalc.Parse(req.Function, symcalc.WithSymbols(v))
	if err != nil {
		return nil, calcerr.Wrap(calcerr.Parse, "Invalid function syntax: "+err.Error(), err)
	}

	var (
		integral symcalc.Expr
		result   string
		steps    []string
	)
	if kind == Definite {
		if req.LowerBound == "" || req.UpperBound == "" {
			return nil, calcerr.New(calcerr.Validation, "Both lower and upper bounds are required for definite integration")
		}
		lo, err := symcalc.Parse(string(req.LowerBound))
		if err != nil {
			return nil, calcerr.Wrap(calcerr.Parse, "Invalid bounds: "+err.Error(), err)
		}
		hi, err := symcalc.Parse(string(req.UpperBound))
		if err != nil {
			return nil, calcerr.Wrap(calcerr.Parse, "Invalid bounds: "+err.Error(), err)
		}
		if err := httpapi.CheckCanceled(ctx); err != nil {
			return nil, err
		}
		integral, err = symcalc.DefiniteIntegrate(expr, v, lo, hi)
		if err != nil {
			return nil, integralError(err)
		}
		anti, err := symcalc.Integrate(expr, v)
		if err != nil {
			return nil, integralError(err)
		}
		value, numeric := numericValue(integral, expr, v, lo, hi)
		steps = DefiniteSteps(v, expr.String(), lo.String(), hi.String(), anti.String(), integral.String(), value, numeric)
		result = integral.String()
		if numeric && !symcalc.IsInfinite(lo) && !symcalc.IsInfinite(hi) {
			result = fmt.Sprintf("%s ≈ %.6f", integral, value)
		}
	} else {
		if err := httpapi.CheckCanceled(ctx); err != nil {
			return nil, err
		}
		integral, err = symcalc.Integrate(expr, v)
		if err != nil {
			return nil, integralError(err)
		}
		steps = IndefiniteSteps(v, expr.String(), integral.String())
		result = integral.String()
	}

	simplified := symcalc.Simplify(integral)
	return &Response{
		Original:      expr.String(),
		Result:        result,
		Simplified:    simplified.String(),
		IntegralLaTeX: symcalc.LaTeX(simplified),
		Variable:      v,
		Type:          kind,
		Steps:         steps,
	}, nil
}

// numericValue evaluates the exact result, falling back to quadrature of
// the integrand when the closed form has no float value and both bounds
// are finite.
func numericValue(integral, expr symcalc.Expr, v string, lo, hi symcalc.Expr) (float64, bool) {
	if f, err := symcalc.Float(integral); err == nil {
		return f, !math.IsInf(f, 0)
	}
	a, err := symcalc.Float(lo)
	if err != nil {
		return 0, false
	}
	b, err := symcalc.Float(hi)
	if err != nil {
		return 0, false
	}
	q, err := symcalc.Quadrature(expr, v, a, b, quadraturePoints)
	if err != nil {
		return 0, false
	}
	return q, true
}

// Handler serves the integration routes.
type Handler struct {
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewHandler(logger *slog.Logger, maxBodyBytes int64) *Handler {
	return &Handler{logger: logger, maxBodyBytes: maxBodyBytes}
}

// Routes registers GET /, POST /integrate, GET /test and GET /healthz.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("POST /integrate", h.integrate)
	mux.HandleFunc("GET /test", h.selfTest)
	mux.Handle("GET /healthz", httpapi.Health("integration"))
	return mux
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Integration Calculator API is running!",
		"endpoints": map[string]string{
			"/integrate": "POST - Calculate integral of a function",
		},
		"example_indefinite": map[string]string{
			"function": "x^2 + 3*x",
			"variable": "x",
			"type":     Indefinite,
		},
		"example_definite": map[string]string{
			"function":    "x^2",
			"variable":    "x",
			"type":        Definite,
			"lower_bound": "0",
			"upper_bound": "1",
		},
	})
}

func (h *Handler) integrate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpapi.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	resp, err := Compute(r.Context(), req)
	if err != nil {
		if calcerr.KindOf(err) == calcerr.Internal {
			err = calcerr.Wrap(calcerr.Internal, "Unexpected error: "+err.Error(), err)
		}
		h.logger.Debug("integration failed", "function", req.Function, "type", req.Type, "error", err)
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) selfTest(w http.ResponseWriter, r *http.Request) {
	body, err := runSelfTest()
	if err != nil {
		h.logger.Error("self test failed", "error", err)
		httpapi.WriteError(w, calcerr.Wrap(calcerr.Internal, "Unexpected error: "+err.Error(), err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, body)
}

// runSelfTest integrates fixed inputs and cross-checks the exact definite
// integral against quadrature.
func runSelfTest() (map[string]any, error) {
	x := symcalc.S("x")
	square := symcalc.PowOf(x, symcalc.N(2))
	expr := symcalc.AddOf(square, symcalc.MulOf(symcalc.N(3), x))

	anti, err := symcalc.Integrate(expr, "x")
	if err != nil {
		return nil, err
	}
	def, err := symcalc.DefiniteIntegrate(square, "x", symcalc.N(0), symcalc.N(1))
	if err != nil {
		return nil, err
	}
	q, err := symcalc.Quadrature(square, "x", 0, 1, quadraturePoints)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"status":                   "Symbolic integration is working!",
		"test_function":            expr.String(),
		"test_indefinite_integral": anti.String(),
		"test_definite_integral":   def.String(),
		"test_quadrature":          q,
	}, nil
}
