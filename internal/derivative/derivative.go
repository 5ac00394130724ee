// Package derivative is the differentiation service.
package derivative

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/njchilds90/symcalc"
	"github.com/njchilds90/symcalc/internal/calcerr"
	"github.com/njchilds90/symcalc/internal/httpapi"
)

// Request is the body of POST /derivative.
type Request struct {
	Function string `json:"function"`
	Variable string `json:"variable"`
}

type Response struct {
	Original        string   `json:"original"`
	Derivative      string   `json:"derivative"`
	DerivativeLaTeX string   `json:"derivative_latex"`
	Variable        string   `json:"variable"`
	Steps           []string `json:"steps"`
}

// Compute differentiates req.Function with respect to req.Variable ("x"
// when empty) and simplifies the result.
func Compute(ctx context.Context, req Request) (*Response, error) {
	if req.Function == "" {
		return nil, calcerr.New(calcerr.Validation, "Function is required")
	}
	v := req.Variable
	if v == "" {
		v = "x"
	}
	if _, err := symcalc.ParseSymbol(v); err != nil {
		return nil, calcerr.Wrap(calcerr.Validation, "Invalid variable: "+v, err)
	}
	expr, err := symcalc.Parse(req.Function, symcalc.WithSymbols(v))
	if err != nil {
		return nil, calcerr.Wrap(calcerr.Parse, "Invalid function syntax: "+err.Error(), err)
	}
	if err := httpapi.CheckCanceled(ctx); err != nil {
		return nil, err
	}
	raw, err := symcalc.Diff(expr, v)
	if err != nil {
		return nil, calcerr.Wrap(calcerr.Computation, "Error calculating derivative: "+err.Error(), err)
	}
	simplified := symcalc.Simplify(raw)

	return &Response{
		Original:        expr.String(),
		Derivative:      simplified.String(),
		DerivativeLaTeX: symcalc.LaTeX(simplified),
		Variable:        v,
		Steps:           Steps(v, expr.String(), raw.String(), simplified.String()),
	}, nil
}

// Handler serves the differentiation routes.
type Handler struct {
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewHandler(logger *slog.Logger, maxBodyBytes int64) *Handler {
	return &Handler{logger: logger, maxBodyBytes: maxBodyBytes}
}

// Routes registers GET /, POST /derivative, GET /test and GET /healthz.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("POST /derivative", h.derivative)
	mux.HandleFunc("GET /test", h.selfTest)
	mux.Handle("GET /healthz", httpapi.Health("derivative"))
	return mux
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Derivative Calculator API is running!",
		"endpoints": map[string]string{
			"/derivative": "POST - Calculate derivative of a function",
		},
		"example": map[string]string{
			"function": "x^2 + 3*x + 5",
			"variable": "x",
		},
	})
}

func (h *Handler) derivative(w http.ResponseWriter, r *http.Request) {
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
		h.logger.Debug("derivative failed", "function", req.Function, "error", err)
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}

// selfTest differentiates a fixed polynomial so operators can check the
// engine is wired in.
func (h *Handler) selfTest(w http.ResponseWriter, r *http.Request) {
	x := symcalc.S("x")
	expr := symcalc.AddOf(symcalc.PowOf(x, symcalc.N(2)), symcalc.MulOf(symcalc.N(3), x), symcalc.N(5))
	d, err := symcalc.Diff(expr, "x")
	if err != nil {
		httpapi.WriteError(w, calcerr.Wrap(calcerr.Internal, "Unexpected error: "+err.Error(), err))
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]string{
		"status":          "Symbolic engine is working!",
		"test_function":   expr.String(),
		"test_derivative": d.String(),
	})
}
