// Package arithmetic is the calculator service: one binary operation on two
// numbers per request.
package arithmetic

import (
	"log/slog"
	"math"
	"net/http"

	"github.com/njchilds90/symcalc/internal/calcerr"
	"github.com/njchilds90/symcalc/internal/httpapi"
)

var (
	ErrMissingFields    = calcerr.New(calcerr.Validation, "Missing required fields")
	ErrInvalidOperation = calcerr.New(calcerr.Validation, "Invalid operation")
	ErrDivideByZero     = calcerr.New(calcerr.Validation, "Cannot divide by zero!")
	ErrOutOfRange       = calcerr.New(calcerr.Computation, "Result is out of range")
)

// Calculate applies op ("add", "subtract", "multiply" or "divide") to a
// and b.
func Calculate(a, b float64, op string) (float64, error) {
	var r float64
	switch op {
	case "add":
		r = a + b
	case "subtract":
		r = a - b
	case "multiply":
		r = a * b
	case "divide":
		if b == 0 {
			return 0, ErrDivideByZero
		}
		r = a / b
	default:
		return 0, ErrInvalidOperation
	}
	// JSON has no encoding for these.
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, ErrOutOfRange
	}
	return r, nil
}

// Request is the body of POST /calculate. Pointers tell a missing or null
// field apart from zero.
type Request struct {
	Num1      *float64 `json:"num1"`
	Num2      *float64 `json:"num2"`
	Operation *string  `json:"operation"`
}

type Response struct {
	Result    float64 `json:"result"`
	Operation string  `json:"operation"`
	Num1      float64 `json:"num1"`
	Num2      float64 `json:"num2"`
}

// Compute validates req and runs it.
func Compute(req Request) (*Response, error) {
	if req.Num1 == nil || req.Num2 == nil || req.Operation == nil {
		return nil, ErrMissingFields
	}
	r, err := Calculate(*req.Num1, *req.Num2, *req.Operation)
	if err != nil {
		return nil, err
	}
	return &Response{Result: r, Operation: *req.Operation, Num1: *req.Num1, Num2: *req.Num2}, nil
}

// Handler serves the calculator routes.
type Handler struct {
	logger       *slog.Logger
	maxBodyBytes int64
}

func NewHandler(logger *slog.Logger, maxBodyBytes int64) *Handler {
	return &Handler{logger: logger, maxBodyBytes: maxBodyBytes}
}

// Routes registers GET /, POST /calculate and GET /healthz.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("POST /calculate", h.calculate)
	mux.Handle("GET /healthz", httpapi.Health("calculator"))
	return mux
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Calculator API is running!",
		"endpoints": map[string]string{
			"/calculate": "POST - Calculate two numbers",
		},
	})
}

func (h *Handler) calculate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := httpapi.DecodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if err := httpapi.CheckCanceled(r.Context()); err != nil {
		httpapi.WriteError(w, err)
		return
	}
	resp, err := Compute(req)
	if err != nil {
		h.logger.Debug("calculation rejected", "error", err)
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, resp)
}
