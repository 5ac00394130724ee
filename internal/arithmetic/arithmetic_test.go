package arithmetic

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/njchilds90/symcalc/internal/logging"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		a, b float64
		op   string
		want float64
	}{
		{5, 3, "add", 8},
		{5, 3, "subtract", 2},
		{5, 3, "multiply", 15},
		{7, 2, "divide", 3.5},
		{-1.5, 0.5, "add", -1},
		{0, 4, "divide", 0},
	}
	for _, tt := range tests {
		got, err := Calculate(tt.a, tt.b, tt.op)
		if err != nil {
			t.Errorf("Calculate(%v, %v, %s): %v", tt.a, tt.b, tt.op, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Calculate(%v, %v, %s) = %v, want %v", tt.a, tt.b, tt.op, got, tt.want)
		}
	}
}

func TestCalculate_Errors(t *testing.T) {
	if _, err := Calculate(1, 0, "divide"); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("divide by zero: %v", err)
	}
	if _, err := Calculate(1, 2, "power"); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("unknown op: %v", err)
	}
	if _, err := Calculate(1e308, 10, "multiply"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("overflow: %v", err)
	}
}

func post(t *testing.T, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	h := NewHandler(logging.Discard(), 1<<20)
	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	var out map[string]any
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return w, out
}

func TestHandler_Calculate(t *testing.T) {
	w, out := post(t, `{"num1": 5, "num2": 3, "operation": "add"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, out)
	}
	if out["result"] != 8.0 || out["operation"] != "add" || out["num1"] != 5.0 || out["num2"] != 3.0 {
		t.Errorf("unexpected body %v", out)
	}
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing num2", `{"num1": 1, "operation": "add"}`, "Missing required fields"},
		{"null operation", `{"num1": 1, "num2": 2, "operation": null}`, "Missing required fields"},
		{"zero is present", `{"num1": 0, "num2": 0, "operation": "divide"}`, "Cannot divide by zero!"},
		{"invalid op", `{"num1": 1, "num2": 2, "operation": "modulo"}`, "Invalid operation"},
		{"bad json", `{"num1": 1,`, "Invalid JSON: unexpected EOF"},
		{"string number", `{"num1": "1", "num2": 2, "operation": "add"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := post(t, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %v", w.Code, out)
			}
			msg, _ := out["error"].(string)
			if msg == "" || (tt.want != "" && msg != tt.want) {
				t.Errorf("error = %q, want %q", msg, tt.want)
			}
		})
	}
}

func TestHandler_Home(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(logging.Discard(), 1<<20).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		Message   string            `json:"message"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Message != "Calculator API is running!" || out.Endpoints["/calculate"] == "" {
		t.Errorf("unexpected home %+v", out)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	NewHandler(logging.Discard(), 1<<20).Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calculate", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d", w.Code)
	}
}
