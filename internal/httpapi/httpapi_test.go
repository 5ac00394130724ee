package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/njchilds90/symcalc/internal/calcerr"
	"github.com/njchilds90/symcalc/internal/logging"
)

type payload struct {
	Function string `json:"function"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		limit   int64
		wantErr string
	}{
		{"ok", `{"function":"x^2"}`, 1 << 20, ""},
		{"unknown field allowed", `{"function":"x","extra":1}`, 1 << 20, ""},
		{"empty", ``, 1 << 20, "Invalid JSON: empty body"},
		{"malformed", `{"function":`, 1 << 20, "Invalid JSON"},
		{"trailing", `{"function":"x"} {}`, 1 << 20, "Invalid JSON: trailing data"},
		{"too large", `{"function":"` + strings.Repeat("x", 64) + `"}`, 16, "Request body exceeds 16 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/derivative", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			var p payload
			err := DecodeJSON(w, req, tt.limit, &p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.HasPrefix(err.Error(), tt.wantErr) {
				t.Fatalf("want error starting with %q, got %v", tt.wantErr, err)
			}
			if calcerr.KindOf(err) != calcerr.Validation {
				t.Errorf("want a validation error, got %v", calcerr.KindOf(err))
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, calcerr.New(calcerr.Validation, "Missing required fields"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var body ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "Missing required fields" {
		t.Errorf("error = %q", body.Error)
	}
}

func TestRecover(t *testing.T) {
	h := Recover(logging.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Unexpected error: kaboom") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFrom(r.Context())
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if seen == "" || w.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q, header %q", seen, w.Header().Get(RequestIDHeader))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Errorf("caller id not reused, got %q", seen)
	}
}

func TestStack_CORS(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /calculate", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]int{"result": 1})
	})
	h := Stack(mux, logging.Discard())

	req := httptest.NewRequest(http.MethodPost, "/calculate", strings.NewReader(`{}`))
	req.Header.Set("Origin", "http://localhost:8000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}

	pre := httptest.NewRequest(http.MethodOptions, "/calculate", nil)
	pre.Header.Set("Origin", "http://localhost:8000")
	pre.Header.Set("Access-Control-Request-Method", http.MethodPost)
	pre.Header.Set("Access-Control-Request-Headers", "Content-Type")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, pre)
	if w.Code >= 300 {
		t.Errorf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("preflight Access-Control-Allow-Origin = %q", got)
	}
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health("integration")(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" || body["service"] != "integration" {
		t.Errorf("body = %v", body)
	}
}

func TestServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	mux.Handle("GET /healthz", Health("calculator"))
	srv := &http.Server{Handler: Stack(mux, logging.Discard())}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, srv, time.Second, logging.Discard()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestCheckCanceled(t *testing.T) {
	if err := CheckCanceled(context.Background()); err != nil {
		t.Fatalf("live context: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := CheckCanceled(ctx)
	if err == nil || !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
