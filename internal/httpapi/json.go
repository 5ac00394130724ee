// Package httpapi holds the HTTP plumbing shared by the calculator
// services: JSON bodies, error responses, middleware and the server loop.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/njchilds90/symcalc/internal/calcerr"
)

// DecodeJSON reads a single JSON value from r's body into v. The body is
// capped at maxBytes and trailing data is rejected. Unknown fields are
// ignored. Every failure is a calcerr.Validation error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return calcerr.Wrap(calcerr.Validation, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), err)
		case errors.Is(err, io.EOF):
			return calcerr.Wrap(calcerr.Validation, "Invalid JSON: empty body", err)
		}
		return calcerr.Wrap(calcerr.Validation, "Invalid JSON: "+err.Error(), err)
	}
	// Ensure there's no trailing junk.
	if dec.More() {
		return calcerr.New(calcerr.Validation, "Invalid JSON: trailing data")
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteError writes {"error": err.Error()} with the status calcerr.Status
// assigns to err.
func WriteError(w http.ResponseWriter, err error) {
	WriteJSON(w, calcerr.Status(err), ErrorResponse{Error: err.Error()})
}
