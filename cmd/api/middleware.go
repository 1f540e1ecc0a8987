package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"stockcount/pkg/contact"
	"stockcount/pkg/count"
	"stockcount/pkg/export"
	"stockcount/pkg/otel"
)

func (a *api) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.InjectTracing(r.Context(), a.tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// errorResponse is the body of 4xx/5xx replies.
type errorResponse struct {
	Field string `json:"field,omitempty"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// writeError maps validation failures to 400 and anything else to 500.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var cerr *count.ValidationError
	var kerr *contact.ValidationError
	switch {
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: cerr.Field, Error: cerr.Err.Error()})
	case errors.As(err, &kerr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Field: kerr.Field, Error: kerr.Err.Error()})
	default:
		a.log.Error(r.Context(), op, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

// confirmed reports whether a destructive request carries confirm=true.
func confirmed(w http.ResponseWriter, r *http.Request) bool {
	if ok, _ := strconv.ParseBool(r.URL.Query().Get("confirm")); ok {
		return true
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{Field: "confirm", Error: "clearing requires confirm=true"})
	return false
}

func (a *api) writeCSV(w http.ResponseWriter, prefix string, rows []string) {
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(prefix, a.now())))
	w.WriteHeader(http.StatusOK)
	w.Write(export.Document(rows))
}
