package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"abastece/internal/core"
)

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: w.Header().Get("X-Request-ID"),
	})
}

// errorStatus maps domain errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidFuelType),
		errors.Is(err, core.ErrInvalidServiceType),
		errors.Is(err, core.ErrEmptyID),
		errors.Is(err, core.ErrNotesTooLong):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// writeDomainError logs unexpected failures and hides their detail from
// the client.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed", "operation", op, "error", err)
		writeError(w, r, status, "internal error")
		return
	}
	writeError(w, r, status, err.Error())
}

// yearParam reads ?year=. Missing or malformed values give 0, which the
// services read as "most recent year".
func yearParam(r *http.Request) int {
	return int(core.ParseIntOrZero(r.URL.Query().Get("year")))
}

// sanitizeInput removes control characters except tab, newline and carriage
// return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}
