package http

import (
	"encoding/json"
	"errors"
	"html"
	"net"
	"net/http"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	"dompet/internal/core"
)

var strictPolicy = bluemonday.StrictPolicy()

// sanitizeInput strips markup and control characters and trims whitespace.
// The strict policy escapes what it keeps, so entities are decoded back:
// templates escape on output.
func sanitizeInput(s string) string {
	s = html.UnescapeString(strictPolicy.Sanitize(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// clientIP returns the remote host. chi's RealIP middleware has already
// applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"status":  status,
		},
	})
}

// rejectionReason labels a validation failure for metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, core.ErrDateOutOfRange):
		return "date_out_of_range"
	case errors.Is(err, core.ErrEmptyAmount):
		return "empty_amount"
	case errors.Is(err, core.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, core.ErrAmountOutOfRange):
		return "amount_out_of_range"
	case errors.Is(err, core.ErrCostTooLow), errors.Is(err, core.ErrSaleTooLow):
		return "below_minimum"
	case errors.Is(err, core.ErrEmptyMethod):
		return "method"
	case errors.Is(err, core.ErrEmptyChannel):
		return "channel"
	case errors.Is(err, core.ErrNoteTooLong):
		return "note_too_long"
	default:
		return "other"
	}
}
