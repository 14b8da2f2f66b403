package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dompet/internal/core"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  nasi goreng  ", "nasi goreng"},
		{"<b>bold</b>", "bold"},
		{"tom & jerry", "tom & jerry"},
		{"a\x07b\tc\n", "abc"},
		{`<img src=x onerror="alert(1)">`, ""},
		{"Rp 15.000", "Rp 15.000"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	if got := clientIP(req); got != "10.1.2.3" {
		t.Errorf("clientIP = %q", got)
	}
	req.RemoteAddr = "10.1.2.3"
	if got := clientIP(req); got != "10.1.2.3" {
		t.Errorf("clientIP without port = %q", got)
	}
}

func TestRejectionReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{core.ErrInvalidDate, "invalid_date"},
		{core.ErrDateOutOfRange, "date_out_of_range"},
		{fmt.Errorf("wrapped: %w", core.ErrAmountOutOfRange), "amount_out_of_range"},
		{core.ErrSaleTooLow, "below_minimum"},
		{core.ErrEmptyChannel, "channel"},
		{errors.New("boom"), "other"},
	}
	for _, tt := range tests {
		if got := rejectionReason(tt.err); got != tt.want {
			t.Errorf("rejectionReason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, http.StatusNotFound, "row not found")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rr.Code)
	}
	want := `{"error":{"message":"row not found","status":404}}` + "\n"
	if rr.Body.String() != want {
		t.Errorf("body = %q, want %q", rr.Body.String(), want)
	}
}
