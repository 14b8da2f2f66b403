// Package http provides HTTP server and handler implementations.
//
// This file turns form or JSON request bodies into domain entries.
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"dompet/internal/core"
)

const maxBodyBytes = 64 << 10

var (
	errInvalidRow   = errors.New("invalid row")
	errTrailingJSON = errors.New("unexpected data after JSON object")
)

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body     []byte
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once, up to maxBodyBytes.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		p.err = dec.Decode(&p.jsonData)
		if p.err == nil && dec.Decode(&struct{}{}) != io.EOF {
			p.err = errTrailingJSON
		}
		return p.err
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Number returns the literal of a JSON number field. It reports false for
// form bodies and for JSON fields that are not numbers.
func (p *RequestBodyParser) Number(key string) (json.Number, bool) {
	n, ok := p.jsonData[key].(json.Number)
	return n, ok
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

type fieldGetter interface {
	Get(key string) string
}

type numberGetter interface {
	Number(key string) (json.Number, bool)
}

// parseAmountField reads a whole rupiah amount. A JSON number must be a
// non-negative integer literal; "1500.5" or "1.500" are rejected instead of
// being read as grouped digits.
func parseAmountField(f fieldGetter, key string) (core.Money, error) {
	if ng, ok := f.(numberGetter); ok {
		if n, ok := ng.Number(key); ok {
			v, err := n.Int64()
			if err != nil || v < 0 {
				return core.Money{}, core.ErrInvalidAmount
			}
			return core.Money{Rupiah: v}, nil
		}
	}
	return core.ParseAmount(f.Get(key))
}

// parseDateField reads a YYYY-MM-DD date; blank means today.
func parseDateField(v string, today core.Date) (core.Date, error) {
	if v == "" {
		return today, nil
	}
	d, err := core.ParseDate(v)
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return d, nil
}

// parseExpense builds an expense from submitted fields. A method outside
// the allowed list is treated as missing.
func parseExpense(f fieldGetter, today core.Date, methods []string) (core.Expense, error) {
	date, err := parseDateField(f.Get("date"), today)
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := parseAmountField(f, "amount")
	if err != nil {
		return core.Expense{}, err
	}
	return core.Expense{
		Date:   date,
		Method: canonical(methods, f.Get("method")),
		Amount: amount,
		Note:   f.Get("note"),
	}, nil
}

func parseIncome(f fieldGetter, today core.Date, channels []string) (core.Income, error) {
	date, err := parseDateField(f.Get("date"), today)
	if err != nil {
		return core.Income{}, err
	}
	cost, err := parseAmountField(f, "cost")
	if err != nil {
		return core.Income{}, err
	}
	sale, err := parseAmountField(f, "sale")
	if err != nil {
		return core.Income{}, err
	}
	return core.Income{
		Date:    date,
		Cost:    cost,
		Sale:    sale,
		Channel: canonical(channels, f.Get("channel")),
		Note:    f.Get("note"),
	}, nil
}

// parseRow reads the {row} URL parameter.
func parseRow(r *http.Request) (int, error) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil || row < 1 {
		return 0, errInvalidRow
	}
	return row, nil
}

// parseLimit reads ?limit=, clamped to [1, upper]. Missing or invalid gives def.
func parseLimit(r *http.Request, def, upper int) int {
	v := strings.TrimSpace(r.URL.Query().Get("limit"))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	if n > upper {
		return upper
	}
	return n
}

// canonical returns the list spelling of v, or "" when v is not listed.
func canonical(list []string, v string) string {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return s
		}
	}
	return ""
}
