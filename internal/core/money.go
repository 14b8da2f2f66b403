// Package core provides money parsing and handling utilities.
//
// Amounts are whole rupiah. The web form formats numbers with dot
// thousands separators, so parsing accepts grouped digits but never a
// fractional part.
package core

import (
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseAmount converts a user supplied amount into Money.
//
// Accepted forms:
//
//	"15000"      -> 15000
//	"15.000"     -> 15000
//	"Rp 15.000"  -> 15000
//	"1,250,000"  -> 1250000
//
// Grouped input must use one separator throughout with groups of exactly
// three digits, so "10.50" or "1.500,50" are rejected rather than read as
// 1050 or 150050.
//
// Returns ErrEmptyAmount for blank input and ErrInvalidAmount for anything
// that is not a non-negative whole number.
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrEmptyAmount
	}
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(s, "Rp"), "rp"))
	if s == "" {
		return Money{}, ErrEmptyAmount
	}
	digits, ok := ungroup(s)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	return Money{Rupiah: v}, nil
}

// ungroup strips thousands separators from s. It reports false unless s is
// plain digits or digit groups of three joined by a single separator kind.
func ungroup(s string) (string, bool) {
	i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if i < 0 {
		return s, true
	}
	var sep string
	for _, c := range []string{".", ",", " ", "\u00a0"} {
		if strings.HasPrefix(s[i:], c) {
			sep = c
			break
		}
	}
	if sep == "" {
		return "", false
	}
	groups := strings.Split(s, sep)
	if len(groups[0]) < 1 || len(groups[0]) > 3 {
		return "", false
	}
	for j, g := range groups {
		if j > 0 && len(g) != 3 {
			return "", false
		}
		if !allDigits(g) {
			return "", false
		}
	}
	return strings.Join(groups, ""), true
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// String renders the amount Indonesian style, e.g. "Rp 12.345" or "-Rp 500".
func (m Money) String() string {
	v := m.Rupiah
	if v < 0 {
		return "-Rp " + humanize.FormatInteger("#.###,", int(-v))
	}
	return "Rp " + humanize.FormatInteger("#.###,", int(v))
}
