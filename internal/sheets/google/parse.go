package google

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"dompet/internal/core"
)

// Spreadsheet serial dates count days from 1899-12-30.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// dateLayouts are tried in order for dates stored as text.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"2 Jan 2006",
	"2 January 2006",
}

func toStrings(in []any) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = cellString(v)
	}
	return out
}

// headerIndex maps each required header to its column, matching names
// case-insensitively.
func headerIndex(header, required []string) (map[string]int, error) {
	cols := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		idx := indexOf(header, name)
		if idx < 0 {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), header)
	}
	return cols, nil
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

// cellInt coerces a cell to whole rupiah, yielding 0 when it is not numeric.
func cellInt(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(math.Round(t))
	case string:
		if m, err := core.ParseAmount(t); err == nil {
			return m.Rupiah
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int64(math.Round(f))
		}
	}
	return 0
}

// cellDate accepts serial numbers and the text layouts in dateLayouts.
func cellDate(v any) (core.Date, bool) {
	switch t := v.(type) {
	case float64:
		if t <= 0 {
			return core.Date{}, false
		}
		return core.DateOf(serialEpoch.AddDate(0, 0, int(t))), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return core.Date{}, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return cellDate(f)
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return core.DateOf(ts), true
			}
		}
	}
	return core.Date{}, false
}

// guardFormula keeps user text from being evaluated as a formula on USER_ENTERED writes.
func guardFormula(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// columnLetter converts a 1-based column number to A1 letters.
func columnLetter(n int) string {
	if n < 1 {
		return "A"
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
