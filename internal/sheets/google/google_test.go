package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"dompet/internal/core"
	ports "dompet/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// fakeSpreadsheet serves the subset of the Sheets v4 and Drive v3 REST APIs
// the client uses.
type fakeSpreadsheet struct {
	mu      sync.Mutex
	tabs    map[string]*fakeTab
	files   []string // spreadsheet titles visible through Drive
	lastQ   string
	appends [][]any
}

type fakeTab struct {
	id   int64
	rows [][]any
}

func newFake() *fakeSpreadsheet {
	return &fakeSpreadsheet{tabs: map[string]*fakeTab{
		"Expenses": {id: 0, rows: [][]any{{"Tanggal", "Metode", "Nominal", "Catatan"}}},
		"Incomes":  {id: 7, rows: [][]any{{"Tanggal", "Modal", "Jual", "Channel", "Catatan"}}},
	}}
}

func (f *fakeSpreadsheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case path == "/files":
		f.lastQ = r.URL.Query().Get("q")
		var files []map[string]string
		for i, title := range f.files {
			if strings.Contains(f.lastQ, "'"+title+"'") {
				files = append(files, map[string]string{"id": fmt.Sprintf("sheet-%d", i), "name": title})
			}
		}
		writeJSON(w, map[string]any{"files": files})

	case strings.HasSuffix(path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		for _, rq := range req.Requests {
			dr := rq.DeleteDimension.Range
			for _, tab := range f.tabs {
				if tab.id == dr.SheetId {
					tab.rows = append(tab.rows[:dr.StartIndex], tab.rows[dr.EndIndex:]...)
				}
			}
		}
		writeJSON(w, map[string]any{"spreadsheetId": "sid"})

	case strings.Contains(path, "/values/"):
		rng := path[strings.Index(path, "/values/")+len("/values/"):]
		if strings.HasSuffix(rng, ":append") {
			f.append(w, r, strings.TrimSuffix(rng, ":append"))
			return
		}
		f.get(w, rng)

	case strings.HasPrefix(path, "/v4/spreadsheets/"):
		var sheets []map[string]any
		for title, tab := range f.tabs {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"sheetId": tab.id, "title": title}})
		}
		writeJSON(w, map[string]any{"spreadsheetId": "sid", "sheets": sheets})

	default:
		http.NotFound(w, r)
	}
}

func (f *fakeSpreadsheet) get(w http.ResponseWriter, rng string) {
	name, part, _ := strings.Cut(rng, "!")
	tab, ok := f.tabs[name]
	if !ok {
		http.Error(w, `{"error":{"code":400,"message":"Unable to parse range"}}`, http.StatusBadRequest)
		return
	}
	var values [][]any
	switch part {
	case "1:1":
		values = tab.rows[:1]
	case "A:A":
		// Like the real API, trailing rows with an empty first cell are dropped.
		for _, row := range tab.rows {
			values = append(values, row[:1])
		}
		for len(values) > 0 && (len(values[len(values)-1]) == 0 || values[len(values)-1][0] == "") {
			values = values[:len(values)-1]
		}
	default:
		values = tab.rows
	}
	writeJSON(w, map[string]any{"range": rng, "values": values})
}

func (f *fakeSpreadsheet) append(w http.ResponseWriter, r *http.Request, rng string) {
	name, _, _ := strings.Cut(rng, "!")
	tab, ok := f.tabs[name]
	if !ok {
		http.Error(w, "no such sheet", http.StatusBadRequest)
		return
	}
	var vr gsheet.ValueRange
	if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	tab.rows = append(tab.rows, vr.Values...)
	f.appends = append(f.appends, vr.Values...)
	n := len(tab.rows)
	writeJSON(w, map[string]any{
		"spreadsheetId": "sid",
		"updates":       map[string]any{"updatedRange": fmt.Sprintf("%s!A%d:D%d", name, n, n)},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, f *fakeSpreadsheet, cfg Config) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	if cfg.SpreadsheetID == "" && cfg.SpreadsheetTitle == "" {
		cfg.SpreadsheetID = "sid"
	}
	c, err := New(context.Background(), cfg,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_MissingSpreadsheet(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing spreadsheet id or title" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sid"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_ResolvesTitle(t *testing.T) {
	f := newFake()
	f.files = []string{"Other", "Pengeluaran Harian Data"}
	c := newTestClient(t, f, Config{SpreadsheetTitle: "Pengeluaran Harian Data"})

	if c.SpreadsheetID() != "sheet-1" {
		t.Fatalf("spreadsheet id = %q", c.SpreadsheetID())
	}
	if !strings.Contains(f.lastQ, spreadsheetMime) || !strings.Contains(f.lastQ, "trashed = false") {
		t.Fatalf("unexpected drive query: %q", f.lastQ)
	}
}

func TestNew_UnknownTitle(t *testing.T) {
	f := newFake()
	srv := httptest.NewServer(f)
	defer srv.Close()
	_, err := New(context.Background(), Config{SpreadsheetTitle: "Missing"},
		goption.WithEndpoint(srv.URL+"/"), goption.WithHTTPClient(srv.Client()))
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_AppendAndListExpenses(t *testing.T) {
	f := newFake()
	c := newTestClient(t, f, Config{})
	ctx := context.Background()

	ref, err := c.AppendExpense(ctx, core.Expense{
		Date:   core.NewDate(2026, time.October, 18),
		Method: "QRIS",
		Amount: core.Money{Rupiah: 25_000},
		Note:   "=HYPERLINK(\"x\")",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "Expenses!A2:D2" {
		t.Fatalf("ref = %q", ref)
	}
	sent := f.appends[0]
	if sent[0] != "2026-10-18" || sent[1] != "QRIS" || sent[2] != float64(25_000) {
		t.Fatalf("unexpected row sent: %v", sent)
	}
	if !strings.HasPrefix(sent[3].(string), "'=") {
		t.Fatalf("formula not guarded: %v", sent[3])
	}

	// A serial date row and a row with an unreadable date.
	f.tabs["Expenses"].rows = append(f.tabs["Expenses"].rows,
		[]any{float64(46313), "Cash", "12.000", "parkir"},
		[]any{"not a date", "Cash", float64(1000), ""},
		[]any{"2026-10-19", "Transfer", "abc"},
	)

	list, err := c.ListExpenses(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 expenses, got %d: %+v", len(list), list)
	}
	if list[1].Row != 3 || list[1].Amount.Rupiah != 12_000 || list[1].Note != "parkir" {
		t.Fatalf("unexpected serial row: %+v", list[1])
	}
	// The unreadable row keeps its position so later rows stay addressable.
	if list[2].Row != 5 || list[2].Amount.Rupiah != 0 || list[2].Note != "" {
		t.Fatalf("unexpected last row: %+v", list[2])
	}
}

func TestClient_AppendRejectsInvalid(t *testing.T) {
	c := newTestClient(t, newFake(), Config{})
	_, err := c.AppendIncome(context.Background(), core.Income{
		Date: core.NewDate(2026, time.October, 18), Cost: core.Money{Rupiah: 100},
		Sale: core.Money{Rupiah: 20_000}, Channel: "Shopee",
	})
	if !errors.Is(err, core.ErrCostTooLow) {
		t.Fatalf("err = %v, want ErrCostTooLow", err)
	}
}

func TestClient_HeaderMismatch(t *testing.T) {
	f := newFake()
	f.tabs["Incomes"].rows[0] = []any{"Date", "Cost"}
	c := newTestClient(t, f, Config{})
	if _, err := c.ListIncomes(context.Background()); err == nil || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("expected header error, got %v", err)
	}
}

func TestClient_DeleteIncome(t *testing.T) {
	f := newFake()
	f.tabs["Incomes"].rows = append(f.tabs["Incomes"].rows,
		[]any{"2026-10-17", float64(10_000), float64(15_000), "Shopee", "a"},
		[]any{"2026-10-18", float64(20_000), float64(30_000), "Offline", "b"},
	)
	c := newTestClient(t, f, Config{})
	ctx := context.Background()

	for _, row := range []int{1, 4} {
		if err := c.DeleteIncome(ctx, row); !errors.Is(err, ports.ErrRowNotFound) {
			t.Fatalf("DeleteIncome(%d) = %v, want ErrRowNotFound", row, err)
		}
	}
	if err := c.DeleteIncome(ctx, 2); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, err := c.ListIncomes(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Note != "b" || list[0].Row != 2 || list[0].Profit().Rupiah != 10_000 {
		t.Fatalf("unexpected incomes after delete: %+v", list)
	}
}

func TestClient_DeleteTrailingRowWithBlankFirstCell(t *testing.T) {
	tests := []struct {
		name string
		tab  string
		rows [][]any
		del  func(*Client, context.Context, int) error
	}{
		{
			name: "expense without date",
			tab:  "Expenses",
			rows: [][]any{
				{"2026-10-18", "Cash", float64(5_000), "kopi"},
				{"", "Cash", float64(7_000), "parkir"},
			},
			del: (*Client).DeleteExpense,
		},
		{
			name: "income without date",
			tab:  "Incomes",
			rows: [][]any{
				{"2026-10-18", float64(10_000), float64(15_000), "Shopee", "a"},
				{"", float64(20_000), float64(30_000), "Offline", "b"},
			},
			del: (*Client).DeleteIncome,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFake()
			f.tabs[tt.tab].rows = append(f.tabs[tt.tab].rows, tt.rows...)
			c := newTestClient(t, f, Config{})

			if err := tt.del(c, context.Background(), 3); err != nil {
				t.Fatalf("delete last row: %v", err)
			}
			if got := len(f.tabs[tt.tab].rows); got != 2 {
				t.Fatalf("rows = %d, want 2", got)
			}
			if err := tt.del(c, context.Background(), 3); !errors.Is(err, ports.ErrRowNotFound) {
				t.Fatalf("delete past end = %v, want ErrRowNotFound", err)
			}
		})
	}
}

func TestClient_DeleteMatchingExpense(t *testing.T) {
	f := newFake()
	f.tabs["Expenses"].rows = append(f.tabs["Expenses"].rows,
		[]any{"2026-10-17", "Cash", float64(5_000), "kopi"},
		[]any{"2026-10-18", "Cash", float64(5_000), "kopi"},
	)
	c := newTestClient(t, f, Config{})
	ctx := context.Background()

	target := core.Expense{Date: core.NewDate(2026, time.October, 18), Method: "Cash", Amount: core.Money{Rupiah: 5_000}, Note: "kopi"}
	if err := c.DeleteMatchingExpense(ctx, target); err != nil {
		t.Fatalf("delete matching: %v", err)
	}
	if got := len(f.tabs["Expenses"].rows); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
	if err := c.DeleteMatchingExpense(ctx, target); !errors.Is(err, ports.ErrRowNotFound) {
		t.Fatalf("second delete = %v, want ErrRowNotFound", err)
	}
}
