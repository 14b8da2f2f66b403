package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dompet/internal/backend"
	"dompet/internal/core"
	"dompet/internal/log"
	"dompet/internal/sheets/memory"
)

var (
	wib     = time.FixedZone("WIB", 7*60*60)
	testNow = time.Date(2026, time.October, 19, 9, 30, 0, 0, wib)
	today   = core.NewDate(2026, time.October, 19)
)

func testOptions(store backend.Backend) Options {
	lc := log.DefaultConfig()
	lc.Output = io.Discard
	return Options{
		Addr:           ":0",
		Store:          store,
		Logger:         log.New(lc),
		Location:       wib,
		PaymentMethods: []string{"Cash", "QRIS", "Transfer"},
		SalesChannels:  []string{"Offline", "Shopee"},
		FlashTTL:       time.Minute,
		Now:            func() time.Time { return testNow },
	}
}

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	srv, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.limiter.Stop)
	return srv
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func postForm(srv *Server, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(srv, req)
}

func get(srv *Server, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return do(srv, req)
}

// followRedirect checks a 303 and renders its target with the flash cookie.
func followRedirect(t *testing.T, srv *Server, rr *httptest.ResponseRecorder, wantLocation string) string {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303; body=%s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != wantLocation {
		t.Fatalf("Location = %q, want %q", loc, wantLocation)
	}
	page := get(srv, wantLocation, rr.Result().Cookies()...)
	if page.Code != http.StatusOK {
		t.Fatalf("GET %s status = %d", wantLocation, page.Code)
	}
	return page.Body.String()
}

func seedExpense(t *testing.T, store *memory.Store, d core.Date, amount int64) {
	t.Helper()
	if _, err := store.AppendExpense(context.Background(), core.Expense{Date: d, Method: "Cash", Amount: core.Money{Rupiah: amount}}); err != nil {
		t.Fatalf("seed expense: %v", err)
	}
}

func seedIncome(t *testing.T, store *memory.Store, d core.Date, cost, sale int64) {
	t.Helper()
	in := core.Income{Date: d, Cost: core.Money{Rupiah: cost}, Sale: core.Money{Rupiah: sale}, Channel: "Offline"}
	if _, err := store.AppendIncome(context.Background(), in); err != nil {
		t.Fatalf("seed income: %v", err)
	}
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, testOptions(memory.New()))

	for _, path := range []string{"/healthz", "/readyz"} {
		rr := get(srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("%s Content-Type = %q", path, ct)
		}
	}

	if rr := get(srv, "/metrics"); rr.Code != http.StatusOK {
		t.Errorf("/metrics status = %d", rr.Code)
	}
}

func TestExpensesPage_Empty(t *testing.T) {
	srv := newTestServer(t, testOptions(memory.New()))

	rr := get(srv, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"Record Expense",
		"No expenses yet.",
		`value="2026-10-19"`,
		`min="2026-10-17"`,
		`max="2026-10-20"`,
		`<option value="QRIS">`,
		`id="chart-data"`,
		"Last 7 days · Rp 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "notice-") {
		t.Error("empty page should carry no notices")
	}
	if csp := rr.Header().Get("Content-Security-Policy"); csp == "" {
		t.Error("missing Content-Security-Policy")
	}
}

func TestCreateExpense_Success(t *testing.T) {
	store := memory.New()
	srv := newTestServer(t, testOptions(store))

	rr := postForm(srv, "/expenses", "date=2026-10-19&method=cash&amount=15.000&note=%3Cb%3Ekopi%3C%2Fb%3E")
	body := followRedirect(t, srv, rr, "/")

	if !strings.Contains(body, "Expense Rp 15.000 recorded!") || !strings.Contains(body, "notice-success") {
		t.Errorf("missing success notice:\n%s", body)
	}
	if !strings.Contains(body, "Last 7 days · Rp 15.000") {
		t.Error("weekly total not updated")
	}

	items, _ := store.ListExpenses(context.Background())
	if len(items) != 1 {
		t.Fatalf("stored %d expenses, want 1", len(items))
	}
	got := items[0]
	if got.Method != "Cash" || got.Amount.Rupiah != 15000 || got.Note != "kopi" || got.Date != today {
		t.Errorf("stored %+v", got)
	}

	// Notices are shown once.
	again := get(srv, "/", rr.Result().Cookies()...)
	if strings.Contains(again.Body.String(), "recorded!") {
		t.Error("flash shown twice")
	}
}

func TestCreateExpense_BlankDateMeansToday(t *testing.T) {
	store := memory.New()
	srv := newTestServer(t, testOptions(store))

	followRedirect(t, srv, postForm(srv, "/expenses", "method=QRIS&amount=2000"), "/")

	items, _ := store.ListExpenses(context.Background())
	if len(items) != 1 || items[0].Date != today {
		t.Fatalf("got %+v", items)
	}
}

func TestCreateExpense_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"below minimum", "date=2026-10-19&method=Cash&amount=500", "Expense amount must be between Rp 1.000 and Rp 200.000."},
		{"above maximum", "date=2026-10-19&method=Cash&amount=200001", "Expense amount must be between Rp 1.000 and Rp 200.000."},
		{"too old", "date=2026-10-16&method=Cash&amount=5000", "Date must be between 2 days ago and tomorrow."},
		{"too far ahead", "date=2026-10-21&method=Cash&amount=5000", "Date must be between 2 days ago and tomorrow."},
		{"bad date", "date=19-10-2026&method=Cash&amount=5000", "Date is not valid."},
		{"unknown method", "date=2026-10-19&method=Bitcoin&amount=5000", "Choose a payment method."},
		{"letters", "date=2026-10-19&method=Cash&amount=abc", "Amount must be a valid number!"},
		{"decimal amount", "date=2026-10-19&method=Cash&amount=10.50", "Amount must be a valid number!"},
		{"empty amount", "date=2026-10-19&method=Cash&amount=", "Amount cannot be empty!"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			srv := newTestServer(t, testOptions(store))

			body := followRedirect(t, srv, postForm(srv, "/expenses", tt.body), "/")
			if !strings.Contains(body, tt.want) || !strings.Contains(body, "notice-warning") {
				t.Errorf("missing warning %q", tt.want)
			}
			if items, _ := store.ListExpenses(context.Background()); len(items) != 0 {
				t.Errorf("rejected expense was stored: %+v", items)
			}
		})
	}
}

func TestCreateExpense_WindowEdgesAccepted(t *testing.T) {
	store := memory.New()
	srv := newTestServer(t, testOptions(store))

	for _, body := range []string{
		"date=2026-10-17&method=Cash&amount=1000",
		"date=2026-10-20&method=Cash&amount=200000",
	} {
		followRedirect(t, srv, postForm(srv, "/expenses", body), "/")
	}
	if items, _ := store.ListExpenses(context.Background()); len(items) != 2 {
		t.Fatalf("stored %d expenses, want 2", len(items))
	}
}

func TestExpensesPage_ListsNewestFirst(t *testing.T) {
	store := memory.New()
	seedExpense(t, store, today.AddDays(-1), 3000)
	seedExpense(t, store, today, 7000)
	seedExpense(t, store, today.AddDays(-40), 9000)
	srv := newTestServer(t, testOptions(store))

	body := get(srv, "/").Body.String()
	first := strings.Index(body, "Rp 7.000")
	second := strings.Index(body, "Rp 3.000")
	if first < 0 || second < 0 || first > second {
		t.Errorf("expenses not newest first (7.000 at %d, 3.000 at %d)", first, second)
	}
	if !strings.Contains(body, "Last 7 days · Rp 10.000") {
		t.Error("weekly total should ignore entries older than a week")
	}
	if !strings.Contains(body, `action="/expenses/3/delete"`) {
		t.Error("delete form should address the storage row")
	}
}

func TestDeleteExpense(t *testing.T) {
	store := memory.New()
	seedExpense(t, store, today, 1000)
	seedExpense(t, store, today, 2000)
	srv := newTestServer(t, testOptions(store))

	body := followRedirect(t, srv, postForm(srv, "/expenses/2/delete", ""), "/")
	if !strings.Contains(body, "Entry deleted.") {
		t.Error("missing delete notice")
	}
	items, _ := store.ListExpenses(context.Background())
	if len(items) != 1 || items[0].Amount.Rupiah != 2000 {
		t.Fatalf("after delete: %+v", items)
	}

	body = followRedirect(t, srv, postForm(srv, "/expenses/99/delete", ""), "/")
	if !strings.Contains(body, "Entry not found; it may already be deleted.") {
		t.Error("missing not-found notice")
	}

	body = followRedirect(t, srv, postForm(srv, "/expenses/abc/delete", ""), "/")
	if !strings.Contains(body, "Invalid row.") {
		t.Error("missing invalid-row notice")
	}
}

func TestCreateIncome(t *testing.T) {
	store := memory.New()
	srv := newTestServer(t, testOptions(store))

	body := followRedirect(t, srv, postForm(srv, "/incomes", "date=2026-10-18&channel=shopee&cost=10.000&sale=25.000&note=kaos"), "/incomes")
	if !strings.Contains(body, "Income recorded: sale Rp 25.000, profit Rp 15.000.") {
		t.Errorf("missing success notice:\n%s", body)
	}
	if !strings.Contains(body, "Record Income") || !strings.Contains(body, "Shopee") {
		t.Error("income page not rendered")
	}

	items, _ := store.ListIncomes(context.Background())
	if len(items) != 1 || items[0].Channel != "Shopee" || items[0].Profit().Rupiah != 15000 {
		t.Fatalf("stored %+v", items)
	}
}

func TestCreateIncome_Rejected(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"low cost", "channel=Offline&cost=9999&sale=20000", "Cost and sale must be at least Rp 10.000."},
		{"low sale", "channel=Offline&cost=10000&sale=500", "Cost and sale must be at least Rp 10.000."},
		{"no channel", "channel=&cost=10000&sale=20000", "Choose a sales channel."},
		{"out of window", "date=2026-09-01&channel=Offline&cost=10000&sale=20000", "Date must be between 2 days ago and tomorrow."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			srv := newTestServer(t, testOptions(store))

			body := followRedirect(t, srv, postForm(srv, "/incomes", tt.body), "/incomes")
			if !strings.Contains(body, tt.want) {
				t.Errorf("missing warning %q", tt.want)
			}
			if items, _ := store.ListIncomes(context.Background()); len(items) != 0 {
				t.Errorf("rejected income was stored: %+v", items)
			}
		})
	}
}

func TestIncomesPage_ShowsLoss(t *testing.T) {
	store := memory.New()
	seedIncome(t, store, today, 30000, 20000)
	srv := newTestServer(t, testOptions(store))

	body := get(srv, "/incomes").Body.String()
	if !strings.Contains(body, `class="num loss">-Rp 10.000`) {
		t.Errorf("loss not highlighted:\n%s", body)
	}
	if !strings.Contains(body, "Last 7 days · -Rp 10.000") {
		t.Error("weekly profit total wrong")
	}
}

func TestDeleteIncome(t *testing.T) {
	store := memory.New()
	seedIncome(t, store, today, 10000, 20000)
	srv := newTestServer(t, testOptions(store))

	followRedirect(t, srv, postForm(srv, "/incomes/2/delete", ""), "/incomes")
	if items, _ := store.ListIncomes(context.Background()); len(items) != 0 {
		t.Fatalf("income not deleted: %+v", items)
	}
}

func TestNoStore(t *testing.T) {
	opts := testOptions(nil)
	opts.StoreErr = errors.New("credentials rejected")
	srv := newTestServer(t, opts)

	page := get(srv, "/")
	if page.Code != http.StatusOK {
		t.Fatalf("status = %d", page.Code)
	}
	body := page.Body.String()
	if !strings.Contains(body, "Spreadsheet connection FAILED") {
		t.Error("missing connection notice")
	}
	if !strings.Contains(body, "disabled") {
		t.Error("save button should be disabled")
	}

	body = followRedirect(t, srv, postForm(srv, "/expenses", "method=Cash&amount=5000"), "/")
	if !strings.Contains(body, "Spreadsheet is not connected; the expense was not saved.") {
		t.Error("missing not-saved notice")
	}
	body = followRedirect(t, srv, postForm(srv, "/incomes/2/delete", ""), "/incomes")
	if !strings.Contains(body, "Spreadsheet is not connected; nothing was deleted.") {
		t.Error("missing not-deleted notice")
	}

	rr := get(srv, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("readyz status = %d, want 503", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "credentials rejected") {
		t.Errorf("readyz should report the cause: %s", rr.Body.String())
	}

	if rr := get(srv, "/api/expenses"); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("api status = %d, want 503", rr.Code)
	}
}

// failingStore reads fail; writes go to the embedded memory store.
type failingStore struct {
	*memory.Store
}

var errSheetsDown = errors.New("sheets api: 500")

func (failingStore) ListExpenses(context.Context) ([]core.Expense, error) { return nil, errSheetsDown }
func (failingStore) ListIncomes(context.Context) ([]core.Income, error)   { return nil, errSheetsDown }

func TestReadFailureRendersNotice(t *testing.T) {
	srv := newTestServer(t, testOptions(failingStore{memory.New()}))

	for path, want := range map[string]string{
		"/":        "Failed to load expenses from the spreadsheet.",
		"/incomes": "Failed to load income from the spreadsheet.",
	} {
		rr := get(srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), want) {
			t.Errorf("%s missing %q", path, want)
		}
	}

	if rr := get(srv, "/api/summary"); rr.Code != http.StatusBadGateway {
		t.Errorf("summary status = %d, want 502", rr.Code)
	}
}

func TestAPI_Expenses(t *testing.T) {
	store := memory.New()
	seedExpense(t, store, today.AddDays(-1), 4000)
	srv := newTestServer(t, testOptions(store))

	req := httptest.NewRequest(http.MethodPost, "/api/expenses",
		strings.NewReader(`{"date":"2026-10-19","method":"Transfer","amount":12500,"note":"listrik"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := do(srv, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}
	var created struct {
		Ref     string     `json:"ref"`
		Expense apiExpense `json:"expense"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
		t.Fatal(err)
	}
	if created.Ref != "mem:expenses:3" || created.Expense.Amount != 12500 || created.Expense.Method != "Transfer" {
		t.Errorf("created = %+v", created)
	}

	rr = get(srv, "/api/expenses?limit=1")
	var list struct {
		Expenses []apiExpense `json:"expenses"`
		Count    int          `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 2 || len(list.Expenses) != 1 || list.Expenses[0].Date != "2026-10-19" {
		t.Errorf("list = %+v", list)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(`{"method":"Cash","amount":50}`))
	rr = do(srv, req)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid create status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Expense amount must be between") {
		t.Errorf("error body = %s", rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodPost, "/api/expenses", strings.NewReader(`{"amount":`))
	if rr := do(srv, req); rr.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d, want 400", rr.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/expenses/2", nil)
	if rr := do(srv, req); rr.Code != http.StatusNoContent {
		t.Errorf("delete status = %d", rr.Code)
	}
	req = httptest.NewRequest(http.MethodDelete, "/api/expenses/42", nil)
	if rr := do(srv, req); rr.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", rr.Code)
	}
	req = httptest.NewRequest(http.MethodDelete, "/api/expenses/0", nil)
	if rr := do(srv, req); rr.Code != http.StatusBadRequest {
		t.Errorf("delete row 0 status = %d, want 400", rr.Code)
	}
}

func TestAPI_RejectsFractionalAmounts(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"expense number", "/api/expenses", `{"date":"2026-10-19","method":"Cash","amount":1500.5}`},
		{"expense grouped-looking number", "/api/expenses", `{"date":"2026-10-19","method":"Cash","amount":15.000}`},
		{"expense decimal string", "/api/expenses", `{"date":"2026-10-19","method":"Cash","amount":"10.50"}`},
		{"income cost", "/api/incomes", `{"channel":"Offline","cost":10000.5,"sale":12000}`},
		{"income sale", "/api/incomes", `{"channel":"Offline","cost":10000,"sale":"1.500,50"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			srv := newTestServer(t, testOptions(store))

			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := do(srv, req)
			if rr.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422: %s", rr.Code, rr.Body.String())
			}
			if !strings.Contains(rr.Body.String(), "Amount must be a valid number!") {
				t.Errorf("error body = %s", rr.Body.String())
			}
			expenses, _ := store.ListExpenses(context.Background())
			incomes, _ := store.ListIncomes(context.Background())
			if len(expenses) != 0 || len(incomes) != 0 {
				t.Errorf("rejected entry was stored: %+v %+v", expenses, incomes)
			}
		})
	}
}

func TestAPI_CreateResponseOmitsRow(t *testing.T) {
	tests := []struct {
		path string
		body string
		key  string
	}{
		{"/api/expenses", `{"date":"2026-10-19","method":"Cash","amount":5000}`, "expense"},
		{"/api/incomes", `{"channel":"Offline","cost":10000,"sale":12000}`, "income"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			srv := newTestServer(t, testOptions(memory.New()))
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rr := do(srv, req)
			if rr.Code != http.StatusCreated {
				t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
			}
			var created map[string]map[string]any
			if err := json.NewDecoder(rr.Body).Decode(&created); err != nil {
				t.Fatal(err)
			}
			entry, ok := created[tt.key]
			if !ok {
				t.Fatalf("response has no %q object", tt.key)
			}
			if _, ok := entry["row"]; ok {
				t.Errorf("created %s reports a row: %v", tt.key, entry)
			}
		})
	}
}

func TestAPI_Incomes(t *testing.T) {
	store := memory.New()
	srv := newTestServer(t, testOptions(store))

	req := httptest.NewRequest(http.MethodPost, "/api/incomes",
		strings.NewReader(`{"channel":"Offline","cost":"10.000","sale":"12.000"}`))
	rr := do(srv, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rr.Code, rr.Body.String())
	}

	rr = get(srv, "/api/incomes")
	var list struct {
		Incomes []apiIncome `json:"incomes"`
		Count   int         `json:"count"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if list.Count != 1 || list.Incomes[0].Profit != 2000 || list.Incomes[0].Date != "2026-10-19" {
		t.Errorf("list = %+v", list)
	}
}

func TestAPI_Summary(t *testing.T) {
	store := memory.New()
	seedExpense(t, store, today, 5000)
	seedExpense(t, store, today.AddDays(-3), 6000)
	seedExpense(t, store, core.NewDate(2026, time.August, 2), 7000)
	seedIncome(t, store, today, 10000, 30000)
	srv := newTestServer(t, testOptions(store))

	rr := get(srv, "/api/summary")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var got summaryResponse
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Today != "2026-10-19" {
		t.Errorf("today = %q", got.Today)
	}
	if got.Expenses.WeeklyTotal != 11000 || got.Expenses.MonthlyTotal != 18000 {
		t.Errorf("expenses = %+v", got.Expenses)
	}
	if len(got.Expenses.Weekly.Values) != core.WeeklyDays || len(got.Expenses.Monthly.Values) != core.MonthlyMonths {
		t.Errorf("series lengths = %d, %d", len(got.Expenses.Weekly.Values), len(got.Expenses.Monthly.Values))
	}
	if got.Profit.WeeklyTotal != 20000 || got.Sales.WeeklyTotal != 30000 {
		t.Errorf("profit %d sales %d", got.Profit.WeeklyTotal, got.Sales.WeeklyTotal)
	}
}

func TestRateLimit(t *testing.T) {
	opts := testOptions(memory.New())
	opts.RateLimitRPM = 2
	srv := newTestServer(t, opts)

	for i := 0; i < 2; i++ {
		if rr := postForm(srv, "/expenses", "method=Cash&amount=1000"); rr.Code != http.StatusSeeOther {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}
	rr := postForm(srv, "/expenses", "method=Cash&amount=1000")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
	if rr := get(srv, "/"); rr.Code != http.StatusOK {
		t.Errorf("GET should not be limited, got %d", rr.Code)
	}
}

func TestStaticAssets(t *testing.T) {
	srv := newTestServer(t, testOptions(memory.New()))

	for _, path := range []string{"/static/charts.js", "/static/style.css"} {
		rr := get(srv, path)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rr.Code)
		}
		if cc := rr.Header().Get("Cache-Control"); !strings.HasPrefix(cc, "public") {
			t.Errorf("%s Cache-Control = %q", path, cc)
		}
	}
}
