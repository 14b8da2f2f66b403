package http

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"dompet/internal/backend"
	"dompet/internal/core"
	"dompet/internal/log"
)

const recentEntries = 10

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
		"uptime":    s.now().Sub(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the store is reachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]string{}

	switch {
	case s.store == nil:
		checks["store"] = "unavailable: " + s.storeErr.Error()
	default:
		checks["store"] = "ok"
		if p, ok := s.store.(backend.Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				checks["store"] = "failed: " + err.Error()
			}
		}
	}
	if checks["store"] != "ok" {
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": s.now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// ─── Page rendering ─────────────────────────────────────────────────────────

var templateFuncs = template.FuncMap{
	"rupiah": func(v int64) string { return core.Money{Rupiah: v}.String() },
}

type chartData struct {
	Kind    string      `json:"kind"`
	Weekly  core.Series `json:"weekly"`
	Monthly core.Series `json:"monthly"`
}

type pageData struct {
	Title   string
	Active  string
	Flashes []Flash

	// Store is false when the backend could not be reached at startup.
	Store bool

	Today   string
	MinDate string
	MaxDate string

	Methods  []string
	Channels []string

	Expenses []expenseRow
	Incomes  []incomeRow

	WeeklyTotal  core.Money
	MonthlyTotal core.Money
	Chart        chartData

	MinExpense int64
	MaxExpense int64
	MinIncome  int64
}

type expenseRow struct {
	Row    int
	Date   string
	Method string
	Amount core.Money
	Note   string
}

type incomeRow struct {
	Row     int
	Date    string
	Channel string
	Cost    core.Money
	Sale    core.Money
	Profit  core.Money
	Loss    bool
	Note    string
}

const displayDate = "Mon, 02/01/2006"

func (s *Server) newPage(r *http.Request, title, active string) *pageData {
	today := s.today()
	lo, hi := core.EntryWindow(today)
	p := &pageData{
		Title:      title,
		Active:     active,
		Flashes:    s.flashes.Pop(r),
		Store:      s.store != nil,
		Today:      today.String(),
		MinDate:    lo.String(),
		MaxDate:    hi.String(),
		Methods:    s.methods,
		Channels:   s.channels,
		MinExpense: core.MinExpenseAmount,
		MaxExpense: core.MaxExpenseAmount,
		MinIncome:  core.MinIncomeAmount,
	}
	if s.store == nil {
		p.Flashes = append(p.Flashes, Flash{
			Kind:    FlashDanger,
			Message: "Spreadsheet connection FAILED. Entries cannot be loaded or saved right now.",
		})
	}
	return p
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data *pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			"error", err, "template", name, log.FieldOperation, log.OpRender)
	}
}

// redirect finishes a form post with 303 See Other.
func (s *Server) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func (s *Server) notice(w http.ResponseWriter, r *http.Request, kind, msg string) {
	s.flashes.Add(w, r, kind, msg)
}
