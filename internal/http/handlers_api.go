package http

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"dompet/internal/core"
	"dompet/internal/log"
	"dompet/internal/sheets"
)

const (
	defaultAPILimit = 50
	maxAPILimit     = 1000
)

// Row is omitted until the store assigns one; created entries carry a ref.
type apiExpense struct {
	Row    int    `json:"row,omitempty"`
	Date   string `json:"date"`
	Method string `json:"method"`
	Amount int64  `json:"amount"`
	Note   string `json:"note"`
}

type apiIncome struct {
	Row     int    `json:"row,omitempty"`
	Date    string `json:"date"`
	Cost    int64  `json:"cost"`
	Sale    int64  `json:"sale"`
	Profit  int64  `json:"profit"`
	Channel string `json:"channel"`
	Note    string `json:"note"`
}

func toAPIExpense(e core.Expense) apiExpense {
	return apiExpense{Row: e.Row, Date: e.Date.String(), Method: e.Method, Amount: e.Amount.Rupiah, Note: e.Note}
}

func toAPIIncome(i core.Income) apiIncome {
	return apiIncome{
		Row: i.Row, Date: i.Date.String(),
		Cost: i.Cost.Rupiah, Sale: i.Sale.Rupiah, Profit: i.Profit().Rupiah,
		Channel: i.Channel, Note: i.Note,
	}
}

// apiFailure maps an entry operation error to a response.
func (s *Server) apiFailure(w http.ResponseWriter, r *http.Request, err error) {
	var verr validationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusUnprocessableEntity, core.UserMessage(err))
	case errors.Is(err, errNoStore):
		writeError(w, http.StatusServiceUnavailable, "store unavailable")
	case errors.Is(err, sheets.ErrRowNotFound):
		writeError(w, http.StatusNotFound, "row not found")
	default:
		log.FromContext(r.Context()).ErrorContext(r.Context(), "API store error", "error", err, log.FieldPath, r.URL.Path)
		writeError(w, http.StatusBadGateway, "store error")
	}
}

func (s *Server) handleAPIListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.loadExpenses(r.Context())
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	out := []apiExpense{}
	for _, e := range core.Recent(items, parseLimit(r, defaultAPILimit, maxAPILimit)) {
		out = append(out, toAPIExpense(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{"expenses": out, "count": len(items)})
}

func (s *Server) handleAPICreateExpense(w http.ResponseWriter, r *http.Request) {
	body := NewRequestBodyParser(w, r)
	if err := body.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	e, ref, err := s.addExpense(r.Context(), body)
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ref": ref, "expense": toAPIExpense(e)})
}

func (s *Server) handleAPIDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteFromAPI(w, r, s.removeExpense)
}

func (s *Server) handleAPIListIncomes(w http.ResponseWriter, r *http.Request) {
	items, err := s.loadIncomes(r.Context())
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	out := []apiIncome{}
	for _, in := range core.Recent(items, parseLimit(r, defaultAPILimit, maxAPILimit)) {
		out = append(out, toAPIIncome(in))
	}
	writeJSON(w, http.StatusOK, map[string]any{"incomes": out, "count": len(items)})
}

func (s *Server) handleAPICreateIncome(w http.ResponseWriter, r *http.Request) {
	body := NewRequestBodyParser(w, r)
	if err := body.Parse(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	in, ref, err := s.addIncome(r.Context(), body)
	if err != nil {
		s.apiFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ref": ref, "income": toAPIIncome(in)})
}

func (s *Server) handleAPIDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.deleteFromAPI(w, r, s.removeIncome)
}

func (s *Server) deleteFromAPI(w http.ResponseWriter, r *http.Request, remove func(context.Context, int) error) {
	row, err := parseRow(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid row")
		return
	}
	if err := remove(r.Context(), row); err != nil {
		s.apiFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type summaryResponse struct {
	Today    string         `json:"today"`
	Expenses summarySection `json:"expenses"`
	Profit   summarySection `json:"profit"`
	Sales    summarySection `json:"sales"`
}

type summarySection struct {
	Weekly       core.Series `json:"weekly"`
	Monthly      core.Series `json:"monthly"`
	WeeklyTotal  int64       `json:"weekly_total"`
	MonthlyTotal int64       `json:"monthly_total"`
}

func newSummarySection(points []core.Point, today core.Date) summarySection {
	w := core.WeeklySeries(points, today)
	m := core.MonthlySeries(points, today)
	return summarySection{Weekly: w, Monthly: m, WeeklyTotal: w.Total(), MonthlyTotal: m.Total()}
}

// handleAPISummary loads both worksheets concurrently and returns all series.
func (s *Server) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	var (
		expenses []core.Expense
		incomes  []core.Income
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		expenses, err = s.loadExpenses(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.loadIncomes(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.apiFailure(w, r, err)
		return
	}

	today := s.today()
	writeJSON(w, http.StatusOK, summaryResponse{
		Today:    today.String(),
		Expenses: newSummarySection(core.ExpensePoints(expenses), today),
		Profit:   newSummarySection(core.IncomeProfitPoints(incomes), today),
		Sales:    newSummarySection(core.IncomeSalePoints(incomes), today),
	})
}
