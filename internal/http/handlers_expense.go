package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"dompet/internal/core"
	"dompet/internal/log"
	"dompet/internal/metrics"
	"dompet/internal/sheets"
)

var errNoStore = errors.New("store unavailable")

// validationError marks input the user has to correct.
type validationError struct{ err error }

func (v validationError) Error() string { return v.err.Error() }
func (v validationError) Unwrap() error { return v.err }

// addExpense validates submitted fields and appends the expense.
func (s *Server) addExpense(ctx context.Context, f fieldGetter) (core.Expense, string, error) {
	if s.store == nil {
		return core.Expense{}, "", errNoStore
	}
	today := s.today()
	e, err := parseExpense(f, today, s.methods)
	if err == nil {
		err = e.Validate(today)
	}
	if err != nil {
		metrics.EntriesRejected.WithLabelValues(metrics.KindExpense, rejectionReason(err)).Inc()
		return e, "", validationError{err}
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()
	ref, err := s.store.AppendExpense(sctx, e)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("append_expense").Inc()
		return e, "", fmt.Errorf("append expense: %w", err)
	}

	metrics.EntriesCreated.WithLabelValues(metrics.KindExpense).Inc()
	log.NewStructuredLogger(log.FromContext(ctx)).LogEntryCreated(ctx,
		log.NewFields().WithExpense(e.Date.String(), e.Method, e.Amount.Rupiah), ref)
	return e, ref, nil
}

func (s *Server) removeExpense(ctx context.Context, row int) error {
	if s.store == nil {
		return errNoStore
	}
	sctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.DeleteExpense(sctx, row); err != nil {
		if !errors.Is(err, sheets.ErrRowNotFound) {
			metrics.StoreErrors.WithLabelValues("delete_expense").Inc()
		}
		return err
	}
	metrics.EntriesDeleted.WithLabelValues(metrics.KindExpense).Inc()
	log.NewStructuredLogger(log.FromContext(ctx)).LogEntryDeleted(ctx, metrics.KindExpense, row)
	return nil
}

// loadExpenses lists expenses newest first.
func (s *Server) loadExpenses(ctx context.Context) ([]core.Expense, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	sctx, cancel := s.storeContext(ctx)
	defer cancel()
	items, err := s.store.ListExpenses(sctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list_expenses").Inc()
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	core.SortExpenses(items)
	return items, nil
}

func (s *Server) handleExpensesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.newPage(r, "Expenses", "expenses")

	var items []core.Expense
	if s.store != nil {
		var err error
		items, err = s.loadExpenses(ctx)
		if err != nil {
			log.FromContext(ctx).ErrorContext(ctx, "Failed to load expenses", "error", err)
			page.Flashes = append(page.Flashes, Flash{Kind: FlashDanger, Message: "Failed to load expenses from the spreadsheet."})
		}
	}

	today := s.today()
	points := core.ExpensePoints(items)
	weekly := core.WeeklySeries(points, today)
	monthly := core.MonthlySeries(points, today)
	page.Chart = chartData{Kind: metrics.KindExpense, Weekly: weekly, Monthly: monthly}
	page.WeeklyTotal = core.Money{Rupiah: weekly.Total()}
	page.MonthlyTotal = core.Money{Rupiah: monthly.Total()}

	for _, e := range core.Recent(items, recentEntries) {
		page.Expenses = append(page.Expenses, expenseRow{
			Row:    e.Row,
			Date:   e.Date.Format(displayDate),
			Method: e.Method,
			Amount: e.Amount,
			Note:   e.Note,
		})
	}

	s.render(w, r, "expenses.html", page)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	body := NewRequestBodyParser(w, r)
	if err := body.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse form error", "error", err)
		s.notice(w, r, FlashDanger, "Invalid request format.")
		s.redirect(w, r, "/")
		return
	}

	e, _, err := s.addExpense(ctx, body)
	var verr validationError
	switch {
	case err == nil:
		s.notice(w, r, FlashSuccess, fmt.Sprintf("Expense %s recorded!", e.Amount))
	case errors.As(err, &verr):
		logger.InfoContext(ctx, "Expense rejected", "reason", rejectionReason(err))
		s.notice(w, r, FlashWarning, core.UserMessage(err))
	case errors.Is(err, errNoStore):
		s.notice(w, r, FlashDanger, "Spreadsheet is not connected; the expense was not saved.")
	default:
		logger.ErrorContext(ctx, "Expense append error", "error", err, log.FieldAmount, e.Amount.Rupiah)
		s.notice(w, r, FlashDanger, "Failed to save data. Check the input and server logs.")
	}
	s.redirect(w, r, "/")
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	s.deleteFromForm(w, r, "/", s.removeExpense)
}

// deleteFromForm handles the delete buttons of both pages.
func (s *Server) deleteFromForm(w http.ResponseWriter, r *http.Request, back string, remove func(context.Context, int) error) {
	ctx := r.Context()
	row, err := parseRow(r)
	if err != nil {
		s.notice(w, r, FlashWarning, "Invalid row.")
		s.redirect(w, r, back)
		return
	}

	err = remove(ctx, row)
	switch {
	case err == nil:
		s.notice(w, r, FlashSuccess, "Entry deleted.")
	case errors.Is(err, sheets.ErrRowNotFound):
		s.notice(w, r, FlashWarning, "Entry not found; it may already be deleted.")
	case errors.Is(err, errNoStore):
		s.notice(w, r, FlashDanger, "Spreadsheet is not connected; nothing was deleted.")
	default:
		log.FromContext(ctx).ErrorContext(ctx, "Delete error", "error", err, log.FieldRow, row)
		s.notice(w, r, FlashDanger, "Failed to delete the entry.")
	}
	s.redirect(w, r, back)
}
