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

func (s *Server) addIncome(ctx context.Context, f fieldGetter) (core.Income, string, error) {
	if s.store == nil {
		return core.Income{}, "", errNoStore
	}
	today := s.today()
	in, err := parseIncome(f, today, s.channels)
	if err == nil {
		err = in.Validate(today)
	}
	if err != nil {
		metrics.EntriesRejected.WithLabelValues(metrics.KindIncome, rejectionReason(err)).Inc()
		return in, "", validationError{err}
	}

	sctx, cancel := s.storeContext(ctx)
	defer cancel()
	ref, err := s.store.AppendIncome(sctx, in)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("append_income").Inc()
		return in, "", fmt.Errorf("append income: %w", err)
	}

	metrics.EntriesCreated.WithLabelValues(metrics.KindIncome).Inc()
	log.NewStructuredLogger(log.FromContext(ctx)).LogEntryCreated(ctx,
		log.NewFields().WithIncome(in.Date.String(), in.Channel, in.Cost.Rupiah, in.Sale.Rupiah), ref)
	return in, ref, nil
}

func (s *Server) removeIncome(ctx context.Context, row int) error {
	if s.store == nil {
		return errNoStore
	}
	sctx, cancel := s.storeContext(ctx)
	defer cancel()
	if err := s.store.DeleteIncome(sctx, row); err != nil {
		if !errors.Is(err, sheets.ErrRowNotFound) {
			metrics.StoreErrors.WithLabelValues("delete_income").Inc()
		}
		return err
	}
	metrics.EntriesDeleted.WithLabelValues(metrics.KindIncome).Inc()
	log.NewStructuredLogger(log.FromContext(ctx)).LogEntryDeleted(ctx, metrics.KindIncome, row)
	return nil
}

func (s *Server) loadIncomes(ctx context.Context) ([]core.Income, error) {
	if s.store == nil {
		return nil, errNoStore
	}
	sctx, cancel := s.storeContext(ctx)
	defer cancel()
	items, err := s.store.ListIncomes(sctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list_incomes").Inc()
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	core.SortIncomes(items)
	return items, nil
}

func (s *Server) handleIncomesPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page := s.newPage(r, "Income", "incomes")

	var items []core.Income
	if s.store != nil {
		var err error
		items, err = s.loadIncomes(ctx)
		if err != nil {
			log.FromContext(ctx).ErrorContext(ctx, "Failed to load incomes", "error", err)
			page.Flashes = append(page.Flashes, Flash{Kind: FlashDanger, Message: "Failed to load income from the spreadsheet."})
		}
	}

	// Charts plot profit, the number that matters for a seller.
	today := s.today()
	points := core.IncomeProfitPoints(items)
	weekly := core.WeeklySeries(points, today)
	monthly := core.MonthlySeries(points, today)
	page.Chart = chartData{Kind: metrics.KindIncome, Weekly: weekly, Monthly: monthly}
	page.WeeklyTotal = core.Money{Rupiah: weekly.Total()}
	page.MonthlyTotal = core.Money{Rupiah: monthly.Total()}

	for _, in := range core.Recent(items, recentEntries) {
		profit := in.Profit()
		page.Incomes = append(page.Incomes, incomeRow{
			Row:     in.Row,
			Date:    in.Date.Format(displayDate),
			Channel: in.Channel,
			Cost:    in.Cost,
			Sale:    in.Sale,
			Profit:  profit,
			Loss:    profit.Rupiah < 0,
			Note:    in.Note,
		})
	}

	s.render(w, r, "incomes.html", page)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	body := NewRequestBodyParser(w, r)
	if err := body.Parse(); err != nil {
		logger.WarnContext(ctx, "Parse form error", "error", err)
		s.notice(w, r, FlashDanger, "Invalid request format.")
		s.redirect(w, r, "/incomes")
		return
	}

	in, _, err := s.addIncome(ctx, body)
	var verr validationError
	switch {
	case err == nil:
		s.notice(w, r, FlashSuccess, fmt.Sprintf("Income recorded: sale %s, profit %s.", in.Sale, in.Profit()))
	case errors.As(err, &verr):
		logger.InfoContext(ctx, "Income rejected", "reason", rejectionReason(err))
		s.notice(w, r, FlashWarning, core.UserMessage(err))
	case errors.Is(err, errNoStore):
		s.notice(w, r, FlashDanger, "Spreadsheet is not connected; the income was not saved.")
	default:
		logger.ErrorContext(ctx, "Income append error", "error", err, log.FieldSale, in.Sale.Rupiah)
		s.notice(w, r, FlashDanger, "Failed to save data. Check the input and server logs.")
	}
	s.redirect(w, r, "/incomes")
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	s.deleteFromForm(w, r, "/incomes", s.removeIncome)
}
