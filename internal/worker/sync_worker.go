package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"dompet/internal/amqp"
	"dompet/internal/metrics"
	"dompet/internal/sheets"
	"dompet/internal/storage"
)

// Store is the local side of the sync.
type Store interface {
	GetExpense(ctx context.Context, id int64) (storage.ExpenseRecord, error)
	GetIncome(ctx context.Context, id int64) (storage.IncomeRecord, error)
	PendingExpenses(ctx context.Context, grace time.Duration, limit int) ([]storage.ExpenseRecord, error)
	PendingIncomes(ctx context.Context, grace time.Duration, limit int) ([]storage.IncomeRecord, error)
	MarkExpenseSynced(ctx context.Context, id int64) error
	MarkIncomeSynced(ctx context.Context, id int64) error
}

// Target is the spreadsheet side of the sync.
type Target interface {
	sheets.ExpenseWriter
	sheets.IncomeWriter
	sheets.MatchDeleter
}

// Consumer feeds queued messages to a handler until ctx is done.
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.Message) error) error
}

// SyncWorker mirrors SQLite entries into the spreadsheet.
// Message handling and sweeps never run concurrently, so a row cannot be
// appended twice by a message and a sweep racing each other.
type SyncWorker struct {
	store     Store
	target    Target
	batchSize int
	grace     time.Duration

	mu sync.Mutex
}

// NewSyncWorker creates a worker. Rows younger than grace are left to the
// message path during sweeps.
func NewSyncWorker(store Store, target Target, batchSize int, grace time.Duration) *SyncWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &SyncWorker{store: store, target: target, batchSize: batchSize, grace: grace}
}

// Handle processes a single message from AMQP.
func (w *SyncWorker) Handle(ctx context.Context, msg *amqp.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var err error
	switch msg.Action {
	case amqp.ActionSync:
		err = w.handleSync(ctx, msg)
	case amqp.ActionDelete:
		err = w.handleDelete(ctx, msg)
	default:
		err = fmt.Errorf("unknown action %q", msg.Action)
	}

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.SyncMessages.WithLabelValues(string(msg.Action), string(msg.Kind), outcome).Inc()
	return err
}

func (w *SyncWorker) handleSync(ctx context.Context, msg *amqp.Message) error {
	switch msg.Kind {
	case amqp.KindExpense:
		rec, err := w.store.GetExpense(ctx, msg.ID)
		if errors.Is(err, sheets.ErrRowNotFound) {
			slog.InfoContext(ctx, "Expense deleted before sync, skipping", "id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get expense from storage: %w", err)
		}
		return w.syncExpense(ctx, rec)
	case amqp.KindIncome:
		rec, err := w.store.GetIncome(ctx, msg.ID)
		if errors.Is(err, sheets.ErrRowNotFound) {
			slog.InfoContext(ctx, "Income deleted before sync, skipping", "id", msg.ID)
			return nil
		}
		if err != nil {
			return fmt.Errorf("get income from storage: %w", err)
		}
		return w.syncIncome(ctx, rec)
	default:
		return fmt.Errorf("unknown kind %q", msg.Kind)
	}
}

func (w *SyncWorker) handleDelete(ctx context.Context, msg *amqp.Message) error {
	var err error
	switch msg.Kind {
	case amqp.KindExpense:
		e, perr := msg.Expense.ToExpense()
		if perr != nil {
			return perr
		}
		err = w.target.DeleteMatchingExpense(ctx, e)
	case amqp.KindIncome:
		in, perr := msg.Income.ToIncome()
		if perr != nil {
			return perr
		}
		err = w.target.DeleteMatchingIncome(ctx, in)
	default:
		return fmt.Errorf("unknown kind %q", msg.Kind)
	}

	if errors.Is(err, sheets.ErrRowNotFound) {
		slog.WarnContext(ctx, "No matching spreadsheet row for deleted entry", "kind", msg.Kind, "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete %s from spreadsheet: %w", msg.Kind, err)
	}
	slog.InfoContext(ctx, "Deleted entry from spreadsheet", "kind", msg.Kind, "id", msg.ID)
	return nil
}

func (w *SyncWorker) syncExpense(ctx context.Context, rec storage.ExpenseRecord) error {
	if rec.Synced {
		slog.DebugContext(ctx, "Expense already synced", "id", rec.ID)
		return nil
	}
	ref, err := w.target.AppendExpense(ctx, rec.Expense)
	if err != nil {
		return fmt.Errorf("append expense %d: %w", rec.ID, err)
	}
	err = w.store.MarkExpenseSynced(ctx, rec.ID)
	if errors.Is(err, sheets.ErrRowNotFound) {
		// Deleted while the append was in flight; its delete skipped the sheet.
		return w.undoAppend(ctx, amqp.KindExpense, rec.ID, w.target.DeleteMatchingExpense(ctx, rec.Expense))
	}
	if err != nil {
		// The row is in the sheet; a retry would duplicate it.
		slog.ErrorContext(ctx, "Failed to mark expense as synced", "id", rec.ID, "error", err)
	}
	slog.InfoContext(ctx, "Synced expense", "id", rec.ID, "sheets_ref", ref, "amount", rec.Expense.Amount.Rupiah)
	return nil
}

func (w *SyncWorker) syncIncome(ctx context.Context, rec storage.IncomeRecord) error {
	if rec.Synced {
		slog.DebugContext(ctx, "Income already synced", "id", rec.ID)
		return nil
	}
	ref, err := w.target.AppendIncome(ctx, rec.Income)
	if err != nil {
		return fmt.Errorf("append income %d: %w", rec.ID, err)
	}
	err = w.store.MarkIncomeSynced(ctx, rec.ID)
	if errors.Is(err, sheets.ErrRowNotFound) {
		return w.undoAppend(ctx, amqp.KindIncome, rec.ID, w.target.DeleteMatchingIncome(ctx, rec.Income))
	}
	if err != nil {
		slog.ErrorContext(ctx, "Failed to mark income as synced", "id", rec.ID, "error", err)
	}
	slog.InfoContext(ctx, "Synced income", "id", rec.ID, "sheets_ref", ref, "sale", rec.Income.Sale.Rupiah)
	return nil
}

func (w *SyncWorker) undoAppend(ctx context.Context, kind amqp.Kind, id int64, err error) error {
	if err != nil && !errors.Is(err, sheets.ErrRowNotFound) {
		return fmt.Errorf("remove %s %d appended after local delete: %w", kind, id, err)
	}
	slog.InfoContext(ctx, "Entry deleted during sync, removed from spreadsheet", "kind", kind, "id", id)
	return nil
}

// SyncPending mirrors up to limit unsynced rows of each kind. It is the
// backup path for messages that were never published or got lost.
func (w *SyncWorker) SyncPending(ctx context.Context, limit int) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	expenses, err := w.store.PendingExpenses(ctx, w.grace, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending expenses: %w", err)
	}
	incomes, err := w.store.PendingIncomes(ctx, w.grace, limit)
	if err != nil {
		return 0, fmt.Errorf("get pending incomes: %w", err)
	}
	if len(expenses) == 0 && len(incomes) == 0 {
		return 0, nil
	}

	slog.InfoContext(ctx, "Processing pending entries", "expenses", len(expenses), "incomes", len(incomes))

	synced := 0
	for _, rec := range expenses {
		if err := w.syncExpense(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense", "id", rec.ID, "error", err)
			metrics.SyncSweepRows.WithLabelValues(metrics.KindExpense, "error").Inc()
			continue
		}
		metrics.SyncSweepRows.WithLabelValues(metrics.KindExpense, "ok").Inc()
		synced++
	}
	for _, rec := range incomes {
		if err := w.syncIncome(ctx, rec); err != nil {
			slog.ErrorContext(ctx, "Failed to sync income", "id", rec.ID, "error", err)
			metrics.SyncSweepRows.WithLabelValues(metrics.KindIncome, "error").Inc()
			continue
		}
		metrics.SyncSweepRows.WithLabelValues(metrics.KindIncome, "ok").Inc()
		synced++
	}
	return synced, nil
}

// StartupSyncCheck syncs a larger batch once, to recover from worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	n, err := w.SyncPending(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("startup sync: %w", err)
	}
	slog.InfoContext(ctx, "Startup sync completed", "synced", n)
	return nil
}

// Run performs the startup check, schedules a sweep every interval and
// consumes messages until ctx is cancelled. A nil consumer runs sweeps only.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer, interval time.Duration) error {
	if err := w.StartupSyncCheck(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sync check failed", "error", err)
	}

	sched := cron.New()
	_, err := sched.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		if _, err := w.SyncPending(ctx, w.batchSize); err != nil {
			slog.ErrorContext(ctx, "Periodic sync failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	sched.Start()
	defer func() { <-sched.Stop().Done() }()

	slog.InfoContext(ctx, "Sync worker running", "interval", interval, "batch_size", w.batchSize, "amqp", consumer != nil)

	if consumer == nil {
		<-ctx.Done()
		return nil
	}
	err = consumer.Consume(ctx, w.Handle)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
