package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dompet/internal/core"
	"dompet/internal/sheets"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

// ExpenseRecord is a stored expense plus its sync bookkeeping.
type ExpenseRecord struct {
	ID        int64
	Expense   core.Expense
	Synced    bool
	CreatedAt time.Time
}

type IncomeRecord struct {
	ID        int64
	Income    core.Income
	Synced    bool
	CreatedAt time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db), now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateExpense stores e and returns its id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.ValidateFields(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Date:      e.Date.String(),
		Method:    e.Method,
		Amount:    e.Amount.Rupiah,
		Note:      e.Note,
		CreatedAt: r.now().Unix(),
	})
	if err != nil {
		return 0, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.String(),
		"method", e.Method,
		"amount", e.Amount.Rupiah)
	return id, nil
}

func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		rec, err := expenseRecord(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable expense row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, rec.Expense)
	}
	return out, nil
}

func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64) (ExpenseRecord, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ExpenseRecord{}, sheets.ErrRowNotFound
	}
	if err != nil {
		return ExpenseRecord{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return expenseRecord(row)
}

// DeleteExpense removes the row and returns it with the synced flag it had
// when deleted, so callers never act on a stale read.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64) (ExpenseRecord, error) {
	row, err := r.queries.DeleteExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ExpenseRecord{}, sheets.ErrRowNotFound
	}
	if err != nil {
		return ExpenseRecord{}, fmt.Errorf("delete expense %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return expenseRecord(row)
}

// PendingExpenses returns unsynced expenses created at least grace ago.
func (r *SQLiteRepository) PendingExpenses(ctx context.Context, grace time.Duration, limit int) ([]ExpenseRecord, error) {
	rows, err := r.queries.PendingExpenses(ctx, r.now().Add(-grace).Unix(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending expenses: %w", err)
	}
	out := make([]ExpenseRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := expenseRecord(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable pending expense", "id", row.ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkExpenseSynced(ctx context.Context, id int64) error {
	n, err := r.queries.MarkExpenseSynced(ctx, id)
	if err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	if n == 0 {
		return sheets.ErrRowNotFound
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

func (r *SQLiteRepository) CreateIncome(ctx context.Context, in core.Income) (int64, error) {
	if err := in.ValidateFields(); err != nil {
		return 0, fmt.Errorf("validation failed: %w", err)
	}
	id, err := r.queries.CreateIncome(ctx, CreateIncomeParams{
		Date:      in.Date.String(),
		Cost:      in.Cost.Rupiah,
		Sale:      in.Sale.Rupiah,
		Channel:   in.Channel,
		Note:      in.Note,
		CreatedAt: r.now().Unix(),
	})
	if err != nil {
		return 0, fmt.Errorf("create income: %w", err)
	}

	slog.InfoContext(ctx, "Income saved to SQLite",
		"id", id,
		"date", in.Date.String(),
		"channel", in.Channel,
		"cost", in.Cost.Rupiah,
		"sale", in.Sale.Rupiah)
	return id, nil
}

func (r *SQLiteRepository) ListIncomes(ctx context.Context) ([]core.Income, error) {
	rows, err := r.queries.ListIncomes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}
	out := make([]core.Income, 0, len(rows))
	for _, row := range rows {
		rec, err := incomeRecord(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable income row", "id", row.ID, "error", err)
			continue
		}
		out = append(out, rec.Income)
	}
	return out, nil
}

func (r *SQLiteRepository) GetIncome(ctx context.Context, id int64) (IncomeRecord, error) {
	row, err := r.queries.GetIncome(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return IncomeRecord{}, sheets.ErrRowNotFound
	}
	if err != nil {
		return IncomeRecord{}, fmt.Errorf("get income %d: %w", id, err)
	}
	return incomeRecord(row)
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id int64) (IncomeRecord, error) {
	row, err := r.queries.DeleteIncome(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return IncomeRecord{}, sheets.ErrRowNotFound
	}
	if err != nil {
		return IncomeRecord{}, fmt.Errorf("delete income %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Income deleted from SQLite", "id", id)
	return incomeRecord(row)
}

func (r *SQLiteRepository) PendingIncomes(ctx context.Context, grace time.Duration, limit int) ([]IncomeRecord, error) {
	rows, err := r.queries.PendingIncomes(ctx, r.now().Add(-grace).Unix(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending incomes: %w", err)
	}
	out := make([]IncomeRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := incomeRecord(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unreadable pending income", "id", row.ID, "error", err)
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *SQLiteRepository) MarkIncomeSynced(ctx context.Context, id int64) error {
	n, err := r.queries.MarkIncomeSynced(ctx, id)
	if err != nil {
		return fmt.Errorf("mark income synced: %w", err)
	}
	if n == 0 {
		return sheets.ErrRowNotFound
	}
	slog.InfoContext(ctx, "Income marked as synced", "id", id)
	return nil
}

func expenseRecord(row Expense) (ExpenseRecord, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return ExpenseRecord{}, fmt.Errorf("expense %d date %q: %w", row.ID, row.Date, err)
	}
	return ExpenseRecord{
		ID: row.ID,
		Expense: core.Expense{
			Row:    int(row.ID),
			Date:   d,
			Method: row.Method,
			Amount: core.Money{Rupiah: row.Amount},
			Note:   row.Note,
		},
		Synced:    row.Synced,
		CreatedAt: time.Unix(row.CreatedAt, 0),
	}, nil
}

func incomeRecord(row Income) (IncomeRecord, error) {
	d, err := core.ParseDate(row.Date)
	if err != nil {
		return IncomeRecord{}, fmt.Errorf("income %d date %q: %w", row.ID, row.Date, err)
	}
	return IncomeRecord{
		ID: row.ID,
		Income: core.Income{
			Row:     int(row.ID),
			Date:    d,
			Cost:    core.Money{Rupiah: row.Cost},
			Sale:    core.Money{Rupiah: row.Sale},
			Channel: row.Channel,
			Note:    row.Note,
		},
		Synced:    row.Synced,
		CreatedAt: time.Unix(row.CreatedAt, 0),
	}, nil
}
