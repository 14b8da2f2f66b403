package adapters

import (
	"context"

	"dompet/internal/core"
	"dompet/internal/services"
)

// SQLiteAdapter adapts EntryService to the sheets.* ports so the HTTP
// handlers work unchanged on the SQLite + AMQP backend. Rows are SQLite ids.
type SQLiteAdapter struct {
	service *services.EntryService
}

func NewSQLiteAdapter(service *services.EntryService) *SQLiteAdapter {
	return &SQLiteAdapter{service: service}
}

// AppendExpense implements sheets.ExpenseWriter
func (a *SQLiteAdapter) AppendExpense(ctx context.Context, e core.Expense) (string, error) {
	return a.service.CreateExpense(ctx, e)
}

// ListExpenses implements sheets.ExpenseLister
func (a *SQLiteAdapter) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return a.service.ListExpenses(ctx)
}

// DeleteExpense implements sheets.ExpenseDeleter
func (a *SQLiteAdapter) DeleteExpense(ctx context.Context, row int) error {
	return a.service.DeleteExpense(ctx, int64(row))
}

func (a *SQLiteAdapter) AppendIncome(ctx context.Context, i core.Income) (string, error) {
	return a.service.CreateIncome(ctx, i)
}

func (a *SQLiteAdapter) ListIncomes(ctx context.Context) ([]core.Income, error) {
	return a.service.ListIncomes(ctx)
}

func (a *SQLiteAdapter) DeleteIncome(ctx context.Context, row int) error {
	return a.service.DeleteIncome(ctx, int64(row))
}

func (a *SQLiteAdapter) Ping(ctx context.Context) error {
	return a.service.Ping(ctx)
}
