package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Expense is a row of the expenses table.
type Expense struct {
	ID        int64
	Date      string
	Method    string
	Amount    int64
	Note      string
	Synced    bool
	CreatedAt int64
}

// Income is a row of the incomes table.
type Income struct {
	ID        int64
	Date      string
	Cost      int64
	Sale      int64
	Channel   string
	Note      string
	Synced    bool
	CreatedAt int64
}

const createExpense = `INSERT INTO expenses (date, method, amount, note, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type CreateExpenseParams struct {
	Date      string
	Method    string
	Amount    int64
	Note      string
	CreatedAt int64
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createExpense, arg.Date, arg.Method, arg.Amount, arg.Note, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const expenseColumns = `id, date, method, amount, note, synced, created_at`

const listExpenses = `SELECT ` + expenseColumns + ` FROM expenses ORDER BY date DESC, id DESC`

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const getExpense = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var e Expense
	err := row.Scan(&e.ID, &e.Date, &e.Method, &e.Amount, &e.Note, &e.Synced, &e.CreatedAt)
	return e, err
}

const deleteExpense = `DELETE FROM expenses WHERE id = ? RETURNING ` + expenseColumns

// DeleteExpense removes the row and returns it as it was at deletion time.
func (q *Queries) DeleteExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, deleteExpense, id)
	var e Expense
	err := row.Scan(&e.ID, &e.Date, &e.Method, &e.Amount, &e.Note, &e.Synced, &e.CreatedAt)
	return e, err
}

const pendingExpenses = `SELECT ` + expenseColumns + ` FROM expenses
WHERE synced = 0 AND created_at <= ?
ORDER BY id
LIMIT ?`

func (q *Queries) PendingExpenses(ctx context.Context, createdBefore, limit int64) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, pendingExpenses, createdBefore, limit)
	if err != nil {
		return nil, err
	}
	return scanExpenses(rows)
}

const markExpenseSynced = `UPDATE expenses SET synced = 1 WHERE id = ?`

func (q *Queries) MarkExpenseSynced(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, markExpenseSynced, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanExpenses(rows *sql.Rows) ([]Expense, error) {
	defer rows.Close()
	var items []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Date, &e.Method, &e.Amount, &e.Note, &e.Synced, &e.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createIncome = `INSERT INTO incomes (date, cost, sale, channel, note, created_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`

type CreateIncomeParams struct {
	Date      string
	Cost      int64
	Sale      int64
	Channel   string
	Note      string
	CreatedAt int64
}

func (q *Queries) CreateIncome(ctx context.Context, arg CreateIncomeParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createIncome, arg.Date, arg.Cost, arg.Sale, arg.Channel, arg.Note, arg.CreatedAt)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const incomeColumns = `id, date, cost, sale, channel, note, synced, created_at`

const listIncomes = `SELECT ` + incomeColumns + ` FROM incomes ORDER BY date DESC, id DESC`

func (q *Queries) ListIncomes(ctx context.Context) ([]Income, error) {
	rows, err := q.db.QueryContext(ctx, listIncomes)
	if err != nil {
		return nil, err
	}
	return scanIncomes(rows)
}

const getIncome = `SELECT ` + incomeColumns + ` FROM incomes WHERE id = ?`

func (q *Queries) GetIncome(ctx context.Context, id int64) (Income, error) {
	row := q.db.QueryRowContext(ctx, getIncome, id)
	var i Income
	err := row.Scan(&i.ID, &i.Date, &i.Cost, &i.Sale, &i.Channel, &i.Note, &i.Synced, &i.CreatedAt)
	return i, err
}

const deleteIncome = `DELETE FROM incomes WHERE id = ? RETURNING ` + incomeColumns

func (q *Queries) DeleteIncome(ctx context.Context, id int64) (Income, error) {
	row := q.db.QueryRowContext(ctx, deleteIncome, id)
	var i Income
	err := row.Scan(&i.ID, &i.Date, &i.Cost, &i.Sale, &i.Channel, &i.Note, &i.Synced, &i.CreatedAt)
	return i, err
}

const pendingIncomes = `SELECT ` + incomeColumns + ` FROM incomes
WHERE synced = 0 AND created_at <= ?
ORDER BY id
LIMIT ?`

func (q *Queries) PendingIncomes(ctx context.Context, createdBefore, limit int64) ([]Income, error) {
	rows, err := q.db.QueryContext(ctx, pendingIncomes, createdBefore, limit)
	if err != nil {
		return nil, err
	}
	return scanIncomes(rows)
}

const markIncomeSynced = `UPDATE incomes SET synced = 1 WHERE id = ?`

func (q *Queries) MarkIncomeSynced(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, markIncomeSynced, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanIncomes(rows *sql.Rows) ([]Income, error) {
	defer rows.Close()
	var items []Income
	for rows.Next() {
		var i Income
		if err := rows.Scan(&i.ID, &i.Date, &i.Cost, &i.Sale, &i.Channel, &i.Note, &i.Synced, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
