package sheets

import (
	"context"
	"errors"

	"dompet/internal/core"
)

// ErrRowNotFound is returned when a delete targets a row that does not hold an entry.
var ErrRowNotFound = errors.New("row not found")

// Ports for outbound adapters. Rows are storage positions as reported by the
// List methods; a delete invalidates the positions of later rows.
type (
	ExpenseWriter interface {
		AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	ExpenseLister interface {
		// ListExpenses returns every stored expense in storage order.
		ListExpenses(ctx context.Context) ([]core.Expense, error)
	}

	ExpenseDeleter interface {
		DeleteExpense(ctx context.Context, row int) error
	}

	IncomeWriter interface {
		AppendIncome(ctx context.Context, i core.Income) (rowRef string, err error)
	}

	IncomeLister interface {
		ListIncomes(ctx context.Context) ([]core.Income, error)
	}

	IncomeDeleter interface {
		DeleteIncome(ctx context.Context, row int) error
	}

	// MatchDeleter removes the first stored row equal to a given entry.
	// The sync worker uses it when the local row id means nothing remotely.
	MatchDeleter interface {
		DeleteMatchingExpense(ctx context.Context, e core.Expense) error
		DeleteMatchingIncome(ctx context.Context, i core.Income) error
	}
)

// SameExpense reports whether two expenses carry the same content, ignoring Row.
func SameExpense(a, b core.Expense) bool {
	return a.Date.Equal(b.Date.Time) && a.Method == b.Method &&
		a.Amount == b.Amount && a.Note == b.Note
}

func SameIncome(a, b core.Income) bool {
	return a.Date.Equal(b.Date.Time) && a.Cost == b.Cost && a.Sale == b.Sale &&
		a.Channel == b.Channel && a.Note == b.Note
}
