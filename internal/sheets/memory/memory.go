package memory

import (
	"context"
	"fmt"
	"sync"

	"dompet/internal/core"
	"dompet/internal/sheets"
)

// firstRow mirrors a worksheet whose row 1 holds the header.
const firstRow = 2

type Store struct {
	mu       sync.Mutex
	expenses []core.Expense
	incomes  []core.Income
}

func New() *Store {
	return &Store{}
}

// AppendExpense stores the expense and returns a synthetic row reference.
func (s *Store) AppendExpense(_ context.Context, e core.Expense) (string, error) {
	if err := e.ValidateFields(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, e)
	return fmt.Sprintf("mem:expenses:%d", len(s.expenses)+firstRow-1), nil
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.expenses))
	for i, e := range s.expenses {
		e.Row = i + firstRow
		out[i] = e
	}
	return out, nil
}

func (s *Store) DeleteExpense(_ context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := row - firstRow
	if i < 0 || i >= len(s.expenses) {
		return sheets.ErrRowNotFound
	}
	s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
	return nil
}

func (s *Store) DeleteMatchingExpense(_ context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.expenses {
		if sheets.SameExpense(x, e) {
			s.expenses = append(s.expenses[:i], s.expenses[i+1:]...)
			return nil
		}
	}
	return sheets.ErrRowNotFound
}

func (s *Store) AppendIncome(_ context.Context, in core.Income) (string, error) {
	if err := in.ValidateFields(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.incomes = append(s.incomes, in)
	return fmt.Sprintf("mem:incomes:%d", len(s.incomes)+firstRow-1), nil
}

func (s *Store) ListIncomes(_ context.Context) ([]core.Income, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Income, len(s.incomes))
	for i, in := range s.incomes {
		in.Row = i + firstRow
		out[i] = in
	}
	return out, nil
}

func (s *Store) DeleteIncome(_ context.Context, row int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := row - firstRow
	if i < 0 || i >= len(s.incomes) {
		return sheets.ErrRowNotFound
	}
	s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
	return nil
}

func (s *Store) DeleteMatchingIncome(_ context.Context, in core.Income) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, x := range s.incomes {
		if sheets.SameIncome(x, in) {
			s.incomes = append(s.incomes[:i], s.incomes[i+1:]...)
			return nil
		}
	}
	return sheets.ErrRowNotFound
}
