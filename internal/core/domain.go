package core

import (
	"errors"
	"strings"
	"time"
)

const (
	MinExpenseAmount int64 = 1_000
	MaxExpenseAmount int64 = 200_000
	MinIncomeAmount  int64 = 10_000

	// Entry window relative to today, in days.
	MaxDaysBack  = 2
	MaxDaysAhead = 1

	MaxNoteLength = 200
)

type (
	Date struct {
		time.Time
	}

	Money struct {
		Rupiah int64
	}

	Expense struct {
		Row    int // storage position; 0 until persisted
		Date   Date
		Method string // payment method (Cash, QRIS, Transfer...)
		Amount Money
		Note   string
	}

	Income struct {
		Row     int
		Date    Date
		Cost    Money
		Sale    Money
		Channel string // sales channel
		Note    string
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrDateOutOfRange   = errors.New("date outside entry window")
	ErrEmptyAmount      = errors.New("empty amount")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountOutOfRange = errors.New("amount out of range")
	ErrCostTooLow       = errors.New("cost below minimum")
	ErrSaleTooLow       = errors.New("sale below minimum")
	ErrEmptyMethod      = errors.New("empty payment method")
	ErrEmptyChannel     = errors.New("empty channel")
	ErrNoteTooLong      = errors.New("note too long")
)

// Profit is sale minus cost. It may be negative.
func (i Income) Profit() Money {
	return Money{Rupiah: i.Sale.Rupiah - i.Cost.Rupiah}
}

// ValidateFields checks the shape of an expense without looking at the clock.
// Stores use it so rows entered days ago can still be synced or rewritten.
func (e Expense) ValidateFields() error {
	if e.Date.IsZero() {
		return ErrInvalidDate
	}
	if e.Amount.Rupiah < MinExpenseAmount || e.Amount.Rupiah > MaxExpenseAmount {
		return ErrAmountOutOfRange
	}
	if strings.TrimSpace(e.Method) == "" {
		return ErrEmptyMethod
	}
	if len([]rune(e.Note)) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// Validate applies ValidateFields and the entry window around today.
func (e Expense) Validate(today Date) error {
	if err := e.ValidateFields(); err != nil {
		return err
	}
	if !e.Date.WithinEntryWindow(today) {
		return ErrDateOutOfRange
	}
	return nil
}

func (i Income) ValidateFields() error {
	if i.Date.IsZero() {
		return ErrInvalidDate
	}
	if i.Cost.Rupiah < MinIncomeAmount {
		return ErrCostTooLow
	}
	if i.Sale.Rupiah < MinIncomeAmount {
		return ErrSaleTooLow
	}
	if strings.TrimSpace(i.Channel) == "" {
		return ErrEmptyChannel
	}
	if len([]rune(i.Note)) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

func (i Income) Validate(today Date) error {
	if err := i.ValidateFields(); err != nil {
		return err
	}
	if !i.Date.WithinEntryWindow(today) {
		return ErrDateOutOfRange
	}
	return nil
}

// UserMessage returns the notice shown to the user for a validation error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidDate):
		return "Date is not valid."
	case errors.Is(err, ErrDateOutOfRange):
		return "Date must be between 2 days ago and tomorrow."
	case errors.Is(err, ErrEmptyAmount):
		return "Amount cannot be empty!"
	case errors.Is(err, ErrInvalidAmount):
		return "Amount must be a valid number!"
	case errors.Is(err, ErrAmountOutOfRange):
		return "Expense amount must be between " + Money{MinExpenseAmount}.String() +
			" and " + Money{MaxExpenseAmount}.String() + "."
	case errors.Is(err, ErrCostTooLow), errors.Is(err, ErrSaleTooLow):
		return "Cost and sale must be at least " + Money{MinIncomeAmount}.String() + "."
	case errors.Is(err, ErrEmptyMethod):
		return "Choose a payment method."
	case errors.Is(err, ErrEmptyChannel):
		return "Choose a sales channel."
	case errors.Is(err, ErrNoteTooLong):
		return "Note is too long (max 200 characters)."
	default:
		return "Failed to save data. Check the input and server logs."
	}
}
