package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/storage"
)

// Repository is the local store the service writes through.
type Repository interface {
	CreateExpense(ctx context.Context, e core.Expense) (int64, error)
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) (storage.ExpenseRecord, error)

	CreateIncome(ctx context.Context, i core.Income) (int64, error)
	ListIncomes(ctx context.Context) ([]core.Income, error)
	DeleteIncome(ctx context.Context, id int64) (storage.IncomeRecord, error)

	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	Publish(ctx context.Context, msg *amqp.Message) error
	Close() error
}

// EntryService orchestrates entry operations across SQLite and AMQP.
// Local writes are authoritative; publishing is best effort.
type EntryService struct {
	storage   Repository
	publisher Publisher
}

// NewEntryService accepts a nil publisher, in which case nothing is mirrored.
func NewEntryService(storage Repository, publisher Publisher) *EntryService {
	return &EntryService{storage: storage, publisher: publisher}
}

// CreateExpense saves an expense locally and publishes a sync message.
func (s *EntryService) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	id, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}
	s.publish(ctx, amqp.NewSyncMessage(amqp.KindExpense, id))
	return strconv.FormatInt(id, 10), nil
}

// DeleteExpense removes an expense locally. Rows already mirrored to the
// spreadsheet get a delete message; the synced flag is the one the row had
// when it was deleted.
func (s *EntryService) DeleteExpense(ctx context.Context, id int64) error {
	rec, err := s.storage.DeleteExpense(ctx, id)
	if err != nil {
		return err
	}
	if rec.Synced {
		s.publish(ctx, amqp.NewDeleteExpenseMessage(id, rec.Expense))
	}
	return nil
}

func (s *EntryService) CreateIncome(ctx context.Context, in core.Income) (string, error) {
	id, err := s.storage.CreateIncome(ctx, in)
	if err != nil {
		return "", fmt.Errorf("save income: %w", err)
	}
	s.publish(ctx, amqp.NewSyncMessage(amqp.KindIncome, id))
	return strconv.FormatInt(id, 10), nil
}

func (s *EntryService) DeleteIncome(ctx context.Context, id int64) error {
	rec, err := s.storage.DeleteIncome(ctx, id)
	if err != nil {
		return err
	}
	if rec.Synced {
		s.publish(ctx, amqp.NewDeleteIncomeMessage(id, rec.Income))
	}
	return nil
}

func (s *EntryService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.storage.ListExpenses(ctx)
}

func (s *EntryService) ListIncomes(ctx context.Context) ([]core.Income, error) {
	return s.storage.ListIncomes(ctx)
}

func (s *EntryService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

func (s *EntryService) publish(ctx context.Context, msg *amqp.Message) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message",
			"action", msg.Action, "kind", msg.Kind, "id", msg.ID)
		return
	}
	// The sweep in the sync worker picks up rows whose message was lost.
	if err := s.publisher.Publish(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"action", msg.Action, "kind", msg.Kind, "id", msg.ID, "error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *EntryService) Close() error {
	var errs []error
	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}
	return errors.Join(errs...)
}
