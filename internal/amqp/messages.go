package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"dompet/internal/core"
)

type Action string

const (
	ActionSync   Action = "sync"
	ActionDelete Action = "delete"
)

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Message asks the worker to mirror a local change into the spreadsheet.
// Sync messages carry only the local ID; the worker reads the row from the
// database. Delete messages carry the entry itself because the local row is
// already gone.
type Message struct {
	Action    Action          `json:"action"`
	Kind      Kind            `json:"kind"`
	ID        int64           `json:"id"`
	Expense   *ExpensePayload `json:"expense,omitempty"`
	Income    *IncomePayload  `json:"income,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type ExpensePayload struct {
	Date   string `json:"date"`
	Method string `json:"method"`
	Amount int64  `json:"amount"`
	Note   string `json:"note,omitempty"`
}

type IncomePayload struct {
	Date    string `json:"date"`
	Cost    int64  `json:"cost"`
	Sale    int64  `json:"sale"`
	Channel string `json:"channel"`
	Note    string `json:"note,omitempty"`
}

func NewSyncMessage(kind Kind, id int64) *Message {
	return &Message{Action: ActionSync, Kind: kind, ID: id, Timestamp: time.Now()}
}

func NewDeleteExpenseMessage(id int64, e core.Expense) *Message {
	return &Message{
		Action: ActionDelete,
		Kind:   KindExpense,
		ID:     id,
		Expense: &ExpensePayload{
			Date:   e.Date.String(),
			Method: e.Method,
			Amount: e.Amount.Rupiah,
			Note:   e.Note,
		},
		Timestamp: time.Now(),
	}
}

func NewDeleteIncomeMessage(id int64, i core.Income) *Message {
	return &Message{
		Action: ActionDelete,
		Kind:   KindIncome,
		ID:     id,
		Income: &IncomePayload{
			Date:    i.Date.String(),
			Cost:    i.Cost.Rupiah,
			Sale:    i.Sale.Rupiah,
			Channel: i.Channel,
			Note:    i.Note,
		},
		Timestamp: time.Now(),
	}
}

// Validate rejects messages the worker cannot act on.
func (m *Message) Validate() error {
	switch m.Kind {
	case KindExpense, KindIncome:
	default:
		return fmt.Errorf("unknown kind %q", m.Kind)
	}
	switch m.Action {
	case ActionSync:
		if m.ID <= 0 {
			return fmt.Errorf("sync message without id")
		}
	case ActionDelete:
		if m.Kind == KindExpense && m.Expense == nil {
			return fmt.Errorf("delete message without expense payload")
		}
		if m.Kind == KindIncome && m.Income == nil {
			return fmt.Errorf("delete message without income payload")
		}
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
	return nil
}

func (m *Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// MessageFromJSON decodes and validates a message body.
func MessageFromJSON(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (p ExpensePayload) ToExpense() (core.Expense, error) {
	d, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Expense{}, fmt.Errorf("payload date %q: %w", p.Date, err)
	}
	return core.Expense{Date: d, Method: p.Method, Amount: core.Money{Rupiah: p.Amount}, Note: p.Note}, nil
}

func (p IncomePayload) ToIncome() (core.Income, error) {
	d, err := core.ParseDate(p.Date)
	if err != nil {
		return core.Income{}, fmt.Errorf("payload date %q: %w", p.Date, err)
	}
	return core.Income{
		Date:    d,
		Cost:    core.Money{Rupiah: p.Cost},
		Sale:    core.Money{Rupiah: p.Sale},
		Channel: p.Channel,
		Note:    p.Note,
	}, nil
}
