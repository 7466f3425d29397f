package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/fintrack/pkg/logger"
)

type Name string

const (
	TransactionCreated  Name = "transaction.created"
	TransactionApproved Name = "transaction.approved"
	TransactionRejected Name = "transaction.rejected"
	BudgetAlert         Name = "budget.alert"
)

type Event struct {
	ID         string    `json:"id"`
	Name       Name      `json:"name"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

func New(name Name, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Name:       name,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

type TransactionPayload struct {
	TransactionID string  `json:"transactionId"`
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	CategoryID    string  `json:"categoryId"`
	Status        string  `json:"status"`
	Actor         string  `json:"actor"`
}

type BudgetAlertPayload struct {
	BudgetID       string  `json:"budgetId"`
	CategoryID     string  `json:"categoryId"`
	CategoryName   string  `json:"categoryName"`
	Year           int     `json:"year"`
	Month          int     `json:"month"`
	MonthlyLimit   float64 `json:"monthlyLimit"`
	CurrentSpent   float64 `json:"currentSpent"`
	PercentageUsed float64 `json:"percentageUsed"`
	Status         string  `json:"status"`
	Message        string  `json:"message"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Emit publishes ev and logs a failure instead of returning it.
func Emit(ctx context.Context, p Publisher, name Name, payload any) {
	ev := New(name, payload)
	if err := p.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn("event publish failed", "event", name, "id", ev.ID, "error", err)
	}
}
