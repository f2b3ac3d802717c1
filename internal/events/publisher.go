package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	BudgetCreated            = "budget.created"
	BudgetUpdated            = "budget.updated"
	BudgetDeleted            = "budget.deleted"
	PeriodCreated            = "period.created"
	PeriodUpdated            = "period.updated"
	PeriodDeleted            = "period.deleted"
	DepositCreated           = "deposit.created"
	DepositUpdated           = "deposit.updated"
	DepositDeleted           = "deposit.deleted"
	EntityCreated            = "entity.created"
	EntityUpdated            = "entity.updated"
	EntityDeleted            = "entity.deleted"
	CategoryCreated          = "category.created"
	CategoryUpdated          = "category.updated"
	CategoryDeleted          = "category.deleted"
	ExpensePredictionCreated = "expense_prediction.created"
	ExpensePredictionUpdated = "expense_prediction.updated"
	ExpensePredictionDeleted = "expense_prediction.deleted"
)

type Event struct {
	Type       string    `json:"type"`
	BudgetID   uuid.UUID `json:"budget_id"`
	ResourceID uuid.UUID `json:"resource_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

func New(eventType string, budgetID, resourceID uuid.UUID) Event {
	return Event{
		Type:       eventType,
		BudgetID:   budgetID,
		ResourceID: resourceID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }

// RecordingPublisher keeps published events in memory.
type RecordingPublisher struct {
	Events []Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, event Event) error {
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

func (p *RecordingPublisher) Types() []string {
	types := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		types = append(types, e.Type)
	}
	return types
}
