package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	EventTypePaymentProcessed = "payment.processed"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	GetEventID() string
	GetEventType() string
	GetAggregateID() string
	GetOccurredAt() time.Time
	GetPayload() interface{}
}

// BaseEvent provides common event fields
type BaseEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetEventID() string       { return e.EventID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// PaymentProcessedEvent - Payment successfully applied to a plan
type PaymentProcessedEvent struct {
	BaseEvent
	Payload PaymentProcessedPayload `json:"payload"`
}

func (e PaymentProcessedEvent) GetPayload() interface{} { return e.Payload }

// PaymentProcessedPayload carries kobo amounts plus the calculator figures the
// notification text needs, so consumers never recompute them.
type PaymentProcessedPayload struct {
	PlanID                string    `json:"plan_id"`
	CustomerName          string    `json:"customer_name"`
	Phone                 string    `json:"phone"`
	TransactionReference  string    `json:"transaction_reference"`
	Amount                int64     `json:"amount"`
	OutstandingBalance    int64     `json:"outstanding_balance"`
	Overpayment           int64     `json:"overpayment"`
	TotalPaid             int64     `json:"total_paid"`
	PaymentProgress       float64   `json:"payment_progress"`
	RemainingInstallments int       `json:"remaining_installments"`
	RemainingTermDays     int       `json:"remaining_term_days"`
	NextDueDate           time.Time `json:"next_due_date"`
	IsUnlocked            bool      `json:"is_unlocked"`
	ProcessedAt           time.Time `json:"processed_at"`
}

func NewPaymentProcessedEvent(planID string, payload PaymentProcessedPayload, occurredAt time.Time) *PaymentProcessedEvent {
	return &PaymentProcessedEvent{
		BaseEvent: BaseEvent{
			EventID:     uuid.New().String(),
			EventType:   EventTypePaymentProcessed,
			AggregateID: planID,
			OccurredAt:  occurredAt,
		},
		Payload: payload,
	}
}

// EventPublisher interface
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
}

// EventSubscriber interface
type EventSubscriber interface {
	Subscribe(ctx context.Context, eventType string, handler EventHandler) error
}

// EventHandler processes events
type EventHandler func(ctx context.Context, event DomainEvent) error
