package domain

import (
	"errors"
	"time"
)

type Payment struct {
	ID                   string
	PlanID               string
	Amount               int64 // in kobo
	TransactionReference string
	TransactionDate      time.Time
	Status               PaymentStatus
	ProcessedAt          time.Time
	CreatedAt            time.Time
}

var ErrOptimisticLock = errors.New("version mismatch - optimistic lock failed")

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusComplete  PaymentStatus = "COMPLETE"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusDuplicate PaymentStatus = "DUPLICATE"
)

func NewPayment(planID string, amount int64, transactionRef string, transactionDate time.Time, status PaymentStatus) (*Payment, error) {
	if planID == "" {
		return nil, ErrInvalidPlanID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if transactionRef == "" {
		return nil, ErrInvalidTransactionRef
	}

	return &Payment{
		PlanID:               planID,
		Amount:               amount,
		TransactionReference: transactionRef,
		TransactionDate:      transactionDate,
		Status:               status,
		CreatedAt:            transactionDate,
	}, nil
}

func (p *Payment) MarkAsProcessed(at time.Time) {
	p.ProcessedAt = at
}

func (p *Payment) IsDuplicate() bool {
	return p.Status == PaymentStatusDuplicate
}
