package domain

import (
	"context"
	"time"
)

type PlanRepository interface {
	FindByID(ctx context.Context, planID string) (*Plan, error)
	Create(ctx context.Context, plan *Plan) error
	Save(ctx context.Context, plan *Plan) error
	// FindByStatusDueBefore pages through plans in status whose due date is on
	// or before cutoff, earliest due date first.
	FindByStatusDueBefore(ctx context.Context, status PlanStatus, cutoff time.Time, limit, offset int) ([]*Plan, error)
}

type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
	// ClaimTransactionReference reserves txRef for one caller. It reports false
	// when the reference is already recorded or held by another caller.
	ClaimTransactionReference(ctx context.Context, txRef string) (bool, error)
	// ReleaseTransactionReference gives up a claim whose payment was not applied.
	ReleaseTransactionReference(ctx context.Context, txRef string) error
	FindByTransactionReference(ctx context.Context, txRef string) (*Payment, error)
	ExistsByTransactionReference(ctx context.Context, txRef string) (bool, error)
	FindByPlanID(ctx context.Context, planID string) ([]*Payment, error)
	FindByPlanIDWithPagination(ctx context.Context, planID string, limit, offset int) ([]*Payment, error)
	CountByPlanID(ctx context.Context, planID string) (int64, error)
}

// ReminderLog remembers which reminders went out, keyed by plan, due date and
// stage, so repeated scans do not send the same one twice.
type ReminderLog interface {
	Claim(ctx context.Context, planID string, dueDate time.Time, stage string) (bool, error)
	Release(ctx context.Context, planID string, dueDate time.Time, stage string) error
}
