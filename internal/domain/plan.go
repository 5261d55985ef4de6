package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sunpay/installment-service/internal/installment"
)

// Domain errors
var (
	ErrInvalidPlanID         = errors.New("invalid plan ID")
	ErrInvalidUnlockPrice    = errors.New("unlock price must be positive")
	ErrInvalidMinimumPayment = errors.New("minimum payment must be positive and not exceed the unlock price")
	ErrInvalidAmount         = errors.New("invalid transaction amount")
	ErrInvalidTransactionRef = errors.New("invalid transaction reference")
	ErrDuplicateTransaction  = errors.New("duplicate transaction")
	ErrPlanAlreadyUnlocked   = errors.New("plan already unlocked")
	ErrPlanNotFound          = errors.New("plan not found")
	ErrPlanExists            = errors.New("plan already exists")
	ErrPaymentNotFound       = errors.New("payment not found")
)

// Plan is the aggregate root: one customer paying down one solar kit.
type Plan struct {
	ID              string
	CustomerName    string
	Phone           string
	UnlockPrice     int64 // in kobo (N1,500,000 = 150,000,000 kobo)
	MinimumPayment  int64 // in kobo
	TotalPaid       int64 // in kobo, may exceed UnlockPrice on overpayment
	ActivationDate  time.Time
	DueDate         time.Time
	LastPaymentDate *time.Time
	Status          PlanStatus
	Version         int64 // for optimistic locking
}

type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "ACTIVE"
	PlanStatusUnlocked  PlanStatus = "UNLOCKED"
	PlanStatusDefaulted PlanStatus = "DEFAULTED"
)

// NewPlan creates a plan at activation. The first installment falls due one
// period after activation.
func NewPlan(id, customerName, phone string, unlockPrice, minimumPayment int64, activationDate time.Time) (*Plan, error) {
	if id == "" {
		return nil, ErrInvalidPlanID
	}
	if unlockPrice <= 0 {
		return nil, ErrInvalidUnlockPrice
	}
	if minimumPayment <= 0 || minimumPayment > unlockPrice {
		return nil, ErrInvalidMinimumPayment
	}

	return &Plan{
		ID:             id,
		CustomerName:   customerName,
		Phone:          phone,
		UnlockPrice:    unlockPrice,
		MinimumPayment: minimumPayment,
		TotalPaid:      0,
		ActivationDate: activationDate,
		DueDate:        installment.NextDueDate(activationDate, 0),
		Status:         PlanStatusActive,
		Version:        1,
	}, nil
}

// ApplyPayment records a payment against the plan and moves the due date past
// every installment now fully covered.
func (p *Plan) ApplyPayment(amount int64, paymentDate time.Time) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	if p.Status == PlanStatusUnlocked {
		return ErrPlanAlreadyUnlocked
	}

	p.TotalPaid += amount
	p.LastPaymentDate = &paymentDate

	if p.MinimumPayment > 0 {
		paid := int(p.TotalPaid / p.MinimumPayment)
		p.DueDate = installment.NextDueDate(p.ActivationDate, paid)
	}

	if p.TotalPaid >= p.UnlockPrice {
		p.Status = PlanStatusUnlocked
	}

	// Note: Version is incremented by the repository during persistence
	return nil
}

// Snapshot converts the plan to naira amounts for the calculator.
func (p *Plan) Snapshot() installment.Plan {
	return installment.Plan{
		UnlockPrice:    KoboToNaira(p.UnlockPrice),
		MinimumPayment: KoboToNaira(p.MinimumPayment),
		TotalPaid:      KoboToNaira(p.TotalPaid),
		DueDate:        p.dueDateForReport(),
	}
}

// Progress runs the installment calculator on the current state of the plan.
func (p *Plan) Progress(today time.Time) (installment.Report, error) {
	return installment.Compute(p.Snapshot(), today)
}

// IsUnlocked checks if the customer owns the asset outright.
func (p *Plan) IsUnlocked() bool {
	return p.TotalPaid >= p.UnlockPrice || p.Status == PlanStatusUnlocked
}

// unlocked plans have nothing left to fall due
func (p *Plan) dueDateForReport() time.Time {
	if p.IsUnlocked() {
		return time.Time{}
	}
	return p.DueDate
}

// KoboToNaira converts a kobo amount to naira.
func KoboToNaira(kobo int64) decimal.Decimal {
	return decimal.New(kobo, -2)
}

// NairaToKobo converts naira to kobo, rounding to the nearest kobo.
func NairaToKobo(naira decimal.Decimal) int64 {
	return naira.Shift(2).Round(0).IntPart()
}
