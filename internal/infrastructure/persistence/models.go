package persistence

import (
	"time"

	"github.com/sunpay/installment-service/internal/domain"
)

// PlanModel represents the database schema for installment plans
type PlanModel struct {
	ID              string    `gorm:"primaryKey;type:varchar(50)"`
	CustomerName    string    `gorm:"type:varchar(120)"`
	Phone           string    `gorm:"type:varchar(20);index"`
	UnlockPrice     int64     `gorm:"not null"`
	MinimumPayment  int64     `gorm:"not null"`
	TotalPaid       int64     `gorm:"not null;default:0"`
	ActivationDate  time.Time `gorm:"not null"`
	DueDate         time.Time `gorm:"not null;index"`
	LastPaymentDate *time.Time
	Status          string    `gorm:"type:varchar(20);not null;index"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts database model to domain entity
func (m *PlanModel) ToDomain() *domain.Plan {
	return &domain.Plan{
		ID:              m.ID,
		CustomerName:    m.CustomerName,
		Phone:           m.Phone,
		UnlockPrice:     m.UnlockPrice,
		MinimumPayment:  m.MinimumPayment,
		TotalPaid:       m.TotalPaid,
		ActivationDate:  m.ActivationDate,
		DueDate:         m.DueDate,
		LastPaymentDate: m.LastPaymentDate,
		Status:          domain.PlanStatus(m.Status),
		Version:         m.Version,
	}
}

// PlanModelFromDomain converts domain entity to database model
func PlanModelFromDomain(plan *domain.Plan) *PlanModel {
	return &PlanModel{
		ID:              plan.ID,
		CustomerName:    plan.CustomerName,
		Phone:           plan.Phone,
		UnlockPrice:     plan.UnlockPrice,
		MinimumPayment:  plan.MinimumPayment,
		TotalPaid:       plan.TotalPaid,
		ActivationDate:  plan.ActivationDate,
		DueDate:         plan.DueDate,
		LastPaymentDate: plan.LastPaymentDate,
		Status:          string(plan.Status),
		Version:         plan.Version,
	}
}

// PaymentModel represents the database schema for payments
type PaymentModel struct {
	ID                   string     `gorm:"primaryKey;type:varchar(50)"`
	PlanID               string     `gorm:"type:varchar(50);not null;index"`
	Amount               int64      `gorm:"not null"`
	TransactionReference string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	TransactionDate      time.Time  `gorm:"not null;index"`
	Status               string     `gorm:"type:varchar(20);not null"`
	ProcessedAt          *time.Time `gorm:"index"`
	CreatedAt            time.Time  `gorm:"autoCreateTime"`
}

func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts database model to domain entity
func (m *PaymentModel) ToDomain() *domain.Payment {
	payment := &domain.Payment{
		ID:                   m.ID,
		PlanID:               m.PlanID,
		Amount:               m.Amount,
		TransactionReference: m.TransactionReference,
		TransactionDate:      m.TransactionDate,
		Status:               domain.PaymentStatus(m.Status),
		CreatedAt:            m.CreatedAt,
	}
	if m.ProcessedAt != nil {
		payment.ProcessedAt = *m.ProcessedAt
	}
	return payment
}

// PaymentModelFromDomain converts domain entity to database model
func PaymentModelFromDomain(payment *domain.Payment) *PaymentModel {
	model := &PaymentModel{
		ID:                   payment.ID,
		PlanID:               payment.PlanID,
		Amount:               payment.Amount,
		TransactionReference: payment.TransactionReference,
		TransactionDate:      payment.TransactionDate,
		Status:               string(payment.Status),
		CreatedAt:            payment.CreatedAt,
	}
	if !payment.ProcessedAt.IsZero() {
		model.ProcessedAt = &payment.ProcessedAt
	}
	return model
}
