package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sunpay/installment-service/internal/domain"
)

const timestampLayout = time.RFC3339

// PaymentRequest is the payment provider webhook body.
type PaymentRequest struct {
	PlanID               string `json:"plan_id" validate:"required,max=64"`
	PaymentStatus        string `json:"payment_status" validate:"required"`
	TransactionAmount    string `json:"transaction_amount" validate:"required,positive_amount"`
	TransactionDate      string `json:"transaction_date" validate:"required,datetime=2006-01-02 15:04:05"`
	TransactionReference string `json:"transaction_reference" validate:"required,max=128"`
}

func (r *PaymentRequest) Validate() error {
	return Validate(r)
}

// GetAmountInKobo converts the naira amount string to kobo.
func (r *PaymentRequest) GetAmountInKobo() (int64, error) {
	amount, err := decimal.NewFromString(r.TransactionAmount)
	if err != nil {
		return 0, err
	}
	return domain.NairaToKobo(amount), nil
}

func (r *PaymentRequest) GetTransactionDate() (time.Time, error) {
	return time.Parse(webhookDateLayout, r.TransactionDate)
}

type PaymentResponse struct {
	Success            bool              `json:"success"`
	Message            string            `json:"message"`
	PlanID             string            `json:"plan_id,omitempty"`
	OutstandingBalance string            `json:"outstanding_balance,omitempty"`
	Overpayment        string            `json:"overpayment,omitempty"`
	TotalPaid          string            `json:"total_paid,omitempty"`
	PaymentProgress    float64           `json:"payment_progress,omitempty"`
	IsUnlocked         bool              `json:"is_unlocked,omitempty"`
	Progress           *ProgressResponse `json:"progress,omitempty"`
}

type PaymentRecordResponse struct {
	ID                   string `json:"id"`
	PlanID               string `json:"plan_id"`
	TransactionAmount    string `json:"transaction_amount"`
	TransactionReference string `json:"transaction_reference"`
	TransactionDate      string `json:"transaction_date"`
	Status               string `json:"status"`
	ProcessedAt          string `json:"processed_at"`
}

func NewPaymentRecordResponse(p *domain.Payment) PaymentRecordResponse {
	return PaymentRecordResponse{
		ID:                   p.ID,
		PlanID:               p.PlanID,
		TransactionAmount:    Naira(p.Amount),
		TransactionReference: p.TransactionReference,
		TransactionDate:      p.TransactionDate.Format(timestampLayout),
		Status:               string(p.Status),
		ProcessedAt:          p.ProcessedAt.Format(timestampLayout),
	}
}

type PaginationResponse struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

type PaymentListResponse struct {
	PlanID     string                  `json:"plan_id"`
	Count      int                     `json:"count"`
	Payments   []PaymentRecordResponse `json:"payments"`
	Pagination *PaginationResponse     `json:"pagination,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Naira renders kobo as a two-decimal naira string.
func Naira(kobo int64) string {
	return domain.KoboToNaira(kobo).StringFixed(2)
}
