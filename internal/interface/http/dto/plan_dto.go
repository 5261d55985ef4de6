package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sunpay/installment-service/internal/checkout"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/installment"
)

type CreatePlanRequest struct {
	PlanID         string `json:"plan_id" validate:"required,max=64"`
	CustomerName   string `json:"customer_name" validate:"required,max=255"`
	Phone          string `json:"phone" validate:"required,e164"`
	UnlockPrice    string `json:"unlock_price" validate:"required,positive_amount"`
	MinimumPayment string `json:"minimum_payment" validate:"required,positive_amount"`
	ActivationDate string `json:"activation_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreatePlanRequest) Validate() error {
	return Validate(r)
}

// Kobo returns the unlock price and minimum payment in kobo.
func (r *CreatePlanRequest) Kobo() (unlockPrice, minimumPayment int64, err error) {
	up, err := decimal.NewFromString(r.UnlockPrice)
	if err != nil {
		return 0, 0, err
	}
	mp, err := decimal.NewFromString(r.MinimumPayment)
	if err != nil {
		return 0, 0, err
	}
	return domain.NairaToKobo(up), domain.NairaToKobo(mp), nil
}

// GetActivationDate returns the zero time when no date was sent.
func (r *CreatePlanRequest) GetActivationDate() (time.Time, error) {
	if r.ActivationDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, r.ActivationDate)
}

// QuoteRequest is an ad-hoc plan snapshot. Amount strings are only checked
// for syntax; range checks belong to the calculator.
type QuoteRequest struct {
	UnlockPrice    string `json:"unlock_price" validate:"required,amount"`
	MinimumPayment string `json:"minimum_payment" validate:"required,amount"`
	TotalPaid      string `json:"total_paid" validate:"omitempty,amount"`
	DueDate        string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Currency       string `json:"currency" validate:"omitempty,iso4217"`
}

func (r *QuoteRequest) Validate() error {
	return Validate(r)
}

func (r *QuoteRequest) Snapshot() (installment.Plan, error) {
	var p installment.Plan
	var err error

	if p.UnlockPrice, err = decimal.NewFromString(r.UnlockPrice); err != nil {
		return p, err
	}
	if p.MinimumPayment, err = decimal.NewFromString(r.MinimumPayment); err != nil {
		return p, err
	}
	if r.TotalPaid != "" {
		if p.TotalPaid, err = decimal.NewFromString(r.TotalPaid); err != nil {
			return p, err
		}
	}
	if r.DueDate != "" {
		if p.DueDate, err = time.Parse(dateLayout, r.DueDate); err != nil {
			return p, err
		}
	}
	return p, nil
}

type CheckoutRequest struct {
	Amount string `json:"amount" validate:"omitempty,positive_amount"`
}

func (r *CheckoutRequest) Validate() error {
	return Validate(r)
}

// GetAmountInKobo returns zero when no amount was sent.
func (r *CheckoutRequest) GetAmountInKobo() (int64, error) {
	if r.Amount == "" {
		return 0, nil
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return 0, err
	}
	return domain.NairaToKobo(amount), nil
}

type PlanResponse struct {
	PlanID          string            `json:"plan_id"`
	CustomerName    string            `json:"customer_name"`
	Phone           string            `json:"phone"`
	UnlockPrice     string            `json:"unlock_price"`
	MinimumPayment  string            `json:"minimum_payment"`
	TotalPaid       string            `json:"total_paid"`
	ActivationDate  string            `json:"activation_date"`
	DueDate         string            `json:"due_date,omitempty"`
	LastPaymentDate string            `json:"last_payment_date,omitempty"`
	Status          string            `json:"status"`
	Progress        *ProgressResponse `json:"progress,omitempty"`
}

func NewPlanResponse(p *domain.Plan) PlanResponse {
	resp := PlanResponse{
		PlanID:         p.ID,
		CustomerName:   p.CustomerName,
		Phone:          p.Phone,
		UnlockPrice:    Naira(p.UnlockPrice),
		MinimumPayment: Naira(p.MinimumPayment),
		TotalPaid:      Naira(p.TotalPaid),
		ActivationDate: p.ActivationDate.Format(dateLayout),
		Status:         string(p.Status),
	}
	if !p.IsUnlocked() {
		resp.DueDate = p.DueDate.Format(dateLayout)
	}
	if p.LastPaymentDate != nil {
		resp.LastPaymentDate = p.LastPaymentDate.Format(timestampLayout)
	}
	return resp
}

type FormattedAmounts struct {
	UnlockPrice        string `json:"unlock_price"`
	TotalPaid          string `json:"total_paid"`
	OutstandingBalance string `json:"outstanding_balance"`
	Overpayment        string `json:"overpayment"`
	MinimumPayment     string `json:"minimum_payment"`
}

type ProgressResponse struct {
	ProgressPercent       float64           `json:"progress_percent"`
	OutstandingBalance    string            `json:"outstanding_balance"`
	Overpayment           string            `json:"overpayment"`
	PaidInstallments      int               `json:"paid_installments"`
	RemainingInstallments int               `json:"remaining_installments"`
	TotalInstallments     int               `json:"total_installments"`
	RemainingTermDays     int               `json:"remaining_term_days"`
	HumanReadableTerm     string            `json:"human_readable_term"`
	DaysUntilDue          *int              `json:"days_until_due"`
	IsComplete            bool              `json:"is_complete"`
	Formatted             *FormattedAmounts `json:"formatted,omitempty"`
}

func NewProgressResponse(r installment.Report) *ProgressResponse {
	return &ProgressResponse{
		ProgressPercent:       r.ProgressPercent,
		OutstandingBalance:    r.OutstandingBalance.StringFixed(2),
		Overpayment:           r.Overpayment.StringFixed(2),
		PaidInstallments:      r.PaidInstallments,
		RemainingInstallments: r.RemainingInstallments,
		TotalInstallments:     r.TotalInstallments,
		RemainingTermDays:     r.RemainingTermDays,
		HumanReadableTerm:     r.HumanReadableTerm,
		DaysUntilDue:          r.DaysUntilDue,
		IsComplete:            r.IsComplete(),
	}
}

// NewFormattedAmounts renders the snapshot and report amounts as display
// strings in currencyCode.
func NewFormattedAmounts(snapshot installment.Plan, r installment.Report, formatter installment.CurrencyFormatter, currencyCode string) (*FormattedAmounts, error) {
	var f FormattedAmounts
	var err error
	if f.UnlockPrice, err = formatter.Format(snapshot.UnlockPrice, currencyCode); err != nil {
		return nil, err
	}
	if f.MinimumPayment, err = formatter.Format(snapshot.MinimumPayment, currencyCode); err != nil {
		return nil, err
	}
	if f.TotalPaid, err = formatter.Format(snapshot.TotalPaid, currencyCode); err != nil {
		return nil, err
	}
	if f.OutstandingBalance, err = formatter.Format(r.OutstandingBalance, currencyCode); err != nil {
		return nil, err
	}
	if f.Overpayment, err = formatter.Format(r.Overpayment, currencyCode); err != nil {
		return nil, err
	}
	return &f, nil
}

type CheckoutResponse struct {
	PlanID         string `json:"plan_id"`
	Reference      string `json:"reference"`
	Amount         string `json:"amount"`
	VirtualAccount string `json:"virtual_account"`
	BankName       string `json:"bank_name"`
	USSDCode       string `json:"ussd_code"`
	ExpiresAt      string `json:"expires_at"`
}

func NewCheckoutResponse(ins *checkout.Instructions) CheckoutResponse {
	return CheckoutResponse{
		PlanID:         ins.PlanID,
		Reference:      ins.Reference,
		Amount:         ins.Amount.StringFixed(2),
		VirtualAccount: ins.VirtualAccount,
		BankName:       ins.BankName,
		USSDCode:       ins.USSDCode,
		ExpiresAt:      ins.ExpiresAt.Format(timestampLayout),
	}
}
