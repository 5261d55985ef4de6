package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sunpay/installment-service/internal/checkout"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/installment"
	"go.uber.org/zap"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 100

	publishTimeout = 5 * time.Second
)

var ErrCheckoutUnavailable = errors.New("checkout is not configured")

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

type PaymentService struct {
	planRepo       domain.PlanRepository
	paymentRepo    domain.PaymentRepository
	eventPublisher domain.EventPublisher // Optional - can be nil
	checkout       *checkout.Generator   // Optional - can be nil
	now            Clock
	logger         *zap.Logger
}

// NewPaymentService wires the service. A nil clock means time.Now.
func NewPaymentService(
	planRepo domain.PlanRepository,
	paymentRepo domain.PaymentRepository,
	eventPublisher domain.EventPublisher,
	checkoutGen *checkout.Generator,
	clock Clock,
	logger *zap.Logger,
) *PaymentService {
	if clock == nil {
		clock = time.Now
	}
	return &PaymentService{
		planRepo:       planRepo,
		paymentRepo:    paymentRepo,
		eventPublisher: eventPublisher,
		checkout:       checkoutGen,
		now:            clock,
		logger:         logger,
	}
}

type ProcessPaymentRequest struct {
	PlanID               string
	PaymentStatus        string
	TransactionAmount    int64 // kobo
	TransactionDate      time.Time
	TransactionReference string
}

type ProcessPaymentResponse struct {
	Success            bool
	Message            string
	PlanID             string
	OutstandingBalance int64
	Overpayment        int64
	TotalPaid          int64
	PaymentProgress    float64
	IsUnlocked         bool
	Report             *installment.Report
}

func (s *PaymentService) ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*ProcessPaymentResponse, error) {
	if req.PaymentStatus != string(domain.PaymentStatusComplete) {
		s.logger.Info("payment not complete",
			zap.String("plan_id", req.PlanID),
			zap.String("status", req.PaymentStatus),
			zap.String("tx_ref", req.TransactionReference),
		)
		return &ProcessPaymentResponse{
			Success: false,
			Message: fmt.Sprintf("payment status is %s, not COMPLETE", req.PaymentStatus),
			PlanID:  req.PlanID,
		}, nil
	}

	payment, err := domain.NewPayment(
		req.PlanID,
		req.TransactionAmount,
		req.TransactionReference,
		req.TransactionDate,
		domain.PaymentStatusComplete,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid payment data: %w", err)
	}

	claimed, err := s.paymentRepo.ClaimTransactionReference(ctx, req.TransactionReference)
	if err != nil {
		s.logger.Error("failed to claim transaction reference",
			zap.Error(err),
			zap.String("tx_ref", req.TransactionReference),
		)
		return nil, fmt.Errorf("failed to claim transaction reference: %w", err)
	}

	if !claimed {
		return s.duplicateResponse(ctx, req)
	}

	plan, err := s.applyAndSave(ctx, req)
	if err != nil {
		s.releaseClaim(ctx, req.TransactionReference)
		return nil, err
	}

	payment.MarkAsProcessed(s.now())

	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		if !errors.Is(err, domain.ErrDuplicateTransaction) {
			s.logger.Error("failed to save payment",
				zap.Error(err),
				zap.String("plan_id", req.PlanID),
			)
			return nil, fmt.Errorf("failed to save payment: %w", err)
		}
		// another writer stored the reference after this claim expired; the
		// plan is already credited by this call
		s.logger.Warn("duplicate payment detected after plan update",
			zap.String("plan_id", req.PlanID),
			zap.String("tx_ref", req.TransactionReference),
		)
	}

	resp, err := s.paymentResponse(plan, "payment processed successfully")
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment processed successfully",
		zap.String("plan_id", req.PlanID),
		zap.Int64("amount", req.TransactionAmount),
		zap.String("tx_ref", req.TransactionReference),
		zap.Int64("outstanding_balance", resp.OutstandingBalance),
		zap.Float64("progress", resp.PaymentProgress),
	)

	if s.eventPublisher != nil {
		go s.publishPaymentProcessedEvent(plan, req, *resp.Report)
	}

	return resp, nil
}

// duplicateResponse answers a repeated delivery with the state of the plan that
// owns the reference. While the first delivery is still in flight no payment
// row exists yet, so the requested plan is reported instead.
func (s *PaymentService) duplicateResponse(ctx context.Context, req ProcessPaymentRequest) (*ProcessPaymentResponse, error) {
	planID := req.PlanID

	existing, err := s.paymentRepo.FindByTransactionReference(ctx, req.TransactionReference)
	switch {
	case err == nil:
		planID = existing.PlanID
	case errors.Is(err, domain.ErrPaymentNotFound):
	default:
		return nil, fmt.Errorf("failed to get duplicate payment: %w", err)
	}

	s.logger.Info("duplicate payment detected",
		zap.String("plan_id", planID),
		zap.String("requested_plan_id", req.PlanID),
		zap.String("tx_ref", req.TransactionReference),
	)

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan for duplicate payment: %w", err)
	}
	return s.paymentResponse(plan, "duplicate transaction - already processed")
}

func (s *PaymentService) releaseClaim(ctx context.Context, txRef string) {
	if err := s.paymentRepo.ReleaseTransactionReference(context.WithoutCancel(ctx), txRef); err != nil {
		s.logger.Error("failed to release transaction reference",
			zap.Error(err),
			zap.String("tx_ref", txRef),
		)
	}
}

// applyAndSave applies the payment and persists the plan, retrying once on a
// version conflict.
func (s *PaymentService) applyAndSave(ctx context.Context, req ProcessPaymentRequest) (*domain.Plan, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		plan, err := s.planRepo.FindByID(ctx, req.PlanID)
		if err != nil {
			s.logger.Error("failed to get plan",
				zap.Error(err),
				zap.String("plan_id", req.PlanID),
			)
			return nil, fmt.Errorf("failed to get plan: %w", err)
		}

		if err := plan.ApplyPayment(req.TransactionAmount, req.TransactionDate); err != nil {
			s.logger.Warn("failed to apply payment",
				zap.Error(err),
				zap.String("plan_id", req.PlanID),
			)
			return nil, fmt.Errorf("failed to apply payment: %w", err)
		}

		lastErr = s.planRepo.Save(ctx, plan)
		if lastErr == nil {
			return plan, nil
		}
		if !errors.Is(lastErr, domain.ErrOptimisticLock) {
			break
		}
		s.logger.Warn("optimistic lock conflict",
			zap.String("plan_id", req.PlanID),
			zap.Int("attempt", attempt+1),
		)
	}

	s.logger.Error("failed to save plan",
		zap.Error(lastErr),
		zap.String("plan_id", req.PlanID),
	)
	return nil, fmt.Errorf("failed to save plan: %w", lastErr)
}

func (s *PaymentService) paymentResponse(plan *domain.Plan, message string) (*ProcessPaymentResponse, error) {
	report, err := plan.Progress(s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to compute progress: %w", err)
	}

	return &ProcessPaymentResponse{
		Success:            true,
		Message:            message,
		PlanID:             plan.ID,
		OutstandingBalance: domain.NairaToKobo(report.OutstandingBalance),
		Overpayment:        domain.NairaToKobo(report.Overpayment),
		TotalPaid:          plan.TotalPaid,
		PaymentProgress:    report.ProgressPercent,
		IsUnlocked:         plan.IsUnlocked(),
		Report:             &report,
	}, nil
}

func (s *PaymentService) publishPaymentProcessedEvent(plan *domain.Plan, req ProcessPaymentRequest, report installment.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	processedAt := s.now()
	payload := domain.PaymentProcessedPayload{
		PlanID:                plan.ID,
		CustomerName:          plan.CustomerName,
		Phone:                 plan.Phone,
		TransactionReference:  req.TransactionReference,
		Amount:                req.TransactionAmount,
		OutstandingBalance:    domain.NairaToKobo(report.OutstandingBalance),
		Overpayment:           domain.NairaToKobo(report.Overpayment),
		TotalPaid:             plan.TotalPaid,
		PaymentProgress:       report.ProgressPercent,
		RemainingInstallments: report.RemainingInstallments,
		RemainingTermDays:     report.RemainingTermDays,
		IsUnlocked:            plan.IsUnlocked(),
		ProcessedAt:           processedAt,
	}
	if !plan.IsUnlocked() {
		payload.NextDueDate = plan.DueDate
	}

	event := domain.NewPaymentProcessedEvent(plan.ID, payload, processedAt)

	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Error("failed to publish payment processed event",
			zap.Error(err),
			zap.String("plan_id", plan.ID),
			zap.String("event_id", event.GetEventID()),
		)
		return
	}

	s.logger.Debug("payment processed event published",
		zap.String("event_id", event.GetEventID()),
		zap.String("plan_id", plan.ID),
	)
}

type CreatePlanRequest struct {
	PlanID         string
	CustomerName   string
	Phone          string
	UnlockPrice    int64 // kobo
	MinimumPayment int64 // kobo
	ActivationDate time.Time
}

// CreatePlan opens a new plan. A zero activation date means today.
func (s *PaymentService) CreatePlan(ctx context.Context, req CreatePlanRequest) (*domain.Plan, error) {
	activation := req.ActivationDate
	if activation.IsZero() {
		activation = s.now()
	}

	plan, err := domain.NewPlan(req.PlanID, req.CustomerName, req.Phone, req.UnlockPrice, req.MinimumPayment, activation)
	if err != nil {
		return nil, fmt.Errorf("invalid plan: %w", err)
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		s.logger.Error("failed to create plan",
			zap.Error(err),
			zap.String("plan_id", req.PlanID),
		)
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	s.logger.Info("plan created",
		zap.String("plan_id", plan.ID),
		zap.Int64("unlock_price", plan.UnlockPrice),
		zap.Int64("minimum_payment", plan.MinimumPayment),
		zap.Time("due_date", plan.DueDate),
	)

	return plan, nil
}

func (s *PaymentService) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	return s.planRepo.FindByID(ctx, planID)
}

type PlanProgress struct {
	Plan   *domain.Plan
	Report installment.Report
}

// GetPlanProgress runs the calculator on the stored plan as of now.
func (s *PaymentService) GetPlanProgress(ctx context.Context, planID string) (*PlanProgress, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	report, err := plan.Progress(s.now())
	if err != nil {
		s.logger.Error("stored plan rejected by calculator",
			zap.Error(err),
			zap.String("plan_id", planID),
		)
		return nil, fmt.Errorf("failed to compute progress: %w", err)
	}

	return &PlanProgress{Plan: plan, Report: report}, nil
}

// QuoteProgress computes a report for an ad-hoc snapshot without touching storage.
func (s *PaymentService) QuoteProgress(input installment.Plan) (installment.Report, error) {
	return installment.Compute(input, s.now())
}

func (s *PaymentService) GetPlanPayments(ctx context.Context, planID string) ([]*domain.Payment, error) {
	if _, err := s.planRepo.FindByID(ctx, planID); err != nil {
		s.logger.Error("failed to get plan",
			zap.Error(err),
			zap.String("plan_id", planID),
		)
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	payments, err := s.paymentRepo.FindByPlanID(ctx, planID)
	if err != nil {
		s.logger.Error("failed to get plan payments",
			zap.Error(err),
			zap.String("plan_id", planID),
		)
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	s.logger.Info("retrieved plan payments",
		zap.String("plan_id", planID),
		zap.Int("count", len(payments)),
	)

	return payments, nil
}

type PaginationParams struct {
	Page     int
	PageSize int
}

// Normalize applies defaults and caps the page size.
func (p PaginationParams) Normalize() PaginationParams {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PaginatedPayments struct {
	Payments   []*domain.Payment
	Page       int
	PageSize   int
	TotalCount int64
	TotalPages int
}

func (s *PaymentService) GetPlanPaymentsPaginated(ctx context.Context, planID string, params PaginationParams) (*PaginatedPayments, error) {
	params = params.Normalize()

	if _, err := s.planRepo.FindByID(ctx, planID); err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	total, err := s.paymentRepo.CountByPlanID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	payments, err := s.paymentRepo.FindByPlanIDWithPagination(ctx, planID, params.PageSize, params.Offset())
	if err != nil {
		s.logger.Error("failed to get paginated payments",
			zap.Error(err),
			zap.String("plan_id", planID),
			zap.Int("page", params.Page),
		)
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}

	totalPages := int((total + int64(params.PageSize) - 1) / int64(params.PageSize))

	return &PaginatedPayments{
		Payments:   payments,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

// CreateCheckout issues payment instructions for amount kobo. A zero amount
// means the next installment, capped at the outstanding balance.
func (s *PaymentService) CreateCheckout(ctx context.Context, planID string, amount int64) (*checkout.Instructions, error) {
	if s.checkout == nil {
		return nil, ErrCheckoutUnavailable
	}
	if amount < 0 {
		return nil, domain.ErrInvalidAmount
	}

	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan.IsUnlocked() {
		return nil, domain.ErrPlanAlreadyUnlocked
	}

	if amount == 0 {
		amount = plan.MinimumPayment
		if outstanding := plan.UnlockPrice - plan.TotalPaid; outstanding < amount {
			amount = outstanding
		}
	}

	ins, err := s.checkout.Instructions(plan.ID, domain.KoboToNaira(amount), s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to build checkout: %w", err)
	}

	s.logger.Info("checkout issued",
		zap.String("plan_id", plan.ID),
		zap.String("reference", ins.Reference),
		zap.String("amount", ins.Amount.StringFixed(2)),
	)

	return ins, nil
}
