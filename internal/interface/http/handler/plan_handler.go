package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunpay/installment-service/internal/application/service"
	"github.com/sunpay/installment-service/internal/installment"
	"github.com/sunpay/installment-service/internal/interface/http/dto"
	"go.uber.org/zap"
)

type PlanHandler struct {
	paymentService *service.PaymentService
	formatter      installment.CurrencyFormatter
	currencyCode   string
	logger         *zap.Logger
}

func NewPlanHandler(
	paymentService *service.PaymentService,
	formatter installment.CurrencyFormatter,
	currencyCode string,
	logger *zap.Logger,
) *PlanHandler {
	return &PlanHandler{
		paymentService: paymentService,
		formatter:      formatter,
		currencyCode:   currencyCode,
		logger:         logger,
	}
}

// CreatePlan registers a plan at activation.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	unlockPrice, minimumPayment, err := req.Kobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}
	activation, err := req.GetActivationDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid activation date", err)
		return
	}

	plan, err := h.paymentService.CreatePlan(r.Context(), service.CreatePlanRequest{
		PlanID:         req.PlanID,
		CustomerName:   req.CustomerName,
		Phone:          req.Phone,
		UnlockPrice:    unlockPrice,
		MinimumPayment: minimumPayment,
		ActivationDate: activation,
	})
	if err != nil {
		respondServiceError(w, h.logger, "failed to create plan", err, zap.String("plan_id", req.PlanID))
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewPlanResponse(plan))
}

// GetPlan returns the plan with its current progress.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "plan_id")

	progress, err := h.paymentService.GetPlanProgress(r.Context(), planID)
	if err != nil {
		respondServiceError(w, h.logger, "failed to get plan", err, zap.String("plan_id", planID))
		return
	}

	body, err := h.progressBody(progress.Plan.Snapshot(), progress.Report, h.currencyCode)
	if err != nil {
		respondServiceError(w, h.logger, "failed to format amounts", err, zap.String("plan_id", planID))
		return
	}

	response := dto.NewPlanResponse(progress.Plan)
	response.Progress = body
	respondJSON(w, http.StatusOK, response)
}

// GetPlanProgress returns the calculator report for a stored plan.
func (h *PlanHandler) GetPlanProgress(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "plan_id")

	progress, err := h.paymentService.GetPlanProgress(r.Context(), planID)
	if err != nil {
		respondServiceError(w, h.logger, "failed to get plan progress", err, zap.String("plan_id", planID))
		return
	}

	body, err := h.progressBody(progress.Plan.Snapshot(), progress.Report, h.currencyCode)
	if err != nil {
		respondServiceError(w, h.logger, "failed to format amounts", err, zap.String("plan_id", planID))
		return
	}

	respondJSON(w, http.StatusOK, body)
}

// QuoteProgress runs the calculator on a snapshot supplied by the caller.
func (h *PlanHandler) QuoteProgress(w http.ResponseWriter, r *http.Request) {
	var req dto.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	snapshot, err := req.Snapshot()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid snapshot", err)
		return
	}

	report, err := h.paymentService.QuoteProgress(snapshot)
	if err != nil {
		respondServiceError(w, h.logger, "invalid plan parameters", err)
		return
	}

	code := req.Currency
	if code == "" {
		code = h.currencyCode
	}
	body, err := h.progressBody(snapshot, report, code)
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to format amounts", err)
		return
	}

	respondJSON(w, http.StatusOK, body)
}

// CreateCheckout issues payment instructions. An empty body asks for the
// next installment.
func (h *PlanHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	planID := chi.URLParam(r, "plan_id")

	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	amount, err := req.GetAmountInKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid amount", err)
		return
	}

	ins, err := h.paymentService.CreateCheckout(r.Context(), planID, amount)
	if err != nil {
		respondServiceError(w, h.logger, "failed to create checkout", err, zap.String("plan_id", planID))
		return
	}

	respondJSON(w, http.StatusCreated, dto.NewCheckoutResponse(ins))
}

func (h *PlanHandler) progressBody(snapshot installment.Plan, report installment.Report, code string) (*dto.ProgressResponse, error) {
	body := dto.NewProgressResponse(report)
	formatted, err := dto.NewFormattedAmounts(snapshot, report, h.formatter, code)
	if err != nil {
		return nil, err
	}
	body.Formatted = formatted
	return body, nil
}
