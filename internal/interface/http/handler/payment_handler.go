package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sunpay/installment-service/internal/application/service"
	"github.com/sunpay/installment-service/internal/interface/http/dto"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// ProcessPayment handles incoming payment webhook
func (h *PaymentHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, "validation failed", err)
		return
	}

	amount, err := req.GetAmountInKobo()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction amount", err)
		return
	}

	txDate, err := req.GetTransactionDate()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid transaction date", err)
		return
	}

	result, err := h.paymentService.ProcessPayment(r.Context(), service.ProcessPaymentRequest{
		PlanID:               req.PlanID,
		PaymentStatus:        req.PaymentStatus,
		TransactionAmount:    amount,
		TransactionDate:      txDate,
		TransactionReference: req.TransactionReference,
	})
	if err != nil {
		respondServiceError(w, h.logger, "failed to process payment", err,
			zap.String("plan_id", req.PlanID),
			zap.String("tx_ref", req.TransactionReference),
		)
		return
	}

	response := dto.PaymentResponse{
		Success: result.Success,
		Message: result.Message,
		PlanID:  result.PlanID,
	}
	if result.Report != nil {
		response.OutstandingBalance = dto.Naira(result.OutstandingBalance)
		response.Overpayment = dto.Naira(result.Overpayment)
		response.TotalPaid = dto.Naira(result.TotalPaid)
		response.PaymentProgress = result.PaymentProgress
		response.IsUnlocked = result.IsUnlocked
		response.Progress = dto.NewProgressResponse(*result.Report)
	}

	respondJSON(w, http.StatusOK, response)
}

// GetPlanPayments lists payments for ?plan_id=, paginated when page or
// page_size is given.
func (h *PaymentHandler) GetPlanPayments(w http.ResponseWriter, r *http.Request) {
	planID := r.URL.Query().Get("plan_id")
	if planID == "" {
		respondError(w, http.StatusBadRequest, "plan_id is required", nil)
		return
	}

	pageStr := r.URL.Query().Get("page")
	pageSizeStr := r.URL.Query().Get("page_size")

	if pageStr != "" || pageSizeStr != "" {
		h.getPlanPaymentsPaginated(w, r, planID, pageStr, pageSizeStr)
		return
	}

	payments, err := h.paymentService.GetPlanPayments(r.Context(), planID)
	if err != nil {
		respondServiceError(w, h.logger, "failed to get plan payments", err, zap.String("plan_id", planID))
		return
	}

	response := make([]dto.PaymentRecordResponse, len(payments))
	for i, payment := range payments {
		response[i] = dto.NewPaymentRecordResponse(payment)
	}

	respondJSON(w, http.StatusOK, dto.PaymentListResponse{
		PlanID:   planID,
		Count:    len(response),
		Payments: response,
	})
}

func (h *PaymentHandler) getPlanPaymentsPaginated(w http.ResponseWriter, r *http.Request, planID, pageStr, pageSizeStr string) {
	var params service.PaginationParams
	if p, err := strconv.Atoi(pageStr); err == nil {
		params.Page = p
	}
	if ps, err := strconv.Atoi(pageSizeStr); err == nil {
		params.PageSize = ps
	}

	result, err := h.paymentService.GetPlanPaymentsPaginated(r.Context(), planID, params)
	if err != nil {
		respondServiceError(w, h.logger, "failed to get plan payments", err,
			zap.String("plan_id", planID),
			zap.Int("page", params.Page),
			zap.Int("page_size", params.PageSize),
		)
		return
	}

	response := make([]dto.PaymentRecordResponse, len(result.Payments))
	for i, payment := range result.Payments {
		response[i] = dto.NewPaymentRecordResponse(payment)
	}

	h.logger.Debug("plan payments retrieved with pagination",
		zap.String("plan_id", planID),
		zap.Int("count", len(response)),
		zap.Int("page", result.Page),
		zap.Int64("total_count", result.TotalCount),
	)

	respondJSON(w, http.StatusOK, dto.PaymentListResponse{
		PlanID:   planID,
		Count:    len(response),
		Payments: response,
		Pagination: &dto.PaginationResponse{
			Page:       result.Page,
			PageSize:   result.PageSize,
			TotalCount: result.TotalCount,
			TotalPages: result.TotalPages,
		},
	})
}

// HealthCheck handles health check endpoint
func (h *PaymentHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
