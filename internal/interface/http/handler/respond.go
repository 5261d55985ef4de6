package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sunpay/installment-service/internal/application/service"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/installment"
	"github.com/sunpay/installment-service/internal/interface/http/dto"
	"go.uber.org/zap"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{Error: message}
	if err != nil {
		response.Message = err.Error()
	}
	respondJSON(w, status, response)
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPlanNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidPlanID),
		errors.Is(err, domain.ErrInvalidUnlockPrice),
		errors.Is(err, domain.ErrInvalidMinimumPayment),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTransactionRef):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrPlanExists),
		errors.Is(err, domain.ErrPlanAlreadyUnlocked):
		return http.StatusConflict
	case errors.Is(err, installment.ErrInvalidPlanParameters):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrCheckoutUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError logs server-side failures and writes the mapped status.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, message string, err error, fields ...zap.Field) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(message, append(fields, zap.Error(err))...)
	} else {
		logger.Info(message, append(fields, zap.Error(err))...)
	}
	respondError(w, status, message, err)
}
