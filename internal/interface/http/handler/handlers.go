package handler

import (
	"github.com/sunpay/installment-service/internal/application/service"
	"github.com/sunpay/installment-service/internal/installment"
	"go.uber.org/zap"
)

type Handlers struct {
	Payment *PaymentHandler
	Plan    *PlanHandler
}

func NewHandlers(
	paymentService *service.PaymentService,
	formatter installment.CurrencyFormatter,
	currencyCode string,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		Payment: NewPaymentHandler(paymentService, logger),
		Plan:    NewPlanHandler(paymentService, formatter, currencyCode, logger),
	}
}
