package router

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sunpay/installment-service/internal/interface/http/handler"
	"github.com/sunpay/installment-service/internal/interface/http/middleware"
	"go.uber.org/zap"
)

// NewRouter mounts the API. A requestsPerMinute of zero disables rate limiting.
func NewRouter(handlers *handler.Handlers, requestsPerMinute int, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", handlers.Payment.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		if requestsPerMinute > 0 {
			r.Use(middleware.RateLimit(requestsPerMinute, logger))
		}

		r.Post("/payments", handlers.Payment.ProcessPayment)
		r.Get("/payments", handlers.Payment.GetPlanPayments)

		r.Post("/plans", handlers.Plan.CreatePlan)
		r.Route("/plans/{plan_id}", func(r chi.Router) {
			r.Get("/", handlers.Plan.GetPlan)
			r.Get("/progress", handlers.Plan.GetPlanProgress)
			r.Post("/checkout", handlers.Plan.CreateCheckout)
		})

		r.Post("/progress/quote", handlers.Plan.QuoteProgress)
	})

	return r
}
