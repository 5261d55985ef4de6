package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sunpay/installment-service/internal/application/service"
	"github.com/sunpay/installment-service/internal/checkout"
	"github.com/sunpay/installment-service/internal/config"
	"github.com/sunpay/installment-service/internal/infrastructure/database"
	"github.com/sunpay/installment-service/internal/infrastructure/messaging"
	sqlrepository "github.com/sunpay/installment-service/internal/infrastructure/repository/mysql"
	"github.com/sunpay/installment-service/internal/installment"
	"github.com/sunpay/installment-service/internal/interface/http/handler"
	"github.com/sunpay/installment-service/internal/interface/http/router"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx := context.Background()

	db, err := database.OpenMySQL(ctx, cfg.MySQL)
	if err != nil {
		logger.Fatal("failed to open MySQL", zap.Error(err))
	}
	defer database.CloseMySQL(db)
	logger.Info("connected to MySQL successfully", zap.String("host", cfg.MySQL.Host))

	redisClient, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to open Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to Redis successfully")

	repos := sqlrepository.NewRepositories(db, redisClient, logger)
	eventPublisher := messaging.NewRedisEventPublisher(redisClient, logger)
	checkoutGen := checkout.NewGenerator(cfg.Checkout.BankName, cfg.Checkout.BankCode, cfg.Checkout.TTL, nil)

	paymentService := service.NewPaymentService(repos.Plan, repos.Payment, eventPublisher, checkoutGen, time.Now, logger)

	tag, err := language.Parse(cfg.Currency.Locale)
	if err != nil {
		logger.Warn("invalid currency locale, using English", zap.String("locale", cfg.Currency.Locale), zap.Error(err))
		tag = language.English
	}
	formatter := installment.NewLocaleFormatter(tag)
	if _, err := formatter.Format(decimal.Zero, cfg.Currency.Code); err != nil {
		logger.Fatal("invalid currency code", zap.String("currency", cfg.Currency.Code), zap.Error(err))
	}

	handlers := handler.NewHandlers(paymentService, formatter, cfg.Currency.Code, logger)
	r := router.NewRouter(handlers, cfg.RateLimit.RequestsPerMinute, logger)

	serverAddr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("address", serverAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
