package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sunpay/installment-service/internal/application/service"
	"github.com/sunpay/installment-service/internal/config"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/infrastructure/database"
	"github.com/sunpay/installment-service/internal/infrastructure/messaging"
	sqlrepository "github.com/sunpay/installment-service/internal/infrastructure/repository/mysql"
	redisrepository "github.com/sunpay/installment-service/internal/infrastructure/repository/redis"
	"github.com/sunpay/installment-service/internal/installment"
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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.OpenMySQL(ctx, cfg.MySQL)
	if err != nil {
		logger.Fatal("failed to open MySQL", zap.Error(err))
	}
	defer database.CloseMySQL(db)

	redisClient, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to open Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("connected to MySQL and Redis")

	repos := sqlrepository.NewRepositories(db, redisClient, logger)

	tag, err := language.Parse(cfg.Currency.Locale)
	if err != nil {
		tag = language.English
	}
	notificationService := service.NewNotificationService(
		service.NewLogNotifier(logger),
		installment.NewLocaleFormatter(tag),
		cfg.Currency.Code,
		logger,
	)

	hostname, _ := os.Hostname()
	consumerName := fmt.Sprintf("worker-%s-%d", hostname, os.Getpid())
	eventSubscriber := messaging.NewRedisEventSubscriber(redisClient, logger, consumerName)

	if err := eventSubscriber.Subscribe(ctx, domain.EventTypePaymentProcessed, notificationService.HandlePaymentProcessed); err != nil {
		logger.Fatal("failed to subscribe to events", zap.Error(err))
	}

	// a sent reminder is remembered one day past the window, so an overdue
	// plan is nudged again once per window
	reminderTTL := time.Duration(cfg.Reminder.WindowDays+1) * 24 * time.Hour
	reminders := service.NewReminderScheduler(
		repos.Plan,
		redisrepository.NewRedisReminderLog(redisClient, reminderTTL),
		notificationService,
		cfg.Reminder.Interval,
		cfg.Reminder.WindowDays,
		cfg.Reminder.BatchSize,
		time.Now,
		logger,
	)

	logger.Info("worker started",
		zap.String("consumer", consumerName),
		zap.String("event_type", domain.EventTypePaymentProcessed),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down worker...")
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		reminders.Start(ctx)
	}()

	go func() {
		defer wg.Done()
		if err := eventSubscriber.Start(ctx); err != nil {
			logger.Error("event subscriber stopped", zap.Error(err))
		}
	}()

	wg.Wait()
	logger.Info("worker exited")
}
