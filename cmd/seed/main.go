// Command seed loads demo plans into MySQL and drops their cached copies
// from Redis.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sunpay/installment-service/internal/config"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/infrastructure/database"
	redisrepository "github.com/sunpay/installment-service/internal/infrastructure/repository/redis"
	"go.uber.org/zap"
)

const upsertPlan = `
	INSERT INTO plans (id, customer_name, phone, unlock_price, minimum_payment, total_paid,
	                   activation_date, due_date, last_payment_date, status, version, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
	    customer_name = VALUES(customer_name),
	    phone = VALUES(phone),
	    unlock_price = VALUES(unlock_price),
	    minimum_payment = VALUES(minimum_payment),
	    total_paid = VALUES(total_paid),
	    activation_date = VALUES(activation_date),
	    due_date = VALUES(due_date),
	    last_payment_date = VALUES(last_payment_date),
	    status = VALUES(status),
	    version = version + 1,
	    updated_at = VALUES(updated_at)
`

type seedPlan struct {
	id             string
	customerName   string
	phone          string
	unlockPrice    int64 // kobo
	minimumPayment int64 // kobo
	activatedDays  int   // days before today
	paid           int64 // kobo paid so far, applied as one payment
}

var seeds = []seedPlan{
	{"SP0001", "Adaeze Okafor", "+2348030000001", 150_000_000, 2_500_000, 700, 60_000_000},
	{"SP0002", "Chinedu Eze", "+2348030000002", 15_300_000, 240_000, 100, 900_000},
	{"SP0003", "Funmilayo Adeyemi", "+2348030000003", 15_300_000, 240_000, 1800, 15_100_000},
	{"SP0004", "Ibrahim Musa", "+2348030000004", 50_000_000, 1_000_000, 120, 2_000_000},
	{"SP0005", "Ngozi Nwosu", "+2348030000005", 50_000_000, 1_000_000, 0, 0},
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.OpenMySQL(ctx, cfg.MySQL)
	if err != nil {
		logger.Fatal("failed to open MySQL", zap.Error(err))
	}
	defer database.CloseMySQL(db)

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("failed to get underlying sql.DB", zap.Error(err))
	}

	redisClient, err := database.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Fatal("failed to open Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cache := redisrepository.NewRedisPlanRepository(redisClient, 0)

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, s := range seeds {
		plan, err := buildPlan(s, today)
		if err != nil {
			logger.Fatal("invalid seed plan", zap.String("plan_id", s.id), zap.Error(err))
		}

		now := time.Now().UTC()
		if _, err := sqlDB.ExecContext(ctx, upsertPlan,
			plan.ID, plan.CustomerName, plan.Phone,
			plan.UnlockPrice, plan.MinimumPayment, plan.TotalPaid,
			plan.ActivationDate, plan.DueDate, plan.LastPaymentDate,
			string(plan.Status), plan.Version, now, now,
		); err != nil {
			logger.Fatal("failed to seed plan", zap.String("plan_id", plan.ID), zap.Error(err))
		}

		if err := cache.Delete(ctx, plan.ID); err != nil {
			logger.Warn("failed to evict cached plan", zap.String("plan_id", plan.ID), zap.Error(err))
		}

		report, err := plan.Progress(today)
		if err != nil {
			logger.Fatal("seeded plan rejected by calculator", zap.String("plan_id", plan.ID), zap.Error(err))
		}

		logger.Info("seeded plan",
			zap.String("plan_id", plan.ID),
			zap.Float64("progress", report.ProgressPercent),
			zap.Int("remaining_installments", report.RemainingInstallments),
			zap.String("remaining_term", report.HumanReadableTerm),
		)
	}

	logger.Info("seed completed", zap.Int("plans", len(seeds)))
}

func buildPlan(s seedPlan, today time.Time) (*domain.Plan, error) {
	activation := today.AddDate(0, 0, -s.activatedDays)

	plan, err := domain.NewPlan(s.id, s.customerName, s.phone, s.unlockPrice, s.minimumPayment, activation)
	if err != nil {
		return nil, err
	}

	if s.paid > 0 {
		if err := plan.ApplyPayment(s.paid, today.AddDate(0, 0, -1)); err != nil {
			return nil, err
		}
	}
	return plan, nil
}
