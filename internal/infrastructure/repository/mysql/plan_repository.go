package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/infrastructure/persistence"
	redisrepository "github.com/sunpay/installment-service/internal/infrastructure/repository/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const planCacheTTL = 5 * time.Minute

type GORMPlanRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisPlanRepository
	logger    *zap.Logger
}

func NewPlanRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMPlanRepository {
	return &GORMPlanRepository{
		db:        db,
		redisRepo: redisrepository.NewRedisPlanRepository(redisClient, planCacheTTL),
		logger:    logger,
	}
}

func (r *GORMPlanRepository) FindByID(ctx context.Context, id string) (*domain.Plan, error) {
	cached, err := r.redisRepo.FindByID(ctx, id)
	if err == nil {
		r.logger.Debug("plan cache hit", zap.String("plan_id", id))
		return cached, nil
	}

	r.logger.Debug("plan cache miss, querying MySQL", zap.String("plan_id", id))

	var model persistence.PlanModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPlanNotFound
		}
		r.logger.Error("failed to query plan", zap.Error(result.Error))
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	plan := model.ToDomain()

	go r.warmCache(plan)

	return plan, nil
}

func (r *GORMPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	model := persistence.PlanModelFromDomain(plan)

	// Invalidate before the write so concurrent readers fall through to MySQL.
	if err := r.redisRepo.Delete(ctx, plan.ID); err != nil {
		r.logger.Warn("failed to invalidate cache before save",
			zap.Error(err),
			zap.String("plan_id", plan.ID))
	}

	result := r.db.WithContext(ctx).
		Model(&persistence.PlanModel{}).
		Where("id = ? AND version = ?", plan.ID, plan.Version).
		Updates(map[string]interface{}{
			"total_paid":        model.TotalPaid,
			"due_date":          model.DueDate,
			"last_payment_date": model.LastPaymentDate,
			"status":            model.Status,
			"version":           gorm.Expr("version + 1"),
			"updated_at":        time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("failed to update plan", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.ErrOptimisticLock
	}

	plan.Version++

	if err := r.redisRepo.Save(ctx, plan); err != nil {
		r.logger.Warn("failed to update cache after save",
			zap.Error(err),
			zap.String("plan_id", plan.ID))
	}

	r.logger.Debug("plan saved to MySQL",
		zap.String("plan_id", plan.ID),
		zap.Int64("version", plan.Version),
	)

	return nil
}

func (r *GORMPlanRepository) Create(ctx context.Context, plan *domain.Plan) error {
	model := persistence.PlanModelFromDomain(plan)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return domain.ErrPlanExists
		}
		r.logger.Error("failed to create plan", zap.Error(result.Error))
		return fmt.Errorf("failed to create plan: %w", result.Error)
	}

	r.logger.Info("plan created",
		zap.String("plan_id", plan.ID),
		zap.Int64("unlock_price", plan.UnlockPrice),
		zap.Int64("minimum_payment", plan.MinimumPayment),
	)

	return nil
}

func (r *GORMPlanRepository) FindByStatusDueBefore(ctx context.Context, status domain.PlanStatus, cutoff time.Time, limit, offset int) ([]*domain.Plan, error) {
	var models []persistence.PlanModel

	result := r.db.WithContext(ctx).
		Where("status = ? AND due_date <= ?", string(status), cutoff).
		Order("due_date ASC").
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to query plans: %w", result.Error)
	}

	plans := make([]*domain.Plan, len(models))
	for i, model := range models {
		plans[i] = model.ToDomain()
	}

	return plans, nil
}

func (r *GORMPlanRepository) warmCache(plan *domain.Plan) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := r.redisRepo.SaveIfAbsent(ctx, plan); err != nil {
		r.logger.Debug("failed to warm plan cache", zap.Error(err), zap.String("plan_id", plan.ID))
	}
}
