package sqlrepository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/sunpay/installment-service/internal/domain"
	"github.com/sunpay/installment-service/internal/infrastructure/persistence"
	redisrepository "github.com/sunpay/installment-service/internal/infrastructure/repository/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Transaction references are kept in Redis long enough to absorb webhook retries.
const paymentDedupTTL = 72 * time.Hour

const mysqlErrDuplicateEntry = 1062

type GORMPaymentRepository struct {
	db        *gorm.DB
	redisRepo *redisrepository.RedisPaymentRepository
	logger    *zap.Logger
}

func NewPaymentRepository(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *GORMPaymentRepository {
	return &GORMPaymentRepository{
		db:        db,
		redisRepo: redisrepository.NewRedisPaymentRepository(redisClient, paymentDedupTTL),
		logger:    logger,
	}
}

func (r *GORMPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	exists, err := r.redisRepo.ExistsByTransactionReference(ctx, payment.TransactionReference)
	if err != nil {
		r.logger.Warn("redis dedup check failed, falling back to MySQL", zap.Error(err))
	} else if exists {
		return domain.ErrDuplicateTransaction
	}

	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}

	model := persistence.PaymentModelFromDomain(payment)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return domain.ErrDuplicateTransaction
		}

		r.logger.Error("failed to save payment", zap.Error(result.Error))
		return fmt.Errorf("database error: %w", result.Error)
	}

	if err := r.redisRepo.Save(ctx, payment); err != nil && !errors.Is(err, domain.ErrDuplicateTransaction) {
		r.logger.Warn("failed to cache payment reference",
			zap.Error(err),
			zap.String("tx_ref", payment.TransactionReference),
		)
	}

	r.logger.Debug("payment saved to MySQL",
		zap.String("payment_id", payment.ID),
		zap.String("tx_ref", payment.TransactionReference),
	)

	return nil
}

// ClaimTransactionReference rejects references already stored in MySQL, then
// reserves the reference in Redis. A Redis failure is returned rather than
// ignored: without the reservation two deliveries could both credit the plan.
func (r *GORMPaymentRepository) ClaimTransactionReference(ctx context.Context, txRef string) (bool, error) {
	exists, err := r.ExistsByTransactionReference(ctx, txRef)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	claimed, err := r.redisRepo.Claim(ctx, txRef)
	if err != nil {
		r.logger.Error("failed to claim transaction reference", zap.Error(err), zap.String("tx_ref", txRef))
		return false, err
	}
	return claimed, nil
}

func (r *GORMPaymentRepository) ReleaseTransactionReference(ctx context.Context, txRef string) error {
	return r.redisRepo.Release(ctx, txRef)
}

func (r *GORMPaymentRepository) FindByTransactionReference(ctx context.Context, txRef string) (*domain.Payment, error) {
	if cached, err := r.redisRepo.FindByTransactionReference(ctx, txRef); err == nil {
		return cached, nil
	}

	var model persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("transaction_reference = ?", txRef).
		First(&model)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payment := model.ToDomain()

	if err := r.redisRepo.Save(ctx, payment); err != nil && !errors.Is(err, domain.ErrDuplicateTransaction) {
		r.logger.Debug("failed to cache payment", zap.Error(err), zap.String("tx_ref", txRef))
	}

	return payment, nil
}

func (r *GORMPaymentRepository) ExistsByTransactionReference(ctx context.Context, txRef string) (bool, error) {
	exists, err := r.redisRepo.ExistsByTransactionReference(ctx, txRef)
	if err == nil && exists {
		r.logger.Debug("payment exists (Redis cache)", zap.String("tx_ref", txRef))
		return true, nil
	}

	var count int64
	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Where("transaction_reference = ?", txRef).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("failed to check payment existence", zap.Error(result.Error))
		return false, fmt.Errorf("database error: %w", result.Error)
	}

	return count > 0, nil
}

func (r *GORMPaymentRepository) FindByPlanID(ctx context.Context, planID string) ([]*domain.Payment, error) {
	var models []persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("transaction_date DESC").
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to fetch payments by plan ID",
			zap.Error(result.Error),
			zap.String("plan_id", planID),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i, model := range models {
		payments[i] = model.ToDomain()
	}

	r.logger.Debug("fetched payments by plan ID",
		zap.String("plan_id", planID),
		zap.Int("count", len(payments)),
	)

	return payments, nil
}

func (r *GORMPaymentRepository) FindByPlanIDWithPagination(ctx context.Context, planID string, limit, offset int) ([]*domain.Payment, error) {
	var models []persistence.PaymentModel

	result := r.db.WithContext(ctx).
		Where("plan_id = ?", planID).
		Order("transaction_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&models)

	if result.Error != nil {
		r.logger.Error("failed to fetch payments by plan ID with pagination",
			zap.Error(result.Error),
			zap.String("plan_id", planID),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("database error: %w", result.Error)
	}

	payments := make([]*domain.Payment, len(models))
	for i, model := range models {
		payments[i] = model.ToDomain()
	}

	return payments, nil
}

func (r *GORMPaymentRepository) CountByPlanID(ctx context.Context, planID string) (int64, error) {
	var count int64

	result := r.db.WithContext(ctx).
		Model(&persistence.PaymentModel{}).
		Where("plan_id = ?", planID).
		Count(&count)

	if result.Error != nil {
		r.logger.Error("failed to count payments by plan ID",
			zap.Error(result.Error),
			zap.String("plan_id", planID),
		)
		return 0, fmt.Errorf("database error: %w", result.Error)
	}

	return count, nil
}

func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}

	var mysqlErr *mysqldriver.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlErrDuplicateEntry {
		return true
	}

	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "Duplicate entry") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
