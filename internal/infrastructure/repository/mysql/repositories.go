package sqlrepository

import (
	"github.com/go-redis/redis/v8"
	"github.com/sunpay/installment-service/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Repositories struct {
	Plan    domain.PlanRepository
	Payment domain.PaymentRepository
}

func NewRepositories(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *Repositories {
	return &Repositories{
		Plan:    NewPlanRepository(db, redisClient, logger),
		Payment: NewPaymentRepository(db, redisClient, logger),
	}
}
