package redisrepository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sunpay/installment-service/internal/domain"
)

var ErrPlanNotCached = errors.New("plan not cached")

// RedisPlanRepository is the read-through cache in front of MySQL.
type RedisPlanRepository struct {
	client   *redis.Client
	cacheTTL time.Duration
}

func NewRedisPlanRepository(client *redis.Client, cacheTTL time.Duration) *RedisPlanRepository {
	return &RedisPlanRepository{
		client:   client,
		cacheTTL: cacheTTL,
	}
}

func (r *RedisPlanRepository) FindByID(ctx context.Context, planID string) (*domain.Plan, error) {
	key := r.planKey(planID)

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlanNotCached
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}

	return &plan, nil
}

func (r *RedisPlanRepository) Save(ctx context.Context, plan *domain.Plan) error {
	key := r.planKey(plan.ID)

	data, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal plan: %w", err)
	}

	if err := r.client.Set(ctx, key, data, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	return nil
}

// SaveIfAbsent caches plan only when no entry exists, so a slow cache fill
// never overwrites a newer version written by Save.
func (r *RedisPlanRepository) SaveIfAbsent(ctx context.Context, plan *domain.Plan) (bool, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return false, fmt.Errorf("failed to marshal plan: %w", err)
	}

	wasSet, err := r.client.SetNX(ctx, r.planKey(plan.ID), data, r.cacheTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to save plan: %w", err)
	}
	return wasSet, nil
}

func (r *RedisPlanRepository) Delete(ctx context.Context, planID string) error {
	key := r.planKey(planID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

func (r *RedisPlanRepository) planKey(planID string) string {
	return fmt.Sprintf("plan:%s", planID)
}
