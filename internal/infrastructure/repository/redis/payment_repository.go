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

var ErrPaymentNotCached = errors.New("payment not cached")

// RedisPaymentRepository keeps one key per transaction reference. SETNX on that
// key is the fast path of webhook deduplication.
type RedisPaymentRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPaymentRepository(client *redis.Client, ttl time.Duration) *RedisPaymentRepository {
	return &RedisPaymentRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisPaymentRepository) Save(ctx context.Context, payment *domain.Payment) error {
	key := r.paymentKey(payment.TransactionReference)

	data, err := json.Marshal(payment)
	if err != nil {
		return fmt.Errorf("failed to marshal payment: %w", err)
	}

	wasSet, err := r.client.SetNX(ctx, key, data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	if !wasSet {
		return domain.ErrDuplicateTransaction
	}

	return nil
}

func (r *RedisPaymentRepository) FindByTransactionReference(ctx context.Context, txRef string) (*domain.Payment, error) {
	key := r.paymentKey(txRef)

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPaymentNotCached
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	var payment domain.Payment
	if err := json.Unmarshal(data, &payment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payment: %w", err)
	}

	return &payment, nil
}

func (r *RedisPaymentRepository) ExistsByTransactionReference(ctx context.Context, txRef string) (bool, error) {
	key := r.paymentKey(txRef)

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return exists > 0, nil
}

// Claim reserves txRef with SETNX. Exactly one caller wins until the claim
// expires or is released.
func (r *RedisPaymentRepository) Claim(ctx context.Context, txRef string) (bool, error) {
	wasSet, err := r.client.SetNX(ctx, r.claimKey(txRef), 1, r.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim transaction reference: %w", err)
	}
	return wasSet, nil
}

func (r *RedisPaymentRepository) Release(ctx context.Context, txRef string) error {
	if err := r.client.Del(ctx, r.claimKey(txRef)).Err(); err != nil {
		return fmt.Errorf("failed to release transaction reference: %w", err)
	}
	return nil
}

func (r *RedisPaymentRepository) paymentKey(txRef string) string {
	return fmt.Sprintf("payment:%s", txRef)
}

func (r *RedisPaymentRepository) claimKey(txRef string) string {
	return fmt.Sprintf("payment:%s:claim", txRef)
}
