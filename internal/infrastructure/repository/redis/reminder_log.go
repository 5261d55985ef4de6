package redisrepository

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisReminderLog marks sent reminders with one expiring key each.
type RedisReminderLog struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisReminderLog(client *redis.Client, ttl time.Duration) *RedisReminderLog {
	return &RedisReminderLog{
		client: client,
		ttl:    ttl,
	}
}

func (l *RedisReminderLog) Claim(ctx context.Context, planID string, dueDate time.Time, stage string) (bool, error) {
	wasSet, err := l.client.SetNX(ctx, l.reminderKey(planID, dueDate, stage), 1, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to record reminder: %w", err)
	}
	return wasSet, nil
}

func (l *RedisReminderLog) Release(ctx context.Context, planID string, dueDate time.Time, stage string) error {
	if err := l.client.Del(ctx, l.reminderKey(planID, dueDate, stage)).Err(); err != nil {
		return fmt.Errorf("failed to clear reminder: %w", err)
	}
	return nil
}

func (l *RedisReminderLog) reminderKey(planID string, dueDate time.Time, stage string) string {
	return fmt.Sprintf("reminder:%s:%s:%s", planID, dueDate.UTC().Format("2006-01-02"), stage)
}
