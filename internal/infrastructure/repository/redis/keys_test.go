package redisrepository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "plan:SP0001", NewRedisPlanRepository(nil, 0).planKey("SP0001"))
	assert.Equal(t, "payment:TXN001", NewRedisPaymentRepository(nil, 0).paymentKey("TXN001"))
	assert.Equal(t, "payment:TXN001:claim", NewRedisPaymentRepository(nil, 0).claimKey("TXN001"))
	assert.Equal(t, "reminder:SP0001:2026-10-20:due",
		NewRedisReminderLog(nil, 0).reminderKey("SP0001", time.Date(2026, 10, 20, 9, 0, 0, 0, time.FixedZone("WAT", 3600)), "due"))
}
