package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunpay/installment-service/internal/domain"
)

func TestEventRoundTripThroughStreamValues(t *testing.T) {
	occurred := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	event := domain.NewPaymentProcessedEvent("SP0001", domain.PaymentProcessedPayload{
		PlanID:                "SP0001",
		TransactionReference:  "TXN001",
		Amount:                2_500_000,
		OutstandingBalance:    90_000_000,
		TotalPaid:             60_000_000,
		PaymentProgress:       40,
		RemainingInstallments: 36,
		RemainingTermDays:     1080,
		ProcessedAt:           occurred,
	}, occurred)

	values, err := encodeEvent(event)
	require.NoError(t, err)
	assert.Equal(t, event.GetEventID(), values["event_id"])
	assert.Equal(t, domain.EventTypePaymentProcessed, values["event_type"])
	assert.Equal(t, "SP0001", values["aggregate_id"])
	assert.Equal(t, occurred.Unix(), values["occurred_at"])

	decoded, err := decodeMessage(domain.EventTypePaymentProcessed, values)
	require.NoError(t, err)

	got, ok := decoded.(*domain.PaymentProcessedEvent)
	require.True(t, ok)
	assert.Equal(t, event.Payload, got.Payload)
	assert.Equal(t, event.GetEventID(), got.GetEventID())
}

func TestDecodeMessage_Errors(t *testing.T) {
	_, err := decodeMessage("plan.unknown", map[string]interface{}{"data": "{}"})
	assert.ErrorContains(t, err, "unknown event type")

	_, err = decodeMessage(domain.EventTypePaymentProcessed, map[string]interface{}{"data": 42})
	assert.ErrorContains(t, err, "invalid event data format")

	_, err = decodeMessage(domain.EventTypePaymentProcessed, map[string]interface{}{"data": "{not json"})
	assert.ErrorContains(t, err, "failed to unmarshal event")
}

func TestStreamKey(t *testing.T) {
	assert.Equal(t, "events:payment.processed", StreamKey(domain.EventTypePaymentProcessed))
}
