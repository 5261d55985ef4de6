package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sunpay/installment-service/internal/domain"
	"go.uber.org/zap"
)

const (
	consumerGroup = "installment-processors"
	readBatchSize = 10
	readBlock     = 1 * time.Second
	errorBackoff  = 1 * time.Second
)

type eventDecoder func(data []byte) (domain.DomainEvent, error)

var decoders = map[string]eventDecoder{
	domain.EventTypePaymentProcessed: func(data []byte) (domain.DomainEvent, error) {
		var e domain.PaymentProcessedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	},
}

type RedisEventSubscriber struct {
	client       *redis.Client
	logger       *zap.Logger
	handlers     map[string]domain.EventHandler
	consumerName string
	groupName    string
}

func NewRedisEventSubscriber(client *redis.Client, logger *zap.Logger, consumerName string) *RedisEventSubscriber {
	return &RedisEventSubscriber{
		client:       client,
		logger:       logger,
		handlers:     make(map[string]domain.EventHandler),
		consumerName: consumerName,
		groupName:    consumerGroup,
	}
}

// Subscribe registers handler for eventType. It must be called before Start.
func (s *RedisEventSubscriber) Subscribe(ctx context.Context, eventType string, handler domain.EventHandler) error {
	if _, ok := decoders[eventType]; !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}
	s.handlers[eventType] = handler

	streamKey := StreamKey(eventType)

	err := s.client.XGroupCreateMkStream(ctx, streamKey, s.groupName, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	s.logger.Info("subscribed to event",
		zap.String("event_type", eventType),
		zap.String("stream", streamKey),
		zap.String("group", s.groupName),
	)

	return nil
}

// Start consumes events until ctx is cancelled.
func (s *RedisEventSubscriber) Start(ctx context.Context) error {
	s.logger.Info("starting event subscriber",
		zap.String("consumer", s.consumerName),
		zap.String("group", s.groupName),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping event subscriber")
			return nil
		default:
		}

		if err := s.processEvents(ctx); err != nil && ctx.Err() == nil {
			s.logger.Error("error processing events", zap.Error(err))
			select {
			case <-ctx.Done():
			case <-time.After(errorBackoff):
			}
		}
	}
}

func (s *RedisEventSubscriber) processEvents(ctx context.Context) error {
	for eventType := range s.handlers {
		streamKey := StreamKey(eventType)

		streams, err := s.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    s.groupName,
			Consumer: s.consumerName,
			Streams:  []string{streamKey, ">"},
			Count:    readBatchSize,
			Block:    readBlock,
		}).Result()

		if err != nil {
			if err == redis.Nil {
				continue
			}
			return fmt.Errorf("failed to read from stream: %w", err)
		}

		for _, stream := range streams {
			for _, message := range stream.Messages {
				if err := s.handleMessage(ctx, eventType, message); err != nil {
					s.logger.Error("failed to handle message",
						zap.Error(err),
						zap.String("message_id", message.ID),
						zap.String("stream", streamKey),
					)
					continue
				}

				if err := s.client.XAck(ctx, streamKey, s.groupName, message.ID).Err(); err != nil {
					s.logger.Warn("failed to ack message",
						zap.Error(err),
						zap.String("message_id", message.ID),
					)
				}
			}
		}
	}

	return nil
}

func (s *RedisEventSubscriber) handleMessage(ctx context.Context, eventType string, message redis.XMessage) error {
	handler, exists := s.handlers[eventType]
	if !exists {
		return fmt.Errorf("no handler for event type: %s", eventType)
	}

	event, err := decodeMessage(eventType, message.Values)
	if err != nil {
		return err
	}

	return handler(ctx, event)
}

func decodeMessage(eventType string, values map[string]interface{}) (domain.DomainEvent, error) {
	decode, ok := decoders[eventType]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	eventData, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid event data format")
	}

	event, err := decode([]byte(eventData))
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	return event, nil
}
