package service

import (
	"context"
	"encoding/json"

	"nichelens-be/internal/entity"
	"nichelens-be/internal/pkg/logger"
	"nichelens-be/internal/pkg/serverutils"
	"nichelens-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService persists request logs published by the request logger
// into analytics_logs, off the request path.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     logger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload serverutils.RequestLog
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ANALYTICS", "Failed to unmarshal request log", map[string]interface{}{"error": err.Error()})
		msg.Ack()
		return
	}
	if payload.UserID == "" || cs.uowFactory == nil {
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	err := uow.AnalyticsLogRepository().Create(ctx, &entity.AnalyticsLog{
		Id:         uuid.New(),
		UserId:     payload.UserID,
		Endpoint:   payload.Endpoint,
		Method:     payload.Method,
		StatusCode: payload.StatusCode,
		DurationMs: payload.DurationMs,
		Timestamp:  payload.Timestamp,
	})
	if err != nil {
		// Analytics are best effort; a failed insert is dropped, not retried.
		cs.logger.Warn("ANALYTICS", "Failed to store request log", map[string]interface{}{
			"user_id": payload.UserID,
			"error":   err.Error(),
		})
	}
	msg.Ack()
}
